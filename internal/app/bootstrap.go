package app

import (
	"github.com/dshills/previewsync/internal/config"
	"github.com/dshills/previewsync/internal/config/watcher"
	"github.com/dshills/previewsync/internal/event"
	"github.com/dshills/previewsync/internal/protocol"
	"github.com/dshills/previewsync/internal/render"
	"github.com/dshills/previewsync/internal/renderer"
	"github.com/dshills/previewsync/internal/renderer/viewport"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	opts      Options
	initOrder []string
}

// newBootstrapper creates a new bootstrapper for the application.
func newBootstrapper(app *Application, opts Options) *bootstrapper {
	return &bootstrapper{
		app:       app,
		opts:      opts,
		initOrder: make([]string, 0, 4),
	}
}

// bootstrap creates everything that does not need the terminal.
func (b *bootstrapper) bootstrap() error {
	if err := b.initLogger(); err != nil {
		return err
	}
	b.initConfig()
	b.initLoop()
	return nil
}

// initLogger opens the log file. The level from the command line wins over
// the settings.
func (b *bootstrapper) initLogger() error {
	log, closer, err := OpenLogFile(b.opts.LogFile, ParseLogLevel(b.opts.LogLevel))
	if err != nil {
		return NewComponentError("logger", "open", err)
	}
	b.app.log = log
	b.app.logCloser = closer
	return nil
}

// initConfig loads the settings. Errors are non-fatal: the loader returns
// usable settings with the failed values at their defaults.
func (b *bootstrapper) initConfig() {
	settings, err := config.Load(config.DefaultSource(b.opts.ConfigPath))
	if err != nil {
		b.app.log.Warn("config %s: %v", b.opts.ConfigPath, err)
	}
	b.app.settings = settings
	b.app.applyLogLevel(settings)
}

// initLoop creates the event loop, the frame scheduler and the editor
// writer.
func (b *bootstrapper) initLoop() {
	app := b.app
	app.metrics = NewMetrics()
	app.loop = event.NewLoop(
		event.WithPanicHandler(func(p *event.PanicError) {
			app.log.Error("%v\n%s", p, p.Stack)
		}),
		event.WithAfterTask(app.draw),
	)
	app.frames = event.NewFrames(app.loop, event.FrameInterval)
	app.writer = protocol.NewWriter(b.opts.Output)
}

// start brings up the terminal side. On failure, it cleans up
// already-initialized components.
func (b *bootstrapper) start() error {
	if err := b.initBackend(); err != nil {
		b.stop()
		return err
	}
	b.initSession()
	b.initWatcher()
	return nil
}

// initBackend initializes the terminal.
func (b *bootstrapper) initBackend() error {
	if b.app.backend == nil {
		return NewComponentError("backend", "init", ErrNoBackend)
	}
	if err := b.app.backend.Init(); err != nil {
		return NewComponentError("backend", "init", err)
	}
	b.initOrder = append(b.initOrder, "backend")
	return nil
}

// initSession creates the viewport, the renderer and the editor session.
func (b *bootstrapper) initSession() {
	app := b.app
	width, height := app.backend.Size()
	app.view = viewport.NewViewport(width, height)
	app.renderer = renderer.New(app.backend, app.view, render.NewHighlighter(""))

	settings := app.settings
	app.session = NewSession(app.view, app.renderer, SessionOptions{
		Settings: &settings,
		Frames:   app.frames,
		Logger:   app.log,
		Metrics:  app.metrics,
		Sender:   app.writer,
	})
	b.initOrder = append(b.initOrder, "frames")
}

// initWatcher reloads the settings when the file changes. Watch failures
// only disable reloading.
func (b *bootstrapper) initWatcher() {
	app := b.app
	if b.opts.ConfigPath == "" {
		return
	}
	w, err := watcher.New(b.opts.ConfigPath,
		func(path string) {
			app.log.Debug("config changed: %s", path)
			if err := app.loop.Post("config reload", app.reloadConfig); err != nil {
				app.log.Debug("config reload dropped: %v", err)
			}
		},
		watcher.WithErrorHandler(func(err error) {
			app.log.Warn("config watcher: %v", err)
		}),
	)
	if err != nil {
		app.log.Warn("watch %s: %v", b.opts.ConfigPath, err)
		return
	}
	app.watcher = w
	b.initOrder = append(b.initOrder, "watcher")
}

// stop cleans up started components in reverse order.
func (b *bootstrapper) stop() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		b.cleanupComponent(b.initOrder[i])
	}
	b.initOrder = b.initOrder[:0]
}

// cleanupComponent cleans up a single component.
func (b *bootstrapper) cleanupComponent(component string) {
	app := b.app
	switch component {
	case "watcher":
		if err := app.watcher.Close(); err != nil {
			app.log.Warn("close watcher: %v", err)
		}
		app.watcher = nil
	case "frames":
		app.frames.Stop()
	case "backend":
		app.backend.Shutdown()
	}
}

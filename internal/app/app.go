// Package app wires the preview together: the editor transport, the
// terminal, the sync engine and the settings. It owns the event loop that
// every component runs on.
package app

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/dshills/previewsync/internal/config"
	"github.com/dshills/previewsync/internal/config/watcher"
	"github.com/dshills/previewsync/internal/event"
	"github.com/dshills/previewsync/internal/protocol"
	"github.com/dshills/previewsync/internal/renderer"
	"github.com/dshills/previewsync/internal/renderer/backend"
	"github.com/dshills/previewsync/internal/renderer/viewport"
)

// Application is the preview process. It manages component lifecycles and
// the event loop.
type Application struct {
	mu sync.RWMutex

	// Core infrastructure
	log       *Logger
	logCloser io.Closer
	metrics   *Metrics
	loop      *event.Loop
	frames    *event.Frames

	// Settings
	settings config.Settings
	watcher  *watcher.Watcher

	// Terminal
	backend  backend.Backend
	view     *viewport.Viewport
	renderer *renderer.Renderer

	// Editor connection
	writer  *protocol.Writer
	session *Session

	// State
	running atomic.Bool

	// Options
	opts Options
}

// Options configures the application.
type Options struct {
	// ConfigPath is the settings file. It is watched for changes.
	ConfigPath string

	// LogFile receives the log. Empty disables logging.
	LogFile string

	// LogLevel overrides logging.level from the settings.
	LogLevel string

	// Input carries editor records. Defaults to os.Stdin.
	Input io.Reader

	// Output receives records for the editor. Defaults to os.Stdout.
	Output io.Writer
}

// New creates an Application with the given options.
func New(opts Options) (*Application, error) {
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	app := &Application{opts: opts}
	if err := newBootstrapper(app, opts).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// SetBackend sets the terminal backend.
// Must be called before Run().
func (app *Application) SetBackend(b backend.Backend) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}

	app.backend = b
	return nil
}

// Run starts the application main loop.
// Blocks until the editor says goodbye, the viewer quits or ctx is done.
// A normal exit returns ErrQuit.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	app.mu.Lock()
	b := newBootstrapper(app, app.opts)
	err := b.start()
	app.mu.Unlock()
	if err != nil {
		return err
	}
	defer b.stop()

	if err := app.writer.SendInit(); err != nil {
		app.log.Warn("send init: %v", err)
	}

	app.startTransport(app.opts.Input)
	app.startInputPolling()

	err = app.loop.Run(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	app.log.Info("stopped: %s", app.metrics.Snapshot())
	return err
}

// Shutdown stops the event loop. Run returns shortly after.
func (app *Application) Shutdown() {
	app.loop.Stop()
}

// Close releases the log file. Call it after Run has returned.
func (app *Application) Close() error {
	if app.logCloser == nil {
		return nil
	}
	return app.logCloser.Close()
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Logger returns the application logger.
func (app *Application) Logger() *Logger {
	return app.log
}

// Metrics returns the usage counters.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}

// Settings returns the settings loaded at startup or on the last reload.
func (app *Application) Settings() config.Settings {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.settings
}

// Session returns the editor session. It is nil until Run starts.
func (app *Application) Session() *Session {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.session
}

// Renderer returns the renderer. It is nil until Run starts.
func (app *Application) Renderer() *renderer.Renderer {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.renderer
}

// reloadConfig runs on the loop when the settings file changes.
func (app *Application) reloadConfig() error {
	settings, err := config.Load(config.DefaultSource(app.opts.ConfigPath))
	if err != nil {
		app.log.Warn("reload %s: %v", app.opts.ConfigPath, err)
	}

	app.mu.Lock()
	app.settings = settings
	app.mu.Unlock()

	app.applyLogLevel(settings)
	app.session.Reload(settings)
	return nil
}

func (app *Application) applyLogLevel(settings config.Settings) {
	if app.opts.LogLevel != "" {
		return
	}
	app.log.SetLevel(ParseLogLevel(settings.Logging.Level))
}

// draw runs after every successful loop task.
func (app *Application) draw() {
	if app.renderer == nil {
		return
	}
	timer := StartTimer()
	app.renderer.Draw()
	app.metrics.RecordDraw(timer.Elapsed())
}

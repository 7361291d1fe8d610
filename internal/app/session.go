package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/previewsync/internal/config"
	"github.com/dshills/previewsync/internal/preview/arbiter"
	"github.com/dshills/previewsync/internal/preview/overlay"
	"github.com/dshills/previewsync/internal/preview/scroll"
	"github.com/dshills/previewsync/internal/protocol"
	"github.com/dshills/previewsync/internal/render"
	"github.com/dshills/previewsync/internal/renderer"
	"github.com/dshills/previewsync/internal/renderer/viewport"
)

// ActionSender forwards locally triggered config actions to the editor.
type ActionSender interface {
	SendAction(a protocol.Action) error
}

// SessionOptions configures a Session.
type SessionOptions struct {
	// Settings are the loaded settings. Defaults to config.Default().
	Settings *config.Settings

	// Frames schedules animation frames. Required.
	Frames scroll.FrameScheduler

	// Now is the animation clock. Defaults to time.Now.
	Now func() time.Time

	Logger  *Logger
	Metrics *Metrics

	// Sender receives actions triggered by key bindings. May be nil.
	Sender ActionSender

	// Keymap maps key names to commands. Defaults to DefaultKeymap().
	Keymap map[string]string
}

// Session is one editor connection: the document being previewed and the
// sync engine that follows its cursor.
//
// A Session is not safe for concurrent use. The application calls it from
// its event loop only.
type Session struct {
	id      string
	log     *Logger
	metrics *Metrics
	sender  ActionSender
	keymap  map[string]string

	state *config.State

	view       *viewport.Viewport
	renderer   *renderer.Renderer
	controller *scroll.Controller
	marker     *overlay.CursorLine
	arbiter    *arbiter.Arbiter

	path   string
	lines  []string
	loaded bool

	// relayout is set while a new layout or terminal size clamps the
	// scroll position.
	relayout bool
}

// NewSession wires the sync engine to a viewport and renderer.
func NewSession(view *viewport.Viewport, rend *renderer.Renderer, opts SessionOptions) *Session {
	settings := config.Default()
	if opts.Settings != nil {
		settings = *opts.Settings
	}
	if opts.Logger == nil {
		opts.Logger = NullLogger
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}
	if opts.Keymap == nil {
		opts.Keymap = DefaultKeymap()
	}

	id := uuid.NewString()
	s := &Session{
		id:       id,
		log:      opts.Logger.WithField("session", id[:8]),
		metrics:  opts.Metrics,
		sender:   opts.Sender,
		keymap:   opts.Keymap,
		state:    config.NewState(settings),
		view:     view,
		renderer: rend,
	}

	eff := s.state.Effective()
	s.controller = scroll.NewController(view, opts.Frames, scroll.Options{
		HalfLife: eff.HalfLife(),
		Now:      opts.Now,
		Logger:   s.log.WithComponent("scroll"),
	})

	s.marker = overlay.NewCursorLine(eff.CursorStyle())
	s.marker.OnChange(rend.SetMarker)

	s.arbiter = arbiter.New(s.controller, s.marker, view, arbiter.Options{
		TopOffsetPct: eff.TopOffsetPct(),
		OnModeChange: s.modeChanged,
		Logger:       s.log.WithComponent("arbiter"),
	})
	view.OnScroll(s.scrolled)
	rend.SetMode(modeLabel(s.arbiter.Mode()))

	s.log.Info("session started: %s", eff)
	return s
}

// ID returns the session identifier used in log lines.
func (s *Session) ID() string {
	return s.id
}

// Mode returns the arbitration mode.
func (s *Session) Mode() arbiter.Mode {
	return s.arbiter.Mode()
}

// Path returns the path of the previewed document.
func (s *Session) Path() string {
	return s.path
}

// Settings returns the settings in force, overrides included.
func (s *Session) Settings() config.Settings {
	return s.state.Effective()
}

// Handle applies one editor message. ErrQuit is returned for goodbye; any
// other error leaves the session usable.
func (s *Session) Handle(msg protocol.Message) error {
	timer := StartTimer()
	defer func() { s.metrics.RecordMessage(timer.Elapsed()) }()

	s.log.Debug("message %s path=%q", msg.Kind, msg.CurrentPath)

	switch msg.Kind {
	case protocol.KindInit, protocol.KindEntry:
		return s.handleOpen(msg)
	case protocol.KindCursorMove:
		return s.handleCursorMove(msg)
	case protocol.KindContentChange:
		return s.handleContentChange(msg)
	case protocol.KindUpdateConfig:
		return s.handleUpdateConfig(msg)
	case protocol.KindGoodbye:
		s.log.Info("editor said goodbye")
		return ErrQuit
	default:
		return fmt.Errorf("%w: %s", ErrUnknownMessage, msg.Kind)
	}
}

// Resize relays out the document for a new terminal size.
func (s *Session) Resize(width, height int) error {
	s.relayoutWith(func() { s.view.Resize(width, height) })
	if !s.loaded {
		return nil
	}
	return s.load(s.path, s.lines)
}

// ApplyAction applies a runtime override, as sent by the editor or bound to
// a key.
func (s *Session) ApplyAction(name string, arg any) error {
	a, err := config.ParseAction(name, arg)
	if err != nil {
		return NewOperationError("apply action", name, err)
	}
	s.state.Apply(a)
	s.applySettings()
	s.renderer.SetMessage(describeAction(a, s.state.Effective()))
	return nil
}

// Reload replaces the loaded settings. Runtime overrides stay in force.
func (s *Session) Reload(settings config.Settings) {
	s.state.Reload(settings)
	s.applySettings()
	s.metrics.RecordReload()
	s.log.Info("settings reloaded: %s", s.state.Effective())
}

func (s *Session) applySettings() {
	eff := s.state.Effective()
	s.arbiter.SetTopOffsetPct(eff.TopOffsetPct())
	s.controller.SetHalfLife(eff.HalfLife())
	s.marker.SetStyle(eff.CursorStyle())
}

// load lays out lines and rebuilds the offset table. On failure the previous
// table stays in use.
func (s *Session) load(path string, lines []string) error {
	if path == "" {
		path = s.path
	}
	s.path, s.lines, s.loaded = path, lines, true

	timer := StartTimer()
	var (
		blocks []render.Block
		layout *render.Layout
	)
	s.relayoutWith(func() { blocks, layout = s.renderer.Layout(path, lines) })
	err := s.arbiter.Rendered(render.OffsetBlocks(blocks), layout)
	s.metrics.RecordRender(timer.Elapsed())
	if err != nil {
		s.log.Error("offset table for %s: %v", path, err)
		return NewOperationError("render", path, err)
	}
	s.log.Debug("rendered %s: %d lines, %d blocks", path, len(lines), len(blocks))
	return nil
}

// scrolled forwards container scrolls to the arbiter. A clamp caused by a
// relayout is not viewer input; Rendered retargets the animation instead.
func (s *Session) scrolled(y float64) {
	if s.relayout {
		s.log.Debug("relayout clamped scroll to %.0f", y)
		return
	}
	s.arbiter.Scrolled(y)
}

func (s *Session) relayoutWith(fn func()) {
	s.relayout = true
	defer func() { s.relayout = false }()
	fn()
}

func (s *Session) modeChanged(from, to arbiter.Mode) {
	s.metrics.RecordModeChange(to)
	s.renderer.SetMode(modeLabel(to))
	s.log.Debug("mode %s -> %s (refresh %.0f Hz)", from, to, s.controller.Rate())
}

// modeLabel is the header text for a mode. Idle shows nothing.
func modeLabel(m arbiter.Mode) string {
	if m == arbiter.Idle {
		return ""
	}
	return strings.ToUpper(m.String())
}

func describeAction(a config.Action, eff config.Settings) string {
	switch a.Kind {
	case config.ActionClearOverrides:
		return "overrides cleared"
	case config.ActionScroll:
		return "scroll " + onOff(!eff.Scroll.Disable)
	case config.ActionScrollOffset:
		return fmt.Sprintf("offset %g%%", eff.Scroll.TopOffsetPct)
	case config.ActionCursorLine:
		return "cursorline " + onOff(!eff.CursorLine.Disable)
	case config.ActionCursorLineColor:
		return "cursorline " + eff.CursorLine.Color
	case config.ActionCursorLineOpacity:
		return fmt.Sprintf("opacity %g", eff.CursorLine.Opacity)
	default:
		return ""
	}
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

package app

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/dshills/previewsync/internal/config"
	"github.com/dshills/previewsync/internal/preview/arbiter"
	"github.com/dshills/previewsync/internal/protocol"
	"github.com/dshills/previewsync/internal/render"
	"github.com/dshills/previewsync/internal/renderer/backend"
	"github.com/dshills/previewsync/internal/renderer/viewport"
)

// command is what a key binding runs.
type command func(s *Session) error

var commands = map[string]command{
	"view.lineDown": func(s *Session) error { s.view.ScrollBy(render.RowHeight); return nil },
	"view.lineUp":   func(s *Session) error { s.view.ScrollBy(-render.RowHeight); return nil },
	"view.pageDown": func(s *Session) error { s.view.PageDown(); return nil },
	"view.pageUp":   func(s *Session) error { s.view.PageUp(); return nil },
	"view.top":      func(s *Session) error { s.view.ScrollToTop(); return nil },
	"view.bottom":   func(s *Session) error { s.view.ScrollToBottom(); return nil },

	"sync.scroll": func(s *Session) error {
		return s.forward(string(config.ActionScroll), switchArg(s.Settings().Scroll.Disable))
	},
	"sync.cursorline": func(s *Session) error {
		return s.forward(string(config.ActionCursorLine), switchArg(s.Settings().CursorLine.Disable))
	},
	"sync.offsetDown": func(s *Session) error {
		return s.forward(string(config.ActionScrollOffset), math.Min(100, s.Settings().Scroll.TopOffsetPct+OffsetStep))
	},
	"sync.offsetUp": func(s *Session) error {
		return s.forward(string(config.ActionScrollOffset), math.Max(0, s.Settings().Scroll.TopOffsetPct-OffsetStep))
	},
	"sync.clearOverrides": func(s *Session) error {
		return s.forward(string(config.ActionClearOverrides), nil)
	},

	"app.quit":   func(*Session) error { return ErrQuit },
	"app.redraw": func(*Session) error { return nil },
}

// switchArg turns a toggle into an explicit value so that the editor
// echoing it back is harmless.
func switchArg(disabled bool) string {
	if disabled {
		return string(config.SwitchOn)
	}
	return string(config.SwitchOff)
}

// HandleEvent processes a terminal event. It returns ErrQuit when the viewer
// asks to exit.
func (s *Session) HandleEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventResize:
		return s.Resize(ev.Width, ev.Height)
	case backend.EventKey:
		return s.handleKey(ev)
	case backend.EventMouse:
		s.handleMouse(ev)
		return nil
	default:
		return nil
	}
}

func (s *Session) handleKey(ev backend.Event) error {
	name := keyName(ev)
	if name == "" {
		return nil
	}
	cmd, ok := commands[s.keymap[name]]
	if !ok {
		return nil
	}
	s.log.Debug("key %s -> %s", name, s.keymap[name])
	return cmd(s)
}

// handleMouse scrolls on the wheel. The intent is reported before the view
// moves so an animation in progress gives way to the viewer.
func (s *Session) handleMouse(ev backend.Event) {
	switch ev.MouseButton {
	case backend.MouseWheelUp:
		s.arbiter.Input(arbiter.InputWheel)
		s.view.ScrollBy(-viewport.WheelStep)
	case backend.MouseWheelDown:
		s.arbiter.Input(arbiter.InputWheel)
		s.view.ScrollBy(viewport.WheelStep)
	}
}

// forward applies an action locally and tells the editor about it.
func (s *Session) forward(name string, arg any) error {
	if err := s.ApplyAction(name, arg); err != nil {
		return err
	}
	if s.sender == nil {
		return nil
	}
	if err := s.sender.SendAction(protocol.Action{Name: name, Arg: arg}); err != nil {
		return NewComponentError("transport", "send action", err)
	}
	return nil
}

var keyNames = map[backend.Key]string{
	backend.KeyEscape:   "<Esc>",
	backend.KeyEnter:    "<CR>",
	backend.KeyHome:     "<Home>",
	backend.KeyEnd:      "<End>",
	backend.KeyPageUp:   "<PageUp>",
	backend.KeyPageDown: "<PageDown>",
	backend.KeyUp:       "<Up>",
	backend.KeyDown:     "<Down>",
	backend.KeyCtrlC:    "<C-c>",
	backend.KeyCtrlL:    "<C-l>",
}

// keyName returns the keymap name of a key event, or "".
func keyName(ev backend.Event) string {
	if ev.Key == backend.KeyRune {
		if ev.Rune == 0 || ev.Mod.Has(backend.ModCtrl) || ev.Mod.Has(backend.ModAlt) {
			return ""
		}
		return string(ev.Rune)
	}
	return keyNames[ev.Key]
}

// startInputPolling feeds terminal events to the loop until the loop stops.
// PollEvent blocks; shutting the backend down unblocks it.
func (app *Application) startInputPolling() {
	go func() {
		for {
			ev := app.backend.PollEvent()
			if ev.Type == backend.EventNone {
				select {
				case <-app.loop.Done():
					return
				default:
					continue
				}
			}
			err := app.loop.Post("input", func() error {
				return app.recoverable(app.session.HandleEvent(ev))
			})
			if err != nil {
				return
			}
		}
	}()
}

// startTransport reads editor records until the stream ends. End of input
// means the editor is gone and quits the preview.
func (app *Application) startTransport(r io.Reader) {
	go func() {
		reader := protocol.NewReader(r)
		for {
			msg, err := reader.Next()
			switch {
			case err == nil:
				line := reader.Line()
				err = app.loop.Post("message", func() error {
					return app.recoverable(recordError(app.session.Handle(msg), msg.Kind, line))
				})
				if err != nil {
					return
				}
			case errors.Is(err, protocol.ErrMalformed), errors.Is(err, protocol.ErrUnknownType):
				app.metrics.RecordMalformed()
				app.log.Warn("skipping record: %v", err)
			case errors.Is(err, io.EOF):
				app.log.Info("editor closed the stream")
				_ = app.loop.Post("transport closed", func() error { return ErrQuit })
				return
			default:
				_ = app.loop.Post("transport failed", func() error {
					return NewComponentError("transport", "read", err)
				})
				return
			}
		}
	}()
}

// recordError names the editor record a session error came from.
func recordError(err error, kind protocol.Kind, line int) error {
	if err == nil || errors.Is(err, ErrQuit) {
		return err
	}
	return NewOperationError("handle", string(kind), err).WithContext(fmt.Sprintf("record %d", line))
}

// recoverable logs errors the session survives. Only ErrQuit ends the loop.
func (app *Application) recoverable(err error) error {
	if err == nil || errors.Is(err, ErrQuit) {
		return err
	}
	app.log.Error("%v", err)
	return nil
}

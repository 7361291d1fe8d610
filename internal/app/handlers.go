package app

import (
	"github.com/dshills/previewsync/internal/config"
	"github.com/dshills/previewsync/internal/protocol"
)

// handleOpen processes init and entry records: a fresh document with an
// optional line fragment to jump to.
func (s *Session) handleOpen(msg protocol.Message) error {
	s.arbiter.Reset()
	s.arbiter.SetPendingNavigation(protocol.ParseHash(msg.Hash))
	s.renderer.SetMessage("")

	var errs ErrorList
	errs.Add(s.load(msg.CurrentPath, msg.Lines))
	s.arbiter.CursorMoved(msg.CursorLine)
	return errs.AsError()
}

// handleCursorMove follows the cursor. The record carries lines when the
// editor switched files since the last message.
func (s *Session) handleCursorMove(msg protocol.Message) error {
	var errs ErrorList
	if msg.HasLines {
		errs.Add(s.load(msg.CurrentPath, msg.Lines))
	}
	s.arbiter.CursorMoved(msg.CursorLine)
	return errs.AsError()
}

// handleContentChange re-renders the document. The cursor is not moved; the
// editor sends a cursor_move of its own when it needs one.
func (s *Session) handleContentChange(msg protocol.Message) error {
	lines := msg.Lines
	if !msg.HasLines {
		if !s.loaded {
			return NewOperationError("content change", msg.CurrentPath, ErrNoDocument)
		}
		lines = s.lines
	}
	return s.load(msg.CurrentPath, lines)
}

// handleUpdateConfig applies a single action or replaces the editor-side
// settings.
func (s *Session) handleUpdateConfig(msg protocol.Message) error {
	if msg.Action != nil {
		return s.ApplyAction(msg.Action.Name, msg.Action.Arg)
	}

	settings, err := config.Decode(msg.Config)
	s.Reload(settings)
	if err != nil {
		return NewOperationError("update config", "", err)
	}
	return nil
}

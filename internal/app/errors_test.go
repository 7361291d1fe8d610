package app

import (
	"errors"
	"io"
	"testing"

	"github.com/dshills/previewsync/internal/protocol"
)

func TestOperationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *OperationError
		expected string
	}{
		{"nil error", nil, ""},
		{"op only", &OperationError{Op: "render"}, "render"},
		{"op and target", &OperationError{Op: "render", Target: "README.md"}, "render README.md"},
		{
			name:     "full chain",
			err:      &OperationError{Op: "reload", Target: "/cfg.toml", Context: "watch", Err: errors.New("bad key")},
			expected: "reload /cfg.toml (watch): bad key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = '%s', expected '%s'", got, tt.expected)
			}
		})
	}
}

func TestOperationError_Unwrap(t *testing.T) {
	err := NewOperationError("read", "stdin", io.ErrUnexpectedEOF).WithContext("line 3")
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("expected wrapped error to match")
	}

	var nilErr *OperationError
	if nilErr.WithContext("x") != nil || nilErr.Unwrap() != nil {
		t.Error("nil receiver should stay nil")
	}
}

func TestComponentError_Error(t *testing.T) {
	cause := errors.New("closed")
	tests := []struct {
		err      *ComponentError
		expected string
	}{
		{NewComponentError("backend", "init", cause), "backend: init: closed"},
		{NewComponentError("backend", "init", nil), "backend: init"},
		{NewComponentError("backend", "", cause), "backend: closed"},
		{NewComponentError("backend", "", nil), "backend"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.expected {
			t.Errorf("Error() = '%s', expected '%s'", got, tt.expected)
		}
	}
	if !errors.Is(NewComponentError("transport", "read", ErrQuit), ErrQuit) {
		t.Error("expected component error to unwrap")
	}
}

func TestErrorList(t *testing.T) {
	var list ErrorList
	if list.AsError() != nil {
		t.Error("empty list should not be an error")
	}

	list.Add(nil)
	list.Add(ErrNoDocument)
	if len(list) != 1 {
		t.Fatalf("expected 1 error, got %d", len(list))
	}
	if list.Error() != ErrNoDocument.Error() {
		t.Errorf("unexpected single message %q", list.Error())
	}

	list.Add(ErrUnknownMessage)
	if list.Error() != "2 errors: first: no document loaded" {
		t.Errorf("unexpected message %q", list.Error())
	}

	err := list.AsError()
	if !errors.Is(err, ErrUnknownMessage) || !errors.Is(err, ErrNoDocument) {
		t.Error("errors.Is should see every collected error")
	}
}

func TestRecordError(t *testing.T) {
	if recordError(nil, protocol.KindInit, 1) != nil {
		t.Error("nil should stay nil")
	}
	if err := recordError(ErrQuit, protocol.KindGoodbye, 2); err != ErrQuit {
		t.Errorf("ErrQuit must pass through unchanged, got %v", err)
	}

	err := recordError(NewOperationError("content change", "doc.md", ErrNoDocument), protocol.KindContentChange, 7)
	if !errors.Is(err, ErrNoDocument) {
		t.Error("expected wrapped sentinel")
	}
	want := "handle content_change (record 7): content change doc.md: no document loaded"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

package event

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestPanicError(t *testing.T) {
	err := &PanicError{Task: "message", Value: "index out of range", Stack: []byte("goroutine 1")}

	if got := err.Error(); got != `task "message" panicked: index out of range` {
		t.Errorf("unexpected message %q", got)
	}
	if !errors.Is(err, ErrTaskPanic) {
		t.Error("expected errors.Is to match ErrTaskPanic")
	}
	if errors.Is(err, ErrLoopStopped) {
		t.Error("should not match unrelated sentinels")
	}

	wrapped := fmt.Errorf("loop: %w", err)
	var perr *PanicError
	if !errors.As(wrapped, &perr) || perr.Task != "message" {
		t.Errorf("expected errors.As to find the panic, got %v", wrapped)
	}
	if !strings.Contains(string(perr.Stack), "goroutine") {
		t.Error("stack should be kept")
	}
}

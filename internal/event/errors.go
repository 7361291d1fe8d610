package event

import (
	"errors"
	"fmt"
)

// Sentinel errors for the event loop.
var (
	// ErrLoopStopped is returned when posting to a loop that has stopped.
	ErrLoopStopped = errors.New("event loop is stopped")

	// ErrLoopAlreadyRunning is returned when Run is called twice.
	ErrLoopAlreadyRunning = errors.New("event loop is already running")

	// ErrQueueFull is returned by TryPost when the queue has no room.
	ErrQueueFull = errors.New("event queue is full")

	// ErrTaskPanic is matched by PanicError.
	ErrTaskPanic = errors.New("task panicked")
)

// PanicError describes a recovered task panic.
type PanicError struct {
	// Task is the name the task was posted with.
	Task string

	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace at the time of the panic.
	Stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("task %q panicked: %v", e.Task, e.Value)
}

// Is allows errors.Is to match PanicError with ErrTaskPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrTaskPanic
}

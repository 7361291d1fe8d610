package app

import (
	"errors"
	"fmt"
	"strings"
)

// Application errors.
var (
	// ErrQuit signals that the application should exit normally.
	ErrQuit = errors.New("quit requested")

	// ErrAlreadyRunning indicates the application is already running.
	ErrAlreadyRunning = errors.New("application already running")

	// ErrNoBackend indicates Run was called without a terminal backend.
	ErrNoBackend = errors.New("no backend set")

	// ErrNoDocument indicates a message needs a document that was never loaded.
	ErrNoDocument = errors.New("no document loaded")

	// ErrUnknownMessage indicates a transport message of an unhandled type.
	ErrUnknownMessage = errors.New("unknown message type")
)

// OperationError is a failed session operation, such as rendering a
// document or applying a config action.
type OperationError struct {
	Op      string // "render", "apply action", ...
	Target  string // path, action name or record type
	Context string // where it happened, e.g. "record 12"
	Err     error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{Op: op, Target: target, Err: err}
}

// WithContext sets Context and returns e. A nil receiver stays nil.
func (e *OperationError) WithContext(ctx string) *OperationError {
	if e != nil {
		e.Context = ctx
	}
	return e
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Target != "" {
		b.WriteString(" " + e.Target)
	}
	if e.Context != "" {
		b.WriteString(" (" + e.Context + ")")
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ComponentError is a failure of one of the application's components: the
// terminal, the transport or the log file.
type ComponentError struct {
	Component string
	Action    string
	Err       error
}

// NewComponentError creates a new ComponentError.
func NewComponentError(component, action string, err error) *ComponentError {
	return &ComponentError{Component: component, Action: action, Err: err}
}

func (e *ComponentError) Error() string {
	if e == nil {
		return ""
	}
	parts := []string{e.Component}
	if e.Action != "" {
		parts = append(parts, e.Action)
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *ComponentError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ErrorList collects the failures of one message, e.g. a failed render
// followed by a cursor update.
type ErrorList []error

// Add appends err. Nil errors are ignored.
func (l *ErrorList) Add(err error) {
	if err != nil {
		*l = append(*l, err)
	}
}

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return ""
	case 1:
		return l[0].Error()
	default:
		return fmt.Sprintf("%d errors: first: %v", len(l), l[0])
	}
}

// Unwrap exposes every collected error to errors.Is and errors.As.
func (l ErrorList) Unwrap() []error {
	return l
}

// AsError returns nil for an empty list and the list otherwise.
func (l ErrorList) AsError() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

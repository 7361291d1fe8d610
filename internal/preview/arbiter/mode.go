package arbiter

// Mode is the arbitration state.
type Mode int

const (
	// Idle means nothing is moving the viewport.
	Idle Mode = iota
	// AutoScrolling means the editor cursor drives the viewport.
	AutoScrolling
	// ManualOverride means the viewer scrolled and auto scrolling is
	// suppressed until the next cursor event.
	ManualOverride
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case AutoScrolling:
		return "auto"
	case ManualOverride:
		return "manual"
	default:
		return "unknown"
	}
}

// Input is a viewer-originated intent signal.
type Input int

const (
	InputWheel Input = iota
	InputTouchStart
	InputTouchMove
)

// String returns the input name.
func (i Input) String() string {
	switch i {
	case InputWheel:
		return "wheel"
	case InputTouchStart:
		return "touchstart"
	case InputTouchMove:
		return "touchmove"
	default:
		return "unknown"
	}
}

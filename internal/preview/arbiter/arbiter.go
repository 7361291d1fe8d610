// Package arbiter decides whether the editor cursor or the viewer controls
// the scroll position of the preview.
//
// The Arbiter owns the current offset table, the cursor line and the
// interaction mode. Editor cursor events arm auto scrolling; wheel and touch
// input, or any scroll the animation did not cause, hands control to the
// viewer until the next cursor event.
package arbiter

import (
	"github.com/dshills/previewsync/internal/preview/offset"
)

// Scroller moves the viewport. *scroll.Controller implements it.
type Scroller interface {
	SetTarget(target float64, animate bool)
	Cancel()
	Active() bool
	Owns(pos float64) bool
	SetOnSettle(fn func())
}

// Overlay is the cursor line marker.
type Overlay interface {
	Show(top float64)
	Hide()
}

// Viewport provides the geometry needed to turn a line offset into a scroll
// position.
type Viewport interface {
	// ContainerOffsetTop is the scroll container's offset within the page.
	ContainerOffsetTop() float64
	// ScreenHeight is the height of the screen the view is shown on.
	ScreenHeight() float64
}

// Navigation is a one-shot scroll request from a URL fragment.
type Navigation struct {
	LineStart int
}

// Logger is the logging surface used by the arbiter.
type Logger interface {
	Debug(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}

// Options configures an Arbiter.
type Options struct {
	// TopOffsetPct places the cursor line this percentage of the screen
	// height below the top of the view. Nil disables synced scrolling; the
	// overlay is still maintained.
	TopOffsetPct *float64

	// OnModeChange is called after every mode transition.
	OnModeChange func(from, to Mode)

	// Logger receives debug output. May be nil.
	Logger Logger
}

// Arbiter is the interaction state machine. Like the scroll controller it
// expects all calls on a single goroutine.
type Arbiter struct {
	scroller Scroller
	overlay  Overlay
	viewport Viewport

	mode    Mode
	table   *offset.Table
	cursor  *int
	pending *Navigation

	topOffsetPct *float64
	onModeChange func(from, to Mode)
	log          Logger
}

// New creates an Arbiter in Idle mode with an empty table.
func New(scroller Scroller, overlay Overlay, viewport Viewport, opts Options) *Arbiter {
	a := &Arbiter{
		scroller:     scroller,
		overlay:      overlay,
		viewport:     viewport,
		mode:         Idle,
		table:        offset.Empty(),
		topOffsetPct: copyFloat(opts.TopOffsetPct),
		onModeChange: opts.OnModeChange,
		log:          opts.Logger,
	}
	if a.log == nil {
		a.log = nopLogger{}
	}
	scroller.SetOnSettle(a.settled)
	return a
}

// Mode returns the current mode.
func (a *Arbiter) Mode() Mode {
	return a.mode
}

// Table returns the current offset table.
func (a *Arbiter) Table() *offset.Table {
	return a.table
}

// PendingNavigation returns the unconsumed navigation request, or nil.
func (a *Arbiter) PendingNavigation() *Navigation {
	if a.pending == nil {
		return nil
	}
	nav := *a.pending
	return &nav
}

// SetPendingNavigation records a one-shot navigation target. It is applied
// by the next cursor event that carries no line.
func (a *Arbiter) SetPendingNavigation(nav *Navigation) {
	if nav == nil {
		a.pending = nil
		return
	}
	n := *nav
	a.pending = &n
}

// SetTopOffsetPct changes the cursor placement. Nil disables synced
// scrolling and stops any running animation.
func (a *Arbiter) SetTopOffsetPct(pct *float64) {
	a.topOffsetPct = copyFloat(pct)
	if pct == nil {
		a.scroller.Cancel()
		a.idleUnlessAnimating()
	}
}

// CursorMoved handles an editor cursor event. A nil line means the editor
// has no line context.
func (a *Arbiter) CursorMoved(line *int) {
	a.cursor = copyInt(line)

	if line != nil {
		if a.table.IsEmpty() {
			// Armed: the first render scrolls to the cursor.
			a.transition(AutoScrolling)
			return
		}
		// The fragment only applies to a view opened without a cursor.
		a.pending = nil
		if a.topOffsetPct == nil {
			a.transition(Idle)
		} else {
			a.transition(AutoScrolling)
		}
		a.sync()
		return
	}

	a.overlay.Hide()
	if a.table.IsEmpty() {
		return
	}

	if a.pending != nil {
		nav := *a.pending
		a.pending = nil
		e, ok := a.table.Lookup(nav.LineStart)
		if !ok {
			return
		}
		a.log.Debug("navigating to fragment line %d", nav.LineStart)
		if a.topOffsetPct == nil {
			return
		}
		a.transition(AutoScrolling)
		a.scrollTo(e.Offset)
		return
	}

	a.scroller.SetTarget(0, false)
	a.transition(Idle)
}

// Rendered rebuilds the offset table from a new set of blocks. The overlay
// follows the new layout and a running auto scroll is retargeted. On error
// the previous table is kept.
func (a *Arbiter) Rendered(blocks []offset.Block, m offset.Measurer) error {
	table, err := offset.Build(blocks, m)
	if err != nil {
		return err
	}
	a.table = table
	a.log.Debug("offset table rebuilt: %d blocks, %d lines", len(blocks), table.Len())

	if a.cursor == nil {
		a.overlay.Hide()
		return nil
	}
	a.sync()
	return nil
}

// Input handles a viewer intent signal.
func (a *Arbiter) Input(kind Input) {
	if a.mode != AutoScrolling {
		return
	}
	a.log.Debug("%s input interrupts auto scroll", kind)
	a.interrupt()
}

// Scrolled handles a scroll notification from the container. Scrolls
// caused by the controller itself are ignored.
func (a *Arbiter) Scrolled(pos float64) {
	if a.scroller.Owns(pos) {
		return
	}
	if a.mode != AutoScrolling {
		return
	}
	a.log.Debug("foreign scroll to %.1f interrupts auto scroll", pos)
	a.interrupt()
}

// Reset cancels any animation and returns to Idle. Safe to call at any time.
func (a *Arbiter) Reset() {
	a.scroller.Cancel()
	a.transition(Idle)
}

// sync positions the overlay for the current cursor and, when auto
// scrolling, moves the viewport to it.
func (a *Arbiter) sync() {
	defer a.idleUnlessAnimating()

	e, ok := a.table.Lookup(*a.cursor)
	if !ok {
		a.overlay.Hide()
		if a.mode == AutoScrolling {
			a.scroller.Cancel()
		}
		return
	}
	if b, ok := a.table.Block(e.Block); ok {
		a.log.Debug("cursor line %d at %.1f in block %s", *a.cursor, e.Offset, b.ID)
	}
	a.overlay.Show(e.Offset)

	if a.mode != AutoScrolling {
		return
	}
	a.scrollTo(e.Offset)
}

func (a *Arbiter) scrollTo(lineOffset float64) {
	if a.topOffsetPct == nil {
		return
	}
	target := lineOffset + a.viewport.ContainerOffsetTop() - a.viewport.ScreenHeight()*(*a.topOffsetPct/100)
	a.scroller.SetTarget(target, true)
}

// idleUnlessAnimating ends an auto scroll that has nothing left to animate.
func (a *Arbiter) idleUnlessAnimating() {
	if a.mode == AutoScrolling && !a.scroller.Active() {
		a.transition(Idle)
	}
}

func (a *Arbiter) interrupt() {
	a.scroller.Cancel()
	a.transition(ManualOverride)
}

func (a *Arbiter) settled() {
	if a.mode == AutoScrolling {
		a.transition(Idle)
	}
}

func (a *Arbiter) transition(to Mode) {
	from := a.mode
	if from == to {
		return
	}
	a.mode = to
	a.log.Debug("mode %s -> %s", from, to)
	if a.onModeChange != nil {
		a.onModeChange(from, to)
	}
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Package scroll animates the vertical scroll position of a view toward a
// target offset.
package scroll

import (
	"math"
	"time"
)

// Default animation parameters.
const (
	// DefaultHalfLife is the time it takes to cover half the remaining
	// distance to the target.
	DefaultHalfLife = 100 * time.Millisecond

	// DefaultRate is the initial refresh rate estimate in Hz. It converges
	// on the measured rate within a few frames.
	DefaultRate = 20.0
)

// Surface is the scrollable container.
type Surface interface {
	// ScrollTop returns the observable scroll position. Implementations
	// may round or clamp it.
	ScrollTop() float64

	// SetScrollTop assigns the scroll position. It may synchronously
	// notify scroll listeners.
	SetScrollTop(y float64)
}

// FrameID identifies a requested frame callback.
type FrameID uint64

// FrameScheduler runs callbacks once per display refresh.
type FrameScheduler interface {
	// RequestFrame schedules fn for the next refresh.
	RequestFrame(fn func(now time.Time)) FrameID

	// CancelFrame drops a pending callback. Unknown IDs are ignored.
	CancelFrame(id FrameID)
}

// Logger is the logging surface used by the controller.
type Logger interface {
	Debug(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}

// Options configures a Controller.
type Options struct {
	// HalfLife controls convergence speed. Defaults to DefaultHalfLife.
	HalfLife time.Duration

	// Rate is the initial refresh rate estimate. Defaults to DefaultRate.
	Rate float64

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// OnSettle is called when an animation stops on its own.
	OnSettle func()

	// Logger receives debug output. May be nil.
	Logger Logger
}

// Controller owns at most one scroll animation at a time.
//
// It is not safe for concurrent use; all calls, including frame callbacks,
// are expected on one goroutine.
type Controller struct {
	surface Surface
	frames  FrameScheduler

	halfLife float64
	rate     float64
	now      func() time.Time
	onSettle func()
	log      Logger

	target   float64
	active   bool
	frame    FrameID
	lastStep time.Time

	lastObserved float64
	observed     bool

	writing     bool
	lastWritten float64
	written     bool
}

// NewController creates a controller driving surface with frames.
func NewController(surface Surface, frames FrameScheduler, opts Options) *Controller {
	if opts.HalfLife <= 0 {
		opts.HalfLife = DefaultHalfLife
	}
	if opts.Rate <= 0 {
		opts.Rate = DefaultRate
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = nopLogger{}
	}
	return &Controller{
		surface:  surface,
		frames:   frames,
		halfLife: opts.HalfLife.Seconds(),
		rate:     opts.Rate,
		now:      opts.Now,
		onSettle: opts.OnSettle,
		log:      opts.Logger,
	}
}

// SetOnSettle replaces the settle callback.
func (c *Controller) SetOnSettle(fn func()) {
	c.onSettle = fn
}

// SetHalfLife changes the convergence speed. It applies to the next step.
func (c *Controller) SetHalfLife(d time.Duration) {
	if d > 0 {
		c.halfLife = d.Seconds()
	}
}

// SetTarget moves the view toward target.
//
// Without animation the position is assigned immediately and any running
// animation is cancelled. With animation a running animation is retargeted
// in place; otherwise a new one is started.
func (c *Controller) SetTarget(target float64, animate bool) {
	if !animate {
		c.Cancel()
		c.target = target
		c.write(target)
		return
	}

	c.target = target
	// Movement toward a new target must not be mistaken for having
	// stopped at the old one.
	c.observed = false

	if c.active {
		return
	}
	c.active = true
	c.lastStep = c.now().Add(-time.Duration(float64(time.Second) / c.rate))
	c.frame = c.frames.RequestFrame(c.step)
}

// Cancel stops any running animation. It is always safe to call.
func (c *Controller) Cancel() {
	if !c.active {
		return
	}
	c.frames.CancelFrame(c.frame)
	c.active = false
	c.frame = 0
	c.observed = false
}

// Active returns true while an animation is running.
func (c *Controller) Active() bool {
	return c.active
}

// Target returns the most recent target.
func (c *Controller) Target() float64 {
	return c.target
}

// Position returns the observable scroll position.
func (c *Controller) Position() float64 {
	return c.surface.ScrollTop()
}

// Rate returns the current refresh rate estimate.
func (c *Controller) Rate() float64 {
	return c.rate
}

// Owns reports whether a scroll notification at pos was caused by the
// controller: either a write is in progress or pos is where the last write
// landed.
func (c *Controller) Owns(pos float64) bool {
	if c.writing {
		return true
	}
	return c.written && math.Round(pos) == math.Round(c.lastWritten)
}

func (c *Controller) step(now time.Time) {
	c.frame = 0
	if !c.active {
		return
	}

	current := c.surface.ScrollTop()
	dt := now.Sub(c.lastStep).Seconds()
	c.lastStep = now

	if c.observed && current == c.lastObserved {
		c.active = false
		c.observed = false
		c.log.Debug("scroll settled at %.1f (target %.1f, rate %.1f Hz)", current, c.target, c.rate)
		if c.onSettle != nil {
			c.onSettle()
		}
		return
	}

	next, rate := Smooth(current, c.target, dt, c.rate, c.halfLife)
	c.rate = rate
	c.lastObserved = current
	c.observed = true
	c.write(next)

	// A write can re-enter through a scroll listener that cancels or
	// restarts the animation.
	if c.active && c.frame == 0 {
		c.frame = c.frames.RequestFrame(c.step)
	}
}

func (c *Controller) write(y float64) {
	c.writing = true
	c.surface.SetScrollTop(y)
	c.writing = false
	c.lastWritten = c.surface.ScrollTop()
	c.written = true
}

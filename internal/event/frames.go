package event

import (
	"sync"
	"time"

	"github.com/dshills/previewsync/internal/preview/scroll"
)

// FrameInterval is the refresh period of a 60 Hz display.
const FrameInterval = time.Second / 60

// Poster accepts tasks for the loop goroutine. *Loop implements it.
type Poster interface {
	Post(name string, fn Task) error
}

// Frames schedules animation callbacks on the loop, at most once per
// interval. It implements scroll.FrameScheduler.
//
// Callbacks requested while a frame is running are deferred to the next
// frame.
type Frames struct {
	poster   Poster
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	next    scroll.FrameID
	pending map[scroll.FrameID]func(time.Time)
	current map[scroll.FrameID]func(time.Time)
	order   []scroll.FrameID
	timer   *time.Timer
	stopped bool
}

// NewFrames creates a scheduler that posts to p. A non-positive interval
// uses FrameInterval.
func NewFrames(p Poster, interval time.Duration) *Frames {
	if interval <= 0 {
		interval = FrameInterval
	}
	return &Frames{
		poster:   p,
		interval: interval,
		now:      time.Now,
		pending:  make(map[scroll.FrameID]func(time.Time)),
	}
}

// RequestFrame implements scroll.FrameScheduler.
func (f *Frames) RequestFrame(fn func(now time.Time)) scroll.FrameID {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.next++
	id := f.next
	if f.stopped {
		return id
	}
	f.pending[id] = fn
	f.order = append(f.order, id)
	if f.timer == nil {
		f.timer = time.AfterFunc(f.interval, f.tick)
	}
	return id
}

// CancelFrame implements scroll.FrameScheduler.
func (f *Frames) CancelFrame(id scroll.FrameID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.pending, id)
	delete(f.current, id)
}

// Pending returns the number of callbacks waiting for a frame.
func (f *Frames) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

// Stop drops pending callbacks and refuses new ones.
func (f *Frames) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stopped = true
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.pending = make(map[scroll.FrameID]func(time.Time))
	f.order = nil
}

// tick runs on the timer goroutine.
func (f *Frames) tick() {
	if err := f.poster.Post("frame", f.run); err != nil {
		f.Stop()
	}
}

// run executes the due callbacks on the loop goroutine.
func (f *Frames) run() error {
	f.mu.Lock()
	order := f.order
	f.current = f.pending
	f.order = nil
	f.pending = make(map[scroll.FrameID]func(time.Time))
	f.timer = nil
	f.mu.Unlock()

	now := f.now()
	for _, id := range order {
		f.mu.Lock()
		fn, ok := f.current[id]
		delete(f.current, id)
		f.mu.Unlock()
		if ok {
			fn(now)
		}
	}

	f.mu.Lock()
	f.current = nil
	f.mu.Unlock()
	return nil
}

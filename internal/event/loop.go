package event

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// DefaultQueueSize is the number of tasks that can wait before Post blocks.
const DefaultQueueSize = 256

// Task is a unit of work run on the loop goroutine.
type Task func() error

// PanicHandler is called on the loop goroutine when a task panics.
type PanicHandler func(err *PanicError)

// Stats is a snapshot of loop counters.
type Stats struct {
	Posted    uint64
	Processed uint64
	Failed    uint64
	Panicked  uint64
	Dropped   uint64
}

type queued struct {
	name string
	fn   Task
}

// Loop runs posted tasks one at a time on a single goroutine.
type Loop struct {
	queueSize    int
	panicHandler PanicHandler
	afterTask    func()

	queue    chan queued
	done     chan struct{}
	stopOnce sync.Once
	running  atomic.Bool

	posted    atomic.Uint64
	processed atomic.Uint64
	failed    atomic.Uint64
	panicked  atomic.Uint64
	dropped   atomic.Uint64
}

// Option configures a Loop.
type Option func(*Loop)

// WithQueueSize sets the task queue size.
func WithQueueSize(size int) Option {
	return func(l *Loop) {
		if size > 0 {
			l.queueSize = size
		}
	}
}

// WithPanicHandler sets the handler for recovered panics.
func WithPanicHandler(h PanicHandler) Option {
	return func(l *Loop) {
		l.panicHandler = h
	}
}

// WithAfterTask sets a hook run on the loop goroutine after every task,
// typically to redraw.
func WithAfterTask(fn func()) Option {
	return func(l *Loop) {
		l.afterTask = fn
	}
}

// NewLoop creates a stopped loop. Tasks may be posted before Run.
func NewLoop(opts ...Option) *Loop {
	l := &Loop{queueSize: DefaultQueueSize}
	for _, opt := range opts {
		opt(l)
	}
	l.queue = make(chan queued, l.queueSize)
	l.done = make(chan struct{})
	return l
}

// Post queues fn, blocking while the queue is full. It returns
// ErrLoopStopped once the loop has stopped.
func (l *Loop) Post(name string, fn Task) error {
	select {
	case <-l.done:
		return ErrLoopStopped
	default:
	}

	select {
	case l.queue <- queued{name: name, fn: fn}:
		l.posted.Add(1)
		return nil
	case <-l.done:
		return ErrLoopStopped
	}
}

// TryPost queues fn without blocking.
func (l *Loop) TryPost(name string, fn Task) error {
	select {
	case <-l.done:
		return ErrLoopStopped
	default:
	}

	select {
	case l.queue <- queued{name: name, fn: fn}:
		l.posted.Add(1)
		return nil
	default:
		l.dropped.Add(1)
		return ErrQueueFull
	}
}

// Run processes tasks until ctx is done, Stop is called or a task fails.
// It returns the task error or ctx.Err(); Stop yields nil.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopAlreadyRunning
	}
	defer l.running.Store(false)
	defer l.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case t := <-l.queue:
			if err := l.execute(t); err != nil {
				return err
			}
		}
	}
}

// Stop ends Run and rejects further posts. It is idempotent.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.done)
	})
}

// Done is closed when the loop stops.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Running reports whether Run is active.
func (l *Loop) Running() bool {
	return l.running.Load()
}

// Stats returns the loop counters.
func (l *Loop) Stats() Stats {
	return Stats{
		Posted:    l.posted.Load(),
		Processed: l.processed.Load(),
		Failed:    l.failed.Load(),
		Panicked:  l.panicked.Load(),
		Dropped:   l.dropped.Load(),
	}
}

func (l *Loop) execute(t queued) (err error) {
	defer func() {
		l.processed.Add(1)
		if r := recover(); r != nil {
			l.panicked.Add(1)
			if l.panicHandler != nil {
				l.panicHandler(&PanicError{Task: t.name, Value: r, Stack: debug.Stack()})
			}
			err = nil
		}
		if err != nil {
			l.failed.Add(1)
			return
		}
		if l.afterTask != nil {
			l.afterTask()
		}
	}()
	return t.fn()
}

// Package event runs the preview's single-threaded event loop.
//
// Everything that touches the sync engine (the offset table, the scroll
// controller and the arbiter) happens on the loop goroutine. Producers run
// on their own goroutines and hand work to the loop with Post:
//
//   - the transport reader, one task per decoded record
//   - the terminal poller, one task per key, mouse or resize event
//   - the frame scheduler, one task per display refresh
//   - the config watcher, one task per reload
//
// Tasks run in the order they were posted. A task that returns an error
// stops the loop and Run returns that error. Panics are recovered and
// reported to the panic handler; the loop keeps running.
//
// # Basic Usage
//
//	loop := event.NewLoop(event.WithPanicHandler(onPanic))
//	go func() {
//	    for msg := range incoming {
//	        _ = loop.Post("message", func() error { return session.Handle(msg) })
//	    }
//	}()
//	err := loop.Run(ctx)
//
// Frames adapts the loop into a refresh scheduler for scroll animation:
//
//	frames := event.NewFrames(loop, event.FrameInterval)
//	controller := scroll.NewController(surface, frames, scroll.Options{})
package event

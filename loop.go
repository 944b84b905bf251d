package flux

import "go.uber.org/zap"

// EventLoop is the four-operation capability contract a concrete event
// loop exposes so effectful code can control it. Implementations are
// expected to be single-threaded and cooperative: Async queues work in
// FIFO order per loop, Finish requests termination, and Pause/Resume stop
// and restart dequeuing without cancelling work already running.
//
// This package never implements a loop itself; the store supplies one and
// it is adapted by reference.
type EventLoop interface {
	// Async queues fn to run on the loop. Ordering is FIFO per loop
	// instance; nothing is guaranteed across distinct loops.
	Async(fn func())

	// Finish requests loop termination.
	Finish()

	// Pause stops dequeuing of scheduled work. In-flight work is not
	// cancelled.
	Pause()

	// Resume continues dequeuing after a Pause.
	Resume()
}

// LoopHandle adapts a concrete EventLoop behind a stable reference that
// every context derived from one root shares. The handle does not own the
// loop: it is valid only while the owning store (and its loop) live, and
// using it afterwards is a bug in the caller.
//
// The handle carries the root context's trace ID so scheduled work can be
// correlated in logs.
type LoopHandle struct {
	id   string
	loop EventLoop
	log  *zap.Logger
}

func newLoopHandle(loop EventLoop, id string, log *zap.Logger) *LoopHandle {
	return &LoopHandle{id: id, loop: loop, log: log}
}

// ID returns the correlation ID shared with the originating context.
func (h *LoopHandle) ID() string { return h.id }

// Async schedules fn on the underlying loop.
func (h *LoopHandle) Async(fn func()) {
	h.log.Debug("scheduling async work", zap.String("trace_id", h.id))
	h.loop.Async(fn)
}

// Finish requests termination of the underlying loop.
func (h *LoopHandle) Finish() {
	h.log.Debug("finishing loop", zap.String("trace_id", h.id))
	h.loop.Finish()
}

// Pause suspends dequeuing on the underlying loop.
func (h *LoopHandle) Pause() {
	h.log.Debug("pausing loop", zap.String("trace_id", h.id))
	h.loop.Pause()
}

// Resume continues dequeuing on the underlying loop.
func (h *LoopHandle) Resume() {
	h.log.Debug("resuming loop", zap.String("trace_id", h.id))
	h.loop.Resume()
}

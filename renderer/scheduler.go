package renderer

import "sync"

// FrameScheduler runs a callback once at the next display refresh.
type FrameScheduler interface {
	RequestFrame(fn func())
}

// QueueScheduler is a FrameScheduler pumped by the host once per displayed
// frame. Callbacks requested while a pump is running wait for the next pump,
// so a self-rescheduling loop runs exactly once per frame.
type QueueScheduler struct {
	mu      sync.Mutex
	pending []func()
}

// NewQueueScheduler creates an empty scheduler.
func NewQueueScheduler() *QueueScheduler {
	return &QueueScheduler{}
}

// RequestFrame queues fn for the next Pump.
func (s *QueueScheduler) RequestFrame(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.pending = append(s.pending, fn)
	s.mu.Unlock()
}

// Pending returns the number of queued callbacks.
func (s *QueueScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Pump runs the callbacks queued before the call, in request order, and
// returns how many ran. Callbacks run sequentially on the caller's goroutine.
// Pump is safe to call from several goroutines; each queued callback runs in
// exactly one of them.
func (s *QueueScheduler) Pump() int {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

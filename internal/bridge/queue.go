package bridge

import (
	"sync"

	"github.com/gammazero/deque"
)

// EventQueue is an unbounded FIFO of events guarded by a mutex. Its gate is
// closed while the bridge is disabled: Push then rejects events, so nothing can
// be stranded after the consumer has drained and exited.
//
// The zero value is an open, empty queue.
type EventQueue struct {
	mu     sync.Mutex
	items  deque.Deque[Event]
	closed bool
}

// Push appends ev and reports whether it was accepted.
// The caller signals the Monitor after a successful push.
func (q *EventQueue) Push(ev Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.items.PushBack(ev)
	queueDepth.Set(float64(q.items.Len()))
	return true
}

// Pop removes and returns the oldest event. ok is false when the queue is empty.
// Ownership of the event passes to the caller.
func (q *EventQueue) Pop() (ev Event, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.items.Len() == 0 {
		return nil, false
	}
	ev = q.items.PopFront()
	queueDepth.Set(float64(q.items.Len()))
	return ev, true
}

// Drain removes and returns every queued event in FIFO order.
func (q *EventQueue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Event, 0, q.items.Len())
	for q.items.Len() > 0 {
		out = append(out, q.items.PopFront())
	}
	queueDepth.Set(0)
	return out
}

func (q *EventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

// Open lets Push accept events again.
func (q *EventQueue) Open() {
	q.mu.Lock()
	q.closed = false
	q.mu.Unlock()
}

// Close makes Push reject events. Queued events stay until popped or drained.
func (q *EventQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
}

func (q *EventQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

package bridge

import "time"

// DefaultWaitTimeout bounds how long an idle consumer sleeps before it
// re-checks the queue and the enabled flag.
const DefaultWaitTimeout = 100 * time.Millisecond

// Monitor wakes the consumer when events arrive. A notification posted while
// nobody waits is kept until the next Wait, so a push racing with the
// consumer's empty check cannot be lost. Only one waiter is supported.
type Monitor struct {
	signal chan struct{}
}

func NewMonitor() *Monitor {
	return &Monitor{signal: make(chan struct{}, 1)}
}

// Notify wakes the waiter, or arms the next Wait. It never blocks.
func (m *Monitor) Notify() {
	select {
	case m.signal <- struct{}{}:
	default:
	}
}

// Wait blocks until notified or until timeout elapses. It reports whether a
// notification was received.
func (m *Monitor) Wait(timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-m.signal:
		return true
	case <-timer.C:
		return false
	}
}

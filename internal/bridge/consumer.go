package bridge

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"
)

// consumer is one BridgeThread instance. It is started once and never reused:
// re-enabling the bridge creates a new consumer.
type consumer struct {
	ctrl *Controller
	done chan struct{}
	// gid identifies the consumer goroutine while it runs, so that controller
	// calls made from host callbacks can be recognised.
	gid atomic.Uint64
}

func newConsumer(ctrl *Controller) *consumer {
	return &consumer{ctrl: ctrl, done: make(chan struct{})}
}

// start launches the consumer goroutine and blocks until it has attached to the
// host runtime or failed to.
func (c *consumer) start() error {
	started := make(chan error, 1)
	go c.run(started)
	if err := <-started; err != nil {
		<-c.done
		return err
	}
	return nil
}

func (c *consumer) run(started chan<- error) {
	// host attachment is per OS thread
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(c.done)
	c.gid.Store(goroutineID())
	defer c.gid.Store(0)

	env, err := c.ctrl.rt.Attach()
	if err != nil {
		started <- attachError{err: err}
		return
	}
	defer env.Detach()

	consumerRunning.Set(1)
	defer consumerRunning.Set(0)
	c.ctrl.log.Debug().Msg("bridge consumer attached")
	started <- nil

	q := &c.ctrl.queue
	for c.ctrl.enabled.Load() {
		ev, ok := q.Pop()
		if !ok {
			c.ctrl.monitor.Wait(c.ctrl.waitTimeout)
			continue
		}
		c.dispatch(env, ev)
	}

	// The queue gate is closed before enabled is cleared, so this drain sees
	// every event that will ever be accepted by this generation.
	remaining := q.Drain()
	for _, ev := range remaining {
		c.dispatch(env, ev)
	}
	c.ctrl.log.Debug().Int("drained", len(remaining)).Msg("bridge consumer detaching")
}

// dispatch delivers ev synchronously. A panicking host callback is recovered so
// one bad event does not stop delivery of the rest.
func (c *consumer) dispatch(env Env, ev Event) {
	kind := ev.kind()
	start := time.Now()
	defer func() {
		dispatchDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
		if r := recover(); r != nil {
			callbackPanics.Inc()
			c.ctrl.log.Error().Str("kind", kind).Str("panic", fmt.Sprint(r)).Msg("host callback panicked")
			return
		}
		eventsDelivered.WithLabelValues(kind).Inc()
	}()
	switch e := ev.(type) {
	case LogEvent:
		env.Log(e.Level, e.Text)
	case StatsEvent:
		env.Stats(e.Frame, e.FPS, e.Quality, e.Size, e.Time, e.Bitrate, e.Speed)
	}
}

// current reports whether the caller is running on this consumer.
func (c *consumer) current() bool {
	id := c.gid.Load()
	return id != 0 && id == goroutineID()
}

// goroutineID parses the id from the header of the caller's stack trace,
// "goroutine NNN [...".
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] < '0' || buf[i] > '9' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

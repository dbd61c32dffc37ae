package bridge

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"mediabridge/internal/engine"
)

// Hooks is the engine side of the bridge: where emission hooks are installed
// and where verbosity lives. engine.Engine satisfies it.
type Hooks interface {
	// SetLogCallback and SetStatsCallback install a hook; nil restores the
	// engine default.
	SetLogCallback(engine.LogFunc)
	SetStatsCallback(engine.StatsFunc)
	SetLogLevel(level int)
	LogLevel() int
}

// Options configures a Controller.
type Options struct {
	Runtime Runtime
	Hooks   Hooks
	// Logger receives bridge diagnostics. Nil disables them.
	Logger *zerolog.Logger
	// WaitTimeout bounds the idle wait of the consumer. Zero means DefaultWaitTimeout.
	WaitTimeout time.Duration
}

// Controller is the enable/disable state machine of the bridge. It owns the
// queue, the monitor and at most one consumer at a time.
type Controller struct {
	rt          Runtime
	hooks       Hooks
	log         zerolog.Logger
	waitTimeout time.Duration

	queue   EventQueue
	monitor *Monitor

	// mu guards closed and cons; it is never held while waiting for a
	// consumer. enabled is read lock-free by the consumer loop.
	mu      sync.Mutex
	enabled atomic.Bool
	closed  bool
	cons    *consumer
}

// New builds a disabled Controller. A missing Runtime or Hooks is a setup
// failure.
func New(opts Options) (*Controller, error) {
	if opts.Runtime == nil {
		return nil, ErrNoRuntime
	}
	if opts.Hooks == nil {
		return nil, ErrNoHooks
	}
	c := &Controller{
		rt:          opts.Runtime,
		hooks:       opts.Hooks,
		log:         zerolog.Nop(),
		waitTimeout: opts.WaitTimeout,
		monitor:     NewMonitor(),
	}
	if opts.Logger != nil {
		c.log = opts.Logger.With().Str("component", "bridge").Logger()
	}
	if c.waitTimeout <= 0 {
		c.waitTimeout = DefaultWaitTimeout
	}
	c.queue.Close()
	return c, nil
}

// Enable starts a consumer and routes engine emission into the queue. It is a
// no-op when already enabled. If the consumer cannot attach to the host runtime
// the controller stays disabled and the attach error is returned.
//
// A consumer still draining after Disable is waited for first. Re-enabling from
// a host callback after that callback disabled the bridge returns ErrInCallback.
func (c *Controller) Enable() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for {
		if c.closed {
			return ErrClosed
		}
		if c.enabled.Load() {
			return nil
		}
		if c.cons == nil {
			break
		}
		prev := c.cons
		if prev.current() {
			return ErrInCallback
		}
		c.mu.Unlock()
		<-prev.done
		c.mu.Lock()
		if c.cons == prev {
			c.cons = nil
		}
	}

	c.queue.Open()
	c.enabled.Store(true)
	cons := newConsumer(c)
	if err := cons.start(); err != nil {
		c.enabled.Store(false)
		c.queue.Close()
		if n := len(c.queue.Drain()); n > 0 {
			eventsDropped.WithLabelValues(dropStartup).Add(float64(n))
		}
		c.log.Error().Err(err).Msg("bridge consumer failed to start")
		return err
	}
	c.cons = cons
	c.hooks.SetLogCallback(c.EmitLog)
	c.hooks.SetStatsCallback(c.EmitStats)
	c.log.Info().Msg("redirection enabled")
	return nil
}

// Disable restores the default engine hooks and stops the consumer. Events
// queued before Disable are delivered before it returns. It is a no-op when
// already disabled.
//
// Called from a host callback, Disable returns without waiting; the remaining
// events are delivered once the callback returns.
func (c *Controller) Disable() {
	c.mu.Lock()
	cons := c.stopLocked()
	c.mu.Unlock()
	c.waitStopped(cons)
}

// Close disables the bridge for good. Later Enable calls return ErrClosed.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	cons := c.stopLocked()
	c.mu.Unlock()
	c.waitStopped(cons)
}

// stopLocked turns emission off and wakes the consumer. It returns the consumer
// to wait for, which may still be draining from an earlier Disable.
func (c *Controller) stopLocked() *consumer {
	if c.enabled.Load() {
		c.hooks.SetLogCallback(nil)
		c.hooks.SetStatsCallback(nil)
		c.queue.Close()
		c.enabled.Store(false)
		c.monitor.Notify()
		c.log.Info().Msg("redirection disabled")
	}
	return c.cons
}

func (c *Controller) waitStopped(cons *consumer) {
	if cons == nil || cons.current() {
		return
	}
	<-cons.done
	c.mu.Lock()
	if c.cons == cons {
		c.cons = nil
	}
	c.mu.Unlock()
}

func (c *Controller) Enabled() bool { return c.enabled.Load() }

// Pending returns the number of events waiting for the consumer.
func (c *Controller) Pending() int { return c.queue.Len() }

// EmitLog queues a log line for the host. It never blocks beyond the queue
// mutex and never fails observably; lines emitted while disabled are dropped.
func (c *Controller) EmitLog(level int, text string) {
	c.emit(NewLogEvent(level, text))
}

// EmitStats queues a statistics sample for the host.
func (c *Controller) EmitStats(frame int, fps, quality float32, size int64, tm int, bitrate, speed float64) {
	c.emit(StatsEvent{Frame: frame, FPS: fps, Quality: quality, Size: size, Time: tm, Bitrate: bitrate, Speed: speed})
}

func (c *Controller) emit(ev Event) {
	if !c.queue.Push(ev) {
		eventsDropped.WithLabelValues(dropDisabled).Inc()
		return
	}
	eventsEnqueued.WithLabelValues(ev.kind()).Inc()
	c.monitor.Notify()
}

// SetLogLevel and LogLevel pass through to the engine.
func (c *Controller) SetLogLevel(level int) { c.hooks.SetLogLevel(level) }

func (c *Controller) LogLevel() int { return c.hooks.LogLevel() }

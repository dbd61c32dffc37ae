package bridge

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"mediabridge/internal/engine"
)

// fakeRuntime records every call the consumer makes into the host.
type fakeRuntime struct {
	attachErr error
	// onLog runs inside Env.Log, before the call is recorded.
	onLog func(level int, msg string)

	attaches atomic.Int32
	detaches atomic.Int32

	mu    sync.Mutex
	logs  []string
	stats []StatsEvent
	// delivered is signalled once per delivered event.
	delivered chan struct{}
}

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{delivered: make(chan struct{}, 4096)}
}

func (r *fakeRuntime) Attach() (Env, error) {
	if r.attachErr != nil {
		return nil, r.attachErr
	}
	r.attaches.Add(1)
	return fakeEnv{r: r}, nil
}

func (r *fakeRuntime) logLines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.logs...)
}

func (r *fakeRuntime) statSamples() []StatsEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]StatsEvent(nil), r.stats...)
}

type fakeEnv struct{ r *fakeRuntime }

func (e fakeEnv) Log(level int, message []byte) {
	if e.r.onLog != nil {
		e.r.onLog(level, string(message))
	}
	e.r.mu.Lock()
	e.r.logs = append(e.r.logs, fmt.Sprintf("%d:%s", level, message))
	e.r.mu.Unlock()
	e.r.delivered <- struct{}{}
}

func (e fakeEnv) Stats(frame int, fps, quality float32, size int64, tm int, bitrate, speed float64) {
	e.r.mu.Lock()
	e.r.stats = append(e.r.stats, StatsEvent{Frame: frame, FPS: fps, Quality: quality, Size: size, Time: tm, Bitrate: bitrate, Speed: speed})
	e.r.mu.Unlock()
	e.r.delivered <- struct{}{}
}

func (e fakeEnv) Detach() { e.r.detaches.Add(1) }

// fakeHooks stands in for the engine's hook registry.
type fakeHooks struct {
	mu      sync.Mutex
	logFn   engine.LogFunc
	statsFn engine.StatsFunc
	level   int
	sets    int
}

func (h *fakeHooks) SetLogCallback(fn engine.LogFunc) {
	h.mu.Lock()
	h.logFn = fn
	h.sets++
	h.mu.Unlock()
}

func (h *fakeHooks) SetStatsCallback(fn engine.StatsFunc) {
	h.mu.Lock()
	h.statsFn = fn
	h.mu.Unlock()
}

func (h *fakeHooks) SetLogLevel(level int) {
	h.mu.Lock()
	h.level = level
	h.mu.Unlock()
}

func (h *fakeHooks) LogLevel() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.level
}

func (h *fakeHooks) installed() (engine.LogFunc, engine.StatsFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.logFn, h.statsFn
}

func newTestController(t *testing.T, rt *fakeRuntime) (*Controller, *fakeHooks) {
	t.Helper()
	hooks := &fakeHooks{level: 32}
	c, err := New(Options{Runtime: rt, Hooks: hooks, WaitTimeout: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c, hooks
}

// waitDelivered blocks until n events have been delivered.
func waitDelivered(t *testing.T, rt *fakeRuntime, n int, within time.Duration) {
	t.Helper()
	deadline := time.After(within)
	for i := 0; i < n; i++ {
		select {
		case <-rt.delivered:
		case <-deadline:
			t.Fatalf("delivered %d of %d events within %v", i, n, within)
		}
	}
}

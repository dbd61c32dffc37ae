package ffmpeg

import (
	"context"
	"sync"
	"testing"
	"time"

	"mediabridge/internal/engine"
)

// fakeEngine records calls and emits through whatever hooks are installed.
type fakeEngine struct {
	mu      sync.Mutex
	logFn   engine.LogFunc
	statsFn engine.StatsFunc
	level   int
	argvs   [][]string
	// defaultSink collects lines emitted while no log hook is installed.
	defaultSink []string

	rc int
	// emit runs inside Execute before it returns or blocks.
	emit func(e *fakeEngine)
	// block, when set, holds Execute until closed or canceled.
	block   chan struct{}
	started chan struct{}
	cancels int
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{level: engine.DefaultLogLevel, started: make(chan struct{}, 16)}
}

func (e *fakeEngine) Execute(ctx context.Context, argv []string) int {
	e.mu.Lock()
	e.argvs = append(e.argvs, append([]string(nil), argv...))
	emit, block, rc := e.emit, e.block, e.rc
	e.mu.Unlock()
	e.started <- struct{}{}
	if emit != nil {
		emit(e)
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return engine.ReturnCodeCancel
		}
	}
	return rc
}

func (e *fakeEngine) Cancel() {
	e.mu.Lock()
	e.cancels++
	e.mu.Unlock()
}

func (e *fakeEngine) Version() string { return "7.1-fake" }

func (e *fakeEngine) SetLogCallback(fn engine.LogFunc) {
	e.mu.Lock()
	e.logFn = fn
	e.mu.Unlock()
}

func (e *fakeEngine) SetStatsCallback(fn engine.StatsFunc) {
	e.mu.Lock()
	e.statsFn = fn
	e.mu.Unlock()
}

func (e *fakeEngine) SetLogLevel(level int) {
	e.mu.Lock()
	e.level = level
	e.mu.Unlock()
}

func (e *fakeEngine) LogLevel() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.level
}

func (e *fakeEngine) log(level int, line string) {
	e.mu.Lock()
	fn := e.logFn
	if fn == nil {
		e.defaultSink = append(e.defaultSink, line)
	}
	e.mu.Unlock()
	if fn != nil {
		fn(level, line)
	}
}

func (e *fakeEngine) stats(frame int, fps, quality float32, size int64, tm int, bitrate, speed float64) {
	e.mu.Lock()
	fn := e.statsFn
	e.mu.Unlock()
	if fn != nil {
		fn(frame, fps, quality, size, tm, bitrate, speed)
	}
}

func (e *fakeEngine) hooksInstalled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.logFn != nil && e.statsFn != nil
}

func (e *fakeEngine) lastArgv() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.argvs) == 0 {
		return nil
	}
	return e.argvs[len(e.argvs)-1]
}

func newTestFFmpeg(t *testing.T, eng *fakeEngine, mutate func(*Options)) *FFmpeg {
	t.Helper()
	opts := Options{Engine: eng, MonitorTimeout: 20 * time.Millisecond, MaxWait: time.Second}
	if mutate != nil {
		mutate(&opts)
	}
	f, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func waitStarted(t *testing.T, eng *fakeEngine) {
	t.Helper()
	select {
	case <-eng.started:
	case <-time.After(2 * time.Second):
		t.Fatalf("engine Execute was not called")
	}
}

package cli

import (
	"context"
	"sync"
	"testing"

	"mediabridge/internal/config"
	"mediabridge/internal/engine"
)

// fakeEngine emits one info line, one debug line and one statistics sample
// through whatever hooks are installed, then returns rc.
type fakeEngine struct {
	mu      sync.Mutex
	logFn   engine.LogFunc
	statsFn engine.StatsFunc
	level   int
	rc      int
	argv    []string
}

func newFakeEngine(rc int) *fakeEngine { return &fakeEngine{level: engine.DefaultLogLevel, rc: rc} }

func (e *fakeEngine) Execute(ctx context.Context, argv []string) int {
	e.mu.Lock()
	e.argv = append([]string(nil), argv...)
	logFn, statsFn := e.logFn, e.statsFn
	e.mu.Unlock()
	if logFn != nil {
		logFn(32, "hello\n")
		logFn(48, "debug detail\n")
	}
	if statsFn != nil {
		statsFn(7, 25, 1, 100, 280, 64, 1.5)
	}
	return e.rc
}

func (e *fakeEngine) Cancel()         {}
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

// withStubs swaps the command seams for the duration of the test.
func withStubs(t *testing.T, eng engine.Engine, serveFn func(context.Context, config.Config, serveOptions) error) {
	t.Helper()
	oldOpen, oldServe := fnOpenEngine, fnServe
	t.Cleanup(func() {
		fnOpenEngine = oldOpen
		fnServe = oldServe
	})
	if eng != nil {
		fnOpenEngine = func(config.Config) (engine.Engine, error) { return eng, nil }
	}
	if serveFn != nil {
		fnServe = serveFn
	}
}

package e2e

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"mediabridge/internal/engine"
	"mediabridge/internal/ffmpeg"
	"mediabridge/internal/httpapi"
)

// scriptedEngine emits lines log lines from producers goroutines per job,
// then one statistics sample, and returns 0. A non-nil gate holds Execute
// until it is closed.
type scriptedEngine struct {
	lines     int
	producers int
	gate      chan struct{}
	started   chan struct{}

	mu      sync.Mutex
	logFn   engine.LogFunc
	statsFn engine.StatsFunc
	level   int
	// defaultSink collects lines emitted while no hook is installed.
	defaultSink []string
}

func newScriptedEngine(lines, producers int) *scriptedEngine {
	return &scriptedEngine{lines: lines, producers: producers, level: engine.DefaultLogLevel, started: make(chan struct{}, 64)}
}

func (e *scriptedEngine) emit(level int, line string) {
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

func (e *scriptedEngine) Execute(ctx context.Context, argv []string) int {
	e.started <- struct{}{}
	if e.gate != nil {
		select {
		case <-e.gate:
		case <-ctx.Done():
			return engine.ReturnCodeCancel
		}
	}
	var wg sync.WaitGroup
	for p := 0; p < e.producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < e.lines; i++ {
				e.emit(32, fmt.Sprintf("p%d line %d\n", p, i))
			}
		}(p)
	}
	wg.Wait()
	e.mu.Lock()
	statsFn := e.statsFn
	e.mu.Unlock()
	if statsFn != nil {
		statsFn(e.lines, 30, 2, int64(e.lines)*100, e.lines*40, 256, 1.25)
	}
	return engine.ReturnCodeSuccess
}

func (e *scriptedEngine) Cancel()         {}
func (e *scriptedEngine) Version() string { return "scripted" }

func (e *scriptedEngine) SetLogCallback(fn engine.LogFunc) {
	e.mu.Lock()
	e.logFn = fn
	e.mu.Unlock()
}

func (e *scriptedEngine) SetStatsCallback(fn engine.StatsFunc) {
	e.mu.Lock()
	e.statsFn = fn
	e.mu.Unlock()
}

func (e *scriptedEngine) SetLogLevel(level int) {
	e.mu.Lock()
	e.level = level
	e.mu.Unlock()
}

func (e *scriptedEngine) LogLevel() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.level
}

func (e *scriptedEngine) sinkLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.defaultSink)
}

// newServer wires eng through the real facade and HTTP API.
func newServer(t *testing.T, eng engine.Engine, opts ffmpeg.Options) (*httptest.Server, *ffmpeg.FFmpeg) {
	t.Helper()
	opts.Engine = eng
	if opts.MonitorTimeout == 0 {
		opts.MonitorTimeout = 20 * time.Millisecond
	}
	f, err := ffmpeg.New(opts)
	if err != nil {
		t.Fatalf("ffmpeg.New: %v", err)
	}
	srv := httptest.NewServer(httpapi.NewMux(f))
	t.Cleanup(func() {
		srv.Close()
		_ = f.Close()
	})
	return srv, f
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpDo(t *testing.T, method, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), method, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

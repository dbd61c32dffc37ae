package httpapi

import (
	"context"
	"sync"
	"time"

	"mediabridge/internal/engine"
	"mediabridge/internal/ffmpeg"
)

type mockService struct {
	mu          sync.Mutex
	runErr      error
	rc          int
	lastArgs    []string
	lastLine    string
	redirection bool
	enableErr   error
	level       ffmpeg.Level
	stats       ffmpeg.Statistics
	resets      int
	cancels     int
	fontDir     string
	ready       bool
	events      chan ffmpeg.Message
	// block holds Run until the context is done.
	block bool
}

func newMockService() *mockService {
	return &mockService{level: ffmpeg.LevelInfo, ready: true, redirection: true, events: make(chan ffmpeg.Message, 8)}
}

func (m *mockService) Version() string       { return "0.1.0" }
func (m *mockService) EngineVersion() string { return "7.1" }

func (m *mockService) Run(ctx context.Context, args []string) (ffmpeg.Result, error) {
	m.mu.Lock()
	m.lastArgs = append([]string(nil), args...)
	err, rc, block := m.runErr, m.rc, m.block
	m.mu.Unlock()
	if block {
		<-ctx.Done()
		return ffmpeg.Result{ID: "job-1", ReturnCode: ffmpeg.ReturnCodeCancel}, ctx.Err()
	}
	if err != nil {
		return ffmpeg.Result{}, err
	}
	return ffmpeg.Result{ID: "job-1", ReturnCode: rc, Duration: 1500 * time.Millisecond}, nil
}

func (m *mockService) RunLine(ctx context.Context, command string) (ffmpeg.Result, error) {
	m.mu.Lock()
	m.lastLine = command
	m.mu.Unlock()
	return ffmpeg.Result{ID: "job-2", ReturnCode: 0}, nil
}

func (m *mockService) Cancel() {
	m.mu.Lock()
	m.cancels++
	m.mu.Unlock()
}

func (m *mockService) RedirectionEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.redirection
}

func (m *mockService) EnableRedirection() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.enableErr != nil {
		return m.enableErr
	}
	m.redirection = true
	return nil
}

func (m *mockService) DisableRedirection() {
	m.mu.Lock()
	m.redirection = false
	m.mu.Unlock()
}

func (m *mockService) LogLevel() ffmpeg.Level {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.level
}

func (m *mockService) SetLogLevel(l ffmpeg.Level) {
	m.mu.Lock()
	m.level = l
	m.mu.Unlock()
}

func (m *mockService) LastReceivedStatistics() ffmpeg.Statistics { return m.stats }

func (m *mockService) ResetStatistics() {
	m.mu.Lock()
	m.resets++
	m.stats = ffmpeg.Statistics{}
	m.mu.Unlock()
}

func (m *mockService) Subscribe(int) (<-chan ffmpeg.Message, func()) {
	return m.events, func() {}
}

func (m *mockService) FontDirectory() string { return m.fontDir }
func (m *mockService) Ready() bool           { return m.ready }

type mockHTTPError struct {
	msg  string
	code int
}

func (e mockHTTPError) Error() string   { return e.msg }
func (e mockHTTPError) StatusCode() int { return e.code }

// blockingEngine holds every Execute until release is closed.
type blockingEngine struct {
	release chan struct{}
	started chan struct{}
}

func (e *blockingEngine) Execute(ctx context.Context, argv []string) int {
	select {
	case e.started <- struct{}{}:
	default:
	}
	select {
	case <-e.release:
		return engine.ReturnCodeSuccess
	case <-ctx.Done():
		return engine.ReturnCodeCancel
	}
}

func (e *blockingEngine) Cancel()                           {}
func (e *blockingEngine) Version() string                   { return "blocking" }
func (e *blockingEngine) SetLogCallback(engine.LogFunc)     {}
func (e *blockingEngine) SetStatsCallback(engine.StatsFunc) {}
func (e *blockingEngine) SetLogLevel(int)                   {}
func (e *blockingEngine) LogLevel() int                     { return engine.DefaultLogLevel }

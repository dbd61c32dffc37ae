package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"mediabridge/internal/bridge"
	"mediabridge/internal/engine"
)

// Return codes of Execute.
const (
	ReturnCodeSuccess = engine.ReturnCodeSuccess
	ReturnCodeCancel  = engine.ReturnCodeCancel
)

// Version is the version of this library, set at build time.
var Version = "0.1.0"

// DefaultProgramName is placed in argv[0] of every execution.
const DefaultProgramName = "ffmpeg"

// Options configures an FFmpeg.
type Options struct {
	Engine engine.Engine
	Logger *zerolog.Logger
	// ProgramName is prepended to every argument vector.
	ProgramName string
	// MaxConcurrent jobs run at once; MaxQueueDepth more may wait for up to
	// MaxWait before Execute reports too busy.
	MaxConcurrent int
	MaxQueueDepth int
	MaxWait       time.Duration
	// MonitorTimeout bounds the bridge consumer's idle wait.
	MonitorTimeout time.Duration
	// DisableRedirection leaves engine output on its default sink at startup.
	DisableRedirection bool
}

// Result describes one finished execution.
type Result struct {
	ID         string
	ReturnCode int
	Duration   time.Duration
}

// FFmpeg runs engine jobs and routes their log and statistics output to the host.
type FFmpeg struct {
	eng     engine.Engine
	host    *Host
	ctrl    *bridge.Controller
	bus     *Broadcaster
	log     zerolog.Logger
	program string

	maxWait time.Duration
	queueCh chan struct{}
	runCh   chan struct{}

	mu      sync.Mutex
	jobs    map[string]context.CancelFunc
	closed  bool
	fontDir string
}

// New wires an engine to a fresh bridge and enables redirection unless
// opts.DisableRedirection is set. The active log level is read from the engine
// once, here.
func New(opts Options) (*FFmpeg, error) {
	if opts.Engine == nil {
		return nil, errors.New("ffmpeg: engine is required")
	}
	if opts.ProgramName == "" {
		opts.ProgramName = DefaultProgramName
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 1
	}
	if opts.MaxQueueDepth <= 0 {
		opts.MaxQueueDepth = 8
	}
	if opts.MaxWait <= 0 {
		opts.MaxWait = 30 * time.Second
	}

	f := &FFmpeg{
		eng:     opts.Engine,
		bus:     NewBroadcaster(),
		log:     zerolog.Nop(),
		program: opts.ProgramName,
		maxWait: opts.MaxWait,
		queueCh: make(chan struct{}, opts.MaxConcurrent+opts.MaxQueueDepth),
		runCh:   make(chan struct{}, opts.MaxConcurrent),
		jobs:    make(map[string]context.CancelFunc),
	}
	if opts.Logger != nil {
		f.log = *opts.Logger
	}
	f.host = NewHost(LevelFrom(opts.Engine.LogLevel()), opts.Logger, f.bus)

	ctrl, err := bridge.New(bridge.Options{
		Runtime:     f.host,
		Hooks:       opts.Engine,
		Logger:      opts.Logger,
		WaitTimeout: opts.MonitorTimeout,
	})
	if err != nil {
		return nil, err
	}
	f.ctrl = ctrl
	if !opts.DisableRedirection {
		if err := f.ctrl.Enable(); err != nil {
			return nil, fmt.Errorf("enable redirection: %w", err)
		}
	}
	return f, nil
}

// Version returns the version of this library.
func (f *FFmpeg) Version() string { return Version }

// EngineVersion returns the version reported by the engine.
func (f *FFmpeg) EngineVersion() string { return f.eng.Version() }

// Execute runs the engine with args. Empty arguments are dropped and the
// program name is prepended. The returned code is the engine's own status;
// err is set only when the job never reached the engine.
func (f *FFmpeg) Execute(ctx context.Context, args []string) (int, error) {
	res, err := f.Run(ctx, args)
	return res.ReturnCode, err
}

// ExecuteLine splits command on single spaces and runs it like Execute.
// Quoted arguments are not supported.
func (f *FFmpeg) ExecuteLine(ctx context.Context, command string) (int, error) {
	res, err := f.RunLine(ctx, command)
	return res.ReturnCode, err
}

// RunLine is ExecuteLine with the execution id and duration.
func (f *FFmpeg) RunLine(ctx context.Context, command string) (Result, error) {
	return f.Run(ctx, strings.Split(command, " "))
}

// Run is Execute with the execution id and duration.
func (f *FFmpeg) Run(ctx context.Context, args []string) (Result, error) {
	res := Result{ID: uuid.NewString(), ReturnCode: engine.ReturnCodeFailure}
	argv := BuildArgv(f.program, args)

	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if !f.track(res.ID, cancel) {
		return res, ErrClosed
	}
	defer f.untrack(res.ID)

	release, err := f.admit(jobCtx)
	if err == nil && jobCtx.Err() != nil {
		// canceled while the run slot was being handed over
		release()
		err = jobCtx.Err()
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			res.ReturnCode = ReturnCodeCancel
		}
		executionsTotal.WithLabelValues(resultLabel(res.ReturnCode, err)).Inc()
		f.log.Warn().Str("id", res.ID).Err(err).Msg("execution not admitted")
		return res, err
	}
	defer release()

	f.log.Debug().Str("id", res.ID).Strs("argv", argv).Msg("execution started")
	executionsInflight.Inc()
	start := time.Now()
	res.ReturnCode = f.eng.Execute(jobCtx, argv)
	res.Duration = time.Since(start)
	executionsInflight.Dec()
	executionDuration.Observe(res.Duration.Seconds())
	executionsTotal.WithLabelValues(resultLabel(res.ReturnCode, nil)).Inc()
	f.log.Info().Str("id", res.ID).Int("rc", res.ReturnCode).Dur("duration", res.Duration).Msg("execution finished")
	return res, nil
}

// BuildArgv drops empty arguments and prepends program.
func BuildArgv(program string, args []string) []string {
	argv := make([]string, 0, len(args)+1)
	argv = append(argv, program)
	for _, a := range args {
		if a != "" {
			argv = append(argv, a)
		}
	}
	return argv
}

// Cancel aborts every running and waiting execution.
func (f *FFmpeg) Cancel() {
	f.mu.Lock()
	for _, cancel := range f.jobs {
		cancel()
	}
	f.mu.Unlock()
	f.eng.Cancel()
}

// Running returns the number of executions admitted or waiting.
func (f *FFmpeg) Running() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.jobs)
}

func (f *FFmpeg) track(id string, cancel context.CancelFunc) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false
	}
	f.jobs[id] = cancel
	return true
}

func (f *FFmpeg) untrack(id string) {
	f.mu.Lock()
	delete(f.jobs, id)
	f.mu.Unlock()
}

// EnableRedirection routes engine log and statistics output to the host.
func (f *FFmpeg) EnableRedirection() error { return f.ctrl.Enable() }

// DisableRedirection restores the engine's default output. Output already
// queued is delivered before it returns, except when it is called from a log or
// statistics callback: then it returns at once and the queued output follows
// the current callback.
func (f *FFmpeg) DisableRedirection() { f.ctrl.Disable() }

func (f *FFmpeg) RedirectionEnabled() bool { return f.ctrl.Enabled() }

// SetLogLevel sets the active level of the host and of the engine.
func (f *FFmpeg) SetLogLevel(l Level) {
	f.host.SetLevel(l)
	f.ctrl.SetLogLevel(int(l))
}

// LogLevel returns the active host level.
func (f *FFmpeg) LogLevel() Level { return f.host.Level() }

// EnableLogCallback sets the function that receives redirected log lines.
// Nil sends them to the default logger again.
func (f *FFmpeg) EnableLogCallback(cb LogCallback) { f.host.SetLogCallback(cb) }

// EnableStatsCallback sets the function that receives redirected statistics.
func (f *FFmpeg) EnableStatsCallback(cb StatsCallback) { f.host.SetStatsCallback(cb) }

func (f *FFmpeg) LastReceivedStatistics() Statistics { return f.host.LastReceivedStatistics() }

func (f *FFmpeg) ResetStatistics() { f.host.ResetStatistics() }

// Subscribe streams delivered messages. See Broadcaster.Subscribe.
func (f *FFmpeg) Subscribe(buffer int) (<-chan Message, func()) { return f.bus.Subscribe(buffer) }

// Ready reports whether executions are accepted.
func (f *FFmpeg) Ready() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.closed
}

// FontDirectory returns the directory registered by SetFontDirectory.
func (f *FFmpeg) FontDirectory() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fontDir
}

// Close cancels running executions, stops the bridge and closes subscriptions.
// It may be called from a log or statistics callback.
func (f *FFmpeg) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	f.mu.Unlock()

	f.Cancel()
	f.ctrl.Close()
	f.host.Close()
	f.bus.Close()
	return nil
}

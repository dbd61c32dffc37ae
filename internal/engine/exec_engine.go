package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// maxLineBytes bounds a single stderr/progress line. Longer lines are
// truncated.
const maxLineBytes = 1024 * 1024

// DefaultWaitDelay bounds how long output pipes are read after the process
// has exited or been killed.
const DefaultWaitDelay = 5 * time.Second

var versionRe = regexp.MustCompile(`version\s+(\S+)`)

// ExecEngine runs an ffmpeg binary per job. stderr lines are routed to the log
// hook and "-progress" blocks (written to an extra pipe, fd 3) are routed to the
// stats hook. Both readers run on their own goroutines, so hooks are invoked
// concurrently from two producers per job.
type ExecEngine struct {
	// Path is the ffmpeg binary. Defaults to "ffmpeg" resolved through PATH.
	Path string
	// BaseArgs are placed before the generated arguments.
	BaseArgs []string
	// Env is appended to the current environment of each job.
	Env []string
	// Stderr receives engine output while no log hook is installed.
	Stderr io.Writer
	// WaitDelay bounds reading of output still held open by leftover child
	// processes. Zero means DefaultWaitDelay.
	WaitDelay time.Duration

	mu      sync.RWMutex
	logFn   LogFunc
	statsFn StatsFunc
	level   atomic.Int32

	jobsMu  sync.Mutex
	jobs    map[uint64]context.CancelFunc
	nextJob uint64

	versionOnce sync.Once
	version     string
}

// NewExecEngine constructs an engine for the ffmpeg binary at path.
func NewExecEngine(path string) *ExecEngine {
	if strings.TrimSpace(path) == "" {
		path = "ffmpeg"
	}
	e := &ExecEngine{Path: path, jobs: make(map[uint64]context.CancelFunc)}
	e.level.Store(DefaultLogLevel)
	return e
}

func (e *ExecEngine) SetLogCallback(fn LogFunc) {
	e.mu.Lock()
	e.logFn = fn
	e.mu.Unlock()
}

func (e *ExecEngine) SetStatsCallback(fn StatsFunc) {
	e.mu.Lock()
	e.statsFn = fn
	e.mu.Unlock()
}

func (e *ExecEngine) SetLogLevel(level int) { e.level.Store(int32(level)) }

func (e *ExecEngine) LogLevel() int { return int(e.level.Load()) }

// Version runs "<Path> -version" once and caches the reported version.
func (e *ExecEngine) Version() string {
	e.versionOnce.Do(func() {
		e.version = "unknown"
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		out, err := exec.CommandContext(ctx, e.Path, "-version").Output()
		if err != nil {
			return
		}
		first, _, _ := strings.Cut(string(out), "\n")
		if m := versionRe.FindStringSubmatch(first); m != nil {
			e.version = m[1]
		}
	})
	return e.version
}

// Cancel aborts every running job.
func (e *ExecEngine) Cancel() {
	e.jobsMu.Lock()
	for _, cancel := range e.jobs {
		cancel()
	}
	e.jobsMu.Unlock()
}

// Execute runs the binary with argv[1:] and returns its exit status.
func (e *ExecEngine) Execute(ctx context.Context, argv []string) int {
	if ctx.Err() != nil {
		return ReturnCodeCancel
	}
	jobCtx, cancel := context.WithCancel(ctx)
	id := e.register(cancel)
	defer e.unregister(id)
	defer cancel()

	var args []string
	if len(argv) > 1 {
		args = argv[1:]
	}
	cmdArgs := append([]string(nil), e.BaseArgs...)
	cmdArgs = append(cmdArgs, "-loglevel", "level+"+levelArg(e.LogLevel()))

	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		e.emitLog(16, fmt.Sprintf("stderr pipe: %v\n", err))
		return ReturnCodeFailure
	}
	var progressR, progressW *os.File
	if runtime.GOOS != "windows" {
		progressR, progressW, err = os.Pipe()
		if err != nil {
			closeFiles(stderrR, stderrW)
			e.emitLog(16, fmt.Sprintf("progress pipe: %v\n", err))
			return ReturnCodeFailure
		}
		cmdArgs = append(cmdArgs, "-nostats", "-progress", "pipe:3")
	}
	cmdArgs = append(cmdArgs, args...)
	defer closeFiles(stderrR, progressR)

	cmd := exec.CommandContext(jobCtx, e.Path, cmdArgs...)
	cmd.WaitDelay = e.waitDelay()
	if len(e.Env) > 0 {
		cmd.Env = append(os.Environ(), e.Env...)
	}
	cmd.Stderr = stderrW
	if progressW != nil {
		cmd.ExtraFiles = []*os.File{progressW}
	}
	if err := cmd.Start(); err != nil {
		closeFiles(stderrW, progressW)
		e.emitLog(16, fmt.Sprintf("%s: %v\n", e.Path, err))
		return ReturnCodeFailure
	}
	// the child owns its copies of the write ends
	closeFiles(stderrW, progressW)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		e.readLog(stderrR)
	}()
	if progressR != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.readProgress(progressR)
		}()
	}
	readersDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(readersDone)
	}()

	waitErr := cmd.Wait()
	timer := time.NewTimer(e.waitDelay())
	defer timer.Stop()
	select {
	case <-readersDone:
	case <-timer.C:
		// a leftover child still holds the pipes; closing our ends unblocks the readers
		closeFiles(stderrR, progressR)
		<-readersDone
		e.emitLog(24, fmt.Sprintf("%s: output still open %v after exit, stopped reading\n", e.Path, e.waitDelay()))
	}

	if jobCtx.Err() != nil {
		return ReturnCodeCancel
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return exitErr.ExitCode()
		}
		e.emitLog(16, fmt.Sprintf("%s: %v\n", e.Path, waitErr))
		return ReturnCodeFailure
	}
	return ReturnCodeSuccess
}

func (e *ExecEngine) waitDelay() time.Duration {
	if e.WaitDelay > 0 {
		return e.WaitDelay
	}
	return DefaultWaitDelay
}

func (e *ExecEngine) register(cancel context.CancelFunc) uint64 {
	e.jobsMu.Lock()
	defer e.jobsMu.Unlock()
	if e.jobs == nil {
		e.jobs = make(map[uint64]context.CancelFunc)
	}
	e.nextJob++
	e.jobs[e.nextJob] = cancel
	return e.nextJob
}

func (e *ExecEngine) unregister(id uint64) {
	e.jobsMu.Lock()
	delete(e.jobs, id)
	e.jobsMu.Unlock()
}

// readLog reads stderr until EOF. Lines over maxLineBytes are cut, reported once
// each, and reading goes on so the process never blocks on a full pipe.
func (e *ExecEngine) readLog(r io.Reader) {
	br := bufio.NewReaderSize(r, 64*1024)
	var line []byte
	cut := false
	for {
		chunk, err := br.ReadSlice('\n')
		if room := maxLineBytes - len(line); len(chunk) > room {
			chunk = chunk[:room]
			cut = true
		}
		line = append(line, chunk...)
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if len(line) > 0 {
			level, text := parseLevelPrefix(strings.TrimRight(string(line), "\r\n"), e.LogLevel())
			e.emitLog(level, text+"\n")
		}
		if cut {
			e.emitLog(24, fmt.Sprintf("log line longer than %d bytes was truncated\n", maxLineBytes))
		}
		line, cut = line[:0], false
		if err != nil {
			return
		}
	}
}

func (e *ExecEngine) readProgress(r io.Reader) {
	var parser ProgressParser
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 4*1024), maxLineBytes)
	for scanner.Scan() {
		p, ok := parser.ParseLine(scanner.Text())
		if !ok {
			continue
		}
		e.mu.RLock()
		fn := e.statsFn
		e.mu.RUnlock()
		if fn != nil {
			fn(p.Frame, p.FPS, p.Quality, p.Size, p.Time, p.Bitrate, p.Speed)
		}
	}
	if scanner.Err() != nil {
		// keep the writer from blocking
		_, _ = io.Copy(io.Discard, r)
	}
}

// emitLog routes a line to the installed hook, or to Stderr when none is set.
func (e *ExecEngine) emitLog(level int, line string) {
	e.mu.RLock()
	fn := e.logFn
	e.mu.RUnlock()
	if fn != nil {
		fn(level, line)
		return
	}
	if level > e.LogLevel() {
		return
	}
	w := e.Stderr
	if w == nil {
		w = os.Stderr
	}
	_, _ = io.WriteString(w, line)
}

func closeFiles(files ...*os.File) {
	for _, f := range files {
		if f != nil {
			_ = f.Close()
		}
	}
}

//go:build darwin || linux

package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/purego"
)

// The shim library wraps the engine behind a primitive-only C API:
//
//	int32_t     mb_execute(int32_t argc, char **argv);
//	void        mb_cancel(void);
//	void        mb_set_log_level(int32_t level);
//	int32_t     mb_get_log_level(void);
//	void        mb_set_log_callback(void (*cb)(int32_t level, const char *line));
//	void        mb_set_stats_callback(void (*cb)(const mb_stats *stats));
//	const char *mb_engine_version(void);
//
// Passing NULL to a set_*_callback function restores the engine default.
const nativeLibEnv = "MEDIABRIDGE_LIB_PATH"

var (
	nativeOnce    sync.Once
	nativeHandle  uintptr
	nativeInitErr error

	// callback pointers are created once per process; purego never frees them
	nativeLogCB   uintptr
	nativeStatsCB uintptr

	// engine currently receiving native callbacks
	nativeActive atomic.Pointer[NativeEngine]
)

var (
	mbExecute          func(argc int32, argv uintptr) int32
	mbCancel           func()
	mbSetLogLevel      func(level int32)
	mbGetLogLevel      func() int32
	mbSetLogCallback   func(cb uintptr)
	mbSetStatsCallback func(cb uintptr)
	mbEngineVersion    func() uintptr
)

// nativeStats mirrors the C mb_stats struct layout.
type nativeStats struct {
	Frame   int32
	FPS     float32
	Quality float32
	_       int32
	Size    int64
	Time    int32
	_       int32
	Bitrate float64
	Speed   float64
}

// NativeEngine runs jobs in-process through the shim library. Callbacks arrive
// on the engine's own native threads.
type NativeEngine struct {
	mu      sync.RWMutex
	logFn   LogFunc
	statsFn StatsFunc

	running atomic.Int32
}

// OpenNative loads the shim library. An empty path searches nativeLibPaths.
// The library is loaded once per process; later calls reuse it.
func OpenNative(path string) (*NativeEngine, error) {
	nativeOnce.Do(func() {
		nativeInitErr = loadNative(path)
	})
	if nativeInitErr != nil {
		return nil, nativeInitErr
	}
	e := &NativeEngine{}
	nativeActive.Store(e)
	return e, nil
}

func loadNative(path string) error {
	paths := nativeLibPaths()
	if path != "" {
		paths = []string{path}
	}
	var lastErr error
	for _, p := range paths {
		handle, err := purego.Dlopen(p, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			lastErr = err
			continue
		}
		if err := loadNativeSymbols(handle); err != nil {
			if cerr := purego.Dlclose(handle); cerr != nil {
				err = errors.Join(err, fmt.Errorf("close %s: %w", p, cerr))
			}
			lastErr = err
			continue
		}
		nativeHandle = handle
		nativeLogCB = purego.NewCallback(nativeLogTrampoline)
		nativeStatsCB = purego.NewCallback(nativeStatsTrampoline)
		return nil
	}
	if lastErr != nil {
		return fmt.Errorf("load engine library: %w", lastErr)
	}
	return errors.New("engine library not found in any standard location")
}

func loadNativeSymbols(handle uintptr) (err error) {
	// RegisterLibFunc panics on missing symbols
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("resolve engine symbols: %v", r)
		}
	}()
	purego.RegisterLibFunc(&mbExecute, handle, "mb_execute")
	purego.RegisterLibFunc(&mbCancel, handle, "mb_cancel")
	purego.RegisterLibFunc(&mbSetLogLevel, handle, "mb_set_log_level")
	purego.RegisterLibFunc(&mbGetLogLevel, handle, "mb_get_log_level")
	purego.RegisterLibFunc(&mbSetLogCallback, handle, "mb_set_log_callback")
	purego.RegisterLibFunc(&mbSetStatsCallback, handle, "mb_set_stats_callback")
	purego.RegisterLibFunc(&mbEngineVersion, handle, "mb_engine_version")
	return nil
}

func nativeLibPaths() []string {
	libName := "libmediabridge_ffmpeg.so"
	if runtime.GOOS == "darwin" {
		libName = "libmediabridge_ffmpeg.dylib"
	}
	var paths []string
	if dir := os.Getenv(nativeLibEnv); dir != "" {
		paths = append(paths, filepath.Join(dir, libName))
	}
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), libName))
	}
	paths = append(paths,
		filepath.Join("/usr/local/lib", libName),
		filepath.Join("/usr/lib", libName),
		libName,
	)
	if runtime.GOOS == "darwin" {
		paths = append(paths, filepath.Join("/opt/homebrew/lib", libName))
	}
	return paths
}

func nativeLogTrampoline(level int32, line uintptr) {
	e := nativeActive.Load()
	if e == nil {
		return
	}
	e.mu.RLock()
	fn := e.logFn
	e.mu.RUnlock()
	if fn != nil {
		fn(int(level), goString(line))
	}
}

func nativeStatsTrampoline(stats uintptr) {
	e := nativeActive.Load()
	if e == nil || stats == 0 {
		return
	}
	e.mu.RLock()
	fn := e.statsFn
	e.mu.RUnlock()
	if fn == nil {
		return
	}
	s := (*nativeStats)(unsafe.Pointer(stats))
	fn(int(s.Frame), s.FPS, s.Quality, s.Size, int(s.Time), s.Bitrate, s.Speed)
}

func (e *NativeEngine) SetLogCallback(fn LogFunc) {
	e.mu.Lock()
	e.logFn = fn
	e.mu.Unlock()
	if fn == nil {
		mbSetLogCallback(0)
		return
	}
	mbSetLogCallback(nativeLogCB)
}

func (e *NativeEngine) SetStatsCallback(fn StatsFunc) {
	e.mu.Lock()
	e.statsFn = fn
	e.mu.Unlock()
	if fn == nil {
		mbSetStatsCallback(0)
		return
	}
	mbSetStatsCallback(nativeStatsCB)
}

func (e *NativeEngine) SetLogLevel(level int) { mbSetLogLevel(int32(level)) }

func (e *NativeEngine) LogLevel() int { return int(mbGetLogLevel()) }

func (e *NativeEngine) Version() string { return goString(mbEngineVersion()) }

func (e *NativeEngine) Cancel() {
	if e.running.Load() > 0 {
		mbCancel()
	}
}

// Execute passes argv to mb_execute. Cancelling ctx calls mb_cancel.
func (e *NativeEngine) Execute(ctx context.Context, argv []string) int {
	if ctx.Err() != nil {
		return ReturnCodeCancel
	}
	bufs := make([][]byte, len(argv))
	ptrs := make([]uintptr, len(argv)+1)
	for i, a := range argv {
		bufs[i] = append([]byte(a), 0)
		ptrs[i] = uintptr(unsafe.Pointer(&bufs[i][0]))
	}

	e.running.Add(1)
	defer e.running.Add(-1)
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			mbCancel()
		case <-done:
		}
	}()

	rc := mbExecute(int32(len(argv)), uintptr(unsafe.Pointer(&ptrs[0])))
	runtime.KeepAlive(bufs)
	runtime.KeepAlive(ptrs)
	if ctx.Err() != nil {
		return ReturnCodeCancel
	}
	return int(rc)
}

// goString copies a NUL-terminated C string.
func goString(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	p := unsafe.Pointer(ptr)
	n := 0
	for *(*byte)(unsafe.Add(p, n)) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(p), n))
}

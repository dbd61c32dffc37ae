// Package engine is the boundary to the media-processing engine. The engine
// runs jobs through an argv-style Execute call and reports diagnostics through
// two hooks: a log hook receiving (level, line) and a stats hook receiving
// progress statistics. Hooks are invoked synchronously on whatever goroutine or
// native thread the engine is using at that moment.
//
// Two implementations exist:
//
//   - ExecEngine drives an ffmpeg binary as a subprocess.
//   - NativeEngine loads a native shim library with purego (linux, darwin).
package engine

import "context"

// Return codes shared by all engines.
const (
	ReturnCodeSuccess = 0
	ReturnCodeFailure = 1
	ReturnCodeCancel  = 255
)

// DefaultLogLevel is the engine verbosity before SetLogLevel is called (info).
const DefaultLogLevel = 32

// LogFunc receives one log line emitted by the engine.
type LogFunc func(level int, line string)

// StatsFunc receives one progress statistics sample emitted by the engine.
// time is the processed output duration in milliseconds, bitrate is in kbit/s.
type StatsFunc func(frame int, fps, quality float32, size int64, time int, bitrate, speed float64)

// Engine abstracts the media engine used by the bridge and the host API.
type Engine interface {
	// Execute runs one job to completion. argv[0] is the program name.
	// The returned value is the engine status code; it never fails otherwise.
	Execute(ctx context.Context, argv []string) int
	// Cancel aborts every running job. Aborted jobs return ReturnCodeCancel.
	Cancel()
	// Version reports the engine version string.
	Version() string
	// SetLogCallback installs the log hook; nil restores the default sink.
	SetLogCallback(fn LogFunc)
	// SetStatsCallback installs the stats hook; nil disables stats reporting.
	SetStatsCallback(fn StatsFunc)
	SetLogLevel(level int)
	LogLevel() int
}

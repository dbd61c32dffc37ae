//go:build !darwin && !linux

package engine

import (
	"context"
	"errors"
)

// ErrNativeUnsupported is returned by OpenNative on platforms without purego support.
var ErrNativeUnsupported = errors.New("native engine is not supported on this platform")

// NativeEngine is unavailable on this platform.
type NativeEngine struct{}

func OpenNative(path string) (*NativeEngine, error) { return nil, ErrNativeUnsupported }

func (e *NativeEngine) Execute(ctx context.Context, argv []string) int { return ReturnCodeFailure }

func (e *NativeEngine) Cancel() {}

func (e *NativeEngine) Version() string { return "" }

func (e *NativeEngine) SetLogCallback(fn LogFunc) {}

func (e *NativeEngine) SetStatsCallback(fn StatsFunc) {}

func (e *NativeEngine) SetLogLevel(level int) {}

func (e *NativeEngine) LogLevel() int { return DefaultLogLevel }

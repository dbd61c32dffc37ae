package cli

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"mediabridge/internal/config"
	"mediabridge/internal/engine"
	"mediabridge/internal/ffmpeg"
)

// Seams replaced in tests.
var (
	fnOpenEngine = openEngine
	fnServe      = serve
)

func openEngine(cfg config.Config) (engine.Engine, error) {
	switch cfg.Engine {
	case config.EngineNative:
		e, err := engine.OpenNative(cfg.LibraryPath)
		if err != nil {
			return nil, err
		}
		return e, nil
	default:
		return engine.NewExecEngine(cfg.FFmpegPath), nil
	}
}

// newFFmpeg builds the facade described by cfg. cfg must have defaults applied.
// The engine level is set before the facade reads it.
func newFFmpeg(cfg config.Config, eng engine.Engine, log *zerolog.Logger) (*ffmpeg.FFmpeg, error) {
	if cfg.LogLevel != "" {
		lvl, err := ffmpeg.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("engine log level: %w", err)
		}
		eng.SetLogLevel(int(lvl))
	}
	f, err := ffmpeg.New(ffmpeg.Options{
		Engine:             eng,
		Logger:             log,
		ProgramName:        cfg.ProgramName,
		MaxConcurrent:      cfg.MaxConcurrent,
		MaxQueueDepth:      cfg.MaxQueueDepth,
		MaxWait:            time.Duration(cfg.MaxWaitMS) * time.Millisecond,
		MonitorTimeout:     time.Duration(cfg.MonitorTimeoutMS) * time.Millisecond,
		DisableRedirection: cfg.Redirection != nil && !*cfg.Redirection,
	})
	if err != nil {
		return nil, err
	}
	if cfg.FontDir != "" {
		if err := f.SetFontDirectory(cfg.FontCacheDir, cfg.FontDir, cfg.FontMappings); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return f, nil
}

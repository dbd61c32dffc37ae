package cli

import (
	"context"
	"fmt"
	"io"

	"mediabridge/internal/config"
	"mediabridge/internal/ffmpeg"
)

// runExec runs one execution with redirection and writes delivered log lines
// (and statistics when stats is set) to out. Everything queued is delivered
// before it returns.
func runExec(ctx context.Context, cfg config.Config, args []string, stats bool, out io.Writer) (int, error) {
	log, err := newLogger(out, cfg.ServerLogLevel, cfg.LogFormat)
	if err != nil {
		return ffmpeg.ReturnCodeSuccess, err
	}
	eng, err := fnOpenEngine(cfg)
	if err != nil {
		return ffmpeg.ReturnCodeSuccess, fmt.Errorf("open engine: %w", err)
	}
	f, err := newFFmpeg(cfg, eng, &log)
	if err != nil {
		return ffmpeg.ReturnCodeSuccess, err
	}
	f.EnableLogCallback(func(m ffmpeg.LogMessage) {
		_, _ = io.WriteString(out, m.Text)
	})
	if stats {
		f.EnableStatsCallback(func(s ffmpeg.Statistics) {
			fmt.Fprintf(out, "frame=%d fps=%.1f q=%.1f size=%d time=%dms bitrate=%.1fkbits/s speed=%.2fx\n",
				s.VideoFrameNumber, s.VideoFps, s.VideoQuality, s.Size, s.Time, s.Bitrate, s.Speed)
		})
	}

	rc, err := f.Execute(ctx, args)
	// Close drains the bridge, so every line is written before returning.
	_ = f.Close()
	if err != nil && rc != ffmpeg.ReturnCodeCancel {
		return rc, err
	}
	return rc, nil
}

// Package cli implements the mediabridge command line: the HTTP service, one-off
// engine executions and version reporting.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"mediabridge/internal/config"
)

// exitError carries an engine return code out of a command.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// loadConfig layers the config file, MEDIABRIDGE_* environment variables and
// flags, in that order, then applies defaults.
func loadConfig(path string, flags func(*config.Config)) (config.Config, error) {
	var cfg config.Config
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
	}
	applyEnv(&cfg)
	if flags != nil {
		flags(&cfg)
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *config.Config) {
	cfg.Addr = envStr("MEDIABRIDGE_ADDR", cfg.Addr)
	cfg.Engine = envStr("MEDIABRIDGE_ENGINE", cfg.Engine)
	cfg.FFmpegPath = envStr("MEDIABRIDGE_FFMPEG", cfg.FFmpegPath)
	cfg.LogLevel = envStr("MEDIABRIDGE_ENGINE_LOG_LEVEL", cfg.LogLevel)
	cfg.ServerLogLevel = envStr("MEDIABRIDGE_LOG_LEVEL", cfg.ServerLogLevel)
	cfg.LogFormat = envStr("MEDIABRIDGE_LOG_FORMAT", cfg.LogFormat)
	cfg.MaxConcurrent = envInt("MEDIABRIDGE_MAX_CONCURRENT", cfg.MaxConcurrent)
	if os.Getenv("MEDIABRIDGE_REDIRECTION") != "" {
		on := envBool("MEDIABRIDGE_REDIRECTION", true)
		cfg.Redirection = &on
	}
}

// run executes the command tree and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := buildRootCmd()
	root.SetOut(stdout)
	root.SetErr(stderr)
	if len(args) == 0 {
		_ = root.Usage()
		return 2
	}
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		var ee exitError
		if errors.As(err, &ee) {
			return ee.code
		}
		fmt.Fprintln(stderr, err.Error())
		return 1
	}
	return 0
}

// MainWithArgs is a testable variant of Main that accepts args explicitly.
// It returns an exit code (0 for success, non-zero on error).
func MainWithArgs(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, args, os.Stdout, os.Stderr)
}

// Main returns an exit code for use by cmd/mediabridge.
func Main() int { return MainWithArgs(os.Args[1:]) }

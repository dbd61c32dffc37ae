package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"mediabridge/internal/config"
	"mediabridge/internal/httpapi"
)

// serve runs the HTTP API until ctx is canceled, then shuts down gracefully.
func serve(ctx context.Context, cfg config.Config, opts serveOptions) error {
	log, err := newLogger(opts.Stderr, cfg.ServerLogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	eng, err := fnOpenEngine(cfg)
	if err != nil {
		return fmt.Errorf("open engine: %w", err)
	}
	f, err := newFFmpeg(cfg, eng, &log)
	if err != nil {
		return err
	}
	defer f.Close()

	httpapi.SetLogger(log)
	httpapi.SetExecuteTimeout(opts.ExecuteTimeout)
	httpapi.SetMaxBodyBytes(opts.MaxBodyBytes)
	if cfg.CORSEnabled {
		httpapi.SetCORSOptions(true, cfg.CORSOrigins, []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}, []string{"Content-Type", "X-Log-Level"})
	}
	baseCtx, cancelBase := context.WithCancel(ctx)
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}
	srv := &http.Server{
		Handler:           httpapi.NewMux(f),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", ln.Addr().String()).
			Str("engine", cfg.Engine).
			Str("engine_version", f.EngineVersion()).
			Bool("redirection", f.RedirectionEnabled()).
			Msg("mediabridge listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// end streaming and executing handlers before waiting on them
	cancelBase()
	f.Cancel()
	timeout := opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
		return err
	}
	log.Info().Msg("mediabridge stopped")
	return nil
}

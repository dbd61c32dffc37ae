package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mediabridge/internal/ffmpeg"
	"mediabridge/internal/registry"
	"mediabridge/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
// *ffmpeg.FFmpeg implements it.
type Service interface {
	Version() string
	EngineVersion() string
	Run(ctx context.Context, args []string) (ffmpeg.Result, error)
	RunLine(ctx context.Context, command string) (ffmpeg.Result, error)
	Cancel()
	RedirectionEnabled() bool
	EnableRedirection() error
	DisableRedirection()
	LogLevel() ffmpeg.Level
	SetLogLevel(ffmpeg.Level)
	LastReceivedStatistics() ffmpeg.Statistics
	ResetStatistics()
	Subscribe(buffer int) (<-chan ffmpeg.Message, func())
	FontDirectory() string
	Ready() bool
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, types.VersionResponse{Version: svc.Version(), EngineVersion: svc.EngineVersion()})
	})

	r.Post("/execute", executeHandler(svc))

	r.Post("/cancel", func(w http.ResponseWriter, r *http.Request) {
		svc.Cancel()
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/redirection", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, types.RedirectionState{Enabled: svc.RedirectionEnabled()})
	})

	r.Put("/redirection", func(w http.ResponseWriter, r *http.Request) {
		var req types.RedirectionState
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Enabled {
			if err := svc.EnableRedirection(); err != nil {
				writeJSONError(w, statusForError(err), err.Error())
				return
			}
		} else {
			svc.DisableRedirection()
		}
		writeJSON(w, types.RedirectionState{Enabled: svc.RedirectionEnabled()})
	})

	r.Get("/loglevel", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, levelState(svc.LogLevel()))
	})

	r.Put("/loglevel", func(w http.ResponseWriter, r *http.Request) {
		var req types.SetLogLevelRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		raw := strings.TrimSpace(req.Level)
		if raw == "" {
			if req.Value == nil {
				writeJSONError(w, http.StatusBadRequest, "level or value is required")
				return
			}
			raw = strconv.Itoa(*req.Value)
		}
		lvl, err := ffmpeg.ParseLevel(raw)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		svc.SetLogLevel(lvl)
		writeJSON(w, levelState(svc.LogLevel()))
	})

	r.Get("/statistics", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, toStatistics(svc.LastReceivedStatistics()))
	})

	r.Delete("/statistics", func(w http.ResponseWriter, r *http.Request) {
		svc.ResetStatistics()
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/events", eventsHandler(svc))

	r.Get("/fonts", func(w http.ResponseWriter, r *http.Request) {
		dir := svc.FontDirectory()
		if dir == "" {
			writeJSONError(w, http.StatusNotFound, "no font directory configured")
			return
		}
		fonts, err := registry.LoadFonts(dir)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if fonts == nil {
			fonts = []types.Font{}
		}
		writeJSON(w, types.FontsResponse{Dir: dir, Fonts: fonts})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("closed"))
	})

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

func executeHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ExecuteRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if len(req.Arguments) == 0 && strings.TrimSpace(req.Command) == "" {
			writeJSONError(w, http.StatusBadRequest, "arguments or command is required")
			return
		}

		lvl := requestLogLevel(r)
		start := time.Now()
		// shutdown cancels running executions too
		ctx, cancel := joinContexts(r.Context(), serverBaseCtx)
		defer cancel()
		if executeTimeout > 0 {
			var cancelTimeout context.CancelFunc
			ctx, cancelTimeout = context.WithTimeout(ctx, executeTimeout)
			defer cancelTimeout()
		}

		var (
			res ffmpeg.Result
			err error
		)
		if len(req.Arguments) > 0 {
			res, err = svc.Run(ctx, req.Arguments)
		} else {
			res, err = svc.RunLine(ctx, req.Command)
		}
		if err != nil {
			if r.Context().Err() != nil {
				// client went away
				return
			}
			status := statusForError(err)
			if status == http.StatusTooManyRequests {
				IncrementBackpressure("execute")
			}
			writeJSONError(w, status, err.Error())
			logRequestEnd(r, lvl, "execute end", status, start, err)
			return
		}
		writeJSON(w, types.ExecuteResponse{ID: res.ID, ReturnCode: res.ReturnCode, DurationMS: res.Duration.Milliseconds()})
		logRequestEnd(r, lvl, "execute end", http.StatusOK, start, nil)
	}
}

// eventsHandler streams delivered log and statistics messages as NDJSON until
// the client disconnects or the service shuts down.
func eventsHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ch, unsubscribe := svc.Subscribe(eventsBuffer)
		defer unsubscribe()

		w.Header().Set("Content-Type", "application/x-ndjson")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)
		flusher, _ := w.(http.Flusher)
		if flusher != nil {
			flusher.Flush()
		}

		ctx, cancel := joinContexts(r.Context(), serverBaseCtx)
		defer cancel()
		enc := json.NewEncoder(w)
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok {
					return
				}
				if err := enc.Encode(toEventMessage(m)); err != nil {
					return
				}
				if flusher != nil {
					flusher.Flush()
				}
			}
		}
	}
}

// decodeJSON enforces the JSON content type and body size limit. It writes the
// error response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func levelState(l ffmpeg.Level) types.LogLevelState {
	return types.LogLevelState{Level: l.String(), Value: int(l)}
}

func toStatistics(s ffmpeg.Statistics) types.Statistics {
	return types.Statistics{
		VideoFrameNumber: s.VideoFrameNumber,
		VideoFps:         s.VideoFps,
		VideoQuality:     s.VideoQuality,
		Size:             s.Size,
		Time:             s.Time,
		Bitrate:          s.Bitrate,
		Speed:            s.Speed,
	}
}

func toEventMessage(m ffmpeg.Message) types.EventMessage {
	out := types.EventMessage{TimeUnixMS: m.Time.UnixMilli()}
	switch {
	case m.Log != nil:
		out.Type = "log"
		out.Log = &types.LogLine{Level: m.Log.Level.String(), Value: int(m.Log.Level), Text: m.Log.Text}
	case m.Stats != nil:
		out.Type = "stats"
		st := toStatistics(*m.Stats)
		out.Stats = &st
	}
	return out
}

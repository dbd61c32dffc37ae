package ffmpeg

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"mediabridge/internal/bridge"
)

// LogCallback receives log lines that pass the active level.
type LogCallback func(LogMessage)

// StatsCallback receives the last-received statistics after each update.
type StatsCallback func(Statistics)

// Host is the receiving side of the bridge. Its callbacks run on the bridge
// consumer, one at a time.
type Host struct {
	log zerolog.Logger
	pub EventPublisher

	mu      sync.RWMutex
	logCb   LogCallback
	statsCb StatsCallback

	level atomic.Int32

	statsMu sync.Mutex
	last    Statistics

	attached atomic.Int32
	closed   atomic.Bool
}

var _ bridge.Runtime = (*Host)(nil)

// NewHost builds a Host with the given active level. A nil logger discards the
// default sink output; a nil publisher drops messages.
func NewHost(level Level, logger *zerolog.Logger, pub EventPublisher) *Host {
	h := &Host{log: zerolog.Nop(), pub: noopPublisher{}}
	if logger != nil {
		h.log = logger.With().Str("component", "ffmpeg").Logger()
	}
	if pub != nil {
		h.pub = pub
	}
	h.level.Store(int32(level))
	return h
}

// Attach registers a consumer thread. It fails once the Host is closed.
func (h *Host) Attach() (bridge.Env, error) {
	if h.closed.Load() {
		return nil, ErrClosed
	}
	h.attached.Add(1)
	return hostEnv{h: h}, nil
}

// Close rejects further attaches. An attached consumer keeps working until it
// detaches.
func (h *Host) Close() { h.closed.Store(true) }

// Attached reports how many consumers are currently attached.
func (h *Host) Attached() int { return int(h.attached.Load()) }

func (h *Host) SetLevel(l Level) { h.level.Store(int32(l)) }

func (h *Host) Level() Level { return Level(h.level.Load()) }

func (h *Host) SetLogCallback(cb LogCallback) {
	h.mu.Lock()
	h.logCb = cb
	h.mu.Unlock()
}

func (h *Host) SetStatsCallback(cb StatsCallback) {
	h.mu.Lock()
	h.statsCb = cb
	h.mu.Unlock()
}

// LastReceivedStatistics returns the accumulated statistics.
func (h *Host) LastReceivedStatistics() Statistics {
	h.statsMu.Lock()
	defer h.statsMu.Unlock()
	return h.last
}

func (h *Host) ResetStatistics() {
	h.statsMu.Lock()
	h.last = Statistics{}
	h.statsMu.Unlock()
}

// deliverLog drops the line when the active level is quiet or the line is more
// verbose than the active level.
func (h *Host) deliverLog(levelValue int, message []byte) {
	active := h.Level()
	if active == LevelQuiet || Level(levelValue) > active {
		hostFiltered.Inc()
		return
	}
	msg := LogMessage{Level: LevelFrom(levelValue), Text: string(message)}

	h.mu.RLock()
	cb := h.logCb
	h.mu.RUnlock()
	if cb != nil {
		cb(msg)
	} else if zl := msg.Level.zerologLevel(); zl != zerolog.Disabled {
		h.log.WithLevel(zl).Msg(strings.TrimRight(msg.Text, "\r\n"))
	}
	h.pub.Publish(Message{Time: time.Now(), Log: &msg})
}

func (h *Host) deliverStats(s Statistics) {
	h.statsMu.Lock()
	h.last.Update(s)
	merged := h.last
	h.statsMu.Unlock()

	h.mu.RLock()
	cb := h.statsCb
	h.mu.RUnlock()
	if cb != nil {
		cb(merged)
	}
	h.pub.Publish(Message{Time: time.Now(), Stats: &merged})
}

type hostEnv struct{ h *Host }

func (e hostEnv) Log(level int, message []byte) { e.h.deliverLog(level, message) }

func (e hostEnv) Stats(frame int, fps, quality float32, size int64, tm int, bitrate, speed float64) {
	e.h.deliverStats(Statistics{
		VideoFrameNumber: frame,
		VideoFps:         fps,
		VideoQuality:     quality,
		Size:             size,
		Time:             tm,
		Bitrate:          bitrate,
		Speed:            speed,
	})
}

func (e hostEnv) Detach() { e.h.attached.Add(-1) }

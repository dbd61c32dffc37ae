package ffmpeg

import "github.com/prometheus/client_golang/prometheus"

var (
	executionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mediabridge",
			Subsystem: "ffmpeg",
			Name:      "executions_total",
			Help:      "Finished executions by outcome",
		},
		[]string{"result"},
	)

	executionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mediabridge",
			Subsystem: "ffmpeg",
			Name:      "execution_duration_seconds",
			Help:      "Wall time of engine executions",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 14),
		},
	)

	executionsInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mediabridge",
			Subsystem: "ffmpeg",
			Name:      "executions_inflight",
			Help:      "Executions currently running in the engine",
		},
	)

	hostFiltered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mediabridge",
			Subsystem: "ffmpeg",
			Name:      "log_filtered_total",
			Help:      "Log lines dropped by the active log level",
		},
	)

	listenerDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mediabridge",
			Subsystem: "ffmpeg",
			Name:      "listener_dropped_total",
			Help:      "Messages not delivered to slow subscribers",
		},
	)
)

func init() {
	prometheus.MustRegister(executionsTotal, executionDuration, executionsInflight, hostFiltered, listenerDropped)
}

func resultLabel(rc int, err error) string {
	switch {
	case IsTooBusy(err):
		return "busy"
	case err != nil:
		return "error"
	case rc == ReturnCodeSuccess:
		return "success"
	case rc == ReturnCodeCancel:
		return "cancel"
	default:
		return "failure"
	}
}

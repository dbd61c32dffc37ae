package bridge

import "github.com/prometheus/client_golang/prometheus"

var (
	eventsEnqueued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mediabridge",
			Subsystem: "bridge",
			Name:      "events_enqueued_total",
			Help:      "Events accepted by the bridge queue",
		},
		[]string{"kind"},
	)

	eventsDelivered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mediabridge",
			Subsystem: "bridge",
			Name:      "events_delivered_total",
			Help:      "Events dispatched to the host runtime",
		},
		[]string{"kind"},
	)

	eventsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mediabridge",
			Subsystem: "bridge",
			Name:      "events_dropped_total",
			Help:      "Events discarded before delivery",
		},
		[]string{"reason"},
	)

	callbackPanics = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mediabridge",
			Subsystem: "bridge",
			Name:      "callback_panics_total",
			Help:      "Host callbacks that panicked during dispatch",
		},
	)

	queueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mediabridge",
			Subsystem: "bridge",
			Name:      "queue_depth",
			Help:      "Events waiting for the consumer",
		},
	)

	consumerRunning = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mediabridge",
			Subsystem: "bridge",
			Name:      "consumer_running",
			Help:      "1 while a consumer is attached to the host runtime",
		},
	)

	dispatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mediabridge",
			Subsystem: "bridge",
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent inside host callbacks",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1},
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(eventsEnqueued, eventsDelivered, eventsDropped, callbackPanics, queueDepth, consumerRunning, dispatchDuration)
}

const (
	dropDisabled = "disabled"
	dropStartup  = "startup"
)

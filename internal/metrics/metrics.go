// Package metrics exposes the C7/C8/C9 internals as Prometheus gauges and
// counters, grounded on the teacher's promauto-package-var idiom
// (internal/metrics/ai_metrics.go) rather than its gRPC-polling Collector:
// this service's metric sources are in-process state, not a remote
// service scraped on a timer, so there is nothing to poll — handlers and
// workers call these directly as events happen.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RecognitionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "facewatch_recognition_latency_ms",
		Help:    "Latency of one C5 Recognize call, in milliseconds",
		Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2000},
	})

	AttendanceOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "facewatch_attendance_outcomes_total",
		Help: "Total attendance gate outcomes by result",
	}, []string{"outcome"}) // created, already, suppressed

	HubDropsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "facewatch_hub_drops_total",
		Help: "Total messages dropped by the subscription hub due to a slow consumer",
	}, []string{"topic"})

	HubSubscribers = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "facewatch_hub_subscribers",
		Help: "Current live subscription count per hub topic",
	}, []string{"topic"})

	ActiveCameras = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "facewatch_active_cameras",
		Help: "Number of camera workers currently running",
	})

	PresenceOccupancy = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "facewatch_presence_room_occupancy",
		Help: "Current occupant count per room",
	}, []string{"room_id"})

	CooldownSuppressionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "facewatch_cooldown_suppressions_total",
		Help: "Total recognitions suppressed by a camera's cooldown window",
	})
)

// Handler serves the default Prometheus registry at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ItineraryRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itinerary_requests_total",
			Help: "Total number of itinerary requests by outcome",
		},
		[]string{"status"},
	)

	GenerationAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_attempts_total",
			Help: "Total number of external generation attempts by outcome",
		},
		[]string{"outcome"},
	)

	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pipeline_stage_duration_seconds",
			Help: "Duration of each itinerary pipeline stage in seconds",
		},
		[]string{"stage"},
	)

	EventsStored = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "events_store_size",
			Help: "Number of events currently held by the in-memory store",
		},
	)
)

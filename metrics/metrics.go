package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Fetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "visitors",
			Name:      "fetches_total",
			Help:      "Total number of visitor count fetches by outcome",
		},
		[]string{"outcome"},
	)

	FetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "visitors",
			Name:      "fetch_duration_seconds",
			Help:      "Visitor count fetch duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)

	Visits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "visitors",
			Name:      "visits_counted_total",
			Help:      "Total number of visits counted by source",
		},
		[]string{"source"},
	)

	CountConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "visitors",
			Name:      "count_conflicts_total",
			Help:      "Total number of conflicting count writes that were retried",
		},
	)
)

package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики воркера. Экспортируются через /metrics бинарника biome-worker.
var (
	gradingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "biome",
		Subsystem: "worker",
		Name:      "gradings_total",
		Help:      "Total number of processed gradings by final status.",
	}, []string{"status"})

	gradingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "biome",
		Subsystem: "worker",
		Name:      "grading_duration_seconds",
		Help:      "Wall-clock duration of a single grading.",
		Buckets:   prometheus.DefBuckets,
	})

	checksFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "biome",
		Subsystem: "worker",
		Name:      "checks_failed_total",
		Help:      "Total number of failed checks by check name.",
	}, []string{"check"})
)

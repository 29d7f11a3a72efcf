package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// File outcome labels for FilesProcessedTotal.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Metrics definitions
var (
	FilesProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classmetrics_files_processed_total",
		Help: "Source files processed, by outcome.",
	}, []string{"status"})

	ParseDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "classmetrics_parse_seconds",
		Help:    "Time spent parsing and binding one source file.",
		Buckets: prometheus.DefBuckets,
	})

	TraversalDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "classmetrics_traversal_seconds",
		Help:    "Time spent running the metric plugins over one file.",
		Buckets: prometheus.DefBuckets,
	})

	ClassesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classmetrics_classes_total",
		Help: "Class records produced.",
	})

	MethodsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classmetrics_methods_total",
		Help: "Method records produced.",
	})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "classmetrics_run_seconds",
		Help:    "Wall time of a complete analysis run.",
		Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	})

	WatchEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classmetrics_watch_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	WatchRerunsSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classmetrics_watch_reruns_skipped_total",
		Help: "Watch-mode reruns that were not started, by reason.",
	}, []string{"reason"})
)

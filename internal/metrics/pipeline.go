package metrics

import "github.com/prometheus/client_golang/prometheus"

// Question answering and ingestion metrics.
var (
	AnswersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_total",
			Help:      "Answer and summary outcomes",
		},
		[]string{"kind", "outcome"}, // kind: answer/summary; outcome: answered/no_match/low_confidence/all_filtered/error
	)

	IngestionRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingestion_runs_total",
			Help:      "Index rebuilds by result",
		},
		[]string{"status"}, // ok / empty / error
	)

	IngestionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingestion_duration_seconds",
			Help:      "Index rebuild duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		},
	)

	IndexDocuments = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "index_documents",
			Help:      "Number of source files in the published index",
		},
	)

	IndexChunks = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "index_chunks",
			Help:      "Number of chunks in the published index",
		},
	)
)

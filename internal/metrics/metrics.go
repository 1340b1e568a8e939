// Package metrics exposes Prometheus collectors for the crawl pipeline.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	crawlerPagesTotal     *prometheus.CounterVec
	crawlerRecordsTotal   *prometheus.CounterVec
	crawlerFetchDuration  *prometheus.HistogramVec
	documentsStoredTotal  *prometheus.CounterVec
	recordsDroppedTotal   *prometheus.CounterVec
	sourceRunsTotal       *prometheus.CounterVec
	pipelineActiveSources prometheus.Gauge

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		crawlerPagesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crawler_pages_total",
				Help: "Total number of pages fetched, labeled by source and status.",
			},
			[]string{"source", "status"},
		)

		crawlerRecordsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crawler_records_total",
				Help: "Total number of raw records extracted, labeled by source and kind.",
			},
			[]string{"source", "kind"},
		)

		crawlerFetchDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "crawler_fetch_duration_seconds",
				Help:    "Histogram of fetch latencies, labeled by source.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"source"},
		)

		documentsStoredTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "documents_stored_total",
				Help: "Total number of documents written, labeled by kind and outcome.",
			},
			[]string{"kind", "outcome"},
		)

		recordsDroppedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "records_dropped_total",
				Help: "Total number of records dropped before storage, labeled by source and reason.",
			},
			[]string{"source", "reason"},
		)

		sourceRunsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "source_runs_total",
				Help: "Total number of per-source crawl runs, labeled by status.",
			},
			[]string{"status"},
		)

		pipelineActiveSources = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "pipeline_active_sources",
				Help: "Number of sources currently being crawled.",
			},
		)
	})
}

// ObservePage counts one fetched page for the source.
func ObservePage(source, status string) {
	if crawlerPagesTotal != nil {
		crawlerPagesTotal.WithLabelValues(source, status).Inc()
	}
}

// ObserveRecords counts extracted raw records.
func ObserveRecords(source, kind string, n int) {
	if crawlerRecordsTotal != nil && n > 0 {
		crawlerRecordsTotal.WithLabelValues(source, kind).Add(float64(n))
	}
}

// ObserveFetchDuration records one fetch latency sample.
func ObserveFetchDuration(source string, d time.Duration) {
	if crawlerFetchDuration != nil {
		crawlerFetchDuration.WithLabelValues(source).Observe(d.Seconds())
	}
}

// ObserveStored counts stored documents by outcome ("inserted" or "updated").
func ObserveStored(kind, outcome string, n int) {
	if documentsStoredTotal != nil && n > 0 {
		documentsStoredTotal.WithLabelValues(kind, outcome).Add(float64(n))
	}
}

// ObserveDropped counts records dropped before storage.
func ObserveDropped(source, reason string, n int) {
	if recordsDroppedTotal != nil && n > 0 {
		recordsDroppedTotal.WithLabelValues(source, reason).Add(float64(n))
	}
}

// ObserveSourceRun counts one finished source run by status.
func ObserveSourceRun(status string) {
	if sourceRunsTotal != nil {
		sourceRunsTotal.WithLabelValues(status).Inc()
	}
}

// SourceStarted marks a source crawl as in flight.
func SourceStarted() {
	if pipelineActiveSources != nil {
		pipelineActiveSources.Inc()
	}
}

// SourceFinished marks a source crawl as done.
func SourceFinished() {
	if pipelineActiveSources != nil {
		pipelineActiveSources.Dec()
	}
}

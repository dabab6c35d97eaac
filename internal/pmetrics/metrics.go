// Package pmetrics exposes opt-in Prometheus instrumentation for the
// pipeline, snapshot store and WAL/multi-index substrate. Grounded on
// kraklabs-cie's pkg/ingestion/metrics.go: a sync.Once-guarded package
// struct of counters/histograms, registered lazily on first use so
// importing this package has no effect unless a caller actually records
// something.
package pmetrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	once sync.Once

	stagesCompleted *prometheus.CounterVec
	stagesFailed    *prometheus.CounterVec
	stageDuration   *prometheus.HistogramVec

	snapshotsSaved prometheus.Counter
	walAppends     prometheus.Counter
	walCompactions prometheus.Counter

	indexRebuilds *prometheus.CounterVec
	indexStale    *prometheus.CounterVec

	racesDetected prometheus.Counter

	queriesServed prometheus.Counter
	queryDuration prometheus.Histogram
}

var m metrics

var durationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

func (m *metrics) init() {
	m.once.Do(func() {
		m.stagesCompleted = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "codegraph_stage_completed_total", Help: "Pipeline stages completed, by stage name.",
		}, []string{"stage"})
		m.stagesFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "codegraph_stage_failed_total", Help: "Pipeline stages failed, by stage name.",
		}, []string{"stage"})
		m.stageDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "codegraph_stage_duration_seconds", Help: "Pipeline stage execution time, by stage name.",
			Buckets: durationBuckets,
		}, []string{"stage"})

		m.snapshotsSaved = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "codegraph_snapshots_saved_total", Help: "Snapshots persisted to the snapshot store.",
		})
		m.walAppends = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "codegraph_wal_appends_total", Help: "Transactions appended to the transaction WAL.",
		})
		m.walCompactions = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "codegraph_wal_compactions_total", Help: "Transaction WAL compaction passes.",
		})

		m.indexRebuilds = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "codegraph_index_rebuilds_total", Help: "Index rebuilds, by index name and kind (replay/full).",
		}, []string{"index", "kind"})
		m.indexStale = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "codegraph_index_stale_total", Help: "Times an index transitioned to Stale, by index name.",
		}, []string{"index"})

		m.racesDetected = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "codegraph_races_detected_total", Help: "Concurrent conflicting event pairs reported by the race detector.",
		})

		m.queriesServed = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "codegraph_queries_served_total", Help: "Graph queries served by the query facade.",
		})
		m.queryDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "codegraph_query_duration_seconds", Help: "Query facade QueryNodes latency.",
			Buckets: durationBuckets,
		})

		prometheus.MustRegister(
			m.stagesCompleted, m.stagesFailed, m.stageDuration,
			m.snapshotsSaved, m.walAppends, m.walCompactions,
			m.indexRebuilds, m.indexStale,
			m.racesDetected,
			m.queriesServed, m.queryDuration,
		)
	})
}

// RecordStageCompleted records one pipeline stage's successful run.
func RecordStageCompleted(stage string, durationSeconds float64) {
	m.init()
	m.stagesCompleted.WithLabelValues(stage).Inc()
	m.stageDuration.WithLabelValues(stage).Observe(durationSeconds)
}

// RecordStageFailed records one pipeline stage's failed run.
func RecordStageFailed(stage string) {
	m.init()
	m.stagesFailed.WithLabelValues(stage).Inc()
}

// RecordSnapshotSaved records one snapshot persisted to the store.
func RecordSnapshotSaved() {
	m.init()
	m.snapshotsSaved.Inc()
}

// RecordWALAppend records one transaction appended to the WAL.
func RecordWALAppend() {
	m.init()
	m.walAppends.Inc()
}

// RecordWALCompaction records one WAL compaction pass.
func RecordWALCompaction() {
	m.init()
	m.walCompactions.Inc()
}

// RecordIndexRebuild records name's rebuild, kind being "replay" (WAL
// replay via Recover) or "full" (FullRebuild from a snapshot).
func RecordIndexRebuild(name, kind string) {
	m.init()
	m.indexRebuilds.WithLabelValues(name, kind).Inc()
}

// RecordIndexStale records name's transition into the Stale state.
func RecordIndexStale(name string) {
	m.init()
	m.indexStale.WithLabelValues(name).Inc()
}

// RecordRacesDetected adds count newly reported concurrent conflicting
// event pairs.
func RecordRacesDetected(count int) {
	m.init()
	m.racesDetected.Add(float64(count))
}

// RecordQuery records one QueryNodes call's latency.
func RecordQuery(durationSeconds float64) {
	m.init()
	m.queriesServed.Inc()
	m.queryDuration.Observe(durationSeconds)
}

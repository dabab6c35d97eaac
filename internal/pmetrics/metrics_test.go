package pmetrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

// All tests in this package share the same process-wide registry (the
// teacher's sync.Once idiom registers collectors exactly once), so
// assertions check deltas rather than absolute values.

func TestRecordStageCompletedIncrementsCounter(t *testing.T) {
	RecordStageCompleted("irbuild", 0.01)
	before := testutil.ToFloat64(m.stagesCompleted.WithLabelValues("irbuild"))
	RecordStageCompleted("irbuild", 0.02)
	after := testutil.ToFloat64(m.stagesCompleted.WithLabelValues("irbuild"))
	assert.Equal(t, before+1, after)
}

func TestRecordStageFailedIncrementsCounter(t *testing.T) {
	before := testutil.ToFloat64(m.stagesFailed.WithLabelValues("pointsto"))
	RecordStageFailed("pointsto")
	after := testutil.ToFloat64(m.stagesFailed.WithLabelValues("pointsto"))
	assert.Equal(t, before+1, after)
}

func TestRecordSnapshotSavedIncrementsCounter(t *testing.T) {
	before := testutil.ToFloat64(m.snapshotsSaved)
	RecordSnapshotSaved()
	after := testutil.ToFloat64(m.snapshotsSaved)
	assert.Equal(t, before+1, after)
}

func TestRecordIndexRebuildLabelsByIndexAndKind(t *testing.T) {
	before := testutil.ToFloat64(m.indexRebuilds.WithLabelValues("vector", "full"))
	RecordIndexRebuild("vector", "full")
	after := testutil.ToFloat64(m.indexRebuilds.WithLabelValues("vector", "full"))
	assert.Equal(t, before+1, after)
}

func TestRecordRacesDetectedAddsCount(t *testing.T) {
	before := testutil.ToFloat64(m.racesDetected)
	RecordRacesDetected(3)
	after := testutil.ToFloat64(m.racesDetected)
	assert.Equal(t, before+3, after)
}

func TestRecordQueryIncrementsServedCount(t *testing.T) {
	before := testutil.ToFloat64(m.queriesServed)
	RecordQuery(0.002)
	after := testutil.ToFloat64(m.queriesServed)
	assert.Equal(t, before+1, after)
}

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddStageRejectsUnregisteredDependency(t *testing.T) {
	d := NewDAG()
	err := d.AddStage("b", "a")
	assert.Error(t, err)
}

func TestAddStageRejectsDuplicate(t *testing.T) {
	d := NewDAG()
	require.NoError(t, d.AddStage("a"))
	err := d.AddStage("a")
	assert.Error(t, err)
}

func TestLayersGroupsIndependentStagesTogether(t *testing.T) {
	d := NewDAG()
	require.NoError(t, d.AddStage("a"))
	require.NoError(t, d.AddStage("b"))
	require.NoError(t, d.AddStage("c", "a", "b"))

	layers, err := d.Layers()
	require.NoError(t, err)
	require.Len(t, layers, 2)
	assert.ElementsMatch(t, []string{"a", "b"}, layers[0])
	assert.Equal(t, []string{"c"}, layers[1])
}

func TestDefaultDAGLayersIRBuildFirstAndSnapshotLast(t *testing.T) {
	d := DefaultDAG()
	layers, err := d.Layers()
	require.NoError(t, err)
	require.NotEmpty(t, layers)

	assert.Equal(t, []string{StageIRBuild}, layers[0])
	last := layers[len(layers)-1]
	assert.Equal(t, []string{StageSnapshot}, last)
}

func TestDefaultDAGFlowDependentsShareALayer(t *testing.T) {
	d := DefaultDAG()
	layers, err := d.Layers()
	require.NoError(t, err)

	layerOf := func(id string) int {
		for i, layer := range layers {
			for _, s := range layer {
				if s == id {
					return i
				}
			}
		}
		return -1
	}

	// cost and concurrency both depend only on flow, so they become
	// ready in the same phase.
	assert.Equal(t, layerOf(StageCost), layerOf(StageConcurrency))
	// pointsto depends on irbuild+symbols, heap/effect depend on
	// pointsto, so heap/effect must come strictly after pointsto.
	assert.Greater(t, layerOf(StageHeap), layerOf(StagePointsTo))
	assert.Greater(t, layerOf(StageEffect), layerOf(StagePointsTo))
}

func TestExecutionPlanRendersEveryStage(t *testing.T) {
	d := DefaultDAG()
	plan, err := d.ExecutionPlan()
	require.NoError(t, err)
	assert.Contains(t, plan, StageIRBuild)
	assert.Contains(t, plan, StageSnapshot)
}

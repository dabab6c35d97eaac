package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandler struct {
	id      string
	metrics StageMetrics
	err     error
}

func (h *fakeHandler) ID() string { return h.id }

func (h *fakeHandler) Execute(ctx context.Context, in StageInput) (StageOutput, error) {
	if h.err != nil {
		return StageOutput{}, h.err
	}
	return StageOutput{Metrics: h.metrics}, nil
}

func TestRunMergesMetricsAcrossLayers(t *testing.T) {
	d := NewDAG()
	require.NoError(t, d.AddStage("a"))
	require.NoError(t, d.AddStage("b", "a"))

	o := New(d)
	o.RegisterHandler(&fakeHandler{id: "a", metrics: StageMetrics{FilesProcessed: 3, NodesCreated: 10}})
	o.RegisterHandler(&fakeHandler{id: "b", metrics: StageMetrics{FilesProcessed: 1, NodesCreated: 5}})

	result, err := o.Run(context.Background(), StageInput{})
	require.NoError(t, err)
	assert.Equal(t, 4, result.FilesProcessed)
	assert.Equal(t, 15, result.NodesCreated)
}

func TestRunFailsWhenHandlerMissing(t *testing.T) {
	d := NewDAG()
	require.NoError(t, d.AddStage("a"))
	o := New(d)

	_, err := o.Run(context.Background(), StageInput{})
	assert.Error(t, err)
}

func TestRunPropagatesStageError(t *testing.T) {
	d := NewDAG()
	require.NoError(t, d.AddStage("a"))
	require.NoError(t, d.AddStage("b"))

	o := New(d)
	o.RegisterHandler(&fakeHandler{id: "a", err: errors.New("boom")})
	o.RegisterHandler(&fakeHandler{id: "b", metrics: StageMetrics{FilesProcessed: 1}})

	_, err := o.Run(context.Background(), StageInput{})
	assert.ErrorContains(t, err, "boom")
}

func TestRunCancelsSiblingsOnLayerFailure(t *testing.T) {
	d := NewDAG()
	require.NoError(t, d.AddStage("a"))
	require.NoError(t, d.AddStage("b"))

	blocked := make(chan struct{})
	slow := &blockingHandler{id: "b", unblock: blocked}

	o := New(d)
	o.RegisterHandler(&fakeHandler{id: "a", err: errors.New("boom")})
	o.RegisterHandler(slow)

	_, err := o.Run(context.Background(), StageInput{})
	assert.Error(t, err)
	close(blocked)
}

type blockingHandler struct {
	id      string
	unblock chan struct{}
}

func (h *blockingHandler) ID() string { return h.id }

func (h *blockingHandler) Execute(ctx context.Context, in StageInput) (StageOutput, error) {
	select {
	case <-ctx.Done():
		return StageOutput{}, ctx.Err()
	case <-h.unblock:
		return StageOutput{}, nil
	}
}

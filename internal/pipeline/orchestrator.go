package pipeline

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Result is the aggregated metrics from every stage that ran, mirroring
// orchestrator.rs's PipelineResult.
type Result struct {
	FilesProcessed int
	NodesCreated   int
	ChunksCreated  int
	DurationMS     int64
	Errors         []string
}

func (r *Result) mergeMetrics(m StageMetrics) {
	r.FilesProcessed += m.FilesProcessed
	r.NodesCreated += m.NodesCreated
	r.ChunksCreated += m.ChunksCreated
	r.DurationMS += m.DurationMS
	r.Errors = append(r.Errors, m.Errors...)
}

// Orchestrator runs a DAG's stages layer by layer, executing every
// stage within a layer concurrently (spec: "independent layers execute
// concurrently").
type Orchestrator struct {
	dag      *DAG
	mu       sync.RWMutex
	handlers map[string]StageHandler
	scan     ScanFilter
}

// New returns an orchestrator over dag with no handlers registered.
func New(dag *DAG) *Orchestrator {
	return &Orchestrator{dag: dag, handlers: make(map[string]StageHandler)}
}

// RegisterHandler wires a handler to serve the stage it names.
func (o *Orchestrator) RegisterHandler(h StageHandler) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.handlers[h.ID()] = h
}

// SetScanFilter configures the include/exclude globs applied to
// StageInput.Files before the first layer runs.
func (o *Orchestrator) SetScanFilter(f ScanFilter) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.scan = f
}

// Run executes every stage in o's DAG, layer by layer. The first stage
// failure in a layer cancels that layer's context (via errgroup) and
// Run returns immediately; stages already completed in earlier layers
// still contributed their metrics to the returned Result.
func (o *Orchestrator) Run(ctx context.Context, in StageInput) (Result, error) {
	start := time.Now()
	var result Result

	o.mu.RLock()
	in.Files = o.scan.Apply(in.Files)
	o.mu.RUnlock()

	layers, err := o.dag.Layers()
	if err != nil {
		return result, err
	}

	for i, layer := range layers {
		log.Printf("pipeline: phase %d/%d: %v", i+1, len(layers), layer)

		g, gctx := errgroup.WithContext(ctx)
		outputs := make([]StageOutput, len(layer))

		for idx, stageID := range layer {
			idx, stageID := idx, stageID
			o.mu.RLock()
			handler, ok := o.handlers[stageID]
			o.mu.RUnlock()
			if !ok {
				return result, fmt.Errorf("pipeline: no handler registered for stage %q", stageID)
			}

			g.Go(func() error {
				out, err := handler.Execute(gctx, in)
				if err != nil {
					return fmt.Errorf("stage %q: %w", stageID, err)
				}
				outputs[idx] = out
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return result, err
		}
		for _, out := range outputs {
			result.mergeMetrics(out.Metrics)
		}
	}

	result.DurationMS = time.Since(start).Milliseconds()
	return result, nil
}

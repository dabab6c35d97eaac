package pipeline

import "context"

// StageInput is what every stage handler receives. Cache carries the
// prior stages' checkpoint-equivalent data keyed by stage ID, mirroring
// orchestrator.rs's dependency cache load (minus the checkpoint store
// itself, out of scope here: the snapshot store is this repo's
// durable record, spec §4.12).
type StageInput struct {
	Files        []string
	Incremental  bool
	ChangedFiles []string
	Cache        map[string][]byte
}

// StageMetrics is one stage's contribution to the run's aggregate
// Result.
type StageMetrics struct {
	FilesProcessed int
	NodesCreated   int
	ChunksCreated  int
	DurationMS     int64
	Errors         []string
}

// StageOutput is a stage handler's result: its metrics plus any data
// the next stage (or Result) should see.
type StageOutput struct {
	CacheData []byte
	Metrics   StageMetrics
}

// StageHandler runs one DAG stage.
type StageHandler interface {
	ID() string
	Execute(ctx context.Context, in StageInput) (StageOutput, error)
}

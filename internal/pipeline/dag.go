// Package pipeline implements the orchestrator DAG (spec §2 "Control
// flow": "a pipeline orchestrator runs layers as a DAG; independent
// layers execute concurrently"). Grounded on
// original_source/packages/codegraph-orchestration/src/orchestrator.rs's
// PipelineOrchestrator, adapted from its tokio::spawn + join_all
// per-phase fan-out to golang.org/x/sync/errgroup (teacher dependency).
package pipeline

import (
	"fmt"
	"strings"
)

// Stage is one DAG node: an analysis layer and the stages whose output
// it depends on.
type Stage struct {
	ID           string
	Dependencies []string
}

// DAG is a directed acyclic graph of stages, built incrementally with
// AddStage in dependency order (a stage's dependencies must already be
// present — the same "you can't reference a stage that isn't in the
// DAG yet" discipline orchestrator.rs's StageNode construction relies
// on its StageId enum for).
type DAG struct {
	stages map[string]*Stage
	order  []string // insertion order, for deterministic iteration
}

// NewDAG returns an empty DAG.
func NewDAG() *DAG {
	return &DAG{stages: make(map[string]*Stage)}
}

// AddStage registers a stage with the given dependencies, all of which
// must already be present in the DAG.
func (d *DAG) AddStage(id string, deps ...string) error {
	if _, exists := d.stages[id]; exists {
		return fmt.Errorf("pipeline: stage %q already registered", id)
	}
	for _, dep := range deps {
		if _, ok := d.stages[dep]; !ok {
			return fmt.Errorf("pipeline: stage %q depends on unregistered stage %q", id, dep)
		}
	}
	d.stages[id] = &Stage{ID: id, Dependencies: deps}
	d.order = append(d.order, id)
	return nil
}

// Stage returns the stage registered under id.
func (d *DAG) Stage(id string) (*Stage, bool) {
	s, ok := d.stages[id]
	return s, ok
}

// Layers groups stages into execution phases: phase N contains every
// stage whose dependencies are all satisfied by phases 0..N-1. Stages
// within a layer have no dependency relation to each other and are
// meant to run concurrently (spec: "independent layers execute
// concurrently").
func (d *DAG) Layers() ([][]string, error) {
	remaining := make(map[string]*Stage, len(d.stages))
	for id, s := range d.stages {
		remaining[id] = s
	}

	done := make(map[string]bool, len(d.stages))
	var layers [][]string

	for len(remaining) > 0 {
		var layer []string
		for _, id := range d.order {
			s, ok := remaining[id]
			if !ok {
				continue
			}
			ready := true
			for _, dep := range s.Dependencies {
				if !done[dep] {
					ready = false
					break
				}
			}
			if ready {
				layer = append(layer, id)
			}
		}
		if len(layer) == 0 {
			// AddStage already rejects references to unregistered stages,
			// so the only way remaining can't shrink is a dependency
			// cycle introduced by registering stages out of order.
			var stuck []string
			for id := range remaining {
				stuck = append(stuck, id)
			}
			return nil, fmt.Errorf("pipeline: dependency cycle among stages %v", stuck)
		}
		for _, id := range layer {
			done[id] = true
			delete(remaining, id)
		}
		layers = append(layers, layer)
	}
	return layers, nil
}

// ExecutionPlan renders the layered schedule for logging, mirroring
// orchestrator.rs's "Execution plan:\n{}" diagnostic.
func (d *DAG) ExecutionPlan() (string, error) {
	layers, err := d.Layers()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for i, layer := range layers {
		fmt.Fprintf(&b, "phase %d: %s\n", i+1, strings.Join(layer, ", "))
	}
	return b.String(), nil
}

// DefaultDAG builds the stage graph wiring every analysis package named
// in the repository's layout: IR build feeds occurrence/chunk/symbols/
// flow in parallel; flow feeds dataflow, cost and concurrency; dataflow
// feeds the PDG; points-to depends on both IR build and symbols and in
// turn feeds heap and effect; every terminal stage's output is
// materialized into a snapshot.
func DefaultDAG() *DAG {
	d := NewDAG()
	must := func(err error) {
		if err != nil {
			panic(err) // stage graph is static; a failure here is a programming error
		}
	}
	must(d.AddStage(StageIRBuild))
	must(d.AddStage(StageOccurrence, StageIRBuild))
	must(d.AddStage(StageChunk, StageIRBuild))
	must(d.AddStage(StageSymbols, StageIRBuild))
	must(d.AddStage(StageFlow, StageIRBuild))
	must(d.AddStage(StageDataflow, StageFlow))
	must(d.AddStage(StagePDG, StageDataflow))
	must(d.AddStage(StagePointsTo, StageIRBuild, StageSymbols))
	must(d.AddStage(StageHeap, StagePointsTo))
	must(d.AddStage(StageEffect, StagePointsTo))
	must(d.AddStage(StageCost, StageFlow))
	must(d.AddStage(StageConcurrency, StageFlow))
	must(d.AddStage(StageSnapshot,
		StageOccurrence, StageChunk, StageSymbols, StagePDG,
		StageHeap, StageEffect, StageCost, StageConcurrency, StagePointsTo))
	return d
}

// Stage identifiers for DefaultDAG, one per analysis package.
const (
	StageIRBuild     = "irbuild"
	StageOccurrence  = "occurrence"
	StageChunk       = "chunk"
	StageSymbols     = "symbols"
	StageFlow        = "flow"
	StageDataflow    = "dataflow"
	StagePDG         = "pdg"
	StagePointsTo    = "pointsto"
	StageHeap        = "heap"
	StageEffect      = "effect"
	StageCost        = "cost"
	StageConcurrency = "concurrency"
	StageSnapshot    = "snapshot"
)

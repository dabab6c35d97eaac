package pointsto

import "github.com/codegraph-ir/codegraph/internal/types"

// Solve dispatches to the solver backend selected by cfg.Mode (spec
// §4.7.1): Fast always runs Steensgaard; Precise always runs Andersen
// (parallel, when cfg.EnableParallel); Hybrid returns Steensgaard's result
// once the constraint count exceeds RefineThreshold and runs Andersen at
// or below it (Steensgaard's classes are not merged into the Andersen
// result); Auto picks Fast or Precise outright by constraint count
// against AutoThreshold.
func Solve(constraints []types.Constraint, cfg types.PointsToConfig) *Graph {
	switch cfg.Mode {
	case types.ModeFast:
		return SolveSteensgaard(constraints)
	case types.ModePrecise:
		return solveAndersenMode(constraints, cfg)
	case types.ModeHybrid:
		if uint64(len(constraints)) > cfg.RefineThreshold {
			return SolveSteensgaard(constraints)
		}
		return solveAndersenMode(constraints, cfg)
	case types.ModeAuto:
		if uint64(len(constraints)) > cfg.AutoThreshold {
			return SolveSteensgaard(constraints)
		}
		return solveAndersenMode(constraints, cfg)
	default:
		return SolveSteensgaard(constraints)
	}
}

func solveAndersenMode(constraints []types.Constraint, cfg types.PointsToConfig) *Graph {
	if cfg.EnableParallel {
		return SolveAndersenParallel(constraints, cfg, 4)
	}
	return SolveAndersen(constraints, cfg)
}

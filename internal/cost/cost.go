package cost

import (
	"strconv"
	"strings"

	"github.com/codegraph-ir/codegraph/internal/flow"
	"github.com/codegraph-ir/codegraph/internal/types"
)

// MaxBFSIterations defensively bounds the nesting-depth BFS (spec
// §4.10: "BFS is capped at 10 000 iterations defensively").
const MaxBFSIterations = 10000

// NestingDepth returns, for every block reachable from cfg.Entry, the
// number of loop headers on the BFS path by which the block was first
// reached (the block's own loop header, if any, is not counted — see
// LoopResult.NestingDepth for the header's own nesting level). A loop's
// fall-through exit leaves from its header, so a block after a loop also
// counts that loop's header, not only the loops enclosing it. Computed
// via a single capped BFS over cfg's successor edges (spec §4.10).
func NestingDepth(cfg *flow.CFG) map[int]int {
	headers := make(map[int]bool)
	for _, h := range cfg.LoopHeaders() {
		headers[h] = true
	}

	depth := map[int]int{cfg.Entry: 0}
	visited := map[int]bool{cfg.Entry: true}
	queue := []int{cfg.Entry}

	for i := 0; i < len(queue) && i < MaxBFSIterations; i++ {
		b := queue[i]
		next := depth[b]
		if headers[b] {
			next++
		}
		for _, succ := range cfg.Successors(b) {
			if !visited[succ] {
				visited[succ] = true
				depth[succ] = next
				queue = append(queue, succ)
			}
		}
	}
	return depth
}

// LoopResult is one loop header's inferred bound and nesting level.
type LoopResult struct {
	HeaderBlock  int
	Bound        Bound
	Verdict      types.Verdict
	NestingDepth int // 1 + the loop headers NestingDepth counts before this header
}

// FunctionResult is the combined cost analysis for one function.
type FunctionResult struct {
	Loops   []LoopResult
	Term    string
	Verdict types.Verdict
}

// headerStatementText extracts the source text of a loop header block's
// first line (by line, the granularity flow.Span tracks), which stands in
// for "first statement": the header block's span covers the whole
// control-flow node, body included, so only the line holding the loop
// keyword and its condition or range clause is returned.
func headerStatementText(cfg *flow.CFG, header int, lines []string) string {
	for _, b := range cfg.Blocks {
		if b.ID == header {
			start := b.Span.StartLine - 1
			if start < 0 {
				start = 0
			}
			if start >= len(lines) {
				return ""
			}
			return lines[start]
		}
	}
	return ""
}

// Analyze runs loop discovery, bound inference, and nesting-depth
// classification over one function's CFG and combines the result into
// a symbolic cost term (spec §4.10).
func Analyze(cfg *flow.CFG, content []byte) FunctionResult {
	depths := NestingDepth(cfg)
	lines := strings.Split(string(content), "\n")

	var loops []LoopResult
	maxDepth := 0
	worst := types.VerdictProven
	for _, h := range cfg.LoopHeaders() {
		bound := InferBound(headerStatementText(cfg, h, lines))
		nesting := depths[h] + 1
		loops = append(loops, LoopResult{
			HeaderBlock:  h,
			Bound:        bound,
			Verdict:      bound.Verdict(),
			NestingDepth: nesting,
		})
		if nesting > maxDepth {
			maxDepth = nesting
		}
		worst = worst.Worse(bound.Verdict())
	}

	if len(loops) == 0 {
		return FunctionResult{Term: "O(1)", Verdict: types.VerdictProven}
	}

	return FunctionResult{Loops: loops, Term: termFor(maxDepth), Verdict: worst}
}

func termFor(depth int) string {
	switch depth {
	case 0:
		return "O(1)"
	case 1:
		return "O(n)"
	case 2:
		return "O(n²)"
	case 3:
		return "O(n³)"
	default:
		return "O(n^" + strconv.Itoa(depth) + ")"
	}
}

package pdg

// Slicer answers backward/forward/hybrid/thin slice and chop queries over
// a PDG (spec §4.6).
type Slicer struct {
	forward      map[int][]int
	backward     map[int][]int
	forwardData  map[int][]int
	backwardData map[int][]int
}

// NewSlicer precomputes adjacency lists from pdg's edges.
func NewSlicer(p *PDG) *Slicer {
	s := &Slicer{
		forward:      make(map[int][]int),
		backward:     make(map[int][]int),
		forwardData:  make(map[int][]int),
		backwardData: make(map[int][]int),
	}
	for _, e := range p.Edges {
		s.forward[e.From] = append(s.forward[e.From], e.To)
		s.backward[e.To] = append(s.backward[e.To], e.From)
		if e.Kind == DataDep {
			s.forwardData[e.From] = append(s.forwardData[e.From], e.To)
			s.backwardData[e.To] = append(s.backwardData[e.To], e.From)
		}
	}
	return s
}

func bfs(start int, adj map[int][]int, maxDepth int) []int {
	visited := map[int]bool{start: true}
	type frame struct {
		id    int
		depth int
	}
	queue := []frame{{start, 0}}
	var out []int
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if maxDepth > 0 && cur.depth >= maxDepth {
			continue
		}
		for _, next := range adj[cur.id] {
			if visited[next] {
				continue
			}
			visited[next] = true
			out = append(out, next)
			queue = append(queue, frame{next, cur.depth + 1})
		}
	}
	return out
}

// BackwardSlice returns every node node transitively depends on (control
// or data), depth-limited if maxDepth > 0.
func (s *Slicer) BackwardSlice(node, maxDepth int) []int {
	return bfs(node, s.backward, maxDepth)
}

// ForwardSlice returns every node transitively depending on node.
func (s *Slicer) ForwardSlice(node, maxDepth int) []int {
	return bfs(node, s.forward, maxDepth)
}

// HybridSlice unions the backward and forward slices of node.
func (s *Slicer) HybridSlice(node, maxDepth int) []int {
	seen := make(map[int]bool)
	var out []int
	for _, n := range s.BackwardSlice(node, maxDepth) {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	for _, n := range s.ForwardSlice(node, maxDepth) {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// ThinSlice is the backward slice restricted to data dependence only,
// ignoring control dependence — the producers directly relevant to node's
// value, per spec's thin-slice variant.
func (s *Slicer) ThinSlice(node, maxDepth int) []int {
	return bfs(node, s.backwardData, maxDepth)
}

// Chop returns every node on some dependence path from source to target:
// the intersection of source's forward slice and target's backward slice.
func (s *Slicer) Chop(source, target, maxDepth int) []int {
	forward := make(map[int]bool)
	for _, n := range s.ForwardSlice(source, maxDepth) {
		forward[n] = true
	}
	var out []int
	for _, n := range s.BackwardSlice(target, maxDepth) {
		if forward[n] {
			out = append(out, n)
		}
	}
	return out
}

package effect

// Cell is one separation-logic points-to fact: base ↦ { field: value }.
// A bare pointer cell (no struct field) uses field "*".
type Cell struct {
	Base  string
	Field string
	Value string
}

// SymbolicHeap is a minimal separation-logic heap: a set of disjoint
// points-to cells. It supports lookup, strong update and enumeration of
// cells; it has no entailment checking and no heap diffing.
type SymbolicHeap struct {
	cells map[[2]string]Cell // (Base, Field) -> Cell
}

// Emp is the empty heap ("emp" in separation-logic notation).
func Emp() SymbolicHeap { return SymbolicHeap{cells: make(map[[2]string]Cell)} }

func key(base, field string) [2]string { return [2]string{base, field} }

// Lookup returns the cell at base.field, if the heap has one.
func (h SymbolicHeap) Lookup(base, field string) (Cell, bool) {
	c, ok := h.cells[key(base, field)]
	return c, ok
}

// With returns a new heap with c inserted (or strong-updated if a cell
// already exists at the same base.field).
func (h SymbolicHeap) With(c Cell) SymbolicHeap {
	out := make(map[[2]string]Cell, len(h.cells)+1)
	for k, v := range h.cells {
		out[k] = v
	}
	out[key(c.Base, c.Field)] = c
	return SymbolicHeap{cells: out}
}

// Cells returns every cell in the heap, in no particular order.
func (h SymbolicHeap) Cells() []Cell {
	out := make([]Cell, 0, len(h.cells))
	for _, c := range h.cells {
		out = append(out, c)
	}
	return out
}

// Len reports the number of cells in the heap.
func (h SymbolicHeap) Len() int { return len(h.cells) }

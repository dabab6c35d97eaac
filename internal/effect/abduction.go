package effect

import (
	"strconv"
	"strings"
)

// AccessKind classifies one statement's heap interaction, as the IR
// builder classifies it (spec §4.9 walks "entering an expression that
// dereferences x.f" and "observing writes" — both require AST context
// this package doesn't have, so the caller supplies the classification).
type AccessKind uint8

const (
	AccessRead AccessKind = iota
	AccessWrite
	AccessCall
	AccessReturn
)

// Access is one statement in a function body, reduced to the shape
// bi-abduction needs.
type Access struct {
	Kind     AccessKind
	Base     string // variable dereferenced, for Read/Write
	Field    string // struct field, "*" for a bare pointer deref
	Value    string // assigned value's symbolic name, for Write
	CallName string // call target, for Call
	Variable string // known declared variable this access mentions, for collection-name heuristics
}

// Spec is one function's inferred contract {P} f {Q} (spec §4.9's
// "function specs {P} f {Q}... cached for compositional reuse").
type Spec struct {
	Precondition  SymbolicHeap
	Postcondition SymbolicHeap
	Effects       EffectSet
	Confidence    float64
}

// Result is what Abduce returns for one function, before it's cached.
type Result struct {
	Precondition  SymbolicHeap
	Postcondition SymbolicHeap
	Effects       EffectSet
	Confidence    float64
}

// Engine runs bi-abduction over a function's access sequence and caches
// the resulting Spec per function name for compositional reuse by
// callers (spec §4.9).
type Engine struct {
	existential int
	specs       map[string]Spec
}

// NewEngine returns an Engine with an empty function-spec cache.
func NewEngine() *Engine {
	return &Engine{specs: make(map[string]Spec)}
}

// SpecFor returns a previously cached Spec for name, if Abduce has
// already analyzed it.
func (e *Engine) SpecFor(name string) (Spec, bool) {
	s, ok := e.specs[name]
	return s, ok
}

func (e *Engine) freshExistential() string {
	e.existential++
	return "?e" + strconv.Itoa(e.existential)
}

// Abduce runs forward symbolic execution with abduction over accesses,
// caching the resulting Spec under functionName (spec §4.9's algorithm):
// a missing read abduces a precondition cell holding a fresh existential;
// a write updates the current heap and contributes to the postcondition;
// calls classify effects by name pattern; a Throws-classified call
// overrides any DB effect already inferred for this function, per the
// named context rule.
func (e *Engine) Abduce(functionName string, accesses []Access) Result {
	if len(accesses) == 0 {
		r := Result{Precondition: Emp(), Postcondition: Emp(), Effects: NewEffectSet(Pure), Confidence: 1.0}
		e.specs[functionName] = Spec(r)
		return r
	}

	current := Emp()
	precondition := Emp()
	postcondition := Emp()
	effects := make(EffectSet)
	confidence := 1.0
	sawThrow := false
	sawRollback := false

	for _, a := range accesses {
		switch a.Kind {
		case AccessRead:
			if _, ok := current.Lookup(a.Base, a.Field); !ok {
				// Missing heap: abduce an anti-frame cell holding a
				// fresh existential and add it to both the running heap
				// and the inferred precondition.
				cell := Cell{Base: a.Base, Field: a.Field, Value: e.freshExistential()}
				current = current.With(cell)
				precondition = precondition.With(cell)
			}
			effects.Add(ReadState)
		case AccessWrite:
			if _, ok := current.Lookup(a.Base, a.Field); !ok {
				// Writing through heap we never observed being read
				// still requires ownership of the cell: abduce it too,
				// then the write below immediately overwrites it.
				ghost := Cell{Base: a.Base, Field: a.Field, Value: e.freshExistential()}
				precondition = precondition.With(ghost)
			}
			cell := Cell{Base: a.Base, Field: a.Field, Value: a.Value}
			current = current.With(cell)
			postcondition = postcondition.With(cell)
			if isGlobalName(a.Base) {
				effects.Add(GlobalMutation)
			} else {
				effects.Add(WriteState)
			}
		case AccessCall:
			kind := ClassifyCall(a.CallName)
			if kind == ExternalCall && IsCollectionLike(a.Variable) {
				// An unrecognized call on a collection-like receiver is
				// almost always a getter/iterator, not an external
				// effect (spec §4.9's named context rule).
				kind = ReadState
			}
			effects.Add(kind)
			if kind == Throws {
				sawThrow = true
				if containsRollback(a.CallName) {
					sawRollback = true
				}
			}
			if kind == Network || kind == DbRead || kind == DbWrite {
				effects.Add(Io)
			}
		case AccessReturn:
			// No heap effect; return itself carries no classification.
		}
	}

	// raise/throw overrides DB effects: a function that can both touch
	// the DB (via a generic call heuristic) and explicitly raises treats
	// the raise as authoritative for its control-flow-visible behavior.
	if sawThrow {
		effects.Remove(DbRead)
		effects.Remove(DbWrite)
		effects.Add(Throws)
		if sawRollback {
			confidence = confidence * 0.9 // exception-handling context: less certain about the steady-state effect set
		}
	}

	if len(effects) == 0 {
		effects.Add(Pure)
	}

	result := Result{
		Precondition:  precondition,
		Postcondition: postcondition,
		Effects:       effects,
		Confidence:    confidence,
	}
	e.specs[functionName] = Spec(result)
	return result
}

func isGlobalName(name string) bool {
	if name == "" {
		return false
	}
	first := name[0]
	return first >= 'A' && first <= 'Z'
}

func containsRollback(name string) bool {
	return strings.Contains(strings.ToLower(name), "rollback")
}

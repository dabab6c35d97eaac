package heap

import "sort"

// OwnershipEventKind classifies one program-order event in a variable's
// ownership lifetime (spec §4.8).
type OwnershipEventKind uint8

const (
	OwnershipMove OwnershipEventKind = iota
	OwnershipBorrow
	OwnershipUse
)

// OwnershipEvent is one move/borrow/use of a variable, in the program
// order the caller observed it (typically CFG block id, then line).
type OwnershipEvent struct {
	Variable string
	Kind     OwnershipEventKind
	BlockID  int
	Line     int
}

// ViolationKind enumerates the ownership violations spec §4.8 names.
type ViolationKind uint8

const (
	UseAfterMove ViolationKind = iota
	ConflictingBorrow
)

func (v ViolationKind) String() string {
	switch v {
	case UseAfterMove:
		return "use-after-move"
	case ConflictingBorrow:
		return "conflicting-borrow"
	default:
		return "unknown"
	}
}

// OwnershipViolation is one finding from CheckOwnership.
type OwnershipViolation struct {
	Kind     ViolationKind
	Variable string
	Line     int
	MovedAt  int // line of the move/first borrow this violation conflicts with
}

// TypeClass tells CheckOwnership whether a type is copied or moved on
// assignment; types absent from either set default to CopyTypes'
// behavior only when Default is Copy.
type TypeClass struct {
	CopyTypes map[string]bool
	MoveTypes map[string]bool
	Default   MoveSemantics
}

// MoveSemantics is the assumed semantics for a type absent from both
// CopyTypes and MoveTypes.
type MoveSemantics uint8

const (
	DefaultCopy MoveSemantics = iota
	DefaultMove
)

// IsMoveType reports whether values of typ are move-only.
func (c TypeClass) IsMoveType(typ string) bool {
	if c.MoveTypes[typ] {
		return true
	}
	if c.CopyTypes[typ] {
		return false
	}
	return c.Default == DefaultMove
}

// VarType maps a variable to its declared type, the minimum the checker
// needs to know to classify a move vs. a copy.
type VarType struct {
	Variable string
	Type     string
}

// CheckOwnership walks each variable's events in program order and
// flags a use or borrow occurring after the variable was moved
// (use-after-move), and a second mutable-intent borrow outstanding while
// an earlier one is still live (conflicting-borrow): spec §4.8's two
// named violation kinds. Only move-type variables are tracked; copy-type
// variables never violate move semantics by construction.
func CheckOwnership(types []VarType, classes TypeClass, events []OwnershipEvent) []OwnershipViolation {
	typeOf := make(map[string]string, len(types))
	for _, t := range types {
		typeOf[t.Variable] = t.Type
	}

	byVar := make(map[string][]OwnershipEvent)
	for _, e := range events {
		if !classes.IsMoveType(typeOf[e.Variable]) {
			continue
		}
		byVar[e.Variable] = append(byVar[e.Variable], e)
	}

	var violations []OwnershipViolation
	for v, evs := range byVar {
		sort.SliceStable(evs, func(i, j int) bool {
			if evs[i].BlockID != evs[j].BlockID {
				return evs[i].BlockID < evs[j].BlockID
			}
			return evs[i].Line < evs[j].Line
		})

		moved := false
		movedAt := 0
		borrowedAt := -1
		for _, e := range evs {
			switch e.Kind {
			case OwnershipMove:
				if moved {
					violations = append(violations, OwnershipViolation{
						Kind: UseAfterMove, Variable: v, Line: e.Line, MovedAt: movedAt,
					})
				}
				moved = true
				movedAt = e.Line
				borrowedAt = -1
			case OwnershipBorrow:
				if moved {
					violations = append(violations, OwnershipViolation{
						Kind: UseAfterMove, Variable: v, Line: e.Line, MovedAt: movedAt,
					})
					continue
				}
				if borrowedAt >= 0 {
					violations = append(violations, OwnershipViolation{
						Kind: ConflictingBorrow, Variable: v, Line: e.Line, MovedAt: borrowedAt,
					})
				}
				borrowedAt = e.Line
			case OwnershipUse:
				if moved {
					violations = append(violations, OwnershipViolation{
						Kind: UseAfterMove, Variable: v, Line: e.Line, MovedAt: movedAt,
					})
				}
			}
		}
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].Variable != violations[j].Variable {
			return violations[i].Variable < violations[j].Variable
		}
		return violations[i].Line < violations[j].Line
	})
	return violations
}

package heap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckOwnershipFindsUseAfterMove(t *testing.T) {
	types := []VarType{{Variable: "buf", Type: "Buffer"}}
	classes := TypeClass{MoveTypes: map[string]bool{"Buffer": true}}
	events := []OwnershipEvent{
		{Variable: "buf", Kind: OwnershipMove, BlockID: 0, Line: 1},
		{Variable: "buf", Kind: OwnershipUse, BlockID: 1, Line: 2},
	}

	violations := CheckOwnership(types, classes, events)
	require.Len(t, violations, 1)
	assert.Equal(t, UseAfterMove, violations[0].Kind)
	assert.Equal(t, 1, violations[0].MovedAt)
}

func TestCheckOwnershipIgnoresCopyTypes(t *testing.T) {
	types := []VarType{{Variable: "n", Type: "int"}}
	classes := TypeClass{CopyTypes: map[string]bool{"int": true}}
	events := []OwnershipEvent{
		{Variable: "n", Kind: OwnershipMove, BlockID: 0, Line: 1},
		{Variable: "n", Kind: OwnershipUse, BlockID: 1, Line: 2},
	}

	violations := CheckOwnership(types, classes, events)
	assert.Empty(t, violations)
}

func TestCheckOwnershipFindsConflictingBorrow(t *testing.T) {
	types := []VarType{{Variable: "buf", Type: "Buffer"}}
	classes := TypeClass{MoveTypes: map[string]bool{"Buffer": true}}
	events := []OwnershipEvent{
		{Variable: "buf", Kind: OwnershipBorrow, BlockID: 0, Line: 1},
		{Variable: "buf", Kind: OwnershipBorrow, BlockID: 0, Line: 2},
	}

	violations := CheckOwnership(types, classes, events)
	require.Len(t, violations, 1)
	assert.Equal(t, ConflictingBorrow, violations[0].Kind)
}

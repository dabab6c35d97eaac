package heap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullDerefCheckerFindsReachableDeref(t *testing.T) {
	ctx := CheckContext{
		File:       "f.go",
		Nils:       []NilSite{{Variable: "p", BlockID: 0, Line: 1}},
		Derefs:     []DerefSite{{Variable: "p", BlockID: 1, Line: 2}},
		Successors: map[int][]int{0: {1}},
	}
	issues := NullDerefChecker{}.Check(ctx)
	require.Len(t, issues, 1)
	assert.Equal(t, NullDereference, issues[0].Kind)
}

func TestUseAfterFreeCheckerFindsReachableDeref(t *testing.T) {
	ctx := CheckContext{
		Frees:      []FreeSite{{Variable: "buf", BlockID: 0, Line: 1}},
		Derefs:     []DerefSite{{Variable: "buf", BlockID: 1, Line: 5}},
		Successors: map[int][]int{0: {1}},
	}
	issues := UseAfterFreeChecker{}.Check(ctx)
	require.Len(t, issues, 1)
	assert.Equal(t, UseAfterFree, issues[0].Kind)
	assert.Equal(t, SeverityCritical, issues[0].Severity)
}

func TestUseAfterFreeCheckerIgnoresUseBeforeFreeInSameBlock(t *testing.T) {
	ctx := CheckContext{
		Frees:  []FreeSite{{Variable: "buf", BlockID: 0, Line: 5}},
		Derefs: []DerefSite{{Variable: "buf", BlockID: 0, Line: 1}},
	}
	issues := UseAfterFreeChecker{}.Check(ctx)
	assert.Empty(t, issues)
}

func TestDoubleFreeCheckerFindsSecondFree(t *testing.T) {
	ctx := CheckContext{
		Frees:      []FreeSite{{Variable: "buf", BlockID: 0, Line: 1}, {Variable: "buf", BlockID: 1, Line: 2}},
		Successors: map[int][]int{0: {1}},
	}
	issues := DoubleFreeChecker{}.Check(ctx)
	require.Len(t, issues, 1)
	assert.Equal(t, DoubleFree, issues[0].Kind)
}

func TestBufferOverflowCheckerFindsOutOfBoundsIndex(t *testing.T) {
	ctx := CheckContext{
		Indexes: []IndexSite{{Variable: "arr", Line: 1, Index: 5, Bound: 3}},
	}
	issues := BufferOverflowChecker{}.Check(ctx)
	require.Len(t, issues, 1)
	assert.Equal(t, BufferOverflow, issues[0].Kind)
}

func TestSpatialSafetyCheckerFlagsUnknownBound(t *testing.T) {
	ctx := CheckContext{
		Indexes: []IndexSite{{Variable: "arr", Line: 1, Index: 0, Bound: -1}},
	}
	issues := SpatialSafetyChecker{}.Check(ctx)
	require.Len(t, issues, 1)
	assert.Equal(t, SpatialMemorySafety, issues[0].Kind)
	assert.Equal(t, SeverityWarning, issues[0].Severity)
}

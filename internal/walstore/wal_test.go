package walstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codegraph-ir/codegraph/internal/types"
)

func testEntry(txnID types.TxnID, agentID string) Entry {
	return Entry{
		TxnID:     txnID,
		AgentID:   agentID,
		Timestamp: time.Unix(int64(txnID), 0).UTC(),
		Changes: []types.ChangeOp{
			{Kind: types.ChangeAddNode, NodeID: "node_" + agentID},
		},
	}
}

func TestTxnWALAppend(t *testing.T) {
	w := New()
	require.NoError(t, w.Append(testEntry(1, "agent1")))
	require.NoError(t, w.Append(testEntry(2, "agent2")))
	require.NoError(t, w.Append(testEntry(3, "agent1")))

	assert.Equal(t, types.TxnID(3), w.LatestTxn())
	assert.Len(t, w.GetAllEntries(), 3)
}

func TestTxnWALGetSince(t *testing.T) {
	w := New()
	for i := types.TxnID(1); i <= 4; i++ {
		require.NoError(t, w.Append(testEntry(i, "agent")))
	}

	entries := w.GetEntriesSince(2)
	require.Len(t, entries, 2)
	assert.Equal(t, types.TxnID(3), entries[0].TxnID)
	assert.Equal(t, types.TxnID(4), entries[1].TxnID)
}

func TestIndexWALRebuild(t *testing.T) {
	txnWAL := New()
	for i := types.TxnID(1); i <= 3; i++ {
		require.NoError(t, txnWAL.Append(testEntry(i, "agent")))
	}

	indexWAL := NewIndexWAL("vector_index", txnWAL)
	applied := 0
	err := indexWAL.RebuildFromTxnWAL(func(e Entry) error {
		applied++
		assert.LessOrEqual(t, e.TxnID, types.TxnID(3))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, applied)
	assert.Equal(t, types.TxnID(3), indexWAL.AppliedUpTo())
}

func TestIndexWALIncrementalRebuild(t *testing.T) {
	txnWAL := New()
	indexWAL := NewIndexWAL("vector_index", txnWAL)

	require.NoError(t, txnWAL.Append(testEntry(1, "agent1")))
	require.NoError(t, txnWAL.Append(testEntry(2, "agent2")))

	count1 := 0
	require.NoError(t, indexWAL.RebuildFromTxnWAL(func(Entry) error { count1++; return nil }))
	assert.Equal(t, 2, count1)
	assert.Equal(t, types.TxnID(2), indexWAL.AppliedUpTo())

	require.NoError(t, txnWAL.Append(testEntry(3, "agent3")))
	require.NoError(t, txnWAL.Append(testEntry(4, "agent4")))

	count2 := 0
	require.NoError(t, indexWAL.RebuildFromTxnWAL(func(Entry) error { count2++; return nil }))
	assert.Equal(t, 2, count2)
	assert.Equal(t, types.TxnID(4), indexWAL.AppliedUpTo())
}

func TestWALContractAuthoritative(t *testing.T) {
	txnWAL := New()
	indexWAL := NewIndexWAL("test_index", txnWAL)

	require.NoError(t, txnWAL.Append(testEntry(1, "agent1")))
	require.NoError(t, txnWAL.Append(testEntry(2, "agent2")))

	indexWAL.Record(1, IndexOp{Kind: IndexOpDeltaApply, DeltaHash: 123})
	indexWAL.Clear()
	assert.Equal(t, types.TxnID(0), indexWAL.AppliedUpTo())

	rebuilt := 0
	require.NoError(t, indexWAL.RebuildFromTxnWAL(func(Entry) error { rebuilt++; return nil }))
	assert.Equal(t, 2, rebuilt)
	assert.Equal(t, types.TxnID(2), indexWAL.AppliedUpTo())
}

func TestFileWriterRecoversValidEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wal.log")
	fw, err := OpenFileWriter(path)
	require.NoError(t, err)

	w := NewWithWriter(fw)
	require.NoError(t, w.Append(testEntry(1, "agent1")))
	require.NoError(t, w.Append(testEntry(2, "agent2")))
	require.NoError(t, w.Fsync())
	require.NoError(t, fw.Close())

	recovered, err := RecoverFromFile(path)
	require.NoError(t, err)
	require.Len(t, recovered, 2)
	assert.Equal(t, types.TxnID(1), recovered[0].TxnID)
	assert.Equal(t, types.TxnID(2), recovered[1].TxnID)
}

func TestRecoverFromFileStopsAtCorruption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wal.log")
	fw, err := OpenFileWriter(path)
	require.NoError(t, err)

	w := NewWithWriter(fw)
	require.NoError(t, w.Append(testEntry(1, "agent1")))
	require.NoError(t, w.Append(testEntry(2, "agent2")))
	require.NoError(t, fw.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	corrupted := string(raw) + "1\tagent3\t1\t999999999\tnot valid\n"
	require.NoError(t, os.WriteFile(path, []byte(corrupted), 0o644))

	recovered, err := RecoverFromFile(path)
	require.NoError(t, err)
	assert.Len(t, recovered, 2, "recovery must stop before the corrupted line, keeping the valid prefix")
}

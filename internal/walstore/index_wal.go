package walstore

import (
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/codegraph-ir/codegraph/internal/types"
)

// IndexOpKind is the kind of auxiliary operation an IndexWAL records
// against one transaction.
type IndexOpKind uint8

const (
	IndexOpDeltaApply IndexOpKind = iota
	IndexOpFullRebuild
	IndexOpSkip
)

// IndexOp is one auxiliary record: a delta applied (with its hash for
// verification), a full rebuild from a snapshot, or a deliberate skip.
type IndexOp struct {
	Kind       IndexOpKind
	DeltaHash  uint64
	SnapshotID types.SnapshotID
}

type indexEntry struct {
	TxnID types.TxnID
	Op    IndexOp
}

// IndexWAL is one index's auxiliary, derived log: never authoritative,
// safe to lose and rebuild entirely from the TransactionWAL (spec
// §4.13 Contract: "Txn WAL is authoritative; index WAL is auxiliary").
type IndexWAL struct {
	mu     sync.RWMutex
	kind   string
	log    []indexEntry
	txnWAL *TransactionWAL
}

// NewIndexWAL returns an auxiliary WAL for the named index, backed by
// the given authoritative transaction WAL.
func NewIndexWAL(indexKind string, txnWAL *TransactionWAL) *IndexWAL {
	return &IndexWAL{kind: indexKind, txnWAL: txnWAL}
}

// Record appends an auxiliary entry for txnID.
func (w *IndexWAL) Record(txnID types.TxnID, op IndexOp) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.log = append(w.log, indexEntry{TxnID: txnID, Op: op})
}

// AppliedUpTo returns the highest transaction this index has recorded
// progress for, 0 if none.
func (w *IndexWAL) AppliedUpTo() types.TxnID {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if len(w.log) == 0 {
		return 0
	}
	return w.log[len(w.log)-1].TxnID
}

// Clear discards every recorded entry — simulating index-WAL loss, to
// exercise rebuild-from-authority.
func (w *IndexWAL) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.log = nil
}

// RebuildFromTxnWAL fetches every entry this index hasn't applied yet
// from the authoritative TransactionWAL — never from its own log —
// and calls apply for each in order, recording a DeltaApply entry
// after each successful application.
func (w *IndexWAL) RebuildFromTxnWAL(apply func(Entry) error) error {
	current := w.AppliedUpTo()
	missing := w.txnWAL.GetEntriesSince(current)

	for _, entry := range missing {
		if err := apply(entry); err != nil {
			return err
		}
		w.Record(entry.TxnID, IndexOp{Kind: IndexOpDeltaApply, DeltaHash: deltaHash(entry)})
	}
	return nil
}

// deltaHash hashes an entry's txn id, agent and JSON-encoded changes
// for the DeltaApply verification field.
func deltaHash(e Entry) uint64 {
	payload, err := marshalChanges(e.Changes)
	if err != nil {
		payload = ""
	}
	return xxhash.Sum64String(strconv.FormatUint(uint64(e.TxnID), 10) + "|" + e.AgentID + "|" + payload)
}

// Package walstore implements the transaction write-ahead log (spec
// §4.13): the single authoritative record of every graph mutation,
// append-only, bounded in memory with periodic compaction, and
// optionally durable to a file with per-line checksums and
// corruption-bounded recovery.
package walstore

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/codegraph-ir/codegraph/internal/types"
)

// DefaultMaxEntries bounds the in-memory log before compaction runs.
const DefaultMaxEntries = 100000

// CompactionRetentionPercent is the fraction of max entries kept after
// a compaction pass.
const CompactionRetentionPercent = 75

// Entry is one committed transaction (spec §4.13: "(txn_id, agent_id,
// timestamp, changes[])").
type Entry struct {
	TxnID     types.TxnID
	AgentID   string
	Timestamp time.Time
	Changes   []types.ChangeOp
}

// TransactionWAL is the authoritative write-ahead log: every index
// rebuild must source its entries from here, never from an index's own
// auxiliary log.
type TransactionWAL struct {
	mu         sync.RWMutex
	log        []Entry
	writer     Writer
	maxEntries int
}

// Writer is the durable-append side of a WAL, satisfied by *FileWriter
// for on-disk logs. A nil Writer means in-memory only.
type Writer interface {
	Append(line string) error
	Fsync() error
}

// New returns an in-memory-only WAL.
func New() *TransactionWAL {
	return &TransactionWAL{maxEntries: DefaultMaxEntries}
}

// NewWithWriter returns a WAL that also persists every entry through w.
func NewWithWriter(w Writer) *TransactionWAL {
	return &TransactionWAL{writer: w, maxEntries: DefaultMaxEntries}
}

// NewAgentID mints a fresh random agent identifier for a WAL writer —
// the spec names agent_id as an opaque string distinguishing the
// producer of a transaction, and a random UUID is the teacher's own
// idiom for that (internal/git and internal/mcp both mint uuid.New()
// identifiers for run-scoped IDs).
func NewAgentID() string {
	return uuid.New().String()
}

// Append records entry as the next authoritative transaction. If the
// WAL is durable, the line is written and flushed (not fsynced —
// callers call Fsync explicitly after commit, per the durability
// contract) before the in-memory log is updated.
func (w *TransactionWAL) Append(entry Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.writer != nil {
		line, err := formatLine(entry)
		if err != nil {
			return fmt.Errorf("walstore: encode entry: %w", err)
		}
		if err := w.writer.Append(line); err != nil {
			return fmt.Errorf("walstore: append: %w", err)
		}
	}

	w.log = append(w.log, entry)
	if len(w.log) > w.maxEntries {
		w.compactLocked()
	}
	return nil
}

// Fsync forces any buffered, durable writes to stable storage. A
// no-op for an in-memory-only WAL.
func (w *TransactionWAL) Fsync() error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.writer == nil {
		return nil
	}
	return w.writer.Fsync()
}

// GetEntriesSince returns every entry with TxnID strictly greater than
// since, in commit order — the source an index rebuild must use (spec
// §4.13 Contract 5).
func (w *TransactionWAL) GetEntriesSince(since types.TxnID) []Entry {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var out []Entry
	for _, e := range w.log {
		if e.TxnID > since {
			out = append(out, e)
		}
	}
	return out
}

// GetAllEntries returns every entry currently retained, in commit order.
func (w *TransactionWAL) GetAllEntries() []Entry {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]Entry, len(w.log))
	copy(out, w.log)
	return out
}

// LatestTxn returns the highest TxnID recorded, or 0 if the log is empty.
func (w *TransactionWAL) LatestTxn() types.TxnID {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if len(w.log) == 0 {
		return 0
	}
	return w.log[len(w.log)-1].TxnID
}

// compactLocked drops the oldest entries, keeping the configured
// retention ratio of maxEntries. Callers must hold w.mu.
func (w *TransactionWAL) compactLocked() {
	keep := (w.maxEntries * CompactionRetentionPercent) / 100
	if len(w.log) <= keep {
		return
	}
	drop := len(w.log) - keep
	w.log = append([]Entry(nil), w.log[drop:]...)
}

// formatLine renders entry in the on-disk line format
// `txn_id\tagent_id\ttimestamp\tchecksum\tpayload_json`. The checksum
// covers every other field so a truncated or bit-flipped line is
// caught on recovery.
func formatLine(e Entry) (string, error) {
	payload, err := marshalChanges(e.Changes)
	if err != nil {
		return "", err
	}
	sum := lineChecksum(e.TxnID, e.AgentID, e.Timestamp.Unix(), payload)
	return fmt.Sprintf("%d\t%s\t%d\t%d\t%s", e.TxnID, e.AgentID, e.Timestamp.Unix(), sum, payload), nil
}

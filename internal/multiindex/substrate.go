package multiindex

import (
	"fmt"
	"sort"
	"sync"

	"github.com/codegraph-ir/codegraph/internal/types"
	"github.com/codegraph-ir/codegraph/internal/walstore"
)

// IndexPlugin is one queryable index kept incrementally up to date
// from the transaction log (spec §4.13).
type IndexPlugin interface {
	// Name identifies the plugin for registration and logging.
	Name() string
	// ApplyDelta applies one transaction's changes incrementally,
	// reporting whether it succeeded and how long it took.
	ApplyDelta(delta Delta) (ok bool, costMs float64)
	// Rebuild reconstructs the index from scratch from a snapshot,
	// reporting how long it took.
	Rebuild(snapshotID types.SnapshotID) (costMs float64, err error)
	// SupportsQuery reports whether this plugin can serve queries of
	// the given kind (spec §4.13: "determines which index serves which
	// query type").
	SupportsQuery(kind string) bool
}

type registration struct {
	plugin   IndexPlugin
	state    IndexState
	indexWAL *walstore.IndexWAL
}

// Substrate tracks every registered index plugin's watermark and
// health against one authoritative transaction WAL.
type Substrate struct {
	mu      sync.RWMutex
	txnWAL  *walstore.TransactionWAL
	indexes map[string]*registration
}

// New returns a substrate driven by txnWAL.
func New(txnWAL *walstore.TransactionWAL) *Substrate {
	return &Substrate{txnWAL: txnWAL, indexes: make(map[string]*registration)}
}

// Register adds a plugin, initially Healthy at watermark 0.
func (s *Substrate) Register(plugin IndexPlugin) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexes[plugin.Name()] = &registration{
		plugin:   plugin,
		state:    Healthy,
		indexWAL: walstore.NewIndexWAL(plugin.Name(), s.txnWAL),
	}
}

// ApplyDelta pushes delta to every registered plugin, transitioning
// each to Stale on failure or on an out-of-order watermark (spec
// §4.13: "a failed apply or unknown-txn upstream forces Stale").
// Returns each plugin's per-call success.
func (s *Substrate) ApplyDelta(delta Delta) map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make(map[string]bool, len(s.indexes))
	for name, reg := range s.indexes {
		expected := reg.indexWAL.AppliedUpTo() + 1
		inOrder := delta.TxnID == expected
		ok := false
		if inOrder {
			ok, _ = reg.plugin.ApplyDelta(delta)
		}

		if !ok || !inOrder {
			// Neither a failed apply nor an out-of-order delta advances
			// this index's watermark: the gap must still be closed by
			// Recover, which replays from the last good txn forward.
			reg.state = Stale
			results[name] = false
			continue
		}

		reg.indexWAL.Record(delta.TxnID, walstore.IndexOp{Kind: walstore.IndexOpDeltaApply, DeltaHash: deltaHash(delta)})
		reg.state = Healthy
		results[name] = true
	}
	return results
}

// Recover walks name's index plugin Stale → Rebuilding → Healthy by
// replaying every transaction it's missing from the authoritative WAL
// (spec §4.13: "rebuild_from_txn_wal ... if the index WAL is lost,
// rebuild is correct"). On a replay failure the plugin is left Stale.
func (s *Substrate) Recover(name string) error {
	s.mu.Lock()
	reg, ok := s.indexes[name]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("multiindex: unknown index %q", name)
	}
	reg.state = Rebuilding
	s.mu.Unlock()

	err := reg.indexWAL.RebuildFromTxnWAL(func(e walstore.Entry) error {
		d := Delta{TxnID: e.TxnID, Changes: e.Changes, AffectedFiles: DeriveAffectedFiles(e.Changes, nil)}
		ok, _ := reg.plugin.ApplyDelta(d)
		if !ok {
			return fmt.Errorf("multiindex: %s: replay of txn %d failed", name, e.TxnID)
		}
		return nil
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		reg.state = Stale
		return err
	}
	reg.state = Healthy
	return nil
}

// FullRebuild walks name's index plugin Stale/Rebuilding → Healthy by
// reconstructing entirely from a snapshot, for when the gap cannot be
// closed by WAL replay (the txn WAL has compacted past it).
func (s *Substrate) FullRebuild(name string, snapshotID types.SnapshotID) error {
	s.mu.Lock()
	reg, ok := s.indexes[name]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("multiindex: unknown index %q", name)
	}
	reg.state = Rebuilding
	s.mu.Unlock()

	_, err := reg.plugin.Rebuild(snapshotID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		reg.state = Stale
		return err
	}
	reg.indexWAL.Record(s.txnWAL.LatestTxn(), walstore.IndexOp{Kind: walstore.IndexOpFullRebuild, SnapshotID: snapshotID})
	reg.state = Healthy
	return nil
}

// State returns name's current health.
func (s *Substrate) State(name string) (IndexState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reg, ok := s.indexes[name]
	if !ok {
		return 0, false
	}
	return reg.state, true
}

// AppliedUpTo returns name's current watermark.
func (s *Substrate) AppliedUpTo(name string) (types.TxnID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reg, ok := s.indexes[name]
	if !ok {
		return 0, false
	}
	return reg.indexWAL.AppliedUpTo(), true
}

// SupportsQuery returns the names of every registered plugin that can
// serve a query of the given kind, sorted for deterministic output.
func (s *Substrate) SupportsQuery(kind string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for name, reg := range s.indexes {
		if reg.plugin.SupportsQuery(kind) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

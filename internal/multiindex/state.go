// Package multiindex implements the per-index watermark/delta-apply/
// rebuild substrate (spec §4.13): each registered index plugin
// advertises a high watermark (applied_up_to), accepts incremental
// deltas, and can be rebuilt — either by replaying the authoritative
// transaction WAL or, if that's been compacted past the gap, from a
// full snapshot. Composed directly on internal/walstore's
// TransactionWAL/IndexWAL rather than re-deriving watermark tracking.
package multiindex

// IndexState is a registered index plugin's health (spec §4.13).
type IndexState uint8

const (
	// Healthy: watermark equals the latest known transaction.
	Healthy IndexState = iota
	// Stale: watermark is behind, a delta-apply failed or skipped a gap.
	Stale
	// Rebuilding: a rebuild (from WAL replay or full snapshot) is in flight.
	Rebuilding
)

func (s IndexState) String() string {
	switch s {
	case Healthy:
		return "Healthy"
	case Stale:
		return "Stale"
	case Rebuilding:
		return "Rebuilding"
	default:
		return "Unknown"
	}
}

package snapshotstore

import "errors"

var (
	// ErrSnapshotNotFound is returned by GetSnapshot/GetChunk/GetDependencies
	// when the referenced snapshot does not exist.
	ErrSnapshotNotFound = errors.New("snapshotstore: snapshot not found")
	// ErrSnapshotExists is returned by SaveSnapshot for a duplicate ID —
	// snapshots are immutable once created (spec §4.12).
	ErrSnapshotExists = errors.New("snapshotstore: snapshot already exists")
	// ErrChunkNotFound is returned by GetChunk for an unknown chunk ID.
	ErrChunkNotFound = errors.New("snapshotstore: chunk not found")
)

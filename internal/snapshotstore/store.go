// Package snapshotstore implements the commit-addressed snapshot store
// (spec §4.12): immutable {chunks, dependencies} sets identified
// by commit hash, with replace_file as the sole mutating contract —
// internally a chunk UPSERT that produces a brand new snapshot rather
// than mutating an existing one.
package snapshotstore

import (
	"sort"
	"sync"

	"github.com/codegraph-ir/codegraph/internal/types"
)

// Store is an in-memory CodeSnapshotStore. Safe for concurrent use:
// the query facade (L37) and the indexing pipeline both hold
// references to the same Store from different goroutines.
type Store struct {
	mu        sync.RWMutex
	snapshots map[types.SnapshotID]types.Snapshot
	chunks    map[types.SnapshotID]map[string]types.Chunk
	deps      map[types.SnapshotID][]types.Dependency
}

// New returns an empty store.
func New() *Store {
	return &Store{
		snapshots: make(map[types.SnapshotID]types.Snapshot),
		chunks:    make(map[types.SnapshotID]map[string]types.Chunk),
		deps:      make(map[types.SnapshotID][]types.Dependency),
	}
}

// SaveSnapshot records a new immutable snapshot. Saving the same ID
// twice is an error: snapshots never change once created.
func (s *Store) SaveSnapshot(snap types.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.snapshots[snap.ID]; exists {
		return ErrSnapshotExists
	}
	s.snapshots[snap.ID] = snap
	if _, ok := s.chunks[snap.ID]; !ok {
		s.chunks[snap.ID] = make(map[string]types.Chunk)
	}
	return nil
}

// GetSnapshot returns a snapshot by ID.
func (s *Store) GetSnapshot(id types.SnapshotID) (types.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[id]
	if !ok {
		return types.Snapshot{}, ErrSnapshotNotFound
	}
	return snap, nil
}

// ListSnapshots returns repoID's snapshots newest-first, capped at
// limit entries (0 = unlimited).
func (s *Store) ListSnapshots(repoID string, limit int) []types.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []types.Snapshot
	for _, snap := range s.snapshots {
		if snap.RepoID == repoID {
			out = append(out, snap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// SaveChunk saves a single immutable chunk under its SnapshotID.
func (s *Store) SaveChunk(chunk types.Chunk) error {
	return s.SaveChunks([]types.Chunk{chunk})
}

// SaveChunks batch-saves chunks, all under the same snapshot.
func (s *Store) SaveChunks(chunks []types.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range chunks {
		bucket, ok := s.chunks[c.SnapshotID]
		if !ok {
			if _, known := s.snapshots[c.SnapshotID]; !known {
				return ErrSnapshotNotFound
			}
			bucket = make(map[string]types.Chunk)
			s.chunks[c.SnapshotID] = bucket
		}
		bucket[c.ID] = c
	}
	return nil
}

// GetChunks returns every chunk for filePath in snapshotID, ordered by
// start line.
func (s *Store) GetChunks(snapshotID types.SnapshotID, filePath string) ([]types.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bucket, ok := s.chunks[snapshotID]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	var out []types.Chunk
	for _, c := range bucket {
		if c.FilePath == filePath {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartLine < out[j].StartLine })
	return out, nil
}

// GetChunk returns one chunk by ID within a snapshot.
func (s *Store) GetChunk(snapshotID types.SnapshotID, chunkID string) (types.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bucket, ok := s.chunks[snapshotID]
	if !ok {
		return types.Chunk{}, ErrSnapshotNotFound
	}
	chunk, ok := bucket[chunkID]
	if !ok {
		return types.Chunk{}, ErrChunkNotFound
	}
	return chunk, nil
}

// ReplaceFile is the store's sole mutating contract (spec §4.12): a
// file-level replace, internally a chunk UPSERT that produces a new
// snapshot rather than touching the old one. oldCommit's chunks are
// copied into newCommit verbatim except for filePath, whose chunks are
// replaced by the given set. oldCommit is left untouched.
func (s *Store) ReplaceFile(newCommit types.Snapshot, oldCommit types.SnapshotID, filePath string, chunks []types.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.snapshots[newCommit.ID]; exists {
		return ErrSnapshotExists
	}
	oldBucket, ok := s.chunks[oldCommit]
	if !ok {
		return ErrSnapshotNotFound
	}

	newBucket := make(map[string]types.Chunk, len(oldBucket)+len(chunks))
	for id, c := range oldBucket {
		if c.FilePath == filePath {
			continue
		}
		c.SnapshotID = newCommit.ID
		newBucket[id] = c
	}
	for _, c := range chunks {
		c.SnapshotID = newCommit.ID
		newBucket[c.ID] = c
	}

	s.snapshots[newCommit.ID] = newCommit
	s.chunks[newCommit.ID] = newBucket
	return nil
}

// SaveDependencies records dependency edges for snapshotID.
func (s *Store) SaveDependencies(snapshotID types.SnapshotID, deps []types.Dependency) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.snapshots[snapshotID]; !ok {
		return ErrSnapshotNotFound
	}
	s.deps[snapshotID] = append(s.deps[snapshotID], deps...)
	return nil
}

// GetDependencies returns every dependency from chunkID within snapshotID.
func (s *Store) GetDependencies(snapshotID types.SnapshotID, chunkID string) ([]types.Dependency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.snapshots[snapshotID]; !ok {
		return nil, ErrSnapshotNotFound
	}
	var out []types.Dependency
	for _, d := range s.deps[snapshotID] {
		if d.FromChunk == chunkID {
			out = append(out, d)
		}
	}
	return out, nil
}

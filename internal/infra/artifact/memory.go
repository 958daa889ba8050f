// Package artifact provides the stores that hold per-run subtitle files.
package artifact

import (
	"context"
	"sync"

	"github.com/yanqian/yogava/internal/domain/transcript"
)

// MemoryStore keeps artifacts in memory. Useful for tests and the CLI.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// Put stores a copy of data under key.
func (s *MemoryStore) Put(_ context.Context, key string, data []byte) (transcript.StoredArtifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = append([]byte(nil), data...)
	return transcript.StoredArtifact{Key: key, Size: int64(len(data))}, nil
}

// Delete removes key; unknown keys are ignored.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

// Len reports how many artifacts are held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}

var _ transcript.ArtifactStore = (*MemoryStore)(nil)

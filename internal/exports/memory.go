package exports

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	artifact  Artifact
	expiresAt time.Time
}

// MemoryStore keeps artifacts in process. Expired entries are dropped when touched.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryStore) Put(_ context.Context, artifact Artifact, ttl time.Duration) (string, error) {
	if err := checkArtifact(artifact, ttl); err != nil {
		return "", err
	}

	data := make([]byte, len(artifact.Data))
	copy(data, artifact.Data)
	artifact.Data = data

	token := newToken()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	s.entries[token] = memoryEntry{artifact: artifact, expiresAt: s.now().Add(ttl)}
	return token, nil
}

func (s *MemoryStore) Get(_ context.Context, token string) (Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[token]
	if !ok {
		return Artifact{}, ErrNotFound
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, token)
		return Artifact{}, ErrNotFound
	}
	return entry.artifact, nil
}

// Len reports the number of live artifacts.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	return len(s.entries)
}

func (s *MemoryStore) sweepLocked() {
	now := s.now()
	for token, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, token)
		}
	}
}

package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps the id in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	id      string
	expires time.Time
	now     func() time.Time
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.id == "" || !s.now().Before(s.expires) {
		return "", false, nil
	}
	return s.id, true, nil
}

func (s *MemoryStore) Set(_ context.Context, id string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.id = id
	s.expires = s.now().Add(ttl)
	return nil
}

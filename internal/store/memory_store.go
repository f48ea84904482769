package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/amos-ugbedah/Jason-E-Commerce/internal/domain"
)

// MemoryStore implements CartStore with in-memory storage. It keeps the
// serialized bytes rather than the struct so load/save behaves exactly
// like the durable backends, JSON round-trip included.
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) (*domain.CartSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data == nil {
		return nil, ErrSnapshotNotFound
	}

	var snap domain.CartSnapshot
	if err := json.Unmarshal(s.data, &snap); err != nil {
		return nil, ErrSnapshotNotFound
	}
	return &snap, nil
}

func (s *MemoryStore) Save(_ context.Context, snap domain.CartSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	return nil
}

package settings

import (
	"context"
	"sync"
)

// InMemoryStore keeps settings in memory.
type InMemoryStore struct {
	mu        sync.RWMutex
	oracleRef string
	threshold uint32
}

func NewInMemoryStore(oracleRef string, threshold uint32) *InMemoryStore {
	return &InMemoryStore{oracleRef: oracleRef, threshold: threshold}
}

func (s *InMemoryStore) SaveOracleRef(_ context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.oracleRef = ref
	return nil
}

func (s *InMemoryStore) OracleRef(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.oracleRef, nil
}

func (s *InMemoryStore) SaveThreshold(_ context.Context, value uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threshold = value
	return nil
}

func (s *InMemoryStore) Threshold(_ context.Context) (uint32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.threshold, nil
}

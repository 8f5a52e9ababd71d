package cache

import (
	"context"
	"sync"

	"github.com/soaringjerry/SurveyFlow/internal/services"
)

// MemoryKVStore is the process-local backend, used when no sqlite or redis is configured.
type MemoryKVStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ services.RequirementStore = (*MemoryKVStore)(nil)

func NewMemoryKVStore() *MemoryKVStore {
	return &MemoryKVStore{data: map[string][]byte{}}
}

func (s *MemoryKVStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), b...), true, nil
}

func (s *MemoryKVStore) Save(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryKVStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/aienergy/invoice-analyzer/internal/common"
)

// MemStore is an in-memory ArtifactStore for tests and ephemeral runs.
type MemStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{data: map[string][]byte{}}
}

func key(kind Kind, id string) string {
	return string(kind) + "/" + id
}

func (s *MemStore) Put(_ context.Context, kind Kind, id string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s artifact: %w", kind, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key(kind, id)] = b
	return nil
}

func (s *MemStore) Get(_ context.Context, kind Kind, id string, into any) error {
	s.mu.RLock()
	b, ok := s.data[key(kind, id)]
	s.mu.RUnlock()
	if !ok {
		return common.ErrNotFound
	}
	return json.Unmarshal(b, into)
}

func (s *MemStore) List(_ context.Context, kind Kind) ([]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prefix := string(kind) + "/"
	var out []json.RawMessage
	for k, b := range s.data {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			out = append(out, json.RawMessage(b))
		}
	}
	return out, nil
}

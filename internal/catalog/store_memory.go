package catalog

import (
	"context"
	"sync"

	"datagov/pkg/platform/sentinel"
)

// InMemoryStore keeps assets in a map, preserving registration order for
// listings. Default store for single-node runs and tests.
type InMemoryStore struct {
	mu     sync.RWMutex
	assets map[string]Asset
	order  []string
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{assets: make(map[string]Asset)}
}

func (s *InMemoryStore) Register(_ context.Context, asset Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.assets[asset.Name]; exists {
		return sentinel.ErrConflict
	}
	s.assets[asset.Name] = asset
	s.order = append(s.order, asset.Name)
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, name string) (*Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	asset, ok := s.assets[name]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &asset, nil
}

func (s *InMemoryStore) List(_ context.Context) ([]Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Asset, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.assets[name])
	}
	return out, nil
}

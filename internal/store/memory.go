package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-process implementation of ResourceStore and
// SavedFilterStore, used by tests and the query command's fixtures.
type MemoryStore struct {
	mu        sync.RWMutex
	resources map[string]Resource
	filters   map[string]SavedFilter

	// FailResources, when set, is returned by ListResources. Lets tests
	// exercise store-unavailable propagation.
	FailResources error
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		resources: make(map[string]Resource),
		filters:   make(map[string]SavedFilter),
	}
}

// ListResources returns matching resources in id-ascending order.
func (s *MemoryStore) ListResources(_ context.Context, environmentID string, typ ResourceType) ([]Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.FailResources != nil {
		return nil, s.FailResources
	}

	var out []Resource
	for _, r := range s.resources {
		if r.EnvironmentID == environmentID && r.Type == typ {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// PutResource inserts or replaces a resource.
func (s *MemoryStore) PutResource(_ context.Context, r Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[r.ID] = r
	return nil
}

// DeleteResource removes a resource if present.
func (s *MemoryStore) DeleteResource(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.resources, id)
}

// CreateSavedFilter stores a new saved filter.
func (s *MemoryStore) CreateSavedFilter(_ context.Context, f SavedFilter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters[f.ID] = f
	return nil
}

// ListSavedFilters returns an environment's saved filters, newest first.
func (s *MemoryStore) ListSavedFilters(_ context.Context, environmentID string) ([]SavedFilter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []SavedFilter
	for _, f := range s.filters {
		if f.EnvironmentID == environmentID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// GetSavedFilter returns a saved filter by id, or ErrNotFound.
func (s *MemoryStore) GetSavedFilter(_ context.Context, id string) (SavedFilter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.filters[id]
	if !ok {
		return SavedFilter{}, ErrNotFound
	}
	return f, nil
}

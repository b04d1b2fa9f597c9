// Package testutil provides shared fixtures for engine and server tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/JakWdo/envfilter/internal/store"
	"github.com/JakWdo/envfilter/internal/tag"
)

// Env is the environment id used by fixture data.
const Env = "env-test"

// SeedPersona inserts a persona with the given raw tags into the store.
func SeedPersona(tb testing.TB, s store.ResourceStore, id string, tags ...string) {
	tb.Helper()
	SeedResource(tb, s, id, store.ResourcePersona, tags...)
}

// SeedResource inserts a resource of an arbitrary type with the given raw tags.
func SeedResource(tb testing.TB, s store.ResourceStore, id string, typ store.ResourceType, tags ...string) {
	tb.Helper()
	err := s.PutResource(context.Background(), store.Resource{
		ID:            id,
		EnvironmentID: Env,
		Type:          typ,
		Tags:          tag.ParseSet(tags...),
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		tb.Fatalf("failed to seed resource %s: %v", id, err)
	}
}

// SeededStore returns a MemoryStore with a small persona population that
// covers the facets used across tests.
func SeededStore(tb testing.TB) *store.MemoryStore {
	tb.Helper()
	s := store.NewMemoryStore()
	SeedPersona(tb, s, "p-001", "dem:age-25-34", "geo:warsaw")
	SeedPersona(tb, s, "p-002", "dem:age-25-34", "geo:krakow")
	SeedPersona(tb, s, "p-003", "dem:age-35-44", "geo:warsaw", "psy:low-openness")
	SeedPersona(tb, s, "p-004", "geo:gdansk", "biz:b2b")
	SeedPersona(tb, s, "p-005") // untagged
	return s
}

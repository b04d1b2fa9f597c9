package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/JakWdo/envfilter/internal/tag"
)

func TestMemoryResources(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Now()

	require.NoError(t, s.PutResource(ctx, Resource{
		ID: "p-002", EnvironmentID: "env-1", Type: ResourcePersona,
		Tags: tag.ParseSet("geo:warsaw"), CreatedAt: now,
	}))
	require.NoError(t, s.PutResource(ctx, Resource{
		ID: "p-001", EnvironmentID: "env-1", Type: ResourcePersona, CreatedAt: now,
	}))
	require.NoError(t, s.PutResource(ctx, Resource{
		ID: "w-001", EnvironmentID: "env-1", Type: ResourceWorkflow, CreatedAt: now,
	}))

	got, err := s.ListResources(ctx, "env-1", ResourcePersona)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "p-001", got[0].ID)
	require.Equal(t, "p-002", got[1].ID)

	s.DeleteResource("p-001")
	got, err = s.ListResources(ctx, "env-1", ResourcePersona)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestMemoryFailure(t *testing.T) {
	s := NewMemoryStore()
	boom := errors.New("store unavailable")
	s.FailResources = boom

	_, err := s.ListResources(context.Background(), "env-1", ResourcePersona)
	require.ErrorIs(t, err, boom)
}

func TestMemorySavedFilters(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Now()

	require.NoError(t, s.CreateSavedFilter(ctx, SavedFilter{
		ID: "f-001", EnvironmentID: "env-1", Name: "old", DSL: "a:1", CreatedAt: base,
	}))
	require.NoError(t, s.CreateSavedFilter(ctx, SavedFilter{
		ID: "f-002", EnvironmentID: "env-1", Name: "new", DSL: "b:2", CreatedAt: base.Add(time.Hour),
	}))

	list, err := s.ListSavedFilters(ctx, "env-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "f-002", list[0].ID)

	got, err := s.GetSavedFilter(ctx, "f-001")
	require.NoError(t, err)
	require.Equal(t, "old", got.Name)

	_, err = s.GetSavedFilter(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestParseResourceType(t *testing.T) {
	got, err := ParseResourceType("persona")
	require.NoError(t, err)
	require.Equal(t, ResourcePersona, got)

	got, err = ParseResourceType("workflow")
	require.NoError(t, err)
	require.Equal(t, ResourceWorkflow, got)

	_, err = ParseResourceType("widget")
	require.Error(t, err)
}

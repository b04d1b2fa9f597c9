// Package store provides resource and saved-filter persistence.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JakWdo/envfilter/internal/tag"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ResourceType identifies the kind of filterable resource.
type ResourceType string

const (
	ResourcePersona  ResourceType = "persona"
	ResourceWorkflow ResourceType = "workflow"
)

// ParseResourceType validates a raw resource type string.
func ParseResourceType(s string) (ResourceType, error) {
	switch ResourceType(s) {
	case ResourcePersona, ResourceWorkflow:
		return ResourceType(s), nil
	default:
		return "", fmt.Errorf("unknown resource type %q", s)
	}
}

// Resource is an opaque entity (persona or workflow) annotated with a set
// of faceted tags. Tags are attached by the tagging pipeline; the engine
// only reads them.
type Resource struct {
	ID            string
	EnvironmentID string
	Type          ResourceType
	Tags          tag.Set
	CreatedAt     time.Time
}

// SavedFilter is a named, persisted query scoped to an environment.
// Immutable once created: there is no update path, only create/list/get.
type SavedFilter struct {
	ID            string    `json:"id"`
	EnvironmentID string    `json:"environment_id"`
	Name          string    `json:"name"`
	DSL           string    `json:"dsl"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// ResourceStore resolves the candidate resource set for filtering.
type ResourceStore interface {
	// ListResources returns an environment's resources of the given type in
	// id-ascending order. The order must be stable across calls against an
	// unchanged data set; cursor resumption depends on it.
	ListResources(ctx context.Context, environmentID string, typ ResourceType) ([]Resource, error)

	// PutResource inserts or replaces a resource together with its tags.
	PutResource(ctx context.Context, r Resource) error
}

// SavedFilterStore persists named filters.
type SavedFilterStore interface {
	CreateSavedFilter(ctx context.Context, f SavedFilter) error
	ListSavedFilters(ctx context.Context, environmentID string) ([]SavedFilter, error)
	GetSavedFilter(ctx context.Context, id string) (SavedFilter, error)
}

// Package engine applies parsed query expressions across resource
// collections, producing paginated, cursor-addressed result pages.
package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/JakWdo/envfilter/internal/filter"
	"github.com/JakWdo/envfilter/internal/store"
)

const (
	// DefaultLimit is the page size applied when the caller passes none.
	DefaultLimit = 50
	// MaxLimit caps caller-supplied page sizes.
	MaxLimit = 500
)

// Options tune executor pagination. Zero values fall back to the package
// defaults.
type Options struct {
	DefaultLimit int
	MaxLimit     int
}

// Executor evaluates queries against an environment's resources. Each call
// is a pure function over a snapshot of (dsl, resource set); the executor
// holds no per-call state and is safe for concurrent use.
type Executor struct {
	resources    store.ResourceStore
	defaultLimit int
	maxLimit     int
}

// New builds an Executor over the given resource store.
func New(resources store.ResourceStore, opts Options) *Executor {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = DefaultLimit
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = MaxLimit
	}
	return &Executor{
		resources:    resources,
		defaultLimit: opts.DefaultLimit,
		maxLimit:     opts.MaxLimit,
	}
}

// Request is one filter invocation.
type Request struct {
	EnvironmentID string
	ResourceType  store.ResourceType
	DSL           string
	Limit         int    // 0 means the server default
	Cursor        string // empty means start from the beginning
}

// Result is one page of matches. Count is the total number of matches for
// the query, not the page size. NextCursor is nil once exhausted.
type Result struct {
	ResourceIDs []string `json:"resource_ids"`
	NextCursor  *string  `json:"next_cursor"`
	Count       int      `json:"count"`
}

// Filter parses the request's query once, evaluates it against every
// resource of the environment in stable id-ascending order, and returns the
// page addressed by the cursor.
//
// A blank query short-circuits to an empty result without touching the
// parser. Syntax errors surface as *filter.SyntaxError before any
// evaluation; store failures propagate unchanged and are never retried.
func (e *Executor) Filter(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.DSL) == "" {
		return &Result{ResourceIDs: []string{}}, nil
	}

	expr, err := filter.Parse(req.DSL)
	if err != nil {
		return nil, err
	}

	resources, err := e.resources.ListResources(ctx, req.EnvironmentID, req.ResourceType)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve resources for environment %s: %w", req.EnvironmentID, err)
	}

	// Resources arrive id-ascending, so matches stay sorted and the cursor
	// can resume by id alone even if the set changed between pages.
	matches := make([]string, 0, len(resources))
	for _, r := range resources {
		if expr.Eval(r.Tags) {
			matches = append(matches, r.ID)
		}
	}

	start := 0
	if req.Cursor != "" {
		lastID, err := decodeCursor(req.Cursor)
		if err != nil {
			return nil, err
		}
		start = sort.SearchStrings(matches, lastID)
		if start < len(matches) && matches[start] == lastID {
			start++
		}
	}

	limit := req.Limit
	if limit <= 0 {
		limit = e.defaultLimit
	}
	if limit > e.maxLimit {
		limit = e.maxLimit
	}

	end := start + limit
	if end > len(matches) {
		end = len(matches)
	}

	result := &Result{
		ResourceIDs: append([]string{}, matches[start:end]...),
		Count:       len(matches),
	}
	if end < len(matches) && end > start {
		cursor := encodeCursor(matches[end-1])
		result.NextCursor = &cursor
	}

	return result, nil
}

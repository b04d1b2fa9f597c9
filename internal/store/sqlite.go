package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/JakWdo/envfilter/internal/tag"
)

// SQLiteStore persists resources and saved filters in a single sqlite
// database. It implements both ResourceStore and SavedFilterStore.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite creates or opens the database at path and initializes the
// schema. The parent directory is created if missing.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS resources (
		id TEXT PRIMARY KEY,
		environment_id TEXT NOT NULL,
		resource_type TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_resources_env_type ON resources(environment_id, resource_type);

	CREATE TABLE IF NOT EXISTS resource_tags (
		resource_id TEXT NOT NULL REFERENCES resources(id) ON DELETE CASCADE,
		facet TEXT NOT NULL,
		key TEXT NOT NULL,
		PRIMARY KEY (resource_id, facet, key)
	);

	CREATE TABLE IF NOT EXISTS saved_filters (
		id TEXT PRIMARY KEY,
		environment_id TEXT NOT NULL,
		name TEXT NOT NULL,
		dsl TEXT NOT NULL,
		created_by TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_saved_filters_env ON saved_filters(environment_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ListResources returns resources with their tags in id-ascending order.
func (s *SQLiteStore) ListResources(ctx context.Context, environmentID string, typ ResourceType) ([]Resource, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.environment_id, r.resource_type, r.created_at, t.facet, t.key
		FROM resources r
		LEFT JOIN resource_tags t ON t.resource_id = r.id
		WHERE r.environment_id = ? AND r.resource_type = ?
		ORDER BY r.id ASC`,
		environmentID, string(typ))
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	defer rows.Close()

	var resources []Resource
	var current *Resource
	for rows.Next() {
		var (
			id, envID, rtype string
			createdAt        time.Time
			facet, key       sql.NullString
		)
		if err := rows.Scan(&id, &envID, &rtype, &createdAt, &facet, &key); err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		if current == nil || current.ID != id {
			resources = append(resources, Resource{
				ID:            id,
				EnvironmentID: envID,
				Type:          ResourceType(rtype),
				Tags:          tag.Set{},
				CreatedAt:     createdAt,
			})
			current = &resources[len(resources)-1]
		}
		if facet.Valid {
			current.Tags[tag.Tag{Facet: facet.String, Key: key.String}] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read resources: %w", err)
	}

	return resources, nil
}

// PutResource inserts or replaces a resource and its tags atomically.
func (s *SQLiteStore) PutResource(ctx context.Context, r Resource) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO resources (id, environment_id, resource_type, created_at) VALUES (?, ?, ?, ?)`,
		r.ID, r.EnvironmentID, string(r.Type), r.CreatedAt); err != nil {
		return fmt.Errorf("failed to upsert resource %s: %w", r.ID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM resource_tags WHERE resource_id = ?`, r.ID); err != nil {
		return fmt.Errorf("failed to clear tags for %s: %w", r.ID, err)
	}
	for t := range r.Tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO resource_tags (resource_id, facet, key) VALUES (?, ?, ?)`,
			r.ID, t.Facet, t.Key); err != nil {
			return fmt.Errorf("failed to insert tag %s for %s: %w", t, r.ID, err)
		}
	}

	return tx.Commit()
}

// CreateSavedFilter inserts a new saved filter. IDs are caller-assigned.
func (s *SQLiteStore) CreateSavedFilter(ctx context.Context, f SavedFilter) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO saved_filters (id, environment_id, name, dsl, created_by, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		f.ID, f.EnvironmentID, f.Name, f.DSL, f.CreatedBy, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create saved filter: %w", err)
	}
	return nil
}

// ListSavedFilters returns an environment's saved filters, newest first.
func (s *SQLiteStore) ListSavedFilters(ctx context.Context, environmentID string) ([]SavedFilter, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, environment_id, name, dsl, created_by, created_at
		FROM saved_filters
		WHERE environment_id = ?
		ORDER BY created_at DESC, id ASC`,
		environmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved filters: %w", err)
	}
	defer rows.Close()

	var filters []SavedFilter
	for rows.Next() {
		var f SavedFilter
		if err := rows.Scan(&f.ID, &f.EnvironmentID, &f.Name, &f.DSL, &f.CreatedBy, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan saved filter: %w", err)
		}
		filters = append(filters, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read saved filters: %w", err)
	}

	return filters, nil
}

// GetSavedFilter returns a saved filter by id, or ErrNotFound.
func (s *SQLiteStore) GetSavedFilter(ctx context.Context, id string) (SavedFilter, error) {
	var f SavedFilter
	err := s.db.QueryRowContext(ctx, `
		SELECT id, environment_id, name, dsl, created_by, created_at
		FROM saved_filters
		WHERE id = ?`,
		id).Scan(&f.ID, &f.EnvironmentID, &f.Name, &f.DSL, &f.CreatedBy, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return SavedFilter{}, ErrNotFound
	}
	if err != nil {
		return SavedFilter{}, fmt.Errorf("failed to get saved filter %s: %w", id, err)
	}
	return f, nil
}

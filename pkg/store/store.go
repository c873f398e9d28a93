// Package store persists finished statistics snapshots, keyed by language.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"wikistats/pkg/db"
	"wikistats/pkg/stats"
)

// ErrRunNotFound indicates there is no stored snapshot for the requested key.
var ErrRunNotFound = errors.New("snapshot run not found")

// SnapshotStore writes and reads WikipediaStats snapshots in SQLite.
type SnapshotStore struct {
	db *db.DB
}

// NewSnapshotStore creates a store backed by the given database.
func NewSnapshotStore(d *db.DB) *SnapshotStore {
	return &SnapshotStore{db: d}
}

// Save persists a snapshot under a fresh run id and returns that id. The
// whole snapshot goes in as one transaction; a failed save leaves no
// partial run behind.
func (s *SnapshotStore) Save(ctx context.Context, snap *stats.WikipediaStats) (string, error) {
	runID := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO runs (id, language) VALUES (?, ?)", runID, snap.Language); err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	for source, target := range snap.Redirects {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO redirects (run_id, source, target) VALUES (?, ?, ?)",
			runID, source, target); err != nil {
			return "", fmt.Errorf("failed to insert redirect: %w", err)
		}
	}

	for name, tmpl := range snap.Templates {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO templates (run_id, name, usage_count) VALUES (?, ?, ?)",
			runID, name, tmpl.Count); err != nil {
			return "", fmt.Errorf("failed to insert template: %w", err)
		}
		for prop, count := range tmpl.Properties {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO properties (run_id, template, name, occurrence_count) VALUES (?, ?, ?, ?)",
				runID, name, prop, count); err != nil {
				return "", fmt.Errorf("failed to insert property: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return runID, nil
}

// Load reads a snapshot back by run id.
func (s *SnapshotStore) Load(ctx context.Context, runID string) (*stats.WikipediaStats, error) {
	var language string
	err := s.db.QueryRowContext(ctx,
		"SELECT language FROM runs WHERE id = ?", runID).Scan(&language)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	snap := &stats.WikipediaStats{
		Language:  language,
		Redirects: make(map[string]string),
		Templates: make(map[string]stats.TemplateStats),
	}

	if err := s.loadRedirects(ctx, runID, snap); err != nil {
		return nil, err
	}
	if err := s.loadTemplates(ctx, runID, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// LatestRun returns the most recent run id for a language.
func (s *SnapshotStore) LatestRun(ctx context.Context, language string) (string, error) {
	var runID string
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM runs WHERE language = ? ORDER BY created_at DESC, id DESC LIMIT 1",
		language).Scan(&runID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: language %s", ErrRunNotFound, language)
	}
	if err != nil {
		return "", fmt.Errorf("failed to query latest run: %w", err)
	}
	return runID, nil
}

func (s *SnapshotStore) loadRedirects(ctx context.Context, runID string, snap *stats.WikipediaStats) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT source, target FROM redirects WHERE run_id = ?", runID)
	if err != nil {
		return fmt.Errorf("failed to load redirects: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var source, target string
		if err := rows.Scan(&source, &target); err != nil {
			return fmt.Errorf("failed to scan redirect: %w", err)
		}
		snap.Redirects[source] = target
	}
	return rows.Err()
}

func (s *SnapshotStore) loadTemplates(ctx context.Context, runID string, snap *stats.WikipediaStats) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, usage_count FROM templates WHERE run_id = ?", runID)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return fmt.Errorf("failed to scan template: %w", err)
		}
		snap.Templates[name] = stats.TemplateStats{Count: count, Properties: make(map[string]int)}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	propRows, err := s.db.QueryContext(ctx,
		"SELECT template, name, occurrence_count FROM properties WHERE run_id = ?", runID)
	if err != nil {
		return fmt.Errorf("failed to load properties: %w", err)
	}
	defer propRows.Close()

	for propRows.Next() {
		var template, name string
		var count int
		if err := propRows.Scan(&template, &name, &count); err != nil {
			return fmt.Errorf("failed to scan property: %w", err)
		}
		if tmpl, ok := snap.Templates[template]; ok {
			tmpl.Properties[name] = count
		}
	}
	return propRows.Err()
}

// ABOUTME: SQLite-backed project store for timeline documents
// ABOUTME: Each project is one row holding the serialized document as JSON

// Package store persists timeline documents in a local SQLite database
// so projects survive between editing sessions. Documents are stored as
// JSON blobs keyed by project ID; the schema stays deliberately flat
// because the editing core, not the database, owns the structure.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"cutroom/timeline"
)

const schema = `
CREATE TABLE IF NOT EXISTS projects (
	id         TEXT PRIMARY KEY,
	document   TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);
`

// ProjectInfo summarizes one stored project
type ProjectInfo struct {
	ID        string
	Tracks    int
	Clips     int
	UpdatedAt time.Time
}

// Store wraps the SQLite connection
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (and if needed creates) the project database at path
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()

			return nil, fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the underlying connection
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveTimeline upserts the project's document. The row is keyed by the
// timeline's project ID.
func (s *Store) SaveTimeline(t *timeline.Timeline) error {
	if t.ProjectID == "" {
		return fmt.Errorf("cannot save timeline without a project ID")
	}

	doc := t.ToDocument()

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize document: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO projects (id, document, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at
	`, t.ProjectID, string(data), s.now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save project %s: %w", t.ProjectID, err)
	}

	return nil
}

// LoadTimeline reads one project's document back into a timeline
func (s *Store) LoadTimeline(projectID string) (*timeline.Timeline, error) {
	var data string

	err := s.db.QueryRow(`SELECT document FROM projects WHERE id = ?`, projectID).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project %s not found", projectID)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load project %s: %w", projectID, err)
	}

	var doc timeline.Document
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse project %s: %w", projectID, err)
	}

	return timeline.FromDocument(doc), nil
}

// ListProjects returns a summary of every stored project, most recently
// updated first
func (s *Store) ListProjects() ([]ProjectInfo, error) {
	rows, err := s.db.Query(`SELECT id, document, updated_at FROM projects ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var infos []ProjectInfo

	for rows.Next() {
		var (
			info      ProjectInfo
			data      string
			updatedAt int64
		)

		if err := rows.Scan(&info.ID, &data, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}

		info.UpdatedAt = time.Unix(updatedAt, 0)

		var doc timeline.Document
		if err := json.Unmarshal([]byte(data), &doc); err == nil {
			info.Tracks = len(doc.Tracks)
			for _, track := range doc.Tracks {
				info.Clips += len(track.Clips)
			}
		}

		infos = append(infos, info)
	}

	return infos, rows.Err()
}

// DeleteProject removes one project. Deleting an unknown project is not
// an error.
func (s *Store) DeleteProject(projectID string) error {
	_, err := s.db.Exec(`DELETE FROM projects WHERE id = ?`, projectID)
	if err != nil {
		return fmt.Errorf("failed to delete project %s: %w", projectID, err)
	}

	return nil
}

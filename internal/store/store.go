// Package store persists completed analysis bundles for the history API.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cybrdelic/repotronium/internal/pipeline"
)

// Store wraps a sql.DB holding the analysis history.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// OpenMemory creates an in-memory database (useful for testing).
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	_, err := s.db.Exec(schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
    id TEXT PRIMARY KEY,
    owner TEXT NOT NULL,
    repo TEXT NOT NULL,
    provenance TEXT NOT NULL,
    file_count INTEGER NOT NULL,
    edge_count INTEGER NOT NULL,
    report_count INTEGER NOT NULL DEFAULT 0,
    duration_ms INTEGER NOT NULL,
    created_at DATETIME NOT NULL,
    bundle TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_repo ON analyses(owner, repo);
CREATE INDEX IF NOT EXISTS idx_analyses_created ON analyses(created_at);
`

// Record is one history row without the full bundle payload.
type Record struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	Repo        string    `json:"repo"`
	Provenance  string    `json:"provenance"`
	FileCount   int       `json:"file_count"`
	EdgeCount   int       `json:"edge_count"`
	ReportCount int       `json:"report_count"`
	DurationMS  int64     `json:"duration_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

// SaveBundle stores a completed analysis.
func (s *Store) SaveBundle(ctx context.Context, b *pipeline.Bundle) error {
	payload, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("store: marshal bundle: %w", err)
	}

	var fileCount, edgeCount int
	if b.Scan != nil {
		fileCount = len(b.Scan.Files)
		edgeCount = len(b.Scan.Dependencies)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO analyses (id, owner, repo, provenance, file_count, edge_count, report_count, duration_ms, created_at, bundle)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Owner, b.Repo, string(b.Provenance),
		fileCount, edgeCount, len(b.Reports),
		b.Duration.Milliseconds(), b.CreatedAt, string(payload),
	)
	if err != nil {
		return fmt.Errorf("store: insert analysis: %w", err)
	}
	return nil
}

// ListRecent returns the newest history rows, most recent first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner, repo, provenance, file_count, edge_count, report_count, duration_ms, created_at
		FROM analyses ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list analyses: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Owner, &r.Repo, &r.Provenance, &r.FileCount, &r.EdgeCount, &r.ReportCount, &r.DurationMS, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// GetBundle loads a stored bundle by id. Returns (nil, nil) when no row
// exists.
func (s *Store) GetBundle(ctx context.Context, id string) (*pipeline.Bundle, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT bundle FROM analyses WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get analysis %s: %w", id, err)
	}

	var bundle pipeline.Bundle
	if err := json.Unmarshal([]byte(payload), &bundle); err != nil {
		return nil, fmt.Errorf("store: unmarshal bundle %s: %w", id, err)
	}
	return &bundle, nil
}

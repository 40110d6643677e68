// Package audit persists a trail of mutating operations to SQLite. The core
// engines never touch it; the CLI records an entry after a mutation has been
// applied and saved, so the trail reflects what actually happened on disk.
package audit

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"robomend/internal/logging"
)

// Kind labels the operation an entry records.
type Kind string

const (
	KindRename      Kind = "rename_mates"
	KindRemoveLinks Kind = "remove_links"
)

// Entry is one recorded operation.
type Entry struct {
	OperationID string
	Robot       string
	Kind        Kind
	Detail      string
	Count       int
	CreatedAt   time.Time
}

// Store wraps the SQLite audit database.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS operations (
	operation_id TEXT PRIMARY KEY,
	robot        TEXT NOT NULL,
	kind         TEXT NOT NULL,
	detail       TEXT NOT NULL,
	count        INTEGER NOT NULL,
	created_at   TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_operations_robot ON operations(robot);
`

// Open initializes the audit database at the given path, creating parent
// directories and the schema as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create audit directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize audit schema: %w", err)
	}

	logging.Audit("opened audit store at %s", path)
	return &Store{db: db, path: path}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts one operation entry.
func (s *Store) Record(e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO operations (operation_id, robot, kind, detail, count, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		e.OperationID, e.Robot, string(e.Kind), e.Detail, e.Count, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record operation %s: %w", e.OperationID, err)
	}
	logging.Audit("recorded %s %s for robot %s (%d changes)", e.Kind, e.OperationID, e.Robot, e.Count)
	return nil
}

// Recent returns up to limit entries, newest first. An empty robot matches
// all robots.
func (s *Store) Recent(robot string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT operation_id, robot, kind, detail, count, created_at FROM operations`
	args := []any{}
	if robot != "" {
		query += ` WHERE robot = ?`
		args = append(args, robot)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit trail: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var kind string
		if err := rows.Scan(&e.OperationID, &e.Robot, &kind, &e.Detail, &e.Count, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit row: %w", err)
		}
		e.Kind = Kind(kind)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

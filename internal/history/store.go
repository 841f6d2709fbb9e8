// Package history keeps an append-only audit trail of rule mutations in a
// local SQLite database. Entries are observational only: nothing reads them
// back to decide what to mutate, so the live proxy table stays the single
// source of truth.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// OutcomeOK marks an entry whose primitives all completed without error.
const OutcomeOK = "ok"

// Entry is one recorded mutation: a single port touched by one run of the
// CLI. Outcome is OutcomeOK or the error text of the failed primitive.
type Entry struct {
	RunID     string    `json:"run_id"`
	Timestamp time.Time `json:"timestamp"`
	Op        string    `json:"op"`
	Port      int       `json:"port"`
	Listen    string    `json:"listen"`
	Target    string    `json:"target"`
	Outcome   string    `json:"outcome"`
}

// Filter narrows what Recent returns.
type Filter struct {
	Last int    // newest N entries, 0 returns everything
	Op   string // restrict to one operation, empty matches all
}

// Store is the SQLite-backed audit log.
type Store struct {
	db    *sql.DB
	mutex sync.Mutex
	path  string
}

// DefaultPath returns the history database location under the user's state
// directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".local", "state", "guestport", "history.db"), nil
}

// Open opens the history database at path, creating the file and schema on
// first use.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}

	store := &Store{db: db, path: path}
	if err := store.initializeSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return store, nil
}

func (s *Store) initializeSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS mutations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		recorded_at TEXT NOT NULL,
		op TEXT NOT NULL,
		port INTEGER NOT NULL,
		listen_address TEXT NOT NULL,
		target_address TEXT NOT NULL,
		outcome TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_mutations_run ON mutations(run_id);
	CREATE INDEX IF NOT EXISTS idx_mutations_op ON mutations(op);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record appends one entry. A zero timestamp is filled with the current
// time and an empty outcome becomes OutcomeOK. Nil-safe: callers hold a nil
// store when history is disabled, and recording simply does nothing.
func (s *Store) Record(e Entry) error {
	if s == nil {
		return nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if e.Outcome == "" {
		e.Outcome = OutcomeOK
	}

	query := `
		INSERT INTO mutations (run_id, recorded_at, op, port, listen_address, target_address, outcome)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query, e.RunID, e.Timestamp.UTC().Format(time.RFC3339Nano), e.Op, e.Port, e.Listen, e.Target, e.Outcome)
	if err != nil {
		return fmt.Errorf("failed to record mutation: %w", err)
	}

	return nil
}

// Recent returns recorded entries, newest first.
func (s *Store) Recent(f Filter) ([]Entry, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	query := `SELECT run_id, recorded_at, op, port, listen_address, target_address, outcome FROM mutations`
	var args []interface{}
	if f.Op != "" {
		query += ` WHERE op = ?`
		args = append(args, f.Op)
	}
	query += ` ORDER BY id DESC`
	if f.Last > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Last)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var recorded string
		if err := rows.Scan(&e.RunID, &recorded, &e.Op, &e.Port, &e.Listen, &e.Target, &e.Outcome); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		if ts, perr := time.Parse(time.RFC3339Nano, recorded); perr == nil {
			e.Timestamp = ts
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history rows: %w", err)
	}

	return entries, nil
}

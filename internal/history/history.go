// Package history persists an append-only record of reload attempts to a
// local sqlite database, grounded on the teacher's SQLiteGraph
// (internal/graph/sqlite_graph.go): a plain database/sql handle over
// modernc.org/sqlite, opened with the driver's pure-Go build so the
// binary stays cgo-free.
package history

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one recorded reload attempt.
type Entry struct {
	At       time.Time
	Success  bool
	Clients  int
	Failures []string
}

// Store appends reload results to reloads.db under a state directory.
type Store struct {
	db *sql.DB
}

// Open creates (if needed) and opens the reload history database at
// path. Callers typically pass PULLCONF_STATE_DIR/reloads.db.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open reload history db %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS reloads (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			at INTEGER NOT NULL,
			success INTEGER NOT NULL,
			clients INTEGER NOT NULL,
			failures TEXT NOT NULL
		)
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create reloads table: %w", err)
	}

	return &Store{db: db}, nil
}

// Record appends one reload attempt. Failures are stored newline-joined;
// this table is a diagnostic trail for operators, not a query surface,
// so no per-failure normalization is worth the extra table.
func (s *Store) Record(e Entry) error {
	_, err := s.db.Exec(
		`INSERT INTO reloads (at, success, clients, failures) VALUES (?, ?, ?, ?)`,
		e.At.Unix(), boolToInt(e.Success), e.Clients, strings.Join(e.Failures, "\n"),
	)
	if err != nil {
		return fmt.Errorf("record reload: %w", err)
	}
	return nil
}

// Recent returns the last n reload attempts, most recent first.
func (s *Store) Recent(n int) ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT at, success, clients, failures FROM reloads ORDER BY id DESC LIMIT ?`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("query reload history: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			at       int64
			success  int
			clients  int
			failures string
		)
		if err := rows.Scan(&at, &success, &clients, &failures); err != nil {
			return nil, fmt.Errorf("scan reload history row: %w", err)
		}
		e := Entry{At: time.Unix(at, 0), Success: success != 0, Clients: clients}
		if failures != "" {
			e.Failures = strings.Split(failures, "\n")
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

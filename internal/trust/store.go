package trust

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryDB opens a store that lives only as long as the process.
const MemoryDB = ":memory:"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS nbsignatures (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	algorithm TEXT NOT NULL,
	signature TEXT NOT NULL,
	path      TEXT NOT NULL DEFAULT '',
	last_seen INTEGER NOT NULL DEFAULT 0 -- unix nanoseconds
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_nbsignatures_sig ON nbsignatures(algorithm, signature);
CREATE INDEX IF NOT EXISTS idx_nbsignatures_last_seen ON nbsignatures(last_seen);
`

// Store records signatures of notebooks this user has trusted.
type Store struct {
	mu   sync.Mutex
	conn *sql.DB
}

// SignatureRecord is one row of the store.
type SignatureRecord struct {
	Algorithm string    `json:"algorithm"`
	Signature string    `json:"signature"`
	Path      string    `json:"path"`
	LastSeen  time.Time `json:"last_seen"`
}

// OpenStore opens (or creates) the signature database at dsn.
func OpenStore(dsn string) (*Store, error) {
	if dsn != MemoryDB {
		if err := os.MkdirAll(filepath.Dir(dsn), dirMode); err != nil {
			return nil, fmt.Errorf("trust: create db dir: %w", err)
		}
	}
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("trust: open db: %w", err)
	}
	// Every connection to :memory: is a separate database.
	conn.SetMaxOpenConns(1)
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("trust: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("trust: apply schema: %w", err)
	}
	return &Store{conn: conn}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Record stores a signature, refreshing last_seen and path when it exists.
func (s *Store) Record(ctx context.Context, algorithm, signature, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.conn.ExecContext(ctx, `
INSERT INTO nbsignatures (algorithm, signature, path, last_seen)
VALUES (?, ?, ?, ?)
ON CONFLICT(algorithm, signature) DO UPDATE SET path = excluded.path, last_seen = excluded.last_seen`,
		algorithm, signature, path, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("trust: record signature: %w", err)
	}
	return nil
}

// Known reports whether the signature has been recorded.
func (s *Store) Known(ctx context.Context, algorithm, signature string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	err := s.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM nbsignatures WHERE algorithm = ? AND signature = ?`,
		algorithm, signature).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("trust: lookup signature: %w", err)
	}
	return n > 0, nil
}

// Recent returns up to limit records, most recently seen first.
func (s *Store) Recent(ctx context.Context, limit int) ([]SignatureRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.conn.QueryContext(ctx, `
SELECT algorithm, signature, path, last_seen FROM nbsignatures
ORDER BY last_seen DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("trust: list signatures: %w", err)
	}
	defer rows.Close()

	var records []SignatureRecord
	for rows.Next() {
		var (
			r        SignatureRecord
			lastSeen int64
		)
		if err := rows.Scan(&r.Algorithm, &r.Signature, &r.Path, &lastSeen); err != nil {
			return nil, fmt.Errorf("trust: scan signature: %w", err)
		}
		r.LastSeen = time.Unix(0, lastSeen).UTC()
		records = append(records, r)
	}
	return records, rows.Err()
}

// Cull deletes all but the keep most recently seen signatures and returns
// the number removed.
func (s *Store) Cull(ctx context.Context, keep int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.conn.ExecContext(ctx, `
DELETE FROM nbsignatures WHERE id NOT IN (
	SELECT id FROM nbsignatures ORDER BY last_seen DESC, id DESC LIMIT ?
)`, keep)
	if err != nil {
		return 0, fmt.Errorf("trust: cull signatures: %w", err)
	}
	return res.RowsAffected()
}

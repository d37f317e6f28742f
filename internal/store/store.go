// Package store provides SQLite persistence for built commit entries.
package store

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"

	"github.com/sprite-ai/refmark/internal/entry"
	"github.com/sprite-ai/refmark/internal/logging"
	"github.com/sprite-ai/refmark/internal/model"
)

// Store keeps one serialized entry per commit.
// All methods are safe for concurrent use.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	codec  entry.Codec
	logger *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report undecodable rows.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = logging.Or(l) }
}

// Open creates a Store backed by the database at dbPath, creating the schema
// if needed. ":memory:" opens a private in-memory database.
func Open(dbPath string, opts ...Option) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so every pooled connection sees the same database.
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{
		db:     db,
		codec:  &entry.JSONCodec{},
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		commit_id TEXT PRIMARY KEY,
		time INTEGER NOT NULL,
		payload BLOB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entries_time ON entries(time);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Put stores e, replacing any entry with the same commit id.
func (s *Store) Put(e *model.Entry) error {
	if e == nil || e.CommitID == "" {
		return errors.New("put entry: missing commit id")
	}

	var buf bytes.Buffer
	if err := s.codec.Encode(&buf, e); err != nil {
		return fmt.Errorf("put entry %s: %w", e.CommitID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO entries (commit_id, time, payload) VALUES (?, ?, ?)
		ON CONFLICT(commit_id) DO UPDATE SET time = excluded.time, payload = excluded.payload
	`, e.CommitID, e.Time, buf.Bytes())
	if err != nil {
		return fmt.Errorf("put entry %s: %w", e.CommitID, err)
	}
	return nil
}

// PutAll stores entries in a single transaction.
func (s *Store) PutAll(entries []*model.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO entries (commit_id, time, payload) VALUES (?, ?, ?)
		ON CONFLICT(commit_id) DO UPDATE SET time = excluded.time, payload = excluded.payload
	`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if e == nil || e.CommitID == "" {
			return errors.New("put entry: missing commit id")
		}
		var buf bytes.Buffer
		if err := s.codec.Encode(&buf, e); err != nil {
			return fmt.Errorf("put entry %s: %w", e.CommitID, err)
		}
		if _, err := stmt.Exec(e.CommitID, e.Time, buf.Bytes()); err != nil {
			return fmt.Errorf("put entry %s: %w", e.CommitID, err)
		}
	}
	return tx.Commit()
}

// Get returns the entry stored for commitID. A missing row and a row that no
// longer decodes both yield (nil, nil); the latter is logged.
func (s *Store) Get(commitID string) (*model.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload []byte
	err := s.db.QueryRow(`SELECT payload FROM entries WHERE commit_id = ?`, commitID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entry %s: %w", commitID, err)
	}
	return s.decode(commitID, payload), nil
}

// List returns every decodable entry ordered by commit time, oldest first.
func (s *Store) List() ([]*model.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT commit_id, payload FROM entries ORDER BY time ASC, rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var out []*model.Entry
	for rows.Next() {
		var id string
		var payload []byte
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if e := s.decode(id, payload); e != nil {
			out = append(out, e)
		}
	}
	return out, rows.Err()
}

// Count returns the number of stored rows.
func (s *Store) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

func (s *Store) decode(commitID string, payload []byte) *model.Entry {
	e, err := entry.Decode(payload, s.codec)
	if err != nil {
		s.logger.Warn("undecodable stored entry", "commit", commitID, "err", err)
		return nil
	}
	return e
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const (
	defaultPath = "tini_admin.db"
)

var journalModes = map[string]bool{
	"delete":   true,
	"truncate": true,
	"persist":  true,
	"memory":   true,
	"wal":      true,
	"off":      true,
}

// Store wraps a SQLite DB connection.
type Store struct {
	path string
	db   *sql.DB
}

// Option tweaks how Open prepares the connection.
type Option func(*options)

type options struct {
	journalMode string
}

// WithJournalMode sets PRAGMA journal_mode after opening. Empty keeps the
// engine default.
func WithJournalMode(mode string) Option {
	return func(o *options) {
		o.journalMode = strings.ToLower(strings.TrimSpace(mode))
	}
}

// Open creates (if needed) and opens the SQLite database over a single
// connection.
func Open(path string, opts ...Option) (*Store, error) {
	if path == "" {
		path = defaultPath
	}
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.journalMode != "" && !journalModes[o.journalMode] {
		return nil, fmt.Errorf("unsupported journal mode %q", o.journalMode)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}
	if o.journalMode != "" {
		if _, err := db.Exec("PRAGMA journal_mode=" + o.journalMode + ";"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set journal mode: %w", err)
		}
	}
	return &Store{path: path, db: db}, nil
}

// Path returns the path backing the store.
func (s *Store) Path() string {
	return s.path
}

// Close closes the DB.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// CreateTables ensures the users and activities tables exist.
func (s *Store) CreateTables(ctx context.Context) error {
	return createTables(ctx, s.db)
}

func createTables(ctx context.Context, db execer) error {
	for _, stmt := range []string{usersSchemaSQL, activitiesSchemaSQL} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// DropTables removes both tables.
func (s *Store) DropTables(ctx context.Context) error {
	for _, stmt := range []string{`DROP TABLE IF EXISTS activities;`, `DROP TABLE IF EXISTS users;`} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// ClearTables deletes every row from both tables.
func (s *Store) ClearTables(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, stmt := range []string{`DELETE FROM activities;`, `DELETE FROM users;`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

const usersSchemaSQL = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT UNIQUE NOT NULL,
	email TEXT UNIQUE,
	full_name TEXT,
	department TEXT,
	role TEXT DEFAULT 'user',
	status TEXT DEFAULT 'active',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	last_login DATETIME
);
`

const activitiesSchemaSQL = `
CREATE TABLE IF NOT EXISTS activities (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER,
	action TEXT,
	details TEXT,
	ip_address TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// Package store persists scenarios in SQLite or in a Dolt repository.
//
// Both backends share one schema and the same queries. The Dolt backend
// additionally commits after every write, so each saved scenario version can
// be listed with History.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/dolthub/driver"
	_ "modernc.org/sqlite"
)

// Supported backends.
const (
	BackendSQLite = "sqlite"
	BackendDolt   = "dolt"
)

// doltDatabase is the database name inside the Dolt repository.
const doltDatabase = "asz"

// ErrNotVersioned is returned by History on backends without version control.
var ErrNotVersioned = errors.New("store backend does not keep history")

// Store manages the scenario database.
type Store struct {
	db      *sql.DB
	backend string
	path    string

	// now stamps created_at/updated_at. Tests replace it.
	now func() time.Time
}

// Open opens or creates a store of the given backend at path. For SQLite,
// path is the database file; for Dolt it is the repository directory.
func Open(backend, path string) (*Store, error) {
	switch backend {
	case BackendSQLite, "":
		return OpenSQLite(path)
	case BackendDolt:
		return OpenDolt(path)
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

// OpenSQLite opens or creates a SQLite store at dbPath.
func OpenSQLite(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single connection serializes writers and keeps pragmas in effect.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	return newStore(db, BackendSQLite, dbPath)
}

// OpenDolt opens or creates a Dolt repository at dir.
func OpenDolt(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create dolt directory: %w", err)
	}

	// Connect without a database first to create it if needed
	initDSN := fmt.Sprintf("file://%s?commitname=asz&commitemail=asz@local", dir)
	initDB, err := sql.Open("dolt", initDSN)
	if err != nil {
		return nil, fmt.Errorf("open dolt for init: %w", err)
	}
	if _, err := initDB.Exec("CREATE DATABASE IF NOT EXISTS " + doltDatabase); err != nil {
		initDB.Close()
		return nil, fmt.Errorf("create database: %w", err)
	}
	initDB.Close()

	dsn := fmt.Sprintf("file://%s?commitname=asz&commitemail=asz@local&database=%s", dir, doltDatabase)
	db, err := sql.Open("dolt", dsn)
	if err != nil {
		return nil, fmt.Errorf("open dolt db: %w", err)
	}

	return newStore(db, BackendDolt, dir)
}

func newStore(db *sql.DB, backend, path string) (*Store, error) {
	s := &Store{
		db:      db,
		backend: backend,
		path:    path,
		now:     func() time.Time { return time.Now().UTC() },
	}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Backend returns the backend name.
func (s *Store) Backend() string {
	return s.backend
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

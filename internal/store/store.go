package store

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

var (
	// ErrNotFound is returned when a life or snapshot does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDigestMismatch is returned when stored snapshot data does not hash
	// to its stored digest.
	ErrDigestMismatch = errors.New("snapshot digest mismatch")
)

// migration moves the schema from version-1 to version. Migrations run in
// order inside one transaction each; user_version records the last applied.
type migration struct {
	version int
	name    string
	stmt    string
}

var migrations = []migration{
	{1, "lives, snapshots, history", schemaSQL},
	{2, "history kind index", `CREATE INDEX IF NOT EXISTS idx_history_kind ON history(life_id, kind, seq)`},
}

// schemaVersion is the user_version of a fully migrated database.
func schemaVersion() int { return migrations[len(migrations)-1].version }

// connParams are go-sqlite3 DSN options applied to every pooled connection.
var connParams = url.Values{
	"_journal_mode": {"WAL"},
	"_synchronous":  {"NORMAL"},
	"_busy_timeout": {"5000"},
	"_foreign_keys": {"on"},
}

// Store is durable storage for lives, snapshots, and history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and migrates it to the current
// schema. Reopening a migrated database is a no-op.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?"+connParams.Encode())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// Connection params apply per connection; keep exactly one.
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func migrate(db *sql.DB) error {
	var current int
	if err := db.QueryRow("PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := apply(db, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		slog.Debug("store migrated", "version", m.version, "migration", m.name)
	}
	return nil
}

func apply(db *sql.DB, m migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.stmt); err != nil {
		return err
	}
	// PRAGMA does not take bind parameters.
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
		return err
	}
	return tx.Commit()
}

// pragma reads a single pragma value.
func (s *Store) pragma(name string) (string, error) {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return "", fmt.Errorf("read pragma %s: %w", name, err)
	}
	return value, nil
}

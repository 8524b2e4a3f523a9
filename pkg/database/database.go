// Package database fronts a single SQLite database file. It owns the
// connection lifecycle (one open/close pair per operation, never pooled),
// the catalog reflection queries, and the execution of caller-supplied SQL.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

// ErrDatabaseMissing reports that the configured database file does not
// exist on disk. The server keeps serving; every call gets told again.
var ErrDatabaseMissing = errors.New("database file missing")

// DB points at one database file. It holds no open connection: each
// operation opens one, runs, and closes it before returning, so no state
// leaks between tool calls.
type DB struct {
	path string
	log  *slog.Logger
}

func New(path string, log *slog.Logger) *DB {
	return &DB{path: path, log: log}
}

func (d *DB) Path() string { return d.path }

// Exists reports whether the database file is present on disk right now.
// The file is owned externally and can appear or vanish between calls.
func (d *DB) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// withConn opens a connection for the duration of fn and closes it on
// every exit path. The existence check runs first so a missing file is
// reported as ErrDatabaseMissing instead of sqlite creating an empty one.
func (d *DB) withConn(fn func(*sql.DB) error) error {
	if !d.Exists() {
		return fmt.Errorf("%w: %s", ErrDatabaseMissing, d.path)
	}
	d.log.Debug("opening database", "path", d.path)
	conn, err := sql.Open("sqlite3", d.path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite db: %w", err)
	}
	defer conn.Close()
	return fn(conn)
}

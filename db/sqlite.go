// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure Go sqlite driver
)

// ErrConfiguration marks fatal store setup failures: the file could not be
// opened or referential-integrity enforcement could not be enabled. Callers
// must abort, never continue with a handle that ignores foreign keys.
var ErrConfiguration = errors.New("store configuration error")

// Open opens (creating if absent) the SQLite file at path and returns a
// handle with foreign-key enforcement verified on. The handle is limited to
// one connection: single-writer model, and SQLite pragmas are per-connection.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: create directory: %v", ErrConfiguration, err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrConfiguration, path, err)
	}
	conn.SetMaxOpenConns(1)

	if err := configure(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func configure(conn *sql.DB) error {
	if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return fmt.Errorf("%w: enable WAL: %v", ErrConfiguration, err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("%w: set busy_timeout: %v", ErrConfiguration, err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("%w: enable foreign keys: %v", ErrConfiguration, err)
	}

	// SQLite accepts the pragma even when the build omits foreign-key
	// support, so read it back instead of trusting the Exec.
	var fkEnabled int
	if err := conn.QueryRow("PRAGMA foreign_keys").Scan(&fkEnabled); err != nil {
		return fmt.Errorf("%w: verify foreign keys: %v", ErrConfiguration, err)
	}
	if fkEnabled != 1 {
		return fmt.Errorf("%w: foreign keys not enabled, referential integrity would not hold", ErrConfiguration)
	}

	return conn.Ping()
}

// Reset destroys the backing file and recreates an empty store with the
// current schema.
func Reset(path string) (*sql.DB, error) {
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: remove %s: %v", ErrConfiguration, p, err)
		}
	}

	conn, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := CreateSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

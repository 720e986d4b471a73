// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"time"
)

// Store is the typed access layer over an open measurement database.
// It is the only component that touches the backing store; ingestion,
// analysis drivers, and export are all just callers.
type Store struct {
	db *sql.DB
}

// New wraps an open database handle. The handle stays owned by the caller,
// which is responsible for closing it.
func New(conn *sql.DB) *Store {
	return &Store{db: conn}
}

// DB returns the underlying handle for callers needing ad hoc access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Timestamps are stored as UTC strings at second precision. The layout is
// lexicographically ordered, which the date-range queries rely on.
const timeLayout = "2006-01-02 15:04:05"

func encodeTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Truncate(time.Second).Format(timeLayout)
}

func decodeTime(s string) time.Time {
	t, err := time.ParseInLocation(timeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Query is the escape hatch for ad hoc SQL. Each result row becomes a
// column-name-keyed map.
func (s *Store) Query(query string, args ...any) ([]map[string]any, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []map[string]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			row[col] = vals[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

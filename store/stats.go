// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"fmt"

	"github.com/danielhkuo/photondb/db"
)

// CountRows returns the row count of one entity table. The name must be one
// of the declared entities; identifiers are never interpolated from free
// input.
func (s *Store) CountRows(table string) (int64, error) {
	known := false
	for _, t := range db.Tables {
		if t == table {
			known = true
			break
		}
	}
	if !known {
		return 0, fmt.Errorf("%w: unknown entity %q", ErrValidation, table)
	}

	var count int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Stats returns row counts for every entity table.
func (s *Store) Stats() (map[string]int64, error) {
	stats := make(map[string]int64, len(db.Tables))
	for _, table := range db.Tables {
		count, err := s.CountRows(table)
		if err != nil {
			return nil, err
		}
		stats[table] = count
	}
	return stats, nil
}

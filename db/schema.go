// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the measurement store.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// AddColumn adds a column to an existing table. No-op if the column is
// already present, so migrations stay re-runnable. decl is the SQL column
// declaration after the name, e.g. "REAL NOT NULL DEFAULT 0".
func AddColumn(db *sql.DB, table, column, decl string) error {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%q)", table))
	if err != nil {
		return fmt.Errorf("failed to inspect table %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return fmt.Errorf("failed to scan table info: %w", err)
		}
		if name == column {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	_, err = db.Exec(fmt.Sprintf("ALTER TABLE %q ADD COLUMN %q %s", table, column, decl))
	if err != nil {
		return fmt.Errorf("failed to add column %s.%s: %w", table, column, err)
	}
	return nil
}

// Tables lists every entity table in declaration order. Export and stats
// iterate this slice so sheet order and count order stay stable.
var Tables = []string{
	"dut",
	"measurement_sessions",
	"experimental_conditions",
	"measurement_data",
	"data_info",
	"analysis_runs",
	"analysis_inputs",
	"analysis_features",
	"feature_values",
}

// Unit columns are NOT NULL DEFAULT '' rather than nullable: SQLite unique
// indexes treat NULLs as distinct, which would let unitless duplicates slip
// past the upsert keys. The empty string means "no unit".
const schema = `
-- Devices under test
CREATE TABLE IF NOT EXISTS dut (
    dut_id INTEGER PRIMARY KEY AUTOINCREMENT,
    wafer TEXT NOT NULL,
    doe TEXT NOT NULL,
    die INTEGER NOT NULL,
    cage TEXT NOT NULL,
    device TEXT NOT NULL,
    UNIQUE (wafer, doe, die, cage, device)
);

-- Measurement sessions
CREATE TABLE IF NOT EXISTS measurement_sessions (
    session_id INTEGER PRIMARY KEY AUTOINCREMENT,
    dut_id INTEGER NOT NULL REFERENCES dut(dut_id) ON DELETE CASCADE,
    session_name TEXT NOT NULL,
    measurement_datetime TEXT NOT NULL,
    operator TEXT,
    system_version TEXT,
    notes TEXT,
    UNIQUE (dut_id, session_name)
);

CREATE INDEX IF NOT EXISTS idx_sessions_dut ON measurement_sessions(dut_id);
CREATE INDEX IF NOT EXISTS idx_sessions_datetime ON measurement_sessions(measurement_datetime);

-- Ambient/setup parameters recorded at measurement time
CREATE TABLE IF NOT EXISTS experimental_conditions (
    condition_id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id INTEGER NOT NULL REFERENCES measurement_sessions(session_id) ON DELETE CASCADE,
    key TEXT NOT NULL,
    value REAL NOT NULL,
    unit TEXT NOT NULL DEFAULT '',
    UNIQUE (session_id, key, unit)
);

CREATE INDEX IF NOT EXISTS idx_conditions_session ON experimental_conditions(session_id);

-- References to raw data artifacts (spectrum files etc.)
CREATE TABLE IF NOT EXISTS measurement_data (
    data_id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id INTEGER NOT NULL REFERENCES measurement_sessions(session_id) ON DELETE CASCADE,
    data_type TEXT NOT NULL,
    file_path TEXT NOT NULL,
    created_time TEXT NOT NULL,
    UNIQUE (session_id, file_path)
);

CREATE INDEX IF NOT EXISTS idx_data_session ON measurement_data(session_id);

-- Named metadata attributes of one data artifact
CREATE TABLE IF NOT EXISTS data_info (
    info_id INTEGER PRIMARY KEY AUTOINCREMENT,
    data_id INTEGER NOT NULL REFERENCES measurement_data(data_id) ON DELETE CASCADE,
    key TEXT NOT NULL,
    value REAL NOT NULL,
    unit TEXT NOT NULL DEFAULT '',
    UNIQUE (data_id, key, unit)
);

CREATE INDEX IF NOT EXISTS idx_data_info_data ON data_info(data_id);

-- Analysis executions over a session's data
CREATE TABLE IF NOT EXISTS analysis_runs (
    analysis_id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id INTEGER NOT NULL REFERENCES measurement_sessions(session_id) ON DELETE CASCADE,
    analysis_type TEXT NOT NULL,
    analysis_index INTEGER NOT NULL,
    created_time TEXT NOT NULL,
    UNIQUE (session_id, analysis_type, analysis_index)
);

CREATE INDEX IF NOT EXISTS idx_runs_session ON analysis_runs(session_id);

-- Lineage edges: which data artifacts fed which run. Pure relation,
-- no surrogate key.
CREATE TABLE IF NOT EXISTS analysis_inputs (
    analysis_id INTEGER NOT NULL REFERENCES analysis_runs(analysis_id) ON DELETE CASCADE,
    data_id INTEGER NOT NULL REFERENCES measurement_data(data_id) ON DELETE CASCADE,
    PRIMARY KEY (analysis_id, data_id)
);

CREATE INDEX IF NOT EXISTS idx_inputs_data ON analysis_inputs(data_id);

-- Detected observables (peaks/valleys) within a run
CREATE TABLE IF NOT EXISTS analysis_features (
    feature_id INTEGER PRIMARY KEY AUTOINCREMENT,
    analysis_id INTEGER NOT NULL REFERENCES analysis_runs(analysis_id) ON DELETE CASCADE,
    feature_type TEXT NOT NULL,
    feature_index INTEGER NOT NULL,
    UNIQUE (analysis_id, feature_type, feature_index)
);

CREATE INDEX IF NOT EXISTS idx_features_analysis ON analysis_features(analysis_id);

-- Named numeric measurements of a feature
CREATE TABLE IF NOT EXISTS feature_values (
    value_id INTEGER PRIMARY KEY AUTOINCREMENT,
    feature_id INTEGER NOT NULL REFERENCES analysis_features(feature_id) ON DELETE CASCADE,
    key TEXT NOT NULL,
    value REAL NOT NULL,
    unit TEXT NOT NULL DEFAULT '',
    UNIQUE (feature_id, key, unit)
);

CREATE INDEX IF NOT EXISTS idx_feature_values_feature ON feature_values(feature_id);
CREATE INDEX IF NOT EXISTS idx_feature_values_key ON feature_values(key, value);
`

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"fmt"
	"sort"

	"github.com/danielhkuo/photondb/models"
)

// Every insert is insert-or-get-existing: the entity's uniqueness constraint
// acts as the conflict key, and the resolved surrogate key comes back either
// way. Re-running the same logical insert never creates a second row, which
// ingestion relies on for at-least-once semantics. The DO UPDATE arms on
// no-op columns exist so RETURNING fires on the conflict path too.

// InsertDUT inserts a device under test, or returns the existing key for the
// same (wafer, DOE, die, cage, device) tuple.
func (s *Store) InsertDUT(wafer, doe string, die int, cage, device string) (int64, error) {
	if wafer == "" || cage == "" || device == "" {
		return 0, fmt.Errorf("%w: wafer, cage, and device are required", ErrValidation)
	}

	var id int64
	err := s.db.QueryRow(`
		INSERT INTO dut (wafer, doe, die, cage, device)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (wafer, doe, die, cage, device) DO UPDATE SET wafer = excluded.wafer
		RETURNING dut_id
	`, wafer, doe, die, cage, device).Scan(&id)
	if err != nil {
		return 0, classify(err)
	}
	return id, nil
}

// InsertSession inserts a measurement session under sess.DUTID, or returns
// the existing key for the same (DUT, session name) pair. A zero Timestamp
// defaults to now, truncated to seconds.
func (s *Store) InsertSession(sess models.Session) (int64, error) {
	if sess.Name == "" {
		return 0, fmt.Errorf("%w: session_name is required", ErrValidation)
	}

	var id int64
	err := s.db.QueryRow(`
		INSERT INTO measurement_sessions (dut_id, session_name, measurement_datetime, operator, system_version, notes)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (dut_id, session_name) DO UPDATE SET dut_id = excluded.dut_id
		RETURNING session_id
	`, sess.DUTID, sess.Name, encodeTime(sess.Timestamp), sess.Operator, sess.SystemVersion, sess.Notes).Scan(&id)
	if err != nil {
		return 0, classify(err)
	}
	return id, nil
}

// InsertData inserts a raw-data reference under d.SessionID, or returns the
// existing key for the same (session, file path) pair.
func (s *Store) InsertData(d models.Data) (int64, error) {
	if d.DataType == "" || d.FilePath == "" {
		return 0, fmt.Errorf("%w: data_type and file_path are required", ErrValidation)
	}

	var id int64
	err := s.db.QueryRow(`
		INSERT INTO measurement_data (session_id, data_type, file_path, created_time)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (session_id, file_path) DO UPDATE SET session_id = excluded.session_id
		RETURNING data_id
	`, d.SessionID, d.DataType, d.FilePath, encodeTime(d.CreatedTime)).Scan(&id)
	if err != nil {
		return 0, classify(err)
	}
	return id, nil
}

// InsertAnalysisRun inserts an analysis execution, or returns the existing
// key for the same (session, type, index) tuple, refreshing created_time.
// AnalysisIndex is caller-assigned; multi-pass workflows pick their own
// non-colliding ordinals.
func (s *Store) InsertAnalysisRun(r models.AnalysisRun) (int64, error) {
	if r.AnalysisType == "" {
		return 0, fmt.Errorf("%w: analysis_type is required", ErrValidation)
	}

	var id int64
	err := s.db.QueryRow(`
		INSERT INTO analysis_runs (session_id, analysis_type, analysis_index, created_time)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (session_id, analysis_type, analysis_index) DO UPDATE SET created_time = excluded.created_time
		RETURNING analysis_id
	`, r.SessionID, r.AnalysisType, r.AnalysisIndex, encodeTime(r.CreatedTime)).Scan(&id)
	if err != nil {
		return 0, classify(err)
	}
	return id, nil
}

// InsertAnalysisInput records one lineage edge. Duplicate edges are ignored.
func (s *Store) InsertAnalysisInput(analysisID, dataID int64) error {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO analysis_inputs (analysis_id, data_id)
		VALUES (?, ?)
	`, analysisID, dataID)
	return classify(err)
}

// InsertAnalysisInputs records lineage edges for a whole run in one
// transaction.
func (s *Store) InsertAnalysisInputs(analysisID int64, dataIDs []int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, dataID := range dataIDs {
		if _, err := tx.Exec(`
			INSERT OR IGNORE INTO analysis_inputs (analysis_id, data_id)
			VALUES (?, ?)
		`, analysisID, dataID); err != nil {
			return classify(err)
		}
	}
	return tx.Commit()
}

// InsertFeature inserts a detected observable, or returns the existing key
// for the same (analysis, type, index) tuple.
func (s *Store) InsertFeature(f models.Feature) (int64, error) {
	if f.FeatureType == "" {
		return 0, fmt.Errorf("%w: feature_type is required", ErrValidation)
	}

	var id int64
	err := s.db.QueryRow(`
		INSERT INTO analysis_features (analysis_id, feature_type, feature_index)
		VALUES (?, ?, ?)
		ON CONFLICT (analysis_id, feature_type, feature_index) DO UPDATE SET feature_index = excluded.feature_index
		RETURNING feature_id
	`, f.AnalysisID, f.FeatureType, f.FeatureIndex).Scan(&id)
	if err != nil {
		return 0, classify(err)
	}
	return id, nil
}

// InsertConditions batch-inserts experimental conditions under one session,
// one row per map entry, atomically.
func (s *Store) InsertConditions(sessionID int64, conditions map[string]models.Quantity) error {
	return s.insertKV("experimental_conditions", "session_id", sessionID, conditions)
}

// InsertDataInfo batch-inserts attributes of one data artifact, atomically.
func (s *Store) InsertDataInfo(dataID int64, info map[string]models.Quantity) error {
	return s.insertKV("data_info", "data_id", dataID, info)
}

// InsertFeatureValues batch-inserts named measurements of one feature,
// atomically.
func (s *Store) InsertFeatureValues(featureID int64, values map[string]models.Quantity) error {
	return s.insertKV("feature_values", "feature_id", featureID, values)
}

// insertKV inserts one row per entry under one parent in a single
// transaction. Conflicts on (parent, key, unit) overwrite the value, so
// re-ingesting refreshed measurements is a clean upsert. The same key may
// recur with different units. Table and column names are internal constants,
// never caller input.
func (s *Store) insertKV(table, parentCol string, parentID int64, entries map[string]models.Quantity) error {
	keys := make([]string, 0, len(entries))
	for key := range entries {
		if key == "" {
			return fmt.Errorf("%w: empty key in %s batch", ErrValidation, table)
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, key, value, unit)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (%s, key, unit) DO UPDATE SET value = excluded.value
	`, table, parentCol, parentCol)

	for _, key := range keys {
		q := entries[key]
		if _, err := tx.Exec(query, parentID, key, q.Value, q.Unit); err != nil {
			return classify(err)
		}
	}
	return tx.Commit()
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import "time"

// Deletes rely on the schema's ON DELETE CASCADE rules: removing a DUT,
// session, run, or feature removes every descendant row in the same
// statement, so no orphans can survive a crash between statements.
// Each call returns the number of directly deleted rows.

func (s *Store) deleteWhere(query string, args ...any) (int64, error) {
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return 0, classify(err)
	}
	return res.RowsAffected()
}

// DeleteDUT removes a device and, transitively, all of its sessions,
// conditions, data, data info, runs, features, and values.
func (s *Store) DeleteDUT(dutID int64) (int64, error) {
	return s.deleteWhere("DELETE FROM dut WHERE dut_id = ?", dutID)
}

// DeleteSession removes one session and all of its descendants.
func (s *Store) DeleteSession(sessionID int64) (int64, error) {
	return s.deleteWhere("DELETE FROM measurement_sessions WHERE session_id = ?", sessionID)
}

// DeleteCondition removes one experimental condition row.
func (s *Store) DeleteCondition(conditionID int64) (int64, error) {
	return s.deleteWhere("DELETE FROM experimental_conditions WHERE condition_id = ?", conditionID)
}

// DeleteData removes one data artifact and its info rows and lineage edges.
func (s *Store) DeleteData(dataID int64) (int64, error) {
	return s.deleteWhere("DELETE FROM measurement_data WHERE data_id = ?", dataID)
}

// DeleteDataInfo removes one data attribute row.
func (s *Store) DeleteDataInfo(infoID int64) (int64, error) {
	return s.deleteWhere("DELETE FROM data_info WHERE info_id = ?", infoID)
}

// DeleteAnalysisRun removes one run and its lineage edges, features, and
// values.
func (s *Store) DeleteAnalysisRun(analysisID int64) (int64, error) {
	return s.deleteWhere("DELETE FROM analysis_runs WHERE analysis_id = ?", analysisID)
}

// DeleteAnalysisInput removes one lineage edge.
func (s *Store) DeleteAnalysisInput(analysisID, dataID int64) (int64, error) {
	return s.deleteWhere("DELETE FROM analysis_inputs WHERE analysis_id = ? AND data_id = ?", analysisID, dataID)
}

// DeleteFeature removes one feature and its values.
func (s *Store) DeleteFeature(featureID int64) (int64, error) {
	return s.deleteWhere("DELETE FROM analysis_features WHERE feature_id = ?", featureID)
}

// DeleteFeatureValue removes one feature measurement row.
func (s *Store) DeleteFeatureValue(valueID int64) (int64, error) {
	return s.deleteWhere("DELETE FROM feature_values WHERE value_id = ?", valueID)
}

// DeleteSessionsByDUT removes every session of one DUT, cascading, but keeps
// the DUT row itself.
func (s *Store) DeleteSessionsByDUT(dutID int64) (int64, error) {
	return s.deleteWhere("DELETE FROM measurement_sessions WHERE dut_id = ?", dutID)
}

// DeleteSessionsBefore removes every session measured strictly before the
// cutoff, cascading to all descendants.
func (s *Store) DeleteSessionsBefore(cutoff time.Time) (int64, error) {
	return s.deleteWhere("DELETE FROM measurement_sessions WHERE measurement_datetime < ?", encodeTime(cutoff))
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/danielhkuo/photondb/models"
)

// Point lookups return (nil, nil) when no row matches: absence is an
// expected outcome, not an error.

// GetDUT looks up one device under test by surrogate key.
func (s *Store) GetDUT(dutID int64) (*models.DUT, error) {
	var d models.DUT
	err := s.db.QueryRow(`
		SELECT dut_id, wafer, doe, die, cage, device
		FROM dut WHERE dut_id = ?
	`, dutID).Scan(&d.ID, &d.Wafer, &d.DOE, &d.Die, &d.Cage, &d.Device)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// DUTFilter narrows ListDUTs. Zero-valued fields are ignored.
type DUTFilter struct {
	Wafer string
	Die   *int
}

// ListDUTs returns devices matching the filter.
func (s *Store) ListDUTs(filter DUTFilter) ([]models.DUT, error) {
	query := "SELECT dut_id, wafer, doe, die, cage, device FROM dut WHERE 1=1"
	var args []any
	if filter.Wafer != "" {
		query += " AND wafer = ?"
		args = append(args, filter.Wafer)
	}
	if filter.Die != nil {
		query += " AND die = ?"
		args = append(args, *filter.Die)
	}
	query += " ORDER BY dut_id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var duts []models.DUT
	for rows.Next() {
		var d models.DUT
		if err := rows.Scan(&d.ID, &d.Wafer, &d.DOE, &d.Die, &d.Cage, &d.Device); err != nil {
			return nil, err
		}
		duts = append(duts, d)
	}
	return duts, rows.Err()
}

func scanSession(scan func(...any) error) (models.Session, error) {
	var (
		sess                       models.Session
		ts                         string
		operator, sysVersion, note sql.NullString
	)
	err := scan(&sess.ID, &sess.DUTID, &sess.Name, &ts, &operator, &sysVersion, &note)
	if err != nil {
		return sess, err
	}
	sess.Timestamp = decodeTime(ts)
	sess.Operator = operator.String
	sess.SystemVersion = sysVersion.String
	sess.Notes = note.String
	return sess, nil
}

const sessionCols = "session_id, dut_id, session_name, measurement_datetime, operator, system_version, notes"

// GetSession looks up one measurement session by surrogate key.
func (s *Store) GetSession(sessionID int64) (*models.Session, error) {
	sess, err := scanSession(s.db.QueryRow(
		"SELECT "+sessionCols+" FROM measurement_sessions WHERE session_id = ?", sessionID).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *Store) listSessions(query string, args ...any) ([]models.Session, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		sess, err := scanSession(rows.Scan)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// ListSessionsByDUT returns a DUT's sessions, newest first.
func (s *Store) ListSessionsByDUT(dutID int64) ([]models.Session, error) {
	return s.listSessions(
		"SELECT "+sessionCols+" FROM measurement_sessions WHERE dut_id = ? ORDER BY measurement_datetime DESC",
		dutID)
}

// ListSessionsByDateRange returns sessions whose timestamp falls in the
// closed interval [start, end], newest first.
func (s *Store) ListSessionsByDateRange(start, end time.Time) ([]models.Session, error) {
	return s.listSessions(
		"SELECT "+sessionCols+" FROM measurement_sessions WHERE measurement_datetime BETWEEN ? AND ? ORDER BY measurement_datetime DESC",
		encodeTime(start), encodeTime(end))
}

// ListConditions returns a session's experimental conditions.
func (s *Store) ListConditions(sessionID int64) ([]models.Condition, error) {
	rows, err := s.db.Query(`
		SELECT condition_id, session_id, key, value, unit
		FROM experimental_conditions WHERE session_id = ? ORDER BY condition_id
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conditions []models.Condition
	for rows.Next() {
		var c models.Condition
		if err := rows.Scan(&c.ID, &c.SessionID, &c.Key, &c.Value, &c.Unit); err != nil {
			return nil, err
		}
		conditions = append(conditions, c)
	}
	return conditions, rows.Err()
}

// ConditionsMap returns a session's conditions as a sparse name → quantity
// mapping. When the same key recurs with different units, the last row wins.
func (s *Store) ConditionsMap(sessionID int64) (map[string]models.Quantity, error) {
	conditions, err := s.ListConditions(sessionID)
	if err != nil {
		return nil, err
	}
	m := make(map[string]models.Quantity, len(conditions))
	for _, c := range conditions {
		m[c.Key] = models.Quantity{Value: c.Value, Unit: c.Unit}
	}
	return m, nil
}

func scanData(scan func(...any) error) (models.Data, error) {
	var (
		d  models.Data
		ts string
	)
	err := scan(&d.ID, &d.SessionID, &d.DataType, &d.FilePath, &ts)
	if err != nil {
		return d, err
	}
	d.CreatedTime = decodeTime(ts)
	return d, nil
}

const dataCols = "data_id, session_id, data_type, file_path, created_time"

// GetData looks up one raw-data reference by surrogate key.
func (s *Store) GetData(dataID int64) (*models.Data, error) {
	d, err := scanData(s.db.QueryRow(
		"SELECT "+dataCols+" FROM measurement_data WHERE data_id = ?", dataID).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Store) listData(query string, args ...any) ([]models.Data, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var data []models.Data
	for rows.Next() {
		d, err := scanData(rows.Scan)
		if err != nil {
			return nil, err
		}
		data = append(data, d)
	}
	return data, rows.Err()
}

// ListData returns a session's data artifacts, optionally filtered by type
// (empty string means all).
func (s *Store) ListData(sessionID int64, dataType string) ([]models.Data, error) {
	if dataType != "" {
		return s.listData(
			"SELECT "+dataCols+" FROM measurement_data WHERE session_id = ? AND data_type = ? ORDER BY data_id",
			sessionID, dataType)
	}
	return s.listData(
		"SELECT "+dataCols+" FROM measurement_data WHERE session_id = ? ORDER BY data_id",
		sessionID)
}

// ListDataInfo returns the attributes of one data artifact.
func (s *Store) ListDataInfo(dataID int64) ([]models.DataInfo, error) {
	rows, err := s.db.Query(`
		SELECT info_id, data_id, key, value, unit
		FROM data_info WHERE data_id = ? ORDER BY info_id
	`, dataID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var info []models.DataInfo
	for rows.Next() {
		var di models.DataInfo
		if err := rows.Scan(&di.ID, &di.DataID, &di.Key, &di.Value, &di.Unit); err != nil {
			return nil, err
		}
		info = append(info, di)
	}
	return info, rows.Err()
}

// DataInfoMap returns a data artifact's attributes as a name → quantity map.
func (s *Store) DataInfoMap(dataID int64) (map[string]models.Quantity, error) {
	info, err := s.ListDataInfo(dataID)
	if err != nil {
		return nil, err
	}
	m := make(map[string]models.Quantity, len(info))
	for _, di := range info {
		m[di.Key] = models.Quantity{Value: di.Value, Unit: di.Unit}
	}
	return m, nil
}

func scanRun(scan func(...any) error) (models.AnalysisRun, error) {
	var (
		r  models.AnalysisRun
		ts string
	)
	err := scan(&r.ID, &r.SessionID, &r.AnalysisType, &r.AnalysisIndex, &ts)
	if err != nil {
		return r, err
	}
	r.CreatedTime = decodeTime(ts)
	return r, nil
}

const runCols = "analysis_id, session_id, analysis_type, analysis_index, created_time"

// GetAnalysisRun looks up one analysis execution by surrogate key.
func (s *Store) GetAnalysisRun(analysisID int64) (*models.AnalysisRun, error) {
	r, err := scanRun(s.db.QueryRow(
		"SELECT "+runCols+" FROM analysis_runs WHERE analysis_id = ?", analysisID).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) listRuns(query string, args ...any) ([]models.AnalysisRun, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.AnalysisRun
	for rows.Next() {
		r, err := scanRun(rows.Scan)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ListAnalysisRuns returns a session's analysis executions, optionally
// filtered by type (empty string means all).
func (s *Store) ListAnalysisRuns(sessionID int64, analysisType string) ([]models.AnalysisRun, error) {
	if analysisType != "" {
		return s.listRuns(
			"SELECT "+runCols+" FROM analysis_runs WHERE session_id = ? AND analysis_type = ? ORDER BY analysis_index",
			sessionID, analysisType)
	}
	return s.listRuns(
		"SELECT "+runCols+" FROM analysis_runs WHERE session_id = ? ORDER BY analysis_id",
		sessionID)
}

// ListAnalysisInputs returns the lineage edges of one run.
func (s *Store) ListAnalysisInputs(analysisID int64) ([]models.AnalysisInput, error) {
	rows, err := s.db.Query(`
		SELECT analysis_id, data_id FROM analysis_inputs
		WHERE analysis_id = ? ORDER BY data_id
	`, analysisID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var inputs []models.AnalysisInput
	for rows.Next() {
		var in models.AnalysisInput
		if err := rows.Scan(&in.AnalysisID, &in.DataID); err != nil {
			return nil, err
		}
		inputs = append(inputs, in)
	}
	return inputs, rows.Err()
}

// ListAnalysisInputData returns the full data rows consumed by one run.
func (s *Store) ListAnalysisInputData(analysisID int64) ([]models.Data, error) {
	return s.listData(`
		SELECT md.data_id, md.session_id, md.data_type, md.file_path, md.created_time
		FROM analysis_inputs ai
		JOIN measurement_data md ON ai.data_id = md.data_id
		WHERE ai.analysis_id = ?
		ORDER BY md.data_id
	`, analysisID)
}

// ListAnalysesByData returns the runs that consumed one data artifact
// (reverse lineage).
func (s *Store) ListAnalysesByData(dataID int64) ([]models.AnalysisRun, error) {
	return s.listRuns(`
		SELECT ar.analysis_id, ar.session_id, ar.analysis_type, ar.analysis_index, ar.created_time
		FROM analysis_inputs ai
		JOIN analysis_runs ar ON ai.analysis_id = ar.analysis_id
		WHERE ai.data_id = ?
		ORDER BY ar.analysis_id
	`, dataID)
}

// GetFeature looks up one detected observable by surrogate key.
func (s *Store) GetFeature(featureID int64) (*models.Feature, error) {
	var f models.Feature
	err := s.db.QueryRow(`
		SELECT feature_id, analysis_id, feature_type, feature_index
		FROM analysis_features WHERE feature_id = ?
	`, featureID).Scan(&f.ID, &f.AnalysisID, &f.FeatureType, &f.FeatureIndex)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListFeatures returns a run's features ordered by feature_index, optionally
// filtered by type (empty string means all).
func (s *Store) ListFeatures(analysisID int64, featureType string) ([]models.Feature, error) {
	query := `
		SELECT feature_id, analysis_id, feature_type, feature_index
		FROM analysis_features WHERE analysis_id = ?`
	args := []any{analysisID}
	if featureType != "" {
		query += " AND feature_type = ?"
		args = append(args, featureType)
	}
	query += " ORDER BY feature_index"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var features []models.Feature
	for rows.Next() {
		var f models.Feature
		if err := rows.Scan(&f.ID, &f.AnalysisID, &f.FeatureType, &f.FeatureIndex); err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	return features, rows.Err()
}

func (s *Store) listFeatureValues(query string, args ...any) ([]models.FeatureValue, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []models.FeatureValue
	for rows.Next() {
		var fv models.FeatureValue
		if err := rows.Scan(&fv.ID, &fv.FeatureID, &fv.Key, &fv.Value, &fv.Unit); err != nil {
			return nil, err
		}
		values = append(values, fv)
	}
	return values, rows.Err()
}

// ListFeatureValues returns the named measurements of one feature.
func (s *Store) ListFeatureValues(featureID int64) ([]models.FeatureValue, error) {
	return s.listFeatureValues(`
		SELECT value_id, feature_id, key, value, unit
		FROM feature_values WHERE feature_id = ? ORDER BY value_id
	`, featureID)
}

// FeatureValuesMap returns a feature's measurements as a name → quantity map.
func (s *Store) FeatureValuesMap(featureID int64) (map[string]models.Quantity, error) {
	values, err := s.ListFeatureValues(featureID)
	if err != nil {
		return nil, err
	}
	m := make(map[string]models.Quantity, len(values))
	for _, fv := range values {
		m[fv.Key] = models.Quantity{Value: fv.Value, Unit: fv.Unit}
	}
	return m, nil
}

// SearchFeaturesByValue returns feature values for the named key across all
// analysis runs, restricted to the closed interval [minValue, maxValue] and
// to one unit when those filters are non-nil.
func (s *Store) SearchFeaturesByValue(key string, minValue, maxValue *float64, unit *string) ([]models.FeatureValue, error) {
	query := "SELECT value_id, feature_id, key, value, unit FROM feature_values WHERE key = ?"
	args := []any{key}
	if unit != nil {
		query += " AND unit = ?"
		args = append(args, *unit)
	}
	if minValue != nil {
		query += " AND value >= ?"
		args = append(args, *minValue)
	}
	if maxValue != nil {
		query += " AND value <= ?"
		args = append(args, *maxValue)
	}
	query += " ORDER BY value"

	return s.listFeatureValues(query, args...)
}

// SessionFullInfo assembles one session with its DUT, conditions, data
// artifacts (with info), and analysis runs (with inputs, features, and
// values). Returns (nil, nil) when the session does not exist.
func (s *Store) SessionFullInfo(sessionID int64) (*models.SessionFullInfo, error) {
	sess, err := s.GetSession(sessionID)
	if err != nil || sess == nil {
		return nil, err
	}

	full := models.SessionFullInfo{Session: *sess}

	dut, err := s.GetDUT(sess.DUTID)
	if err != nil {
		return nil, err
	}
	if dut != nil {
		full.DUT = *dut
	}

	if full.Conditions, err = s.ConditionsMap(sessionID); err != nil {
		return nil, err
	}

	data, err := s.ListData(sessionID, "")
	if err != nil {
		return nil, err
	}
	for _, d := range data {
		info, err := s.DataInfoMap(d.ID)
		if err != nil {
			return nil, err
		}
		full.Data = append(full.Data, models.DataWithInfo{Data: d, Info: info})
	}

	runs, err := s.ListAnalysisRuns(sessionID, "")
	if err != nil {
		return nil, err
	}
	for _, run := range runs {
		runFull := models.AnalysisRunFull{Run: run}
		if runFull.Inputs, err = s.ListAnalysisInputData(run.ID); err != nil {
			return nil, err
		}
		features, err := s.ListFeatures(run.ID, "")
		if err != nil {
			return nil, err
		}
		for _, f := range features {
			values, err := s.FeatureValuesMap(f.ID)
			if err != nil {
				return nil, err
			}
			runFull.Features = append(runFull.Features, models.FeatureWithValues{Feature: f, Values: values})
		}
		full.Analyses = append(full.Analyses, runFull)
	}

	return &full, nil
}

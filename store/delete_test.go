// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"testing"
	"time"

	"github.com/danielhkuo/photondb/db"
	"github.com/danielhkuo/photondb/models"
)

// seedFullTree populates one row in every entity table under a single DUT.
func seedFullTree(t *testing.T, s *Store) (dutID, sessionID, dataID, analysisID, featureID int64) {
	t.Helper()

	dutID = seedDUT(t, s)
	sessionID = seedSession(t, s, dutID, "sweep-01", time.Now())
	if err := s.InsertConditions(sessionID, map[string]models.Quantity{
		"temperature": models.WithUnit(25.0, "C"),
	}); err != nil {
		t.Fatalf("Failed to insert conditions: %v", err)
	}
	dataID = seedData(t, s, sessionID, "/data/a.csv")
	if err := s.InsertDataInfo(dataID, map[string]models.Quantity{
		"power": models.WithUnit(-10.0, "dBm"),
	}); err != nil {
		t.Fatalf("Failed to insert data info: %v", err)
	}
	analysisID = seedRun(t, s, sessionID, 0)
	if err := s.InsertAnalysisInputs(analysisID, []int64{dataID}); err != nil {
		t.Fatalf("Failed to insert inputs: %v", err)
	}
	featureID = seedFeature(t, s, analysisID, 0)
	if err := s.InsertFeatureValues(featureID, map[string]models.Quantity{
		"wavelength": models.WithUnit(1550.2, "nm"),
	}); err != nil {
		t.Fatalf("Failed to insert feature values: %v", err)
	}
	return dutID, sessionID, dataID, analysisID, featureID
}

func TestDeleteDUTCascades(t *testing.T) {
	s := newTestStore(t)
	dutID, _, _, _, _ := seedFullTree(t, s)

	deleted, err := s.DeleteDUT(dutID)
	if err != nil {
		t.Fatalf("Failed to delete DUT: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 directly deleted row, got %d", deleted)
	}

	// Every descendant table drains with the root.
	for _, table := range db.Tables {
		if n := count(t, s, table); n != 0 {
			t.Errorf("Expected %s empty after cascade, got %d rows", table, n)
		}
	}
}

func TestDeleteSessionKeepsDUT(t *testing.T) {
	s := newTestStore(t)
	_, sessionID, _, _, _ := seedFullTree(t, s)

	if _, err := s.DeleteSession(sessionID); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}

	if n := count(t, s, "dut"); n != 1 {
		t.Errorf("Expected DUT to survive, got %d rows", n)
	}
	for _, table := range []string{
		"measurement_sessions", "experimental_conditions", "measurement_data",
		"data_info", "analysis_runs", "analysis_inputs", "analysis_features",
		"feature_values",
	} {
		if n := count(t, s, table); n != 0 {
			t.Errorf("Expected %s empty after session delete, got %d rows", table, n)
		}
	}
}

func TestDeleteDataRemovesLineageAndInfo(t *testing.T) {
	s := newTestStore(t)
	_, _, dataID, _, _ := seedFullTree(t, s)

	if _, err := s.DeleteData(dataID); err != nil {
		t.Fatalf("Failed to delete data: %v", err)
	}

	if n := count(t, s, "data_info"); n != 0 {
		t.Errorf("Expected data_info empty, got %d rows", n)
	}
	if n := count(t, s, "analysis_inputs"); n != 0 {
		t.Errorf("Expected analysis_inputs empty, got %d rows", n)
	}
	// The run itself survives; only its lineage edge is gone.
	if n := count(t, s, "analysis_runs"); n != 1 {
		t.Errorf("Expected analysis run to survive, got %d rows", n)
	}
}

func TestDeleteFeatureCascadesValues(t *testing.T) {
	s := newTestStore(t)
	_, _, _, _, featureID := seedFullTree(t, s)

	deleted, err := s.DeleteFeature(featureID)
	if err != nil {
		t.Fatalf("Failed to delete feature: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 deleted feature, got %d", deleted)
	}
	if n := count(t, s, "feature_values"); n != 0 {
		t.Errorf("Expected feature_values empty, got %d rows", n)
	}
}

func TestDeleteMissingRowAffectsNothing(t *testing.T) {
	s := newTestStore(t)

	deleted, err := s.DeleteDUT(9999)
	if err != nil {
		t.Fatalf("Failed to delete missing DUT: %v", err)
	}
	if deleted != 0 {
		t.Errorf("Expected 0 deleted rows, got %d", deleted)
	}
}

func TestDeleteSessionsByDUT(t *testing.T) {
	s := newTestStore(t)
	dutID := seedDUT(t, s)
	seedSession(t, s, dutID, "sweep-01", time.Now())
	seedSession(t, s, dutID, "sweep-02", time.Now())

	deleted, err := s.DeleteSessionsByDUT(dutID)
	if err != nil {
		t.Fatalf("Failed to delete sessions: %v", err)
	}
	if deleted != 2 {
		t.Errorf("Expected 2 deleted sessions, got %d", deleted)
	}
	if n := count(t, s, "dut"); n != 1 {
		t.Errorf("Expected DUT to survive, got %d rows", n)
	}
}

func TestDeleteSessionsBefore(t *testing.T) {
	s := newTestStore(t)
	dutID := seedDUT(t, s)

	cutoff := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	seedSession(t, s, dutID, "old", cutoff.Add(-time.Hour))
	atCutoff := seedSession(t, s, dutID, "at-cutoff", cutoff)
	kept := seedSession(t, s, dutID, "new", cutoff.Add(time.Hour))

	// Strictly before: the cutoff instant itself survives.
	deleted, err := s.DeleteSessionsBefore(cutoff)
	if err != nil {
		t.Fatalf("Failed to delete sessions before cutoff: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 deleted session, got %d", deleted)
	}

	for _, id := range []int64{atCutoff, kept} {
		sess, err := s.GetSession(id)
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}
		if sess == nil {
			t.Errorf("Expected session %d to survive", id)
		}
	}
}

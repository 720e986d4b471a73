// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package analysis

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/danielhkuo/photondb/models"
	"github.com/danielhkuo/photondb/testutil"
)

func detectedFeatures() []Feature {
	return []Feature{
		{Type: models.FeaturePeak, Values: map[string]models.Quantity{
			"wavelength": models.WithUnit(1550.2, "nm"),
			"intensity":  models.WithUnit(-3.1, "dB"),
		}},
		{Type: models.FeatureValley, Values: map[string]models.Quantity{
			"wavelength": models.WithUnit(1552.8, "nm"),
		}},
		{Type: models.FeaturePeak, Values: map[string]models.Quantity{
			"wavelength": models.WithUnit(1555.6, "nm"),
		}},
	}
}

func TestRecord(t *testing.T) {
	st := testutil.SetupTestStore(t)
	dutID := testutil.CreateTestDUT(t, st, "W001", 1)
	sessionID := testutil.CreateTestSession(t, st, dutID, "sweep-01", time.Now())
	dataID := testutil.CreateTestData(t, st, sessionID, "/data/a.csv")

	rec := NewRecorder(st)
	analysisID, err := rec.Record(sessionID, models.AnalysisPeakDetection, 0, []int64{dataID}, detectedFeatures())
	if err != nil {
		t.Fatalf("Failed to record analysis: %v", err)
	}

	run, err := st.GetAnalysisRun(analysisID)
	if err != nil {
		t.Fatalf("Failed to get run: %v", err)
	}
	if run == nil || run.SessionID != sessionID {
		t.Fatalf("Expected run under session %d, got %v", sessionID, run)
	}

	inputs, err := st.ListAnalysisInputs(analysisID)
	if err != nil {
		t.Fatalf("Failed to list inputs: %v", err)
	}
	if len(inputs) != 1 || inputs[0].DataID != dataID {
		t.Errorf("Expected lineage to data %d, got %v", dataID, inputs)
	}

	// Indexing is ordinal per feature type: two peaks, one valley.
	peaks, err := st.ListFeatures(analysisID, models.FeaturePeak)
	if err != nil {
		t.Fatalf("Failed to list peaks: %v", err)
	}
	if len(peaks) != 2 || peaks[0].FeatureIndex != 0 || peaks[1].FeatureIndex != 1 {
		t.Errorf("Expected peak indexes [0 1], got %v", peaks)
	}
	valleys, err := st.ListFeatures(analysisID, models.FeatureValley)
	if err != nil {
		t.Fatalf("Failed to list valleys: %v", err)
	}
	if len(valleys) != 1 || valleys[0].FeatureIndex != 0 {
		t.Errorf("Expected valley index [0], got %v", valleys)
	}

	values, err := st.FeatureValuesMap(peaks[0].ID)
	if err != nil {
		t.Fatalf("Failed to read feature values: %v", err)
	}
	want := map[string]models.Quantity{
		"wavelength": models.WithUnit(1550.2, "nm"),
		"intensity":  models.WithUnit(-3.1, "dB"),
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Errorf("Feature values mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordIdempotent(t *testing.T) {
	st := testutil.SetupTestStore(t)
	dutID := testutil.CreateTestDUT(t, st, "W001", 1)
	sessionID := testutil.CreateTestSession(t, st, dutID, "sweep-01", time.Now())
	dataID := testutil.CreateTestData(t, st, sessionID, "/data/a.csv")

	rec := NewRecorder(st)
	first, err := rec.Record(sessionID, models.AnalysisPeakDetection, 0, []int64{dataID}, detectedFeatures())
	if err != nil {
		t.Fatalf("Failed first recording: %v", err)
	}
	second, err := rec.Record(sessionID, models.AnalysisPeakDetection, 0, []int64{dataID}, detectedFeatures())
	if err != nil {
		t.Fatalf("Failed second recording: %v", err)
	}
	if second != first {
		t.Errorf("Expected same run ID %d, got %d", first, second)
	}

	for table, want := range map[string]int64{
		"analysis_runs":     1,
		"analysis_inputs":   1,
		"analysis_features": 3,
		"feature_values":    4,
	} {
		if n := testutil.Count(t, st, table); n != want {
			t.Errorf("Expected %d %s rows after re-recording, got %d", want, table, n)
		}
	}
}

func TestRecordSeparatePasses(t *testing.T) {
	st := testutil.SetupTestStore(t)
	dutID := testutil.CreateTestDUT(t, st, "W001", 1)
	sessionID := testutil.CreateTestSession(t, st, dutID, "sweep-01", time.Now())

	rec := NewRecorder(st)
	first, err := rec.Record(sessionID, models.AnalysisPeakDetection, 0, nil, nil)
	if err != nil {
		t.Fatalf("Failed first pass: %v", err)
	}
	second, err := rec.Record(sessionID, models.AnalysisPeakDetection, 1, nil, nil)
	if err != nil {
		t.Fatalf("Failed second pass: %v", err)
	}
	if first == second {
		t.Error("Expected distinct run IDs for distinct indexes")
	}
	if n := testutil.Count(t, st, "analysis_runs"); n != 2 {
		t.Errorf("Expected 2 runs, got %d", n)
	}
}

func TestRecordMissingSession(t *testing.T) {
	st := testutil.SetupTestStore(t)

	rec := NewRecorder(st)
	if _, err := rec.Record(9999, models.AnalysisPeakDetection, 0, nil, nil); err == nil {
		t.Error("Expected error recording against a missing session")
	}
}

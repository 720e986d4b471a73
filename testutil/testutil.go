// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"testing"
	"time"

	"github.com/danielhkuo/photondb/db"
	"github.com/danielhkuo/photondb/models"
	"github.com/danielhkuo/photondb/store"
)

// SetupTestStore creates a fresh store on a temp-dir SQLite file with the
// full schema. The handle is closed automatically at test cleanup.
func SetupTestStore(t *testing.T) *store.Store {
	t.Helper()

	conn, err := db.Open(t.TempDir() + "/test.db")
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return store.New(conn)
}

// CreateTestDUT inserts a DUT with distinguishable coordinates and returns
// its ID.
func CreateTestDUT(t *testing.T, st *store.Store, wafer string, die int) int64 {
	t.Helper()

	dutID, err := st.InsertDUT(wafer, "DOE1", die, "C1", "D4")
	if err != nil {
		t.Fatalf("Failed to create test DUT: %v", err)
	}
	return dutID
}

// CreateTestSession inserts a session under dutID and returns its ID.
func CreateTestSession(t *testing.T, st *store.Store, dutID int64, name string, ts time.Time) int64 {
	t.Helper()

	sessionID, err := st.InsertSession(models.Session{
		DUTID:         dutID,
		Name:          name,
		Timestamp:     ts,
		Operator:      "tester",
		SystemVersion: "v1.0",
	})
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}
	return sessionID
}

// CreateTestData inserts a data artifact under sessionID and returns its ID.
func CreateTestData(t *testing.T, st *store.Store, sessionID int64, filePath string) int64 {
	t.Helper()

	dataID, err := st.InsertData(models.Data{
		SessionID: sessionID,
		DataType:  "spectrum",
		FilePath:  filePath,
	})
	if err != nil {
		t.Fatalf("Failed to create test data: %v", err)
	}
	return dataID
}

// CreateTestRun inserts an analysis run under sessionID and returns its ID.
func CreateTestRun(t *testing.T, st *store.Store, sessionID int64, index int) int64 {
	t.Helper()

	analysisID, err := st.InsertAnalysisRun(models.AnalysisRun{
		SessionID:     sessionID,
		AnalysisType:  models.AnalysisPeakDetection,
		AnalysisIndex: index,
	})
	if err != nil {
		t.Fatalf("Failed to create test analysis run: %v", err)
	}
	return analysisID
}

// CreateTestFeature inserts a feature under analysisID and returns its ID.
func CreateTestFeature(t *testing.T, st *store.Store, analysisID int64, index int) int64 {
	t.Helper()

	featureID, err := st.InsertFeature(models.Feature{
		AnalysisID:   analysisID,
		FeatureType:  models.FeaturePeak,
		FeatureIndex: index,
	})
	if err != nil {
		t.Fatalf("Failed to create test feature: %v", err)
	}
	return featureID
}

// Count returns the row count of one entity table, failing the test on
// error.
func Count(t *testing.T, st *store.Store, table string) int64 {
	t.Helper()

	count, err := st.CountRows(table)
	if err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return count
}

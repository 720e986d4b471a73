// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ingest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/photondb/store"
	"github.com/danielhkuo/photondb/testutil"
)

// timeRangeAll spans every plausible session timestamp.
func timeRangeAll() (time.Time, time.Time) {
	return time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)
}

// writeMeasurementFolder lays out a session folder with two importable files,
// one spectrum with unreadable content, and one file with a foreign name.
func writeMeasurementFolder(t *testing.T) string {
	t.Helper()

	folder := filepath.Join(t.TempDir(), "sweep-2025-03-01")
	if err := os.Mkdir(folder, 0o755); err != nil {
		t.Fatalf("Failed to create folder: %v", err)
	}

	files := map[string]string{
		"SPCM_W001_die1_C1_D4_25C_ch_1_2_-10dBm_pn_900mV_heat_0_mV.csv": spectrumFixture,
		"DCIV_W001_die1_C1_D4_25C_ch_1_2_-10dBm_pn_900mV_heat_0_mV.txt": "0.0,0.1\n",
		"SPCM_W001_die2_C1_D4_25C_ch_1_2_-10dBm_pn_900mV_heat_0_mV.csv": "garbage,content\n",
		"notes.csv": "free-form notes\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(folder, name), []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return folder
}

func importCounts(t *testing.T, st *store.Store) map[string]int64 {
	t.Helper()

	stats, err := st.Stats()
	if err != nil {
		t.Fatalf("Failed to collect stats: %v", err)
	}
	return stats
}

func TestScanFolder(t *testing.T) {
	folder := writeMeasurementFolder(t)

	valid, skipped, err := ScanFolder(folder)
	if err != nil {
		t.Fatalf("Failed to scan folder: %v", err)
	}
	if len(valid) != 3 {
		t.Errorf("Expected 3 parseable files, got %d", len(valid))
	}
	if len(skipped) != 1 || skipped[0] != "notes.csv" {
		t.Errorf("Expected skipped [notes.csv], got %v", skipped)
	}
}

func TestScanFolderMissing(t *testing.T) {
	_, _, err := ScanFolder(filepath.Join(t.TempDir(), "absent"))
	if err == nil {
		t.Error("Expected error for missing folder")
	}
}

func TestImportFolder(t *testing.T) {
	st := testutil.SetupTestStore(t)
	folder := writeMeasurementFolder(t)

	imp := New(st, Options{DOE: "DOE1", Operator: "T&P", SystemVersion: "CM300v1.0"})
	result, err := imp.ImportFolder(folder)
	if err != nil {
		t.Fatalf("Failed to import folder: %v", err)
	}

	if result.Imported != 2 {
		t.Errorf("Expected 2 imported files, got %d", result.Imported)
	}
	// The foreign name and the unreadable spectrum are both reported.
	if len(result.Skipped) != 2 {
		t.Errorf("Expected 2 skipped files, got %v", result.Skipped)
	}

	// Both imported files share one DUT and one session named after the
	// folder.
	if n := testutil.Count(t, st, "dut"); n != 1 {
		t.Errorf("Expected 1 DUT, got %d", n)
	}
	if n := testutil.Count(t, st, "measurement_sessions"); n != 1 {
		t.Errorf("Expected 1 session, got %d", n)
	}
	if n := testutil.Count(t, st, "measurement_data"); n != 2 {
		t.Errorf("Expected 2 data rows, got %d", n)
	}
	// temperature, drive_voltage, heater_voltage once per session.
	if n := testutil.Count(t, st, "experimental_conditions"); n != 3 {
		t.Errorf("Expected 3 condition rows, got %d", n)
	}
	// channel/power triple per file, plus 4 sweep header attributes for the
	// spectrum.
	if n := testutil.Count(t, st, "data_info"); n != 10 {
		t.Errorf("Expected 10 data info rows, got %d", n)
	}

	sessions, err := st.ListSessionsByDateRange(timeRangeAll())
	if err != nil {
		t.Fatalf("Failed to list sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Name != "sweep-2025-03-01" {
		t.Fatalf("Expected session named after the folder, got %v", sessions)
	}
	sessionID := sessions[0].ID

	conditions, err := st.ConditionsMap(sessionID)
	if err != nil {
		t.Fatalf("Failed to read conditions: %v", err)
	}
	if q := conditions["temperature"]; q.Value != 25 || q.Unit != "C" {
		t.Errorf("Expected temperature (25, C), got (%v, %q)", q.Value, q.Unit)
	}

	spectra, err := st.ListData(sessionID, SpectrumDataType)
	if err != nil {
		t.Fatalf("Failed to list spectra: %v", err)
	}
	if len(spectra) != 1 {
		t.Fatalf("Expected 1 spectrum artifact, got %d", len(spectra))
	}
	info, err := st.DataInfoMap(spectra[0].ID)
	if err != nil {
		t.Fatalf("Failed to read data info: %v", err)
	}
	if q := info["power"]; q.Value != -10 || q.Unit != "dBm" {
		t.Errorf("Expected power (-10, dBm), got (%v, %q)", q.Value, q.Unit)
	}
	if q := info["WavelengthStart"]; q.Value != 1.52e-06 || q.Unit != "m" {
		t.Errorf("Expected WavelengthStart (1.52e-06, m), got (%v, %q)", q.Value, q.Unit)
	}
}

func TestImportFolderIdempotent(t *testing.T) {
	st := testutil.SetupTestStore(t)
	folder := writeMeasurementFolder(t)
	imp := New(st, Options{DOE: "DOE1"})

	if _, err := imp.ImportFolder(folder); err != nil {
		t.Fatalf("Failed first import: %v", err)
	}
	before := importCounts(t, st)

	result, err := imp.ImportFolder(folder)
	if err != nil {
		t.Fatalf("Failed second import: %v", err)
	}
	if result.Imported != 2 {
		t.Errorf("Expected 2 re-imported files, got %d", result.Imported)
	}

	after := importCounts(t, st)
	for table, n := range before {
		if after[table] != n {
			t.Errorf("Expected %s count to stay %d after re-import, got %d", table, n, after[table])
		}
	}
}

func TestImportFolderMissing(t *testing.T) {
	st := testutil.SetupTestStore(t)
	imp := New(st, Options{})

	if _, err := imp.ImportFolder(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("Expected error for missing folder")
	}
}

func TestImportFolderRelocatesFiles(t *testing.T) {
	st := testutil.SetupTestStore(t)

	folder := filepath.Join(t.TempDir(), "sweep-move")
	if err := os.Mkdir(folder, 0o755); err != nil {
		t.Fatalf("Failed to create folder: %v", err)
	}
	name := "DCIV_W001_die1_C1_D4_25C_ch_1_2_0dBm_pn_0mV_heat_0_mV.txt"
	src := filepath.Join(folder, name)
	if err := os.WriteFile(src, []byte("0.0,0.1\n"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	targetRoot := filepath.Join(t.TempDir(), "archive")
	imp := New(st, Options{DOE: "DOE1", TargetRoot: targetRoot})
	if _, err := imp.ImportFolder(folder); err != nil {
		t.Fatalf("Failed to import folder: %v", err)
	}

	dst := filepath.Join(targetRoot, "W001", "DOE1", "die1", "C1", "D4", "sweep-move", name)
	if _, err := os.Stat(dst); err != nil {
		t.Errorf("Expected file at %s: %v", dst, err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Errorf("Expected source file to be gone, stat returned %v", err)
	}

	// The stored path points at the destination.
	sessions, err := st.ListSessionsByDateRange(timeRangeAll())
	if err != nil {
		t.Fatalf("Failed to list sessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("Expected 1 session, got %d", len(sessions))
	}
	data, err := st.ListData(sessions[0].ID, "")
	if err != nil {
		t.Fatalf("Failed to list data: %v", err)
	}
	if len(data) != 1 || data[0].FilePath != dst {
		t.Errorf("Expected stored path %s, got %v", dst, data)
	}
}

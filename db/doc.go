// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles store lifecycle and schema creation.

# Opening a Store

Open creates the SQLite file if absent and returns a handle with
foreign-key enforcement enabled and verified:

	conn, err := db.Open("measurements.db")
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

CreateSchema is safe to call multiple times - uses IF NOT EXISTS for all
tables and indexes. Reset deletes the backing file and recreates the schema.
AddColumn covers the one supported schema evolution: adding a column with a
type and default, no-op when the column already exists.

# Tables

The schema includes:

  - dut: Devices under test (wafer/DOE/die/cage/device coordinates)
  - measurement_sessions: One measurement event per DUT
  - experimental_conditions: Key/value/unit parameters per session
  - measurement_data: Raw-data file references per session
  - data_info: Key/value/unit attributes per data artifact
  - analysis_runs: Analysis executions per session
  - analysis_inputs: Lineage edges between runs and data artifacts
  - analysis_features: Detected peaks/valleys per run
  - feature_values: Key/value/unit measurements per feature

# Relationships

	dut 1──* measurement_sessions
	measurement_sessions 1──* experimental_conditions
	measurement_sessions 1──* measurement_data
	measurement_data 1──* data_info
	measurement_sessions 1──* analysis_runs
	analysis_runs *──* measurement_data (via analysis_inputs)
	analysis_runs 1──* analysis_features
	analysis_features 1──* feature_values

All foreign keys use ON DELETE CASCADE. Every table carries one UNIQUE
constraint that doubles as its upsert key, so repeated inserts of the same
logical row resolve to the existing surrogate key.
*/
package db

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain types for the measurement store.

# Entity Types

One struct per stored entity, fields in column declaration order:

  - DUT: device under test (wafer/DOE/die/cage/device)
  - Session: one measurement event on a DUT
  - Condition: one named ambient/setup parameter of a session
  - Data: one raw-data file reference of a session
  - DataInfo: one named attribute of a data artifact
  - AnalysisRun: one analysis execution over a session's data
  - AnalysisInput: lineage edge between a run and a data artifact
  - Feature: one detected peak/valley within a run
  - FeatureValue: one named numeric measurement of a feature

# Quantities

Quantity normalizes the "bare number or (value, unit) pair" shape used by
batch key/value inserts:

	store.InsertConditions(sessionID, map[string]models.Quantity{
		"temperature": models.WithUnit(25.0, "C"),
		"voltage":     models.Bare(3.3),
	})

# Aggregates

SessionFullInfo nests a session with its DUT, conditions, data artifacts
(with info), and analysis runs (with inputs, features, and values). It is
produced by store.SessionFullInfo.
*/
package models

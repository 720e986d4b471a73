// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the photondb command-line tool.

photondb manages a local SQLite store of optical-measurement metadata:
devices under test, measurement sessions, experimental conditions, raw-data
file references, and spectral-analysis results with lineage tracking.

# Usage

	photondb [flags] import <folder>     ingest a folder of measurement files
	photondb [flags] export <file.xlsx>  export every table to a workbook
	photondb [flags] stats               print row counts per table
	photondb [flags] reset               destroy and recreate the store

The store path comes from -d, the PHOTONDB_PATH environment variable (a
.env file is honored), or the default photondb.db.

# Architecture

  - db: store lifecycle, schema creation, schema evolution
  - models: entity and quantity types
  - store: the data access layer (upserting inserts, queries, cascade
    deletes, stats)
  - ingest: filename parsing and idempotent folder import
  - analysis: lineage-tracked persistence of detector output
  - export: xlsx workbook rendering
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main

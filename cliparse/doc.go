// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

The store path comes from -d, the PHOTONDB_PATH environment variable, or
the default photondb.db, in that order.

# Commands

	photondb [flags] import <folder>
	photondb [flags] export <file.xlsx>
	photondb [flags] stats
	photondb [flags] reset

Import flags: -doe, -operator, -system, -notes, -move.
*/
package cliparse

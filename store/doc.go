// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the data access layer over the measurement database.

# Inserts

Every insert is insert-or-get-existing: the entity's uniqueness constraint
is the conflict key and the resolved surrogate key is returned either way,
so re-running an identical insert is a no-op that still yields the key:

	dutID, err := st.InsertDUT("W001", "DOE1", 1, "C1", "D4")

Batch inserts for the key/value entities (conditions, data info, feature
values) take a name → Quantity map and write one row per entry in one
transaction.

# Queries

Point lookups (GetDUT, GetSession, GetData, GetAnalysisRun, GetFeature)
return (nil, nil) when no row matches. Scoped listings filter by parent key
with optional type filters; range queries cover session date ranges and
feature-value intervals. SessionFullInfo assembles one session with every
descendant into a nested aggregate. Query is the raw-SQL escape hatch.

# Deletes

Deletes are cascade-rooted: removing a DUT, session, run, or feature removes
all descendant rows via the schema's ON DELETE CASCADE rules. Batch deletes
cover all-sessions-of-a-DUT and all-sessions-before-a-cutoff.

# Errors

  - ErrValidation: a required field was missing (pre-validated or NOT NULL)
  - ErrReferentialIntegrity: a write referenced a nonexistent parent key
  - not-found is an absent result, never an error

Both sentinels match with errors.Is after wrapping.
*/
package store

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package export renders the store as an xlsx workbook.

Workbook writes one sheet per entity, named after the entity, with a header
row matching the entity's column declaration order and one row per stored
record:

	if err := export.Workbook(st, "database_export.xlsx"); err != nil {
		log.Fatal(err)
	}
*/
package export

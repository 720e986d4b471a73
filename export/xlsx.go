// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/danielhkuo/photondb/db"
	"github.com/danielhkuo/photondb/store"
)

// Workbook renders the whole store into one xlsx workbook: one sheet per
// entity, named after the entity, a header row in column declaration order,
// one row per stored record.
func Workbook(st *store.Store, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	for _, table := range db.Tables {
		if err := writeSheet(f, st, table); err != nil {
			return err
		}
	}

	// The workbook starts with a default sheet we never write to.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write workbook %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, st *store.Store, table string) error {
	if _, err := f.NewSheet(table); err != nil {
		return err
	}

	// SELECT * yields columns in declaration order, so sheets track the
	// schema (including evolved columns) without a parallel column list.
	rows, err := st.DB().Query("SELECT * FROM " + table)
	if err != nil {
		return fmt.Errorf("read %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return err
	}

	header := make([]any, len(cols))
	for i, col := range cols {
		header[i] = col
	}
	if err := f.SetSheetRow(table, "A1", &header); err != nil {
		return err
	}

	rowNum := 2
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return err
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(table, cell, &vals); err != nil {
			return err
		}
		rowNum++
	}
	return rows.Err()
}

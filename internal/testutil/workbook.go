// Package testutil builds fixtures shared by package tests.
package testutil

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

// Sheet is a named worksheet and its rows, written from A1.
type Sheet struct {
	Name string
	Rows [][]interface{}
}

// Workbook returns the bytes of an .xlsx file holding the given sheets in
// order. A nil cell leaves the cell blank.
func Workbook(t testing.TB, sheets ...Sheet) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.Name); err != nil {
				t.Fatalf("renaming sheet: %v", err)
			}
		} else if _, err := f.NewSheet(sh.Name); err != nil {
			t.Fatalf("adding sheet: %v", err)
		}

		for r, row := range sh.Rows {
			for c, v := range row {
				if v == nil {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					t.Fatalf("cell name: %v", err)
				}
				if err := f.SetCellValue(sh.Name, cell, v); err != nil {
					t.Fatalf("setting %s: %v", cell, err)
				}
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("writing workbook: %v", err)
	}
	return buf.Bytes()
}

// Rows is shorthand for a single sheet named Sheet1.
func Rows(t testing.TB, rows ...[]interface{}) []byte {
	t.Helper()
	return Workbook(t, Sheet{Name: "Sheet1", Rows: rows})
}

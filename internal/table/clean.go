package table

// DropStats reports what DropMissing removed.
type DropStats struct {
	RowsBefore     int      `json:"rows_before"`
	RowsAfter      int      `json:"rows_after"`
	ColumnsBefore  int      `json:"columns_before"`
	ColumnsAfter   int      `json:"columns_after"`
	DroppedColumns []string `json:"dropped_columns,omitempty"`
}

// DropMissing removes every row holding a missing cell, then every column
// holding a missing cell among the rows that are left. Column kinds are
// re-inferred afterwards. Running it twice is a no-op the second time.
func (t *Table) DropMissing() DropStats {
	stats := DropStats{
		RowsBefore:    len(t.Rows),
		ColumnsBefore: len(t.Columns),
	}

	t.dropMissingRows()
	stats.DroppedColumns = t.dropMissingColumns()
	t.inferKinds()

	stats.RowsAfter = len(t.Rows)
	stats.ColumnsAfter = len(t.Columns)
	return stats
}

func (t *Table) dropMissingRows() {
	kept := t.Rows[:0]
	for _, row := range t.Rows {
		if !rowHasMissing(row) {
			kept = append(kept, row)
		}
	}
	t.Rows = kept
}

func rowHasMissing(row Row) bool {
	for _, c := range row {
		if c.Missing {
			return true
		}
	}
	return false
}

func (t *Table) dropMissingColumns() []string {
	keep := make([]int, 0, len(t.Columns))
	var dropped []string
	for j, col := range t.Columns {
		if t.columnHasMissing(j) {
			dropped = append(dropped, col.Name)
			continue
		}
		keep = append(keep, j)
	}
	if len(dropped) == 0 {
		return nil
	}

	cols := make([]Column, len(keep))
	for i, j := range keep {
		cols[i] = t.Columns[j]
	}
	for r, row := range t.Rows {
		next := make(Row, len(keep))
		for i, j := range keep {
			next[i] = row[j]
		}
		t.Rows[r] = next
	}
	t.Columns = cols
	return dropped
}

func (t *Table) columnHasMissing(j int) bool {
	for _, row := range t.Rows {
		if row[j].Missing {
			return true
		}
	}
	return false
}

// HasMissing reports whether any cell is missing.
func (t *Table) HasMissing() bool {
	for _, row := range t.Rows {
		if rowHasMissing(row) {
			return true
		}
	}
	return false
}

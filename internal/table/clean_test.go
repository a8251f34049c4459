package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDropMissing(t *testing.T) {
	tests := []struct {
		name        string
		records     [][]string
		wantColumns []string
		wantRows    [][]string
		wantDropped []string
	}{
		{
			name: "rows with any missing value dropped",
			records: [][]string{
				{"Unnamed: 0", "Toronto", "Ward1"},
				{"Ward Total", "100", "200"},
				{"Ward Avg", "NA", "5"},
			},
			wantColumns: []string{"Unnamed: 0", "Toronto", "Ward1"},
			wantRows:    [][]string{{"Ward Total", "100", "200"}},
		},
		{
			name: "column missing only in dropped rows survives",
			records: [][]string{
				{"a", "b", "c"},
				{"1", "", "x"},
				{"2", "3", "y"},
			},
			wantColumns: []string{"a", "b", "c"},
			wantRows:    [][]string{{"2", "3", "y"}},
		},
		{
			name: "everything dropped keeps header",
			records: [][]string{
				{"a", "b"},
				{"1", ""},
				{"", "2"},
			},
			wantColumns: []string{"a", "b"},
			wantRows:    [][]string{},
		},
		{
			name: "all-empty column removes every row",
			records: [][]string{
				{"a", "b", "c"},
				{"1", "2", ""},
				{"3", "4", ""},
			},
			wantColumns: []string{"a", "b", "c"},
			wantRows:    [][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := FromRecords(tt.records)
			stats := tbl.DropMissing()

			assert.Equal(t, tt.wantColumns, tbl.ColumnNames())
			assert.Equal(t, tt.wantDropped, stats.DroppedColumns)
			assert.Equal(t, len(tt.wantRows), stats.RowsAfter)
			assert.Equal(t, len(tt.records)-1, stats.RowsBefore)
			assert.False(t, tbl.HasMissing())

			got := tbl.Records()[1:]
			assert.Equal(t, len(tt.wantRows), len(got))
			for i := range tt.wantRows {
				assert.Equal(t, tt.wantRows[i], got[i])
			}
		})
	}
}

func TestDropMissing_ColumnPass(t *testing.T) {
	// rows are normally filtered first, so exercise the column pass directly
	tbl := FromRecords([][]string{{"a", "b", "c"}, {"1", "", "3"}})

	dropped := tbl.dropMissingColumns()

	assert.Equal(t, []string{"b"}, dropped)
	assert.Equal(t, []string{"a", "c"}, tbl.ColumnNames())
	require.Len(t, tbl.Rows[0], 2)
	assert.Equal(t, "3", tbl.Rows[0][1].Raw)
}

func TestDropMissing_Idempotent(t *testing.T) {
	tbl := FromRecords([][]string{
		{"", "x", "y", "z"},
		{"r1", "1", "2.5", "a"},
		{"r2", "NA", "3", "b"},
		{"r3", "4", "", "c"},
		{"r4", "5", "6", "d"},
	})

	tbl.DropMissing()
	first := tbl.Records()

	stats := tbl.DropMissing()

	assert.Equal(t, first, tbl.Records())
	assert.Equal(t, stats.RowsBefore, stats.RowsAfter)
	assert.Equal(t, stats.ColumnsBefore, stats.ColumnsAfter)
	assert.Empty(t, stats.DroppedColumns)
}

func TestDropMissing_ReinfersKinds(t *testing.T) {
	tbl := FromRecords([][]string{
		{"label", "value"},
		{"a", "1"},
		{"b", "text"},
		{"c", "NA"},
	})
	require.Equal(t, KindString, tbl.Columns[1].Kind)

	tbl.Rows = tbl.Rows[:1]
	tbl.DropMissing()

	assert.Equal(t, KindInteger, tbl.Columns[1].Kind)
	assert.Equal(t, 1.0, tbl.Rows[0][1].Num)
}

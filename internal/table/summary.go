package table

import (
	"github.com/montanaflynn/stats"
)

// ColumnSummary describes the values of one numeric column.
type ColumnSummary struct {
	Name   string  `json:"name"`
	Kind   Kind    `json:"kind"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// Summarize computes min/max/mean/median for every numeric column that has
// at least one value.
func (t *Table) Summarize() []ColumnSummary {
	var out []ColumnSummary
	for j, col := range t.Columns {
		if !col.Kind.IsNumeric() {
			continue
		}

		data := make(stats.Float64Data, 0, len(t.Rows))
		for _, row := range t.Rows {
			if !row[j].Missing {
				data = append(data, row[j].Num)
			}
		}
		if len(data) == 0 {
			continue
		}

		s := ColumnSummary{Name: col.Name, Kind: col.Kind, Count: len(data)}
		// errors only occur for empty input, which is excluded above
		s.Min, _ = stats.Min(data)
		s.Max, _ = stats.Max(data)
		s.Mean, _ = stats.Mean(data)
		s.Median, _ = stats.Median(data)
		out = append(out, s)
	}
	return out
}

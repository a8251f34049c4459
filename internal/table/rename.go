package table

import "fmt"

const (
	// TorontoLabel names the city-wide column at position 1.
	TorontoLabel = "Toronto"
	// WardPrefix prefixes the ward columns; position p is named WardPrefix+(p-1).
	WardPrefix = "Ward"

	FirstWardPosition = 2
	LastWardPosition  = 26
)

// WardColumnNames returns the positional rename used for ward profile sheets:
// 1 → Toronto, 2 → Ward1, ..., 26 → Ward25.
func WardColumnNames() map[int]string {
	names := map[int]string{1: TorontoLabel}
	for pos := FirstWardPosition; pos <= LastWardPosition; pos++ {
		names[pos] = fmt.Sprintf("%s%d", WardPrefix, pos-1)
	}
	return names
}

// Rename sets column names by position, whatever the current header text.
// Positions outside the table are ignored. It returns how many columns were
// renamed.
func (t *Table) Rename(names map[int]string) int {
	renamed := 0
	for pos, name := range names {
		if pos < 0 || pos >= len(t.Columns) {
			continue
		}
		t.Columns[pos].Name = name
		renamed++
	}
	return renamed
}

// RenameWardColumns applies WardColumnNames.
func (t *Table) RenameWardColumns() int {
	return t.Rename(WardColumnNames())
}

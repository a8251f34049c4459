package table

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Kind is the inferred type of a column.
type Kind string

const (
	KindEmpty   Kind = "empty"
	KindInteger Kind = "integer"
	KindFloat   Kind = "float"
	KindString  Kind = "string"
	// KindDate holds dates at midnight; KindDatetime any other timestamps.
	KindDate     Kind = "date"
	KindDatetime Kind = "datetime"
)

// ValueType is what the source says a cell holds. Cells read from CSV are
// TypeUnknown and numbers are recognised by their shape.
type ValueType int

const (
	TypeUnknown ValueType = iota
	TypeText
	TypeNumber
	TypeBool
	TypeDate
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// IsNumeric reports whether cells of this kind carry a number.
func (k Kind) IsNumeric() bool {
	return k == KindInteger || k == KindFloat
}

// naValues are the cell texts treated as missing, in addition to "".
var naValues = map[string]bool{
	"#N/A":     true,
	"#N/A N/A": true,
	"#NA":      true,
	"-1.#IND":  true,
	"-1.#QNAN": true,
	"-NaN":     true,
	"-nan":     true,
	"1.#IND":   true,
	"1.#QNAN":  true,
	"<NA>":     true,
	"N/A":      true,
	"NA":       true,
	"NULL":     true,
	"NaN":      true,
	"None":     true,
	"n/a":      true,
	"nan":      true,
	"null":     true,
}

// IsMissing reports whether raw cell text counts as a missing value.
func IsMissing(raw string) bool {
	return raw == "" || naValues[raw]
}

// Cell is a single value. Num is only meaningful when the owning column is numeric.
type Cell struct {
	Raw     string
	Missing bool
	Num     float64
	Type    ValueType
	// Time is set for TypeDate cells.
	Time time.Time
}

// NewCell builds an untyped cell from raw text.
func NewCell(raw string) Cell {
	return NewTypedCell(raw, TypeUnknown)
}

// NewTypedCell builds a cell whose value type is known. Text cells are never
// read as numbers, whatever they look like.
func NewTypedCell(raw string, typ ValueType) Cell {
	return Cell{Raw: raw, Missing: IsMissing(raw), Type: typ}
}

// NewDateCell builds a date cell.
func NewDateCell(ts time.Time) Cell {
	return Cell{Raw: ts.Format(DateTimeLayout), Type: TypeDate, Time: ts}
}

// NewBoolCell builds a boolean cell rendered as True or False.
func NewBoolCell(v bool) Cell {
	if v {
		return NewTypedCell("True", TypeBool)
	}
	return NewTypedCell("False", TypeBool)
}

var (
	intPattern   = regexp.MustCompile(`^[+-]?[0-9]+$`)
	floatPattern = regexp.MustCompile(`^[+-]?([0-9]+\.?[0-9]*|\.[0-9]+)([eE][+-]?[0-9]+)?$`)
)

// parseNumber reads plain decimal notation. It returns KindInteger or
// KindFloat, or KindString for anything else, including integers beyond
// int64 and values out of float64 range.
func parseNumber(raw string) (float64, Kind) {
	switch {
	case intPattern.MatchString(raw):
		if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
			return 0, KindString
		}
		f, _ := strconv.ParseFloat(raw, 64)
		return f, KindInteger
	case floatPattern.MatchString(raw):
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, KindString
		}
		return f, KindFloat
	default:
		return 0, KindString
	}
}

// numeric reports whether the cell may take part in a numeric column.
func (c Cell) numeric() bool {
	return c.Type == TypeUnknown || c.Type == TypeNumber
}

// Format renders the cell for output given its column kind. Numbers are written
// in their shortest form; missing cells are empty.
func (c Cell) Format(kind Kind) string {
	if c.Missing {
		return ""
	}
	switch kind {
	case KindInteger:
		if n, err := strconv.ParseInt(c.Raw, 10, 64); err == nil {
			return strconv.FormatInt(n, 10)
		}
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case KindFloat:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case KindDate:
		return c.Time.Format(DateLayout)
	default:
		if c.Type == TypeNumber {
			if f, k := parseNumber(c.Raw); k != KindString {
				return strconv.FormatFloat(f, 'f', -1, 64)
			}
		}
		return c.Raw
	}
}

// Row is one record; it always has exactly one cell per column.
type Row []Cell

// Column is a named, typed column.
type Column struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// Table is a rectangular dataset.
type Table struct {
	Columns []Column
	Rows    []Row
}

// FromRecords builds a table from string records. Fully blank records are
// skipped; the first remaining record is the header. Short records are padded
// with missing cells, and records wider than the header add unnamed columns.
func FromRecords(records [][]string) *Table {
	rows := make([][]Cell, len(records))
	for i, rec := range records {
		rows[i] = make([]Cell, len(rec))
		for j, raw := range rec {
			rows[i][j] = NewCell(raw)
		}
	}
	return fromCells(rows)
}

// fromCells is FromRecords for typed cells.
func fromCells(records [][]Cell) *Table {
	var header []string
	var data [][]Cell
	for _, rec := range records {
		if isBlank(rec) {
			continue
		}
		if header == nil {
			header = make([]string, len(rec))
			for i, c := range rec {
				header[i] = c.Raw
			}
			continue
		}
		data = append(data, rec)
	}

	width := len(header)
	for _, rec := range data {
		width = max(width, len(rec))
	}

	t := &Table{
		Columns: make([]Column, width),
		Rows:    make([]Row, 0, len(data)),
	}
	for i, name := range headerNames(header, width) {
		t.Columns[i] = Column{Name: name}
	}
	for _, rec := range data {
		row := make(Row, width)
		for i := range row {
			if i < len(rec) {
				row[i] = rec[i]
			} else {
				row[i] = NewCell("")
			}
		}
		t.Rows = append(t.Rows, row)
	}

	t.inferKinds()
	return t
}

func isBlank(rec []Cell) bool {
	for _, c := range rec {
		if c.Raw != "" {
			return false
		}
	}
	return true
}

// headerNames names width columns from the header cells: blanks become
// "Unnamed: i" and duplicates are suffixed ".1", ".2", ...
func headerNames(header []string, width int) []string {
	names := make([]string, width)
	seen := make(map[string]int, width)
	for i := range names {
		name := ""
		if i < len(header) {
			name = header[i]
		}
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}

		base := name
		for seen[name] > 0 {
			name = fmt.Sprintf("%s.%d", base, seen[base])
			seen[base]++
		}
		seen[name]++
		names[i] = name
	}
	return names
}

// inferKinds sets every column's kind from its non-missing cells and fills
// Num for numeric columns.
func (t *Table) inferKinds() {
	for j := range t.Columns {
		present, ints, floats, dates, midnights := 0, 0, 0, 0, 0
		for _, row := range t.Rows {
			c := row[j]
			if c.Missing {
				continue
			}
			present++
			switch {
			case c.Type == TypeDate:
				dates++
				if h, m, sec := c.Time.Clock(); h == 0 && m == 0 && sec == 0 && c.Time.Nanosecond() == 0 {
					midnights++
				}
			case c.numeric():
				switch _, k := parseNumber(c.Raw); k {
				case KindInteger:
					ints++
					floats++
				case KindFloat:
					floats++
				}
			}
		}

		var kind Kind
		switch {
		case present == 0:
			kind = KindEmpty
		case dates == present && midnights == present:
			kind = KindDate
		case dates == present:
			kind = KindDatetime
		case ints == present:
			kind = KindInteger
		case floats == present:
			kind = KindFloat
		default:
			kind = KindString
		}
		t.Columns[j].Kind = kind

		if kind.IsNumeric() {
			for i := range t.Rows {
				if c := &t.Rows[i][j]; !c.Missing {
					c.Num, _ = parseNumber(c.Raw)
				}
			}
		}
	}
}

// Width returns the number of columns.
func (t *Table) Width() int {
	return len(t.Columns)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Records renders the table as string records, header first.
func (t *Table) Records() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, t.ColumnNames())
	for _, row := range t.Rows {
		rec := make([]string, len(row))
		for j, c := range row {
			rec[j] = c.Format(t.Columns[j].Kind)
		}
		out = append(out, rec)
	}
	return out
}

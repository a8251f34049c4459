package table

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ErrNoSheets is returned for a workbook without any worksheet.
var ErrNoSheets = errors.New("workbook has no sheets")

// LoadXLSXFile loads the first sheet of the workbook at path.
func LoadXLSXFile(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	return fromWorkbook(f)
}

// LoadXLSX loads the first sheet of a workbook read from r.
func LoadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	return fromWorkbook(f)
}

func fromWorkbook(f *excelize.File) (*Table, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}
	sheet := sheets[0]

	// raw values so numbers are not rendered through the cell's display format
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}

	cr, err := newCellReader(f, sheet)
	if err != nil {
		return nil, err
	}

	cells := make([][]Cell, len(rows))
	for i, row := range rows {
		cells[i] = make([]Cell, len(row))
		for j, raw := range row {
			if cells[i][j], err = cr.cell(i, j, raw); err != nil {
				return nil, err
			}
		}
	}

	return fromCells(cells), nil
}

// cellReader recovers the value types GetRows flattens into text.
type cellReader struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	// style ID -> number format displays a date
	dateStyles map[int]bool
}

func newCellReader(f *excelize.File, sheet string) (*cellReader, error) {
	props, err := f.GetWorkbookProps()
	if err != nil {
		return nil, fmt.Errorf("reading workbook properties: %w", err)
	}
	cr := &cellReader{f: f, sheet: sheet, dateStyles: make(map[int]bool)}
	if props.Date1904 != nil {
		cr.date1904 = *props.Date1904
	}
	return cr, nil
}

func (cr *cellReader) cell(row, col int, raw string) (Cell, error) {
	if raw == "" {
		return NewCell(""), nil
	}

	ref, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return Cell{}, err
	}
	typ, err := cr.f.GetCellType(cr.sheet, ref)
	if err != nil {
		return Cell{}, fmt.Errorf("reading type of %s: %w", ref, err)
	}

	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError:
		return NewTypedCell(raw, TypeText), nil
	case excelize.CellTypeBool:
		return NewBoolCell(raw == "1" || strings.EqualFold(raw, "true")), nil
	case excelize.CellTypeDate:
		if ts, ok := parseISOTime(raw); ok {
			return NewDateCell(ts), nil
		}
		return NewTypedCell(raw, TypeText), nil
	}

	if cr.dateStyled(ref) {
		if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial >= 0 {
			if serial < 1 {
				return NewTypedCell(timeOfDay(serial), TypeText), nil
			}
			if ts, err := excelize.ExcelDateToTime(serial, cr.date1904); err == nil {
				return NewDateCell(ts), nil
			}
		}
	}
	return NewTypedCell(raw, TypeNumber), nil
}

// dateStyled reports whether the cell's number format shows a date or time.
// A style that cannot be resolved counts as a plain number.
func (cr *cellReader) dateStyled(ref string) bool {
	id, err := cr.f.GetCellStyle(cr.sheet, ref)
	if err != nil {
		return false
	}
	if v, ok := cr.dateStyles[id]; ok {
		return v
	}
	v := false
	if style, err := cr.f.GetStyle(id); err == nil {
		v = isDateStyle(style)
	}
	cr.dateStyles[id] = v
	return v
}

func isDateStyle(style *excelize.Style) bool {
	if style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		return isDateFormatCode(*style.CustomNumFmt)
	}
	switch n := style.NumFmt; {
	case n >= 14 && n <= 22, n >= 45 && n <= 47:
		return true
	case n >= 27 && n <= 36, n >= 50 && n <= 58:
		// East Asian date formats
		return true
	}
	return false
}

// isDateFormatCode reports whether a custom number format uses date or time
// tokens outside quoted text, escapes and bracketed modifiers.
func isDateFormatCode(code string) bool {
	section, _, _ := strings.Cut(code, ";")
	for i := 0; i < len(section); i++ {
		switch ch := section[i]; ch {
		case '"':
			if j := strings.IndexByte(section[i+1:], '"'); j >= 0 {
				i += j + 1
			} else {
				return false
			}
		case '[':
			if j := strings.IndexByte(section[i+1:], ']'); j >= 0 {
				i += j + 1
			}
		case '\\', '_', '*':
			i++
		case 'y', 'Y', 'd', 'D', 'm', 'M', 'h', 'H', 's', 'S':
			return true
		}
	}
	return false
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseISOTime(raw string) (time.Time, bool) {
	for _, layout := range isoLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// timeOfDay renders a serial below one day as hh:mm:ss.
func timeOfDay(serial float64) string {
	d := time.Duration(serial * float64(24*time.Hour)).Round(time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
}

package table

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/pfrederiksen/ward-profiles/internal/storage"
)

// WriteCSV writes the table as comma-separated UTF-8 text with a header row
// and no index column.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(t.Records()); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

// WriteCSVFile writes the table to path, creating parent directories.
func (t *Table) WriteCSVFile(path string) error {
	f, err := storage.Create(path)
	if err != nil {
		return err
	}
	if err := t.WriteCSV(f); err != nil {
		f.Close() // nolint:errcheck
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

// ReadCSV reads a file produced by WriteCSV back into a table. Empty fields
// come back as missing cells.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	return FromRecords(records), nil
}

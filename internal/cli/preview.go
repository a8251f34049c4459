package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/ward-profiles/internal/storage"
	wtable "github.com/pfrederiksen/ward-profiles/internal/table"
)

const defaultPreviewLimit = 10

func newPreviewCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the first rows of the cleaned CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPreview(cmd, limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", defaultPreviewLimit, "Number of rows to show (0 for all)")
	return cmd
}

func runPreview(cmd *cobra.Command, limit int) error {
	if limit < 0 {
		return fmt.Errorf("invalid limit: %d", limit)
	}
	cfg := configFrom(cmd.Context())

	path, err := storage.ExpandPath(cfg.OutputPath)
	if err != nil {
		return err
	}
	if !storage.Exists(path) {
		return fmt.Errorf("no cleaned dataset at %s; run ward-profiles first", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening cleaned dataset: %w", err)
	}
	defer f.Close()

	t, err := wtable.ReadCSV(f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	n := t.Len()
	if limit > 0 && limit < n {
		n = limit
	}

	if OutputFormat(strings.ToLower(cfg.Format)) == FormatJSON {
		records := t.Records()
		return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
			"path":    path,
			"columns": t.Columns,
			"rows":    records[1 : n+1],
			"total":   t.Len(),
		})
	}

	out := cmd.OutOrStdout()
	tw := newTable(out)
	header := make(table.Row, t.Width())
	for j, name := range t.ColumnNames() {
		header[j] = name
	}
	tw.AppendHeader(header)

	for _, rec := range t.Records()[1 : n+1] {
		row := make(table.Row, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		tw.AppendRow(row)
	}
	tw.Render()
	fmt.Fprintf(out, "Showing %d of %d rows from %s\n", n, t.Len(), path)
	return nil
}

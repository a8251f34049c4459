package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/pfrederiksen/ward-profiles/internal/logger"
	"github.com/pfrederiksen/ward-profiles/internal/pipeline"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt  time.Time        `json:"checked_at"`
	Run        *pipeline.Result `json:"run"`
	Metrics    logger.Snapshot  `json:"metrics"`
	Diagnostic string           `json:"diagnostic,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeText adds a run report after the progress lines. Without verbose the
// progress lines are the whole output.
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if !verbose || result.Run == nil {
		return nil
	}
	run := result.Run

	fmt.Fprintf(w, "\nRun: %s\n", run.RunID)
	if run.Download != nil {
		fmt.Fprintf(w, "Downloaded: %d bytes (sha256 %s)\n", run.Download.Size, run.Download.SHA256)
	}
	if run.Clean != nil {
		fmt.Fprintf(w, "Rows: %d -> %d\n", run.Clean.RowsBefore, run.Clean.RowsAfter)
		fmt.Fprintf(w, "Columns: %d -> %d\n", run.Clean.ColumnsBefore, run.Clean.ColumnsAfter)
		for _, name := range run.Clean.DroppedColumns {
			fmt.Fprintf(w, "  dropped: %s\n", name)
		}
	}
	for _, stage := range []pipeline.Stage{
		pipeline.StageFetchingMetadata,
		pipeline.StageLocatingResource,
		pipeline.StageDownloading,
		pipeline.StageTransforming,
	} {
		if d, ok := run.Durations[stage]; ok {
			fmt.Fprintf(w, "  %-18s %s\n", stage, d.Round(time.Millisecond))
		}
	}

	if len(run.Summary) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	tw := newTable(w)
	tw.AppendHeader(table.Row{"Column", "Kind", "Count", "Min", "Max", "Mean", "Median"})
	for _, s := range run.Summary {
		tw.AppendRow(table.Row{s.Name, s.Kind, s.Count, formatNum(s.Min), formatNum(s.Max), formatNum(s.Mean), formatNum(s.Median)})
	}
	tw.Render()
	return nil
}

// newTable returns a light-style table writer that keeps header text as given.
func newTable(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Header = text.FormatDefault
	return tw
}

// formatNum rounds to two decimals and drops trailing zeros.
func formatNum(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

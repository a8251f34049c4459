package cli

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/ward-profiles/internal/ckan"
	"github.com/pfrederiksen/ward-profiles/internal/logger"
	"github.com/pfrederiksen/ward-profiles/internal/pipeline"
)

type resourceListing struct {
	ckan.Resource
	Selected bool `json:"selected"`
}

func newResourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resources",
		Short: "List the resources of the package",
		Long: `Fetches the package metadata and lists its resources. The resource the
refresh would download is marked with an asterisk.`,
		Args: cobra.NoArgs,
		RunE: runResources,
	}
}

func runResources(cmd *cobra.Command, _ []string) error {
	cfg := configFrom(cmd.Context())
	format := OutputFormat(strings.ToLower(cfg.Format))

	client := ckan.NewClient(cfg.BaseURL, cfg.Timeout)
	client.SetUserAgent(cfg.UserAgent)

	pkg, err := client.PackageShow(cmd.Context(), cfg.PackageID)
	if err != nil {
		stageErr := &pipeline.StageError{Stage: pipeline.StageFetchingMetadata, Err: err}
		if msg := pipeline.Diagnostic(stageErr); msg != "" {
			fmt.Fprintln(consoleFor(cmd, format), msg)
			return &exitError{code: ExitAborted, err: stageErr}
		}
		return stageErr
	}

	chosen, found := ckan.FindResource(pkg.Result.Resources, cfg.ResourceName)
	listing := make([]resourceListing, len(pkg.Result.Resources))
	marked := false
	for i, r := range pkg.Result.Resources {
		selected := found && !marked && r == chosen
		marked = marked || selected
		listing[i] = resourceListing{Resource: r, Selected: selected}
	}
	logger.Debug("Listed resources", logger.Fields{"portal": client.BaseURL(), "package": cfg.PackageID, "count": len(listing)})

	if format == FormatJSON {
		return writeJSON(cmd.OutOrStdout(), listing)
	}

	out := cmd.OutOrStdout()
	title := pkg.Result.Title
	if title == "" {
		title = pkg.Result.Name
	}
	fmt.Fprintf(out, "%s (%d resources)\n", title, len(listing))

	tw := newTable(out)
	tw.AppendHeader(table.Row{"", "Name", "Format", "Last Modified", "URL"})
	for _, l := range listing {
		mark := ""
		if l.Selected {
			mark = "*"
		}
		tw.AppendRow(table.Row{mark, l.Name, l.Format, l.LastModified, l.URL})
	}
	tw.Render()

	if !found {
		fmt.Fprintf(out, "No resource name contains %q.\n", cfg.ResourceName)
	}
	return nil
}

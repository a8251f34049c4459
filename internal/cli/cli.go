package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/ward-profiles/internal/ckan"
	"github.com/pfrederiksen/ward-profiles/internal/config"
	"github.com/pfrederiksen/ward-profiles/internal/logger"
	"github.com/pfrederiksen/ward-profiles/internal/pipeline"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	ExitAborted = 2
)

// Version is set at build time.
var Version = "dev"

var flagConfig string

type configKey struct{}

// exitError carries a specific exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitError
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ward-profiles",
		Short: "Download and clean the Toronto Ward Profiles census data",
		Long: `Fetches the Ward Profiles (25-Ward Model) package from the City of Toronto
open data portal, downloads the 2011-2021 census spreadsheet, renames the ward
columns, drops incomplete rows and columns, and writes the result as CSV.

Exit status is 0 on success, 1 on an unexpected error, and
2 when the portal or spreadsheet did not match what is expected (missing
resource, failed download, unexpected header). A diagnostic is printed in that case; earlier releases exited 0 after printing it.`,
		Version:           Version,
		PersistentPreRunE: loadConfig,
		RunE:              runRefresh,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Config file (default: ./"+config.DefaultConfigFile+" if present)")
	pf.String("base-url", ckan.DefaultBaseURL, "CKAN portal base URL")
	pf.String("package-id", config.DefaultPackageID, "CKAN package to read")
	pf.String("resource-name", config.DefaultResourceName, "Case-insensitive substring of the resource name")
	pf.String("spreadsheet-path", config.DefaultSpreadsheetPath, "Where to save the downloaded spreadsheet")
	pf.String("output-path", config.DefaultOutputPath, "Where to write the cleaned CSV")
	pf.Duration("timeout", 0, "HTTP timeout per request (0 for none)")
	pf.String("user-agent", ckan.UserAgent, "User-Agent header for portal requests")
	pf.String("format", config.DefaultFormat, "Output format: text or json")
	pf.String("log-level", config.DefaultLogLevel, "Log level: debug, info, warn or error")
	pf.BoolP("verbose", "v", false, "Enable verbose output")

	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{string(FormatText), string(FormatJSON)}, cobra.ShellCompDirectiveNoFileComp
	})

	cmd.AddCommand(newResourcesCmd())
	cmd.AddCommand(newPreviewCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// loadConfig resolves settings and installs the logger before any command runs.
func loadConfig(cmd *cobra.Command, _ []string) error {
	switch cmd.Name() {
	case "help", "version", "completion", "__complete":
		return nil
	}

	cfg, err := config.Load(flagConfig, cmd.Root().PersistentFlags())
	if err != nil {
		return err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
	return nil
}

func configFrom(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	cfg := config.Default()
	return &cfg
}

// consoleFor returns where progress lines go. JSON output keeps stdout for
// the document itself.
func consoleFor(cmd *cobra.Command, format OutputFormat) io.Writer {
	if format == FormatJSON {
		return cmd.ErrOrStderr()
	}
	return cmd.OutOrStdout()
}

// runRefresh is the main command logic
func runRefresh(cmd *cobra.Command, _ []string) error {
	cfg := configFrom(cmd.Context())
	format := OutputFormat(strings.ToLower(cfg.Format))

	if cfg.Verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Package: %s\n", cfg.PackageID)
		fmt.Fprintf(cmd.ErrOrStderr(), "Resource filter: %s\n", cfg.ResourceName)
		fmt.Fprintf(cmd.ErrOrStderr(), "Portal: %s\n", cfg.BaseURL)
	}

	p := pipeline.New(*cfg,
		pipeline.WithConsole(consoleFor(cmd, format)),
		pipeline.WithLogger(logger.Default()),
	)
	res, runErr := p.Run(cmd.Context())

	result := &OutputResult{
		CheckedAt: time.Now().UTC(),
		Run:       res,
		Metrics:   p.Metrics().GetSnapshot(),
	}

	if runErr != nil {
		result.Error = runErr.Error()
		result.Diagnostic = pipeline.Diagnostic(runErr)
		if format == FormatJSON {
			if err := WriteOutput(cmd.OutOrStdout(), result, format, cfg.Verbose); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
		}
		if pipeline.IsAborted(runErr) {
			return &exitError{code: ExitAborted, err: runErr}
		}
		return runErr
	}

	if err := WriteOutput(cmd.OutOrStdout(), result, format, cfg.Verbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()

	code := ExitCode(err)
	if err != nil && code != ExitAborted {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(code)
}

package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/pfrederiksen/ward-profiles/internal/ckan"
	"github.com/pfrederiksen/ward-profiles/internal/config"
	"github.com/pfrederiksen/ward-profiles/internal/download"
	"github.com/pfrederiksen/ward-profiles/internal/logger"
	"github.com/pfrederiksen/ward-profiles/internal/storage"
	"github.com/pfrederiksen/ward-profiles/internal/table"
)

// Stage names a step of a run.
type Stage string

const (
	StageFetchingMetadata Stage = "fetching-metadata"
	StageLocatingResource Stage = "locating-resource"
	StageDownloading      Stage = "downloading"
	StageTransforming     Stage = "transforming"
	StageDone             Stage = "done"
	StageAborted          Stage = "aborted"
)

// Catalog returns package metadata.
type Catalog interface {
	PackageShow(ctx context.Context, id string) (*ckan.Package, error)
}

// Fetcher saves a resource to a local path.
type Fetcher interface {
	Download(ctx context.Context, url, path string) (*download.Result, error)
}

// Result describes a run, complete or not.
type Result struct {
	RunID      string                `json:"run_id"`
	Stage      Stage                 `json:"stage"`
	PackageID  string                `json:"package_id"`
	Resource   *ckan.Resource        `json:"resource,omitempty"`
	Download   *download.Result      `json:"download,omitempty"`
	Renamed    int                   `json:"renamed_columns"`
	Clean      *table.DropStats      `json:"clean,omitempty"`
	Columns    []table.Column        `json:"columns,omitempty"`
	Summary    []table.ColumnSummary `json:"summary,omitempty"`
	OutputPath string                `json:"output_path,omitempty"`

	Durations map[Stage]time.Duration `json:"-"`
	Table     *table.Table            `json:"-"`
}

// Pipeline runs one refresh.
type Pipeline struct {
	cfg     config.Config
	catalog Catalog
	fetcher Fetcher
	console io.Writer
	log     *logger.Logger
	metrics *logger.Metrics
}

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithCatalog replaces the CKAN client.
func WithCatalog(c Catalog) Option {
	return func(p *Pipeline) { p.catalog = c }
}

// WithFetcher replaces the downloader.
func WithFetcher(f Fetcher) Option {
	return func(p *Pipeline) { p.fetcher = f }
}

// WithConsole sets where progress and diagnostic lines go.
func WithConsole(w io.Writer) Option {
	return func(p *Pipeline) { p.console = w }
}

// WithLogger sets the structured logger.
func WithLogger(l *logger.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// WithMetrics sets the metrics tracker.
func WithMetrics(m *logger.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// New creates a pipeline for cfg. Without options it talks to cfg.BaseURL,
// prints to stdout and logs with the default logger.
func New(cfg config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:     cfg,
		console: os.Stdout,
		log:     logger.Default(),
		metrics: logger.NewMetrics(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.catalog == nil {
		client := ckan.NewClient(cfg.BaseURL, cfg.Timeout)
		client.SetUserAgent(cfg.UserAgent)
		p.catalog = client
	}
	if p.fetcher == nil {
		p.fetcher = download.New(cfg.Timeout, cfg.UserAgent)
	}
	return p
}

// Metrics returns the tracker the pipeline records into.
func (p *Pipeline) Metrics() *logger.Metrics {
	return p.metrics
}

// Run executes every stage in order. On failure the returned Result holds
// whatever was completed and the error is a *StageError.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	res := &Result{
		RunID:     uuid.NewString(),
		PackageID: p.cfg.PackageID,
		Durations: make(map[Stage]time.Duration),
	}
	log := p.log.With(logger.Fields{"run_id": res.RunID})

	var pkg *ckan.Package
	p.say("Fetching package metadata...")
	err := p.stage(res, log, StageFetchingMetadata, func() error {
		p.metrics.IncrCounter("http.requests")
		var err error
		pkg, err = p.catalog.PackageShow(ctx, p.cfg.PackageID)
		return err
	})
	if err != nil {
		return res, err
	}

	err = p.stage(res, log, StageLocatingResource, func() error {
		found, ok := ckan.FindResource(pkg.Result.Resources, p.cfg.ResourceName)
		if !ok {
			return &ResourceNotFoundError{Name: p.cfg.ResourceName}
		}
		res.Resource = &found
		return nil
	})
	if err != nil {
		return res, err
	}
	log.Info("Resource located", logger.Fields{"resource": res.Resource.Name, "url": res.Resource.URL})

	p.say("Found the resource. Starting download from: %s", res.Resource.URL)
	err = p.stage(res, log, StageDownloading, func() error {
		p.metrics.IncrCounter("http.requests")
		dl, err := p.fetcher.Download(ctx, res.Resource.URL, p.cfg.SpreadsheetPath)
		if err != nil {
			return err
		}
		res.Download = dl
		p.metrics.AddCounter("download.bytes", dl.Size)
		return nil
	})
	if err != nil {
		return res, err
	}
	p.say("File downloaded and saved as: %s", res.Download.Path)

	err = p.stage(res, log, StageTransforming, func() error {
		return p.transform(res)
	})
	if err != nil {
		return res, err
	}

	res.Stage = StageDone
	log.Info("Run complete", logger.Fields{
		"output_path": res.OutputPath,
		"rows":        res.Clean.RowsAfter,
		"columns":     res.Clean.ColumnsAfter,
	})
	return res, nil
}

func (p *Pipeline) transform(res *Result) error {
	p.say("Loading and processing the dataset...")
	tbl, err := table.LoadXLSXFile(res.Download.Path)
	if err != nil {
		return fmt.Errorf("loading spreadsheet: %w", err)
	}
	p.metrics.SetGauge("rows.loaded", float64(tbl.Len()))
	p.metrics.SetGauge("columns.loaded", float64(tbl.Width()))

	p.say("Renaming columns...")
	res.Renamed = tbl.RenameWardColumns()

	p.say("Removing rows and columns with missing values...")
	stats := tbl.DropMissing()
	res.Clean = &stats
	p.metrics.SetGauge("rows.output", float64(stats.RowsAfter))
	p.metrics.SetGauge("columns.output", float64(stats.ColumnsAfter))

	out, err := storage.ExpandPath(p.cfg.OutputPath)
	if err != nil {
		return err
	}
	if err := tbl.WriteCSVFile(out); err != nil {
		return fmt.Errorf("saving cleaned dataset: %w", err)
	}
	res.OutputPath = out
	res.Columns = tbl.Columns
	res.Summary = tbl.Summarize()
	res.Table = tbl
	p.say("Final cleaned dataset has been saved at: %s", out)
	return nil
}

// stage runs fn, timing it and turning a failure into a *StageError.
func (p *Pipeline) stage(res *Result, log *logger.Logger, stage Stage, fn func() error) error {
	res.Stage = stage
	log.Debug("Stage started", logger.Fields{"stage": string(stage)})

	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	res.Durations[stage] = elapsed
	p.metrics.RecordTiming("stage."+string(stage), elapsed)

	if err == nil {
		return nil
	}

	res.Stage = StageAborted
	stageErr := &StageError{Stage: stage, Err: err}
	if msg := Diagnostic(stageErr); msg != "" {
		p.say("%s", msg)
		log.Warn("Run aborted", logger.Fields{"stage": string(stage)})
	} else {
		log.Error("Stage failed", logger.Fields{"stage": string(stage)}, err)
	}
	return stageErr
}

func (p *Pipeline) say(format string, args ...interface{}) {
	fmt.Fprintf(p.console, format+"\n", args...)
}

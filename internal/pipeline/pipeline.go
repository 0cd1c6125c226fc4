// Package pipeline runs one full ETL pass: ingest, clean, build the star
// schema, write it to the configured sinks and sign the CSV outputs.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"hotelstar/internal/config"
	"hotelstar/internal/ingest"
	"hotelstar/internal/logger"
	"hotelstar/internal/models"
	"hotelstar/internal/normalizer"
	"hotelstar/internal/quality"
	"hotelstar/internal/schema"
	"hotelstar/internal/warehouse"
	"hotelstar/pkg/metadata"
)

// Quality report file names written when the report is enabled.
const (
	ReportFile = "quality_report.csv"
	IssuesFile = "quality_issues.csv"
)

// Result is everything a run produced.
type Result struct {
	Star     *models.StarSchema
	Report   *quality.Report
	Manifest *metadata.Manifest
	Tables   map[string][]byte
	RunID    string
	Duration time.Duration
}

// Runner executes the pipeline for one configuration.
type Runner struct {
	cfg *config.Config
	log *logger.Logger
}

// NewRunner creates a runner. The configuration is assumed validated.
func NewRunner(cfg *config.Config, log *logger.Logger) *Runner {
	return &Runner{cfg: cfg, log: log}
}

// Run executes every stage. On an unrecoverable anomaly it returns the
// partial result (with the report filled so far) and the error; nothing is
// written to the sinks in that case.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := r.log.With("run_id", runID)

	res := &Result{RunID: runID, Report: quality.NewReport(runID)}

	log.Info("reading input", "stage", "ingest", "path", r.cfg.Pipeline.Input)

	raw, err := ingest.ReadFile(r.cfg.Pipeline.Input)
	if err != nil {
		return res, fmt.Errorf("ingest: %w", err)
	}

	tables := r.cfg.ReferenceTables()
	policy := r.cfg.QualityPolicy()

	clean, err := normalizer.NewProcessor(tables, policy, log).Process(raw, res.Report)
	if err != nil {
		return res, fmt.Errorf("normalize: %w", err)
	}

	res.Star, err = schema.NewBuilder(tables, policy, log).Build(clean, res.Report)
	if err != nil {
		return res, fmt.Errorf("build schema: %w", err)
	}

	res.Tables, err = warehouse.EncodeTables(res.Star)
	if err != nil {
		return res, err
	}

	if err := r.write(ctx, res, log); err != nil {
		return res, err
	}

	res.Duration = time.Since(start)
	log.Info("run complete", "facts", len(res.Star.Facts), "duration", res.Duration.String())

	return res, nil
}

func (r *Runner) write(ctx context.Context, res *Result, log *logger.Logger) error {
	out := r.cfg.Pipeline.OutputDir

	if err := os.MkdirAll(out, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	sinks, err := r.openSinks()
	if err != nil {
		return err
	}
	defer closeSinks(sinks, log)

	for _, sink := range sinks {
		if err := sink.Write(ctx, res.Star); err != nil {
			return fmt.Errorf("%s sink: %w", sink.Name(), err)
		}

		log.Info("tables written", "stage", "load", "sink", sink.Name())
	}

	if r.cfg.HasSink(warehouse.SinkCSV) {
		files := make(map[string][]byte, len(res.Tables))
		for name, data := range res.Tables {
			files[name+warehouse.FileExt] = data
		}

		res.Manifest = metadata.Sign(files, res.RunID)
		if err := res.Manifest.Save(out); err != nil {
			return err
		}
	}

	if r.cfg.Pipeline.WriteReport {
		if err := WriteReport(out, res.Report); err != nil {
			return err
		}
	}

	return nil
}

// openSinks opens the configured sinks in configuration order.
func (r *Runner) openSinks() ([]warehouse.Sink, error) {
	sinks := make([]warehouse.Sink, 0, len(r.cfg.Pipeline.Sinks))

	for _, name := range r.cfg.Pipeline.Sinks {
		switch name {
		case warehouse.SinkCSV:
			sinks = append(sinks, warehouse.NewCSVSink(r.cfg.Pipeline.OutputDir))
		case warehouse.SinkSQLite:
			if dir := filepath.Dir(r.cfg.Pipeline.SQLitePath); dir != "" {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					closeSinks(sinks, r.log)
					return nil, err
				}
			}

			sink, err := warehouse.OpenSQLite(r.cfg.Pipeline.SQLitePath)
			if err != nil {
				closeSinks(sinks, r.log)
				return nil, fmt.Errorf("sqlite sink: %w", err)
			}

			sinks = append(sinks, sink)
		default:
			closeSinks(sinks, r.log)
			return nil, fmt.Errorf("%w: %q", warehouse.ErrUnknownSink, name)
		}
	}

	return sinks, nil
}

func closeSinks(sinks []warehouse.Sink, log *logger.Logger) {
	for _, sink := range sinks {
		if c, ok := sink.(io.Closer); ok {
			if err := c.Close(); err != nil {
				log.Warn("failed to close sink", "sink", sink.Name(), "error", err)
			}
		}
	}
}

// WriteReport writes the metric summary and the individual issues as CSV.
func WriteReport(dir string, report *quality.Report) error {
	header, rows := report.Summary()

	summary, err := warehouse.EncodeRows(header, rows)
	if err != nil {
		return err
	}

	header, rows = report.IssueRows()

	issues, err := warehouse.EncodeRows(header, rows)
	if err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(dir, ReportFile), summary, 0o644); err != nil {
		return fmt.Errorf("failed to write quality report: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, IssuesFile), issues, 0o644); err != nil {
		return fmt.Errorf("failed to write issue list: %w", err)
	}

	return nil
}

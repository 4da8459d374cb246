package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/todolint/internal/model"
)

// Walker enumerates the files below a root.
type Walker interface {
	Walk(ctx context.Context, root string) ([]model.DiscoveredFile, error)
}

// FileScanner produces the report for a single file. It must not return nil.
type FileScanner interface {
	Scan(ctx context.Context, file model.DiscoveredFile) *model.FileReport
}

// Aggregator fans a scan out over every file below a set of roots and
// gathers the results.
type Aggregator struct {
	walker  Walker
	scanner FileScanner
	limit   *int
	logger  *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLimit sets the warn limit. A nil limit disables the threshold.
func WithLimit(limit *int) Option {
	return func(a *Aggregator) {
		a.limit = limit
	}
}

// WithLogger sets a custom logger for the aggregator.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// NewAggregator creates an Aggregator using w for discovery and s for
// scanning.
func NewAggregator(w Walker, s FileScanner, opts ...Option) *Aggregator {
	a := &Aggregator{
		walker:  w,
		scanner: s,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// Run walks roots, scans every discovered file and evaluates the warn
// limit. Reports are ordered by root, then by walk order.
//
// The returned error is non-nil only when ctx is done; the partial result
// is returned with it.
func (a *Aggregator) Run(ctx context.Context, roots []string) (*model.ScanResult, error) {
	result := &model.ScanResult{
		Reports: make([]*model.FileReport, 0),
		Limit:   a.limit,
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	startTime := time.Now()
	a.logger.Info("starting scan", "roots", roots)

	files := a.discover(ctx, roots, result)
	a.logger.Info("files discovered", "total_files", len(files))

	result.Reports = a.scanAll(ctx, files)
	for _, report := range result.Reports {
		if report.Err != nil {
			a.logger.Warn("file scan failed",
				"file", report.File.RelativePath,
				"error", report.Err,
			)
			result.Errors = append(result.Errors, report.Err)
		}
	}

	result.Evaluate()

	a.logger.Info("scan complete",
		"total_files", len(files),
		"annotations", result.AnnotationCount(),
		"total_warn", result.TotalWarn,
		"exceeded", result.Exceeded,
		"elapsed", time.Since(startTime),
	)

	return result, ctx.Err()
}

// discover walks every root concurrently and concatenates the files in
// root order. Walk errors are recorded on result.
func (a *Aggregator) discover(ctx context.Context, roots []string, result *model.ScanResult) []model.DiscoveredFile {
	perRoot := make([][]model.DiscoveredFile, len(roots))
	errs := make([]error, len(roots))

	var g errgroup.Group
	for i, root := range roots {
		g.Go(func() error {
			perRoot[i], errs[i] = a.walker.Walk(ctx, root)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // errors are collected per root

	files := make([]model.DiscoveredFile, 0)
	for i, root := range roots {
		if errs[i] != nil {
			a.logger.Warn("walk incomplete", "root", root, "error", errs[i])
			result.Errors = append(result.Errors, errs[i])
		}
		files = append(files, perRoot[i]...)
	}
	return files
}

// scanAll scans every file in its own goroutine. Each goroutine writes only
// its own slot, so the reports keep the order of files.
func (a *Aggregator) scanAll(ctx context.Context, files []model.DiscoveredFile) []*model.FileReport {
	reports := make([]*model.FileReport, len(files))

	var g errgroup.Group
	for i, file := range files {
		g.Go(func() error {
			reports[i] = a.scanner.Scan(ctx, file)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // scan failures are stored in the reports

	return reports
}

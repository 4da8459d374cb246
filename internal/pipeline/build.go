package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/nao1215/todolint/internal/config"
	"github.com/nao1215/todolint/internal/scanner"
	"github.com/nao1215/todolint/internal/walker"
)

// Setup carries the runtime pieces that are not part of the configuration.
type Setup struct {
	// BaseDir is the directory relative paths are computed against.
	// Empty means the working directory.
	BaseDir string

	// Diagnostics receives style errors raised while scanning.
	Diagnostics func(error)

	// Logger is shared by the walker, scanner and aggregator.
	Logger *slog.Logger
}

// FromConfig assembles an Aggregator from a validated configuration.
func FromConfig(cfg *config.Config, setup Setup) (*Aggregator, error) {
	logger := setup.Logger
	if logger == nil {
		logger = slog.Default()
	}

	f, err := cfg.Filter()
	if err != nil {
		return nil, fmt.Errorf("failed to build ignore filter: %w", err)
	}
	tags, err := cfg.CompileTags()
	if err != nil {
		return nil, fmt.Errorf("failed to compile tags: %w", err)
	}

	walkerOpts := []walker.Option{walker.WithLogger(logger)}
	if setup.BaseDir != "" {
		walkerOpts = append(walkerOpts, walker.WithBaseDir(setup.BaseDir))
	}

	scannerOpts := []scanner.Option{scanner.WithLogger(logger)}
	if setup.Diagnostics != nil {
		scannerOpts = append(scannerOpts, scanner.WithDiagnostics(setup.Diagnostics))
	}

	return NewAggregator(
		walker.New(f, walkerOpts...),
		scanner.New(tags, scannerOpts...),
		WithLimit(cfg.WarnLimit),
		WithLogger(logger),
	), nil
}

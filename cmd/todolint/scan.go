package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/todolint/internal/config"
	"github.com/nao1215/todolint/internal/history"
	"github.com/nao1215/todolint/internal/log"
	"github.com/nao1215/todolint/internal/model"
	"github.com/nao1215/todolint/internal/pipeline"
	"github.com/nao1215/todolint/internal/report"
	"github.com/nao1215/todolint/internal/style"
)

// addScanFlags registers the flags of the scan performed by the root command.
func addScanFlags(cmd *cobra.Command) {
	// Scan scope
	cmd.Flags().StringArray("root", nil,
		"Directory to scan (repeatable; overrides root in the config file)")
	cmd.Flags().StringArray("ignore", nil,
		"Glob pattern of paths to skip (repeatable; added to ignore in the config file)")

	// Threshold
	cmd.Flags().Int("limit", 0,
		"Number of annotations tolerated before the warning banner is shown")
	cmd.Flags().Bool("fail", false,
		"Exit with status 1 when the limit is exceeded")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .todolintrc.json in current or XDG config directory)")

	// Report flags
	cmd.Flags().String("format", config.FormatText,
		"Report format: text or markdown")
	cmd.Flags().String("color", string(style.ModeAuto),
		"Colorize text output: auto, always or never")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// History
	cmd.Flags().Bool("record", false,
		"Save the totals of this run to the history database")
}

// runScanCmd executes the scan.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	cfg.Finalize()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runScan(ctx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates a structured logger on the command's error stream.
func setupLogger(cmd *cobra.Command) *slog.Logger {
	verbose := getVerboseFlag(cmd)
	if asJSON, err := cmd.Flags().GetBool("log-json"); err == nil && asJSON {
		return log.NewJSONLogger(cmd.ErrOrStderr(), verbose)
	}
	return log.NewLogger(cmd.ErrOrStderr(), verbose)
}

// buildConfig creates a Config from the configuration file and the cobra
// command flags. Flags that were not set leave the file values in place.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	explicitPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use defaults if no file found.
	configPath := config.FindConfigFile(explicitPath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.ApplyFile(file, configPath)
	case explicitPath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, explicitPath)
	}

	flags := cmd.Flags()

	roots, err := flags.GetStringArray("root")
	if err != nil {
		return nil, err
	}
	roots = append(roots, args...)
	if len(roots) > 0 {
		cfg.Roots = roots
	}

	ignore, err := flags.GetStringArray("ignore")
	if err != nil {
		return nil, err
	}
	cfg.Ignore = append(cfg.Ignore, ignore...)

	if flags.Changed("limit") {
		limit, err := flags.GetInt("limit")
		if err != nil {
			return nil, err
		}
		cfg.WarnLimit = &limit
	}

	if flags.Changed("fail") {
		if cfg.WarnFail, err = flags.GetBool("fail"); err != nil {
			return nil, err
		}
	}

	if cfg.Format, err = flags.GetString("format"); err != nil {
		return nil, err
	}
	if cfg.ColorMode, err = flags.GetString("color"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.Record, err = flags.GetBool("record"); err != nil {
		return nil, err
	}
	if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// runScan executes the scan and writes the report.
func runScan(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer, logger *slog.Logger) error {
	mode, err := style.ParseMode(cfg.ColorMode)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	agg, err := pipeline.FromConfig(cfg, pipeline.Setup{
		Diagnostics: newDiagnostics(stderr, mode),
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	result, err := agg.Run(ctx, cfg.Roots)
	if err != nil {
		return fmt.Errorf("scan interrupted: %w", err)
	}

	if err := outputReport(cfg, result, stdout, mode); err != nil {
		return err
	}

	if cfg.Record {
		if err := recordRun(ctx, cfg, result, logger); err != nil {
			return err
		}
	}

	if result.Failed(cfg.WarnFail) {
		return ErrLimitExceeded
	}
	return nil
}

// newDiagnostics returns a sink printing each diagnostic as a red line.
// The scanner calls it from many goroutines.
func newDiagnostics(w io.Writer, mode style.Mode) func(error) {
	palette := style.NewPalette(w, mode)
	var mu sync.Mutex
	return func(err error) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(w, palette.Red(err.Error()))
	}
}

// outputReport writes the report in the requested format to stdout or to
// cfg.ReportFile.
func outputReport(cfg *config.Config, result *model.ScanResult, stdout io.Writer, mode style.Mode) error {
	output := stdout
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	opts := []report.Option{report.WithBanner(cfg.Banner())}

	var writer report.Writer
	switch cfg.Format {
	case config.FormatMarkdown:
		writer = report.NewMarkdownWriter(output, opts...)
	default:
		writer = report.NewTextWriter(output, style.NewPalette(output, mode), opts...)
	}

	if _, err := writer.Write(result); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// recordRun saves the totals of result to the history database.
func recordRun(ctx context.Context, cfg *config.Config, result *model.ScanResult, logger *slog.Logger) error {
	project, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve project directory: %w", err)
	}

	store, err := history.Open(cfg.DBDir, history.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	id, err := store.SaveRun(ctx, history.NewRun(project, result, time.Now()))
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	logger.Info("run recorded", "id", id, "db", store.Path())
	return nil
}

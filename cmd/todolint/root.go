package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/todolint/internal/config"
)

// ErrLimitExceeded is returned when warn.fail is set and the number of
// annotations counted toward the limit is above it.
var ErrLimitExceeded = errors.New("warn limit exceeded")

// NewRootCmd creates the root command. Running it without a subcommand
// scans the configured roots.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todolint [root...]",
		Short: "Find TODO, FIXME and other annotation comments in source trees",
		Long: `todolint recursively scans directories for annotation comments that match
the configured tags and prints them grouped by file.

Configuration is read from the first file found among:
  1. the path given with --config
  2. .todolintrc.json, .todolintrc.yaml or .todolintrc.yml in the current directory
  3. the same names in $XDG_CONFIG_HOME/todolint

Command line flags override the configuration file. Positional arguments
are added to the scan roots.

Examples:
  # Scan using .todolintrc.json in the current directory
  todolint

  # Scan two roots and fail when more than 10 annotations are found
  todolint src test --limit 10 --fail

  # Write a Markdown report and record the totals
  todolint --format markdown -o todo.md --record`,
		Version:       getVersion(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runScanCmd,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write log records as JSON")
	cmd.PersistentFlags().String("db-dir", config.XDGDataDir(), "Directory of the run history database")

	addScanFlags(cmd)

	// Add subcommands
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		// The banner has already been printed.
		if !errors.Is(err, ErrLimitExceeded) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

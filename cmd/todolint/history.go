package main

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/nao1215/todolint/internal/history"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded scan totals",
		Long: `History lists runs saved with --record, newest first.

By default only runs recorded in the current directory are shown.

Examples:
  # Show the last 20 runs of this project
  todolint history

  # Show the last 5 runs of every project
  todolint history --all -n 5`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("number", "n", 20, "Maximum number of runs to show (0 for all)")
	cmd.Flags().Bool("all", false, "Show runs of every project")
	cmd.Flags().Bool("ids", false, "Include run IDs for use with history show")

	cmd.AddCommand(newHistoryShowCmd())

	return cmd
}

// newHistoryShowCmd creates the history show command.
func newHistoryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recorded run with its per-tag counts",
		Long: `Show prints the totals of a single run and how many annotations each tag had.

The id is listed by "todolint history --ids".`,
		Args: cobra.ExactArgs(1),
		RunE: runHistoryShowCmd,
	}
}

// openHistory opens the existing history database named by --db-dir.
func openHistory(cmd *cobra.Command) (*history.Store, error) {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	return history.Open(dbDir, history.Options{EnableWAL: true})
}

// runHistoryShowCmd executes the history show command.
func runHistoryShowCmd(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cmd)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	run, err := store.GetRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return writeRun(cmd.OutOrStdout(), run)
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	number, err := cmd.Flags().GetInt("number")
	if err != nil {
		return err
	}
	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	withIDs, err := cmd.Flags().GetBool("ids")
	if err != nil {
		return err
	}

	project := ""
	if !all {
		if project, err = os.Getwd(); err != nil {
			return fmt.Errorf("failed to resolve project directory: %w", err)
		}
	}

	store, err := openHistory(cmd)
	if errors.Is(err, history.ErrDatabaseNotFound) {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet. Use --record to save one.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	runs, err := store.ListRuns(cmd.Context(), project, number)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded for this project.")
		return nil
	}

	return writeRuns(cmd.OutOrStdout(), runs, all, withIDs)
}

// writeRuns renders runs as a Markdown table.
func writeRuns(w io.Writer, runs []history.Run, withProject, withIDs bool) error {
	header := []string{"Recorded", "Files", "Annotations", "Counted", "Limit", "Exceeded"}
	if withProject {
		header = append([]string{"Project"}, header...)
	}
	if withIDs {
		header = append([]string{"ID"}, header...)
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		row := []string{
			run.RecordedAt.Local().Format(time.DateTime),
			strconv.Itoa(run.Files),
			strconv.Itoa(run.Annotations),
			strconv.Itoa(run.WarnTotal),
			limitText(run.Limit),
			yesNo(run.Exceeded),
		}
		if withProject {
			row = append([]string{run.Project}, row...)
		}
		if withIDs {
			row = append([]string{run.ID}, row...)
		}
		rows = append(rows, row)
	}

	return markdown.NewMarkdown(w).
		Table(markdown.TableSet{Header: header, Rows: rows}).
		Build()
}

// writeRun renders a single run and its per-tag counts.
func writeRun(w io.Writer, run history.Run) error {
	tags := slices.Sorted(maps.Keys(run.TagCounts))
	rows := make([][]string, 0, len(tags))
	for _, tag := range tags {
		rows = append(rows, []string{tag, strconv.Itoa(run.TagCounts[tag])})
	}

	md := markdown.NewMarkdown(w).
		H2("Run " + run.ID).
		PlainText("").
		BulletList(
			"Project: "+run.Project,
			"Recorded: "+run.RecordedAt.Local().Format(time.DateTime),
			"Files: "+strconv.Itoa(run.Files),
			"Annotations: "+strconv.Itoa(run.Annotations),
			"Counted: "+strconv.Itoa(run.WarnTotal),
			"Limit: "+limitText(run.Limit),
			"Exceeded: "+yesNo(run.Exceeded),
		).
		PlainText("")
	if len(rows) > 0 {
		md.Table(markdown.TableSet{Header: []string{"Tag", "Count"}, Rows: rows})
	}
	return md.Build()
}

func limitText(limit *int) string {
	if limit == nil {
		return "-"
	}
	return strconv.Itoa(*limit)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

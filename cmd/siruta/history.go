package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Far-Se/coduri-siruta/internal/config"
	"github.com/Far-Se/coduri-siruta/internal/database"
	"github.com/Far-Se/coduri-siruta/internal/report"
	"github.com/spf13/cobra"
)

// latestRun is the run-id argument that selects the most recent run.
const latestRun = "latest"

// NewHistoryCmd creates the history command.
// This command reads runs recorded by "siruta fetch --history".
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id|latest]",
		Short: "Show recorded fetch runs",
		Long: `History lists the runs recorded with "siruta fetch --history".

Without an argument it prints one line per run, newest first. With a run id
(or "latest") it prints every document of that run: its county, status,
HTTP status code and number of merged records. Documents whose content
differs from the previous run that downloaded them are marked with "*".

Examples:
  # List recorded runs
  siruta history

  # Show the documents of the most recent run
  siruta history latest

  # Show only documents that changed in run 12
  siruta history 12 --changed

  # Output a run as JSON
  siruta history latest --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output in Markdown format (mutually exclusive with --json)")

	// Selection flags
	cmd.Flags().IntP("limit", "n", 20,
		"Maximum number of runs to list (0 lists all)")
	cmd.Flags().Bool("changed", false,
		"Only list documents that changed since the previous run")

	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")

	cmd.MarkFlagsMutuallyExclusive("json", "markdown")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	// Validate arguments before opening the database
	var runArg string
	if len(args) > 0 {
		runArg = args[0]
		if runArg != latestRun {
			if _, err := strconv.ParseInt(runArg, 10, 64); err != nil {
				return fmt.Errorf("invalid run id %q: expected a number or %q", runArg, latestRun)
			}
		}
	}

	writer, err := historyWriter(cmd)
	if err != nil {
		return err
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(dbDir, opts)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if runArg == "" {
		return listRuns(ctx, db, writer, limit)
	}
	return showRun(ctx, db, writer, runArg)
}

// historyWriter picks the report writer from the output flags.
func historyWriter(cmd *cobra.Command) (report.Writer, error) {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}
	changedOnly, err := cmd.Flags().GetBool("changed")
	if err != nil {
		return nil, err
	}

	out := cmd.OutOrStdout()
	switch {
	case jsonOutput:
		return report.NewJSONWriter(out, report.WithPrettyPrint()), nil
	case markdownOutput:
		return report.NewMarkdownWriter(out), nil
	default:
		return report.NewSimpleWriter(out,
			report.WithChangedOnly(changedOnly),
			report.WithVerbose(getVerboseFlag(cmd)),
		), nil
	}
}

// listRuns prints the recorded runs, newest first.
func listRuns(ctx context.Context, db *database.RunDB, w report.Writer, limit int) error {
	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	_, err = w.WriteList(runs)
	return err
}

// showRun prints the documents of one run.
func showRun(ctx context.Context, db *database.RunDB, w report.Writer, runArg string) error {
	var id int64
	if runArg == latestRun {
		latest, err := db.LatestRunID(ctx)
		if errors.Is(err, database.ErrRunNotFound) {
			return errors.New("no runs recorded (run fetch with --history first)")
		}
		if err != nil {
			return err
		}
		id = latest
	} else {
		parsed, err := strconv.ParseInt(runArg, 10, 64)
		if err != nil {
			return err
		}
		id = parsed
	}

	summary, err := db.GetRun(ctx, id)
	if err != nil {
		return err
	}
	_, err = w.Write(summary)
	return err
}

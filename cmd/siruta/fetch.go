package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Far-Se/coduri-siruta/internal/config"
	"github.com/Far-Se/coduri-siruta/internal/database"
	"github.com/Far-Se/coduri-siruta/internal/fetch"
	"github.com/Far-Se/coduri-siruta/internal/log"
	"github.com/Far-Se/coduri-siruta/internal/model"
	"github.com/Far-Se/coduri-siruta/internal/pipeline"
	"github.com/spf13/cobra"
)

// NewFetchCmd creates the fetch command.
func NewFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download all county documents and write the merged JSON",
		Long: `Fetch downloads the county documents 1..N concurrently, converts each
one from XML to JSON and writes every locality record to a single file.

A document that cannot be downloaded or parsed is logged and skipped; the
others are still merged. The run fails only when a parsed document lacks
the nom_localitati/rand records or when the output cannot be written.

Examples:
  # Write data.json in the current directory
  siruta fetch

  # Use a newer publication of the nomenclature
  siruta fetch --date-suffix _15.01.2026.xml

  # Limit parallel downloads and give each request 30 seconds
  siruta fetch -c 8 -t 30s

  # Record the run and write a Markdown summary
  siruta fetch --history -s summary.md`,
		Args: cobra.NoArgs,
		RunE: runFetchCmd,
	}

	addFetchFlags(cmd)

	return cmd
}

// addFetchFlags registers the flags shared by the root and fetch commands.
func addFetchFlags(cmd *cobra.Command) {
	// Source flags
	cmd.Flags().String("base-url", config.DefaultBaseURL,
		"URL prefix of the county documents")
	cmd.Flags().String("date-suffix", config.DefaultDateSuffix,
		"Publication date and extension appended after the county id")
	cmd.Flags().IntP("count", "n", config.DefaultTotalIDs,
		"Number of county documents to fetch (ids 1..count)")

	// Transport flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request (0 keeps the transport default)")
	cmd.Flags().IntP("concurrency", "c", config.DefaultConcurrency,
		"Maximum number of parallel downloads (0 is unlimited)")

	// Output flags
	cmd.Flags().StringP("output", "o", config.DefaultOutputFile,
		"Path of the merged JSON document")
	cmd.Flags().StringP("summary", "s", "",
		"Also write a Markdown run summary to this path")

	// History flags
	cmd.Flags().Bool("history", false,
		"Record the run in the history database")
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")

	// Configuration file
	cmd.Flags().String("config", "",
		"Configuration file path (default: ./.siruta.yaml, XDG config dir, ~/.siruta.yaml)")
}

// runFetchCmd executes the fetch command.
func runFetchCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewConsoleLogger(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.Verbose)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runFetch(ctx, cfg, logger)
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

// buildConfig creates a Config from defaults, the configuration file and
// the command flags. Flags override the file only when set explicitly.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicit --config must exist; the default locations are optional.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.Apply(file)
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	if flags.Changed("base-url") {
		if cfg.BaseURL, err = flags.GetString("base-url"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("date-suffix") {
		if cfg.DateSuffix, err = flags.GetString("date-suffix"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("count") {
		if cfg.TotalIDs, err = flags.GetInt("count"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("concurrency") {
		if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("output") {
		if cfg.OutputFile, err = flags.GetString("output"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("summary") {
		if cfg.SummaryFile, err = flags.GetString("summary"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("history") {
		if cfg.SaveHistory, err = flags.GetBool("history"); err != nil {
			return nil, err
		}
	}

	dbDir, err := flags.GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// runFetch executes one download run.
func runFetch(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	fetcher := fetch.New(
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithLogger(logger),
	)

	// recorder must stay a nil interface when history is disabled.
	var recorder pipeline.RunRecorder
	if cfg.SaveHistory {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer db.Close()
		recorder = db
		logger.Debug("history database opened", "path", db.Path())
	}

	run := model.NewRun(cfg.OutputFile, time.Now())
	p := pipeline.DefaultPipeline(cfg, fetcher, recorder, logger)

	logger.Debug("pipeline configured", "steps", p.StepNames())

	return p.Execute(ctx, run)
}

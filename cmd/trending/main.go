// Command trending ingests yearly trending_by_time_YYYY.csv snapshots into
// a local SQLite store, prints a per-date validation report and exports the
// full table back to CSV.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/carlos-ecn/sprint-12-trending-youtube/internal/config"
	"github.com/carlos-ecn/sprint-12-trending-youtube/internal/ingest"
	"github.com/carlos-ecn/sprint-12-trending-youtube/internal/logging"
	"github.com/carlos-ecn/sprint-12-trending-youtube/internal/normalize"
	"github.com/carlos-ecn/sprint-12-trending-youtube/internal/report"
	"github.com/carlos-ecn/sprint-12-trending-youtube/internal/storage/sqlite"
)

var (
	dataDir    string
	dbPath     string
	exportPath string
	logFile    string
	legacyFile string
)

var rootCmd = &cobra.Command{
	Use:   "trending",
	Short: "trending - yearly trending-video snapshot ingester",
	Long: `Discovers trending_by_time_YYYY.csv files, loads each year once into a
local SQLite table, then validates the result and exports it to CSV. Years
already present in the store are skipped, so repeated runs never duplicate
rows.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(baseDir()); err != nil {
			return err
		}

		// Flags win over config (env > file > defaults).
		if !cmd.Flags().Changed("data-dir") {
			dataDir = config.GetString("data-dir")
		}
		if !cmd.Flags().Changed("db") {
			dbPath = config.GetString("db")
		}
		if !cmd.Flags().Changed("export") {
			exportPath = config.GetString("export")
		}
		if !cmd.Flags().Changed("log-file") {
			logFile = config.GetString("log-file")
		}
		logging.Setup(logFile)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd.Context())
	},
}

// baseDir anchors the default data/, database/ and exports/ locations next
// to the executable, matching the original on-disk layout.
func baseDir() string {
	exe, err := os.Executable()
	if err != nil {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
		return "."
	}
	return filepath.Dir(exe)
}

func runPipeline(ctx context.Context) error {
	store, err := sqlite.New(dbPath)
	if err != nil {
		return fmt.Errorf("cannot open trending store at %s: %w", dbPath, err)
	}
	defer func() { _ = store.Close() }()

	ing := &ingest.Ingestor{
		Store:   store,
		DataDir: dataDir,
		Options: normalize.Options{StarThreshold: config.GetFloat64("star-threshold")},
	}
	sum, err := ing.Run(ctx)
	if err != nil {
		return err
	}

	if sum.IngestedAny() {
		color.Green("Ingestion of new snapshot files complete.")
	} else {
		fmt.Println("No new snapshot files were ingested.")
	}

	report.Validate(ctx, store, os.Stdout)

	// Export failure is diagnostic, not fatal: the store already holds
	// everything that was ingested this run.
	if err := report.Export(ctx, store, exportPath); err != nil {
		logging.Errorf("export failed: %v", err)
	}
	return nil
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data-dir", "", "Directory containing trending_by_time_YYYY.csv files")
	pf.StringVar(&dbPath, "db", "", "Path to the SQLite database file")
	pf.StringVar(&exportPath, "export", "", "Path of the full-table CSV export")
	pf.StringVar(&logFile, "log-file", "", "Optional rotating diagnostic log file")

	// The original interface accepted -f/--file but never consumed it;
	// kept as a deprecated no-op so existing invocations don't break.
	pf.StringVarP(&legacyFile, "file", "f", "", "Path to a single snapshot file (ignored)")
	_ = pf.MarkDeprecated("file", "snapshots are discovered from --data-dir; this flag is ignored")

	// Flag parse failures exit 2; runtime failures exit 1.
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		_ = cmd.Usage()
		os.Exit(2)
		return nil
	})
}

func main() {
	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logging.Close()
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/carlos-ecn/sprint-12-trending-youtube/internal/report"
	"github.com/carlos-ecn/sprint-12-trending-youtube/internal/storage/sqlite"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Print per-date row counts from the trending store",
	Long: `Groups the persisted table by trending_date and prints the row count of
each date in ascending order, without ingesting anything.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := sqlite.New(dbPath)
		if err != nil {
			return fmt.Errorf("cannot open trending store at %s: %w", dbPath, err)
		}
		defer func() { _ = store.Close() }()

		report.Validate(cmd.Context(), store, os.Stdout)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

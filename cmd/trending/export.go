package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carlos-ecn/sprint-12-trending-youtube/internal/report"
	"github.com/carlos-ecn/sprint-12-trending-youtube/internal/storage/sqlite"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the full trending table to CSV",
	Long: `Writes the entire persisted table as UTF-8 CSV, overwriting any prior
export. An empty store skips the write.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			out = exportPath
		}

		store, err := sqlite.New(dbPath)
		if err != nil {
			return fmt.Errorf("cannot open trending store at %s: %w", dbPath, err)
		}
		defer func() { _ = store.Close() }()

		return report.Export(cmd.Context(), store, out)
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "Output file (default: configured export path)")
	rootCmd.AddCommand(exportCmd)
}

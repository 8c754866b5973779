package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the current release, overridable at build time with
// -ldflags "-X main.Version=...".
var Version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("trending version %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

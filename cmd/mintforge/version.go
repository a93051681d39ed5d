package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mintforgehq/mintforge/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of mintforge",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mintforge version %s\n", version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

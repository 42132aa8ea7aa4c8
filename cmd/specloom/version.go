package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/specloom/specloom"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("specloom version %s\n", strings.TrimSpace(specloom.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

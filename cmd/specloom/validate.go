package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/specloom/specloom/internal/presentation/tui"
	"github.com/specloom/specloom/pkg/domain"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check applied decisions against the mapping rules",
	Long: `Runs the rule checks over every decision: component bases, layout
variants, pins grammar, and parent-imposed composition. Exits non-zero
when error-severity findings exist.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pretty, _ := cmd.Flags().GetBool("pretty")

		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		findings, err := client.Validate(cmd.Context(), sessionID(cmd))
		if err != nil {
			return err
		}

		if pretty && tui.IsTTY(os.Stdout) {
			fmt.Print(tui.FindingsSummary(findings))
		} else {
			if findings == nil {
				findings = []domain.Finding{}
			}
			if err := printJSON(map[string]any{
				"findings": findings,
				"ok":       !domain.HasErrors(findings),
			}); err != nil {
				return err
			}
		}

		if domain.HasErrors(findings) {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().Bool("pretty", false, "Colored summary instead of JSON (TTY only)")
}

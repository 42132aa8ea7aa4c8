package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/specloom/specloom/pkg/engine"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Build the final platform component spec",
	Long: `Projects the decided tree into the output component specification.
Fails while nodes are undecided unless --partial is given. Absorption
folds decorative label/image children into their controls; disable it
with --no-absorb to inspect the raw projection.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		noAbsorb, _ := cmd.Flags().GetBool("no-absorb")
		partial, _ := cmd.Flags().GetBool("partial")
		output, _ := cmd.Flags().GetString("output")

		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		tree, err := client.Export(cmd.Context(), sessionID(cmd), engine.ExportOptions{
			Absorb:  !noAbsorb,
			Partial: partial,
		})
		if err != nil {
			return err
		}

		if output != "" && output != "-" {
			data, err := json.MarshalIndent(tree, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, append(data, '\n'), 0644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			return nil
		}
		return printJSON(tree)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().Bool("no-absorb", false, "Skip export-time child absorption")
	exportCmd.Flags().Bool("partial", false, "Export with undecided nodes using default bases")
	exportCmd.Flags().StringP("output", "o", "-", "Output file ('-' for stdout)")
}

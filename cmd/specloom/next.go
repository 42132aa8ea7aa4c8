package main

import (
	"github.com/spf13/cobra"
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the next pending node(s) with facts, requirements and hints",
	Long: `Returns the next undecided node in breadth-first order, bundled with
its facts, the parent's decision and requirements, child summaries and
deterministic hints. Read-only: only 'apply' advances the cursor.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")

		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		batch, err := client.Next(cmd.Context(), sessionID(cmd), count)
		if err != nil {
			return err
		}
		return printJSON(batch)
	},
}

func init() {
	rootCmd.AddCommand(nextCmd)

	nextCmd.Flags().IntP("count", "c", 1, "How many pending nodes to return")
}

package main

import (
	"github.com/spf13/cobra"
)

var factsCmd = &cobra.Command{
	Use:   "facts <node-id>",
	Short: "Show the derived facts of one node",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		facts, err := client.Facts(cmd.Context(), sessionID(cmd), args[0])
		if err != nil {
			return err
		}
		return printJSON(facts)
	},
}

func init() {
	rootCmd.AddCommand(factsCmd)
}

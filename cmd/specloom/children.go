package main

import (
	"github.com/spf13/cobra"
)

var childrenCmd = &cobra.Command{
	Use:   "children <node-id>",
	Short: "List the direct children of one node",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		children, err := client.Children(cmd.Context(), sessionID(cmd), args[0])
		if err != nil {
			return err
		}
		return printJSON(children)
	},
}

func init() {
	rootCmd.AddCommand(childrenCmd)
}

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a decision patch to the session",
	Long: `Reads a decision patch (a single {"id": ...} object, a list of them, or
{"decisions": {id: {...}}}) and merges it into the session. Entries are
validated independently; the result lists applied and rejected ids.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		patchPath, _ := cmd.Flags().GetString("patch")

		var payload []byte
		var err error
		if patchPath == "" || patchPath == "-" {
			payload, err = io.ReadAll(os.Stdin)
		} else {
			payload, err = os.ReadFile(patchPath)
		}
		if err != nil {
			return fmt.Errorf("read patch: %w", err)
		}

		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		res, err := client.Apply(cmd.Context(), sessionID(cmd), payload)
		if err != nil {
			return err
		}
		return printJSON(res)
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().StringP("patch", "p", "-", "Patch JSON file ('-' for stdin)")
}

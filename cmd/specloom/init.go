package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/specloom/specloom"
	"github.com/specloom/specloom/pkg/domain"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Index a design tree export into a new session",
	Long: `Reads a design tree JSON export (a node object or a {"document": ...}
envelope), indexes it, and stores a fresh session. Re-running init on an
existing session replaces it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := cmd.Flags().GetString("input")
		uiRaw, _ := cmd.Flags().GetString("ui-system")
		includeInvisible, _ := cmd.Flags().GetBool("include-invisible")
		maxTextLen, _ := cmd.Flags().GetInt("max-text-len")

		ui, err := domain.ParseUISystem(uiRaw)
		if err != nil {
			return err
		}

		var r io.Reader = os.Stdin
		if input != "" && input != "-" {
			f, err := os.Open(input)
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			defer f.Close()
			r = f
		}

		client, err := newClient(cmd,
			specloom.WithIncludeInvisible(includeInvisible),
			specloom.WithMaxTextLen(maxTextLen),
		)
		if err != nil {
			return err
		}

		status, err := client.Init(cmd.Context(), sessionID(cmd), r, ui)
		if err != nil {
			return err
		}
		return printJSON(status)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringP("input", "i", "-", "Design JSON file ('-' for stdin)")
	initCmd.Flags().StringP("ui-system", "u", "UIKit", "Target UI system: UIKit or SwiftUI")
	initCmd.Flags().Bool("include-invisible", false, "Index nodes with visible=false too")
	initCmd.Flags().Int("max-text-len", 200, "Truncate text facts to this many bytes (negative disables)")
}

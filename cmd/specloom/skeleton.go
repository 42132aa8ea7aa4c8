package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/specloom/specloom/internal/presentation/tui"
)

var skeletonCmd = &cobra.Command{
	Use:   "skeleton",
	Short: "Show a depth-limited outline of the indexed tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		node, _ := cmd.Flags().GetString("node")
		depth, _ := cmd.Flags().GetInt("depth")
		render, _ := cmd.Flags().GetBool("render")

		client, err := newClient(cmd)
		if err != nil {
			return err
		}

		sk, err := client.Skeleton(cmd.Context(), sessionID(cmd), node, depth)
		if err != nil {
			return err
		}

		if render && tui.IsTTY(os.Stdout) {
			out, err := tui.NewRenderer()(tui.SkeletonMarkdown(sk))
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		}
		return printJSON(sk)
	},
}

func init() {
	rootCmd.AddCommand(skeletonCmd)

	skeletonCmd.Flags().StringP("node", "n", "", "Subtree root node ID (default: tree root)")
	skeletonCmd.Flags().IntP("depth", "d", 2, "How many levels to expand")
	skeletonCmd.Flags().Bool("render", false, "Render as a styled outline instead of JSON (TTY only)")
}

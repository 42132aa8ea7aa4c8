package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/specloom/specloom"
	"github.com/specloom/specloom/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "specloom",
	Short: "Specloom maps design trees onto platform UI component specs",
	Long: `Specloom indexes a raw design tree export, walks it breadth-first and
collects explicit mapping decisions (yours or an agent's) until the whole
tree is decided, then exports a platform component specification.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", "", "Directory for session state (default .specloom/sessions)")
	rootCmd.PersistentFlags().StringP("session", "s", "default", "Session ID to operate on")
	rootCmd.PersistentFlags().String("rules", "", "YAML file overriding the built-in mapping rules")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging to stderr")
}

// newClient builds the library client from the persistent flags.
func newClient(cmd *cobra.Command, extra ...specloom.Option) (*specloom.Client, error) {
	dir, _ := cmd.Flags().GetString("dir")
	rules, _ := cmd.Flags().GetString("rules")
	verbose, _ := cmd.Flags().GetBool("verbose")

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := []specloom.Option{
		specloom.WithLogger(logging.New(level)),
		specloom.WithStateDir(dir),
	}
	if rules != "" {
		opts = append(opts, specloom.WithRulesFile(rules))
	}
	opts = append(opts, extra...)
	return specloom.New(opts...)
}

func sessionID(cmd *cobra.Command) string {
	id, _ := cmd.Flags().GetString("session")
	return id
}

// printJSON writes indented JSON to stdout; every command's machine
// output goes through here so stdout stays parseable.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

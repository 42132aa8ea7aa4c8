package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/specloom/specloom"
	"github.com/specloom/specloom/internal/logging"
	mcpAdapter "github.com/specloom/specloom/pkg/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the mapping engine as an MCP server so AI agents can drive the
decide loop as tool calls: init_session, get_skeleton, next_node,
apply_decisions, validate_decisions, export_spec.

Supported transports:
- stdio (default): Standard Input/Output, for local process integration.
- sse: Server-Sent Events over HTTP, for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		// Logs must go to stderr so they never corrupt JSON-RPC on stdout.
		logger := logging.New(slog.LevelInfo)
		log.SetOutput(os.Stderr)

		client, err := newClient(cmd, specloom.WithLogger(logger))
		if err != nil {
			return err
		}

		srv := mcpAdapter.NewServer(client.Service(), mcpAdapter.WithLogger(logger))

		switch transport {
		case "stdio":
			logger.Info("starting specloom MCP server (stdio)")
			return srv.ServeStdio()
		case "sse":
			logger.Info("starting specloom MCP server (SSE)", "port", port)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port); err != nil && err != http.ErrServerClosed {
				return err
			}
			logger.Info("MCP server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport %q (supported: stdio, sse)", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/specloom/specloom"
	"github.com/specloom/specloom/internal/logging"
	httpAdapter "github.com/specloom/specloom/pkg/adapters/http"
	redisAdapter "github.com/specloom/specloom/pkg/adapters/redis"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Exposes the session service as a JSON API over HTTP, with Prometheus
metrics on /metrics. Sessions persist in the file store by default, or
in Redis (with distributed locking) when --redis is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		redisAddr, _ := cmd.Flags().GetString("redis")
		redisPassword, _ := cmd.Flags().GetString("redis-password")
		redisDB, _ := cmd.Flags().GetInt("redis-db")
		verbose, _ := cmd.Flags().GetBool("verbose")

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := logging.New(level)

		var extra []specloom.Option
		if redisAddr != "" {
			store := redisAdapter.New(redisAddr, redisPassword, redisDB)
			client := backend.NewClient(&backend.Options{
				Addr:     redisAddr,
				Password: redisPassword,
				DB:       redisDB,
			})
			extra = append(extra,
				specloom.WithStore(store),
				specloom.WithLocker(redisAdapter.NewLocker(client, "specloom:")),
			)
		}
		extra = append(extra, specloom.WithLogger(logger))

		client, err := newClient(cmd, extra...)
		if err != nil {
			return err
		}

		handler := httpAdapter.NewHandler(client.Service(), httpAdapter.WithLogger(logger))
		srv := &http.Server{
			Addr:    addr,
			Handler: handler,
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("specloom server listening", "addr", addr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("shutdown signal received", "signal", sig.String())

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("graceful shutdown did not complete", "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("specloom server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for session storage (enables distributed locking)")
	serveCmd.Flags().String("redis-password", "", "Redis password")
	serveCmd.Flags().Int("redis-db", 0, "Redis database number")
}

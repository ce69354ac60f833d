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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/pulsepredict/sentinel/internal/config"
	"github.com/pulsepredict/sentinel/internal/logging"
	"github.com/pulsepredict/sentinel/internal/server"
	"github.com/pulsepredict/sentinel/pkg/adapters/memory"
	redisstore "github.com/pulsepredict/sentinel/pkg/adapters/redis"
	"github.com/pulsepredict/sentinel/pkg/fallback"
	"github.com/pulsepredict/sentinel/pkg/ports"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the demo snapshot service",
	Long:  `Starts a local service exposing the same wire contract the dashboard syncs against, backed by an in-memory or Redis hospital store.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port, _ = cmd.Flags().GetInt("port")
		}

		logger := buildLogger(cfg.Logger)

		store, closeStore, err := buildStore(cfg.Server.Redis)
		if err != nil {
			fmt.Printf("Error initializing store: %v\n", err)
			os.Exit(1)
		}
		defer closeStore()

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metricsHandler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})

		handler := server.NewHandler(store, metricsHandler, server.WithLogger(logger))

		srv := &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:      handler,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Sentinel demo service on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Sentinel demo service stopped gracefully")
		}
	},
}

// buildStore picks the hospital store backend and seeds it with the dataset
// inventory so a fresh service serves sensible stock levels.
func buildStore(cfg config.RedisConfig) (ports.HospitalStore, func(), error) {
	snap, err := fallback.Snapshot()
	if err != nil {
		return nil, nil, fmt.Errorf("dataset unavailable: %w", err)
	}

	if !cfg.Enabled {
		return memory.NewStore(snap.Inventory), func() {}, nil
	}

	rs := redisstore.New(cfg.Addr, cfg.Password, cfg.DB)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rs.Seed(ctx, snap.Inventory); err != nil {
		rs.Close()
		return nil, nil, err
	}
	return rs, func() { rs.Close() }, nil
}

func buildLogger(cfg config.LoggerConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if cfg.Format == "json" {
		return logging.NewJSON(level)
	}
	return logging.New(level)
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8000, "Port to listen on")
}

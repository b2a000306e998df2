package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"indoornav/internal/api"
	"indoornav/internal/config"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(current func() *config.Config) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the route, tag and floor plan API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := current()
			if address != "" {
				cfg.Server.Address = address
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
		},
	}

	cmd.Flags().StringVarP(&address, "address", "a", "", "listen address, overrides config")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, reg prometheus.Registerer, gatherer prometheus.Gatherer) error {
	a, err := newApp(cfg, reg)
	if err != nil {
		return err
	}

	if cfg.Server.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	handlers := api.NewHandlers(a.nav, a.plan, gatherer)
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           api.NewEngine(handlers, cfg.Server.CORSAllowedOrigin, cfg.Server.Debug),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("Server starting",
		"address", cfg.Server.Address,
		"strategy", a.nav.Router().Strategy(),
		"floorplan_issues", len(a.plan.Issues),
		"endpoints", []string{
			"GET /health",
			"GET /route?from=&to=&strategy=",
			"GET /route.geojson?from=&to=",
			"GET /tags/:id",
			"GET /locate?x=&y=&screen=",
			"GET /nodes?bbox=",
			"GET /floorplan/lines",
			"GET /floorplan/issues",
			"GET /metrics",
		})

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

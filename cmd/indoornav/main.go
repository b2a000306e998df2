package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"indoornav/internal/config"
	"indoornav/internal/floorplan"
	"indoornav/internal/metrics"
	"indoornav/internal/navigator"
	"indoornav/internal/router"
	"indoornav/internal/tags"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app is everything a command needs once config and floor plan are loaded.
type app struct {
	cfg     *config.Config
	plan    *floorplan.Plan
	metrics *metrics.Metrics
	nav     *navigator.Navigator
}

// newApp wires the navigator for cfg. reg may be nil when metrics are not
// exported.
func newApp(cfg *config.Config, reg prometheus.Registerer) (*app, error) {
	plan, err := floorplan.Load(cfg.FloorPlan.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load floor plan: %w", err)
	}

	strategy, err := router.ParseStrategy(cfg.Search.Strategy)
	if err != nil {
		return nil, err
	}

	var m *metrics.Metrics
	if reg != nil {
		m = metrics.New(reg)
	}

	r := router.New(plan.Graph, strategy, m)
	nav := navigator.New(r, plan.Graph, tags.NewTable(plan.Tags), cfg.Display, m)

	return &app{cfg: cfg, plan: plan, metrics: m, nav: nav}, nil
}

func newRootCmd() *cobra.Command {
	var (
		configPath    string
		floorPlanPath string
		logLevel      string
		cfg           *config.Config
	)

	root := &cobra.Command{
		Use:   "indoornav",
		Short: "Indoor navigation over an NFC-tagged floor plan",
		Long: `indoornav finds routes between rooms of a floor plan graph,
resolves NFC tag ids to rooms and projects routes onto a display surface.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if floorPlanPath != "" {
				loaded.FloorPlan.Path = floorPlanPath
			}
			if logLevel != "" {
				loaded.Log.Level = strings.ToLower(logLevel)
				if err := loaded.Validate(); err != nil {
					return err
				}
			}
			setupLogging(loaded.Log, cmd.ErrOrStderr())
			cfg = loaded
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&floorPlanPath, "floorplan", "", "floor plan file (.yaml or .json), overrides config")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	current := func() *config.Config { return cfg }

	root.AddCommand(
		newServeCmd(current),
		newRouteCmd(current),
		newTagCmd(current),
		newLocateCmd(current),
		newValidateCmd(current),
	)
	return root
}

func setupLogging(c config.LogConfig, w io.Writer) {
	slog.SetDefault(c.Logger(w))
}

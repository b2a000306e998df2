package main

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/spf13/cobra"

	"indoornav/internal/config"
	"indoornav/internal/floorplan"
	"indoornav/internal/navigator"
	"indoornav/internal/render"
	"indoornav/internal/router"
	"indoornav/internal/tags"
)

var (
	errNoPath    = errors.New("no path found")
	errNonFinite = errors.New("X and Y must be finite numbers")
)

func newRouteCmd(current func() *config.Config) *cobra.Command {
	var (
		strategy  string
		asJSON    bool
		asGeoJSON bool
	)

	cmd := &cobra.Command{
		Use:   "route FROM TO",
		Short: "Find the route between two rooms or waypoints",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var s router.Strategy
			if strategy != "" {
				parsed, err := router.ParseStrategy(strategy)
				if err != nil {
					return err
				}
				s = parsed
			}

			a, err := newApp(current(), nil)
			if err != nil {
				return err
			}

			result := a.nav.Navigate(args[0], args[1], s)
			out := cmd.OutOrStdout()

			switch {
			case asGeoJSON:
				if !result.Found() {
					return fmt.Errorf("%w from %q to %q", errNoPath, result.From, result.To)
				}
				return writeJSON(out, render.RouteGeoJSON(result.Route.Nodes, a.plan.Graph, a.nav.Settings()))
			case asJSON:
				if err := writeJSON(out, result); err != nil {
					return err
				}
			default:
				printResult(out, result)
			}

			if !result.Found() {
				return fmt.Errorf("%w from %q to %q", errNoPath, result.From, result.To)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", "bfs or weighted, defaults to the configured strategy")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the route and drawing as JSON")
	cmd.Flags().BoolVar(&asGeoJSON, "geojson", false, "print the projected route as GeoJSON")
	cmd.MarkFlagsMutuallyExclusive("json", "geojson")
	return cmd
}

func newTagCmd(current func() *config.Config) *cobra.Command {
	var (
		uid  string
		to   string
		list bool
	)

	cmd := &cobra.Command{
		Use:   "tag [TAGID]",
		Short: "Resolve a tag id to its room, optionally routing from there",
		Long: `Resolve a tag id to its room. The id is either given directly or
derived from the raw tag UID with --uid (hex bytes, optionally separated by ':').
With --to the room becomes the start of a route to the given destination.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				return listTags(cmd.OutOrStdout(), current())
			}

			var tagID string
			switch {
			case len(args) == 1 && uid != "":
				return errors.New("give either TAGID or --uid, not both")
			case len(args) == 1:
				tagID = args[0]
			case uid != "":
				raw, err := hex.DecodeString(strings.NewReplacer(":", "", " ", "").Replace(uid))
				if err != nil {
					return fmt.Errorf("failed to decode uid: %w", err)
				}
				tagID = tags.TagIDFromBytes(raw)
			default:
				return errors.New("a TAGID or --uid is required")
			}

			a, err := newApp(current(), nil)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			session := navigator.NewSession(a.nav)
			label, ok := session.OnTagRead(tagID)
			fmt.Fprintf(out, "tag %s: %s\n", tagID, label)
			if !ok {
				return fmt.Errorf("%s %q", navigator.UnrecognizedTag, tagID)
			}

			if to == "" {
				return nil
			}
			result := session.Navigate(to)
			printResult(out, result)
			if !result.Found() {
				return fmt.Errorf("%w from %q to %q", errNoPath, result.From, result.To)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&uid, "uid", "", "raw tag UID as hex bytes, e.g. 1d:4e:05:0f:10:80")
	cmd.Flags().StringVar(&to, "to", "", "route from the tag's room to this node")
	cmd.Flags().BoolVar(&list, "list", false, "list every known tag and its room")
	cmd.MarkFlagsMutuallyExclusive("list", "uid")
	cmd.MarkFlagsMutuallyExclusive("list", "to")
	return cmd
}

func listTags(w io.Writer, cfg *config.Config) error {
	a, err := newApp(cfg, nil)
	if err != nil {
		return err
	}

	table := tags.NewTable(a.plan.Tags)
	for _, tagID := range table.TagIDs() {
		room, _ := table.Lookup(tagID)
		fmt.Fprintf(w, "%s\t%s\n", tagID, room)
	}
	return nil
}

func newLocateCmd(current func() *config.Config) *cobra.Command {
	var (
		screen bool
		count  int
	)

	cmd := &cobra.Command{
		Use:   "locate X Y",
		Short: "Find the nodes nearest to a floor-plan or screen point",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid X: %w", err)
			}
			y, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid Y: %w", err)
			}
			if !finite(x, y) {
				return errNonFinite
			}

			a, err := newApp(current(), nil)
			if err != nil {
				return err
			}

			if screen {
				var ok bool
				x, y, ok = a.nav.Settings().Unproject(orb.Point{x, y})
				if !ok {
					return errors.New("display scale is zero, screen points cannot be mapped")
				}
				if !finite(x, y) {
					return errNonFinite
				}
			}

			out := cmd.OutOrStdout()
			index := a.plan.Graph.Index()
			for _, id := range index.NearestN(count, x, y) {
				c, _ := a.plan.Graph.CoordinatesOf(id)
				dist := math.Hypot(float64(c.X)-x, float64(c.Y)-y)
				fmt.Fprintf(out, "%-8s %-8s (%d, %d) %.2f\n", id, floorplan.Kind(id), c.X, c.Y, dist)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&screen, "screen", false, "X Y are screen coordinates")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of nodes to list")
	return cmd
}

func newValidateCmd(current func() *config.Config) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check floor plan data for dangling edges and coordinate mismatches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(current(), nil)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			g := a.plan.Graph
			fmt.Fprintf(out, "source: %s\n", a.plan.Source)
			fmt.Fprintf(out, "nodes: %d, edges: %d, tags: %d\n", g.Len(), g.EdgeCount(), len(a.plan.Tags))

			issues := a.plan.Issues
			for _, issue := range issues {
				fmt.Fprintf(out, "%s\t%s\t%s\n", issue.Kind, issue.Node, issue.Detail)
			}
			if len(issues) == 0 {
				fmt.Fprintln(out, "ok")
				return nil
			}
			if strict {
				return fmt.Errorf("floor plan has %d issues", len(issues))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any issue is found")
	return cmd
}

func printResult(w io.Writer, result navigator.Result) {
	switch result.Status {
	case navigator.StatusNoStartRoom:
		fmt.Fprintln(w, "no start room, scan a tag first")
	case navigator.StatusNoPath:
		fmt.Fprintf(w, "no path from %s to %s\n", result.From, result.To)
	default:
		r := result.Route
		fmt.Fprintln(w, strings.Join(r.Nodes, " -> "))
		fmt.Fprintf(w, "%d hops, cost %.2f, %s, drawn length %.1f\n", r.Hops, r.Cost, r.Strategy, result.Drawing.Length)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

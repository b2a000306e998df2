package api

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"indoornav/internal/floorplan"
	"indoornav/internal/navigator"
	"indoornav/internal/render"
	"indoornav/internal/router"
)

// ServiceName is reported by /health
const ServiceName = "indoornav"

// Handlers serves the API for one loaded floor plan.
type Handlers struct {
	nav      *navigator.Navigator
	plan     *floorplan.Plan
	gatherer prometheus.Gatherer
	started  time.Time
}

// NewHandlers creates the handler set. gatherer backs /metrics and may be nil
// to disable it.
func NewHandlers(nav *navigator.Navigator, plan *floorplan.Plan, gatherer prometheus.Gatherer) *Handlers {
	return &Handlers{
		nav:      nav,
		plan:     plan,
		gatherer: gatherer,
		started:  time.Now(),
	}
}

// RouteQuery is the query string of /route and /route.geojson
type RouteQuery struct {
	From     string `form:"from" binding:"required"`
	To       string `form:"to" binding:"required"`
	Strategy string `form:"strategy"`
}

// LocateQuery is the query string of /locate
type LocateQuery struct {
	X      *float64 `form:"x" binding:"required"`
	Y      *float64 `form:"y" binding:"required"`
	Screen bool     `form:"screen"`
}

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ready",
		Service:   ServiceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Source:    h.plan.Source,
		Nodes:     h.plan.Graph.Len(),
		Edges:     h.plan.Graph.EdgeCount(),
		Tags:      len(h.plan.Tags),
		Strategy:  string(h.nav.Router().Strategy()),
	})
}

// HandleRoute handles GET /route.
//
// An unreachable or unknown destination is a normal outcome: the reply is
// 404 with success=false and nothing to draw.
func (h *Handlers) HandleRoute(c *gin.Context) {
	logger := requestLogger(c, "HandleRoute")

	query, strategy, ok := h.bindRouteQuery(c)
	if !ok {
		return
	}

	result := h.nav.Navigate(query.From, query.To, strategy)
	if !result.Found() {
		code := h.noPathCode(result.From, result.To)
		logger.Info("No path found", "from", result.From, "to", result.To, "code", code)
		c.JSON(http.StatusNotFound, RouteResponse{
			Success: false,
			Message: "No path found",
			Code:    code,
			From:    result.From,
			To:      result.To,
		})
		return
	}

	logger.Info("Path found",
		"from", result.From,
		"to", result.To,
		"hops", result.Route.Hops,
		"strategy", result.Route.Strategy)

	c.JSON(http.StatusOK, RouteResponse{
		Success: true,
		From:    result.From,
		To:      result.To,
		Route:   &result.Route,
		Drawing: &result.Drawing,
	})
}

// HandleRouteGeoJSON handles GET /route.geojson.
func (h *Handlers) HandleRouteGeoJSON(c *gin.Context) {
	query, strategy, ok := h.bindRouteQuery(c)
	if !ok {
		return
	}

	result := h.nav.Navigate(query.From, query.To, strategy)
	if !result.Found() {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "No path found", Code: h.noPathCode(result.From, result.To)})
		return
	}

	fc := render.RouteGeoJSON(result.Route.Nodes, h.plan.Graph, h.nav.Settings())
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, fc)
}

// noPathCode tells an unknown endpoint apart from an unreachable one.
func (h *Handlers) noPathCode(from, to string) string {
	if !h.plan.Graph.HasNode(from) || !h.plan.Graph.HasNode(to) {
		return CodeUnknownNode
	}
	return CodeNoPath
}

func (h *Handlers) bindRouteQuery(c *gin.Context) (RouteQuery, router.Strategy, bool) {
	var query RouteQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		requestLogger(c, "bindRouteQuery").Warn("Invalid route query", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "from and to are required",
			Code:  CodeInvalidRequest,
		})
		return query, "", false
	}

	var strategy router.Strategy
	if query.Strategy != "" {
		s, err := router.ParseStrategy(query.Strategy)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeInvalidStrategy})
			return query, "", false
		}
		strategy = s
	}

	return query, strategy, true
}

// HandleTag handles GET /tags/:id.
func (h *Handlers) HandleTag(c *gin.Context) {
	tagID := c.Param("id")

	room, ok := h.nav.ResolveTag(tagID)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: navigator.UnrecognizedTag,
			Code:  CodeUnknownTag,
		})
		return
	}

	c.JSON(http.StatusOK, TagResponse{Tag: tagID, Room: room, Known: true})
}

// HandleLocate handles GET /locate: the node nearest to a floor-plan point,
// or to a screen point when screen=true.
func (h *Handlers) HandleLocate(c *gin.Context) {
	var query LocateQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "numeric x and y are required",
			Code:  CodeInvalidRequest,
		})
		return
	}

	x, y := *query.X, *query.Y
	if !finite(x, y) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "x and y must be finite numbers",
			Code:  CodeInvalidRequest,
		})
		return
	}
	if query.Screen {
		var ok bool
		x, y, ok = h.nav.Settings().Unproject(orb.Point{x, y})
		if !ok || !finite(x, y) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "screen point cannot be mapped to the floor plan",
				Code:  CodeInvalidRequest,
			})
			return
		}
	}

	id, dist, ok := h.plan.Graph.Index().Nearest(x, y)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "floor plan has no coordinates", Code: CodeUnknownNode})
		return
	}

	c.JSON(http.StatusOK, LocateResponse{Node: id, Kind: floorplan.Kind(id), Distance: dist, X: x, Y: y})
}

// HandleNodes handles GET /nodes?bbox=minX,minY,maxX,maxY: every node whose
// floor-plan position lies inside the box. Without bbox all nodes with a
// coordinate are listed.
func (h *Handlers) HandleNodes(c *gin.Context) {
	g := h.plan.Graph

	ids := g.Nodes()
	if raw := c.Query("bbox"); raw != "" {
		box, ok := parseBBox(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "bbox must be four finite numbers minX,minY,maxX,maxY with min <= max",
				Code:  CodeInvalidRequest,
			})
			return
		}
		ids = g.Index().QueryRegion(box[0], box[1], box[2], box[3])
	}

	nodes := make([]NodeInfo, 0, len(ids))
	for _, id := range ids {
		coord, ok := g.CoordinatesOf(id)
		if !ok {
			continue
		}
		nodes = append(nodes, NodeInfo{ID: id, Kind: floorplan.Kind(id), X: coord.X, Y: coord.Y})
	}

	c.JSON(http.StatusOK, NodesResponse{Count: len(nodes), Nodes: nodes})
}

func parseBBox(raw string) ([4]float64, bool) {
	var box [4]float64

	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return box, false
	}
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || !finite(v) {
			return box, false
		}
		box[i] = v
	}
	return box, box[0] <= box[2] && box[1] <= box[3]
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// HandleFloorPlanLines handles GET /floorplan/lines.
func (h *Handlers) HandleFloorPlanLines(c *gin.Context) {
	fc := render.FloorPlanGeoJSON(h.plan.Graph.EdgeSegments())
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, fc)
}

// HandleFloorPlanIssues handles GET /floorplan/issues.
func (h *Handlers) HandleFloorPlanIssues(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"source": h.plan.Source,
		"issues": h.plan.Issues,
	})
}

func (h *Handlers) metricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
}

package api

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all endpoints on r.
//
//	GET /health             - readiness and floor plan summary
//	GET /route              - route + drawing between two nodes
//	GET /route.geojson      - the same route as a GeoJSON FeatureCollection
//	GET /tags/:id           - room of a tag id
//	GET /locate             - nearest node to a floor-plan or screen point
//	GET /nodes              - nodes inside an optional bbox
//	GET /floorplan/lines    - graph edges as GeoJSON
//	GET /floorplan/issues   - data inconsistencies found at load
//	GET /metrics            - Prometheus metrics
func RegisterRoutes(r gin.IRouter, h *Handlers) {
	r.GET("/health", h.HandleHealth)
	r.GET("/route", h.HandleRoute)
	r.GET("/route.geojson", h.HandleRouteGeoJSON)
	r.GET("/tags/:id", h.HandleTag)
	r.GET("/locate", h.HandleLocate)
	r.GET("/nodes", h.HandleNodes)
	r.GET("/floorplan/lines", h.HandleFloorPlanLines)
	r.GET("/floorplan/issues", h.HandleFloorPlanIssues)

	if h.gatherer != nil {
		r.GET("/metrics", h.metricsHandler())
	}
}

// NewEngine builds a gin engine with recovery, request ids and CORS applied.
func NewEngine(h *Handlers, corsOrigin string, debug bool) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	if debug {
		engine.Use(gin.Logger())
	}
	engine.Use(RequestID(), Cors(corsOrigin))

	RegisterRoutes(engine, h)
	return engine
}

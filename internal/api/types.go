// Package api exposes route, tag and floor plan queries over HTTP.
package api

import (
	"indoornav/internal/render"
	"indoornav/internal/router"
)

// Error codes returned in ErrorResponse.Code
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeInvalidStrategy = "INVALID_STRATEGY"
	CodeNoPath          = "NO_PATH"
	CodeUnknownTag      = "UNKNOWN_TAG"
	CodeUnknownNode     = "UNKNOWN_NODE"
)

// ErrorResponse is the body of every non-2xx reply
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HealthResponse reports service readiness
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
	Uptime    string `json:"uptime"`
	Source    string `json:"source"`
	Nodes     int    `json:"numNodes"`
	Edges     int    `json:"numEdges"`
	Tags      int    `json:"numTags"`
	Strategy  string `json:"strategy"`
}

// RouteResponse answers GET /route
type RouteResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Code    string          `json:"code,omitempty"`
	From    string          `json:"from"`
	To      string          `json:"to"`
	Route   *router.Route   `json:"route,omitempty"`
	Drawing *render.Drawing `json:"drawing,omitempty"`
}

// TagResponse answers GET /tags/:id
type TagResponse struct {
	Tag   string `json:"tag"`
	Room  string `json:"room"`
	Known bool   `json:"known"`
}

// LocateResponse answers GET /locate
type LocateResponse struct {
	Node     string  `json:"node"`
	Kind     string  `json:"kind"`
	Distance float64 `json:"distance"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// NodeInfo is one node of a /nodes reply
type NodeInfo struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// NodesResponse answers GET /nodes
type NodesResponse struct {
	Count int        `json:"count"`
	Nodes []NodeInfo `json:"nodes"`
}

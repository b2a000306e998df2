// Package navigator ties tag reads, route search and projection together.
//
// Navigator is stateless and shared. Session adds the one piece of mutable
// state a device has: the room of the last recognised tag, used as the start
// of the next route.
package navigator

import (
	"log/slog"
	"strings"
	"sync"

	"indoornav/internal/metrics"
	"indoornav/internal/render"
	"indoornav/internal/router"
	"indoornav/internal/tags"
)

// Status describes the outcome of a navigation request
type Status string

const (
	StatusOK          Status = "ok"
	StatusNoPath      Status = "no_path"
	StatusNoStartRoom Status = "no_start_room"
)

// UnrecognizedTag is shown in place of a room when a tag is not in the table.
const UnrecognizedTag = "unrecognized tag"

// Result is one navigation answer. Drawing is empty unless Status is StatusOK.
type Result struct {
	Status  Status         `json:"status"`
	From    string         `json:"from"`
	To      string         `json:"to"`
	Route   router.Route   `json:"route"`
	Drawing render.Drawing `json:"drawing"`
}

// Found reports whether a route was produced
func (r Result) Found() bool {
	return r.Status == StatusOK
}

// Navigator answers route and tag queries against one floor plan.
type Navigator struct {
	router   *router.Router
	coords   render.CoordinateSource
	tags     *tags.Table
	settings render.Settings
	metrics  *metrics.Metrics
}

// New creates a Navigator. m may be nil.
func New(r *router.Router, coords render.CoordinateSource, t *tags.Table, settings render.Settings, m *metrics.Metrics) *Navigator {
	return &Navigator{
		router:   r,
		coords:   coords,
		tags:     t,
		settings: settings,
		metrics:  m,
	}
}

// Settings returns the projection settings in use
func (n *Navigator) Settings() render.Settings {
	return n.settings
}

// Router returns the underlying router
func (n *Navigator) Router() *router.Router {
	return n.router
}

// ResolveTag maps a tag id to a room. Unknown tags are not errors.
func (n *Navigator) ResolveTag(tagID string) (string, bool) {
	room, ok := n.tags.Lookup(tagID)
	n.metrics.ObserveTagRead(ok)
	if !ok {
		slog.Warn("Unrecognized tag", "tag_id", tagID)
		return "", false
	}
	slog.Debug("Tag resolved", "tag_id", tagID, "room", room)
	return room, true
}

// Navigate routes from start to end and projects the route. An empty strategy
// uses the router default.
func (n *Navigator) Navigate(start, end string, strategy router.Strategy) Result {
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)

	result := Result{From: start, To: end}

	route, ok := n.router.RouteWith(strategy, start, end)
	result.Route = route
	if !ok {
		result.Status = StatusNoPath
		return result
	}

	result.Status = StatusOK
	result.Drawing = render.Draw(route.Nodes, n.coords, n.settings)
	if len(result.Drawing.Skipped) > 0 {
		slog.Warn("Route waypoints without coordinates", "from", start, "to", end, "skipped", result.Drawing.Skipped)
	}
	return result
}

// Session tracks the current start room of one device.
type Session struct {
	nav *Navigator

	mu        sync.RWMutex
	startRoom string
}

// NewSession creates a session with no start room
func NewSession(nav *Navigator) *Session {
	return &Session{nav: nav}
}

// OnTagRead handles a tag discovered by the reader. A known tag sets the start
// room; an unknown one clears it. The returned label is the room id or
// UnrecognizedTag.
func (s *Session) OnTagRead(tagID string) (label string, ok bool) {
	room, ok := s.nav.ResolveTag(tagID)

	s.mu.Lock()
	s.startRoom = room
	s.mu.Unlock()

	if !ok {
		return UnrecognizedTag, false
	}
	return room, true
}

// StartRoom returns the current start room, if any
func (s *Session) StartRoom() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.startRoom, s.startRoom != ""
}

// Navigate routes from the current start room to end. Without a start room
// nothing is searched.
func (s *Session) Navigate(end string) Result {
	start, ok := s.StartRoom()
	if !ok {
		return Result{Status: StatusNoStartRoom, To: strings.TrimSpace(end)}
	}
	return s.nav.Navigate(start, end, "")
}

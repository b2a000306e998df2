// Package floorplan holds the static navigation graph and coordinate table of a
// floor. A Graph is built once and is read-only afterwards, so it can be shared
// between goroutines without locking.
package floorplan

import (
	"math"
	"sort"
	"strings"
)

// Coordinate is a node position in floor-plan pixel space
type Coordinate struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Distance calculates Euclidean distance between two coordinates
func (c Coordinate) Distance(other Coordinate) float64 {
	dx := float64(c.X - other.X)
	dy := float64(c.Y - other.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Edge represents a connection from one node to a neighbor with a traversal cost
type Edge struct {
	Weight float64 `json:"weight" yaml:"weight"`
	To     string  `json:"to" yaml:"to"`
}

// Graph is the immutable adjacency and coordinate store.
type Graph struct {
	edges  map[string][]Edge
	coords map[string]Coordinate
	index  *SpatialIndex
}

// New builds a Graph from an adjacency table and a coordinate table. Both inputs
// are copied; later changes to them do not affect the graph.
func New(adjacency map[string][]Edge, coordinates map[string]Coordinate) *Graph {
	g := &Graph{
		edges:  make(map[string][]Edge, len(adjacency)),
		coords: make(map[string]Coordinate, len(coordinates)),
	}

	for id, edges := range adjacency {
		cp := make([]Edge, len(edges))
		copy(cp, edges)
		g.edges[id] = cp
	}
	for id, c := range coordinates {
		g.coords[id] = c
	}

	g.index = NewSpatialIndex(g.coords)
	return g
}

// Neighbors returns the outgoing edges of id in stored order. An unknown id has
// no neighbors. The returned slice must not be modified.
func (g *Graph) Neighbors(id string) []Edge {
	return g.edges[id]
}

// CoordinatesOf returns the floor-plan position of id, if it has one.
func (g *Graph) CoordinatesOf(id string) (Coordinate, bool) {
	c, ok := g.coords[id]
	return c, ok
}

// HasNode reports whether id is a key of the adjacency table.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.edges[id]
	return ok
}

// Weight returns the stored weight of the first edge from -> to.
func (g *Graph) Weight(from, to string) (float64, bool) {
	for _, e := range g.edges[from] {
		if e.To == to {
			return e.Weight, true
		}
	}
	return 0, false
}

// Nodes returns every adjacency key in sorted order.
func (g *Graph) Nodes() []string {
	ids := make([]string, 0, len(g.edges))
	for id := range g.edges {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of nodes in the adjacency table
func (g *Graph) Len() int {
	return len(g.edges)
}

// EdgeCount returns the number of stored (directed) edges
func (g *Graph) EdgeCount() int {
	n := 0
	for _, edges := range g.edges {
		n += len(edges)
	}
	return n
}

// Index returns the spatial index over node coordinates.
func (g *Graph) Index() *SpatialIndex {
	return g.index
}

// WaypointPrefix marks corridor and junction nodes that are not rooms.
const WaypointPrefix = "k-"

// Node kinds reported by Kind
const (
	KindRoom     = "room"
	KindWaypoint = "waypoint"
)

// IsWaypoint reports whether id names a corridor waypoint rather than a room
func IsWaypoint(id string) bool {
	return strings.HasPrefix(id, WaypointPrefix)
}

// Kind classifies id as KindWaypoint or KindRoom.
func Kind(id string) string {
	if IsWaypoint(id) {
		return KindWaypoint
	}
	return KindRoom
}

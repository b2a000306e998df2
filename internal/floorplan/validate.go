package floorplan

import (
	"fmt"
	"sort"
)

// IssueKind classifies a data problem found by Validate
type IssueKind string

const (
	IssueDanglingEdge      IssueKind = "dangling_edge"
	IssueNegativeWeight    IssueKind = "negative_weight"
	IssueMissingCoordinate IssueKind = "missing_coordinate"
	IssueOrphanCoordinate  IssueKind = "orphan_coordinate"
	IssueUnknownTagRoom    IssueKind = "unknown_tag_room"
)

// Issue is a non-fatal inconsistency in floor plan data.
type Issue struct {
	Kind   IssueKind `json:"kind"`
	Node   string    `json:"node"`
	Detail string    `json:"detail,omitempty"`
}

// Validate reports dangling edge targets, negative weights and mismatches
// between the adjacency and coordinate tables. None of these stop routing:
// a dangling target behaves as a node without neighbors and a missing
// coordinate only drops that point from the drawn route.
func (g *Graph) Validate() []Issue {
	issues := []Issue{}

	for _, id := range g.Nodes() {
		for _, e := range g.edges[id] {
			if _, ok := g.edges[e.To]; !ok {
				issues = append(issues, Issue{
					Kind:   IssueDanglingEdge,
					Node:   id,
					Detail: fmt.Sprintf("edge to unknown node %q", e.To),
				})
			}
			if e.Weight < 0 {
				issues = append(issues, Issue{
					Kind:   IssueNegativeWeight,
					Node:   id,
					Detail: fmt.Sprintf("edge to %q has weight %g", e.To, e.Weight),
				})
			}
		}
		if _, ok := g.coords[id]; !ok {
			issues = append(issues, Issue{Kind: IssueMissingCoordinate, Node: id})
		}
	}

	orphans := make([]string, 0)
	for id := range g.coords {
		if _, ok := g.edges[id]; !ok {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	for _, id := range orphans {
		issues = append(issues, Issue{Kind: IssueOrphanCoordinate, Node: id})
	}

	return issues
}

// ValidateTags reports tags whose room is not a node of g, in tag id order.
func ValidateTags(g *Graph, tags map[string]string) []Issue {
	ids := make([]string, 0, len(tags))
	for id := range tags {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	issues := []Issue{}
	for _, id := range ids {
		room := tags[id]
		if !g.HasNode(room) {
			issues = append(issues, Issue{
				Kind:   IssueUnknownTagRoom,
				Node:   room,
				Detail: fmt.Sprintf("tag %s points at a room outside the graph", id),
			})
		}
	}
	return issues
}

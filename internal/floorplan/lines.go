package floorplan

// EdgeSegment is one undirected graph edge with both endpoint positions
type EdgeSegment struct {
	From   string     `json:"from"`
	To     string     `json:"to"`
	A      Coordinate `json:"a"`
	B      Coordinate `json:"b"`
	Weight float64    `json:"weight"`
}

// EdgeSegments returns the graph edges as line segments for visualization.
// Bidirectional edges are reported once; edges with an endpoint lacking a
// coordinate are skipped.
func (g *Graph) EdgeSegments() []EdgeSegment {
	segments := make([]EdgeSegment, 0)

	// Use a map to avoid duplicate edges (since edges are bidirectional)
	seen := make(map[[2]string]bool)

	for _, id := range g.Nodes() {
		for _, e := range g.edges[id] {
			key := [2]string{id, e.To}
			if e.To < id {
				key = [2]string{e.To, id}
			}
			if seen[key] {
				continue
			}
			seen[key] = true

			a, okA := g.coords[id]
			b, okB := g.coords[e.To]
			if !okA || !okB {
				continue
			}
			segments = append(segments, EdgeSegment{From: id, To: e.To, A: a, B: b, Weight: e.Weight})
		}
	}

	return segments
}

package router

import (
	"github.com/emirpasic/gods/queues/priorityqueue"
	"github.com/emirpasic/gods/sets/hashset"
)

// queueItem is one tentative distance in the weighted search
type queueItem struct {
	node string
	cost float64
	seq  int // insertion order, breaks cost ties deterministically
}

// byCost orders queue items by cost, then by insertion order
func byCost(a, b interface{}) int {
	x := a.(queueItem)
	y := b.(queueItem)

	switch {
	case x.cost < y.cost:
		return -1
	case x.cost > y.cost:
		return 1
	case x.seq < y.seq:
		return -1
	case x.seq > y.seq:
		return 1
	default:
		return 0
	}
}

// FindWeightedPath computes the path of least total stored weight from start
// to end (Dijkstra). Stale queue entries are skipped lazily instead of being
// decreased in place. Returns the path, its cost, and whether end was reached.
func FindWeightedPath(g Graph, start, end string) ([]string, float64, bool) {
	openSet := priorityqueue.NewWith(byCost)
	settled := hashset.New()
	dist := map[string]float64{start: 0}
	predecessors := make(map[string]string)

	seq := 0
	openSet.Enqueue(queueItem{node: start, cost: 0, seq: seq})

	for !openSet.Empty() {
		value, _ := openSet.Dequeue()
		current := value.(queueItem)

		if settled.Contains(current.node) {
			continue
		}
		settled.Add(current.node)

		// Check if we reached the goal
		if current.node == end {
			return reconstructPath(predecessors, start, end), current.cost, true
		}

		// Explore neighbors
		for _, edge := range g.Neighbors(current.node) {
			if settled.Contains(edge.To) {
				continue
			}

			tentative := current.cost + edge.Weight
			if known, exists := dist[edge.To]; exists && tentative >= known {
				continue
			}

			dist[edge.To] = tentative
			predecessors[edge.To] = current.node
			seq++
			openSet.Enqueue(queueItem{node: edge.To, cost: tentative, seq: seq})
		}
	}

	// No path found
	return nil, 0, false
}

// Package router answers shortest-path queries over a floor plan graph.
//
// The default search is an unweighted breadth-first search: every edge costs
// one hop and stored weights are ignored. A weighted search over the stored
// distances is available as an explicit alternative strategy.
//
// Searches never return errors. A missing start or end node, or an end node
// that cannot be reached, is reported as "no path".
package router

import (
	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"github.com/emirpasic/gods/sets/hashset"

	"indoornav/internal/floorplan"
)

// Graph is the read-only adjacency view the searches need.
type Graph interface {
	Neighbors(id string) []floorplan.Edge
}

// FindPath computes a path with the fewest edges from start to end using
// breadth-first search. Neighbors are expanded in stored order, so among
// equally short paths the first one discovered wins and the result is the same
// on every call. The boolean is false when end is never reached.
func FindPath(g Graph, start, end string) ([]string, bool) {
	frontier := linkedlistqueue.New()
	visited := hashset.New()
	predecessors := make(map[string]string)

	frontier.Enqueue(start)
	visited.Add(start)

	for !frontier.Empty() {
		value, _ := frontier.Dequeue()
		current := value.(string)

		if current == end {
			return reconstructPath(predecessors, start, end), true
		}

		for _, edge := range g.Neighbors(current) {
			if visited.Contains(edge.To) {
				continue
			}
			visited.Add(edge.To)
			predecessors[edge.To] = current
			frontier.Enqueue(edge.To)
		}
	}

	return nil, false
}

// reconstructPath walks the predecessor chain from end back to start and
// returns it in start -> end order. start has no predecessor.
func reconstructPath(predecessors map[string]string, start, end string) []string {
	path := []string{end}
	for node := end; node != start; {
		node = predecessors[node]
		path = append(path, node)
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PathCost sums the stored weight of every consecutive pair in path, taking
// the first matching edge. ok is false if some pair is not an edge of g.
func PathCost(g Graph, path []string) (cost float64, ok bool) {
	for i := 0; i+1 < len(path); i++ {
		found := false
		for _, e := range g.Neighbors(path[i]) {
			if e.To == path[i+1] {
				cost += e.Weight
				found = true
				break
			}
		}
		if !found {
			return 0, false
		}
	}
	return cost, true
}

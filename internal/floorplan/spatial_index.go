package floorplan

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
)

// pointTolerance is the half-size of the box each node occupies in the tree.
const pointTolerance = 0.5

// NodeEntry wraps a node position for R-tree storage
type NodeEntry struct {
	ID         string
	Coordinate Coordinate
	BBox       rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (n *NodeEntry) Bounds() rtreego.Rect {
	return n.BBox
}

// SpatialIndex answers nearest-node queries over floor-plan coordinates
type SpatialIndex struct {
	tree *rtreego.Rtree
	size int
}

// NewSpatialIndex creates a new spatial index
func NewSpatialIndex(coords map[string]Coordinate) *SpatialIndex {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node

	// Insert in a fixed order so equidistant ties resolve the same way every run.
	ids := make([]string, 0, len(coords))
	for id := range coords {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	size := 0
	for _, id := range ids {
		c := coords[id]
		bbox, err := rtreego.NewRect(
			rtreego.Point{float64(c.X) - pointTolerance, float64(c.Y) - pointTolerance},
			[]float64{2 * pointTolerance, 2 * pointTolerance},
		)
		if err != nil {
			continue
		}
		tree.Insert(&NodeEntry{ID: id, Coordinate: c, BBox: bbox})
		size++
	}

	return &SpatialIndex{tree: tree, size: size}
}

// Len returns the number of indexed nodes
func (si *SpatialIndex) Len() int {
	return si.size
}

// Nearest finds the node closest to (x, y). ok is false when the index is empty.
func (si *SpatialIndex) Nearest(x, y float64) (id string, dist float64, ok bool) {
	if si.size == 0 {
		return "", 0, false
	}

	item := si.tree.NearestNeighbor(rtreego.Point{x, y})
	if item == nil {
		return "", 0, false
	}

	entry := item.(*NodeEntry)
	return entry.ID, distanceTo(entry.Coordinate, x, y), true
}

// NearestN returns up to k node ids ordered by distance to (x, y)
func (si *SpatialIndex) NearestN(k int, x, y float64) []string {
	if k <= 0 || si.size == 0 {
		return []string{}
	}

	results := si.tree.NearestNeighbors(k, rtreego.Point{x, y})
	ids := make([]string, 0, len(results))
	for _, item := range results {
		if item == nil {
			continue
		}
		ids = append(ids, item.(*NodeEntry).ID)
	}
	return ids
}

// QueryRegion returns the ids of nodes inside the given bounding box, sorted
func (si *SpatialIndex) QueryRegion(minX, minY, maxX, maxY float64) []string {
	bbox, err := rtreego.NewRect(
		rtreego.Point{minX, minY},
		[]float64{maxX - minX, maxY - minY},
	)
	if err != nil {
		return []string{}
	}

	results := si.tree.SearchIntersect(bbox)
	ids := make([]string, 0, len(results))
	for _, item := range results {
		ids = append(ids, item.(*NodeEntry).ID)
	}
	sort.Strings(ids)
	return ids
}

func distanceTo(c Coordinate, x, y float64) float64 {
	return math.Hypot(float64(c.X)-x, float64(c.Y)-y)
}

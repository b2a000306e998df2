// Package render projects routes from floor-plan coordinates into screen space
// and prepares the line segments a drawing surface connects.
package render

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/simplify"

	"indoornav/internal/floorplan"
)

// Settings converts floor-plan pixels to screen pixels and styles the drawn path.
type Settings struct {
	OffsetX     float64 `json:"offsetX" yaml:"offset_x"`
	OffsetY     float64 `json:"offsetY" yaml:"offset_y"`
	ScaleX      float64 `json:"scaleX" yaml:"scale_x"`
	ScaleY      float64 `json:"scaleY" yaml:"scale_y"`
	Color       string  `json:"color" yaml:"color" validate:"hexcolor"`
	StrokeWidth float64 `json:"strokeWidth" yaml:"stroke_width" validate:"gt=0"`

	// SimplifyTolerance drops near-collinear points (screen pixels). Zero keeps
	// every projected waypoint.
	SimplifyTolerance float64 `json:"simplifyTolerance,omitempty" yaml:"simplify_tolerance" validate:"gte=0"`
}

// DefaultSettings matches the reference floor-plan image
func DefaultSettings() Settings {
	return Settings{
		OffsetX:     720,
		OffsetY:     155,
		ScaleX:      0.73,
		ScaleY:      0.72,
		Color:       "#FF0000",
		StrokeWidth: 5,
	}
}

// CoordinateSource looks up floor-plan positions. *floorplan.Graph satisfies it.
type CoordinateSource interface {
	CoordinatesOf(id string) (floorplan.Coordinate, bool)
}

// ProjectPoint maps one floor-plan coordinate to screen space
func (s Settings) ProjectPoint(c floorplan.Coordinate) orb.Point {
	return orb.Point{
		s.OffsetX + s.ScaleX*float64(c.X),
		s.OffsetY + s.ScaleY*float64(c.Y),
	}
}

// Unproject maps a screen point back to floor-plan space. ok is false when a
// scale is zero and the mapping cannot be inverted.
func (s Settings) Unproject(p orb.Point) (x, y float64, ok bool) {
	if s.ScaleX == 0 || s.ScaleY == 0 {
		return 0, 0, false
	}
	return (p.X() - s.OffsetX) / s.ScaleX, (p.Y() - s.OffsetY) / s.ScaleY, true
}

// Project converts a route into screen points. Waypoints without a coordinate
// are skipped, which may leave a visible jump but never fails.
func Project(route []string, coords CoordinateSource, s Settings) orb.LineString {
	points := make(orb.LineString, 0, len(route))
	for _, id := range route {
		c, ok := coords.CoordinatesOf(id)
		if !ok {
			continue
		}
		points = append(points, s.ProjectPoint(c))
	}
	return points
}

// Segment is one straight line between consecutive projected points
type Segment struct {
	From orb.Point `json:"from"`
	To   orb.Point `json:"to"`
}

// Segments connects each consecutive pair of points. Fewer than two points
// produce no segments.
func Segments(points orb.LineString) []Segment {
	if len(points) < 2 {
		return []Segment{}
	}

	segments := make([]Segment, 0, len(points)-1)
	for i := 0; i+1 < len(points); i++ {
		segments = append(segments, Segment{From: points[i], To: points[i+1]})
	}
	return segments
}

// Flatten returns x0, y0, x1, y1, ... as a drawing surface expects
func Flatten(points orb.LineString) []float64 {
	flat := make([]float64, 0, 2*len(points))
	for _, p := range points {
		flat = append(flat, p.X(), p.Y())
	}
	return flat
}

// Drawing is everything a surface needs to draw one route
type Drawing struct {
	Nodes       []string       `json:"nodes"`
	Points      orb.LineString `json:"points"`
	Segments    []Segment      `json:"segments"`
	Flat        []float64      `json:"flat"`
	Color       string         `json:"color"`
	StrokeWidth float64        `json:"strokeWidth"`
	Length      float64        `json:"length"`
	Skipped     []string       `json:"skipped,omitempty"`
}

// Empty reports whether nothing would be drawn
func (d Drawing) Empty() bool {
	return len(d.Segments) == 0
}

// Draw projects route and builds its segments. Skipped lists the waypoints
// that had no coordinate.
func Draw(route []string, coords CoordinateSource, s Settings) Drawing {
	points := Project(route, coords, s)

	skipped := make([]string, 0)
	for _, id := range route {
		if _, ok := coords.CoordinatesOf(id); !ok {
			skipped = append(skipped, id)
		}
	}

	if s.SimplifyTolerance > 0 && len(points) > 2 {
		simplified := simplify.DouglasPeucker(s.SimplifyTolerance).Simplify(points.Clone())
		if ls, ok := simplified.(orb.LineString); ok {
			points = ls
		}
	}

	nodes := make([]string, len(route))
	copy(nodes, route)

	return Drawing{
		Nodes:       nodes,
		Points:      points,
		Segments:    Segments(points),
		Flat:        Flatten(points),
		Color:       s.Color,
		StrokeWidth: s.StrokeWidth,
		Length:      planar.Length(points),
		Skipped:     skipped,
	}
}

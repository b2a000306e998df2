package render

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indoornav/internal/floorplan"
)

type coordTable map[string]floorplan.Coordinate

func (c coordTable) CoordinatesOf(id string) (floorplan.Coordinate, bool) {
	v, ok := c[id]
	return v, ok
}

func TestProjectPoint(t *testing.T) {
	t.Run("reference settings", func(t *testing.T) {
		p := DefaultSettings().ProjectPoint(floorplan.Coordinate{X: 1300, Y: 283})
		assert.InDelta(t, 1669.0, p.X(), 1e-9)
		assert.InDelta(t, 358.76, p.Y(), 1e-9)
	})

	t.Run("linear for zero and negative scale", func(t *testing.T) {
		cases := []Settings{
			{OffsetX: 0, OffsetY: 0, ScaleX: 0, ScaleY: 0},
			{OffsetX: 10, OffsetY: -5, ScaleX: -1.5, ScaleY: 2},
			{OffsetX: -100, OffsetY: 100, ScaleX: 0.25, ScaleY: -0.5},
		}
		c := floorplan.Coordinate{X: 40, Y: -8}
		for _, s := range cases {
			p := s.ProjectPoint(c)
			assert.Equal(t, s.OffsetX+s.ScaleX*40, p.X())
			assert.Equal(t, s.OffsetY+s.ScaleY*-8, p.Y())
		}
	})
}

func TestUnproject(t *testing.T) {
	s := DefaultSettings()

	x, y, ok := s.Unproject(s.ProjectPoint(floorplan.Coordinate{X: 1863, Y: 376}))
	require.True(t, ok)
	assert.InDelta(t, 1863, x, 1e-9)
	assert.InDelta(t, 376, y, 1e-9)

	_, _, ok = Settings{ScaleX: 0, ScaleY: 1}.Unproject(orb.Point{1, 1})
	assert.False(t, ok)
}

func TestProject(t *testing.T) {
	coords := coordTable{
		"a": {X: 0, Y: 0},
		"b": {X: 10, Y: 0},
		"c": {X: 10, Y: 10},
	}
	s := Settings{OffsetX: 1, OffsetY: 2, ScaleX: 2, ScaleY: 3}

	t.Run("every waypoint mapped", func(t *testing.T) {
		points := Project([]string{"a", "b", "c"}, coords, s)
		assert.Equal(t, orb.LineString{{1, 2}, {21, 2}, {21, 32}}, points)
	})

	t.Run("missing coordinate is skipped", func(t *testing.T) {
		route := []string{"a", "ghost", "c"}
		points := Project(route, coords, s)
		assert.Len(t, points, len(route)-1)
		assert.Equal(t, orb.LineString{{1, 2}, {21, 32}}, points)
	})

	t.Run("empty route", func(t *testing.T) {
		assert.Empty(t, Project(nil, coords, s))
	})
}

func TestSegments(t *testing.T) {
	assert.Empty(t, Segments(nil))
	assert.Empty(t, Segments(orb.LineString{{1, 1}}))

	segments := Segments(orb.LineString{{0, 0}, {1, 0}, {1, 1}})
	assert.Equal(t, []Segment{
		{From: orb.Point{0, 0}, To: orb.Point{1, 0}},
		{From: orb.Point{1, 0}, To: orb.Point{1, 1}},
	}, segments)
}

func TestFlatten(t *testing.T) {
	assert.Equal(t, []float64{0, 1, 2, 3}, Flatten(orb.LineString{{0, 1}, {2, 3}}))
	assert.Empty(t, Flatten(nil))
}

func TestDraw(t *testing.T) {
	coords := coordTable{
		"a": {X: 0, Y: 0},
		"b": {X: 5, Y: 0},
		"c": {X: 10, Y: 0},
		"d": {X: 10, Y: 10},
	}
	s := Settings{ScaleX: 1, ScaleY: 1, Color: "#00FF00", StrokeWidth: 3}

	t.Run("segments and length", func(t *testing.T) {
		d := Draw([]string{"a", "b", "c", "d"}, coords, s)
		assert.Len(t, d.Points, 4)
		assert.Len(t, d.Segments, 3)
		assert.InDelta(t, 20, d.Length, 1e-9)
		assert.Equal(t, []float64{0, 0, 5, 0, 10, 0, 10, 10}, d.Flat)
		assert.Equal(t, "#00FF00", d.Color)
		assert.Equal(t, 3.0, d.StrokeWidth)
		assert.Empty(t, d.Skipped)
		assert.False(t, d.Empty())
	})

	t.Run("single point draws nothing", func(t *testing.T) {
		d := Draw([]string{"a"}, coords, s)
		assert.Len(t, d.Points, 1)
		assert.True(t, d.Empty())
	})

	t.Run("reports skipped waypoints", func(t *testing.T) {
		d := Draw([]string{"a", "ghost", "d"}, coords, s)
		assert.Equal(t, []string{"ghost"}, d.Skipped)
		assert.Len(t, d.Segments, 1)
	})

	t.Run("simplification drops collinear points", func(t *testing.T) {
		simplified := s
		simplified.SimplifyTolerance = 0.5
		d := Draw([]string{"a", "b", "c", "d"}, coords, simplified)
		assert.Equal(t, orb.LineString{{0, 0}, {10, 0}, {10, 10}}, d.Points)
		assert.Equal(t, []string{"a", "b", "c", "d"}, d.Nodes)
		assert.InDelta(t, 20, d.Length, 1e-9)
	})
}

func TestRouteGeoJSON(t *testing.T) {
	coords := coordTable{
		"201":   {X: 1300, Y: 283},
		"k-201": {X: 1300, Y: 376},
	}

	fc := RouteGeoJSON([]string{"201", "k-201", "ghost"}, coords, DefaultSettings())
	require.Len(t, fc.Features, 3)

	line := fc.Features[0]
	assert.Equal(t, "LineString", line.Geometry.GeoJSONType())
	assert.Equal(t, "#FF0000", line.Properties["stroke"])

	assert.Equal(t, "room", fc.Features[1].Properties["kind"])
	assert.Equal(t, "waypoint", fc.Features[2].Properties["kind"])
	assert.Equal(t, "k-201", fc.Features[2].ID)

	data, err := json.Marshal(fc)
	require.NoError(t, err)

	decoded, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	assert.Len(t, decoded.Features, 3)
}

func TestRouteGeoJSONSinglePoint(t *testing.T) {
	coords := coordTable{"201": {X: 1300, Y: 283}}

	fc := RouteGeoJSON([]string{"201"}, coords, DefaultSettings())
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "Point", fc.Features[0].Geometry.GeoJSONType())
}

func TestFloorPlanGeoJSON(t *testing.T) {
	fc := FloorPlanGeoJSON([]floorplan.EdgeSegment{
		{From: "a", To: "b", A: floorplan.Coordinate{X: 0, Y: 0}, B: floorplan.Coordinate{X: 3, Y: 4}, Weight: 1.5},
	})

	require.Len(t, fc.Features, 1)
	assert.Equal(t, orb.LineString{{0, 0}, {3, 4}}, fc.Features[0].Geometry)
	assert.Equal(t, 1.5, fc.Features[0].Properties["weight"])
}

package render

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"indoornav/internal/floorplan"
)

// RouteGeoJSON exports a drawing as a FeatureCollection in screen space: one
// LineString feature styled with the drawing colour and width, and one Point
// feature per projected waypoint.
func RouteGeoJSON(route []string, coords CoordinateSource, s Settings) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	drawing := Draw(route, coords, s)
	if len(drawing.Points) >= 2 {
		line := geojson.NewFeature(drawing.Points)
		line.Properties["stroke"] = drawing.Color
		line.Properties["stroke-width"] = drawing.StrokeWidth
		line.Properties["nodes"] = drawing.Nodes
		line.Properties["length"] = drawing.Length
		fc.Append(line)
	}

	for _, id := range route {
		c, ok := coords.CoordinatesOf(id)
		if !ok {
			continue
		}
		point := geojson.NewFeature(s.ProjectPoint(c))
		point.ID = id
		point.Properties["id"] = id
		point.Properties["kind"] = floorplan.Kind(id)
		fc.Append(point)
	}

	return fc
}

// FloorPlanGeoJSON exports graph edges as LineString features in floor-plan
// coordinates.
func FloorPlanGeoJSON(segments []floorplan.EdgeSegment) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, seg := range segments {
		line := orb.LineString{
			{float64(seg.A.X), float64(seg.A.Y)},
			{float64(seg.B.X), float64(seg.B.Y)},
		}
		f := geojson.NewFeature(line)
		f.Properties["from"] = seg.From
		f.Properties["to"] = seg.To
		f.Properties["weight"] = seg.Weight
		fc.Append(f)
	}

	return fc
}

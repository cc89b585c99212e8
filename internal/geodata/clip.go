package geodata

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
	"github.com/paulmach/orb/planar"
)

// Clipper implements the two clip strategies the viewer dispatches to:
// vector clipping against another dataset's polygons, and bounding-box
// selection against a raster's extent.
type Clipper struct{}

// ClipByVector builds a new dataset restricted to the clip layer. A feature
// survives when it lies within one of the clip polygons; surviving
// geometries are trimmed to the clip layer's extent. An empty result is a
// valid dataset.
func (Clipper) ClipByVector(ds, clipDS *Dataset) (*Dataset, error) {
	polys := collectPolygons(clipDS)
	if len(polys) == 0 {
		return nil, ErrNoClipGeometry
	}

	var kept []Feature
	for _, f := range ds.Features {
		if f.Geometry == nil || !touchesAny(f.Geometry, polys) {
			continue
		}
		g := clip.Geometry(clipDS.Bounds, f.Geometry)
		if g == nil {
			continue
		}
		kept = append(kept, Feature{Geometry: g, Properties: f.Properties})
	}
	return ds.withFeatures(kept), nil
}

// ClipByRasterBounds selects the features whose extent intersects the
// raster's bounding box. Geometries are kept whole, not trimmed.
func (Clipper) ClipByRasterBounds(ds *Dataset, b orb.Bound) (*Dataset, error) {
	var kept []Feature
	for _, f := range ds.Features {
		if f.Geometry == nil {
			continue
		}
		if b.Intersects(f.Geometry.Bound()) {
			kept = append(kept, f)
		}
	}
	return ds.withFeatures(kept), nil
}

// collectPolygons flattens every polygon in the clip layer.
func collectPolygons(ds *Dataset) []orb.Polygon {
	var polys []orb.Polygon
	for _, f := range ds.Features {
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			polys = append(polys, g)
		case orb.MultiPolygon:
			polys = append(polys, g...)
		}
	}
	return polys
}

// touchesAny reports whether any vertex of g (or its centroid) lies inside
// one of the polygons.
func touchesAny(g orb.Geometry, polys []orb.Polygon) bool {
	pts := vertices(g)
	if c, _ := planar.CentroidArea(g); len(pts) > 0 {
		pts = append(pts, c)
	}
	for _, poly := range polys {
		for _, pt := range pts {
			if planar.PolygonContains(poly, pt) {
				return true
			}
		}
	}
	return false
}

// vertices flattens a geometry's coordinates.
func vertices(g orb.Geometry) []orb.Point {
	switch t := g.(type) {
	case orb.Point:
		return []orb.Point{t}
	case orb.MultiPoint:
		return t
	case orb.LineString:
		return t
	case orb.MultiLineString:
		var out []orb.Point
		for _, ls := range t {
			out = append(out, ls...)
		}
		return out
	case orb.Ring:
		return t
	case orb.Polygon:
		var out []orb.Point
		for _, r := range t {
			out = append(out, r...)
		}
		return out
	case orb.MultiPolygon:
		var out []orb.Point
		for _, p := range t {
			out = append(out, vertices(p)...)
		}
		return out
	case orb.Collection:
		var out []orb.Point
		for _, sub := range t {
			out = append(out, vertices(sub)...)
		}
		return out
	default:
		return nil
	}
}

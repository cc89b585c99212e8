package geodata

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	shp "github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// readShapefile loads a shapefile and its DBF attributes. The CRS is sniffed
// from the .prj sidecar when one exists.
func readShapefile(path string) (*Dataset, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	dbfFields := r.Fields()
	names := make([]string, len(dbfFields))
	for i, f := range dbfFields {
		names[i] = f.String()
	}

	var features []Feature
	for r.Next() {
		row, shape := r.Shape()
		geom := shapeGeometry(shape)
		if geom == nil {
			continue
		}
		props := geojson.Properties{}
		for i, name := range names {
			props[name] = r.ReadAttribute(row, i)
		}
		features = append(features, Feature{Geometry: geom, Properties: props})
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoFeatures)
	}

	return &Dataset{
		Fields:     fieldsFromFeatures(features),
		Features:   features,
		CRS:        prjCRS(path),
		Bounds:     computeBounds(features),
		SourcePath: path,
	}, nil
}

// shapeGeometry converts a shapefile record to an orb geometry. Z and M
// ordinates are dropped; the viewer is strictly planar.
func shapeGeometry(s shp.Shape) orb.Geometry {
	switch t := s.(type) {
	case *shp.Point:
		return orb.Point{t.X, t.Y}
	case *shp.PointZ:
		return orb.Point{t.X, t.Y}
	case *shp.PointM:
		return orb.Point{t.X, t.Y}
	case *shp.MultiPoint:
		mp := make(orb.MultiPoint, 0, len(t.Points))
		for _, p := range t.Points {
			mp = append(mp, orb.Point{p.X, p.Y})
		}
		return mp
	case *shp.PolyLine:
		return lineGeometry(t.Parts, t.Points)
	case *shp.PolyLineZ:
		return lineGeometry(t.Parts, t.Points)
	case *shp.Polygon:
		return polygonGeometry(t.Parts, t.Points)
	case *shp.PolygonZ:
		return polygonGeometry(t.Parts, t.Points)
	default:
		return nil
	}
}

func lineGeometry(parts []int32, points []shp.Point) orb.Geometry {
	rings := splitParts(parts, points)
	if len(rings) == 1 {
		return orb.LineString(rings[0])
	}
	mls := make(orb.MultiLineString, 0, len(rings))
	for _, r := range rings {
		mls = append(mls, orb.LineString(r))
	}
	return mls
}

func polygonGeometry(parts []int32, points []shp.Point) orb.Geometry {
	rings := splitParts(parts, points)
	poly := make(orb.Polygon, 0, len(rings))
	for _, r := range rings {
		poly = append(poly, orb.Ring(r))
	}
	return poly
}

// splitParts slices the flat point array into per-part coordinate runs.
func splitParts(parts []int32, points []shp.Point) [][]orb.Point {
	if len(parts) == 0 {
		parts = []int32{0}
	}
	out := make([][]orb.Point, 0, len(parts))
	for i, start := range parts {
		end := len(points)
		if i+1 < len(parts) {
			end = int(parts[i+1])
		}
		if int(start) >= end {
			continue
		}
		run := make([]orb.Point, 0, end-int(start))
		for _, p := range points[start:end] {
			run = append(run, orb.Point{p.X, p.Y})
		}
		out = append(out, run)
	}
	return out
}

var prjEPSGPattern = regexp.MustCompile(`AUTHORITY\["EPSG",\s*"(\d+)"\]`)

// prjCRS sniffs an EPSG code from the .prj sidecar next to the shapefile.
// The last AUTHORITY entry in a WKT definition is the top-level CRS code.
// Returns "" when the sidecar is missing or carries no EPSG authority.
func prjCRS(shpPath string) string {
	base := strings.TrimSuffix(shpPath, ".shp")
	data, err := os.ReadFile(base + ".prj")
	if err != nil {
		return ""
	}
	return epsgFromWKT(string(data))
}

func epsgFromWKT(wktDef string) string {
	matches := prjEPSGPattern.FindAllStringSubmatch(wktDef, -1)
	if len(matches) == 0 {
		return ""
	}
	code, err := strconv.Atoi(matches[len(matches)-1][1])
	if err != nil {
		return ""
	}
	return fmt.Sprintf("EPSG:%d", code)
}

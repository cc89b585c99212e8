package geodata

import (
	"fmt"
	"os"

	"github.com/paulmach/orb/geojson"
)

// readGeoJSON loads a GeoJSON Feature or FeatureCollection. Per RFC 7946
// GeoJSON coordinates are WGS84, so the dataset CRS is EPSG:4326.
func readGeoJSON(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		// A bare Feature is valid GeoJSON too.
		f, ferr := geojson.UnmarshalFeature(data)
		if ferr != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		fc = geojson.NewFeatureCollection()
		fc.Append(f)
	}

	features := make([]Feature, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		props := f.Properties
		if props == nil {
			props = geojson.Properties{}
		}
		features = append(features, Feature{Geometry: f.Geometry, Properties: props})
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoFeatures)
	}

	return &Dataset{
		Fields:     fieldsFromFeatures(features),
		Features:   features,
		CRS:        "EPSG:4326",
		Bounds:     computeBounds(features),
		SourcePath: path,
	}, nil
}

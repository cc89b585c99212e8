package geodata

import (
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
)

// readWKT loads a file holding one WKT geometry per line. WKT carries no
// CRS, so the dataset's projection stays undefined.
func readWKT(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var features []Feature
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		geom, err := wkt.Unmarshal(line)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		features = append(features, Feature{Geometry: geom, Properties: geojson.Properties{}})
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoFeatures)
	}

	return &Dataset{
		Fields:     nil,
		Features:   features,
		Bounds:     computeBounds(features),
		SourcePath: path,
	}, nil
}

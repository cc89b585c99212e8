package geodata

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// MercatorReprojector transforms datasets between the WGS84 and Web
// Mercator reference systems (EPSG:4326 and EPSG:3857).
type MercatorReprojector struct{}

const (
	epsgWGS84       = 4326
	epsgWebMercator = 3857
)

// Reproject builds a new dataset with every geometry transformed into the
// target EPSG system. The input dataset is left untouched; unsupported
// source or target codes fail without producing a dataset.
func (MercatorReprojector) Reproject(ds *Dataset, epsg int) (*Dataset, error) {
	if !ds.HasCRS() {
		return nil, ErrUndefinedCRS
	}
	from := ds.EPSGCode()
	if from == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCRS, ds.CRS)
	}

	proj, err := projection(from, epsg)
	if err != nil {
		return nil, err
	}

	features := make([]Feature, len(ds.Features))
	for i, f := range ds.Features {
		g := f.Geometry
		if g != nil && proj != nil {
			g = project.Geometry(orb.Clone(g), proj)
		}
		features[i] = Feature{Geometry: g, Properties: f.Properties}
	}

	return &Dataset{
		Fields:     ds.Fields,
		Features:   features,
		CRS:        fmt.Sprintf("EPSG:%d", epsg),
		Bounds:     computeBounds(features),
		SourcePath: ds.SourcePath,
	}, nil
}

// projection picks the point transform for a from→to EPSG pair. A nil
// transform means the pair is the identity.
func projection(from, to int) (func(orb.Point) orb.Point, error) {
	switch {
	case from == to:
		return nil, nil
	case from == epsgWGS84 && to == epsgWebMercator:
		return project.WGS84.ToMercator, nil
	case from == epsgWebMercator && to == epsgWGS84:
		return project.Mercator.ToWGS84, nil
	default:
		return nil, fmt.Errorf("%w: EPSG:%d -> EPSG:%d", ErrUnsupportedCRS, from, to)
	}
}

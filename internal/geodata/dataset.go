// Package geodata holds the in-memory vector dataset model and the
// collaborators the viewer delegates to: format readers, the reprojector
// and the two clip strategies.
package geodata

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Feature is one row of a dataset: a geometry plus its attribute values.
type Feature struct {
	Geometry   orb.Geometry
	Properties geojson.Properties
}

// AttributeString returns the feature's value for the named field formatted
// for display. Missing or nil values format as the empty string.
func (f Feature) AttributeString(field string) string {
	v, ok := f.Properties[field]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Dataset is an in-memory vector feature collection. Transforms never mutate
// a Dataset in place; reprojection and clipping build a new value.
type Dataset struct {
	Fields     []string
	Features   []Feature
	CRS        string // "EPSG:nnnn", or "" when undefined
	Bounds     orb.Bound
	SourcePath string
}

// FeatureCount returns the number of features (rows).
func (d *Dataset) FeatureCount() int { return len(d.Features) }

// HasCRS reports whether the dataset carries a coordinate reference system.
func (d *Dataset) HasCRS() bool { return d.CRS != "" }

// EPSGCode parses the numeric code out of an "EPSG:nnnn" CRS identifier.
// It returns 0 when the CRS is absent or not EPSG-coded.
func (d *Dataset) EPSGCode() int {
	s := strings.TrimPrefix(strings.ToUpper(d.CRS), "EPSG:")
	if s == d.CRS {
		return 0
	}
	code, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return code
}

// withFeatures builds a new dataset carrying the given features and
// recomputed bounds, keeping the CRS, field list and source path.
func (d *Dataset) withFeatures(features []Feature) *Dataset {
	return &Dataset{
		Fields:     d.Fields,
		Features:   features,
		CRS:        d.CRS,
		Bounds:     computeBounds(features),
		SourcePath: d.SourcePath,
	}
}

// computeBounds unions the bounds of every non-nil geometry.
func computeBounds(features []Feature) orb.Bound {
	var b orb.Bound
	first := true
	for _, f := range features {
		if f.Geometry == nil {
			continue
		}
		if first {
			b = f.Geometry.Bound()
			first = false
			continue
		}
		b = b.Union(f.Geometry.Bound())
	}
	return b
}

// fieldsFromFeatures collects the union of attribute names across all
// features, sorted for a stable column order.
func fieldsFromFeatures(features []Feature) []string {
	seen := make(map[string]bool)
	for _, f := range features {
		for k := range f.Properties {
			seen[k] = true
		}
	}
	fields := make([]string, 0, len(seen))
	for k := range seen {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}

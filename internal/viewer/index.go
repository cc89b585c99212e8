package viewer

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"

	"geoview/internal/geodata"
)

// indexEpsilon pads degenerate extents so point and vertical/horizontal
// features still form valid index rectangles.
const indexEpsilon = 1e-9

// indexedFeature wraps a feature for R-tree storage.
type indexedFeature struct {
	feature geodata.Feature
	rect    rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (f *indexedFeature) Bounds() rtreego.Rect { return f.rect }

// FeatureIndex answers which feature sits nearest a map point, backing
// click-to-identify in the canvas.
type FeatureIndex struct {
	rtree *rtreego.Rtree
	size  int
}

// NewFeatureIndex indexes every feature of the dataset by its bounding box.
func NewFeatureIndex(ds *geodata.Dataset) *FeatureIndex {
	rtree := rtreego.NewTree(2, 25, 50)
	size := 0
	for _, f := range ds.Features {
		if f.Geometry == nil {
			continue
		}
		rect, err := featureRect(f.Geometry.Bound())
		if err != nil {
			continue
		}
		rtree.Insert(&indexedFeature{feature: f, rect: rect})
		size++
	}
	return &FeatureIndex{rtree: rtree, size: size}
}

// Len reports how many features were indexed.
func (idx *FeatureIndex) Len() int { return idx.size }

// Nearest returns the feature nearest to the point, false when the index is
// empty.
func (idx *FeatureIndex) Nearest(pt orb.Point) (geodata.Feature, bool) {
	if idx == nil || idx.size == 0 {
		return geodata.Feature{}, false
	}
	hit := idx.rtree.NearestNeighbor(rtreego.Point{pt[0], pt[1]})
	if hit == nil {
		return geodata.Feature{}, false
	}
	return hit.(*indexedFeature).feature, true
}

func featureRect(b orb.Bound) (rtreego.Rect, error) {
	lengths := []float64{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1]}
	for i := range lengths {
		if lengths[i] <= 0 {
			lengths[i] = indexEpsilon
		}
	}
	return rtreego.NewRect(rtreego.Point{b.Min[0], b.Min[1]}, lengths)
}

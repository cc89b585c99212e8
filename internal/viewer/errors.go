package viewer

import "errors"

// Common errors returned by the viewer package.
var (
	// ErrNoDataset is returned when a gated operation runs without a
	// loaded dataset.
	ErrNoDataset = errors.New("no GIS file is opened")

	// ErrNoCentroid is returned when labeling meets a feature whose
	// geometry cannot yield an anchor point.
	ErrNoCentroid = errors.New("feature has no centroid")
)

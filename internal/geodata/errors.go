package geodata

import "errors"

// Common errors returned by the geodata package.
var (
	// ErrUnsupportedFormat is returned when a file extension has no reader.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrNoFeatures is returned when a source contains no usable geometries.
	ErrNoFeatures = errors.New("no features found")

	// ErrUndefinedCRS is returned when an operation needs a CRS the dataset
	// does not carry.
	ErrUndefinedCRS = errors.New("dataset has no coordinate reference system")

	// ErrUnsupportedCRS is returned when a reprojection target is not in the
	// supported EPSG set.
	ErrUnsupportedCRS = errors.New("unsupported EPSG code")

	// ErrNoClipGeometry is returned when a clip layer holds no polygons.
	ErrNoClipGeometry = errors.New("clip layer contains no polygon geometry")

	// ErrNotGeoTIFF is returned when a raster file carries no georeferencing.
	ErrNotGeoTIFF = errors.New("file is not a georeferenced TIFF")
)

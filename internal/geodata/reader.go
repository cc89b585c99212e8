package geodata

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DiskReader reads vector datasets from local files, dispatching on the
// file extension.
type DiskReader struct{}

// Read loads the file at path into a Dataset. Supported formats:
// .geojson/.json, .shp (with .dbf attributes and .prj CRS) and .wkt.
func (DiskReader) Read(path string) (*Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return readGeoJSON(path)
	case ".shp":
		return readShapefile(path)
	case ".wkt":
		return readWKT(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

package geodata

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestDiskReaderRejectsUnsupportedFormats(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"csv", "data.csv"},
		{"tiff is not a vector source", "ortho.tif"},
		{"no extension", "data"},
		{"trailing dot", "data."},
	}

	var r DiskReader
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Read(tt.path)
			if !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("Read(%q) error = %v, want ErrUnsupportedFormat", tt.path, err)
			}
		})
	}
}

func TestDiskReaderMissingFile(t *testing.T) {
	var r DiskReader
	_, err := r.Read(filepath.Join(t.TempDir(), "nope.geojson"))
	if err == nil {
		t.Fatal("Read() of missing file succeeded, want error")
	}
	var pathErr *fs.PathError
	if !errors.As(err, &pathErr) {
		t.Errorf("Read() error = %v, want *fs.PathError", err)
	}
}

func TestReadGeoJSONFeatureCollection(t *testing.T) {
	data := `{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "geometry": {"type": "Point", "coordinates": [10, 20]},
			 "properties": {"name": "alpha", "pop": 120.0}},
			{"type": "Feature", "geometry": {"type": "Point", "coordinates": [30, 5]},
			 "properties": {"name": "beta"}}
		]
	}`
	path := writeTemp(t, "places.geojson", data)

	ds, err := DiskReader{}.Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got := ds.FeatureCount(); got != 2 {
		t.Errorf("FeatureCount() = %d, want 2", got)
	}
	if got, want := ds.CRS, "EPSG:4326"; got != want {
		t.Errorf("CRS = %q, want %q", got, want)
	}
	wantFields := []string{"name", "pop"}
	if len(ds.Fields) != len(wantFields) {
		t.Fatalf("Fields = %v, want %v", ds.Fields, wantFields)
	}
	for i, f := range wantFields {
		if ds.Fields[i] != f {
			t.Errorf("Fields[%d] = %q, want %q", i, ds.Fields[i], f)
		}
	}
	if ds.Bounds.Min[0] != 10 || ds.Bounds.Min[1] != 5 || ds.Bounds.Max[0] != 30 || ds.Bounds.Max[1] != 20 {
		t.Errorf("Bounds = %v, want [10 5] to [30 20]", ds.Bounds)
	}
	if got := ds.Features[0].AttributeString("name"); got != "alpha" {
		t.Errorf("AttributeString(name) = %q, want alpha", got)
	}
	if got := ds.Features[1].AttributeString("pop"); got != "" {
		t.Errorf("AttributeString(pop) for feature without the field = %q, want empty", got)
	}
}

func TestReadGeoJSONBareFeature(t *testing.T) {
	data := `{"type": "Feature", "geometry": {"type": "Point", "coordinates": [1, 2]}, "properties": {"id": 7.0}}`
	path := writeTemp(t, "single.json", data)

	ds, err := DiskReader{}.Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got := ds.FeatureCount(); got != 1 {
		t.Errorf("FeatureCount() = %d, want 1", got)
	}
}

func TestReadGeoJSONEmptyCollection(t *testing.T) {
	path := writeTemp(t, "empty.geojson", `{"type": "FeatureCollection", "features": []}`)
	_, err := DiskReader{}.Read(path)
	if !errors.Is(err, ErrNoFeatures) {
		t.Errorf("Read() error = %v, want ErrNoFeatures", err)
	}
}

func TestReadWKT(t *testing.T) {
	data := "POINT(1 2)\n\nLINESTRING(0 0,4 4)\n"
	path := writeTemp(t, "geoms.wkt", data)

	ds, err := DiskReader{}.Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got := ds.FeatureCount(); got != 2 {
		t.Errorf("FeatureCount() = %d, want 2", got)
	}
	if ds.HasCRS() {
		t.Errorf("HasCRS() = true, want false for WKT input")
	}
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

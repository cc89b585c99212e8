package viewer

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"geoview/internal/geodata"
)

type fakeReader struct {
	ds    *geodata.Dataset
	err   error
	calls int
}

func (f *fakeReader) Read(string) (*geodata.Dataset, error) {
	f.calls++
	return f.ds, f.err
}

type fakeReprojector struct {
	ds    *geodata.Dataset
	err   error
	calls int
}

func (f *fakeReprojector) Reproject(*geodata.Dataset, int) (*geodata.Dataset, error) {
	f.calls++
	return f.ds, f.err
}

type fakeClipper struct {
	ds          *geodata.Dataset
	err         error
	vectorCalls int
	rasterCalls int
}

func (f *fakeClipper) ClipByVector(_, _ *geodata.Dataset) (*geodata.Dataset, error) {
	f.vectorCalls++
	return f.ds, f.err
}

func (f *fakeClipper) ClipByRasterBounds(*geodata.Dataset, orb.Bound) (*geodata.Dataset, error) {
	f.rasterCalls++
	return f.ds, f.err
}

type fakeRasterBounds struct {
	b     orb.Bound
	err   error
	calls int
}

func (f *fakeRasterBounds) Bounds(string) (orb.Bound, error) {
	f.calls++
	return f.b, f.err
}

type recordingReporter struct {
	failures []*Failure
	warns    []string
	infos    []string
	statuses []string
}

func (r *recordingReporter) Failure(f *Failure)  { r.failures = append(r.failures, f) }
func (r *recordingReporter) Warn(op, msg string) { r.warns = append(r.warns, op+": "+msg) }
func (r *recordingReporter) Info(op, msg string) { r.infos = append(r.infos, op+": "+msg) }
func (r *recordingReporter) Status(msg string)   { r.statuses = append(r.statuses, msg) }

type harness struct {
	holder   *Holder
	reader   *fakeReader
	reproj   *fakeReprojector
	clipper  *fakeClipper
	rbounds  *fakeRasterBounds
	reporter *recordingReporter
	commands *Commands
}

func newHarness() *harness {
	h := &harness{
		holder:   NewHolder(),
		reader:   &fakeReader{},
		reproj:   &fakeReprojector{},
		clipper:  &fakeClipper{},
		rbounds:  &fakeRasterBounds{},
		reporter: &recordingReporter{},
	}
	h.commands = NewCommands(h.holder, h.reader, h.reproj, h.clipper, h.clipper, h.rbounds, h.reporter, nil)
	return h
}

func sampleDataset(path string) *geodata.Dataset {
	f := geodata.Feature{Geometry: orb.Point{1, 1}, Properties: geojson.Properties{"name": "x"}}
	return &geodata.Dataset{
		Fields:     []string{"name"},
		Features:   []geodata.Feature{f},
		CRS:        "EPSG:4326",
		Bounds:     f.Geometry.Bound(),
		SourcePath: path,
	}
}

func TestOpenSuccess(t *testing.T) {
	h := newHarness()
	h.reader.ds = sampleDataset("")

	h.commands.Open("/data/places.geojson")

	if got := h.holder.Get(); got == nil || got.SourcePath != "/data/places.geojson" {
		t.Errorf("holder dataset = %+v, want loaded dataset with source path", got)
	}
	if len(h.reporter.statuses) != 1 || h.reporter.statuses[0] != "Opened file: /data/places.geojson" {
		t.Errorf("statuses = %v", h.reporter.statuses)
	}
}

func TestOpenFailurePreservesDataset(t *testing.T) {
	h := newHarness()
	prior := sampleDataset("prior.geojson")
	h.holder.Set(prior)

	h.reader.err = errors.New("corrupt header")
	h.commands.Open("broken.geojson")

	if h.holder.Get() != prior {
		t.Error("failed open replaced the held dataset")
	}
	if len(h.reporter.failures) != 1 {
		t.Fatalf("failures = %d, want 1", len(h.reporter.failures))
	}
	if got := h.reporter.failures[0].Op; got != "Open File" {
		t.Errorf("failure op = %q, want Open File", got)
	}
}

func TestOpenFailureWithNoPriorDataset(t *testing.T) {
	h := newHarness()
	h.reader.err = errors.New("nope")

	h.commands.Open("broken.geojson")

	if h.holder.HasDataset() {
		t.Error("failed open left a dataset in the holder")
	}
}

func TestCloseFile(t *testing.T) {
	h := newHarness()
	h.holder.Set(sampleDataset(""))
	h.commands.LabelFeatures("name")

	h.commands.CloseFile()

	if h.holder.HasDataset() {
		t.Error("CloseFile left a dataset")
	}
	if h.commands.Labels() != nil {
		t.Error("CloseFile left labels behind")
	}
}

func TestProjectionInfo(t *testing.T) {
	tests := []struct {
		name   string
		ds     *geodata.Dataset
		want   string
		wantOK bool
	}{
		{"no dataset", nil, "", false},
		{"undefined CRS", &geodata.Dataset{Features: []geodata.Feature{{}}}, "Undefined projection", true},
		{"EPSG CRS", sampleDataset(""), "EPSG:4326", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			if tt.ds != nil {
				h.holder.Set(tt.ds)
			}
			got, ok := h.commands.ProjectionInfo()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ProjectionInfo() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSwitchProjectionRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"letters", "abc"},
		{"empty", ""},
		{"mixed", "4326abc"},
		{"negative", "-1"},
		{"zero", "0"},
		{"decimal", "4326.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			prior := sampleDataset("")
			h.holder.Set(prior)

			h.commands.SwitchProjection(tt.code)

			if h.reproj.calls != 0 {
				t.Errorf("reprojector called %d times for invalid input %q", h.reproj.calls, tt.code)
			}
			if h.holder.Get() != prior {
				t.Error("invalid input changed the held dataset")
			}
			if len(h.reporter.warns) != 1 {
				t.Fatalf("warns = %v, want exactly one", h.reporter.warns)
			}
			if h.reporter.warns[0] != "Switch Projection: Invalid EPSG code entered." {
				t.Errorf("warn = %q", h.reporter.warns[0])
			}
		})
	}
}

func TestSwitchProjectionNoDataset(t *testing.T) {
	h := newHarness()
	h.commands.SwitchProjection("3857")
	if h.reproj.calls != 0 {
		t.Error("reprojector called without a dataset")
	}
	if len(h.reporter.warns) != 1 {
		t.Errorf("warns = %v, want one", h.reporter.warns)
	}
}

func TestSwitchProjectionSuccess(t *testing.T) {
	h := newHarness()
	h.holder.Set(sampleDataset(""))
	reprojected := sampleDataset("")
	reprojected.CRS = "EPSG:3857"
	h.reproj.ds = reprojected

	h.commands.SwitchProjection(" 3857 ")

	if h.holder.Get() != reprojected {
		t.Error("holder does not hold the reprojected dataset")
	}
	last := h.reporter.statuses[len(h.reporter.statuses)-1]
	if last != "Projection switched to EPSG:3857" {
		t.Errorf("status = %q", last)
	}
}

func TestSwitchProjectionFailurePreservesDataset(t *testing.T) {
	h := newHarness()
	prior := sampleDataset("")
	h.holder.Set(prior)
	h.reproj.err = errors.New("no transform")

	h.commands.SwitchProjection("2154")

	if h.holder.Get() != prior {
		t.Error("failed reprojection changed the held dataset")
	}
	if len(h.reporter.failures) != 1 {
		t.Errorf("failures = %d, want 1", len(h.reporter.failures))
	}
}

func TestClipDispatch(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		wantVector  int
		wantRaster  int
		wantBounds  int
		wantWarning bool
	}{
		{"shapefile clips by vector", "mask.shp", 1, 0, 0, false},
		{"geojson clips by vector", "mask.geojson", 1, 0, 0, false},
		{"tif clips by raster bounds", "ortho.tif", 0, 1, 1, false},
		{"tiff clips by raster bounds", "ortho.tiff", 0, 1, 1, false},
		{"uppercase extension", "MASK.SHP", 1, 0, 0, false},
		{"unknown extension is a no-op", "mask.gpkg", 0, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			h.holder.Set(sampleDataset(""))
			h.reader.ds = sampleDataset("")
			h.clipper.ds = sampleDataset("clipped")

			h.commands.Clip(tt.path)

			if h.clipper.vectorCalls != tt.wantVector {
				t.Errorf("vector clips = %d, want %d", h.clipper.vectorCalls, tt.wantVector)
			}
			if h.clipper.rasterCalls != tt.wantRaster {
				t.Errorf("raster clips = %d, want %d", h.clipper.rasterCalls, tt.wantRaster)
			}
			if h.rbounds.calls != tt.wantBounds {
				t.Errorf("bounds reads = %d, want %d", h.rbounds.calls, tt.wantBounds)
			}
			if tt.wantWarning {
				if len(h.reporter.warns) != 1 {
					t.Errorf("warns = %v, want one", h.reporter.warns)
				}
				if got := h.holder.Get().SourcePath; got == "clipped" {
					t.Error("no-op clip replaced the dataset")
				}
			} else {
				if got := h.holder.Get().SourcePath; got != "clipped" {
					t.Errorf("holder source = %q, want clipped result", got)
				}
				want := "Clip Data: Data clipped successfully."
				if len(h.reporter.infos) != 1 || h.reporter.infos[0] != want {
					t.Errorf("infos = %v, want [%q]", h.reporter.infos, want)
				}
			}
		})
	}
}

func TestClipNoDataset(t *testing.T) {
	h := newHarness()
	h.commands.Clip("mask.shp")
	if h.clipper.vectorCalls != 0 || h.rbounds.calls != 0 {
		t.Error("clip collaborators called without a dataset")
	}
}

func TestClipSourceReadFailurePreservesDataset(t *testing.T) {
	h := newHarness()
	prior := sampleDataset("prior")
	h.holder.Set(prior)
	h.reader.err = errors.New("unreadable")

	h.commands.Clip("mask.geojson")

	if h.holder.Get() != prior {
		t.Error("failed clip replaced the dataset")
	}
	if h.clipper.vectorCalls != 0 {
		t.Error("clipper called after read failure")
	}
}

func TestAttributeTableNoDataset(t *testing.T) {
	h := newHarness()
	_, err := h.commands.AttributeTable()
	if !errors.Is(err, ErrNoDataset) {
		t.Errorf("AttributeTable() error = %v, want ErrNoDataset", err)
	}
}

func TestAttributeTable(t *testing.T) {
	h := newHarness()
	h.holder.Set(sampleDataset(""))

	table, err := h.commands.AttributeTable()
	if err != nil {
		t.Fatalf("AttributeTable() error = %v", err)
	}
	defer table.Release()

	if got := table.NumRows(); got != 1 {
		t.Errorf("NumRows() = %d, want 1", got)
	}
	if got := table.NumCols(); got != 1 {
		t.Errorf("NumCols() = %d, want 1", got)
	}
}

func TestLabelFeatures(t *testing.T) {
	h := newHarness()
	h.holder.Set(sampleDataset(""))
	h.commands.SetView(ViewRect{MinX: 0, MaxX: 2, MinY: 0, MaxY: 2})

	h.commands.LabelFeatures("name")

	ls := h.commands.Labels()
	if ls == nil {
		t.Fatal("Labels() = nil after LabelFeatures")
	}
	if got := ls.VisibleCount(); got != 1 {
		t.Errorf("VisibleCount() = %d, want 1", got)
	}
}

func TestLabelFeaturesFailureKeepsPriorLabels(t *testing.T) {
	h := newHarness()
	h.holder.Set(sampleDataset(""))
	h.commands.SetView(ViewRect{MinX: 0, MaxX: 2, MinY: 0, MaxY: 2})
	h.commands.LabelFeatures("name")
	prior := h.commands.Labels()

	broken := sampleDataset("")
	broken.Features = append(broken.Features, geodata.Feature{Geometry: nil})
	h.holder.Set(broken)

	h.commands.LabelFeatures("name")

	if h.commands.Labels() != prior {
		t.Error("failed labeling replaced the prior label set")
	}
	if len(h.reporter.failures) != 1 {
		t.Errorf("failures = %d, want 1", len(h.reporter.failures))
	}
}

func TestOpenClearsLabels(t *testing.T) {
	h := newHarness()
	h.holder.Set(sampleDataset(""))
	h.commands.LabelFeatures("name")

	h.reader.ds = sampleDataset("next")
	h.commands.Open("next.geojson")

	if h.commands.Labels() != nil {
		t.Error("labels survived opening a new file")
	}
}

func TestSetViewRecullsLabels(t *testing.T) {
	h := newHarness()
	h.holder.Set(sampleDataset("")) // single feature at (1, 1)
	h.commands.SetView(ViewRect{MinX: 0, MaxX: 2, MinY: 0, MaxY: 2})
	h.commands.LabelFeatures("name")

	if got := h.commands.Labels().VisibleCount(); got != 1 {
		t.Fatalf("VisibleCount() = %d, want 1", got)
	}

	// Pan away: the label must be culled before the next render.
	h.commands.SetView(ViewRect{MinX: 10, MaxX: 12, MinY: 10, MaxY: 12})
	if got := h.commands.Labels().VisibleCount(); got != 0 {
		t.Errorf("VisibleCount() after pan = %d, want 0", got)
	}

	// Pan back.
	h.commands.SetView(ViewRect{MinX: 0, MaxX: 2, MinY: 0, MaxY: 2})
	if got := h.commands.Labels().VisibleCount(); got != 1 {
		t.Errorf("VisibleCount() after return = %d, want 1", got)
	}
}

package viewer

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/paulmach/orb"

	"geoview/internal/geodata"
)

// Collaborator contracts. The geodata package provides the production
// implementations; tests substitute fakes.
type (
	// FileReader loads a vector dataset from a path.
	FileReader interface {
		Read(path string) (*geodata.Dataset, error)
	}

	// Reprojector transforms a dataset into a target EPSG system.
	Reprojector interface {
		Reproject(ds *geodata.Dataset, epsg int) (*geodata.Dataset, error)
	}

	// VectorClipper clips a dataset against another dataset's polygons.
	VectorClipper interface {
		ClipByVector(ds, clip *geodata.Dataset) (*geodata.Dataset, error)
	}

	// RasterClipper selects a dataset's features by a raster's bounding box.
	RasterClipper interface {
		ClipByRasterBounds(ds *geodata.Dataset, b orb.Bound) (*geodata.Dataset, error)
	}

	// RasterBounds resolves a raster file's georeferenced extent.
	RasterBounds interface {
		Bounds(path string) (orb.Bound, error)
	}
)

// Commands implements the menu-driven operations. Each handler is
// transactional against the holder: it either fully replaces the dataset
// (which triggers enablement and render refresh through the holder's
// observers) or changes nothing. Failures are caught here and surfaced
// through the Reporter; they never propagate to the shell.
type Commands struct {
	holder *Holder
	labels *LabelSet
	view   ViewRect

	reader   FileReader
	reproj   Reprojector
	vclip    VectorClipper
	rclip    RasterClipper
	rbounds  RasterBounds
	reporter Reporter
	flog     *FailureLog
}

// NewCommands wires the handlers to their collaborators. flog may be nil to
// disable the on-disk error log.
func NewCommands(
	holder *Holder,
	reader FileReader,
	reproj Reprojector,
	vclip VectorClipper,
	rclip RasterClipper,
	rbounds RasterBounds,
	reporter Reporter,
	flog *FailureLog,
) *Commands {
	return &Commands{
		holder:   holder,
		reader:   reader,
		reproj:   reproj,
		vclip:    vclip,
		rclip:    rclip,
		rbounds:  rbounds,
		reporter: reporter,
		flog:     flog,
	}
}

// Labels returns the current label set, nil when labeling is off.
func (c *Commands) Labels() *LabelSet { return c.labels }

// View returns the last view rectangle the commands saw.
func (c *Commands) View() ViewRect { return c.view }

// SetView records a view change and re-culls the current labels before the
// shell's next render. Subscribe this to the canvas's view notifier.
func (c *Commands) SetView(v ViewRect) {
	c.view = v
	if c.labels != nil {
		c.labels.UpdateVisibility(v)
	}
}

// Open loads the file at path and replaces the held dataset. On failure the
// previously held dataset — or its absence — is preserved; a failed re-open
// never destroys a valid document.
func (c *Commands) Open(path string) {
	ds, err := c.reader.Read(path)
	if err != nil {
		c.fail("Open File", classify(err), err)
		return
	}
	ds.SourcePath = path
	c.labels = nil
	c.holder.Set(ds)
	c.reporter.Status("Opened file: " + path)
}

// CloseFile clears the document and any labels.
func (c *Commands) CloseFile() {
	c.labels = nil
	c.holder.Clear()
	c.reporter.Status("Ready")
}

// ProjectionInfo returns the display text for the projection dialog.
// An absent CRS reads as "Undefined projection" rather than failing. The
// second result is false when no dataset is loaded.
func (c *Commands) ProjectionInfo() (string, bool) {
	ds := c.holder.Get()
	if ds == nil {
		c.reporter.Warn("Projection Info", "No GIS file is opened.")
		return "", false
	}
	if !ds.HasCRS() {
		return "Undefined projection", true
	}
	return ds.CRS, true
}

// SwitchProjection reprojects the document into the EPSG code the user
// typed. Non-numeric input is a validation warning and performs no state
// change; reprojection failures leave the dataset unchanged.
func (c *Commands) SwitchProjection(code string) {
	ds := c.holder.Get()
	if ds == nil {
		c.reporter.Warn("Switch Projection", "No GIS file is opened.")
		return
	}
	epsg, err := strconv.Atoi(strings.TrimSpace(code))
	if err != nil || epsg <= 0 {
		c.reporter.Warn("Switch Projection", "Invalid EPSG code entered.")
		return
	}
	out, err := c.reproj.Reproject(ds, epsg)
	if err != nil {
		c.fail("Switch Projection", classify(err), err)
		return
	}
	c.labels = nil
	c.holder.Set(out)
	c.reporter.Status(fmt.Sprintf("Projection switched to EPSG:%d", epsg))
}

// Clip restricts the document to the extent of another file, dispatching on
// the clip source's extension: .shp/.geojson clip by vector intersection,
// .tif/.tiff clip by the raster's bounding box. Any other extension is a
// warning and performs no clip.
func (c *Commands) Clip(path string) {
	ds := c.holder.Get()
	if ds == nil {
		c.reporter.Warn("Clip Data", "No GIS file is opened.")
		return
	}

	var out *geodata.Dataset
	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp", ".geojson":
		clipDS, err := c.reader.Read(path)
		if err != nil {
			c.fail("Clip Data", classify(err), err)
			return
		}
		out, err = c.vclip.ClipByVector(ds, clipDS)
		if err != nil {
			c.fail("Clip Data", classify(err), err)
			return
		}
	case ".tif", ".tiff":
		b, err := c.rbounds.Bounds(path)
		if err != nil {
			c.fail("Clip Data", classify(err), err)
			return
		}
		out, err = c.rclip.ClipByRasterBounds(ds, b)
		if err != nil {
			c.fail("Clip Data", classify(err), err)
			return
		}
	default:
		c.reporter.Warn("Clip Data", "Unsupported clip source: "+filepath.Ext(path))
		return
	}

	c.labels = nil
	c.holder.Set(out)
	c.reporter.Info("Clip Data", "Data clipped successfully.")
}

// AttributeTable materializes a read-only table of all attribute columns
// across all features. It mutates nothing; the only failure is the missing
// dataset precondition. The caller owns the returned table and must
// Release it.
func (c *Commands) AttributeTable() (arrow.Table, error) {
	ds := c.holder.Get()
	if ds == nil {
		c.reporter.Warn("Attribute Table", "No GIS file is opened.")
		return nil, ErrNoDataset
	}
	return BuildAttributeTable(ds), nil
}

// LabelFeatures builds one label anchor per feature from the chosen field
// and culls it against the current view. Failure leaves any prior labels
// untouched.
func (c *Commands) LabelFeatures(field string) {
	ds := c.holder.Get()
	if ds == nil {
		c.reporter.Warn("Label Features", "No GIS file is opened.")
		return
	}
	anchors, err := BuildAnchors(ds, field)
	if err != nil {
		c.fail("Label Features", KindUnexpected, err)
		return
	}
	c.labels = NewLabelSet(anchors, c.view)
	c.reporter.Status(fmt.Sprintf("Labeled %d features by %q", len(anchors), field))
}

// fail reports a failure and, for unexpected ones, appends it to the error
// log. Validation failures never reach the log.
func (c *Commands) fail(op string, kind FailureKind, err error) {
	f := &Failure{Op: op, Kind: kind, Err: err}
	if kind == KindUnexpected {
		c.flog.Error(f.Error())
	}
	c.reporter.Failure(f)
}

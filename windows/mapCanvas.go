package windows

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/paulmach/orb"

	"geoview/internal/geodata"
	"geoview/internal/viewer"
)

var (
	strokeColor = color.NRGBA{R: 0x2e, G: 0x7d, B: 0x32, A: 0xff}
	pointColor  = color.NRGBA{R: 0x1b, G: 0x5e, B: 0x20, A: 0xff}
	labelColor  = color.NRGBA{R: 0x21, G: 0x21, B: 0x21, A: 0xff}
)

// viewPadding widens the initial view slightly so features on the data
// extent don't sit on the window edge.
const viewPadding = 0.05

// MapCanvas renders the open dataset and owns the view rectangle. Dragging
// pans, scrolling zooms about the view center, tapping identifies the
// nearest feature. Every view change is published before the redraw so
// label culling sees the new extent first.
type MapCanvas struct {
	widget.BaseWidget

	content *fyne.Container
	dataset *geodata.Dataset
	index   *viewer.FeatureIndex
	view    viewer.ViewRect

	// Views publishes after pan, zoom, or dataset replacement, before the
	// redraw, so subscribers see the new extent first.
	Views *viewer.ViewNotifier
	// OnIdentify fires with the feature nearest to a tap.
	OnIdentify func(f geodata.Feature, at fyne.Position)
	// Labels supplies the current label set at redraw time; may return nil.
	Labels func() *viewer.LabelSet
}

func NewMapCanvas() *MapCanvas {
	m := &MapCanvas{
		content: container.NewWithoutLayout(),
		Views:   &viewer.ViewNotifier{},
	}
	m.ExtendBaseWidget(m)
	return m
}

func (m *MapCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(m.content)
}

// SetDataset replaces the rendered dataset, resets the view to the data
// extent and rebuilds the identify index. A nil dataset clears the canvas.
func (m *MapCanvas) SetDataset(ds *geodata.Dataset) {
	m.dataset = ds
	if ds == nil {
		m.index = nil
		m.view = viewer.ViewRect{}
		m.publishView()
		m.Redraw()
		return
	}
	m.index = viewer.NewFeatureIndex(ds)
	m.view = paddedView(ds.Bounds)
	m.publishView()
	m.Redraw()
}

// View returns the current view rectangle.
func (m *MapCanvas) View() viewer.ViewRect { return m.view }

func (m *MapCanvas) publishView() {
	m.Views.Publish(m.view)
}

// Dragged pans the view by the pointer delta.
func (m *MapCanvas) Dragged(e *fyne.DragEvent) {
	if m.dataset == nil || m.view.IsZero() {
		return
	}
	size := m.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return
	}
	dx := float64(e.Dragged.DX) / float64(size.Width) * m.view.Width()
	dy := float64(e.Dragged.DY) / float64(size.Height) * m.view.Height()
	m.view.MinX -= dx
	m.view.MaxX -= dx
	m.view.MinY += dy
	m.view.MaxY += dy
	m.publishView()
	m.Redraw()
}

func (m *MapCanvas) DragEnd() {}

// Scrolled zooms about the view center: scroll up narrows the extent,
// scroll down widens it.
func (m *MapCanvas) Scrolled(e *fyne.ScrollEvent) {
	if m.dataset == nil || m.view.IsZero() {
		return
	}
	factor := 1.25
	if e.Scrolled.DY > 0 {
		factor = 0.8
	}
	cx := (m.view.MinX + m.view.MaxX) / 2
	cy := (m.view.MinY + m.view.MaxY) / 2
	hw := m.view.Width() / 2 * factor
	hh := m.view.Height() / 2 * factor
	m.view = viewer.ViewRect{MinX: cx - hw, MaxX: cx + hw, MinY: cy - hh, MaxY: cy + hh}
	m.publishView()
	m.Redraw()
}

// Tapped identifies the feature nearest the tap position.
func (m *MapCanvas) Tapped(e *fyne.PointEvent) {
	if m.index == nil || m.OnIdentify == nil || m.view.IsZero() {
		return
	}
	pt := m.toWorld(e.Position)
	if f, ok := m.index.Nearest(pt); ok {
		m.OnIdentify(f, e.AbsolutePosition)
	}
}

// Redraw rebuilds the canvas objects from the dataset, view and labels.
func (m *MapCanvas) Redraw() {
	m.content.RemoveAll()
	if m.dataset != nil && !m.view.IsZero() {
		for _, f := range m.dataset.Features {
			m.drawGeometry(f.Geometry)
		}
		m.drawLabels()
	}
	m.content.Refresh()
}

func (m *MapCanvas) drawLabels() {
	if m.Labels == nil {
		return
	}
	ls := m.Labels()
	if ls == nil {
		return
	}
	for _, a := range ls.Anchors() {
		if !ls.IsVisible(a.ID) {
			continue
		}
		txt := canvas.NewText(a.Text, labelColor)
		txt.TextSize = 11
		txt.Move(m.toScreen(a.At))
		m.content.Add(txt)
	}
}

func (m *MapCanvas) drawGeometry(g orb.Geometry) {
	switch geom := g.(type) {
	case orb.Point:
		m.drawPoint(geom)
	case orb.MultiPoint:
		for _, p := range geom {
			m.drawPoint(p)
		}
	case orb.LineString:
		m.drawLine(geom)
	case orb.MultiLineString:
		for _, ls := range geom {
			m.drawLine(ls)
		}
	case orb.Ring:
		m.drawLine(orb.LineString(geom))
	case orb.Polygon:
		for _, ring := range geom {
			m.drawLine(orb.LineString(ring))
		}
	case orb.MultiPolygon:
		for _, poly := range geom {
			for _, ring := range poly {
				m.drawLine(orb.LineString(ring))
			}
		}
	case orb.Collection:
		for _, sub := range geom {
			m.drawGeometry(sub)
		}
	}
}

func (m *MapCanvas) drawPoint(p orb.Point) {
	c := canvas.NewCircle(pointColor)
	pos := m.toScreen(p)
	c.Resize(fyne.NewSize(6, 6))
	c.Move(fyne.NewPos(pos.X-3, pos.Y-3))
	m.content.Add(c)
}

func (m *MapCanvas) drawLine(ls orb.LineString) {
	for i := 1; i < len(ls); i++ {
		l := canvas.NewLine(strokeColor)
		l.StrokeWidth = 1.5
		l.Position1 = m.toScreen(ls[i-1])
		l.Position2 = m.toScreen(ls[i])
		m.content.Add(l)
	}
}

func (m *MapCanvas) toScreen(p orb.Point) fyne.Position {
	size := m.Size()
	x := (p[0] - m.view.MinX) / m.view.Width() * float64(size.Width)
	y := (m.view.MaxY - p[1]) / m.view.Height() * float64(size.Height)
	return fyne.NewPos(float32(x), float32(y))
}

func (m *MapCanvas) toWorld(pos fyne.Position) orb.Point {
	size := m.Size()
	x := m.view.MinX + float64(pos.X)/float64(size.Width)*m.view.Width()
	y := m.view.MaxY - float64(pos.Y)/float64(size.Height)*m.view.Height()
	return orb.Point{x, y}
}

func paddedView(b orb.Bound) viewer.ViewRect {
	w := b.Max[0] - b.Min[0]
	h := b.Max[1] - b.Min[1]
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return viewer.ViewRect{
		MinX: b.Min[0] - w*viewPadding,
		MaxX: b.Max[0] + w*viewPadding,
		MinY: b.Min[1] - h*viewPadding,
		MaxY: b.Max[1] + h*viewPadding,
	}
}

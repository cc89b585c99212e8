package windows

import (
	"fmt"
	"sort"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"geoview/internal/geodata"
	"geoview/internal/viewer"
)

// errorLogPath is the append-only log for unexpected failures.
const errorLogPath = "geoview.log"

// vector formats the viewer can open; clip sources additionally accept
// GeoTIFF rasters.
var (
	openExtensions = []string{".shp", ".geojson", ".json", ".wkt"}
	clipExtensions = []string{".shp", ".geojson", ".tif", ".tiff"}
)

// MainWindow is the application shell: the map canvas, the menu bar and the
// status bar. Menu enablement follows the document holder; every command
// reports back through the window's dialogs so a failed operation never
// takes the shell down.
type MainWindow struct {
	a fyne.App
	w fyne.Window

	holder   *viewer.Holder
	commands *viewer.Commands
	flog     *viewer.FailureLog

	mapView   *MapCanvas
	statusBar *widget.Label

	// Menu items toggled by enablement.
	closeItem      *fyne.MenuItem
	exportItem     *fyne.MenuItem
	projInfoItem   *fyne.MenuItem
	switchProjItem *fyne.MenuItem
	clipItem       *fyne.MenuItem
	attrTableItem  *fyne.MenuItem
	labelItem      *fyne.MenuItem
}

func CreateMainWindow() *MainWindow {
	var v MainWindow
	v.NewMainWindow()
	return &v
}

// SetStatus updates the status bar message.
func (t *MainWindow) SetStatus(message string) {
	if t.statusBar != nil {
		t.statusBar.SetText(message)
	}
}

// Reporter implementation: commands surface their outcomes here.

func (t *MainWindow) Failure(f *viewer.Failure) {
	t.SetStatus(f.Op + " failed")
	dialog.ShowError(f, t.w)
}

func (t *MainWindow) Warn(op, msg string) {
	t.SetStatus(op + ": " + msg)
	dialog.ShowInformation(op, msg, t.w)
}

func (t *MainWindow) Info(op, msg string) {
	t.SetStatus(msg)
	dialog.ShowInformation(op, msg, t.w)
}

func (t *MainWindow) Status(msg string) {
	t.SetStatus(msg)
}

func (t *MainWindow) NewMainWindow() {
	t.a = app.NewWithID("geoview")
	t.a.Settings().SetTheme(&CustomTheme{})
	t.w = t.a.NewWindow("GeoView")
	t.w.Resize(fyne.NewSize(1024, 768))

	t.statusBar = widget.NewLabel("Ready")
	t.statusBar.TextStyle = fyne.TextStyle{Italic: true}

	t.flog, _ = viewer.NewFailureLog(errorLogPath)

	t.holder = viewer.NewHolder()
	t.commands = viewer.NewCommands(
		t.holder,
		geodata.DiskReader{},
		geodata.MercatorReprojector{},
		geodata.Clipper{},
		geodata.Clipper{},
		geodata.RasterBoundsReader{},
		t,
		t.flog,
	)

	t.mapView = NewMapCanvas()
	t.mapView.Labels = t.commands.Labels
	t.mapView.Views.Subscribe(t.commands.SetView)
	t.mapView.OnIdentify = t.showIdentify

	t.holder.OnChange(func(ds *geodata.Dataset) {
		t.mapView.SetDataset(ds)
		t.refreshEnablement()
	})

	t.w.SetMainMenu(t.buildMenu())
	t.refreshEnablement()

	content := container.NewBorder(nil, container.NewHBox(t.statusBar), nil, nil, t.mapView)
	t.w.SetContent(content)
	t.w.SetOnClosed(func() {
		t.flog.Close()
	})
}

// OpenPath loads a file as if picked through File > Open.
func (t *MainWindow) OpenPath(path string) {
	t.commands.Open(path)
}

// ShowAndRun shows the window and enters the event loop.
func (t *MainWindow) ShowAndRun() {
	t.w.ShowAndRun()
}

func (t *MainWindow) buildMenu() *fyne.MainMenu {
	openItem := fyne.NewMenuItem("Open...", func() {
		NewFileDialog(t.w, "Open GIS File", openExtensions, func(path string) {
			t.commands.Open(path)
		}).Show()
	})
	t.closeItem = fyne.NewMenuItem("Close File", func() {
		t.commands.CloseFile()
	})
	t.exportItem = fyne.NewMenuItem("Export Attributes...", func() {
		t.exportAttributes()
	})

	fileMenu := fyne.NewMenu("File", openItem, t.closeItem, fyne.NewMenuItemSeparator(), t.exportItem)

	t.projInfoItem = fyne.NewMenuItem("Projection Info", func() {
		t.showProjectionInfo()
	})
	t.switchProjItem = fyne.NewMenuItem("Switch Projection...", func() {
		t.promptSwitchProjection()
	})
	t.clipItem = fyne.NewMenuItem("Clip...", func() {
		NewFileDialog(t.w, "Select Clip Source", clipExtensions, func(path string) {
			t.commands.Clip(path)
		}).Show()
	})
	t.attrTableItem = fyne.NewMenuItem("Attribute Table", func() {
		t.showAttributeTable()
	})
	t.labelItem = fyne.NewMenuItem("Label Features...", func() {
		t.promptLabelFeatures()
	})

	opsMenu := fyne.NewMenu("Operations",
		t.projInfoItem, t.switchProjItem, fyne.NewMenuItemSeparator(),
		t.clipItem, t.attrTableItem, t.labelItem)

	return fyne.NewMainMenu(fileMenu, opsMenu)
}

// refreshEnablement recomputes menu enablement from the document state.
// Every dataset change lands here through the holder.
func (t *MainWindow) refreshEnablement() {
	e := viewer.EnablementFor(t.holder.HasDataset())
	t.projInfoItem.Disabled = !e.ProjectionInfo
	t.switchProjItem.Disabled = !e.SwitchProjection
	t.clipItem.Disabled = !e.Clip
	t.attrTableItem.Disabled = !e.AttributeTable
	t.labelItem.Disabled = !e.LabelFeatures
	t.closeItem.Disabled = !t.holder.HasDataset()
	t.exportItem.Disabled = !e.AttributeTable
	if menu := t.w.MainMenu(); menu != nil {
		menu.Refresh()
	}
}

func (t *MainWindow) showProjectionInfo() {
	info, ok := t.commands.ProjectionInfo()
	if !ok {
		return
	}
	label := widget.NewLabel(info)
	label.Wrapping = fyne.TextWrapWord
	copyButton := widget.NewButton("Copy", func() {
		t.w.Clipboard().SetContent(info)
		t.SetStatus("Projection copied to clipboard")
	})
	content := container.NewBorder(nil, container.NewHBox(copyButton), nil, nil, label)
	d := dialog.NewCustom("Projection Info", "Close", content, t.w)
	d.Resize(fyne.NewSize(400, 200))
	d.Show()
}

func (t *MainWindow) promptSwitchProjection() {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("4326")
	dialog.ShowForm("Switch Projection", "Switch", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("EPSG code", entry)},
		func(ok bool) {
			if !ok {
				return
			}
			t.commands.SwitchProjection(entry.Text)
		}, t.w)
}

func (t *MainWindow) promptLabelFeatures() {
	ds := t.holder.Get()
	if ds == nil {
		t.Warn("Label Features", "No GIS file is opened.")
		return
	}
	if len(ds.Fields) == 0 {
		t.Warn("Label Features", "The dataset has no attribute fields.")
		return
	}
	sel := widget.NewSelect(ds.Fields, nil)
	sel.SetSelectedIndex(0)
	dialog.ShowForm("Label Features", "Label", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Field", sel)},
		func(ok bool) {
			if !ok || sel.Selected == "" {
				return
			}
			t.commands.LabelFeatures(sel.Selected)
			t.mapView.Redraw()
		}, t.w)
}

func (t *MainWindow) showAttributeTable() {
	table, err := t.commands.AttributeTable()
	if err != nil {
		return
	}
	NewAttributeTableDialog(t.w, table).Show()
}

func (t *MainWindow) exportAttributes() {
	table, err := t.commands.AttributeTable()
	if err != nil {
		return
	}

	format := widget.NewSelect([]string{"Parquet", "CSV", "JSON"}, nil)
	format.SetSelectedIndex(0)
	entry := widget.NewEntry()
	entry.SetPlaceHolder("/path/to/attributes.parquet")
	dialog.ShowForm("Export Attributes", "Export", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Format", format),
			widget.NewFormItem("File path", entry),
		},
		func(ok bool) {
			defer table.Release()
			if !ok || entry.Text == "" {
				return
			}
			var err error
			switch format.Selected {
			case "CSV":
				err = ExportToCSV(table, entry.Text)
			case "JSON":
				err = ExportToJSON(table, entry.Text)
			default:
				err = ExportToParquet(table, entry.Text)
			}
			if err != nil {
				dialog.ShowError(err, t.w)
				return
			}
			t.Info("Export Attributes", "Exported to "+entry.Text)
		}, t.w)
}

// showIdentify pops the nearest feature's attributes at the tap position.
func (t *MainWindow) showIdentify(f geodata.Feature, at fyne.Position) {
	keys := make([]string, 0, len(f.Properties))
	for k := range f.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\n", k, f.AttributeString(k))
	}
	if b.Len() == 0 {
		b.WriteString("(no attributes)")
	}

	label := widget.NewLabel(strings.TrimRight(b.String(), "\n"))
	widget.ShowPopUpAtPosition(label, t.w.Canvas(), at)
}

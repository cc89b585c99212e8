package windows

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// AttributeTableDialog presents a read-only attribute table with export
// buttons. It takes ownership of the Arrow table and releases it when the
// dialog closes.
type AttributeTableDialog struct {
	window  fyne.Window
	table   arrow.Table
	headers []string
	rows    [][]string
}

func NewAttributeTableDialog(w fyne.Window, table arrow.Table) *AttributeTableDialog {
	d := &AttributeTableDialog{window: w, table: table}
	d.materialize()
	return d
}

// materialize renders every cell to display text up front so the table
// widget never touches Arrow memory during scrolling.
func (d *AttributeTableDialog) materialize() {
	schema := d.table.Schema()
	d.headers = make([]string, schema.NumFields())
	for i, field := range schema.Fields() {
		d.headers[i] = field.Name
	}

	d.rows = make([][]string, 0, d.table.NumRows())
	tr := array.NewTableReader(d.table, d.table.NumRows())
	defer tr.Release()

	for tr.Next() {
		rec := tr.Record()
		for rowIdx := int64(0); rowIdx < rec.NumRows(); rowIdx++ {
			row := make([]string, rec.NumCols())
			for colIdx, col := range rec.Columns() {
				row[colIdx] = formatValue(col, int(rowIdx))
			}
			d.rows = append(d.rows, row)
		}
	}
}

func (d *AttributeTableDialog) Show() {
	grid := widget.NewTable(
		func() (int, int) {
			return len(d.rows), len(d.headers)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("template")
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)
			label.SetText(d.rows[id.Row][id.Col])
		},
	)
	grid.ShowHeaderRow = true
	grid.CreateHeader = func() fyne.CanvasObject {
		l := widget.NewLabel("header")
		l.TextStyle = fyne.TextStyle{Bold: true}
		return l
	}
	grid.UpdateHeader = func(id widget.TableCellID, obj fyne.CanvasObject) {
		label := obj.(*widget.Label)
		if id.Col >= 0 && id.Col < len(d.headers) {
			label.SetText(d.headers[id.Col])
		} else {
			label.SetText("")
		}
	}
	for i := range d.headers {
		grid.SetColumnWidth(i, 140)
	}

	exportBar := container.NewHBox(
		widget.NewButton("Export Parquet...", func() { d.export(".parquet", ExportToParquet) }),
		widget.NewButton("Export CSV...", func() { d.export(".csv", ExportToCSV) }),
		widget.NewButton("Export JSON...", func() { d.export(".json", ExportToJSON) }),
	)

	content := container.NewBorder(nil, exportBar, nil, nil, grid)

	dlg := dialog.NewCustom("Attribute Table", "Close", content, d.window)
	dlg.Resize(fyne.NewSize(800, 600))
	dlg.SetOnClosed(func() {
		d.table.Release()
	})
	dlg.Show()
}

func (d *AttributeTableDialog) export(ext string, write func(arrow.Table, string) error) {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("attributes" + ext)
	dialog.ShowForm("Export Attributes", "Export", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("File path", entry)},
		func(ok bool) {
			if !ok || entry.Text == "" {
				return
			}
			if err := write(d.table, entry.Text); err != nil {
				dialog.ShowError(err, d.window)
				return
			}
			dialog.ShowInformation("Export Attributes", "Exported to "+entry.Text, d.window)
		}, d.window)
}

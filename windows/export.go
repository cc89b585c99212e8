package windows

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// ExportToParquet writes the attribute table to a Snappy-compressed
// Parquet file.
func ExportToParquet(table arrow.Table, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer file.Close()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	writer, err := pqarrow.NewFileWriter(table.Schema(), file, props, arrowProps)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	defer writer.Close()

	if err := writer.WriteTable(table, table.NumRows()); err != nil {
		return fmt.Errorf("failed to write table to parquet: %w", err)
	}

	return nil
}

// ExportToCSV writes the attribute table as CSV with a header row.
func ExportToCSV(table arrow.Table, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	schema := table.Schema()
	headers := make([]string, schema.NumFields())
	for i, field := range schema.Fields() {
		headers[i] = field.Name
	}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	tr := array.NewTableReader(table, table.NumRows())
	defer tr.Release()

	for tr.Next() {
		rec := tr.Record()
		numRows := rec.NumRows()

		for rowIdx := int64(0); rowIdx < numRows; rowIdx++ {
			row := make([]string, rec.NumCols())
			for colIdx, col := range rec.Columns() {
				row[colIdx] = formatValue(col, int(rowIdx))
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	if tr.Err() != nil {
		return fmt.Errorf("error reading table: %w", tr.Err())
	}

	return nil
}

// ExportToJSON writes the attribute table as an indented JSON array of
// row objects, preserving value types.
func ExportToJSON(table arrow.Table, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	tr := array.NewTableReader(table, table.NumRows())
	defer tr.Release()

	var records []map[string]interface{}
	schema := table.Schema()

	for tr.Next() {
		rec := tr.Record()
		numRows := rec.NumRows()

		for rowIdx := int64(0); rowIdx < numRows; rowIdx++ {
			record := make(map[string]interface{})
			for colIdx, col := range rec.Columns() {
				record[schema.Field(colIdx).Name] = getTypedValue(col, int(rowIdx))
			}
			records = append(records, record)
		}
	}

	if tr.Err() != nil {
		return fmt.Errorf("error reading table: %w", tr.Err())
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// formatValue renders an attribute cell as display text. The attribute
// table only produces string, boolean and float64 columns; nulls render
// empty.
func formatValue(col arrow.Array, pos int) string {
	if col.IsNull(pos) {
		return ""
	}

	switch col.DataType().ID() {
	case arrow.STRING:
		s := col.(*array.String)
		return s.Value(pos)

	case arrow.BOOL:
		b := col.(*array.Boolean)
		return fmt.Sprintf("%v", b.Value(pos))

	case arrow.FLOAT64:
		f64 := col.(*array.Float64)
		v := f64.Value(pos)
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)

	default:
		return fmt.Sprintf("%v", col)
	}
}

// getTypedValue returns the typed value for JSON export.
func getTypedValue(col arrow.Array, pos int) interface{} {
	if col.IsNull(pos) {
		return nil
	}

	switch col.DataType().ID() {
	case arrow.STRING:
		s := col.(*array.String)
		return s.Value(pos)

	case arrow.BOOL:
		b := col.(*array.Boolean)
		return b.Value(pos)

	case arrow.FLOAT64:
		f64 := col.(*array.Float64)
		return f64.Value(pos)

	default:
		return formatValue(col, pos)
	}
}

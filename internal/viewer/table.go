package viewer

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"geoview/internal/geodata"
)

// BuildAttributeTable materializes the dataset's attributes as an Arrow
// table: one column per field, one row per feature, in the dataset's field
// and feature order. A column whose values are all float64 becomes a
// Float64 column, all bool a Boolean column; anything mixed falls back to
// strings. A feature missing a field yields a null. The caller must
// Release the table.
func BuildAttributeTable(ds *geodata.Dataset) arrow.Table {
	pool := memory.NewGoAllocator()

	fields := make([]arrow.Field, len(ds.Fields))
	columns := make([]arrow.Column, len(ds.Fields))
	for i, name := range ds.Fields {
		dt := columnType(ds, name)
		fields[i] = arrow.Field{Name: name, Type: dt, Nullable: true}

		builder := array.NewBuilder(pool, dt)
		for _, f := range ds.Features {
			v, ok := f.Properties[name]
			if !ok || v == nil {
				builder.AppendNull()
				continue
			}
			appendValue(builder, v)
		}
		arr := builder.NewArray()
		builder.Release()

		chunked := arrow.NewChunked(dt, []arrow.Array{arr})
		columns[i] = *arrow.NewColumn(fields[i], chunked)
		arr.Release()
		chunked.Release()
	}

	schema := arrow.NewSchema(fields, nil)
	return array.NewTable(schema, columns, int64(len(ds.Features)))
}

// columnType picks the narrowest Arrow type that holds every non-missing
// value of the field.
func columnType(ds *geodata.Dataset, field string) arrow.DataType {
	allFloat, allBool := true, true
	seen := false
	for _, f := range ds.Features {
		v, ok := f.Properties[field]
		if !ok || v == nil {
			continue
		}
		seen = true
		if _, isF := v.(float64); !isF {
			allFloat = false
		}
		if _, isB := v.(bool); !isB {
			allBool = false
		}
	}
	switch {
	case seen && allFloat:
		return arrow.PrimitiveTypes.Float64
	case seen && allBool:
		return arrow.FixedWidthTypes.Boolean
	default:
		return arrow.BinaryTypes.String
	}
}

func appendValue(builder array.Builder, v any) {
	switch b := builder.(type) {
	case *array.Float64Builder:
		b.Append(v.(float64))
	case *array.BooleanBuilder:
		b.Append(v.(bool))
	case *array.StringBuilder:
		b.Append(attributeText(v))
	default:
		builder.AppendNull()
	}
}

func attributeText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Table is a grid of formatted cells under a header row.
type Table struct {
	Headers []string
	Rows    [][]any
}

// BuildTable resolves and formats every header against every row.
// Rows may be maps, structs or Row implementations.
func BuildTable(headers []string, rows []any) Table {
	table := Table{
		Headers: append([]string(nil), headers...),
		Rows:    make([][]any, 0, len(rows)),
	}
	for _, r := range rows {
		row := AsRow(r)
		cells := make([]any, len(headers))
		for i, h := range headers {
			cells[i] = FormatValue(ResolveValue(row, h), h)
		}
		table.Rows = append(table.Rows, cells)
	}
	return table
}

// Rows converts a typed slice into the []any BuildTable accepts.
func Rows[T any](items []T) []any {
	out := make([]any, len(items))
	for i := range items {
		out[i] = items[i]
	}
	return out
}

// Records returns the table body as text cells.
func (t Table) Records() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rec := make([]string, len(row))
		for j, cell := range row {
			rec[j] = cellString(cell)
		}
		out[i] = rec
	}
	return out
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case decimal.Decimal:
		return x.String()
	case time.Time:
		return x.Format(DateLayout)
	case bool:
		return strconv.FormatBool(x)
	case []byte:
		return string(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

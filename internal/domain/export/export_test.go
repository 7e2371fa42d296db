package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type auditInfo struct {
	CreatedAt time.Time `db:"created_at"`
}

type registerRow struct {
	auditInfo
	Number       string          `db:"number" json:"number"`
	CustomerName string          `db:"customer_name"`
	TotalCost    decimal.Decimal `db:"total_cost" csv:"Cost"`
	WriteOff     decimal.Decimal
	Notes        *string `db:"notes"`
	internal     string
}

func TestResolveValue_MapRow(t *testing.T) {
	row := MapRow{"total_cost": 12.5}

	assert.Equal(t, 12.5, ResolveValue(row, "Total Cost"))
	assert.Equal(t, "", ResolveValue(MapRow{}, "Total Cost"))
	assert.Equal(t, "", ResolveValue(nil, "Total Cost"))
}

func TestResolveValue_Variants(t *testing.T) {
	tests := []struct {
		name   string
		row    MapRow
		header string
		want   any
	}{
		{"canonical", MapRow{"amount_collected": 1}, "Amount Collected", 1},
		{"lowercase with space", MapRow{"amount collected": 2}, "Amount Collected", 2},
		{"camel case", MapRow{"amountCollected": 3}, "Amount Collected", 3},
		{"no spaces", MapRow{"amountcollected": 4}, "Amount Collected", 4},
		{"snake from camel header", MapRow{"customer_name": "Ana"}, "customerName", "Ana"},
		{"canonical beats variants", MapRow{"total_cost": 5, "totalCost": 6}, "Total Cost", 5},
		{"nil value", MapRow{"notes": nil}, "Notes", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveValue(tt.row, tt.header))
		})
	}
}

func TestResolveValue_StructRow(t *testing.T) {
	created := time.Date(2026, time.October, 2, 14, 5, 0, 0, time.UTC)
	row := AsRow(&registerRow{
		auditInfo:    auditInfo{CreatedAt: created},
		Number:       "DST-2026-00001",
		CustomerName: "Marcia Brown",
		TotalCost:    decimal.RequireFromString("75.00"),
		WriteOff:     decimal.RequireFromString("5"),
		internal:     "hidden",
	})

	assert.Equal(t, "DST-2026-00001", ResolveValue(row, "Number"))
	assert.Equal(t, "Marcia Brown", ResolveValue(row, "Customer Name"))
	assert.True(t, decimal.RequireFromString("75").Equal(ResolveValue(row, "Total Cost").(decimal.Decimal)))
	assert.True(t, decimal.RequireFromString("75").Equal(ResolveValue(row, "Cost").(decimal.Decimal)))
	assert.True(t, decimal.RequireFromString("5").Equal(ResolveValue(row, "Write Off").(decimal.Decimal)), "field name, case-insensitive")
	assert.Equal(t, created, ResolveValue(row, "Created At"), "promoted from embedded struct")
	assert.Equal(t, "", ResolveValue(row, "Internal"))
	assert.Equal(t, "", ResolveValue(row, "Missing Column"))
}

func TestResolveValue_PointerFields(t *testing.T) {
	assert.Equal(t, "", ResolveValue(AsRow(registerRow{}), "Notes"))
	assert.Equal(t, "", ResolveValue(MapRow{"notes": (*string)(nil)}, "Notes"))

	notes := "left at reception"
	assert.Equal(t, "left at reception", ResolveValue(AsRow(&registerRow{Notes: &notes}), "Notes"))
}

func TestAsRow(t *testing.T) {
	assert.IsType(t, MapRow{}, AsRow(map[string]any{"a": 1}))
	assert.IsType(t, MapRow{}, AsRow(map[string]string{"a": "1"}))
	assert.IsType(t, StructRow{}, AsRow(registerRow{}))
	assert.IsType(t, StructRow{}, AsRow(&registerRow{}))

	var nilRow *registerRow
	_, ok := AsRow(nilRow).Lookup("number")
	assert.False(t, ok)

	_, ok = AsRow(42).Lookup("number")
	assert.False(t, ok)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		header string
		want   Kind
	}{
		{"Total Cost", KindMoney},
		{"Amount Collected", KindMoney},
		{"Outstanding", KindMoney},
		{"Created At", KindDate},
		{"Distribution Date", KindDate},
		{"Completion Date", KindDate},
		{"Payment Date", KindMoney},
		{"Completion Rate", KindPercent},
		{"Efficiency", KindPercent},
		{"Customer Name", KindText},
		{"Tracking Number", KindText},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.header))
		})
	}
}

func TestFormatValue(t *testing.T) {
	t.Run("empty always blank", func(t *testing.T) {
		assert.Equal(t, "", FormatValue("", "Amount"))
		assert.Equal(t, "", FormatValue(nil, "Created At"))
		assert.Equal(t, "", FormatValue((*string)(nil), "Notes"))
	})

	t.Run("percent", func(t *testing.T) {
		got, ok := FormatValue("45", "Completion Rate").(decimal.Decimal)
		require.True(t, ok)
		assert.True(t, decimal.RequireFromString("0.45").Equal(got), "got %s", got)

		got, ok = FormatValue("n/a", "Completion Rate").(decimal.Decimal)
		require.True(t, ok)
		assert.True(t, got.IsZero())
	})

	t.Run("money", func(t *testing.T) {
		got, ok := FormatValue("19.90", "Total Cost").(decimal.Decimal)
		require.True(t, ok)
		assert.True(t, decimal.RequireFromString("19.9").Equal(got))

		got, ok = FormatValue("free", "Fee").(decimal.Decimal)
		require.True(t, ok)
		assert.True(t, got.IsZero())
	})

	t.Run("date", func(t *testing.T) {
		ts := time.Date(2026, time.October, 18, 23, 10, 0, 0, time.UTC)
		assert.Equal(t, "2026-10-18", FormatValue(ts, "Created At"))
		assert.Equal(t, "2026-10-18", FormatValue(&ts, "Created At"))
		assert.Equal(t, "2026-10-18", FormatValue("2026-10-18T23:10:00Z", "Updated"))
		assert.Equal(t, "2026-10-18", FormatValue("2026-10-18 23:10:00", "Date"))
		assert.Equal(t, "yesterday", FormatValue("yesterday", "Date"), "raw value on parse failure")
	})

	t.Run("passthrough", func(t *testing.T) {
		assert.Equal(t, "1Z999", FormatValue("1Z999", "Tracking Number"))
		assert.Equal(t, 3, FormatValue(3, "Items"))
	})
}

func TestBuildTableAndWriteCSV(t *testing.T) {
	notes := "left at front desk"
	headers := []string{"Number", "Customer Name", "Total Cost", "Created At", "Notes"}
	rows := []any{
		registerRow{
			auditInfo:    auditInfo{CreatedAt: time.Date(2026, time.October, 1, 9, 0, 0, 0, time.UTC)},
			Number:       "DST-2026-00001",
			CustomerName: "Brown, Marcia",
			TotalCost:    decimal.RequireFromString("75.50"),
			Notes:        &notes,
		},
		MapRow{
			"number":        "DST-2026-00002",
			"customer_name": "Ana Li",
			"total_cost":    "12",
			"created_at":    "2026-10-02",
		},
	}

	table := BuildTable(headers, rows)
	require.Len(t, table.Rows, 2)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, table))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		headers,
		{"DST-2026-00001", "Brown, Marcia", "75.5", "2026-10-01", "left at front desk"},
		{"DST-2026-00002", "Ana Li", "12", "2026-10-02", ""},
	}, records)
}

func TestRows(t *testing.T) {
	typed := []registerRow{{Number: "a"}, {Number: "b"}}
	out := Rows(typed)
	require.Len(t, out, 2)
	assert.Equal(t, "b", ResolveValue(AsRow(out[1]), "Number"))
}

package relate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTableIdentifier(t *testing.T) {
	cases := []struct {
		name                          string
		input                         string
		workspace, schemaName, table  string
	}{
		{"bare table", "orders", "", "", "ORDERS"},
		{"schema.table", "sales.orders", "", "sales", "ORDERS"},
		{"workspace.schema.table", "ws.sales.orders", "ws", "sales", "ORDERS"},
		{"quoted segments", `ws."sales"."orders"`, "ws", "sales", "ORDERS"},
		{"backtick segments", "ws.`sales`.`orders`", "ws", "sales", "ORDERS"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ws, sc, tbl := ParseTableIdentifier(tc.input)
			assert.Equal(t, tc.workspace, ws)
			assert.Equal(t, tc.schemaName, sc)
			assert.Equal(t, tc.table, tbl)
		})
	}
}

type stubAdapter struct {
	tables  []string
	columns []ColumnRow
	samples map[string][]string
}

func (s *stubAdapter) ListTables(_ context.Context, _, _ string) ([]string, error) {
	return s.tables, nil
}

func (s *stubAdapter) ListColumns(_ context.Context, _, _ string, _ []string) ([]ColumnRow, error) {
	return s.columns, nil
}

func (s *stubAdapter) SampleValues(_ context.Context, _, _, table, column string, _ int) ([]string, error) {
	return s.samples[table+"."+column], nil
}

func TestDiscoverFromSchema_BuildsTablesFromAdapterRows(t *testing.T) {
	adapter := &stubAdapter{
		tables: []string{"CUSTOMER", "ORDERS"},
		columns: []ColumnRow{
			{Schema: "public", Table: "CUSTOMER", Column: "CUSTOMER_ID", Type: "integer", IsPrimaryKey: true},
			{Schema: "public", Table: "ORDERS", Column: "ORDER_ID", Type: "integer", IsPrimaryKey: true},
			{Schema: "public", Table: "ORDERS", Column: "CUSTOMER_ID", Type: "integer"},
		},
		samples: map[string][]string{
			"CUSTOMER.CUSTOMER_ID": {"1", "2", "3"},
			"ORDERS.CUSTOMER_ID":   {"1", "2", "1"},
		},
	}

	result, err := DiscoverFromSchema(context.Background(), adapter, "", "public", nil, 10)
	require.NoError(t, err)
	require.Len(t, result.Tables, 2)
	require.NotEmpty(t, result.Relationships)
	assert.Equal(t, "ORDERS", result.Relationships[0].LeftTable)
	assert.Equal(t, "CUSTOMER", result.Relationships[0].RightTable)
}

func TestDiscoverFromSchema_SampleFetchFailureDegradesGracefully(t *testing.T) {
	adapter := &failingSampleAdapter{
		columns: []ColumnRow{
			{Schema: "public", Table: "CUSTOMER", Column: "CUSTOMER_ID", Type: "integer", IsPrimaryKey: true},
		},
	}

	result, err := DiscoverFromSchema(context.Background(), adapter, "", "public", []string{"CUSTOMER"}, 5)
	require.NoError(t, err)
	assert.Len(t, result.Tables, 1)
}

type failingSampleAdapter struct {
	columns []ColumnRow
}

func (f *failingSampleAdapter) ListTables(_ context.Context, _, _ string) ([]string, error) {
	return nil, nil
}

func (f *failingSampleAdapter) ListColumns(_ context.Context, _, _ string, _ []string) ([]ColumnRow, error) {
	return f.columns, nil
}

func (f *failingSampleAdapter) SampleValues(_ context.Context, _, _, _, _ string, _ int) ([]string, error) {
	return nil, errSampleFetch
}

var errSampleFetch = errors.New("sample fetch failed")

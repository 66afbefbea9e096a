package enumerate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/relate/internal/schema"
)

func starSchemaTables() []schema.TableDef {
	return []schema.TableDef{
		{Name: "DIM_CUSTOMER", Columns: []schema.ColumnDef{
			{Name: "CUSTOMER_KEY", DeclaredType: "INT", IsDeclaredPrimary: true},
		}},
		{Name: "FACT_ORDERS", Columns: []schema.ColumnDef{
			{Name: "ORDER_ID", DeclaredType: "INT", IsDeclaredPrimary: true},
			{Name: "CUSTOMER_KEY", DeclaredType: "INT"},
		}},
	}
}

func TestCandidates_NoSelfPairs(t *testing.T) {
	tables := starSchemaTables()
	idx := BuildPKIndex(tables)
	candidates := Candidates(tables, idx)

	for _, c := range candidates {
		assert.NotEqual(t, c.FKTable, c.PKTable)
	}
}

func TestCandidates_FindsExpectedPair(t *testing.T) {
	tables := starSchemaTables()
	idx := BuildPKIndex(tables)
	candidates := Candidates(tables, idx)

	var found bool
	for _, c := range candidates {
		if c.FKTable == "FACT_ORDERS" && c.FKColumn == "CUSTOMER_KEY" &&
			c.PKTable == "DIM_CUSTOMER" && c.PKColumn == "CUSTOMER_KEY" {
			found = true
		}
	}
	assert.True(t, found, "expected FACT_ORDERS.CUSTOMER_KEY -> DIM_CUSTOMER.CUSTOMER_KEY candidate")
}

func TestCandidates_EnumerationOrderIsLexicographic(t *testing.T) {
	tables := []schema.TableDef{
		{Name: "B", Columns: []schema.ColumnDef{{Name: "X_ID", DeclaredType: "INT"}}},
		{Name: "A", Columns: []schema.ColumnDef{
			{Name: "B_ID", DeclaredType: "INT"},
			{Name: "C_ID", DeclaredType: "INT"},
		}},
		{Name: "X", Columns: []schema.ColumnDef{{Name: "ID", DeclaredType: "INT", IsDeclaredPrimary: true}}},
		{Name: "C", Columns: []schema.ColumnDef{{Name: "ID", DeclaredType: "INT", IsDeclaredPrimary: true}}},
	}
	idx := BuildPKIndex(tables)
	candidates := Candidates(tables, idx)
	require.NotEmpty(t, candidates)

	for i, c := range candidates {
		assert.Equal(t, i, c.EnumerationIndex)
	}
	for i := 1; i < len(candidates); i++ {
		prev, cur := candidates[i-1], candidates[i]
		prevKey := []string{prev.FKTable, prev.PKTable}
		curKey := []string{cur.FKTable, cur.PKTable}
		assert.True(t, prevKey[0] <= curKey[0], "FK tables must be non-decreasing")
		if prevKey[0] == curKey[0] {
			assert.LessOrEqual(t, prev.FKColumnIdx, cur.FKColumnIdx)
		}
	}
}

func TestCandidates_InputOrderInvariant(t *testing.T) {
	tables := starSchemaTables()
	reversed := []schema.TableDef{tables[1], tables[0]}

	idxA := BuildPKIndex(tables)
	idxB := BuildPKIndex(reversed)

	a := Candidates(tables, idxA)
	b := Candidates(reversed, idxB)

	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].FKTable, b[i].FKTable)
		assert.Equal(t, a[i].FKColumn, b[i].FKColumn)
		assert.Equal(t, a[i].PKTable, b[i].PKTable)
		assert.Equal(t, a[i].PKColumn, b[i].PKColumn)
	}
}

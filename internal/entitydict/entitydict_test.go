package entitydict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAreVariants(t *testing.T) {
	d := New(map[string][]string{
		"CUSTOMER": {"CUST", "C"},
		"ORDER":    {"ORDERS", "O"},
	}, nil)

	tests := []struct {
		name     string
		a, b     string
		expected bool
	}{
		{"identical", "CUSTOMER", "CUSTOMER", true},
		{"canonical and variant", "CUSTOMER", "CUST", true},
		{"two variants of same canonical", "CUST", "C", true},
		{"variant and canonical reversed", "O", "ORDER", true},
		{"unrelated entities", "CUSTOMER", "ORDER", false},
		{"unknown entity", "CUSTOMER", "WIDGET", false},
		{"empty string", "CUSTOMER", "", false},
		{"case insensitive", "customer", "cust", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, d.AreVariants(tt.a, tt.b))
		})
	}
}

func TestCanonicalOf(t *testing.T) {
	d := New(map[string][]string{"CUSTOMER": {"CUST", "C"}}, nil)

	c, ok := d.CanonicalOf("CUST")
	require.True(t, ok)
	assert.Equal(t, "CUSTOMER", c)

	_, ok = d.CanonicalOf("UNKNOWN")
	assert.False(t, ok)
}

func TestPrior(t *testing.T) {
	d := New(
		map[string][]string{"CUSTOMER": {"CUST"}, "ORDER": {"ORDERS"}},
		map[PriorKey]float64{{PKEntity: "CUSTOMER", FKEntity: "ORDER"}: 0.95},
	)

	v, ok := d.Prior("CUSTOMER", "ORDER")
	require.True(t, ok)
	assert.Equal(t, 0.95, v)

	// variant lookup resolves through canonical
	v, ok = d.Prior("CUST", "ORDERS")
	require.True(t, ok)
	assert.Equal(t, 0.95, v)

	_, ok = d.Prior("ORDER", "CUSTOMER")
	assert.False(t, ok, "prior table is directional")
}

func TestMerge(t *testing.T) {
	base := New(map[string][]string{"CUSTOMER": {"CUST"}}, map[PriorKey]float64{
		{PKEntity: "CUSTOMER", FKEntity: "ORDER"}: 0.5,
	})
	overlay := base.Merge(
		map[string][]string{"CUSTOMER": {"CLIENT"}, "SUPPLIER": {"SUPP"}},
		map[PriorKey]float64{{PKEntity: "CUSTOMER", FKEntity: "ORDER"}: 0.99},
	)

	assert.True(t, overlay.AreVariants("CUSTOMER", "CUST"), "base variant survives merge")
	assert.True(t, overlay.AreVariants("CUSTOMER", "CLIENT"), "overlay variant added")
	assert.True(t, overlay.AreVariants("SUPPLIER", "SUPP"), "new overlay entity added")

	v, ok := overlay.Prior("CUSTOMER", "ORDER")
	require.True(t, ok)
	assert.Equal(t, 0.99, v, "overlay prior overrides base")

	// base untouched
	v, ok = base.Prior("CUSTOMER", "ORDER")
	require.True(t, ok)
	assert.Equal(t, 0.5, v)
}

func TestDefault(t *testing.T) {
	d := Default()

	assert.True(t, d.AreVariants("CUSTOMER", "CUST"))
	assert.True(t, d.AreVariants("SUPPLIER", "S"))
	assert.True(t, d.AreVariants("LINEITEM", "L"))

	v, ok := d.Prior("CUSTOMER", "ORDER")
	require.True(t, ok)
	assert.Equal(t, 0.95, v)

	v, ok = d.Prior("REGION", "NATION")
	require.True(t, ok)
	assert.Equal(t, 0.90, v)
}

package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	cases := []struct {
		name            string
		input           string
		wantCoreEntity  string
		wantSuffixGone  string
		wantGenericID   bool
	}{
		{"plain column", "CUSTOMER_ID", "CUSTOMER", "CUSTOMER", false},
		{"two-letter table prefix", "C_CUSTOMER_ID", "CUSTOMER", "CUSTOMER", false},
		{"key suffix", "DEPARTMENT_KEY", "DEPARTMENT", "DEPARTMENT", false},
		{"bare id is generic", "ID", "ID", "ID", true},
		{"bare key is generic", "KEY", "KEY", "KEY", true},
		{"no suffix to strip", "NAME", "NAME", "NAME", false},
		{"short core is generic", "X", "X", "X", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n := Name(tc.input)
			assert.Equal(t, tc.wantCoreEntity, n.CoreEntity)
			assert.Equal(t, tc.wantSuffixGone, n.SuffixRemoved)
			assert.Equal(t, tc.wantGenericID, n.IsGenericID)
		})
	}
}

func TestName_LowercaseAndWhitespaceFolded(t *testing.T) {
	n := Name("  customer_id  ")
	assert.Equal(t, "CUSTOMER_ID", n.Upper)
	assert.Equal(t, "CUSTOMER", n.CoreEntity)
}

func TestTableEntity_SingularizesPluralNames(t *testing.T) {
	core, singular, hasSingular := TableEntity("ORDERS")
	assert.Equal(t, "ORDERS", core)
	assert.True(t, hasSingular)
	assert.Equal(t, "ORDER", singular)
}

func TestTableEntity_SingularTableHasNoSingularForm(t *testing.T) {
	core, singular, hasSingular := TableEntity("CUSTOMER")
	assert.Equal(t, "CUSTOMER", core)
	assert.False(t, hasSingular)
	assert.Empty(t, singular)
}

func TestTableEntity_ShortPluralLikeNameUnaffected(t *testing.T) {
	// length <= 3 after upper-casing should not trigger singularization
	_, _, hasSingular := TableEntity("OS")
	assert.False(t, hasSingular)
}

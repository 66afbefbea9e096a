package typeclass

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		declared string
		expected Class
	}{
		{"INT", Numeric},
		{"BIGINT", Numeric},
		{"DECIMAL(10,2)", Numeric},
		{"VARCHAR(255)", String},
		{"TEXT", String},
		{"DATE", Temporal},
		{"TIMESTAMP", Temporal},
		{"BOOLEAN", Boolean},
		{"BIT", Boolean},
		{"JSONB", Other},
		{"", Other},
	}
	for _, tt := range tests {
		t.Run(tt.declared, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.declared))
		})
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{"identical normalized types", "VARCHAR(255)", "VARCHAR(255)", 1.0},
		{"same class different type", "VARCHAR", "TEXT", 0.8},
		{"numeric variants", "INT", "BIGINT", 0.8},
		{"different class", "VARCHAR", "INT", 0.1},
		{"unknown vs unknown same bucket", "JSONB", "JSONB", 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Score(tt.a, tt.b))
		})
	}
}

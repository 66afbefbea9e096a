package strsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		s1       string
		s2       string
		expected int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"abc", "adc", 1},
		{"abc", "abcd", 1},
		{"kitten", "sitting", 3},
	}

	for _, tc := range tests {
		t.Run(tc.s1+"_"+tc.s2, func(t *testing.T) {
			result := levenshteinDistance(tc.s1, tc.s2)
			assert.Equal(t, tc.expected, result)
		})
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{"empty a returns zero", "", "FOO", 0.0},
		{"empty b returns zero", "FOO", "", 0.0},
		{"identical returns one", "CUSTOMER_ID", "CUSTOMER_ID", 1.0},
		{"punctuation folded before comparing", "customer-id", "customer_id", 1.0},
		{"case folded before comparing", "CustomerId", "customerid", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			assert.InDelta(t, tt.expected, got, 0.0001)
		})
	}

	t.Run("near match scores between zero and one", func(t *testing.T) {
		got := Similarity("CUSTOMERKEY", "CUSTOMERKEYS")
		assert.Greater(t, got, 0.8)
		assert.Less(t, got, 1.0)
	})

	t.Run("dissimilar strings score low", func(t *testing.T) {
		got := Similarity("CUSTOMER", "WAREHOUSE")
		assert.Less(t, got, 0.4)
	})
}

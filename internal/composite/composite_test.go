package composite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/relate/internal/enumerate"
	"github.com/ekaya-inc/relate/internal/schema"
)

func TestAnalyze_FullCompositeCoverageBoosts(t *testing.T) {
	pkIndex := enumerate.PKIndex{
		"ORDER_ITEMS": {{Table: "ORDER_ITEMS", ColumnIdxs: []int{0, 1}, Provenance: schema.ProvenanceDeclared}},
	}
	candidates := []schema.Candidate{
		{FKTable: "X", PKTable: "ORDER_ITEMS", PKColumnIdx: 0, RawConfidence: 0.5},
		{FKTable: "X", PKTable: "ORDER_ITEMS", PKColumnIdx: 1, RawConfidence: 0.5},
	}

	out := Analyze(candidates, pkIndex)
	require.Len(t, out, 2)
	for _, c := range out {
		assert.InDelta(t, 0.60, c.RawConfidence, 0.0001)
		assert.NotEmpty(t, c.CompositeGroupID)
	}
}

func TestAnalyze_PartialCoverageSmallerBoost(t *testing.T) {
	pkIndex := enumerate.PKIndex{
		"T": {{Table: "T", ColumnIdxs: []int{0, 1, 2, 3}, Provenance: schema.ProvenanceDeclared}},
	}
	// only 2 of 4 PK columns covered: coverage = 0.5
	candidates := []schema.Candidate{
		{FKTable: "X", PKTable: "T", PKColumnIdx: 0, RawConfidence: 0.5},
		{FKTable: "X", PKTable: "T", PKColumnIdx: 1, RawConfidence: 0.5},
	}

	out := Analyze(candidates, pkIndex)
	for _, c := range out {
		assert.InDelta(t, 0.55, c.RawConfidence, 0.0001)
	}
}

func TestAnalyze_LowCoverageCompositePenalized(t *testing.T) {
	pkIndex := enumerate.PKIndex{
		"T": {{Table: "T", ColumnIdxs: []int{0, 1, 2, 3}, Provenance: schema.ProvenanceDeclared}},
	}
	// only 1 of 4 PK columns covered: coverage = 0.25 < 0.5
	candidates := []schema.Candidate{
		{FKTable: "X", PKTable: "T", PKColumnIdx: 0, RawConfidence: 0.5},
	}

	out := Analyze(candidates, pkIndex)
	assert.InDelta(t, 0.45, out[0].RawConfidence, 0.0001)
	assert.Empty(t, out[0].CompositeGroupID)
}

func TestAnalyze_SingletonGroupUnaffectedByPenalty(t *testing.T) {
	pkIndex := enumerate.PKIndex{
		"T": {{Table: "T", ColumnIdxs: []int{0}, Provenance: schema.ProvenanceDeclared}},
	}
	candidates := []schema.Candidate{
		{FKTable: "X", PKTable: "T", PKColumnIdx: 0, RawConfidence: 0.5},
	}

	out := Analyze(candidates, pkIndex)
	// singleton group, full coverage -> +0.05 boost (coverage>=0.5 branch), never penalized
	assert.InDelta(t, 0.55, out[0].RawConfidence, 0.0001)
}

func TestAnalyze_ClampsAtOne(t *testing.T) {
	pkIndex := enumerate.PKIndex{
		"ORDER_ITEMS": {{Table: "ORDER_ITEMS", ColumnIdxs: []int{0, 1}, Provenance: schema.ProvenanceDeclared}},
	}
	candidates := []schema.Candidate{
		{FKTable: "X", PKTable: "ORDER_ITEMS", PKColumnIdx: 0, RawConfidence: 0.95},
		{FKTable: "X", PKTable: "ORDER_ITEMS", PKColumnIdx: 1, RawConfidence: 0.95},
	}

	out := Analyze(candidates, pkIndex)
	for _, c := range out {
		assert.Equal(t, 1.0, c.RawConfidence)
	}
}

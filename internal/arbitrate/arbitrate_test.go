package arbitrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/relate/internal/schema"
)

func withEvidence(tag schema.EvidenceTag, score float64) schema.Evidence {
	return schema.Evidence{Tag: tag, Score: score, Weight: 1.0}
}

func TestArbitrate_WinnerAcceptedWhenGatePasses(t *testing.T) {
	candidates := []schema.Candidate{
		{
			FKTable: "ORDERS", FKColumn: "CUSTOMER_ID", PKTable: "CUSTOMER", PKColumn: "CUSTOMER_ID",
			RawConfidence: 0.9,
			Evidence:      []schema.Evidence{withEvidence(schema.EvidenceNameSimilarity, 0.95)},
		},
	}
	out := Arbitrate(candidates, DefaultConfig())
	require.Len(t, out, 1)
	assert.Equal(t, schema.StatusAccepted, out[0].Status)
}

func TestArbitrate_WinnerDroppedWhenGateFails(t *testing.T) {
	candidates := []schema.Candidate{
		{
			FKTable: "ORDERS", FKColumn: "REF", PKTable: "CUSTOMER", PKColumn: "CUSTOMER_ID",
			RawConfidence: 0.6,
			Evidence: []schema.Evidence{
				withEvidence(schema.EvidenceNameSimilarity, 0.2),
				withEvidence(schema.EvidenceDomainPrior, 0.1),
				withEvidence(schema.EvidenceTypeCompatibility, 0.5),
				withEvidence(schema.EvidenceValueContainment, 0.4),
			},
		},
	}
	out := Arbitrate(candidates, DefaultConfig())
	assert.Equal(t, schema.StatusDropped, out[0].Status)
}

func TestArbitrate_SelfReferenceAlwaysSuppressed(t *testing.T) {
	candidates := []schema.Candidate{
		{
			FKTable: "ACCOUNTS", FKColumn: "PARENT_ACCOUNT_ID", PKTable: "ACCOUNTS", PKColumn: "ACCOUNT_ID",
			RawConfidence: 0.99,
			Evidence:      []schema.Evidence{withEvidence(schema.EvidenceNameSimilarity, 1.0)},
		},
	}
	out := Arbitrate(candidates, DefaultConfig())
	assert.Equal(t, schema.StatusDropped, out[0].Status)
}

func TestArbitrate_GenericIDCrossJoinSuppressed(t *testing.T) {
	candidates := []schema.Candidate{
		{
			FKTable: "A", FKColumn: "ID", PKTable: "B", PKColumn: "ID",
			RawConfidence: 0.95,
			Evidence:      []schema.Evidence{withEvidence(schema.EvidenceNameSimilarity, 1.0)},
		},
	}
	out := Arbitrate(candidates, DefaultConfig())
	assert.Equal(t, schema.StatusDropped, out[0].Status)
}

func TestArbitrate_SuffixWithoutPrefixSuppressed(t *testing.T) {
	candidates := []schema.Candidate{
		{
			FKTable: "WIDGET", FKColumn: "WIDGET_ID", PKTable: "GADGET", PKColumn: "GADGET_ID",
			RawConfidence: 0.8,
			Evidence:      []schema.Evidence{withEvidence(schema.EvidenceNameSimilarity, 0.75)},
		},
	}
	out := Arbitrate(candidates, DefaultConfig())
	assert.Equal(t, schema.StatusDropped, out[0].Status)
}

func TestArbitrate_TieBandAcceptsDifferentPKTable(t *testing.T) {
	candidates := []schema.Candidate{
		{
			FKTable: "CUSTOMER", FKColumn: "NATION_KEY", PKTable: "NATION", PKColumn: "NATION_KEY",
			RawConfidence: 0.95,
			Evidence:      []schema.Evidence{withEvidence(schema.EvidenceNameSimilarity, 1.0)},
		},
		{
			FKTable: "CUSTOMER", FKColumn: "NATION_KEY", PKTable: "COUNTRY", PKColumn: "CODE",
			RawConfidence: 0.88,
			Evidence:      []schema.Evidence{withEvidence(schema.EvidenceNameSimilarity, 0.4)},
		},
	}
	out := Arbitrate(candidates, DefaultConfig())
	require.Len(t, out, 2)
	assert.Equal(t, schema.StatusAccepted, out[0].Status)
	assert.Equal(t, schema.StatusAccepted, out[1].Status, "within tie band, different PK table, materially different name similarity")
}

func TestArbitrate_OutOfTieBandRejected(t *testing.T) {
	candidates := []schema.Candidate{
		{
			FKTable: "CUSTOMER", FKColumn: "NATION_KEY", PKTable: "NATION", PKColumn: "NATION_KEY",
			RawConfidence: 0.95,
			Evidence:      []schema.Evidence{withEvidence(schema.EvidenceNameSimilarity, 1.0)},
		},
		{
			FKTable: "CUSTOMER", FKColumn: "NATION_KEY", PKTable: "COUNTRY", PKColumn: "CODE",
			RawConfidence: 0.50,
			Evidence:      []schema.Evidence{withEvidence(schema.EvidenceNameSimilarity, 0.3)},
		},
	}
	out := Arbitrate(candidates, DefaultConfig())
	assert.Equal(t, schema.StatusAccepted, out[0].Status)
	assert.Equal(t, schema.StatusDropped, out[1].Status)
}

func TestArbitrate_NearDuplicateNotAcceptedEvenWithinTieBand(t *testing.T) {
	candidates := []schema.Candidate{
		{
			FKTable: "CUSTOMER", FKColumn: "NATION_KEY", PKTable: "NATION", PKColumn: "NATION_KEY",
			RawConfidence: 0.95,
			Evidence:      []schema.Evidence{withEvidence(schema.EvidenceNameSimilarity, 1.0)},
		},
		{
			FKTable: "CUSTOMER", FKColumn: "NATION_KEY", PKTable: "NATION_ARCHIVE", PKColumn: "NATION_KEY",
			RawConfidence: 0.90,
			Evidence:      []schema.Evidence{withEvidence(schema.EvidenceNameSimilarity, 0.95)},
		},
	}
	out := Arbitrate(candidates, DefaultConfig())
	assert.Equal(t, schema.StatusAccepted, out[0].Status)
	assert.Equal(t, schema.StatusDropped, out[1].Status, "name_similarity too close to winner's to be materially different")
}

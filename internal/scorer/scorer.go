// Package scorer computes the fixed-width evidence vector and combined
// raw_confidence for a single candidate (spec.md §4.6). Each of the seven
// dimensions is independent and clamped to [0,1]; the combination is a
// weighted average, never an additive or multiplicative bonus stack (see
// SPEC_FULL.md §6 on the source's inconsistent business-prior handling).
package scorer

import (
	"fmt"
	"strings"

	"github.com/ekaya-inc/relate/internal/entitydict"
	"github.com/ekaya-inc/relate/internal/normalize"
	"github.com/ekaya-inc/relate/internal/schema"
	"github.com/ekaya-inc/relate/internal/strsim"
	"github.com/ekaya-inc/relate/internal/typeclass"
)

// Weights holds the relative weight of each evidence dimension. The zero
// value is invalid; use DefaultWeights or validate a caller-supplied set
// before constructing a Scorer.
type Weights struct {
	NameSimilarity          float64
	TypeCompatibility       float64
	ValueContainment        float64
	SchemaPattern           float64
	DomainPrior             float64
	Statistical             float64
	CardinalityPlausibility float64
}

// DefaultWeights returns the weights of spec.md §4.6, summing to 1.0.
func DefaultWeights() Weights {
	return Weights{
		NameSimilarity:          0.25,
		TypeCompatibility:       0.15,
		ValueContainment:        0.20,
		SchemaPattern:           0.15,
		DomainPrior:             0.15,
		Statistical:             0.05,
		CardinalityPlausibility: 0.05,
	}
}

// Sum totals the seven weights.
func (w Weights) Sum() float64 {
	return w.NameSimilarity + w.TypeCompatibility + w.ValueContainment +
		w.SchemaPattern + w.DomainPrior + w.Statistical + w.CardinalityPlausibility
}

// Scorer scores candidates against a fixed dictionary and weight set.
type Scorer struct {
	dict    *entitydict.Dictionary
	weights Weights
}

// New builds a Scorer. dict may be nil, in which case domain_prior and
// entity-variant name matching are skipped.
func New(dict *entitydict.Dictionary, weights Weights) *Scorer {
	return &Scorer{dict: dict, weights: weights}
}

// Score fills in cand's Evidence, RawConfidence, Cardinality, and
// Explanation fields given the full column definitions on both sides.
// Explanation carries one human-readable line per evidence dimension
// (SPEC_FULL.md §4), e.g. "name_similarity=0.95 (core entity match)",
// so a caller can see why a candidate scored the way it did without
// re-deriving it from the raw Evidence vector.
func (s *Scorer) Score(cand schema.Candidate, fkTable, pkTable schema.TableDef) schema.Candidate {
	fkCol := fkTable.Columns[cand.FKColumnIdx]
	pkCol := pkTable.Columns[cand.PKColumnIdx]

	nameSim, nameDetail := nameSimilarity(fkCol, pkCol, s.dict)
	typeComp := typeclass.Score(fkCol.DeclaredType, pkCol.DeclaredType)
	containment, containmentPresent := valueContainment(fkCol.SampleValues, pkCol.SampleValues)
	pattern := schemaPattern(fkCol, pkCol, pkTable)
	prior := domainPrior(fkTable, pkTable, s.dict)
	statistical := statisticalPlausibility(fkCol.SampleValues, pkCol.SampleValues)
	cardScore, cardinality := cardinalityPlausibility(fkCol.SampleValues)

	weights := s.weights
	if !containmentPresent {
		weights = renormalizeForAbsentSamples(weights)
	}

	evidence := []schema.Evidence{
		{Tag: schema.EvidenceNameSimilarity, Score: nameSim, Weight: weights.NameSimilarity},
		{Tag: schema.EvidenceTypeCompatibility, Score: typeComp, Weight: weights.TypeCompatibility},
		{Tag: schema.EvidenceValueContainment, Score: containment, Weight: weights.ValueContainment},
		{Tag: schema.EvidenceSchemaPattern, Score: pattern, Weight: weights.SchemaPattern},
		{Tag: schema.EvidenceDomainPrior, Score: prior, Weight: weights.DomainPrior},
		{Tag: schema.EvidenceStatistical, Score: statistical, Weight: weights.Statistical},
		{Tag: schema.EvidenceCardinalityPlaus, Score: cardScore, Weight: weights.CardinalityPlausibility},
	}

	cand.Evidence = evidence
	cand.RawConfidence = clamp01(weightedAverage(evidence))
	cand.Cardinality = cardinality
	cand.Explanation = []string{
		fmt.Sprintf("name_similarity=%.2f (%s)", nameSim, nameDetail),
		fmt.Sprintf("type_compatibility=%.2f (%s)", typeComp, typeDetail(fkCol.DeclaredType, pkCol.DeclaredType)),
		fmt.Sprintf("value_containment=%.2f (%s)", containment, containmentDetail(containmentPresent)),
		fmt.Sprintf("schema_pattern=%.2f", pattern),
		fmt.Sprintf("domain_prior=%.2f (%s)", prior, domainPriorDetail(s.dict, prior)),
		fmt.Sprintf("statistical=%.2f", statistical),
		fmt.Sprintf("cardinality_plausibility=%.2f (%s)", cardScore, cardinality),
	}
	return cand
}

func weightedAverage(evidence []schema.Evidence) float64 {
	var sum, wsum float64
	for _, e := range evidence {
		sum += e.Score * e.Weight
		wsum += e.Weight
	}
	if wsum == 0 {
		return 0
	}
	return sum / wsum
}

// renormalizeForAbsentSamples halves the value_containment weight and
// rescales all seven weights back to sum 1.0 (§4.6.3).
func renormalizeForAbsentSamples(w Weights) Weights {
	w.ValueContainment /= 2
	total := w.Sum()
	if total == 0 {
		return w
	}
	scale := 1.0 / total
	w.NameSimilarity *= scale
	w.TypeCompatibility *= scale
	w.ValueContainment *= scale
	w.SchemaPattern *= scale
	w.DomainPrior *= scale
	w.Statistical *= scale
	w.CardinalityPlausibility *= scale
	return w
}

// nameSimilarity implements §4.6.1's precedence: exact, then core match,
// then entity-variant match, then Levenshtein similarity as a last resort.
// It also returns a short label naming which tier matched, for Explanation.
func nameSimilarity(fkCol, pkCol schema.ColumnDef, dict *entitydict.Dictionary) (float64, string) {
	fkName := normalize.Name(fkCol.Name)
	pkName := normalize.Name(pkCol.Name)

	if fkName.Upper == pkName.Upper {
		return 1.0, "exact name match"
	}
	if fkName.CoreEntity == pkName.CoreEntity {
		return 0.95, "core entity match"
	}
	if dict != nil && dict.AreVariants(fkName.CoreEntity, pkName.CoreEntity) {
		return 0.90, "entity dictionary variant match"
	}
	sim := strsim.Similarity(fkCol.Name, pkCol.Name)
	return clamp01(sim), "levenshtein similarity"
}

// typeDetail labels the type-compatibility branch taken between two
// declared types, for Explanation.
func typeDetail(aType, bType string) string {
	na, nb := typeclass.Normalize(aType), typeclass.Normalize(bType)
	switch {
	case na == nb:
		return fmt.Sprintf("identical declared type %s", na)
	case typeclass.Classify(aType) == typeclass.Classify(bType):
		return fmt.Sprintf("same type class %s", typeclass.Classify(aType))
	default:
		return fmt.Sprintf("%s vs %s", typeclass.Classify(aType), typeclass.Classify(bType))
	}
}

// containmentDetail labels whether value_containment had samples to work
// with, for Explanation.
func containmentDetail(present bool) string {
	if present {
		return "sampled"
	}
	return "samples absent, neutral score"
}

// domainPriorDetail labels whether the domain_prior score came from a
// configured business-prior entry or the absence of one, for Explanation.
func domainPriorDetail(dict *entitydict.Dictionary, prior float64) string {
	if dict == nil {
		return "no entity dictionary configured"
	}
	if prior > 0 {
		return "business prior configured"
	}
	return "no business prior entry"
}

// valueContainment implements §4.6.3. Returns the score and whether both
// sides actually supplied samples (false triggers weight re-normalization).
func valueContainment(fkSamples, pkSamples []string) (float64, bool) {
	if len(fkSamples) == 0 || len(pkSamples) == 0 {
		return 0.5, false
	}

	pkSet := make(map[string]bool, len(pkSamples))
	for _, v := range pkSamples {
		if v != "" {
			pkSet[v] = true
		}
	}

	var nonEmptyFK, matched int
	for _, v := range fkSamples {
		if v == "" {
			continue
		}
		nonEmptyFK++
		if pkSet[v] {
			matched++
		}
	}
	if nonEmptyFK == 0 {
		return 0.5, false
	}

	r := float64(matched) / float64(nonEmptyFK)
	return containmentScore(r), true
}

func containmentScore(r float64) float64 {
	switch {
	case r >= 0.95:
		return 1.0
	case r >= 0.80:
		return linear(r, 0.80, 0.95, 0.8, 1.0)
	case r >= 0.60:
		return linear(r, 0.60, 0.80, 0.5, 0.8)
	case r >= 0.30:
		return linear(r, 0.30, 0.60, 0.2, 0.5)
	default:
		return 0.67 * r
	}
}

func linear(x, x0, x1, y0, y1 float64) float64 {
	if x1 == x0 {
		return y0
	}
	t := (x - x0) / (x1 - x0)
	return y0 + t*(y1-y0)
}

// schemaPattern implements §4.6.4.
func schemaPattern(fkCol, pkCol schema.ColumnDef, pkTable schema.TableDef) float64 {
	fkName := normalize.Name(fkCol.Name)
	pkName := normalize.Name(pkCol.Name)
	pkTableCore, pkTableSingular, hasSingular := normalize.TableEntity(pkTable.Name)

	matchesPKTableEntity := func(core string) bool {
		return core == pkTableCore || (hasSingular && core == pkTableSingular)
	}
	hasKeyOrIDSuffix := func(n schema.NormalizedName) bool {
		return strings.HasSuffix(n.Upper, "KEY") || strings.HasSuffix(n.Upper, "ID")
	}

	var score float64

	if hasKeyOrIDSuffix(fkName) && hasKeyOrIDSuffix(pkName) &&
		matchesPKTableEntity(fkName.CoreEntity) && matchesPKTableEntity(pkName.CoreEntity) {
		score += 0.6
	}

	expected := pkTable.Name + "_" + pkCol.Name
	if (len(pkName.Upper) >= 4 && strings.Contains(fkName.Upper, pkName.Upper)) ||
		strings.EqualFold(fkCol.Name, expected) {
		score += 0.3
	}

	if matchesPKTableEntity(pkName.CoreEntity) {
		score += 0.1
	}

	return clamp01(score)
}

// domainPrior implements the §4.2 lookup feeding §4.6's domain_prior
// dimension. Missing dictionary or missing prior entry both score 0 —
// absence of corroborating business knowledge, not a penalty.
func domainPrior(fkTable, pkTable schema.TableDef, dict *entitydict.Dictionary) float64 {
	if dict == nil {
		return 0
	}
	fkCore, _, _ := normalize.TableEntity(fkTable.Name)
	pkCore, _, _ := normalize.TableEntity(pkTable.Name)
	if v, ok := dict.Prior(pkCore, fkCore); ok {
		return clamp01(v)
	}
	return 0
}

// statisticalPlausibility implements §4.6.5: a simple average of three
// plausibility components, each neutral at 0.5 when samples are absent.
func statisticalPlausibility(fkSamples, pkSamples []string) float64 {
	if len(fkSamples) == 0 || len(pkSamples) == 0 {
		return 0.5
	}

	pkDistinctRatio := distinctNonNullRatio(pkSamples)
	pkComponent := 1.0
	if pkDistinctRatio < 0.8 {
		pkComponent = pkDistinctRatio / 0.8
	}

	cardinalityComponent := 1.0
	if len(fkSamples) < len(pkSamples) {
		cardinalityComponent = float64(len(fkSamples)) / float64(len(pkSamples))
	}

	nullFraction := emptyRatio(fkSamples)
	nullComponent := 1.0
	if nullFraction > 0.5 {
		nullComponent = clamp01(1.0 - (nullFraction-0.5)*2)
	}

	return clamp01((pkComponent + cardinalityComponent + nullComponent) / 3.0)
}

// cardinalityPlausibility implements §4.6.6, doubling as the candidate's
// Cardinality tag (the assembler copies it unchanged onto the emitted
// direct Relationship).
func cardinalityPlausibility(fkSamples []string) (float64, schema.Cardinality) {
	if len(fkSamples) == 0 {
		return 0.5, schema.CardinalityManyToOne
	}
	ratio := distinctNonNullRatio(fkSamples)
	switch {
	case ratio >= 0.95:
		return 1.0, schema.CardinalityOneToOne
	case ratio <= 0.5:
		return 0.8, schema.CardinalityManyToOne
	default:
		return 0.5, schema.CardinalityManyToOne
	}
}

func distinctNonNullRatio(values []string) float64 {
	seen := make(map[string]bool, len(values))
	var nonNull int
	for _, v := range values {
		if v == "" {
			continue
		}
		nonNull++
		seen[v] = true
	}
	if nonNull == 0 {
		return 0
	}
	return float64(len(seen)) / float64(nonNull)
}

func emptyRatio(values []string) float64 {
	if len(values) == 0 {
		return 0
	}
	var empty int
	for _, v := range values {
		if v == "" {
			empty++
		}
	}
	return float64(empty) / float64(len(values))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

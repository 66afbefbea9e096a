// Package arbitrate implements per-FK-column candidate selection and the
// global suppression filters of spec.md §4.8.
package arbitrate

import (
	"sort"
	"strings"

	"github.com/ekaya-inc/relate/internal/normalize"
	"github.com/ekaya-inc/relate/internal/schema"
)

// Config tunes arbitration. A zero TieBand accepts a runner-up only on an
// exact confidence tie with the winner; DefaultConfig gives the default band.
type Config struct {
	TieBand float64
}

// DefaultConfig returns the spec.md §4.8/§6 default tie_band of 0.10.
func DefaultConfig() Config {
	return Config{TieBand: 0.10}
}

// Arbitrate returns a copy of candidates with Status set to accepted or
// dropped. Every input candidate is present in the output; nothing is
// removed from the slice, only its Status (and, for the global filters,
// an Explanation note) changes.
func Arbitrate(candidates []schema.Candidate, cfg Config) []schema.Candidate {
	out := make([]schema.Candidate, len(candidates))
	copy(out, candidates)

	byFK := make(map[string][]int)
	for i := range out {
		if out[i].FKTable == out[i].PKTable {
			out[i].Status = schema.StatusDropped
			out[i].Explanation = append(out[i].Explanation, "self-reference suppressed")
			continue
		}
		if genericIDCrossJoin(out[i]) {
			out[i].Status = schema.StatusDropped
			out[i].Explanation = append(out[i].Explanation, "generic-id cross-join suppressed")
			continue
		}
		if suffixWithoutPrefix(out[i]) {
			out[i].Status = schema.StatusDropped
			out[i].Explanation = append(out[i].Explanation, "suffix-without-prefix match suppressed")
			continue
		}
		key := out[i].FKTable + "\x00" + out[i].FKColumn
		byFK[key] = append(byFK[key], i)
	}

	keys := make([]string, 0, len(byFK))
	for k := range byFK {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		arbitrateGroup(out, byFK[k], cfg)
	}

	return out
}

func arbitrateGroup(out []schema.Candidate, idxs []int, cfg Config) {
	if len(idxs) == 0 {
		return
	}

	sort.SliceStable(idxs, func(a, b int) bool {
		ca, cb := out[idxs[a]], out[idxs[b]]
		if ca.RawConfidence != cb.RawConfidence {
			return ca.RawConfidence > cb.RawConfidence
		}
		return ca.EnumerationIndex < cb.EnumerationIndex
	})

	winnerIdx := idxs[0]
	if !passesQualityGate(out[winnerIdx]) {
		for _, idx := range idxs {
			out[idx].Status = schema.StatusDropped
		}
		out[winnerIdx].Explanation = append(out[winnerIdx].Explanation, "failed quality gate")
		return
	}

	out[winnerIdx].Status = schema.StatusAccepted
	winnerConfidence := out[winnerIdx].RawConfidence
	winnerNameSim := evidenceScore(out[winnerIdx], schema.EvidenceNameSimilarity)
	winnerPKTable := out[winnerIdx].PKTable

	for _, idx := range idxs[1:] {
		c := out[idx]
		withinTieBand := winnerConfidence-c.RawConfidence <= cfg.TieBand
		differentPKTable := c.PKTable != winnerPKTable
		nameSim := evidenceScore(c, schema.EvidenceNameSimilarity)
		materiallyDifferent := absDiff(nameSim, winnerNameSim) > 0.2

		if withinTieBand && differentPKTable && materiallyDifferent {
			out[idx].Status = schema.StatusAccepted
			out[idx].Explanation = append(out[idx].Explanation, "accepted within tie band of winner")
		} else {
			out[idx].Status = schema.StatusDropped
		}
	}
}

// passesQualityGate implements the three-way OR gate of §4.8.
func passesQualityGate(c schema.Candidate) bool {
	nameSim := evidenceScore(c, schema.EvidenceNameSimilarity)
	if nameSim >= 0.7 {
		return true
	}
	domainPrior := evidenceScore(c, schema.EvidenceDomainPrior)
	if domainPrior >= 0.8 {
		return true
	}

	typeComp := evidenceScore(c, schema.EvidenceTypeCompatibility)
	valueContainment := evidenceScore(c, schema.EvidenceValueContainment)
	count := 0
	if typeComp >= 0.9 {
		count++
	}
	if valueContainment >= 0.8 {
		count++
	}
	if domainPrior >= 0.6 {
		count++
	}
	return count >= 2
}

// genericIDCrossJoin implements the generic-id cross-join global filter.
func genericIDCrossJoin(c schema.Candidate) bool {
	fkName := normalize.Name(c.FKColumn)
	if !fkName.IsGenericID {
		return false
	}
	pkCore, pkSingular, hasSingular := normalize.TableEntity(c.PKTable)
	matches := fkName.CoreEntity == pkCore || (hasSingular && fkName.CoreEntity == pkSingular)
	return !matches
}

// suffixWithoutPrefix implements the suffix-without-prefix global filter:
// both sides share a KEY/ID suffix but neither side's core entity lines
// up with the other's, or with the PK table's own entity.
func suffixWithoutPrefix(c schema.Candidate) bool {
	fkName := normalize.Name(c.FKColumn)
	pkName := normalize.Name(c.PKColumn)

	if !hasKeyOrIDSuffix(fkName) || !hasKeyOrIDSuffix(pkName) {
		return false
	}
	if fkName.CoreEntity == pkName.CoreEntity {
		return false
	}

	pkTableCore, pkTableSingular, hasSingular := normalize.TableEntity(c.PKTable)
	if fkName.CoreEntity == pkTableCore || (hasSingular && fkName.CoreEntity == pkTableSingular) {
		return false
	}
	return true
}

func hasKeyOrIDSuffix(n schema.NormalizedName) bool {
	return strings.HasSuffix(n.Upper, "KEY") || strings.HasSuffix(n.Upper, "ID")
}

func evidenceScore(c schema.Candidate, tag schema.EvidenceTag) float64 {
	for _, e := range c.Evidence {
		if e.Tag == tag {
			return e.Score
		}
	}
	return 0
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}

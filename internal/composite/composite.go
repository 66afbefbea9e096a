// Package composite implements the Composite-Key Analyzer of spec.md
// §4.7: candidates are grouped by (fk_table, pk_table) and the group's
// confidence is boosted or penalized according to how much of the
// target PKGroup's own column set the group actually covers.
package composite

import (
	"fmt"

	"github.com/ekaya-inc/relate/internal/enumerate"
	"github.com/ekaya-inc/relate/internal/schema"
)

type groupKey struct {
	fk, pk string
}

// Analyze returns an updated copy of candidates (same order, same
// length) with RawConfidence adjusted and CompositeGroupID assigned for
// members of an accepted composite cluster.
func Analyze(candidates []schema.Candidate, pkIndex enumerate.PKIndex) []schema.Candidate {
	groups := make(map[groupKey][]int)
	for i, c := range candidates {
		k := groupKey{fk: c.FKTable, pk: c.PKTable}
		groups[k] = append(groups[k], i)
	}

	out := make([]schema.Candidate, len(candidates))
	copy(out, candidates)

	for key, idxs := range groups {
		pkColSet := make(map[int]bool, len(idxs))
		for _, i := range idxs {
			pkColSet[out[i].PKColumnIdx] = true
		}

		// pk_coverage is always computed over the winning PKGroup's own
		// column set (never over an arbitrary first candidate pair) —
		// the exact bug spec.md §4.7 calls out as previously mishandled.
		bestGroup, intersection := bestMatchingPKGroup(pkIndex[key.pk], pkColSet)
		if bestGroup == nil {
			continue
		}

		coverage := float64(intersection) / float64(len(bestGroup.ColumnIdxs))
		isComposite := bestGroup.Composite()
		groupID := fmt.Sprintf("%s->%s:%v", key.fk, key.pk, bestGroup.ColumnIdxs)

		for _, i := range idxs {
			if !pkColInGroup(out[i].PKColumnIdx, bestGroup) {
				continue
			}
			switch {
			case coverage >= 1.0 && isComposite:
				out[i].RawConfidence = clamp01(out[i].RawConfidence + 0.10)
				out[i].CompositeGroupID = groupID
			case coverage >= 0.5:
				out[i].RawConfidence = clamp01(out[i].RawConfidence + 0.05)
				if isComposite {
					out[i].CompositeGroupID = groupID
				}
			case isComposite:
				out[i].RawConfidence = clamp01(out[i].RawConfidence - 0.05)
			}
		}
	}

	return out
}

func bestMatchingPKGroup(groups []schema.PKGroup, pkColSet map[int]bool) (*schema.PKGroup, int) {
	var best *schema.PKGroup
	bestCount := 0
	for i := range groups {
		count := 0
		for _, ci := range groups[i].ColumnIdxs {
			if pkColSet[ci] {
				count++
			}
		}
		if count > bestCount {
			bestCount = count
			best = &groups[i]
		}
	}
	if best == nil {
		return nil, 0
	}
	return best, bestCount
}

func pkColInGroup(idx int, group *schema.PKGroup) bool {
	for _, ci := range group.ColumnIdxs {
		if ci == idx {
			return true
		}
	}
	return false
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

// Package assemble turns accepted candidates and derived bridge
// relationships into the final, deterministically ordered Relationship
// sequence: composite-member collapsing, join-type classification,
// match-quality labeling, min_confidence filtering, the max_relationships
// cap, and collision-safe stable-name assignment (spec.md §4.10).
package assemble

import (
	"fmt"
	"sort"

	"github.com/ekaya-inc/relate/internal/schema"
)

// builtRelationship carries the enumeration index of its earliest
// contributing candidate purely as a final, residual sort tie-breaker
// (§4.10 step 4) — it never appears in the emitted DiscoveryResult.
// Derived (bridge) relationships, which have no enumeration index of
// their own, are assigned a sentinel past the end of the direct range so
// they sort after any direct relationship they tie with on confidence,
// tables, and column pairs.
type builtRelationship struct {
	schema.Relationship
	enumerationIndex int
}

// BuildDirect groups accepted candidates into emitted Relationships,
// collapsing composite-cluster siblings (same CompositeGroupID) into one
// Relationship with multiple column pairs ordered by PK column position.
// strictJoinInference controls how the FK column's nullability is
// determined for JoinType classification: strict trusts only the
// declared ColumnDef.IsNullable flag, while non-strict (the default)
// also treats an observed empty-string entry in SampleValues as
// evidence of a nullable column (spec.md §6 strict_join_inference).
func BuildDirect(accepted []schema.Candidate, tablesByName map[string]schema.TableDef, strictJoinInference bool) []builtRelationship {
	compositeGroups := make(map[string][]schema.Candidate)
	groupOrder := make([]string, 0)
	var singles []schema.Candidate

	for _, c := range accepted {
		if c.Status != schema.StatusAccepted {
			continue
		}
		if c.CompositeGroupID != "" {
			if _, seen := compositeGroups[c.CompositeGroupID]; !seen {
				groupOrder = append(groupOrder, c.CompositeGroupID)
			}
			compositeGroups[c.CompositeGroupID] = append(compositeGroups[c.CompositeGroupID], c)
			continue
		}
		singles = append(singles, c)
	}

	out := make([]builtRelationship, 0, len(singles)+len(groupOrder))
	for _, key := range groupOrder {
		out = append(out, buildOne(compositeGroups[key], tablesByName, strictJoinInference))
	}
	for _, c := range singles {
		out = append(out, buildOne([]schema.Candidate{c}, tablesByName, strictJoinInference))
	}
	return out
}

func buildOne(group []schema.Candidate, tablesByName map[string]schema.TableDef, strictJoinInference bool) builtRelationship {
	sort.SliceStable(group, func(i, j int) bool { return group[i].PKColumnIdx < group[j].PKColumnIdx })

	first := group[0]
	fkTable := tablesByName[first.FKTable]

	pairs := make([]schema.ColumnPair, 0, len(group))
	var confSum float64
	minEnumIdx := first.EnumerationIndex
	nullable := false
	var explanation []string

	for _, c := range group {
		pairs = append(pairs, schema.ColumnPair{LeftColumn: c.FKColumn, RightColumn: c.PKColumn})
		confSum += c.RawConfidence
		if c.EnumerationIndex < minEnumIdx {
			minEnumIdx = c.EnumerationIndex
		}
		if col, ok := columnByName(fkTable, c.FKColumn); ok && columnNullable(col, strictJoinInference) {
			nullable = true
		}
		explanation = append(explanation, c.Explanation...)
	}
	confidence := clamp01(confSum / float64(len(group)))

	joinType := schema.JoinInner
	if nullable {
		joinType = schema.JoinLeft
	}

	return builtRelationship{
		Relationship: schema.Relationship{
			LeftTable:    first.FKTable,
			RightTable:   first.PKTable,
			ColumnPairs:  pairs,
			JoinType:     joinType,
			Cardinality:  first.Cardinality,
			Confidence:   confidence,
			Provenance:   schema.Provenance{Direct: true},
			Explanation:  explanation,
			MatchQuality: matchQuality(confidence),
		},
		enumerationIndex: minEnumIdx,
	}
}

// BuildBridges wraps already-synthesized derived relationships (from
// internal/bridge) for inclusion in the same ordering pass. They carry no
// enumeration index of their own, so they are numbered from firstIndex
// upward; firstIndex must exceed every candidate EnumerationIndex (the
// engine passes the candidate count) so that, on a residual tie, they sort
// after any direct relationship.
func BuildBridges(derived []schema.Relationship, firstIndex int) []builtRelationship {
	out := make([]builtRelationship, 0, len(derived))
	for i, r := range derived {
		r.MatchQuality = matchQuality(r.Confidence)
		out = append(out, builtRelationship{Relationship: r, enumerationIndex: firstIndex + i})
	}
	return out
}

// Finalize filters by min_confidence, sorts deterministically, applies
// the max_relationships cap, and assigns stable names. Returns the final
// Relationship slice and whether max_relationships truncated the result.
func Finalize(built []builtRelationship, minConfidence float64, maxRelationships int) ([]schema.Relationship, bool) {
	filtered := make([]builtRelationship, 0, len(built))
	for _, r := range built {
		if r.Confidence >= minConfidence {
			filtered = append(filtered, r)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.LeftTable != b.LeftTable {
			return a.LeftTable < b.LeftTable
		}
		if a.RightTable != b.RightTable {
			return a.RightTable < b.RightTable
		}
		if cmp := compareColumnPairs(a.ColumnPairs, b.ColumnPairs); cmp != 0 {
			return cmp < 0
		}
		return a.enumerationIndex < b.enumerationIndex
	})

	limitedByMax := false
	if maxRelationships > 0 && len(filtered) > maxRelationships {
		filtered = filtered[:maxRelationships]
		limitedByMax = true
	}

	rels := make([]schema.Relationship, len(filtered))
	for i, r := range filtered {
		rels[i] = r.Relationship
	}
	assignStableNames(rels)

	return rels, limitedByMax
}

func assignStableNames(rels []schema.Relationship) {
	counts := make(map[string]int)
	for i := range rels {
		var base string
		if rels[i].Provenance.Direct {
			base = rels[i].LeftTable + "_TO_" + rels[i].RightTable
		} else if rels[i].StableName != "" {
			base = rels[i].StableName
		} else {
			base = rels[i].LeftTable + "_TO_" + rels[i].RightTable + "_VIA_" + rels[i].Provenance.JunctionTable
		}

		name := base
		if n := counts[base]; n > 0 {
			name = fmt.Sprintf("%s_%d", base, n+1)
		}
		counts[base]++
		rels[i].StableName = name
	}
}

func compareColumnPairs(a, b []schema.ColumnPair) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i].LeftColumn != b[i].LeftColumn {
			return stringCompare(a[i].LeftColumn, b[i].LeftColumn)
		}
		if a[i].RightColumn != b[i].RightColumn {
			return stringCompare(a[i].RightColumn, b[i].RightColumn)
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

func stringCompare(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func columnByName(t schema.TableDef, name string) (schema.ColumnDef, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return schema.ColumnDef{}, false
}

// columnNullable reports whether col should be treated as nullable for
// JoinType classification. In non-strict mode an observed empty-string
// entry in SampleValues (a sampled null) counts alongside the declared
// flag; strict mode trusts only IsNullable.
func columnNullable(col schema.ColumnDef, strictJoinInference bool) bool {
	if col.IsNullable {
		return true
	}
	if strictJoinInference {
		return false
	}
	for _, v := range col.SampleValues {
		if v == "" {
			return true
		}
	}
	return false
}

func matchQuality(confidence float64) string {
	switch {
	case confidence >= 0.95:
		return "perfect"
	case confidence >= 0.8:
		return "strong"
	case confidence >= 0.5:
		return "moderate"
	default:
		return "weak"
	}
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

// Package bridge derives many-to-many relationships across junction
// tables from already-accepted direct relationships (spec.md §4.9).
package bridge

import (
	"fmt"
	"sort"

	"github.com/ekaya-inc/relate/internal/enumerate"
	"github.com/ekaya-inc/relate/internal/schema"
)

// Derive scans for junction tables — tables with a composite PKGroup
// whose every member column is the FK side of an accepted direct
// relationship, collectively targeting exactly two distinct other
// tables — and synthesizes one derived many-to-many Relationship per
// junction. Bridges are single-hop: a derived relationship never feeds
// a further bridge pass.
func Derive(accepted []schema.Candidate, pkIndex enumerate.PKIndex) []schema.Relationship {
	byFKCol := make(map[string]schema.Candidate)
	for _, c := range accepted {
		if c.Status != schema.StatusAccepted {
			continue
		}
		key := fkColKey(c.FKTable, c.FKColumnIdx)
		if existing, ok := byFKCol[key]; !ok || c.RawConfidence > existing.RawConfidence {
			byFKCol[key] = c
		}
	}

	tables := make([]string, 0, len(pkIndex))
	for t := range pkIndex {
		tables = append(tables, t)
	}
	sort.Strings(tables)

	var derived []schema.Relationship
	for _, table := range tables {
		for _, group := range pkIndex[table] {
			rel := junctionRelationship(table, group, byFKCol)
			if rel != nil {
				derived = append(derived, *rel)
			}
		}
	}
	return derived
}

func junctionRelationship(table string, group schema.PKGroup, byFKCol map[string]schema.Candidate) *schema.Relationship {
	if !group.Composite() {
		return nil
	}

	members := make([]schema.Candidate, 0, len(group.ColumnIdxs))
	for _, idx := range group.ColumnIdxs {
		c, found := byFKCol[fkColKey(table, idx)]
		if !found {
			return nil
		}
		members = append(members, c)
	}

	byOtherTable := make(map[string][]schema.Candidate)
	for _, c := range members {
		byOtherTable[c.PKTable] = append(byOtherTable[c.PKTable], c)
	}
	if len(byOtherTable) != 2 {
		return nil
	}

	otherTables := make([]string, 0, 2)
	for t := range byOtherTable {
		otherTables = append(otherTables, t)
	}
	sort.Strings(otherTables)
	a, b := otherTables[0], otherTables[1]

	relA := highestConfidence(byOtherTable[a])
	relB := highestConfidence(byOtherTable[b])

	confidence := relA.RawConfidence
	if relB.RawConfidence < confidence {
		confidence = relB.RawConfidence
	}

	return &schema.Relationship{
		StableName: a + "_TO_" + b + "_VIA_" + table,
		LeftTable:  a,
		RightTable: b,
		ColumnPairs: []schema.ColumnPair{
			{LeftColumn: relA.PKColumn, RightColumn: relB.PKColumn},
		},
		JoinType:    schema.JoinInner,
		Cardinality: schema.CardinalityManyToMany,
		Confidence:  confidence,
		Provenance:  schema.Provenance{Direct: false, JunctionTable: table},
		Explanation: []string{fmt.Sprintf("derived via junction table %s", table)},
	}
}

func highestConfidence(candidates []schema.Candidate) schema.Candidate {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.RawConfidence > best.RawConfidence {
			best = c
		}
	}
	return best
}

func fkColKey(table string, colIdx int) string {
	return fmt.Sprintf("%s\x00%d", table, colIdx)
}

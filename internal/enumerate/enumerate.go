// Package enumerate produces the raw candidate set: every ordered
// (FK-table, FK-column) x (PK-table, PK-column) pair whose columns are
// type-compatible and whose PK column belongs to some PKGroup on the PK
// table (spec.md §4.5). Enumeration order is lexicographic by
// (FK table name, FK column position, PK table name, PK column position)
// so downstream stages never depend on map or input-slice ordering.
package enumerate

import (
	"sort"

	"github.com/google/uuid"

	"github.com/ekaya-inc/relate/internal/keyinfer"
	"github.com/ekaya-inc/relate/internal/schema"
	"github.com/ekaya-inc/relate/internal/typeclass"
)

// PKIndex maps table name to the PKGroups inferred for it.
type PKIndex map[string][]schema.PKGroup

// BuildPKIndex computes PKGroups for every table via keyinfer.Infer.
func BuildPKIndex(tables []schema.TableDef) PKIndex {
	idx := make(PKIndex, len(tables))
	for _, t := range tables {
		idx[t.Name] = keyinfer.Infer(t)
	}
	return idx
}

// Candidates enumerates every ordered (FK table, FK column) x (PK table,
// PK column) pair per spec.md §4.5 and assigns each its EnumerationIndex
// in lexicographic enumeration order.
func Candidates(tables []schema.TableDef, pkIndex PKIndex) []schema.Candidate {
	byName := make(map[string]schema.TableDef, len(tables))
	for _, t := range tables {
		byName[t.Name] = t
	}

	sortedTables := make([]schema.TableDef, len(tables))
	copy(sortedTables, tables)
	sort.Slice(sortedTables, func(i, j int) bool { return sortedTables[i].Name < sortedTables[j].Name })

	pkTableNames := make([]string, 0, len(pkIndex))
	for name := range pkIndex {
		pkTableNames = append(pkTableNames, name)
	}
	sort.Strings(pkTableNames)

	var out []schema.Candidate
	idx := 0
	for _, f := range sortedTables {
		for ci, c := range f.Columns {
			for _, pName := range pkTableNames {
				if pName == f.Name {
					continue
				}
				p, ok := byName[pName]
				if !ok {
					continue
				}
				for _, ki := range flattenedSortedPKColumnIdxs(pkIndex[pName]) {
					if ki < 0 || ki >= len(p.Columns) {
						continue
					}
					k := p.Columns[ki]
					if !typeclass.Compatible(c.DeclaredType, k.DeclaredType) {
						continue
					}
					out = append(out, schema.Candidate{
						ID:               uuid.New(),
						EnumerationIndex: idx,
						FKTable:          f.Name,
						FKColumn:         c.Name,
						FKColumnIdx:      ci,
						PKTable:          p.Name,
						PKColumn:         k.Name,
						PKColumnIdx:      ki,
						Status:           schema.StatusProposed,
					})
					idx++
				}
			}
		}
	}
	return out
}

// flattenedSortedPKColumnIdxs dedupes and sorts the column indices across
// all PKGroups of a table, so enumeration order depends only on column
// position, never on the order keyinfer happened to produce its groups in.
func flattenedSortedPKColumnIdxs(groups []schema.PKGroup) []int {
	seen := make(map[int]bool)
	var idxs []int
	for _, g := range groups {
		for _, ci := range g.ColumnIdxs {
			if !seen[ci] {
				seen[ci] = true
				idxs = append(idxs, ci)
			}
		}
	}
	sort.Ints(idxs)
	return idxs
}

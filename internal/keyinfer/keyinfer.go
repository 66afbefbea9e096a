// Package keyinfer derives, per table, the set of primary-key candidate
// groups — declared, name-inferred, sample-inferred, or composite — that
// are the only legitimate targets of FK candidates downstream (spec.md
// §4.4).
package keyinfer

import (
	"strings"

	"github.com/ekaya-inc/relate/internal/normalize"
	"github.com/ekaya-inc/relate/internal/schema"
)

// Infer returns the PKGroups for one table. Declared groups dominate: if
// any column is marked IsDeclaredPrimary, they form the single group and
// no inference step runs. Otherwise name-inference and sample-inference
// run independently per column, with sample evidence (when unanimous)
// taking precedence over a name match on the same column, followed by a
// composite-inference pass over whatever FK-shaped columns remain
// unclaimed.
func Infer(table schema.TableDef) []schema.PKGroup {
	if declared := declaredGroup(table); declared != nil {
		return []schema.PKGroup{*declared}
	}

	claimed := make(map[int]bool)
	groups := make([]schema.PKGroup, 0)

	for _, idx := range sampleInferredIdxs(table) {
		groups = append(groups, schema.PKGroup{
			Table:      table.Name,
			ColumnIdxs: []int{idx},
			Provenance: schema.ProvenanceInferredBySamples,
		})
		claimed[idx] = true
	}

	for _, idx := range nameInferredIdxs(table) {
		if claimed[idx] {
			continue
		}
		groups = append(groups, schema.PKGroup{
			Table:      table.Name,
			ColumnIdxs: []int{idx},
			Provenance: schema.ProvenanceInferredByName,
		})
		claimed[idx] = true
	}

	if composite := compositeInferredGroup(table, claimed); composite != nil {
		groups = append(groups, *composite)
	}

	return groups
}

func declaredGroup(table schema.TableDef) *schema.PKGroup {
	var idxs []int
	for i, col := range table.Columns {
		if col.IsDeclaredPrimary {
			idxs = append(idxs, i)
		}
	}
	if len(idxs) == 0 {
		return nil
	}
	return &schema.PKGroup{
		Table:      table.Name,
		ColumnIdxs: idxs,
		Provenance: schema.ProvenanceDeclared,
	}
}

// nameInferredIdxs finds columns whose core entity coincides with the
// table's own core entity (or its singular form) and whose name ends in
// KEY or ID without being generic — the table's self-named key column
// (e.g. CUSTOMER.CUSTOMER_KEY, ORDERS.ORDER_ID).
func nameInferredIdxs(table schema.TableDef) []int {
	core, singularCore, hasSingular := normalize.TableEntity(table.Name)

	var idxs []int
	for i, col := range table.Columns {
		if col.IsDeclaredPrimary {
			continue
		}
		n := normalize.Name(col.Name)
		if n.IsGenericID {
			continue
		}
		if !hasKeyOrIDSuffix(n.Upper) {
			continue
		}
		if n.CoreEntity == core || (hasSingular && n.CoreEntity == singularCore) {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

// sampleInferredIdxs finds columns whose supplied sample values are
// fully distinct and non-null — unanimous uniqueness evidence of a key.
func sampleInferredIdxs(table schema.TableDef) []int {
	var idxs []int
	for i, col := range table.Columns {
		if col.IsDeclaredPrimary {
			continue
		}
		if len(col.SampleValues) == 0 {
			continue
		}
		if allDistinctNonNull(col.SampleValues) {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

// compositeInferredGroup looks for a multi-column composite key among
// unclaimed, foreign-key-shaped columns: either their sample values
// jointly form a unique tuple, or — when that tuple test fails, including
// when samples are absent — the table looks like a pure junction (every
// FK-shaped column points away from the table's own entity).
func compositeInferredGroup(table schema.TableDef, claimed map[int]bool) *schema.PKGroup {
	var fkShaped []int
	for i, col := range table.Columns {
		if col.IsDeclaredPrimary || claimed[i] {
			continue
		}
		n := normalize.Name(col.Name)
		if n.IsGenericID {
			continue
		}
		if !hasKeyOrIDSuffix(n.Upper) {
			continue
		}
		fkShaped = append(fkShaped, i)
	}
	if len(fkShaped) < 2 {
		return nil
	}

	if tuplesUnique(table, fkShaped) {
		return &schema.PKGroup{
			Table:      table.Name,
			ColumnIdxs: fkShaped,
			Provenance: schema.ProvenanceInferredBySamples,
		}
	}

	coreEntity, singularCore, hasSingular := normalize.TableEntity(table.Name)
	for _, i := range fkShaped {
		n := normalize.Name(table.Columns[i].Name)
		if n.CoreEntity == coreEntity || (hasSingular && n.CoreEntity == singularCore) {
			return nil
		}
	}
	return &schema.PKGroup{
		Table:      table.Name,
		ColumnIdxs: fkShaped,
		Provenance: schema.ProvenanceInferredByName,
	}
}

func hasKeyOrIDSuffix(upper string) bool {
	return strings.HasSuffix(upper, "KEY") || strings.HasSuffix(upper, "ID")
}

func allDistinctNonNull(values []string) bool {
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if v == "" {
			return false
		}
		if seen[v] {
			return false
		}
		seen[v] = true
	}
	return len(values) > 0
}

// tuplesUnique reports whether the row-wise tuples formed across idxs'
// sample-value slices (all of equal length, all non-null) are pairwise
// distinct.
func tuplesUnique(table schema.TableDef, idxs []int) bool {
	n := -1
	for _, i := range idxs {
		vals := table.Columns[i].SampleValues
		if len(vals) == 0 {
			return false
		}
		if n == -1 {
			n = len(vals)
		} else if len(vals) != n {
			return false
		}
	}
	if n <= 0 {
		return false
	}

	seen := make(map[string]bool, n)
	for row := 0; row < n; row++ {
		var sb strings.Builder
		for _, i := range idxs {
			v := table.Columns[i].SampleValues[row]
			if v == "" {
				return false
			}
			sb.WriteString(v)
			sb.WriteByte('\x1f')
		}
		key := sb.String()
		if seen[key] {
			return false
		}
		seen[key] = true
	}
	return true
}

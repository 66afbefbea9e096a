// Package normalize canonicalizes table and column names (spec.md §4.1):
// case folding, prefix stripping, suffix stripping, and core-entity
// extraction. It is the leaf component every other stage of the pipeline
// builds on.
package normalize

import (
	"strings"

	"github.com/jinzhu/inflection"

	"github.com/ekaya-inc/relate/internal/schema"
)

// genericCores are the bare tokens that carry no entity information once a
// name has been reduced to its core.
var genericCores = map[string]bool{
	"ID":  true,
	"KEY": true,
	"NUM": true,
	"NO":  true,
}

// suffixes are stripped, in order, exactly once from the end of a core
// candidate. KEY and ID are treated as disjoint suffixes for stripping
// purposes (spec.md §9): only one is ever removed from a given name.
var suffixes = []string{"KEY", "ID", "NUM", "NO"}

// Name canonicalizes a single identifier into a NormalizedName (§4.1).
//
// Algorithm: upper-case, split on "_". If the leading token has length <= 2
// it is treated as a table prefix and removed. The remainder has at most
// one trailing suffix from {KEY, ID, NUM, NO} stripped. Empty cores fall
// back to the upper-cased original.
func Name(original string) schema.NormalizedName {
	upper := strings.ToUpper(strings.TrimSpace(original))

	core := upper
	if strings.Contains(upper, "_") {
		parts := strings.Split(upper, "_")
		if len(parts[0]) <= 2 && len(parts) > 1 {
			core = strings.Join(parts[1:], "_")
		}
	}

	suffixRemoved := core
	for _, suf := range suffixes {
		if len(core) > len(suf) && strings.HasSuffix(core, suf) {
			suffixRemoved = strings.TrimSuffix(core[:len(core)-len(suf)], "_")
			break
		}
	}

	coreEntity := suffixRemoved
	if coreEntity == "" {
		coreEntity = upper
	}

	return schema.NormalizedName{
		Original:      original,
		Upper:         upper,
		CoreEntity:    coreEntity,
		SuffixRemoved: suffixRemoved,
		IsGenericID:   isGenericCore(coreEntity),
	}
}

// isGenericCore reports whether a core reduces to a bare ID/KEY/NUM/NO
// token, or is otherwise too short to carry entity information (§3).
func isGenericCore(core string) bool {
	if genericCores[core] {
		return true
	}
	return len(core) < 2
}

// TableEntity extracts the core entity of a table name, additionally
// considering the singular form of plural table names (§4.1: "if a table
// name ends in S and has length > 3, the engine also considers its
// singular form").
//
// TableEntity returns both the direct core entity and, when applicable, the
// core entity of the singularized name; callers should treat either as a
// valid match for the table.
func TableEntity(tableName string) (core string, singularCore string, hasSingular bool) {
	n := Name(tableName)
	core = n.CoreEntity

	upper := n.Upper
	if len(upper) > 3 && strings.HasSuffix(upper, "S") {
		singular := inflection.Singular(strings.ToLower(upper))
		singularUpper := strings.ToUpper(singular)
		if singularUpper != upper {
			sn := Name(singularUpper)
			return core, sn.CoreEntity, true
		}
		// inflection left it unchanged (e.g. a collective noun); fall back
		// to the spec's bare trim-trailing-S heuristic.
		fallback := upper[:len(upper)-1]
		sn := Name(fallback)
		return core, sn.CoreEntity, true
	}

	return core, "", false
}

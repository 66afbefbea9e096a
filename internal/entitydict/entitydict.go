// Package entitydict holds the entity dictionary and business-prior table
// of spec.md §4.2: a small, extensible mapping from canonical entity names
// to accepted variants and abbreviations, plus a curated set of business
// relationship priors. Both are parameters of the engine, not hard-coded
// policy — callers may supply an overlay to tune the dictionary for their
// domain (§4.2, §6 entity_dictionary/business_priors knobs).
package entitydict

import "strings"

// PriorKey identifies a (pk_entity, fk_entity) business-prior lookup.
type PriorKey struct {
	PKEntity string
	FKEntity string
}

// Dictionary is the canonical<->variant lookup plus business priors.
// It is read-only after construction (spec.md §5): multiple discovery
// runs may share one Dictionary safely.
type Dictionary struct {
	canonicalToVariants map[string]map[string]bool
	variantToCanonical  map[string]string
	priors              map[PriorKey]float64
}

// New builds a Dictionary from a canonical->variants map and a priors
// table. Both maps are copied; mutating the inputs afterward has no effect.
func New(canonicalToVariants map[string][]string, priors map[PriorKey]float64) *Dictionary {
	d := &Dictionary{
		canonicalToVariants: make(map[string]map[string]bool),
		variantToCanonical:  make(map[string]string),
		priors:              make(map[PriorKey]float64, len(priors)),
	}
	for canonical, variants := range canonicalToVariants {
		canonical = strings.ToUpper(canonical)
		set := make(map[string]bool, len(variants)+1)
		set[canonical] = true
		d.variantToCanonical[canonical] = canonical
		for _, v := range variants {
			v = strings.ToUpper(v)
			set[v] = true
			d.variantToCanonical[v] = canonical
		}
		d.canonicalToVariants[canonical] = set
	}
	for k, v := range priors {
		d.priors[PriorKey{PKEntity: strings.ToUpper(k.PKEntity), FKEntity: strings.ToUpper(k.FKEntity)}] = v
	}
	return d
}

// Merge returns a new Dictionary combining the receiver with an overlay;
// overlay entries win on conflict. Used to apply a caller-supplied overlay
// on top of the built-in default (§6: "built-in + caller overlay").
func (d *Dictionary) Merge(overlayCanonicalToVariants map[string][]string, overlayPriors map[PriorKey]float64) *Dictionary {
	merged := &Dictionary{
		canonicalToVariants: make(map[string]map[string]bool, len(d.canonicalToVariants)),
		variantToCanonical:  make(map[string]string, len(d.variantToCanonical)),
		priors:              make(map[PriorKey]float64, len(d.priors)),
	}
	for canonical, set := range d.canonicalToVariants {
		cp := make(map[string]bool, len(set))
		for v := range set {
			cp[v] = true
		}
		merged.canonicalToVariants[canonical] = cp
	}
	for v, c := range d.variantToCanonical {
		merged.variantToCanonical[v] = c
	}
	for k, v := range d.priors {
		merged.priors[k] = v
	}

	overlay := New(overlayCanonicalToVariants, overlayPriors)
	for canonical, set := range overlay.canonicalToVariants {
		existing, ok := merged.canonicalToVariants[canonical]
		if !ok {
			existing = make(map[string]bool)
			merged.canonicalToVariants[canonical] = existing
		}
		for v := range set {
			existing[v] = true
			merged.variantToCanonical[v] = canonical
		}
	}
	for k, v := range overlay.priors {
		merged.priors[k] = v
	}
	return merged
}

// CanonicalOf returns the canonical entity for an entity (variant or
// canonical itself), and whether it is known to the dictionary at all.
func (d *Dictionary) CanonicalOf(entity string) (string, bool) {
	c, ok := d.variantToCanonical[strings.ToUpper(entity)]
	return c, ok
}

// AreVariants reports whether two entities are variants of one another:
// they share a canonical, or one maps to (is a variant of) the other
// (spec.md §4.2: "Two entities are variants iff they share a canonical or
// map to each other's variant set").
func (d *Dictionary) AreVariants(a, b string) bool {
	a = strings.ToUpper(a)
	b = strings.ToUpper(b)
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}

	canonicalA, okA := d.CanonicalOf(a)
	canonicalB, okB := d.CanonicalOf(b)

	if okA && okB && canonicalA == canonicalB {
		return true
	}
	if okA && canonicalA == b {
		return true
	}
	if okB && canonicalB == a {
		return true
	}
	// Direct membership in the same variant set, even without a resolved
	// canonical on one side (defensive against overlay asymmetries).
	if set, ok := d.canonicalToVariants[canonicalA]; ok && okA {
		if set[b] {
			return true
		}
	}
	if set, ok := d.canonicalToVariants[canonicalB]; ok && okB {
		if set[a] {
			return true
		}
	}
	return false
}

// Prior returns the business-relationship prior for an ordered
// (pk_entity, fk_entity) pair, and whether a prior was configured for it.
// Lookups are canonicalized first so either side may be passed as a raw
// or canonical entity name.
func (d *Dictionary) Prior(pkEntity, fkEntity string) (float64, bool) {
	pkCanon, _ := d.CanonicalOf(pkEntity)
	if pkCanon == "" {
		pkCanon = strings.ToUpper(pkEntity)
	}
	fkCanon, _ := d.CanonicalOf(fkEntity)
	if fkCanon == "" {
		fkCanon = strings.ToUpper(fkEntity)
	}
	v, ok := d.priors[PriorKey{PKEntity: pkCanon, FKEntity: fkCanon}]
	return v, ok
}

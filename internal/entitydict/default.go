package entitydict

// Default returns the built-in dictionary shipped with the engine:
// common commercial/financial/warehouse entity variants plus the TPC-H
// benchmark schema's entity names, and a seed of strong business-pattern
// priors. Callers extend or override it via Merge (spec.md §6).
//
// The TPC-H entries and the strong_patterns prior seed are ported from the
// reference implementation's research prototype, which hard-coded them as
// a validated example of the generic entity_dictionary/business_priors
// mechanism.
func Default() *Dictionary {
	return New(defaultVariants, defaultPriors)
}

var defaultVariants = map[string][]string{
	// Commercial / financial
	"CUSTOMER": {"CUST", "C", "CLIENT", "CLI"},
	"ORDER":    {"ORDERS", "ORD", "O"},
	"PRODUCT":  {"PROD", "ITEM", "SKU"},
	"INVOICE":  {"INV"},
	"PAYMENT":  {"PMT", "PAY"},
	"ACCOUNT":  {"ACCT", "ACC"},
	"ADDRESS":  {"ADDR"},
	"EMPLOYEE": {"EMP"},
	"DEPARTMENT": {"DEPT"},
	"PROJECT":  {"PROJ"},
	"CATEGORY": {"CAT"},
	"TRANSACTION": {"TXN", "TRANS"},
	"VENDOR":   {"VEND"},
	"CONTACT":  {"CNTCT"},
	"DOCUMENT": {"DOC"},

	// TPC-H benchmark entities (SPEC_FULL.md §4 supplemented feature)
	"SUPPLIER": {"SUPP", "S"},
	"PART":     {"P"},
	"LINEITEM": {"LINE", "L"},
	"PARTSUPP": {"PS"},
	"NATION":   {"N"},
	"REGION":   {"R"},
}

var defaultPriors = map[PriorKey]float64{
	// Commercial / organizational
	{PKEntity: "DEPARTMENT", FKEntity: "EMPLOYEE"}: 0.90,
	{PKEntity: "EMPLOYEE", FKEntity: "DEPARTMENT"}: 0.90,
	{PKEntity: "DEPARTMENT", FKEntity: "PROJECT"}:  0.85,
	{PKEntity: "CUSTOMER", FKEntity: "INVOICE"}:     0.90,
	{PKEntity: "CUSTOMER", FKEntity: "PAYMENT"}:     0.85,
	{PKEntity: "VENDOR", FKEntity: "INVOICE"}:       0.80,

	// TPC-H strong business patterns (from final_optimized_algorithm.py's
	// strong_patterns seed)
	{PKEntity: "CUSTOMER", FKEntity: "ORDER"}:    0.95,
	{PKEntity: "ORDER", FKEntity: "LINEITEM"}:    0.95,
	{PKEntity: "PART", FKEntity: "LINEITEM"}:     0.90,
	{PKEntity: "SUPPLIER", FKEntity: "LINEITEM"}: 0.90,
	{PKEntity: "PART", FKEntity: "PARTSUPP"}:     0.95,
	{PKEntity: "SUPPLIER", FKEntity: "PARTSUPP"}: 0.95,
	{PKEntity: "NATION", FKEntity: "CUSTOMER"}:   0.85,
	{PKEntity: "NATION", FKEntity: "SUPPLIER"}:   0.85,
	{PKEntity: "REGION", FKEntity: "NATION"}:     0.90,
}

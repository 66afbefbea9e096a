// Package schema holds the engine-internal wire types that flow through
// the discovery pipeline: table/column definitions, normalized names, key
// groups, candidates, and the relationships and result bundle the engine
// emits. The root package re-exports these as public type aliases so
// callers only ever import the engine package.
package schema

import "github.com/google/uuid"

// TableDef is a logical table definition supplied by a caller.
type TableDef struct {
	Workspace string
	Schema    string
	Name      string // canonical (upper-cased) table name
	Columns   []ColumnDef
	Comment   string
}

// ColumnDef is a single column of a TableDef.
type ColumnDef struct {
	Name              string
	DeclaredType      string
	IsDeclaredPrimary bool
	IsNullable        bool
	SampleValues      []string // ordered, may contain empty strings standing in for nulls
	Comment           string
}

// NormalizedName is the result of identifier normalization (§4.1).
type NormalizedName struct {
	Original     string
	Upper        string
	CoreEntity   string
	SuffixRemoved string
	IsGenericID  bool
}

// PKGroupProvenance records how a PKGroup was determined.
type PKGroupProvenance int

const (
	ProvenanceDeclared PKGroupProvenance = iota
	ProvenanceInferredByName
	ProvenanceInferredBySamples
)

func (p PKGroupProvenance) String() string {
	switch p {
	case ProvenanceDeclared:
		return "declared"
	case ProvenanceInferredByName:
		return "inferred-by-name"
	case ProvenanceInferredBySamples:
		return "inferred-by-samples"
	default:
		return "unknown"
	}
}

// PKGroup is an ordered set of column indices within one table that
// together form a primary key, declared or inferred.
type PKGroup struct {
	Table        string
	ColumnIdxs   []int // ordered indices into TableDef.Columns
	Provenance   PKGroupProvenance
}

// Composite reports whether the group spans more than one column.
func (g PKGroup) Composite() bool {
	return len(g.ColumnIdxs) > 1
}

// Cardinality classifies the shape of a relationship.
type Cardinality string

const (
	CardinalityOneToOne   Cardinality = "one-to-one"
	CardinalityManyToOne  Cardinality = "many-to-one"
	CardinalityOneToMany  Cardinality = "one-to-many"
	CardinalityManyToMany Cardinality = "many-to-many"
)

// CandidateStatus is the lifecycle stage of a Candidate.
type CandidateStatus string

const (
	StatusProposed CandidateStatus = "proposed"
	StatusAccepted CandidateStatus = "accepted"
	StatusDropped  CandidateStatus = "dropped"
	StatusDerived  CandidateStatus = "derived"
)

// EvidenceTag names one dimension of a Candidate's evidence vector.
type EvidenceTag string

const (
	EvidenceNameSimilarity     EvidenceTag = "name_similarity"
	EvidenceTypeCompatibility  EvidenceTag = "type_compatibility"
	EvidenceValueContainment   EvidenceTag = "value_containment"
	EvidenceSchemaPattern      EvidenceTag = "schema_pattern"
	EvidenceDomainPrior        EvidenceTag = "domain_prior"
	EvidenceStatistical        EvidenceTag = "statistical"
	EvidenceCardinalityPlaus   EvidenceTag = "cardinality_plausibility"
)

// Evidence is one scored, weighted, tagged dimension of a Candidate.
type Evidence struct {
	Tag    EvidenceTag
	Score  float64 // in [0,1]
	Weight float64 // effective weight after any re-normalization
}

// Candidate is an ordered (FK-column, PK-column) hypothesis awaiting
// scoring and arbitration (§3, §4.5).
type Candidate struct {
	ID                uuid.UUID
	EnumerationIndex  int // lexicographic enumeration order, §4.5
	FKTable           string
	FKColumn          string
	FKColumnIdx       int
	PKTable           string
	PKColumn          string
	PKColumnIdx       int
	Evidence          []Evidence
	RawConfidence     float64
	CompositeGroupID  string // "" if not part of a composite cluster
	Cardinality       Cardinality
	Status            CandidateStatus
	Explanation       []string // supplemented diagnostic trail, SPEC_FULL.md §4
}

// Provenance describes the origin of an emitted Relationship.
type Provenance struct {
	Direct        bool
	JunctionTable string // set when !Direct
}

// ColumnPair is one (left_column, right_column) pair of a Relationship.
type ColumnPair struct {
	LeftColumn  string
	RightColumn string
}

// JoinType classifies how two tables should be joined.
type JoinType string

const (
	JoinInner JoinType = "inner"
	JoinLeft  JoinType = "left"
)

// Relationship is an emitted, accepted (or derived) FK→PK relationship.
type Relationship struct {
	StableName    string
	LeftTable     string
	RightTable    string
	ColumnPairs   []ColumnPair
	JoinType      JoinType
	Cardinality   Cardinality
	Confidence    float64
	Provenance    Provenance
	Explanation   []string // supplemented, SPEC_FULL.md §4
	MatchQuality  string   // supplemented, SPEC_FULL.md §4: perfect/strong/moderate/weak
}

// Summary holds the counters and limiting flags attached to a DiscoveryResult.
type Summary struct {
	TotalTables              int
	TotalColumns             int
	TotalRelationships       int
	ProcessingTimeMS         int64
	LimitedByTimeout         bool
	LimitedByMaxRelationships bool
	LimitedByTableCap        bool
	Notes                    []string
}

// DiscoveryResult is the top-level output of a discovery run.
type DiscoveryResult struct {
	Relationships []Relationship
	Tables        []TableDef
	Summary       Summary
}

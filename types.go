// Package relate discovers foreign-key to primary-key relationships
// across a set of logical table definitions, scoring and classifying
// each inferred relationship deterministically.
package relate

import "github.com/ekaya-inc/relate/internal/schema"

// TableDef is a logical table definition supplied by a caller.
type TableDef = schema.TableDef

// ColumnDef is a single column of a TableDef.
type ColumnDef = schema.ColumnDef

// Cardinality classifies the shape of a relationship.
type Cardinality = schema.Cardinality

const (
	CardinalityOneToOne   = schema.CardinalityOneToOne
	CardinalityManyToOne  = schema.CardinalityManyToOne
	CardinalityOneToMany  = schema.CardinalityOneToMany
	CardinalityManyToMany = schema.CardinalityManyToMany
)

// JoinType classifies how two tables in a Relationship should be joined.
type JoinType = schema.JoinType

const (
	JoinInner = schema.JoinInner
	JoinLeft  = schema.JoinLeft
)

// ColumnPair is one (left_column, right_column) pair of a Relationship.
type ColumnPair = schema.ColumnPair

// Provenance describes the origin of an emitted Relationship.
type Provenance = schema.Provenance

// Relationship is an emitted, accepted (or derived) FK→PK relationship.
type Relationship = schema.Relationship

// Summary holds the counters and limiting flags attached to a DiscoveryResult.
type Summary = schema.Summary

// DiscoveryResult is the top-level output of a discovery run.
type DiscoveryResult = schema.DiscoveryResult

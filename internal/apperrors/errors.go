// Package apperrors holds the sentinel errors the engine can return.
//
// Per the engine's failure-semantics contract, nothing in the discovery
// pipeline raises on a per-candidate or per-table basis: malformed tables
// are skipped with a note, sample-fetch failures degrade to neutral
// scoring. Configuration rejection is returned as one of these sentinels
// so callers can match with errors.Is; the only other Go errors are
// ListTables/ListColumns adapter failures, returned wrapped by
// DiscoverFromSchema.
package apperrors

import "errors"

var (
	// ErrInvalidWeights is returned when the configured evidence weights
	// do not sum to a positive value.
	ErrInvalidWeights = errors.New("evidence weights must sum to a positive value")

	// ErrInvalidMinConfidence is returned when min_confidence is outside [0,1].
	ErrInvalidMinConfidence = errors.New("min_confidence must be in [0,1]")

	// ErrInvalidTieBand is returned when tie_band is negative.
	ErrInvalidTieBand = errors.New("tie_band must be non-negative")

	// ErrMissingTableName is quoted in the Summary note recorded when a
	// table definition with an empty name is skipped.
	ErrMissingTableName = errors.New("table definition missing a name")

	// ErrEmptyColumns is quoted in the Summary note recorded when a table
	// definition with no columns is skipped.
	ErrEmptyColumns = errors.New("table definition has no columns")

	// ErrDuplicateColumn is quoted in the Summary note recorded when a
	// table that declares the same column name twice is skipped.
	ErrDuplicateColumn = errors.New("table has duplicate column name")
)

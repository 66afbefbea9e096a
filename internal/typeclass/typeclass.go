// Package typeclass normalizes declared SQL-ish column types into the
// coarse classes used for type-compatibility scoring (spec.md §4.6.2).
package typeclass

import "strings"

// Class is one of the five type buckets the engine reasons about.
type Class string

const (
	Numeric  Class = "numeric"
	String   Class = "string"
	Temporal Class = "temporal"
	Boolean  Class = "boolean"
	Other    Class = "other"
)

var numericTypes = map[string]bool{
	"INT": true, "INTEGER": true, "BIGINT": true, "SMALLINT": true, "TINYINT": true,
	"DECIMAL": true, "NUMERIC": true, "NUMBER": true, "FLOAT": true, "DOUBLE": true,
	"REAL": true, "MONEY": true, "SMALLMONEY": true,
}

var stringTypes = map[string]bool{
	"VARCHAR": true, "CHAR": true, "TEXT": true, "STRING": true, "NVARCHAR": true,
	"NCHAR": true, "CLOB": true, "UUID": true, "UNIQUEIDENTIFIER": true,
}

var temporalTypes = map[string]bool{
	"DATE": true, "DATETIME": true, "DATETIME2": true, "TIMESTAMP": true,
	"TIMESTAMPTZ": true, "TIME": true, "SMALLDATETIME": true,
}

var booleanTypes = map[string]bool{
	"BOOL": true, "BOOLEAN": true, "BIT": true,
}

// Normalize strips parameterization (e.g. "VARCHAR(255)" -> "VARCHAR") and
// upper-cases a declared type.
func Normalize(declaredType string) string {
	t := strings.ToUpper(strings.TrimSpace(declaredType))
	if idx := strings.IndexByte(t, '('); idx >= 0 {
		t = t[:idx]
	}
	return strings.TrimSpace(t)
}

// Classify maps a declared type to its coarse class.
func Classify(declaredType string) Class {
	t := Normalize(declaredType)
	switch {
	case numericTypes[t]:
		return Numeric
	case stringTypes[t]:
		return String
	case temporalTypes[t]:
		return Temporal
	case booleanTypes[t]:
		return Boolean
	default:
		return Other
	}
}

// Score returns the type-compatibility score of §4.6.2: 1.0 when the
// normalized declared types are identical, 0.8 when they differ but
// classify to the same class, 0.1 otherwise.
func Score(aType, bType string) float64 {
	na, nb := Normalize(aType), Normalize(bType)
	if na == nb {
		return 1.0
	}
	if Classify(aType) == Classify(bType) {
		return 0.8
	}
	return 0.1
}

// Compatible is the permissive enumeration-time filter of §4.5: every
// type pairing is considered enumerable, since §4.6.2 never hard-drops a
// candidate on type grounds alone — actual discrimination happens via
// Score downstream. The only rejected pairing is two entirely blank
// declared types, which carries no signal either way.
func Compatible(aType, bType string) bool {
	return strings.TrimSpace(aType) != "" || strings.TrimSpace(bType) != ""
}

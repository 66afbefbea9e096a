package relate

import (
	"context"
	"strings"
)

// ColumnRow is one row returned by MetadataAdapter.ListColumns.
type ColumnRow struct {
	Schema       string
	Table        string
	Column       string
	Type         string
	IsPrimaryKey bool
	IsNullable   bool
	Comment      string
}

// MetadataAdapter is the external collaborator DiscoverFromSchema
// delegates metadata acquisition to (spec.md §6). Implementations own
// their own connection pooling, cursor management, and caching; the
// core never retries or pools on their behalf, and treats a returned
// error or an empty sample set as "samples absent for this column"
// rather than a fatal condition (spec.md §7 SampleFetchFailure).
type MetadataAdapter interface {
	ListColumns(ctx context.Context, workspace, schemaName string, tableNames []string) ([]ColumnRow, error)
	ListTables(ctx context.Context, workspace, schemaName string) ([]string, error)
	SampleValues(ctx context.Context, workspace, schemaName, table, column string, limit int) ([]string, error)
}

// ParseTableIdentifier splits an identifier of the form "table",
// "schema.table", or "workspace.schema.table" into its parts, stripping
// any backtick or double-quote wrapping from each segment. The table
// name is upper-cased for matching (spec.md §6).
func ParseTableIdentifier(identifier string) (workspace, schemaName, table string) {
	parts := strings.Split(identifier, ".")
	for i, p := range parts {
		parts[i] = stripIdentifierWrapping(p)
	}

	switch len(parts) {
	case 1:
		return "", "", strings.ToUpper(parts[0])
	case 2:
		return "", parts[0], strings.ToUpper(parts[1])
	default:
		n := len(parts)
		return parts[n-3], parts[n-2], strings.ToUpper(parts[n-1])
	}
}

func stripIdentifierWrapping(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '`' && last == '`') || (first == '"' && last == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

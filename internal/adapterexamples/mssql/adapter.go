// Package mssql is a reference relate.MetadataAdapter over SQL Server's
// sys.* catalog views. It is example wiring, not a managed connection
// pool: callers own the *sql.DB and its lifecycle (spec.md §1 scopes
// connection-pool/TTL management out of the core).
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/microsoft/go-mssqldb" // registers the "sqlserver" driver
	"go.uber.org/zap"

	"github.com/ekaya-inc/relate"
)

// Adapter implements relate.MetadataAdapter against a live SQL Server
// connection.
type Adapter struct {
	db     *sql.DB
	logger *zap.Logger
}

// New wraps an already-connected *sql.DB. If logger is nil, a no-op
// logger is used.
func New(db *sql.DB, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{db: db, logger: logger}
}

// Open connects to SQL Server via the given connection string and wraps
// the resulting *sql.DB. The caller owns the returned Adapter's db and
// should Close it when done.
func Open(connStr string, logger *zap.Logger) (*Adapter, error) {
	db, err := sql.Open("sqlserver", connStr)
	if err != nil {
		return nil, fmt.Errorf("relate/mssql: open: %w", err)
	}
	return New(db, logger), nil
}

// Close releases the underlying connection.
func (a *Adapter) Close() error {
	return a.db.Close()
}

// ListTables returns every user table, excluding SQL Server system
// tables. workspace is unused.
func (a *Adapter) ListTables(ctx context.Context, _, schemaName string) ([]string, error) {
	query := `
	SET NOCOUNT ON;
	SELECT t.name AS table_name
	FROM sys.tables t
	WHERE t.is_ms_shipped = 0
	  AND (@schema = '' OR SCHEMA_NAME(t.schema_id) = @schema)
	ORDER BY table_name
	`

	rows, err := a.db.QueryContext(ctx, query, sql.Named("schema", schemaName))
	if err != nil {
		return nil, fmt.Errorf("relate/mssql: query tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("relate/mssql: scan table: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// ListColumns returns every column of the requested tables via
// sys.columns / sys.index_columns, one catalog query per table.
func (a *Adapter) ListColumns(ctx context.Context, _, schemaName string, tableNames []string) ([]relate.ColumnRow, error) {
	var out []relate.ColumnRow
	for _, table := range tableNames {
		cols, err := a.listColumnsForTable(ctx, schemaName, table)
		if err != nil {
			return nil, err
		}
		out = append(out, cols...)
	}
	return out, nil
}

func (a *Adapter) listColumnsForTable(ctx context.Context, schemaName, table string) ([]relate.ColumnRow, error) {
	query := `
	SET NOCOUNT ON;
	SELECT
	    c.name AS column_name,
	    tp.name AS data_type,
	    CASE WHEN c.is_nullable = 1 THEN 1 ELSE 0 END AS is_nullable,
	    CASE WHEN pk.column_id IS NOT NULL THEN 1 ELSE 0 END AS is_primary_key
	FROM sys.columns c
	INNER JOIN sys.types tp ON c.user_type_id = tp.user_type_id
	LEFT JOIN (
	    SELECT ic.object_id, ic.column_id
	    FROM sys.index_columns ic
	    INNER JOIN sys.indexes i ON ic.object_id = i.object_id AND ic.index_id = i.index_id
	    WHERE i.is_primary_key = 1
	) pk ON c.object_id = pk.object_id AND c.column_id = pk.column_id
	WHERE c.object_id = OBJECT_ID(QUOTENAME(@schema) + N'.' + QUOTENAME(@table))
	ORDER BY c.column_id
	`

	rows, err := a.db.QueryContext(ctx, query, sql.Named("schema", schemaName), sql.Named("table", table))
	if err != nil {
		return nil, fmt.Errorf("relate/mssql: query columns for %s: %w", table, err)
	}
	defer rows.Close()

	var out []relate.ColumnRow
	for rows.Next() {
		var r relate.ColumnRow
		var isNullable, isPrimary int
		if err := rows.Scan(&r.Column, &r.Type, &isNullable, &isPrimary); err != nil {
			return nil, fmt.Errorf("relate/mssql: scan column: %w", err)
		}
		r.Schema = schemaName
		r.Table = table
		r.IsNullable = isNullable == 1
		r.IsPrimaryKey = isPrimary == 1
		out = append(out, r)
	}
	return out, rows.Err()
}

// bracketIdent quotes a SQL Server identifier with brackets, doubling any
// literal "]" the identifier contains.
func bracketIdent(ident string) string {
	return "[" + strings.ReplaceAll(ident, "]", "]]") + "]"
}

// SampleValues returns up to limit non-null values of a column, cast to
// nvarchar. A query failure is surfaced to the caller, which treats it
// as "samples absent" rather than fatal.
func (a *Adapter) SampleValues(ctx context.Context, _, schemaName, table, column string, limit int) ([]string, error) {
	query := fmt.Sprintf(`
	SET NOCOUNT ON;
	SELECT TOP (@limit) CAST(%s AS nvarchar(4000))
	FROM %s.%s
	WHERE %s IS NOT NULL
	`, bracketIdent(column), bracketIdent(schemaName), bracketIdent(table), bracketIdent(column))

	rows, err := a.db.QueryContext(ctx, query, sql.Named("limit", limit))
	if err != nil {
		return nil, fmt.Errorf("relate/mssql: sample %s.%s: %w", table, column, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("relate/mssql: scan sample: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

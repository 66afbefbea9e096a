// Package postgres is a reference relate.MetadataAdapter over
// information_schema and pg_catalog. It is example wiring, not a managed
// connection pool: callers own the *pgxpool.Pool and its lifecycle
// (spec.md §1 scopes connection-pool/TTL management out of the core).
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ekaya-inc/relate"
)

// Adapter implements relate.MetadataAdapter against a live Postgres pool.
type Adapter struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// New wraps an already-connected pool. If logger is nil, a no-op logger
// is used.
func New(pool *pgxpool.Pool, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{pool: pool, logger: logger}
}

func qualifiedTableName(schemaName, tableName string) string {
	quotedTable := pgx.Identifier{tableName}.Sanitize()
	if schemaName == "" {
		return quotedTable
	}
	return pgx.Identifier{schemaName}.Sanitize() + "." + quotedTable
}

// ListTables returns every base table in the given schema, excluding the
// system schemas. workspace is unused: Postgres has no workspace concept
// above schema/database.
func (a *Adapter) ListTables(ctx context.Context, _, schemaName string) ([]string, error) {
	const query = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_type = 'BASE TABLE'
		  AND table_schema = COALESCE(NULLIF($1, ''), table_schema)
		  AND table_schema NOT IN ('pg_catalog', 'information_schema', 'pg_toast')
		ORDER BY table_name
	`

	rows, err := a.pool.Query(ctx, query, schemaName)
	if err != nil {
		return nil, fmt.Errorf("relate/postgres: query tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("relate/postgres: scan table: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// ListColumns returns every column of the requested tables. Primary-key
// detection goes through pg_index.indisprimary rather than
// information_schema.key_column_usage, which also correctly identifies
// primary keys created as unique indexes (common with ORM-managed
// schemas).
func (a *Adapter) ListColumns(ctx context.Context, _, schemaName string, tableNames []string) ([]relate.ColumnRow, error) {
	if len(tableNames) == 0 {
		return nil, nil
	}

	const query = `
		SELECT
			c.table_schema,
			c.table_name,
			c.column_name,
			c.data_type,
			c.is_nullable = 'YES' AS is_nullable,
			COALESCE(pk.is_pk, false) AS is_primary_key
		FROM information_schema.columns c
		LEFT JOIN LATERAL (
			SELECT true AS is_pk
			FROM pg_index ix
			JOIN pg_class t ON t.oid = ix.indrelid
			JOIN pg_namespace n ON n.oid = t.relnamespace
			JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY(ix.indkey)
			WHERE ix.indisprimary = true
			  AND n.nspname = c.table_schema
			  AND t.relname = c.table_name
			  AND a.attname = c.column_name
		) pk ON true
		WHERE c.table_schema = COALESCE(NULLIF($1, ''), c.table_schema)
		  AND c.table_name = ANY($2)
		ORDER BY c.table_schema, c.table_name, c.ordinal_position
	`

	rows, err := a.pool.Query(ctx, query, schemaName, tableNames)
	if err != nil {
		return nil, fmt.Errorf("relate/postgres: query columns: %w", err)
	}
	defer rows.Close()

	var out []relate.ColumnRow
	for rows.Next() {
		var r relate.ColumnRow
		if err := rows.Scan(&r.Schema, &r.Table, &r.Column, &r.Type, &r.IsNullable, &r.IsPrimaryKey); err != nil {
			return nil, fmt.Errorf("relate/postgres: scan column: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SampleValues returns up to limit non-null values of a column, cast to
// text. A query failure (permission denial, type that can't cast to
// text) is surfaced to the caller, which treats it as "samples absent"
// rather than fatal.
func (a *Adapter) SampleValues(ctx context.Context, _, schemaName, table, column string, limit int) ([]string, error) {
	query := fmt.Sprintf(
		`SELECT %s::text FROM %s WHERE %s IS NOT NULL LIMIT $1`,
		pgx.Identifier{column}.Sanitize(),
		qualifiedTableName(schemaName, table),
		pgx.Identifier{column}.Sanitize(),
	)

	rows, err := a.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("relate/postgres: sample %s.%s: %w", table, column, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("relate/postgres: scan sample: %w", err)
		}
		values = append(values, strings.TrimSpace(v))
	}
	return values, rows.Err()
}

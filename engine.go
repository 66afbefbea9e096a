package relate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/relate/internal/apperrors"
	"github.com/ekaya-inc/relate/internal/arbitrate"
	"github.com/ekaya-inc/relate/internal/assemble"
	"github.com/ekaya-inc/relate/internal/bridge"
	"github.com/ekaya-inc/relate/internal/composite"
	"github.com/ekaya-inc/relate/internal/enumerate"
	"github.com/ekaya-inc/relate/internal/obslog"
	"github.com/ekaya-inc/relate/internal/schema"
	"github.com/ekaya-inc/relate/internal/scorer"
)

// DiscoverFromTableDefinitions runs discovery over caller-supplied table
// definitions (spec.md §6, entry point 1). Tables with a missing name, no
// columns, or a duplicate column name are skipped and noted in the
// returned Summary rather than failing the whole run.
func DiscoverFromTableDefinitions(tables []TableDef, opts ...Option) (DiscoveryResult, error) {
	o := defaultOptions()
	for _, apply := range opts {
		apply(&o)
	}
	if err := o.validate(); err != nil {
		return DiscoveryResult{}, err
	}
	return runPipeline(applyDefaults(tables, o), o)
}

// DiscoverFromTables is the entry point for callers whose table
// definitions are already normalized upstream (spec.md §6, entry point
// 2). It shares its pipeline and tuning knobs with
// DiscoverFromTableDefinitions.
func DiscoverFromTables(tables []TableDef, opts ...Option) (DiscoveryResult, error) {
	return DiscoverFromTableDefinitions(tables, opts...)
}

// DiscoverFromSchema acquires table and column metadata through a
// MetadataAdapter, optionally samples a bounded number of values per
// column, then runs the same pipeline (spec.md §6, entry point 3).
// max_tables defaults to 60 for this entry point unless overridden via
// WithMaxTables. A failed or empty SampleValues call degrades that
// column to "samples absent" rather than failing the run.
func DiscoverFromSchema(ctx context.Context, adapter MetadataAdapter, workspace, schemaName string, tableNames []string, samplesPerColumn int, opts ...Option) (DiscoveryResult, error) {
	o := defaultOptions()
	o.maxTables = 60
	for _, apply := range opts {
		apply(&o)
	}
	if err := o.validate(); err != nil {
		return DiscoveryResult{}, err
	}

	logger := o.logger.Named("relate.adapter")

	names := tableNames
	if len(names) == 0 {
		var err error
		names, err = adapter.ListTables(ctx, workspace, schemaName)
		if err != nil {
			return DiscoveryResult{}, fmt.Errorf("relate: list tables: %w", err)
		}
	}

	rows, err := adapter.ListColumns(ctx, workspace, schemaName, names)
	if err != nil {
		return DiscoveryResult{}, fmt.Errorf("relate: list columns: %w", err)
	}

	tables := buildTablesFromRows(workspace, schemaName, rows)

	if samplesPerColumn > 0 {
		for ti, t := range tables {
			for ci, c := range t.Columns {
				values, sampleErr := adapter.SampleValues(ctx, workspace, schemaName, t.Name, c.Name, samplesPerColumn)
				if sampleErr != nil {
					logger.Warn("sample fetch failed, scoring without samples for this column",
						zap.String("table", t.Name), zap.String("column", c.Name), zap.Error(sampleErr))
					continue
				}
				tables[ti].Columns[ci].SampleValues = values
			}
		}
	}

	return runPipeline(tables, o)
}

func (o Options) validate() error {
	if o.weights.Sum() <= 0 {
		return apperrors.ErrInvalidWeights
	}
	if o.minConfidence < 0 || o.minConfidence > 1 {
		return apperrors.ErrInvalidMinConfidence
	}
	if o.tieBand < 0 {
		return apperrors.ErrInvalidTieBand
	}
	return nil
}

// runPipeline drives the Normalizer -> Key Inference -> Candidate
// Enumeration -> Scorer -> Composite Analyzer -> Arbitration -> Bridge
// Derivation -> Assembler chain in that fixed order (spec.md §2).
func runPipeline(tables []schema.TableDef, o Options) (DiscoveryResult, error) {
	start := time.Now()
	logger := o.logger.Named("relate.engine")

	var notes []string
	limitedByTableCap := false
	if o.maxTables > 0 && len(tables) > o.maxTables {
		notes = append(notes, fmt.Sprintf("input truncated to max_tables=%d", o.maxTables))
		tables = tables[:o.maxTables]
		limitedByTableCap = true
	}

	validTables, rejectNotes := filterMalformedTables(tables)
	notes = append(notes, rejectNotes...)

	totalColumns := 0
	for _, t := range validTables {
		totalColumns += len(t.Columns)
	}

	if len(validTables) == 0 {
		return DiscoveryResult{
			Relationships: []Relationship{},
			Tables:        validTables,
			Summary: Summary{
				ProcessingTimeMS: time.Since(start).Milliseconds(),
				LimitedByTableCap: limitedByTableCap,
				Notes:             notes,
			},
		}, nil
	}

	deadline := start.Add(time.Duration(o.timeoutSeconds * float64(time.Second)))
	timedOut := func() bool {
		return o.timeoutSeconds > 0 && time.Now().After(deadline)
	}

	tablesByName := make(map[string]schema.TableDef, len(validTables))
	for _, t := range validTables {
		tablesByName[t.Name] = t
	}

	pkIndex := enumerate.BuildPKIndex(validTables)
	candidates := enumerate.Candidates(validTables, pkIndex)

	sc := scorer.New(o.dict, o.weights)

	limitedByTimeout := false
	scored := make([]schema.Candidate, 0, len(candidates))
	for _, cand := range candidates {
		if timedOut() {
			limitedByTimeout = true
			logger.Warn("discovery deadline exceeded during scoring, remaining candidates dropped",
				zap.Int("scored", len(scored)), zap.Int("total", len(candidates)))
			break
		}
		fkTable := tablesByName[cand.FKTable]
		pkTable := tablesByName[cand.PKTable]
		result := sc.Score(cand, fkTable, pkTable)
		scored = append(scored, result)

		if ce := logger.Check(zap.DebugLevel, "scored candidate"); ce != nil {
			ce.Write(
				zap.String("fk", cand.FKTable+"."+cand.FKColumn),
				zap.String("pk", cand.PKTable+"."+cand.PKColumn),
				zap.Float64("raw_confidence", result.RawConfidence),
				zap.Strings("fk_samples", obslog.SanitizeSamples(columnSamples(fkTable, cand.FKColumnIdx))),
				zap.Strings("pk_samples", obslog.SanitizeSamples(columnSamples(pkTable, cand.PKColumnIdx))),
			)
		}
	}

	var arbitrated []schema.Candidate
	if limitedByTimeout || timedOut() {
		limitedByTimeout = true
		arbitrated = scored
		for i := range arbitrated {
			arbitrated[i].Status = schema.StatusDropped
		}
	} else {
		afterComposite := composite.Analyze(scored, pkIndex)
		if timedOut() {
			limitedByTimeout = true
			for i := range afterComposite {
				afterComposite[i].Status = schema.StatusDropped
			}
			arbitrated = afterComposite
		} else {
			arbitrated = arbitrate.Arbitrate(afterComposite, arbitrate.Config{TieBand: o.tieBand})
		}
	}

	derived := bridge.Derive(arbitrated, pkIndex)

	direct := assemble.BuildDirect(arbitrated, tablesByName, o.strictJoinInference)
	bridges := assemble.BuildBridges(derived, len(candidates))
	built := append(direct, bridges...)

	finalRelationships, limitedByMax := assemble.Finalize(built, o.minConfidence, o.maxRelationships)

	return DiscoveryResult{
		Relationships: finalRelationships,
		Tables:        validTables,
		Summary: Summary{
			TotalTables:               len(validTables),
			TotalColumns:              totalColumns,
			TotalRelationships:        len(finalRelationships),
			ProcessingTimeMS:          time.Since(start).Milliseconds(),
			LimitedByTimeout:          limitedByTimeout,
			LimitedByMaxRelationships: limitedByMax,
			LimitedByTableCap:         limitedByTableCap,
			Notes:                     notes,
		},
	}, nil
}

// applyDefaults fills in a missing workspace/schema and upper-cases table
// names so downstream lookups are case-insensitive at the boundary.
func applyDefaults(tables []TableDef, o Options) []schema.TableDef {
	out := make([]schema.TableDef, len(tables))
	for i, t := range tables {
		if t.Workspace == "" {
			t.Workspace = o.defaultWorkspace
		}
		if t.Schema == "" {
			t.Schema = o.defaultSchema
		}
		t.Name = strings.ToUpper(t.Name)
		out[i] = t
	}
	return out
}

// filterMalformedTables drops tables that cannot be analyzed (missing
// name, no columns, duplicate column name) and records why, rather than
// aborting the whole run (spec.md §7).
func filterMalformedTables(tables []schema.TableDef) ([]schema.TableDef, []string) {
	var valid []schema.TableDef
	var notes []string
	for _, t := range tables {
		if t.Name == "" {
			notes = append(notes, fmt.Sprintf("skipped table: %v", apperrors.ErrMissingTableName))
			continue
		}
		if len(t.Columns) == 0 {
			notes = append(notes, fmt.Sprintf("skipped table %s: %v", t.Name, apperrors.ErrEmptyColumns))
			continue
		}
		if dup, ok := firstDuplicateColumn(t.Columns); ok {
			notes = append(notes, fmt.Sprintf("skipped table %s: %v (%s)", t.Name, apperrors.ErrDuplicateColumn, dup))
			continue
		}
		valid = append(valid, t)
	}
	return valid, notes
}

// columnSamples returns the sample values of the column at idx, or nil if
// idx is out of range (e.g. a malformed candidate produced by a future
// enumeration bug).
func columnSamples(t schema.TableDef, idx int) []string {
	if idx < 0 || idx >= len(t.Columns) {
		return nil
	}
	return t.Columns[idx].SampleValues
}

func firstDuplicateColumn(cols []schema.ColumnDef) (string, bool) {
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		key := strings.ToUpper(c.Name)
		if seen[key] {
			return c.Name, true
		}
		seen[key] = true
	}
	return "", false
}

// buildTablesFromRows groups the flat ColumnRow list returned by a
// MetadataAdapter into table definitions, preserving the order tables
// were first seen in.
func buildTablesFromRows(workspace, schemaName string, rows []ColumnRow) []schema.TableDef {
	order := make([]string, 0)
	byTable := make(map[string]*schema.TableDef)

	for _, r := range rows {
		key := r.Schema + "." + r.Table
		t, ok := byTable[key]
		if !ok {
			t = &schema.TableDef{Workspace: workspace, Schema: r.Schema, Name: strings.ToUpper(r.Table)}
			byTable[key] = t
			order = append(order, key)
		}
		t.Columns = append(t.Columns, schema.ColumnDef{
			Name:              r.Column,
			DeclaredType:      r.Type,
			IsDeclaredPrimary: r.IsPrimaryKey,
			IsNullable:        r.IsNullable,
			Comment:           r.Comment,
		})
	}

	out := make([]schema.TableDef, 0, len(order))
	for _, key := range order {
		out = append(out, *byTable[key])
	}
	return out
}

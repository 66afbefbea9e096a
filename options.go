package relate

import (
	"go.uber.org/zap"

	"github.com/ekaya-inc/relate/internal/entitydict"
	"github.com/ekaya-inc/relate/internal/scorer"
)

// Weights re-exports scorer.Weights so callers never import an internal
// package to tune them.
type Weights = scorer.Weights

// DefaultWeights returns the spec.md §4.6 default evidence weights.
func DefaultWeights() Weights {
	return scorer.DefaultWeights()
}

// EntityDictionary re-exports entitydict.Dictionary.
type EntityDictionary = entitydict.Dictionary

// PriorKey re-exports entitydict.PriorKey.
type PriorKey = entitydict.PriorKey

// DefaultEntityDictionary returns the engine's built-in entity
// dictionary and business-prior seed (spec.md §4.2, SPEC_FULL.md §4).
func DefaultEntityDictionary() *EntityDictionary {
	return entitydict.Default()
}

// Options holds every tuning knob of spec.md §6. It is never
// constructed directly; build one via the functional Option setters
// passed to a DiscoverFrom* entry point.
type Options struct {
	defaultWorkspace    string
	defaultSchema       string
	strictJoinInference bool
	maxRelationships    int
	minConfidence       float64
	timeoutSeconds      float64
	maxTables           int
	tieBand             float64
	weights             Weights
	dict                *EntityDictionary
	logger              *zap.Logger
}

func defaultOptions() Options {
	return Options{
		minConfidence:  0.5,
		timeoutSeconds: 30.0,
		tieBand:        0.10,
		weights:        scorer.DefaultWeights(),
		dict:           entitydict.Default(),
		logger:         zap.NewNop(),
	}
}

// Option configures a discovery run.
type Option func(*Options)

// WithDefaultWorkspace sets the workspace applied to table definitions
// that omit one.
func WithDefaultWorkspace(workspace string) Option {
	return func(o *Options) { o.defaultWorkspace = workspace }
}

// WithDefaultSchema sets the schema applied to table definitions that
// omit one.
func WithDefaultSchema(schemaName string) Option {
	return func(o *Options) { o.defaultSchema = schemaName }
}

// WithStrictJoinInference reserves the strict_join_inference knob of
// spec.md §6 for callers that want join-type classification to require
// an explicit nullability declaration rather than also trusting sampled
// nulls.
func WithStrictJoinInference(strict bool) Option {
	return func(o *Options) { o.strictJoinInference = strict }
}

// WithMaxRelationships caps the number of emitted relationships (0 =
// unlimited, the default).
func WithMaxRelationships(n int) Option {
	return func(o *Options) { o.maxRelationships = n }
}

// WithMinConfidence sets the minimum confidence an emitted relationship
// must reach (default 0.5).
func WithMinConfidence(v float64) Option {
	return func(o *Options) { o.minConfidence = v }
}

// WithTimeoutSeconds sets the wall-clock budget for the scoring,
// composite, and arbitration stages (default 30.0; 0 disables the
// timeout check).
func WithTimeoutSeconds(v float64) Option {
	return func(o *Options) { o.timeoutSeconds = v }
}

// WithMaxTables caps the number of input tables analyzed (0 = unlimited
// for DiscoverFromTableDefinitions/DiscoverFromTables; defaults to 60
// for DiscoverFromSchema unless overridden).
func WithMaxTables(n int) Option {
	return func(o *Options) { o.maxTables = n }
}

// WithTieBand sets the confidence band within which a materially
// different competing candidate is also accepted (default 0.10).
func WithTieBand(v float64) Option {
	return func(o *Options) { o.tieBand = v }
}

// WithWeights overrides the default evidence weights.
func WithWeights(w Weights) Option {
	return func(o *Options) { o.weights = w }
}

// WithEntityDictionary overrides the built-in entity dictionary and
// business-prior table. Use EntityDictionary.Merge to extend rather than
// replace the built-in default.
func WithEntityDictionary(dict *EntityDictionary) Option {
	return func(o *Options) { o.dict = dict }
}

// WithLogger attaches a zap.Logger the engine scopes via Named
// ("relate.engine" for the pipeline, "relate.adapter" for
// DiscoverFromSchema's adapter calls). The default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

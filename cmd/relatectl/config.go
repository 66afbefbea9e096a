package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/ekaya-inc/relate"
)

// overlayFile is the shape of the optional TOML overlay file passed via
// --overlay. It extends, never replaces, the engine's built-in entity
// dictionary and weight defaults.
type overlayFile struct {
	MinConfidence    *float64             `toml:"min_confidence"`
	MaxRelationships *int                 `toml:"max_relationships"`
	TimeoutSeconds   *float64             `toml:"timeout_seconds"`
	MaxTables        *int                 `toml:"max_tables"`
	TieBand          *float64             `toml:"tie_band"`
	Weights          *weightsOverlay      `toml:"weights"`
	EntityDictionary map[string][]string  `toml:"entity_dictionary"`
	BusinessPriors   []businessPriorEntry `toml:"business_priors"`
}

type weightsOverlay struct {
	NameSimilarity          *float64 `toml:"name_similarity"`
	TypeCompatibility       *float64 `toml:"type_compatibility"`
	ValueContainment        *float64 `toml:"value_containment"`
	SchemaPattern           *float64 `toml:"schema_pattern"`
	DomainPrior             *float64 `toml:"domain_prior"`
	Statistical             *float64 `toml:"statistical"`
	CardinalityPlausibility *float64 `toml:"cardinality_plausibility"`
}

type businessPriorEntry struct {
	PKEntity string  `toml:"pk_entity"`
	FKEntity string  `toml:"fk_entity"`
	Prior    float64 `toml:"prior"`
}

// loadOverlay reads an overlay TOML file, if path is non-empty, and
// returns it decoded. An empty path is not an error; it returns a zero
// overlayFile.
func loadOverlay(path string) (overlayFile, error) {
	var cfg overlayFile
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		return cfg, fmt.Errorf("overlay file %s: %w", path, err)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse overlay file %s: %w", path, err)
	}
	return cfg, nil
}

// options translates a decoded overlay file into relate.Option values.
func (cfg overlayFile) options() []relate.Option {
	var opts []relate.Option

	if cfg.MinConfidence != nil {
		opts = append(opts, relate.WithMinConfidence(*cfg.MinConfidence))
	}
	if cfg.MaxRelationships != nil {
		opts = append(opts, relate.WithMaxRelationships(*cfg.MaxRelationships))
	}
	if cfg.TimeoutSeconds != nil {
		opts = append(opts, relate.WithTimeoutSeconds(*cfg.TimeoutSeconds))
	}
	if cfg.MaxTables != nil {
		opts = append(opts, relate.WithMaxTables(*cfg.MaxTables))
	}
	if cfg.TieBand != nil {
		opts = append(opts, relate.WithTieBand(*cfg.TieBand))
	}
	if cfg.Weights != nil {
		opts = append(opts, relate.WithWeights(cfg.Weights.apply(relate.DefaultWeights())))
	}
	if len(cfg.EntityDictionary) > 0 || len(cfg.BusinessPriors) > 0 {
		priors := make(map[relate.PriorKey]float64, len(cfg.BusinessPriors))
		for _, p := range cfg.BusinessPriors {
			priors[relate.PriorKey{PKEntity: p.PKEntity, FKEntity: p.FKEntity}] = p.Prior
		}
		merged := relate.DefaultEntityDictionary().Merge(cfg.EntityDictionary, priors)
		opts = append(opts, relate.WithEntityDictionary(merged))
	}

	return opts
}

func (w weightsOverlay) apply(base relate.Weights) relate.Weights {
	if w.NameSimilarity != nil {
		base.NameSimilarity = *w.NameSimilarity
	}
	if w.TypeCompatibility != nil {
		base.TypeCompatibility = *w.TypeCompatibility
	}
	if w.ValueContainment != nil {
		base.ValueContainment = *w.ValueContainment
	}
	if w.SchemaPattern != nil {
		base.SchemaPattern = *w.SchemaPattern
	}
	if w.DomainPrior != nil {
		base.DomainPrior = *w.DomainPrior
	}
	if w.Statistical != nil {
		base.Statistical = *w.Statistical
	}
	if w.CardinalityPlausibility != nil {
		base.CardinalityPlausibility = *w.CardinalityPlausibility
	}
	return base
}

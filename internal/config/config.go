package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"soltab/internal/domain"
)

// Config holds all pipeline configuration. Every threshold the core uses is
// externally supplied and versioned with the run; nothing is ambient state.
type Config struct {
	Pipeline   PipelineConfig   `mapstructure:"pipeline"`
	Normalizer NormalizerConfig `mapstructure:"normalizer"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Header     HeaderConfig     `mapstructure:"header"`
	Quality    QualityConfig    `mapstructure:"quality"`
	Export     ExportConfig     `mapstructure:"export"`
}

// PipelineConfig holds batch processing settings.
type PipelineConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// NormalizerConfig holds cell normalization settings.
type NormalizerConfig struct {
	// EmptySentinels lists cell values that normalize to Missing,
	// in addition to empty and whitespace-only cells.
	EmptySentinels []string `mapstructure:"empty_sentinels"`
}

// ClassifierConfig holds column semantic classification settings.
type ClassifierConfig struct {
	// SampleSize bounds how many rows a predicate inspects per column.
	SampleSize int `mapstructure:"sample_size"`
	// MinConfidence is the floor below which a column falls through to
	// the generic types.
	MinConfidence float64 `mapstructure:"min_confidence"`
}

// HeaderConfig holds per-strategy thresholds for header inference.
type HeaderConfig struct {
	// ClassifierThreshold is the minimum classifier confidence for the
	// classifier-informed naming strategy to fire.
	ClassifierThreshold float64 `mapstructure:"classifier_threshold"`
	// MetadataThreshold is the minimum hint confidence for the
	// metadata-informed naming strategy to fire.
	MetadataThreshold float64 `mapstructure:"metadata_threshold"`
}

// Range is a plausible [Min, Max] interval for a semantic type.
type Range struct {
	Min float64 `mapstructure:"min"`
	Max float64 `mapstructure:"max"`
}

// Contains reports whether v lies within the range, inclusive.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// QualityConfig holds evaluation thresholds and the plausible-range table.
type QualityConfig struct {
	// Ranges maps a SemanticType to its plausible value range. Values
	// outside the range are flagged, never dropped or clamped.
	Ranges map[string]Range `mapstructure:"ranges"`
	// LowHeaderConfidence flags any column whose header confidence is
	// below this value.
	LowHeaderConfidence float64 `mapstructure:"low_header_confidence"`
	// HighNullRate flags tables whose completeness is below this value.
	HighNullRate float64 `mapstructure:"high_null_rate"`
	// DuplicateRowRatio flags tables whose duplicate-row share exceeds
	// this value.
	DuplicateRowRatio float64 `mapstructure:"duplicate_row_ratio"`
}

// RangeFor returns the plausible range for a semantic type, if one is
// configured. Lookup is case-insensitive because viper lowercases map keys.
func (q *QualityConfig) RangeFor(t domain.SemanticType) (Range, bool) {
	r, ok := q.Ranges[strings.ToLower(string(t))]
	return r, ok
}

// ExportConfig holds artifact export settings.
type ExportConfig struct {
	// XLSX enables the Excel workbook artifact alongside CSV + sidecar.
	XLSX bool `mapstructure:"xlsx"`
}

// Load reads configuration from environment variables with the SOLTAB_
// prefix, falling back to defaults that match the published pipeline.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SOLTAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// Default returns the default configuration without consulting the
// environment. Tests and library callers use this.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults are statically well-formed; Unmarshal cannot fail here.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	// Pipeline defaults
	v.SetDefault("pipeline.concurrency", 4)

	// Normalizer defaults
	v.SetDefault("normalizer.empty_sentinels", []string{"-", "--", "---", "----", "n/a", "N/A"})

	// Classifier defaults
	v.SetDefault("classifier.sample_size", 20)
	v.SetDefault("classifier.min_confidence", 0.5)

	// Header defaults
	v.SetDefault("header.classifier_threshold", 0.55)
	v.SetDefault("header.metadata_threshold", 0.4)

	// Quality defaults
	v.SetDefault("quality.low_header_confidence", 0.5)
	v.SetDefault("quality.high_null_rate", 0.7)
	v.SetDefault("quality.duplicate_row_ratio", 0.1)
	v.SetDefault("quality.ranges", map[string]any{
		"temperature":  map[string]any{"min": -273.15, "max": 1000.0},
		"mass_percent": map[string]any{"min": 0.0, "max": 100.0},
		"mole_percent": map[string]any{"min": 0.0, "max": 100.0},
		"molality":     map[string]any{"min": 0.0, "max": 100.0},
		"ph":           map[string]any{"min": 0.0, "max": 14.0},
		"density":      map[string]any{"min": 0.0, "max": 30.0},
	})

	// Export defaults
	v.SetDefault("export.xlsx", false)
}

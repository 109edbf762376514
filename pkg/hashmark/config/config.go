// Package config defines the engine configuration and its YAML loader.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/hashmark/pkg/hashmark/denylist"
	"github.com/cognicore/hashmark/pkg/hashmark/internalerr"
)

// Config holds all engine options.
type Config struct {
	// MinCount is the label count below which a low-richness warning fires.
	MinCount int `yaml:"min_count"`
	// MaxCount caps the final label list per document.
	MaxCount int `yaml:"max_count"`

	Denylist     []string      `yaml:"denylist"`
	DenylistMode denylist.Mode `yaml:"denylist_mode"`

	// SimilarityThreshold is the minimum Jaccard score for remapping a
	// candidate onto an existing vocabulary entry.
	SimilarityThreshold float64 `yaml:"similarity_threshold"`

	// CandidateCap bounds the combined candidate list per document.
	CandidateCap int `yaml:"candidate_cap"`
	// KeywordCap bounds how many ranked body keywords become candidates.
	KeywordCap int `yaml:"keyword_cap"`

	// RemapDiagnosticCap bounds reported remap diagnostics per document.
	RemapDiagnosticCap int `yaml:"remap_diagnostic_cap"`
	// SuggestionDiagnosticCap bounds reported unused-candidate suggestions.
	SuggestionDiagnosticCap int `yaml:"suggestion_diagnostic_cap"`

	// ExtraWordScanLimit is accepted for compatibility but currently has
	// no effect.
	ExtraWordScanLimit int `yaml:"extra_word_scan_limit"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		MinCount:                3,
		MaxCount:                12,
		DenylistMode:            denylist.ModeExact,
		SimilarityThreshold:     0.6,
		CandidateCap:            40,
		KeywordCap:              10,
		RemapDiagnosticCap:      10,
		SuggestionDiagnosticCap: 10,
	}
}

// Load reads a YAML config file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks option constraints. It must pass before any document is
// processed.
func (c Config) Validate() error {
	if c.MinCount < 1 {
		return fmt.Errorf("min_count %d: must be >= 1: %w", c.MinCount, internalerr.ErrInvalidConfig)
	}
	if c.MaxCount < c.MinCount {
		return fmt.Errorf("max_count %d: must be >= min_count %d: %w", c.MaxCount, c.MinCount, internalerr.ErrInvalidConfig)
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity_threshold %v: must be in [0,1]: %w", c.SimilarityThreshold, internalerr.ErrInvalidConfig)
	}
	if c.DenylistMode != denylist.ModeExact && c.DenylistMode != denylist.ModeGlob {
		return fmt.Errorf("denylist_mode %q: %w", c.DenylistMode, internalerr.ErrInvalidConfig)
	}
	if c.CandidateCap < 0 || c.KeywordCap < 0 {
		return fmt.Errorf("candidate_cap/keyword_cap: must be >= 0: %w", internalerr.ErrInvalidConfig)
	}
	if c.RemapDiagnosticCap < 0 || c.SuggestionDiagnosticCap < 0 {
		return fmt.Errorf("diagnostic caps: must be >= 0: %w", internalerr.ErrInvalidConfig)
	}
	if c.ExtraWordScanLimit < 0 {
		return fmt.Errorf("extra_word_scan_limit %d: must be >= 0: %w", c.ExtraWordScanLimit, internalerr.ErrInvalidConfig)
	}
	return nil
}

// Package config provides configuration management for the ETL pipeline.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"hotelstar/internal/quality"
	"hotelstar/internal/reference"
	"hotelstar/internal/warehouse"
)

// Configuration validation errors.
var (
	ErrMissingInput         = errors.New("pipeline.input is required")
	ErrMissingOutputDir     = errors.New("pipeline.output_dir is required")
	ErrNoSinks              = errors.New("pipeline.sinks must list at least one sink")
	ErrInvalidSink          = errors.New("pipeline.sinks entries must be 'csv' or 'sqlite'")
	ErrMissingSQLitePath    = errors.New("pipeline.sqlite_path is required when the sqlite sink is enabled")
	ErrInvalidAnalysisYear  = errors.New("pipeline.analysis_year must be between 1900 and 9999")
	ErrInvalidPreviewRows   = errors.New("pipeline.preview_rows must be non-negative")
	ErrUnknownRoomType      = errors.New("reference.rack_rates names an unknown room type")
	ErrInvalidRackRate      = errors.New("reference.rack_rates values must be positive")
	ErrUnknownRateCode      = errors.New("reference.discount_multipliers names an unknown rate code")
	ErrInvalidDiscount      = errors.New("reference.discount_multipliers values must be in (0, 1]")
	ErrUnknownAnomalyKind   = errors.New("policy names an unknown anomaly kind")
	ErrInvalidAnomalyAction = errors.New("policy actions must be one of: default, drop, fail")
	ErrInvalidLogLevel      = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Config represents the complete ETL configuration.
type Config struct {
	Policy    map[string]string `yaml:"policy"`
	Logging   LoggingConfig     `yaml:"logging"`
	Reference ReferenceConfig   `yaml:"reference"`
	Pipeline  PipelineConfig    `yaml:"pipeline"`
}

// PipelineConfig locates the input and outputs of a run.
type PipelineConfig struct {
	Input        string   `yaml:"input"`
	OutputDir    string   `yaml:"output_dir"`
	SQLitePath   string   `yaml:"sqlite_path"`
	Sinks        []string `yaml:"sinks"`
	AnalysisYear int      `yaml:"analysis_year"`
	PreviewRows  int      `yaml:"preview_rows"`
	WriteReport  bool     `yaml:"write_report"`
}

// ReferenceConfig overrides entries of the built-in reference tables.
type ReferenceConfig struct {
	RackRates           map[string]float64 `yaml:"rack_rates"`
	DiscountMultipliers map[string]float64 `yaml:"discount_multipliers"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns a runnable configuration using the built-in reference tables.
func Default() *Config {
	policy := make(map[string]string, len(quality.Kinds))
	for _, k := range quality.Kinds {
		policy[string(k)] = string(quality.ActionDefault)
	}

	return &Config{
		Pipeline: PipelineConfig{
			Input:        "data/bookings.csv",
			OutputDir:    "output",
			SQLitePath:   "output/warehouse.db",
			Sinks:        []string{warehouse.SinkCSV},
			AnalysisYear: reference.DefaultAnalysisYear,
			PreviewRows:  10,
		},
		Policy:  policy,
		Logging: LoggingConfig{Level: "info"},
	}
}

// LoadConfig loads configuration from a YAML file on top of Default.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes the configuration as YAML, creating parent directories.
// The written file loads back through LoadConfig to an equal configuration.
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Pipeline.Input == "" {
		return ErrMissingInput
	}

	if c.Pipeline.OutputDir == "" {
		return ErrMissingOutputDir
	}

	if len(c.Pipeline.Sinks) == 0 {
		return ErrNoSinks
	}

	for _, s := range c.Pipeline.Sinks {
		switch s {
		case warehouse.SinkCSV:
		case warehouse.SinkSQLite:
			if c.Pipeline.SQLitePath == "" {
				return ErrMissingSQLitePath
			}
		default:
			return fmt.Errorf("%w: %q", ErrInvalidSink, s)
		}
	}

	if c.Pipeline.AnalysisYear < 1900 || c.Pipeline.AnalysisYear > 9999 {
		return ErrInvalidAnalysisYear
	}

	if c.Pipeline.PreviewRows < 0 {
		return ErrInvalidPreviewRows
	}

	if err := c.validateReference(); err != nil {
		return err
	}

	for kind, action := range c.Policy {
		if !quality.IsKnownKind(quality.Kind(kind)) {
			return fmt.Errorf("%w: %q", ErrUnknownAnomalyKind, kind)
		}

		if !quality.IsValidAction(quality.Action(action)) {
			return fmt.Errorf("%w: %s=%q", ErrInvalidAnomalyAction, kind, action)
		}
	}

	// Validate logging config
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

func (c *Config) validateReference() error {
	base := reference.Default()

	for code, rate := range c.Reference.RackRates {
		if _, ok := base.RackRates[code]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownRoomType, code)
		}

		if rate <= 0 {
			return fmt.Errorf("%w: %s=%v", ErrInvalidRackRate, code, rate)
		}
	}

	for code, mult := range c.Reference.DiscountMultipliers {
		if _, ok := base.DiscountMultipliers[code]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownRateCode, code)
		}

		if mult <= 0 || mult > 1 {
			return fmt.Errorf("%w: %s=%v", ErrInvalidDiscount, code, mult)
		}
	}

	return nil
}

// ReferenceTables returns the built-in tables with the configured overrides
// and analysis year applied.
func (c *Config) ReferenceTables() reference.Tables {
	tables := reference.Default()
	tables.AnalysisYear = c.Pipeline.AnalysisYear

	for i := range tables.Rooms {
		room := &tables.Rooms[i]
		if rate, ok := c.Reference.RackRates[room.Code]; ok {
			room.RackRate = decimal.NewFromFloat(rate).Round(2)
			tables.RackRates[room.Code] = room.RackRate
		}
	}

	for code, mult := range c.Reference.DiscountMultipliers {
		tables.DiscountMultipliers[code] = decimal.NewFromFloat(mult)
	}

	return tables
}

// QualityPolicy converts the policy section into a quality.Policy. Kinds not
// listed fall back to the default action.
func (c *Config) QualityPolicy() quality.Policy {
	policy := quality.DefaultPolicy()

	for kind, action := range c.Policy {
		policy[quality.Kind(kind)] = quality.Action(action)
	}

	return policy
}

// HasSink reports whether the named sink is enabled.
func (c *Config) HasSink(name string) bool {
	for _, s := range c.Pipeline.Sinks {
		if s == name {
			return true
		}
	}

	return false
}

// String returns a string representation of the config.
func (c *Config) String() string {
	sinks := append([]string(nil), c.Pipeline.Sinks...)
	sort.Strings(sinks)

	return fmt.Sprintf(
		"Config{Input: %s, Output: %s, Sinks: %v, Year: %d}",
		c.Pipeline.Input,
		c.Pipeline.OutputDir,
		sinks,
		c.Pipeline.AnalysisYear,
	)
}

// Package config manages the analysis settings: the configuration object
// handed to the analysis engine. The settings are opaque to the view
// layer; this package owns their persistence.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Settings holds the analysis configuration.
type Settings struct {
	// Analysis options.
	Algorithm     string  `koanf:"algorithm" yaml:"algorithm"`         // "bdd", "zbdd", "mocus"
	Approximation string  `koanf:"approximation" yaml:"approximation"` // "none", "rare-event", "mcub"
	MissionTime   float64 `koanf:"mission_time" yaml:"mission_time"`
	LimitOrder    int     `koanf:"limit_order" yaml:"limit_order"`

	// Which sub-analyses the engine should produce.
	ProbabilityAnalysis bool `koanf:"probability_analysis" yaml:"probability_analysis"`
	ImportanceAnalysis  bool `koanf:"importance_analysis" yaml:"importance_analysis"`

	// ReportFile points the report-backed engine at a precomputed result set.
	ReportFile string `koanf:"report_file" yaml:"report_file,omitempty"`

	// StrictAsserts makes internal invariant violations panic instead of
	// being logged and surfaced on the status line.
	StrictAsserts bool `koanf:"strict_asserts" yaml:"strict_asserts"`
}

// Default returns the settings used when no config file exists.
func Default() *Settings {
	return &Settings{
		Algorithm:           "bdd",
		Approximation:       "none",
		MissionTime:         8760,
		LimitOrder:          20,
		ProbabilityAnalysis: true,
		ImportanceAnalysis:  true,
	}
}

// Load reads settings from the given YAML file, then overlays environment
// variable overrides (RISKVIEW_*). A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	k := koanf.New(".")
	settings := Default()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// RISKVIEW_MISSION_TIME -> mission_time, etc.
	if err := k.Load(env.Provider("RISKVIEW_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "RISKVIEW_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", settings); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Save writes the settings to the given YAML file path.
func (s *Settings) Save(path string) error {
	data, err := yamlv3.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validAlgorithms = map[string]bool{
	"bdd":   true,
	"zbdd":  true,
	"mocus": true,
}

var validApproximations = map[string]bool{
	"none":       true,
	"rare-event": true,
	"mcub":       true,
}

// Validate checks that the settings contain valid values.
func (s *Settings) Validate() error {
	if !validAlgorithms[s.Algorithm] {
		return fmt.Errorf("invalid algorithm %q: must be one of bdd, zbdd, mocus", s.Algorithm)
	}
	if !validApproximations[s.Approximation] {
		return fmt.Errorf("invalid approximation %q: must be one of none, rare-event, mcub", s.Approximation)
	}
	if s.MissionTime <= 0 {
		return fmt.Errorf("mission_time must be positive, got %v", s.MissionTime)
	}
	if s.LimitOrder < 1 {
		return fmt.Errorf("limit_order must be at least 1, got %d", s.LimitOrder)
	}
	return nil
}

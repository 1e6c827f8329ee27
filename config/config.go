// Package config holds the plugin's tunable settings: output directory,
// activation, and the handful of derivation constants (branch history
// window, coverage threshold) that a host may still want to override for
// experimentation.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Settings are the plugin's tunable knobs. The zero value is usable:
// Default() returns the documented defaults.
type Settings struct {
	// Enabled mirrors the host's --aiwc activation flag.
	Enabled bool `yaml:"enabled"`

	// OutputDir is where CSV artifacts are written. Defaults to the
	// current working directory.
	OutputDir string `yaml:"output_dir"`

	// CoverageThreshold is the fraction used for the opcode, branch, and
	// memory-footprint coverage derivations. report.Derive falls back to
	// 0.9 when this is left at its zero value, so a test harness can
	// probe the coverage logic with other thresholds by setting this
	// explicitly.
	CoverageThreshold float64 `yaml:"coverage_threshold"`

	// BranchHistoryWindow is the Yokota entropy window length m.
	// report.Derive falls back to 16 when this is left at its zero value.
	BranchHistoryWindow int `yaml:"branch_history_window"`
}

// Default returns the plugin's documented defaults.
func Default() Settings {
	return Settings{
		Enabled:             false,
		OutputDir:           ".",
		CoverageThreshold:   0.9,
		BranchHistoryWindow: 16,
	}
}

// Option configures Settings, following the functional-options pattern used
// throughout this codebase for component construction.
type Option func(*Settings)

// WithEnabled toggles plugin activation, equivalent to the host's --aiwc
// flag.
func WithEnabled(enabled bool) Option {
	return func(s *Settings) { s.Enabled = enabled }
}

// WithOutputDir sets the directory CSV artifacts are written to.
func WithOutputDir(dir string) Option {
	return func(s *Settings) { s.OutputDir = dir }
}

// Load reads YAML settings from path, starting from Default() and applying
// any fields present in the file, then any options, in that order. This is
// the batch/offline configuration path for hosts that can't pass flags
// directly.
func Load(path string, opts ...Option) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, err
	}

	for _, opt := range opts {
		opt(&s)
	}
	return s, nil
}

// New builds Settings from Default() plus the given options, with no file
// involved.
func New(opts ...Option) Settings {
	s := Default()
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Package config provides reading and writing of mdaudit configuration.
// Supports both global (~/.mdaudit/config.yaml) and local (.mdaudit/config.yaml).
// Reading: uses local if it exists, otherwise global.
// Writing: defaults to global, use --local for local.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/jpl-au/mdaudit/internal/duration"
	"github.com/jpl-au/mdaudit/internal/lang"
	"github.com/jpl-au/mdaudit/internal/redundancy"
	"github.com/jpl-au/mdaudit/internal/toolchain"
)

var (
	// ErrNoConfigPath is returned when the config path cannot be determined.
	ErrNoConfigPath = errors.New("cannot determine config path")
	// ErrInvalidValue is returned when a config value is invalid. Invalid
	// configuration is fatal to the whole run, unlike per-item findings.
	ErrInvalidValue = errors.New("invalid config value")
)

// Scope represents the configuration scope (global or local).
type Scope int

const (
	// ScopeGlobal is user-wide config in ~/.mdaudit/config.yaml (default)
	ScopeGlobal Scope = iota
	// ScopeLocal is corpus-specific config in .mdaudit/config.yaml
	ScopeLocal
)

// Weights splits the overall quality score between analyzers. The split is
// policy, not business logic; the only hard rule is that it sums to 1.0.
type Weights struct {
	Code       float64 `yaml:"code"`
	Links      float64 `yaml:"links"`
	Redundancy float64 `yaml:"redundancy"`
}

// DefaultWeights favours the binary-defect analyzers over the style signal.
func DefaultWeights() Weights {
	return Weights{Code: 0.4, Links: 0.4, Redundancy: 0.2}
}

// Validate enforces the sum-to-1.0 contract with a small float tolerance.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{"code": w.Code, "links": w.Links, "redundancy": w.Redundancy} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: weight %s must be in [0,1], got %v", ErrInvalidValue, name, v)
		}
	}
	if sum := w.Code + w.Links + w.Redundancy; math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("%w: weights must sum to 1.0, got %v", ErrInvalidValue, sum)
	}
	return nil
}

// Workers bounds the two worker pools. Zero means "use the default".
type Workers struct {
	Load    int `yaml:"load,omitempty"`
	Compile int `yaml:"compile,omitempty"`
}

// Config contains configuration for mdaudit.
type Config struct {
	Thresholds *redundancy.Thresholds    `yaml:"thresholds,omitempty"`
	Weights    *Weights                  `yaml:"weights,omitempty"`
	Workers    Workers                   `yaml:"workers,omitempty"`
	Toolchains map[string]toolchain.Tool `yaml:"toolchains,omitempty"`
	Timeout    duration.Duration         `yaml:"timeout,omitempty"` // fills toolchain entries without their own

	// path is the file this config was loaded from (for Save)
	path  string
	scope Scope
}

// Validate checks that all configured values are within acceptable bounds.
// Returns nil if all values are valid or not set (defaults will be used).
func (c *Config) Validate() error {
	if c.Thresholds != nil {
		if err := c.Thresholds.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidValue, err)
		}
	}
	if c.Weights != nil {
		if err := c.Weights.Validate(); err != nil {
			return err
		}
	}
	if c.Workers.Load < 0 || c.Workers.Compile < 0 {
		return fmt.Errorf("%w: worker counts cannot be negative", ErrInvalidValue)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout cannot be negative", ErrInvalidValue)
	}
	for name, t := range c.Toolchains {
		if t.Bin == "" {
			return fmt.Errorf("%w: toolchain %s has no binary", ErrInvalidValue, name)
		}
	}
	return nil
}

// ResolvedThresholds returns configured thresholds or the defaults.
func (c *Config) ResolvedThresholds() redundancy.Thresholds {
	if c.Thresholds == nil {
		return redundancy.DefaultThresholds()
	}
	return *c.Thresholds
}

// ResolvedWeights returns configured weights or the defaults.
func (c *Config) ResolvedWeights() Weights {
	if c.Weights == nil {
		return DefaultWeights()
	}
	return *c.Weights
}

// ResolvedTools merges configured toolchain entries over the built-in table.
// A config entry replaces the default for its language wholesale; the
// run-wide timeout fills any entry that does not set its own.
func (c *Config) ResolvedTools() map[lang.Lang]toolchain.Tool {
	tools := toolchain.Defaults()
	for name, t := range c.Toolchains {
		tools[lang.Lang(name)] = t
	}
	if c.Timeout > 0 {
		for l, t := range tools {
			if t.Timeout <= 0 || t.Timeout == toolchain.DefaultTimeout {
				t.Timeout = c.Timeout
				tools[l] = t
			}
		}
	}
	return tools
}

// LocalPath returns the path to the local (corpus) config file.
func LocalPath() string {
	return filepath.Join(".mdaudit", "config.yaml")
}

// GlobalPath returns the path to the global (user) config file: ~/.mdaudit/config.yaml
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".mdaudit", "config.yaml")
}

// Load reads configuration: uses local if it exists, otherwise global.
func Load() (*Config, error) {
	if _, err := os.Stat(LocalPath()); err == nil {
		return LoadScope(ScopeLocal)
	}
	return LoadScope(ScopeGlobal)
}

// LoadScope reads configuration from a specific scope.
func LoadScope(scope Scope) (*Config, error) {
	path := pathForScope(scope)
	if path == "" {
		return &Config{scope: scope}, nil
	}
	return LoadFile(path, scope)
}

// LoadFile reads configuration from an explicit file path. A missing file
// yields the zero config (all defaults) rather than an error.
func LoadFile(path string, scope Scope) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{path: path, scope: scope}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("malformed config file %s: %w\n\nTo fix: edit the file to correct the YAML syntax, or delete it to use defaults", path, err)
	}
	cfg.path = path
	cfg.scope = scope

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Scope returns which scope this config was loaded from.
func (c *Config) Scope() Scope {
	return c.scope
}

// Save writes the configuration to its original location.
func (c *Config) Save() error {
	if c.path == "" {
		c.path = pathForScope(c.scope)
	}
	if c.path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(c.path)
}

// SaveScope writes the configuration to the standard path for a scope,
// regardless of where it was loaded from.
func (c *Config) SaveScope(scope Scope) error {
	p := pathForScope(scope)
	if p == "" {
		return ErrNoConfigPath
	}
	c.path = p
	c.scope = scope
	return c.saveToPath(p)
}

// saveToPath writes configuration to a specific filesystem path.
// Creates parent directories as needed with mode 0755.
func (c *Config) saveToPath(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// pathForScope returns the filesystem path for a given scope.
func pathForScope(scope Scope) string {
	switch scope {
	case ScopeLocal:
		return LocalPath()
	case ScopeGlobal:
		return GlobalPath()
	default:
		return ""
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/mdaudit/internal/duration"
	"github.com/jpl-au/mdaudit/internal/lang"
)

func TestWeights_Validate(t *testing.T) {
	assert.NoError(t, DefaultWeights().Validate())
	assert.NoError(t, Weights{Code: 0.5, Links: 0.5, Redundancy: 0}.Validate())
	assert.Error(t, Weights{Code: 0.5, Links: 0.5, Redundancy: 0.5}.Validate())
	assert.Error(t, Weights{Code: -0.2, Links: 0.6, Redundancy: 0.6}.Validate())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	content := `
thresholds:
  overlap: 0.6
  near: 0.85
weights:
  code: 0.5
  links: 0.3
  redundancy: 0.2
workers:
  compile: 2
toolchains:
  rust:
    bin: rustc
    parse_args: ["--emit=metadata", "{{file}}"]
    ext: .rs
timeout: 30s
`
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))

	cfg, err := LoadFile(p, ScopeLocal)
	require.NoError(t, err)

	assert.Equal(t, 0.6, cfg.ResolvedThresholds().Overlap)
	assert.Equal(t, 0.85, cfg.ResolvedThresholds().Near)
	assert.Equal(t, 0.5, cfg.ResolvedWeights().Code)
	assert.Equal(t, 2, cfg.Workers.Compile)

	tools := cfg.ResolvedTools()
	rust := tools[lang.Rust]
	assert.Equal(t, "rustc", rust.Bin)
	// Run-wide timeout fills entries that set none of their own.
	assert.Equal(t, duration.Duration(30*time.Second), rust.Timeout)
	// Defaults survive for languages the file does not mention.
	assert.Equal(t, "bash", tools[lang.Bash].Bin)
}

func TestLoadFile_Missing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "none.yaml"), ScopeLocal)
	require.NoError(t, err)
	assert.Equal(t, DefaultWeights(), cfg.ResolvedWeights())
}

func TestLoadFile_Invalid(t *testing.T) {
	dir := t.TempDir()

	t.Run("bad yaml", func(t *testing.T) {
		p := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(p, []byte("weights: ["), 0644))
		_, err := LoadFile(p, ScopeLocal)
		assert.Error(t, err)
	})

	t.Run("weights off balance", func(t *testing.T) {
		p := filepath.Join(dir, "weights.yaml")
		require.NoError(t, os.WriteFile(p, []byte("weights:\n  code: 0.9\n  links: 0.9\n  redundancy: 0.9\n"), 0644))
		_, err := LoadFile(p, ScopeLocal)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("bad thresholds", func(t *testing.T) {
		p := filepath.Join(dir, "thresholds.yaml")
		require.NoError(t, os.WriteFile(p, []byte("thresholds:\n  overlap: 1.5\n  near: 1.6\n"), 0644))
		_, err := LoadFile(p, ScopeLocal)
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("toolchain without binary", func(t *testing.T) {
		p := filepath.Join(dir, "tool.yaml")
		require.NoError(t, os.WriteFile(p, []byte("toolchains:\n  rust:\n    ext: .rs\n"), 0644))
		_, err := LoadFile(p, ScopeLocal)
		assert.ErrorIs(t, err, ErrInvalidValue)
	})
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "sub", "config.yaml")

	cfg := &Config{path: p, Weights: &Weights{Code: 0.6, Links: 0.3, Redundancy: 0.1}}
	require.NoError(t, cfg.Save())

	loaded, err := LoadFile(p, ScopeLocal)
	require.NoError(t, err)
	assert.Equal(t, 0.6, loaded.ResolvedWeights().Code)
}

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	t.Run("rendered report", func(t *testing.T) {
		env := newTestEnv(t)
		writeSampleCorpus(env)

		out := env.run("check", "docs")
		env.contains(out, "mdaudit report: docs")
		env.contains(out, "Overall score")
		env.contains(out, "Findings")
		env.contains(out, "broken-link")
	})

	t.Run("json output", func(t *testing.T) {
		env := newTestEnv(t)
		writeSampleCorpus(env)

		var rep struct {
			Documents int  `json:"documents"`
			Partial   bool `json:"partial"`
			Scores    struct {
				Overall float64 `json:"overall"`
			} `json:"scores"`
			Links struct {
				Total    int `json:"total"`
				Resolved int `json:"resolved"`
			} `json:"links"`
		}
		env.runJSON(&rep, "check", "docs")

		assert.Equal(t, 2, rep.Documents)
		assert.False(t, rep.Partial)
		assert.Equal(t, 3, rep.Links.Total)
		assert.Equal(t, 2, rep.Links.Resolved)
		assert.Greater(t, rep.Scores.Overall, 0.0)
		assert.Less(t, rep.Scores.Overall, 1.0)
	})

	t.Run("weights override", func(t *testing.T) {
		env := newTestEnv(t)
		writeSampleCorpus(env)

		var rep struct {
			Scores struct {
				Code    float64 `json:"code"`
				Overall float64 `json:"overall"`
			} `json:"scores"`
		}
		env.runJSON(&rep, "check", "docs", "--weights", "1,0,0")
		assert.InDelta(t, rep.Scores.Code, rep.Scores.Overall, 1e-9)
	})

	t.Run("fail-under gate", func(t *testing.T) {
		env := newTestEnv(t)
		writeSampleCorpus(env)

		_, err := env.runErr("check", "docs", "--fail-under", "0.99", "-q")
		require.Error(t, err)

		// A clean corpus passes the same gate.
		clean := newTestEnv(t)
		clean.writeDoc("only.md", "# Only\n\nNothing wrong in this single document at all.\n")
		clean.run("check", "docs", "--fail-under", "0.99", "-q")
	})
}

func TestCheck_Errors(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		env := newTestEnv(t)

		out, err := env.runErr("check", "nonexistent")
		require.Error(t, err)
		env.contains(out, "nonexistent")
	})

	t.Run("root is a file", func(t *testing.T) {
		env := newTestEnv(t)
		env.writeDoc("only.md", "# Only\n")

		_, err := env.runErr("check", "docs/only.md")
		assert.Error(t, err)
	})

	t.Run("invalid output format", func(t *testing.T) {
		env := newTestEnv(t)
		writeSampleCorpus(env)

		out, err := env.runErr("check", "docs", "-o", "xml")
		require.Error(t, err)
		env.contains(out, "invalid output format")
	})

	t.Run("unbalanced weights flag rejected", func(t *testing.T) {
		env := newTestEnv(t)
		writeSampleCorpus(env)

		out, err := env.runErr("check", "docs", "--weights", "0.5,0.5,0.5")
		require.Error(t, err)
		env.contains(out, "sum to 1.0")
	})

	t.Run("invalid config is fatal", func(t *testing.T) {
		env := newTestEnv(t)
		writeSampleCorpus(env)

		cfgDir := filepath.Join(env.dir, ".mdaudit")
		require.NoError(t, os.MkdirAll(cfgDir, 0755))
		bad := "weights:\n  code: 0.9\n  links: 0.9\n  redundancy: 0.9\n"
		require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(bad), 0644))

		out, err := env.runErr("check", "docs")
		require.Error(t, err)
		env.contains(out, "sum to 1.0")
	})
}

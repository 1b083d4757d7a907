package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExamples(t *testing.T) {
	t.Run("text output", func(t *testing.T) {
		env := newTestEnv(t)
		writeSampleCorpus(env)

		out := env.run("examples", "docs")
		env.contains(out, "guide.md:8")
		env.contains(out, "pass")
		env.contains(out, "FAIL")
		env.contains(out, "SyntaxError")
	})

	t.Run("failures only", func(t *testing.T) {
		env := newTestEnv(t)
		writeSampleCorpus(env)

		out := env.run("examples", "docs", "--failures-only")
		env.contains(out, "intro.md")
		env.notContains(out, "guide.md")
	})

	t.Run("json output", func(t *testing.T) {
		env := newTestEnv(t)
		writeSampleCorpus(env)

		var res struct {
			Partial bool `json:"partial"`
			Results []struct {
				Language    string `json:"language"`
				SyntaxValid bool   `json:"syntax_valid"`
				Skipped     bool   `json:"skipped"`
			} `json:"results"`
		}
		env.runJSON(&res, "examples", "docs")

		assert.False(t, res.Partial)
		require.Len(t, res.Results, 2)
		for _, r := range res.Results {
			assert.Equal(t, "bash", r.Language)
			assert.False(t, r.Skipped)
		}
	})

	t.Run("unknown language skipped", func(t *testing.T) {
		env := newTestEnv(t)
		env.writeDoc("odd.md", "# Odd\n\n```brainfuck\n+++\n```\n")

		var res struct {
			Results []struct {
				Skipped     bool `json:"skipped"`
				Diagnostics []struct {
					Kind string `json:"kind"`
				} `json:"diagnostics"`
			} `json:"results"`
		}
		env.runJSON(&res, "examples", "docs")

		require.Len(t, res.Results, 1)
		assert.True(t, res.Results[0].Skipped)
		require.NotEmpty(t, res.Results[0].Diagnostics)
		assert.Equal(t, "LanguageUnknown", res.Results[0].Diagnostics[0].Kind)
	})
}

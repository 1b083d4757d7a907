package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedundancy(t *testing.T) {
	t.Run("text output", func(t *testing.T) {
		env := newTestEnv(t)
		writeSampleCorpus(env)

		out := env.run("redundancy", "docs")
		env.contains(out, "exact-duplicate")
		env.contains(out, "guide.md:5")
		env.contains(out, "intro.md:5")
		env.contains(out, "shared:")
	})

	t.Run("no duplication", func(t *testing.T) {
		env := newTestEnv(t)
		env.writeDoc("a.md", "# A\n\nCompletely unique sentence about borrow checking rules.\n")
		env.writeDoc("b.md", "# B\n\nTotally different words describing interrupt latency budgets.\n")

		out := env.run("redundancy", "docs")
		env.contains(out, "no duplication found")
	})

	t.Run("json output", func(t *testing.T) {
		env := newTestEnv(t)
		writeSampleCorpus(env)

		var res struct {
			Pairs []struct {
				Score float64 `json:"score"`
				Class string  `json:"class"`
			} `json:"pairs"`
			DuplicatedBlocks int `json:"duplicated_blocks"`
		}
		env.runJSON(&res, "redundancy", "docs")

		require.NotEmpty(t, res.Pairs)
		assert.Equal(t, 1.0, res.Pairs[0].Score)
		assert.Equal(t, "exact-duplicate", res.Pairs[0].Class)
		assert.Equal(t, 2, res.DuplicatedBlocks)
	})

	t.Run("threshold flags override config", func(t *testing.T) {
		env := newTestEnv(t)
		env.writeDoc("a.md", "# A\n\nthe borrow checker enforces aliasing rules at compile time for every reference\n")
		env.writeDoc("b.md", "# B\n\nthe borrow checker enforces aliasing rules at compile time for mutable references\n")

		// Default threshold reports the overlap; a stricter one hides it.
		out := env.run("redundancy", "docs")
		env.contains(out, "conceptual-overlap")

		out = env.run("redundancy", "docs", "--overlap", "0.85")
		env.contains(out, "no duplication found")
	})

	t.Run("invalid thresholds rejected", func(t *testing.T) {
		env := newTestEnv(t)
		writeSampleCorpus(env)

		_, err := env.runErr("redundancy", "docs", "--overlap", "1.5")
		assert.Error(t, err)
	})
}

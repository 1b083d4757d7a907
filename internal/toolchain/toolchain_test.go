package toolchain

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/mdaudit/internal/duration"
	"github.com/jpl-au/mdaudit/internal/lang"
)

// shTool checks shell syntax with `sh -n`, which exists on every platform the
// tests run on. Compiler toolchains (rustc, cc) are exercised in real runs,
// not in unit tests, so the suite does not depend on them being installed.
func shTool() Tool {
	return Tool{Bin: "sh", ParseArgs: []string{"-n", "{{file}}"}, Ext: ".sh", Timeout: duration.Duration(5 * time.Second)}
}

func TestRunner_ParseCheck(t *testing.T) {
	r := NewRunner(map[lang.Lang]Tool{lang.Bash: shTool()})

	t.Run("valid syntax", func(t *testing.T) {
		inv, err := r.ParseCheck(context.Background(), lang.Bash, "echo hello\n")
		require.NoError(t, err)
		assert.True(t, inv.OK())
	})

	t.Run("invalid syntax", func(t *testing.T) {
		inv, err := r.ParseCheck(context.Background(), lang.Bash, "if then fi done\n")
		require.NoError(t, err)
		assert.False(t, inv.OK())
		assert.NotEmpty(t, inv.Stderr)
	})
}

func TestRunner_Timeout(t *testing.T) {
	slow := Tool{Bin: "sleep", ParseArgs: []string{"5"}, Ext: ".txt", Timeout: duration.Duration(50 * time.Millisecond)}
	r := NewRunner(map[lang.Lang]Tool{lang.Text: slow})

	start := time.Now()
	inv, err := r.ParseCheck(context.Background(), lang.Text, "")
	require.NoError(t, err)
	assert.True(t, inv.TimedOut)
	assert.False(t, inv.OK())
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestRunner_Available(t *testing.T) {
	r := NewRunner(map[lang.Lang]Tool{
		lang.Bash: shTool(),
		lang.Rust: {Bin: "definitely-not-a-compiler-9000", Ext: ".rs"},
	})

	assert.True(t, r.Available(lang.Bash))
	assert.False(t, r.Available(lang.Rust))
	// Unconfigured languages are unavailable by definition.
	assert.False(t, r.Available(lang.TOML))
	// Cached probe returns the same answer.
	assert.False(t, r.Available(lang.Rust))
}

func TestWrap_Rust(t *testing.T) {
	tool := Tool{}

	t.Run("statements get a main", func(t *testing.T) {
		out := tool.Wrap(lang.Rust, "let x = 1;")
		assert.Contains(t, out, "fn main() {")
		assert.Contains(t, out, "let x = 1;")
	})

	t.Run("items get a trailing main", func(t *testing.T) {
		out := tool.Wrap(lang.Rust, "fn double(x: u32) -> u32 { x * 2 }")
		assert.Contains(t, out, "fn double")
		assert.Contains(t, out, "fn main() {}")
	})

	t.Run("configured template wins", func(t *testing.T) {
		custom := Tool{Scaffold: "#![no_std]\n{{body}}\n"}
		out := custom.Wrap(lang.Rust, "fn f() {}")
		assert.Equal(t, "#![no_std]\nfn f() {}\n", out)
	})
}

func TestWrap_C(t *testing.T) {
	tool := Tool{}

	out := tool.Wrap(lang.C, "uint32_t double_it(uint32_t x) { return x * 2; }")
	assert.Contains(t, out, "#include <stdint.h>")
	assert.Contains(t, out, "int main(void)")

	// A snippet with its own main is left alone.
	self := "int main(void) { return 0; }"
	assert.Equal(t, self, tool.Wrap(lang.C, self))
}

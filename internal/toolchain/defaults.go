// defaults.go defines the built-in tool set used when the config file does
// not override toolchain entries.

package toolchain

import "github.com/jpl-au/mdaudit/internal/lang"

// Defaults returns the built-in toolchain table.
//
// Rust and C get both a parse-only and a compile mode. Bash gets `bash -n`,
// which is a pure syntax check. Go gets `gofmt -e` for syntax only: a full
// `go build` needs a module context that a lone snippet does not have.
// Data formats (TOML, JSON, YAML) have no entry and are reported as skipped.
func Defaults() map[lang.Lang]Tool {
	return map[lang.Lang]Tool{
		lang.Rust: {
			Bin:         "rustc",
			ParseArgs:   []string{"--edition=2021", "--emit=metadata", "--crate-type=lib", "{{file}}"},
			CompileArgs: []string{"--edition=2021", "--emit=obj", "{{file}}"},
			Ext:         ".rs",
			Timeout:     DefaultTimeout,
		},
		lang.C: {
			Bin:         "cc",
			ParseArgs:   []string{"-fsyntax-only", "{{file}}"},
			CompileArgs: []string{"-c", "{{file}}", "-o", "snippet.o"},
			Ext:         ".c",
			Timeout:     DefaultTimeout,
		},
		lang.Go: {
			Bin:       "gofmt",
			ParseArgs: []string{"-e", "{{file}}"},
			Ext:       ".go",
			Timeout:   DefaultTimeout,
		},
		lang.Bash: {
			Bin:       "bash",
			ParseArgs: []string{"-n", "{{file}}"},
			Ext:       ".sh",
			Timeout:   DefaultTimeout,
		},
	}
}

// scaffold.go builds synthetic wrappers around snippets that assume tutorial
// context (omitted imports, missing main).
//
// A snippet that fails to compile standalone is retried once inside a
// minimal wrapper before being declared broken. Wrappers are configurable
// per language because no single template suits every snippet style; the
// built-in defaults cover the common shapes.

package toolchain

import (
	"strings"

	"github.com/jpl-au/mdaudit/internal/lang"
)

// BodySlot is the placeholder replaced with the snippet body in scaffold
// templates.
const BodySlot = "{{body}}"

// Wrap returns the snippet embedded in a compilable wrapper. If the tool has
// a configured scaffold template it is used as-is; otherwise a built-in
// per-language default is chosen from the snippet's shape.
func (t Tool) Wrap(l lang.Lang, body string) string {
	if t.Scaffold != "" {
		return strings.ReplaceAll(t.Scaffold, BodySlot, body)
	}
	switch l {
	case lang.Rust:
		return wrapRust(body)
	case lang.C:
		return wrapC(body)
	case lang.Go:
		return wrapGo(body)
	default:
		return body
	}
}

// wrapRust distinguishes item-level snippets (fn/struct/impl definitions,
// which need a main added alongside) from statement-level snippets (which
// need to live inside one).
func wrapRust(body string) string {
	if isRustItems(body) {
		return body + "\n\n#[allow(dead_code)]\nfn main() {}\n"
	}
	return "#[allow(unused)]\nfn main() {\n" + indent(body) + "\n}\n"
}

func isRustItems(body string) bool {
	for _, prefix := range []string{"fn ", "pub fn ", "struct ", "pub struct ", "enum ", "pub enum ", "impl ", "trait ", "use ", "mod ", "const ", "static ", "#["} {
		for line := range strings.Lines(body) {
			if strings.HasPrefix(strings.TrimSpace(line), prefix) {
				return true
			}
		}
	}
	return false
}

func wrapC(body string) string {
	if strings.Contains(body, "main(") {
		return body
	}
	return "#include <stdint.h>\n#include <stddef.h>\n\n" + body + "\n\nint main(void) { return 0; }\n"
}

func wrapGo(body string) string {
	if strings.Contains(body, "package ") {
		return body
	}
	if strings.Contains(body, "func ") {
		return "package main\n\n" + body + "\n\nfunc main() {}\n"
	}
	return "package main\n\nfunc main() {\n" + indent(body) + "\n}\n"
}

func indent(body string) string {
	var b strings.Builder
	for line := range strings.Lines(body) {
		b.WriteString("    ")
		b.WriteString(strings.TrimRight(line, "\n"))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

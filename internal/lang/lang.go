// Package lang classifies the language of fenced code blocks.
//
// Classification is duck typing over free text: the fence tag may be absent,
// wrong, or ambiguous, so the classifier is an ordered chain of pure
// heuristics over (tag, body). Each heuristic either claims the block or
// passes it along. Blocks nothing claims come back Unknown, which analyzers
// treat as skipped rather than failed.
package lang

import "strings"

// Lang is a known code block language.
type Lang string

const (
	Rust    Lang = "rust"
	C       Lang = "c"
	Go      Lang = "go"
	Bash    Lang = "bash"
	TOML    Lang = "toml"
	JSON    Lang = "json"
	YAML    Lang = "yaml"
	Text    Lang = "text"
	Unknown Lang = ""
)

// tagAliases maps fence tags to languages. Tags seen in real books vary
// (rust/rs, sh/bash/shell/console), so the table is deliberately generous.
var tagAliases = map[string]Lang{
	"rust":     Rust,
	"rs":       Rust,
	"c":        C,
	"h":        C,
	"go":       Go,
	"golang":   Go,
	"bash":     Bash,
	"sh":       Bash,
	"shell":    Bash,
	"console":  Bash,
	"zsh":      Bash,
	"toml":     TOML,
	"json":     JSON,
	"yaml":     YAML,
	"yml":      YAML,
	"text":     Text,
	"txt":      Text,
	"plain":    Text,
	"markdown": Text,
	"md":       Text,
}

// heuristic inspects a block body and either claims a language or declines.
type heuristic func(body string) (Lang, bool)

// chain is the ordered heuristic list. Order matters: Rust before C because
// tutorial snippets mixing both idioms are overwhelmingly Rust with FFI
// examples, and data formats last because almost anything brace-delimited
// could pass for JSON.
var chain = []heuristic{
	rustHeuristic,
	cHeuristic,
	goHeuristic,
	bashHeuristic,
	tomlHeuristic,
	jsonHeuristic,
}

// Classify returns the best-guess language for a code block. A recognised
// fence tag wins outright unless the tag is ambiguous for the body; an
// absent or unrecognised tag falls through to the body heuristics.
func Classify(tag, body string) Lang {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if l, ok := tagAliases[tag]; ok {
		// A C tag on a body full of Rust-only tokens (or vice versa) is a
		// mislabelled fence; trust the body in that one ambiguous case.
		if (l == C || l == Rust) && rustTokens(body) && cTokens(body) {
			return bodyLanguage(body)
		}
		return l
	}
	if tag != "" {
		// Unrecognised tag names a language we have no toolchain story for
		// (e.g. "python", "ignore"). Do not guess from the body; report the
		// block as skipped instead.
		return Unknown
	}
	return bodyLanguage(body)
}

func bodyLanguage(body string) Lang {
	for _, h := range chain {
		if l, ok := h(body); ok {
			return l
		}
	}
	return Unknown
}

func rustTokens(body string) bool {
	return strings.Contains(body, "fn ") ||
		strings.Contains(body, "let mut ") ||
		strings.Contains(body, "#![no_std]") ||
		strings.Contains(body, "impl ") ||
		strings.Contains(body, "match ") && strings.Contains(body, "=>")
}

func cTokens(body string) bool {
	return strings.Contains(body, "#include") ||
		strings.Contains(body, "void main") ||
		strings.Contains(body, "int main(") ||
		strings.Contains(body, "printf(")
}

func rustHeuristic(body string) (Lang, bool) {
	if rustTokens(body) && !cTokens(body) {
		return Rust, true
	}
	// Mixed-token bodies: Rust-specific punctuation settles it.
	if rustTokens(body) && (strings.Contains(body, "::") || strings.Contains(body, "->")) {
		return Rust, true
	}
	return Unknown, false
}

func cHeuristic(body string) (Lang, bool) {
	if cTokens(body) {
		return C, true
	}
	return Unknown, false
}

func goHeuristic(body string) (Lang, bool) {
	if strings.Contains(body, "package main") ||
		strings.Contains(body, "func ") && strings.Contains(body, ":=") {
		return Go, true
	}
	return Unknown, false
}

func bashHeuristic(body string) (Lang, bool) {
	trimmed := strings.TrimSpace(body)
	if strings.HasPrefix(trimmed, "#!") ||
		strings.HasPrefix(trimmed, "$ ") ||
		strings.HasPrefix(trimmed, "cargo ") ||
		strings.HasPrefix(trimmed, "sudo ") {
		return Bash, true
	}
	return Unknown, false
}

// tomlHeuristic claims INI-style key/value bodies: [section] headers with
// key = value lines and no statement terminators.
func tomlHeuristic(body string) (Lang, bool) {
	trimmed := strings.TrimSpace(body)
	if strings.Contains(body, ";") || strings.Contains(body, "{") {
		return Unknown, false
	}
	if strings.HasPrefix(trimmed, "[") && strings.Contains(body, "=") {
		return TOML, true
	}
	return Unknown, false
}

// jsonHeuristic claims brace-delimited key/value data with no statement
// terminators, the classic config/data shape.
func jsonHeuristic(body string) (Lang, bool) {
	trimmed := strings.TrimSpace(body)
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return Unknown, false
	}
	if strings.Contains(body, ";") {
		return Unknown, false
	}
	if strings.Contains(body, "\":") || strings.Contains(body, "\" :") {
		return JSON, true
	}
	return Unknown, false
}

// Testing Strategy Design Decision:
//
// The cmd/ package contains CLI integration tests that exercise the full
// stack: command parsing -> config -> audit pipeline -> report rendering.
//
// Each test environment gets its own HOME, so global config and the run
// history database are isolated per test rather than touching the real
// user's ~/.mdaudit. Corpora are written as plain .md files in a temp
// directory, which is exactly what the tool audits in production.

package cmd

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	binaryPath string
	buildOnce  sync.Once
	buildErr   error
)

// buildBinary compiles the mdaudit binary once for all tests.
func buildBinary(t *testing.T) string {
	t.Helper()

	buildOnce.Do(func() {
		tmpDir, err := os.MkdirTemp("", "mdaudit-test-bin-*")
		if err != nil {
			buildErr = err
			return
		}

		binaryName := "mdaudit"
		if os.PathSeparator == '\\' {
			binaryName = "mdaudit.exe"
		}
		binaryPath = filepath.Join(tmpDir, binaryName)

		// Find project root (parent of cmd/)
		wd := mustGetwd()
		projectRoot := filepath.Dir(wd)

		cmd := exec.Command("go", "build", "-o", binaryPath, ".")
		cmd.Dir = projectRoot
		if out, err := cmd.CombinedOutput(); err != nil {
			buildErr = &buildError{err: err, output: string(out)}
			return
		}
	})

	if buildErr != nil {
		t.Fatalf("failed to build binary: %v", buildErr)
	}
	return binaryPath
}

type buildError struct {
	err    error
	output string
}

func (e *buildError) Error() string {
	return e.err.Error() + "\n" + e.output
}

func mustGetwd() string {
	dir, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return dir
}

// testEnv holds test environment state.
type testEnv struct {
	t      *testing.T
	dir    string
	binary string
}

// newTestEnv creates a temporary working directory with an isolated HOME.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{t: t, dir: t.TempDir(), binary: buildBinary(t)}
}

// writeDoc writes a markdown file under docs/ in the environment.
func (e *testEnv) writeDoc(rel, content string) {
	e.t.Helper()
	p := filepath.Join(e.dir, "docs", filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		e.t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		e.t.Fatal(err)
	}
}

// run executes mdaudit with the given args and returns combined output.
func (e *testEnv) run(args ...string) string {
	e.t.Helper()
	out, err := e.runErr(args...)
	if err != nil {
		e.t.Fatalf("mdaudit %v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

// runErr executes mdaudit and returns combined output and any error.
func (e *testEnv) runErr(args ...string) (string, error) {
	e.t.Helper()

	cmd := exec.Command(e.binary, args...)
	cmd.Dir = e.dir
	// Isolate HOME so global config and run history stay in the sandbox.
	cmd.Env = append(os.Environ(), "HOME="+e.dir, "USERPROFILE="+e.dir)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// runJSON executes mdaudit with -o json and unmarshals the output.
func (e *testEnv) runJSON(v any, args ...string) {
	e.t.Helper()
	out := e.run(append(args, "-o", "json")...)
	require.NoError(e.t, json.Unmarshal([]byte(out), v), "output: %s", out)
}

// contains checks if output contains expected string.
func (e *testEnv) contains(output, expected string) {
	e.t.Helper()
	assert.Contains(e.t, output, expected)
}

// notContains checks the output omits a string.
func (e *testEnv) notContains(output, unexpected string) {
	e.t.Helper()
	assert.NotContains(e.t, output, unexpected)
}

// sampleGuide is a realistic tutorial page: a heading hierarchy, working and
// broken links, and bash examples that bash -n can check on any host.
const sampleGuide = `# Setup Guide

## Install

Install the tools before anything else. This paragraph explains why the
toolchain must come first in the setup order.

` + "```bash" + `
echo "installing"
` + "```" + `

## Configure

See [install](#install) first, then the [intro](intro.md#overview).

A [broken one](#instal) too.
`

const sampleIntro = `# Intro

## Overview

Install the tools before anything else. This paragraph explains why the
toolchain must come first in the setup order.

` + "```bash" + `
if then fi
` + "```" + `
`

func writeSampleCorpus(e *testEnv) {
	e.writeDoc("guide.md", sampleGuide)
	e.writeDoc("intro.md", sampleIntro)
}

/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// flags.go defines global CLI flags and accessors for shared state.
//
// Separated from root.go to isolate flag definitions from command logic.
// Commands access these via accessor functions rather than directly
// accessing the variables.
//
// Design: Flags are defined as package-level variables and bound to the
// root command. The JSON()/structured output helpers keep machine output
// consistent across all commands: -o json and -o yaml serialise the same
// structures the report package defines, so scripts never parse rendered
// text.

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var validOutputFormats = []string{"json", "yaml"}

var (
	output      string
	configPath  string
	jobs        int
	compileJobs int
	timeout     time.Duration
	quiet       bool
)

// out is the output writer for commands. Defaults to os.Stdout.
// Tests can replace this to capture output.
var out io.Writer = os.Stdout

// Out returns the output writer.
func Out() io.Writer { return out }

// SetOut sets the output writer (for testing).
func SetOut(w io.Writer) { out = w }

// Output returns the output format flag value.
func Output() string { return output }

// Quiet returns true when progress output is suppressed.
func Quiet() bool { return quiet }

// JSON returns true if JSON output is requested.
func JSON() bool { return output == "json" }

// Structured returns true if any machine format is requested.
func Structured() bool { return output != "" }

// PrintJSON marshals v to JSON and writes it to the output writer.
// Returns nil if output format is not JSON.
func PrintJSON(v any) error {
	if output != "json" {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(out, string(b))
	return nil
}

// PrintStructured writes v in the requested machine format.
// Callers should only invoke it when Structured() is true.
func PrintStructured(v any) error {
	switch output {
	case "json":
		return PrintJSON(v)
	case "yaml":
		b, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		_, err = fmt.Fprint(out, string(b))
		return err
	default:
		return fmt.Errorf("no machine output format selected")
	}
}

// PrintJSONError prints an error in JSON format if output is JSON.
// Returns nil if error was printed (suppressing Cobra error), or the
// original error if not.
func PrintJSONError(err error) error {
	if output != "json" || err == nil {
		return err
	}
	// We ignore the error from PrintJSON here because if we can't print the
	// error, checking it is futile. We just return nil to suppress Cobra's
	// duplicate printing.
	_ = PrintJSON(map[string]string{"error": err.Error()})
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "Output format: json, yaml")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Explicit config file (skip scope discovery)")
	rootCmd.PersistentFlags().IntVar(&jobs, "jobs", 0, "Concurrent document loads")
	rootCmd.PersistentFlags().IntVar(&compileJobs, "compile-jobs", 0, "Concurrent compile checks")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-invocation toolchain timeout (e.g. 30s)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress progress output")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return validOutputFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

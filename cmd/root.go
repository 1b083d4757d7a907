/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// root.go defines the root command and CLI execution entry point.
//
// Separated from flags.go to isolate cobra setup from flag definitions.
//
// Design: PersistentPreRunE loads and validates configuration before any
// subcommand runs. Invalid configuration is fatal to the whole invocation,
// unlike per-document findings which are data in the report. Commands read
// the loaded config through Cfg() rather than loading it themselves, so an
// invocation sees one consistent configuration.

package cmd

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/jpl-au/mdaudit/internal/config"
	"github.com/jpl-au/mdaudit/internal/duration"
	"github.com/jpl-au/mdaudit/internal/history"
)

var rootCmd = &cobra.Command{
	Use:   "mdaudit",
	Short: "Quality audits for Markdown documentation corpora",
	Long: `Audits a directory of Markdown documents: checks fenced code examples
against real language toolchains, resolves internal links against minted
heading anchors, detects duplicated content, and produces a scored report.`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if output != "" && !slices.Contains(validOutputFormats, output) {
			return fmt.Errorf("invalid output format: %s (valid: %v)", output, validOutputFormats)
		}

		loaded, err := loadConfig()
		if err != nil {
			if JSON() {
				_ = PrintJSON(map[string]string{"error": err.Error()})
				cmd.SilenceErrors = true
				cmd.SilenceUsage = true
			}
			return err
		}
		applyFlagOverrides(loaded)
		cfg = loaded
		return nil
	},
}

// cfg is the configuration for the current invocation, set by
// PersistentPreRunE before any subcommand runs.
var cfg *config.Config

// Cfg returns the loaded configuration. Only valid inside a command's RunE.
func Cfg() *config.Config {
	return cfg
}

// loadConfig resolves configuration: an explicit --config path wins,
// otherwise local-over-global scope discovery.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath, config.ScopeLocal)
	}
	return config.Load()
}

// applyFlagOverrides folds command-line flags over file configuration.
// Flags are per-invocation intent and always win.
func applyFlagOverrides(c *config.Config) {
	if jobs > 0 {
		c.Workers.Load = jobs
	}
	if compileJobs > 0 {
		c.Workers.Compile = compileJobs
	}
	if timeout > 0 {
		c.Timeout = duration.Duration(timeout)
	}
}

// Execute runs the root command and handles process lifecycle.
// Opens run history, executes the command, and closes the history store
// before exit. Exit code 1 indicates error.
func Execute() {
	// Initialise run history (warn if it fails, but continue)
	if err := history.Open(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: run history unavailable: %v\n", err)
	}
	defer history.Close()

	if err := rootCmd.Execute(); err != nil {
		history.Close()
		os.Exit(1)
	}
}

// RootCmd returns the root command for testing.
func RootCmd() *cobra.Command {
	return rootCmd
}

/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// config.go implements "mdaudit config": inspecting and scaffolding
// configuration.
//
// Design: two scopes, local over global. "config" with no subcommand shows
// the fully resolved values (defaults folded in), which is what the next
// run will actually use; "config init" writes a starter file with the
// defaults spelled out so users edit values rather than guess keys.

package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jpl-au/mdaudit/internal/config"
	"github.com/jpl-au/mdaudit/internal/lang"
	"github.com/jpl-au/mdaudit/internal/toolchain"
)

var configLocal bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	Long: `Shows the configuration the next run will use, with defaults folded in.

  mdaudit config               # resolved values
  mdaudit config init          # write ~/.mdaudit/config.yaml with defaults
  mdaudit config init --local  # write .mdaudit/config.yaml instead`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		c := Cfg()
		resolved := config.Config{
			Thresholds: ptr(c.ResolvedThresholds()),
			Weights:    ptr(c.ResolvedWeights()),
			Workers:    c.Workers,
			Toolchains: toolNames(c),
			Timeout:    c.Timeout,
		}
		if Structured() {
			return PrintStructured(resolved)
		}

		t, w := c.ResolvedThresholds(), c.ResolvedWeights()
		fmt.Fprintf(Out(), "thresholds: overlap=%.2f near=%.2f\n", t.Overlap, t.Near)
		fmt.Fprintf(Out(), "weights:    code=%.2f links=%.2f redundancy=%.2f\n", w.Code, w.Links, w.Redundancy)
		fmt.Fprintf(Out(), "toolchains:\n")
		tools := c.ResolvedTools()
		langs := make([]string, 0, len(tools))
		for l := range tools {
			langs = append(langs, string(l))
		}
		sort.Strings(langs)
		for _, l := range langs {
			tool := tools[lang.Lang(l)]
			compile := "syntax only"
			if tool.CompileConfigured() {
				compile = "syntax + compile"
			}
			fmt.Fprintf(Out(), "  %-6s %s (%s)\n", l, tool.Bin, compile)
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file with the defaults spelled out",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		scope := config.ScopeGlobal
		path := config.GlobalPath()
		if configLocal {
			scope = config.ScopeLocal
			path = config.LocalPath()
		}

		starter := &config.Config{
			Thresholds: ptr(Cfg().ResolvedThresholds()),
			Weights:    ptr(Cfg().ResolvedWeights()),
			Toolchains: toolNames(Cfg()),
		}
		if err := starter.SaveScope(scope); err != nil {
			return PrintJSONError(err)
		}

		if JSON() {
			return PrintJSON(map[string]string{"path": path})
		}
		fmt.Fprintf(Out(), "wrote %s\n", path)
		return nil
	},
}

// toolNames converts the lang-keyed resolved table back to the string-keyed
// form the config file uses.
func toolNames(c *config.Config) map[string]toolchain.Tool {
	tools := make(map[string]toolchain.Tool)
	for l, t := range c.ResolvedTools() {
		tools[string(l)] = t
	}
	return tools
}

func ptr[T any](v T) *T { return &v }

func init() {
	configInitCmd.Flags().BoolVar(&configLocal, "local", false, "Write to .mdaudit/config.yaml in the current directory")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

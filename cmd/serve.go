/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// serve.go implements "mdaudit serve": the MCP stdio server.

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jpl-au/mdaudit/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for LLM integration",
	Long: `Starts a Model Context Protocol server over stdio, exposing the audit
pipeline as tools an LLM can call: mdaudit_check, mdaudit_examples,
mdaudit_links, mdaudit_redundancy, and mdaudit_history.

Add to an MCP client config:

  {"command": "mdaudit", "args": ["serve"]}`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

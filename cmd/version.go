/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// version.go implements "mdaudit version".

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpl-au/mdaudit/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show build version information",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		info := version.Get()
		if Structured() {
			return PrintStructured(info)
		}
		fmt.Fprintln(Out(), info.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

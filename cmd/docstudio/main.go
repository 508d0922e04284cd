// Package main is the docstudio command. "docstudio serve" runs the docs
// site and studio server; the other subcommands are operator tools for the
// same content tree, page cache and connection string builder.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds a fresh command tree. Tests build their own so flag
// state never leaks between runs.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "docstudio",
		Short: "Docs site and studio Connect panel",
		Long: `docstudio serves the documentation site and the studio Connect panel,
and ships the operator tools that manage their content and cache.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCmd(),
		newConnStringCmd(),
		newMenusCmd(),
		newDocsCmd(),
		newCacheCmd(),
	)
	return root
}

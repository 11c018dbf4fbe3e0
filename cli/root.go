// Package cli implements the databind command line: evaluating, checking
// and disassembling expressions and rendering templates against a YAML or
// JSON variables file.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command with every subcommand attached.
// Each call returns an isolated command tree.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "databind",
		Short: "Evaluate data-binding expressions",
		Long:  "databind evaluates, checks and renders data-binding expressions against a variables file.",
		// SilenceUsage prevents printing usage on every error
		SilenceUsage: true,
	}

	root.PersistentFlags().Bool("verbose", false, "Enable verbose/debug logging")
	root.PersistentFlags().Bool("quiet", false, "Suppress all logging except errors")
	root.PersistentFlags().StringP("vars", "v", "", "YAML or JSON file whose top-level keys are bound as variables")
	root.PersistentFlags().StringP("settings", "s", "", "YAML or JSON settings file (keys under \"databind\")")

	root.Version = version
	root.SetVersionTemplate(fmt.Sprintf("databind version %s\n", version))

	root.AddCommand(NewEvalCmd())
	root.AddCommand(NewCheckCmd())
	root.AddCommand(NewDisasmCmd())
	root.AddCommand(NewRenderCmd())

	return root
}

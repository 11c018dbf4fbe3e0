package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/databind/pkg/databind/expr"
)

// NewCheckCmd creates the "check" subcommand.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <expression>...",
		Short: "Check expressions for syntax errors",
		Long: `Compile each expression and report errors with their position.

Without --vars any variable name is accepted. With --vars every root
must be a key of the variables file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCheck,
	}

	cmd.Flags().Bool("assign", false, "Check as assignment statements")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()
	assign, _ := cmd.Flags().GetBool("assign")
	varsPath, _ := cmd.Flags().GetString("vars")

	var s *session
	if varsPath != "" {
		var err error
		if s, err = openSession(cmd); err != nil {
			return err
		}
	}

	failed := 0
	for _, text := range args {
		var err error
		if s != nil {
			_, err = s.compile(text, assign)
		} else {
			_, _, err = compileUnbound(text, assign)
		}
		if err != nil {
			failed++
			fmt.Fprintln(stderr, err)
			continue
		}
		fmt.Fprintf(stdout, "ok: %s\n", text)
	}

	if failed > 0 {
		return exitError(exitCompile, "%d of %d expression(s) failed to compile", failed, len(args))
	}
	return nil
}

// NewDisasmCmd creates the "disasm" subcommand.
func NewDisasmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "disasm <expression>",
		Short: "Print the compiled instructions of an expression",
		Args:  cobra.ExactArgs(1),
		RunE:  runDisasm,
	}

	cmd.Flags().Bool("assign", false, "Compile as assignment statements")

	return cmd
}

func runDisasm(cmd *cobra.Command, args []string) error {
	stdout := cmd.OutOrStdout()
	assign, _ := cmd.Flags().GetBool("assign")

	program, addresses, err := compileUnbound(args[0], assign)
	if err != nil {
		return exitError(exitCompile, "%s", err)
	}

	fmt.Fprint(stdout, program)
	if len(addresses) > 0 {
		fmt.Fprintln(stdout, "addresses:")
		for i, addr := range addresses {
			fmt.Fprintf(stdout, "%3d  %s\n", i, addr)
		}
	}
	return nil
}

func compileUnbound(text string, assign bool) (expr.Program, expr.AddressList, error) {
	if assign {
		return expr.CompileAssignment(text, nil)
	}
	return expr.Compile(text, nil)
}

package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/databind/pkg/databind/expr"
)

// NewEvalCmd creates the "eval" subcommand.
func NewEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate an expression against a variables file",
		Long: `Evaluate an expression against the variables loaded with --vars.

With --assign the text is compiled as statements ("a = b + 1; notify()")
and the variables it changed are printed as YAML.`,
		Args: cobra.ExactArgs(1),
		RunE: runEval,
	}

	eventFlag(cmd)
	cmd.Flags().Bool("assign", false, "Compile as assignment statements and print changed variables")
	cmd.Flags().Bool("json", false, "Print the result as JSON")

	return cmd
}

func runEval(cmd *cobra.Command, args []string) error {
	stdout := cmd.OutOrStdout()
	assign, _ := cmd.Flags().GetBool("assign")
	asJSON, _ := cmd.Flags().GetBool("json")

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	ev, err := eventFromFlags(cmd)
	if err != nil {
		return err
	}

	e, err := s.compile(args[0], assign)
	if err != nil {
		return exitError(exitCompile, "%s", err)
	}
	v, err := e.EvaluateContext(cmd.Context(), ev)
	if err != nil {
		return exitError(exitRuntime, "%s", err)
	}

	if assign {
		changed := make(map[string]any)
		for _, name := range s.model.DirtyVariables() {
			changed[name] = s.vars[name]
		}
		return writeChanged(cmd, changed, asJSON)
	}

	if asJSON {
		out, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		_, err = fmt.Fprintln(stdout, string(out))
		return err
	}
	_, err = fmt.Fprintln(stdout, expr.ToString(v))
	return err
}

func writeChanged(cmd *cobra.Command, changed map[string]any, asJSON bool) error {
	var (
		out []byte
		err error
	)
	if asJSON {
		out, err = json.MarshalIndent(changed, "", "  ")
		out = append(out, '\n')
	} else {
		out, err = yaml.Marshal(changed)
	}
	if err != nil {
		return fmt.Errorf("encoding variables: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/databind/pkg/databind/template"
)

// NewRenderCmd creates the "render" subcommand.
func NewRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [template]",
		Short: "Expand {{ expression }} placeholders in text",
		Long: `Render a template against the variables loaded with --vars.

The template is taken from the argument or, with --file, from a file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRender,
	}

	eventFlag(cmd)
	cmd.Flags().StringP("file", "f", "", "Read the template from a file")
	cmd.Flags().String("open", template.DefaultOpen, "Opening placeholder delimiter")
	cmd.Flags().String("close", template.DefaultClose, "Closing placeholder delimiter")
	cmd.Flags().String("on-error", "empty", "Placeholder failure handling: empty, keep or fail")

	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	filePath, _ := cmd.Flags().GetString("file")
	open, _ := cmd.Flags().GetString("open")
	closeDelim, _ := cmd.Flags().GetString("close")
	onError, _ := cmd.Flags().GetString("on-error")

	var text string
	switch {
	case filePath != "" && len(args) > 0:
		return exitError(exitInput, "pass a template argument or --file, not both")
	case filePath != "":
		data, err := os.ReadFile(filePath) // #nosec G304 -- path from user CLI arg
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return exitError(exitInput, "file not found: %s", filePath)
			}
			return exitError(exitInput, "reading file: %s", err)
		}
		text = string(data)
	case len(args) == 1:
		text = args[0]
	default:
		return exitError(exitInput, "no template given")
	}

	action, err := parseErrorAction(onError)
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	ev, err := eventFromFlags(cmd)
	if err != nil {
		return err
	}

	exp := template.NewExpander(s.model,
		template.WithDelimiters(open, closeDelim),
		template.WithErrorAction(action),
	)
	tpl, err := exp.Compile(text)
	if err != nil {
		return exitError(exitCompile, "%s", err)
	}
	out, err := tpl.RenderContext(cmd.Context(), ev)
	if err != nil {
		return exitError(exitRuntime, "%s", err)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}

func parseErrorAction(name string) (template.ErrorAction, error) {
	switch name {
	case "empty":
		return template.ErrorEmpty, nil
	case "keep":
		return template.ErrorKeep, nil
	case "fail":
		return template.ErrorFail, nil
	default:
		return 0, exitError(exitInput, "unknown --on-error %q (want empty, keep or fail)", name)
	}
}

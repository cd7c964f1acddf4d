package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KailasMahavarkar/form-builder/pkg/form"
	"github.com/KailasMahavarkar/form-builder/pkg/renderers/tui"
	"github.com/KailasMahavarkar/form-builder/pkg/schema"
)

type fillOptions struct {
	values   valueFlags
	format   string
	confirm  bool
	attempts int
	output   string
}

func newFillCommand(a *app) *cobra.Command {
	opts := &fillOptions{}
	cmd := &cobra.Command{
		Use:   "fill [schema]",
		Short: "Fill a form interactively in the terminal",
		Long: `Fill prompts for every field, re-asking while a value fails its rules, then
submits the form and prints the accepted values.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFill(cmd, a, opts, a.schemaArg(args))
		},
	}
	opts.values.register(cmd)
	flags := cmd.Flags()
	flags.StringVar(&opts.format, "format", string(tui.OutputFormatJSON), "Result format: json, form or pretty")
	flags.BoolVar(&opts.confirm, "confirm", false, "Ask for confirmation before submitting")
	flags.IntVar(&opts.attempts, "attempts", 3, "Prompts per field before giving up")
	flags.StringVarP(&opts.output, "output", "o", "", "Write the result to file instead of stdout")
	return cmd
}

func runFill(cmd *cobra.Command, a *app, opts *fillOptions, arg string) error {
	switch tui.OutputFormat(opts.format) {
	case tui.OutputFormatJSON, tui.OutputFormatFormURLEncoded, tui.OutputFormatPrettyText:
	default:
		return fmt.Errorf("unknown format %q, expected json, form or pretty", opts.format)
	}
	ctx := cmd.Context()
	text, err := loadSchemaText(ctx, arg)
	if err != nil {
		return err
	}
	values, err := opts.values.load()
	if err != nil {
		return err
	}

	ctrl, err := form.NewFromText(text,
		form.WithParser(schema.NewParser(schema.WithFormat(schema.FormatFromPath(arg)))),
		form.WithLogger(a.logger),
		form.WithInitialValues(values),
	)
	if err != nil {
		return err
	}

	renderer := tui.New(
		tui.WithOutput(cmd.ErrOrStderr()),
		tui.WithOutputFormat(tui.OutputFormat(opts.format)),
		tui.WithConfirmSubmit(opts.confirm),
		tui.WithMaxAttempts(opts.attempts),
	)
	result, err := renderer.Fill(ctx, ctrl)
	if errors.Is(err, tui.ErrAborted) {
		return fmt.Errorf("fill cancelled")
	}
	if err != nil {
		return err
	}
	return writeOutput(cmd, opts.output, result)
}

package main

import (
	"github.com/spf13/cobra"

	formbuilder "github.com/KailasMahavarkar/form-builder"
	"github.com/KailasMahavarkar/form-builder/pkg/orchestrator"
	"github.com/KailasMahavarkar/form-builder/pkg/render"
	"github.com/KailasMahavarkar/form-builder/pkg/renderers/html"
)

type renderOptions struct {
	values    valueFlags
	renderer  string
	validate  bool
	theme     string
	variant   string
	showState bool
	action    string
	output    string
}

func newRenderCommand(a *app) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render [schema]",
		Short: "Render a form preview",
		Long: `Render applies values to the form and writes the result using the chosen
renderer: a standalone HTML page or a plain text snapshot.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, a, opts, a.schemaArg(args))
		},
	}
	opts.values.register(cmd)
	flags := cmd.Flags()
	flags.StringVar(&opts.renderer, "renderer", html.Name, "Renderer: html or tui")
	flags.BoolVar(&opts.validate, "validate", false, "Show errors for every field, not only edited ones")
	flags.StringVar(&opts.theme, "theme", "", "Theme name (default from FORMBUILDER_THEME)")
	flags.StringVar(&opts.variant, "variant", "", "Theme variant (default from FORMBUILDER_THEME_VARIANT)")
	flags.BoolVar(&opts.showState, "state", false, "Include the values and errors state pane")
	flags.StringVar(&opts.action, "action", "", "Form action URL")
	flags.StringVarP(&opts.output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}

func runRender(cmd *cobra.Command, a *app, opts *renderOptions, arg string) error {
	ctx := cmd.Context()
	text, err := loadSchemaText(ctx, arg)
	if err != nil {
		return err
	}
	values, err := opts.values.load()
	if err != nil {
		return err
	}

	themeName, variant := opts.theme, opts.variant
	if themeName == "" {
		themeName = a.cfg.Theme
	}
	if variant == "" {
		variant = a.cfg.ThemeVariant
	}

	gen := formbuilder.NewOrchestrator(
		orchestrator.WithLogger(a.logger),
		orchestrator.WithThemeSelector(html.NewThemeSelector(), themeName, variant),
	)
	output, err := gen.Generate(ctx, orchestrator.Request{
		SchemaText: text,
		Values:     values,
		Validate:   opts.validate,
		Renderer:   opts.renderer,
		RenderOptions: render.RenderOptions{
			Action:    opts.action,
			ShowState: opts.showState,
		},
	})
	if err != nil {
		return err
	}
	return writeOutput(cmd, opts.output, output)
}

package main

import (
	"context"
	"fmt"
	"sort"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	formbuilder "github.com/KailasMahavarkar/form-builder"
	"github.com/KailasMahavarkar/form-builder/pkg/schema"
	"github.com/KailasMahavarkar/form-builder/pkg/source"
	"github.com/KailasMahavarkar/form-builder/pkg/state"
	"github.com/KailasMahavarkar/form-builder/pkg/validation"
)

type validateOptions struct {
	values valueFlags
	output string
}

type validateReport struct {
	Valid  bool              `json:"valid"`
	Values map[string]string `json:"values"`
	Errors map[string]string `json:"errors"`
}

func newValidateCommand(a *app) *cobra.Command {
	opts := &validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate [schema]",
		Short: "Validate field values against a schema",
		Long: `Validate seeds every field with its default, applies the given values
and evaluates all rules. The command exits non-zero when any field fails.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, a, opts, a.schemaArg(args))
		},
	}
	opts.values.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "text", "Output format: text or json")
	return cmd
}

func runValidate(cmd *cobra.Command, a *app, opts *validateOptions, arg string) error {
	if opts.output != "text" && opts.output != "json" {
		return fmt.Errorf("unknown output %q, expected text or json", opts.output)
	}
	form, err := loadForm(cmd.Context(), arg)
	if err != nil {
		return err
	}
	values, err := opts.values.load()
	if err != nil {
		return err
	}

	store := state.NewStore(values)
	store.Seed(form)
	snapshot := store.Snapshot()
	errs := validation.Project(validation.Validate(form, snapshot))
	a.logger.Debug("validate.completed", "title", form.Title, "fields", len(form.Fields), "errors", len(errs))

	report := validateReport{Valid: len(errs) == 0, Values: snapshot, Errors: errs}
	if opts.output == "json" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else {
		printErrors(cmd, form, errs)
	}
	if !report.Valid {
		return errInvalid
	}
	return nil
}

func printErrors(cmd *cobra.Command, form schema.FormSchema, errs map[string]string) {
	out := cmd.OutOrStdout()
	if len(errs) == 0 {
		fmt.Fprintln(out, "ok")
		return
	}
	for _, key := range form.Keys() {
		if msg, ok := errs[key]; ok {
			fmt.Fprintf(out, "%s: %s\n", key, msg)
			delete(errs, key)
		}
	}
	rest := make([]string, 0, len(errs))
	for key := range errs {
		rest = append(rest, key)
	}
	sort.Strings(rest)
	for _, key := range rest {
		fmt.Fprintf(out, "%s: %s\n", key, errs[key])
	}
}

// loadForm parses the schema behind arg, or the built-in example when arg is
// empty.
func loadForm(ctx context.Context, arg string) (schema.FormSchema, error) {
	if arg == "" {
		return schema.DefaultSchema(), nil
	}
	src, err := source.Parse(arg)
	if err != nil {
		return schema.FormSchema{}, err
	}
	loader := formbuilder.NewLoader(source.WithHTTPFallback(httpTimeout))
	form, _, err := formbuilder.LoadSchema(ctx, loader, src)
	return form, err
}

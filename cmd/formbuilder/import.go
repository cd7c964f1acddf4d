package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/KailasMahavarkar/form-builder/pkg/openapi"
	"github.com/KailasMahavarkar/form-builder/pkg/schema"
)

type importOptions struct {
	operation  string
	list       bool
	standalone bool
	format     string
	output     string
}

func newImportCommand(a *app) *cobra.Command {
	opts := &importOptions{}
	cmd := &cobra.Command{
		Use:   "import <openapi-document>",
		Short: "Generate a form schema from an OpenAPI operation",
		Long: `Import reads an OpenAPI 3 document and converts the request body of one
operation into a form schema. Use --list to see the available operations, or
--json-schema to convert a plain JSON Schema object instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, a, opts, args[0])
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.operation, "operation", "", "Operation id, or method:path")
	flags.BoolVar(&opts.list, "list", false, "List operations instead of importing")
	flags.BoolVar(&opts.standalone, "json-schema", false, "Treat the input as a standalone JSON Schema object")
	flags.StringVar(&opts.format, "format", string(schema.FormatJSON), "Schema format: json or yaml")
	flags.StringVarP(&opts.output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}

func runImport(cmd *cobra.Command, a *app, opts *importOptions, arg string) error {
	format := schema.Format(opts.format)
	if format != schema.FormatJSON && format != schema.FormatYAML {
		return fmt.Errorf("unknown format %q, expected json or yaml", opts.format)
	}
	if !opts.list && !opts.standalone && opts.operation == "" {
		return fmt.Errorf("--operation is required unless --list is set")
	}

	ctx := cmd.Context()
	doc, err := loadDocument(ctx, arg)
	if err != nil {
		return err
	}
	importer := openapi.New(openapi.WithLogger(a.logger))
	if opts.standalone {
		form, err := importer.ImportJSONSchema(ctx, doc.Raw())
		if err != nil {
			return err
		}
		return writeForm(cmd, form, format, opts.output)
	}
	spec, err := importer.Load(ctx, doc.Raw())
	if err != nil {
		return err
	}

	if opts.list {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tMETHOD\tPATH\tBODY")
		for _, op := range spec.Operations() {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", op.ID, op.Method, op.Path, op.HasBody)
		}
		return tw.Flush()
	}

	form, err := spec.Form(opts.operation)
	if err != nil {
		return err
	}
	return writeForm(cmd, form, format, opts.output)
}

func writeForm(cmd *cobra.Command, form schema.FormSchema, format schema.Format, path string) error {
	for _, skipped := range form.Skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped: %s\n", skipped.Error)
	}
	data, err := schema.Encode(form, format)
	if err != nil {
		return err
	}
	return writeOutput(cmd, path, data)
}


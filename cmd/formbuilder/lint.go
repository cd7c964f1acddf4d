package main

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/KailasMahavarkar/form-builder/pkg/schema"
)

func newLintCommand(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "lint [schema]",
		Short: "Report authoring mistakes in a schema",
		Long: `Lint parses a schema and reports problems the parser tolerates: skipped
field entries, duplicate keys, unknown field types, defaults that are not
options and validation rules that can never pass. Errors exit non-zero;
warnings do not.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "text" && output != "json" {
				return fmt.Errorf("unknown output %q, expected text or json", output)
			}
			form, err := loadForm(cmd.Context(), a.schemaArg(args))
			if err != nil {
				return err
			}
			issues := schema.Lint(form)
			a.logger.Debug("lint.completed", "title", form.Title, "issues", len(issues))

			out := cmd.OutOrStdout()
			if output == "json" {
				if issues == nil {
					issues = []schema.Issue{}
				}
				data, err := json.MarshalIndent(issues, "", "  ")
				if err != nil {
					return fmt.Errorf("encode issues: %w", err)
				}
				fmt.Fprintln(out, string(data))
			} else if len(issues) == 0 {
				fmt.Fprintln(out, "ok")
			} else {
				for _, issue := range issues {
					fmt.Fprintln(out, issue.String())
				}
			}

			for _, issue := range issues {
				if issue.Severity == schema.SeverityError {
					return errInvalid
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text or json")
	return cmd
}

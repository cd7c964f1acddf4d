package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	formbuilder "github.com/KailasMahavarkar/form-builder"
	"github.com/KailasMahavarkar/form-builder/internal/config"
	"github.com/KailasMahavarkar/form-builder/pkg/schema"
	"github.com/KailasMahavarkar/form-builder/pkg/source"
	"github.com/KailasMahavarkar/form-builder/pkg/state"
)

const httpTimeout = 30 * time.Second

// app carries process configuration shared by every subcommand.
type app struct {
	cfg       config.Config
	logger    *slog.Logger
	logLevel  string
	logFormat string
}

func newRootCommand() *cobra.Command {
	a := &app{logger: slog.Default()}

	root := &cobra.Command{
		Use:   "formbuilder",
		Short: "Validate, render and serve schema-driven forms",
		Long: `formbuilder works with form schema documents: a title plus a list of
text, select and radio fields with optional validation rules.

Schema arguments accept file paths or http(s) URLs. When omitted, the
FORMBUILDER_SCHEMA environment variable is used, then the built-in example.

Examples:
  formbuilder validate signup.json --set username=ab
  formbuilder render signup.yaml -o preview.html
  formbuilder fill signup.json --format pretty
  formbuilder serve --schema signup.json --watch`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from LOG_LEVEL)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log format: text or json (default from FORMBUILDER_LOG_FORMAT)")

	root.AddCommand(
		newValidateCommand(a),
		newLintCommand(a),
		newRenderCommand(a),
		newFillCommand(a),
		newWatchCommand(a),
		newServeCommand(a),
		newImportCommand(a),
		newJSONSchemaCommand(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.logFormat != "" {
		cfg.LogFormat = a.logFormat
	}
	logger, err := config.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	a.cfg = cfg
	a.logger = logger
	return nil
}

// schemaArg picks the explicit argument, then the configured schema.
func (a *app) schemaArg(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return a.cfg.Schema
}

// loadDocument fetches a file or URL argument.
func loadDocument(ctx context.Context, arg string) (source.Document, error) {
	src, err := source.Parse(arg)
	if err != nil {
		return source.Document{}, err
	}
	loader := formbuilder.NewLoader(source.WithHTTPFallback(httpTimeout))
	return loader.Load(ctx, src)
}

// loadSchemaText returns the schema text behind arg, or the built-in example
// when arg is empty.
func loadSchemaText(ctx context.Context, arg string) (string, error) {
	if arg == "" {
		return schema.DefaultSchemaText(), nil
	}
	doc, err := loadDocument(ctx, arg)
	if err != nil {
		return "", err
	}
	return doc.Text(), nil
}

// valueFlags collects field values from a values document and k=v pairs.
type valueFlags struct {
	file string
	sets []string
}

func (v *valueFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&v.file, "values", "", "JSON or YAML document of field values")
	cmd.Flags().StringArrayVar(&v.sets, "set", nil, "Field value as key=value (repeatable)")
}

func (v *valueFlags) load() (state.Values, error) {
	values := state.Values{}
	if v.file != "" {
		data, err := os.ReadFile(v.file)
		if err != nil {
			return nil, fmt.Errorf("read values: %w", err)
		}
		decoded, err := state.DecodeValues(data)
		if err != nil {
			return nil, fmt.Errorf("decode values %s: %w", v.file, err)
		}
		for key, value := range decoded {
			values[key] = value
		}
	}
	for key, value := range state.ParseAssignments(v.sets) {
		values[key] = value
	}
	return values, nil
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "written to %s\n", path)
	return nil
}

// errInvalid signals a command found problems it already reported.
var errInvalid = errors.New("validation failed")

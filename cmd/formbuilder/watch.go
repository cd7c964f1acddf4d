package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/KailasMahavarkar/form-builder/pkg/form"
	"github.com/KailasMahavarkar/form-builder/pkg/render"
	"github.com/KailasMahavarkar/form-builder/pkg/renderers/tui"
	"github.com/KailasMahavarkar/form-builder/pkg/schema"
	"github.com/KailasMahavarkar/form-builder/pkg/watch"
)

type watchOptions struct {
	values   valueFlags
	debounce time.Duration
}

func newWatchCommand(a *app) *cobra.Command {
	opts := &watchOptions{}
	cmd := &cobra.Command{
		Use:   "watch <schema-file>",
		Short: "Re-render a form snapshot whenever its schema file changes",
		Long: `Watch follows a schema file and prints a text snapshot of the form with its
values and errors after every change. Edits that break the schema keep the
last good fields on screen and show the parse error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd, a, opts, args[0])
		},
	}
	opts.values.register(cmd)
	cmd.Flags().DurationVar(&opts.debounce, "debounce", 0, "Quiet period before reloading (default from FORMBUILDER_WATCH_DEBOUNCE)")
	return cmd
}

// schemaPreview keeps a controller in step with a changing schema file.
type schemaPreview struct {
	parser   *schema.Parser
	values   map[string]string
	renderer *tui.Renderer
	logger   func(msg string, args ...any)
	ctrl     *form.Controller
}

// update feeds text to the controller, creating it on the first text that
// parses, and returns the snapshot to print.
func (p *schemaPreview) update(ctx context.Context, text string) ([]byte, error) {
	if p.ctrl == nil {
		ctrl, err := form.NewFromText(text, form.WithParser(p.parser), form.WithInitialValues(p.values))
		if err != nil {
			return []byte(fmt.Sprintf("waiting for a valid schema: %v\n", err)), nil
		}
		p.ctrl = ctrl
	} else {
		p.ctrl.EditSchemaText(text)
	}
	p.logger("watch.preview", "valid", p.ctrl.SchemaValid(), "fields", len(p.ctrl.Schema().Fields))
	return p.renderer.Render(ctx, p.ctrl.View(), render.RenderOptions{ShowState: true})
}

func runWatch(ctx context.Context, cmd *cobra.Command, a *app, opts *watchOptions, path string) error {
	values, err := opts.values.load()
	if err != nil {
		return err
	}
	debounce := opts.debounce
	if debounce <= 0 {
		debounce = a.cfg.WatchDebounce
	}

	preview := &schemaPreview{
		parser:   schema.NewParser(schema.WithFormat(schema.FormatFromPath(path))),
		values:   values,
		renderer: tui.New(),
		logger:   a.logger.Debug,
	}
	out := cmd.OutOrStdout()

	watcher, err := watch.New(path, func(text string) {
		snapshot, err := preview.update(ctx, text)
		if err != nil {
			a.logger.Error("watch.render.failed", "error", err)
			return
		}
		fmt.Fprintln(out, "---")
		_, _ = out.Write(snapshot)
	}, watch.WithDebounce(debounce), watch.WithLogger(a.logger))
	if err != nil {
		return err
	}

	a.logger.Info("watch.started", "path", watcher.Path(), "debounce", debounce)
	return watcher.Run(ctx)
}

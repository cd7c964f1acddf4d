package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/KailasMahavarkar/form-builder/pkg/render"
	"github.com/KailasMahavarkar/form-builder/pkg/renderers/html"
	"github.com/KailasMahavarkar/form-builder/pkg/renderers/tui"
	"github.com/KailasMahavarkar/form-builder/pkg/schema"
	"github.com/KailasMahavarkar/form-builder/pkg/server"
	"github.com/KailasMahavarkar/form-builder/pkg/source"
	"github.com/KailasMahavarkar/form-builder/pkg/watch"
)

const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	addr    string
	schema  string
	watch   bool
	theme   string
	variant string
}

func newServeCommand(a *app) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve form sessions over HTTP",
		Long: `Serve starts the HTTP API. Each session owns a form controller; schema and
field edits return the updated view, and submit reports whether the form was
accepted. With --watch, edits to the schema file are pushed to every session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, a, opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.addr, "addr", "", "Listen address (default from FORMBUILDER_ADDR)")
	flags.StringVar(&opts.schema, "schema", "", "Default schema file or URL (default from FORMBUILDER_SCHEMA)")
	flags.BoolVar(&opts.watch, "watch", false, "Reload the schema file on change")
	flags.StringVar(&opts.theme, "theme", "", "Theme name (default from FORMBUILDER_THEME)")
	flags.StringVar(&opts.variant, "variant", "", "Theme variant (default from FORMBUILDER_THEME_VARIANT)")
	return cmd
}

func runServe(ctx context.Context, a *app, opts *serveOptions) error {
	addr := firstNonEmpty(opts.addr, a.cfg.Addr)
	schemaArg := firstNonEmpty(opts.schema, a.cfg.Schema)

	text, err := loadSchemaText(ctx, schemaArg)
	if err != nil {
		return err
	}

	themeConfig, err := html.ResolveTheme(nil, firstNonEmpty(opts.theme, a.cfg.Theme), firstNonEmpty(opts.variant, a.cfg.ThemeVariant))
	if err != nil {
		return err
	}
	htmlRenderer, err := html.New(html.WithTheme(themeConfig))
	if err != nil {
		return err
	}

	srv, err := server.New(
		server.WithLogger(a.logger),
		server.WithSchemaText(text),
		server.WithParser(schema.NewParser(schema.WithFormat(schema.FormatAuto))),
		server.WithRegistry(render.NewRegistry(htmlRenderer, tui.New())),
	)
	if err != nil {
		return err
	}

	if opts.watch {
		if err := startSchemaWatch(ctx, a, schemaArg, srv); err != nil {
			return err
		}
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http.listening", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.logger.Info("http.shutdown", "sessions", srv.SessionCount())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func startSchemaWatch(ctx context.Context, a *app, schemaArg string, srv *server.Server) error {
	if schemaArg == "" {
		return errors.New("--watch needs --schema or FORMBUILDER_SCHEMA")
	}
	src, err := source.Parse(schemaArg)
	if err != nil {
		return err
	}
	if src.Kind() != source.KindFile {
		return fmt.Errorf("--watch needs a schema file, got %s", schemaArg)
	}

	first := true
	watcher, err := watch.New(src.Location(), func(text string) {
		if first {
			first = false
			return
		}
		srv.BroadcastSchema(text)
	}, watch.WithDebounce(a.cfg.WatchDebounce), watch.WithLogger(a.logger))
	if err != nil {
		return err
	}

	go func() {
		if err := watcher.Run(ctx); err != nil {
			a.logger.Error("watch.stopped", "path", watcher.Path(), "error", err)
		}
	}()
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

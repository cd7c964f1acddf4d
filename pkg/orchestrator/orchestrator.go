package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	theme "github.com/goliatone/go-theme"

	internalLoader "github.com/KailasMahavarkar/form-builder/internal/source/loader"
	"github.com/KailasMahavarkar/form-builder/pkg/form"
	"github.com/KailasMahavarkar/form-builder/pkg/render"
	"github.com/KailasMahavarkar/form-builder/pkg/renderers/html"
	"github.com/KailasMahavarkar/form-builder/pkg/renderers/tui"
	"github.com/KailasMahavarkar/form-builder/pkg/schema"
	"github.com/KailasMahavarkar/form-builder/pkg/source"
)

const (
	defaultRendererName = html.Name
	defaultHTTPTimeout  = 30 * time.Second
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom source loader.
func WithLoader(loader source.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithParser forces a schema parser. Without it the parser format follows
// the document's file extension.
func WithParser(parser *schema.Parser) Option {
	return func(o *Orchestrator) {
		o.parser = parser
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithLogger sets the logger handed to controllers.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithThemeSelector resolves name/variant through selector when building the
// default HTML renderer. Ignored when a registry is injected.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
		o.themeName = name
		o.themeVariant = variant
		o.themeConfigured = true
	}
}

// Orchestrator coordinates the pipeline from schema source to rendered
// output. It applies defaults (file/HTTP loader, HTML and text renderers)
// while remaining open to dependency injection.
type Orchestrator struct {
	loader          source.Loader
	parser          *schema.Parser
	registry        *render.Registry
	defaultRenderer string
	logger          *slog.Logger
	themeSelector   theme.ThemeSelector
	themeName       string
	themeVariant    string
	themeConfigured bool
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		logger:          slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs required to render a form.
type Request struct {
	// Source identifies where the schema lives. Ignored when Document or
	// SchemaText is set.
	Source source.Source

	// Document bypasses the loader for a pre-loaded payload.
	Document *source.Document

	// SchemaText bypasses loading entirely.
	SchemaText string

	// Values are applied as field edits after the schema is adopted, so each
	// edited key carries its live error.
	Values map[string]string

	// Validate runs a full submit-style validation before rendering so every
	// field shows its error, edited or not.
	Validate bool

	// Renderer names the renderer to use. Empty selects the default.
	Renderer string

	// RenderOptions carries per-request presentation settings.
	RenderOptions render.RenderOptions
}

// Controller loads the schema for req and returns a controller with the
// request values applied.
func (o *Orchestrator) Controller(ctx context.Context, req Request, opts ...form.Option) (*form.Controller, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	text, format, err := o.resolveSchema(ctx, req)
	if err != nil {
		return nil, err
	}

	parser := o.parser
	if parser == nil {
		parser = schema.NewParser(schema.WithFormat(format))
	}
	base := []form.Option{form.WithParser(parser), form.WithLogger(o.logger)}
	ctrl, err := form.NewFromText(text, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: parse schema: %w", err)
	}

	for _, key := range sortedKeys(req.Values) {
		ctrl.EditFieldValue(key, req.Values[key])
	}
	if req.Validate {
		ctrl.Submit()
	}
	return ctrl, nil
}

// Generate executes the load → parse → edit → render sequence and returns
// the rendered bytes.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	ctrl, err := o.Controller(ctx, req)
	if err != nil {
		return nil, err
	}

	renderer, err := o.Renderer(req.Renderer)
	if err != nil {
		return nil, err
	}

	output, err := renderer.Render(ctx, ctrl.View(), req.RenderOptions)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Renderer resolves name (or the default) against the registry.
func (o *Orchestrator) Renderer(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}
	return o.registry.Get(names[0])
}

func (o *Orchestrator) resolveSchema(ctx context.Context, req Request) (string, schema.Format, error) {
	if req.SchemaText != "" {
		return req.SchemaText, schema.FormatAuto, nil
	}
	if req.Document != nil {
		return req.Document.Text(), req.Document.Format(), nil
	}
	if req.Source == nil {
		return schema.DefaultSchemaText(), schema.FormatJSON, nil
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return "", "", fmt.Errorf("orchestrator: load schema: %w", err)
	}
	return doc.Text(), doc.Format(), nil
}

func (o *Orchestrator) applyDefaults() {
	if o.loader == nil {
		o.loader = internalLoader.New(source.NewLoaderOptions(source.WithHTTPFallback(defaultHTTPTimeout)))
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()

		var htmlOptions []html.Option
		if o.themeConfigured {
			themeConfig, err := html.ResolveTheme(o.themeSelector, o.themeName, o.themeVariant)
			if err != nil {
				o.initialiseErr = fmt.Errorf("orchestrator: resolve theme: %w", err)
				return
			}
			htmlOptions = append(htmlOptions, html.WithTheme(themeConfig))
		}
		renderer, err := html.New(htmlOptions...)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
			return
		}
		o.registry.MustRegister(renderer)
		o.registry.MustRegister(tui.New())
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}

func sortedKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

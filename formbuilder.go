// Package formbuilder renders and validates forms described by a JSON or
// YAML schema document. The root package offers shortcuts over the
// orchestrator, loader and controller packages.
package formbuilder

import (
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/KailasMahavarkar/form-builder/pkg/form"
	"github.com/KailasMahavarkar/form-builder/pkg/orchestrator"
	"github.com/KailasMahavarkar/form-builder/pkg/render"
	"github.com/KailasMahavarkar/form-builder/pkg/source"
)

// RenderOptions describes per-request presentation settings.
type RenderOptions = render.RenderOptions

// Request aliases orchestrator.Request.
type Request = orchestrator.Request

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// NewController parses schema text and returns a form controller.
func NewController(schemaText string, options ...form.Option) (*form.Controller, error) {
	return form.NewFromText(schemaText, options...)
}

// GenerateHTML loads the schema behind src, applies values and renders the
// HTML preview page.
func GenerateHTML(ctx context.Context, src source.Source, values map[string]string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Source:   src,
		Values:   values,
		Renderer: "html",
	})
}

// GenerateHTMLFromText renders schema text directly, bypassing the loader.
func GenerateHTMLFromText(ctx context.Context, schemaText string, values map[string]string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		SchemaText: schemaText,
		Values:     values,
		Renderer:   "html",
	})
}

// WithThemeSelector passes a go-theme selector through to the orchestrator so
// theme/variant choices are resolved ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector, name, variant)
}

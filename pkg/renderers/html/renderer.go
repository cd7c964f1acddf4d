// Package html renders a form view as a standalone HTML preview page using
// pongo2 templates.
package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	json "github.com/goccy/go-json"
	theme "github.com/goliatone/go-theme"

	"github.com/KailasMahavarkar/form-builder/pkg/form"
	"github.com/KailasMahavarkar/form-builder/pkg/render"
	rendertemplate "github.com/KailasMahavarkar/form-builder/pkg/render/template"
	"github.com/KailasMahavarkar/form-builder/pkg/render/template/pongo"
)

// Name is the registry name of the HTML renderer.
const Name = "html"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	theme            *theme.RendererConfig
	stylesheet       *string
}

// WithTemplatesFS supplies an alternate template bundle. It must contain
// FormTemplate.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTheme sets the resolved theme configuration.
func WithTheme(themeConfig *theme.RendererConfig) Option {
	return func(cfg *config) {
		cfg.theme = themeConfig
	}
}

// WithStylesheet replaces the embedded stylesheet. An empty string disables
// inline styles.
func WithStylesheet(css string) Option {
	return func(cfg *config) {
		cfg.stylesheet = &css
	}
}

// Renderer produces the HTML preview page.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	theme      *theme.RendererConfig
	stylesheet string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engine, err := pongo.New(
			pongo.WithName("formbuilder-html"),
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	stylesheet := defaultStylesheet()
	if cfg.stylesheet != nil {
		stylesheet = *cfg.stylesheet
	}

	return &Renderer{
		templates:  templates,
		theme:      cfg.theme,
		stylesheet: stylesheet,
	}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render executes the form template for view.
func (r *Renderer) Render(ctx context.Context, view form.View, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := r.buildPage(view, options)
	if err != nil {
		return nil, err
	}

	result, err := r.templates.RenderTemplate(FormTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}

type pageData struct {
	Form         formData     `json:"form"`
	Action       string       `json:"action"`
	Method       string       `json:"method"`
	HiddenFields []hiddenData `json:"hidden_fields"`
	SubmitLabel  string       `json:"submit_label"`
	ShowState    bool         `json:"show_state"`
	Theme        themeData    `json:"theme"`
	Stylesheet   string       `json:"stylesheet"`
}

type formData struct {
	Title       string      `json:"title"`
	TitleText   string      `json:"title_text"`
	SchemaValid bool        `json:"schema_valid"`
	SchemaError string      `json:"schema_error"`
	Fields      []fieldData `json:"fields"`
	ValuesJSON  string      `json:"values_json"`
	ErrorsJSON  string      `json:"errors_json"`
}

type fieldData struct {
	InputID  string       `json:"input_id"`
	Key      string       `json:"key"`
	Label    string       `json:"label"`
	Type     string       `json:"type"`
	Required bool         `json:"required"`
	Value    string       `json:"value"`
	Error    string       `json:"error"`
	HasError bool         `json:"has_error"`
	Options  []optionData `json:"options"`
	Multiple bool         `json:"multiple"`
	Pattern  string       `json:"pattern"`
}

type optionData struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type hiddenData struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type themeData struct {
	Name          string `json:"name"`
	Variant       string `json:"variant"`
	CSSVarsStyle  string `json:"css_vars_style"`
	StylesheetURL string `json:"stylesheet_url"`
}

func (r *Renderer) buildPage(view form.View, options render.RenderOptions) (pageData, error) {
	method, _ := options.FormMethod()
	page := pageData{
		Form: formData{
			Title:       sanitizeLabel(view.Title),
			TitleText:   view.Title,
			SchemaValid: view.SchemaValid,
			SchemaError: view.SchemaError,
			Fields:      make([]fieldData, 0, len(view.Fields)),
		},
		Action:      options.Action,
		Method:      method,
		SubmitLabel: options.ResolvedSubmitLabel(),
		ShowState:   options.ShowState,
		Theme:       buildThemeData(r.theme),
		Stylesheet:  r.stylesheet,
	}

	for _, hidden := range options.ResolvedHiddenFields() {
		page.HiddenFields = append(page.HiddenFields, hiddenData{Name: hidden.Name, Value: hidden.Value})
	}

	for idx, field := range view.Fields {
		page.Form.Fields = append(page.Form.Fields, buildFieldData(idx, field))
	}

	if options.ShowState {
		values, err := json.MarshalIndent(view.Values, "", "  ")
		if err != nil {
			return pageData{}, fmt.Errorf("html renderer: encode values: %w", err)
		}
		errs, err := json.MarshalIndent(view.Errors, "", "  ")
		if err != nil {
			return pageData{}, fmt.Errorf("html renderer: encode errors: %w", err)
		}
		page.Form.ValuesJSON = string(values)
		page.Form.ErrorsJSON = string(errs)
	}

	return page, nil
}

func buildFieldData(idx int, field form.FieldView) fieldData {
	data := fieldData{
		InputID:  inputID(idx, field),
		Key:      field.Key,
		Label:    sanitizeLabel(render.DisplayLabel(field)),
		Type:     string(field.Type),
		Required: field.Required,
		Value:    field.Value,
		Error:    field.Error,
		HasError: field.HasError,
		Multiple: field.Multiple,
		Pattern:  field.Pattern,
	}
	for _, option := range field.Options {
		label := option.Label
		if label == "" {
			label = option.Value
		}
		data.Options = append(data.Options, optionData{
			Value:    option.Value,
			Label:    sanitizeLabel(label),
			Selected: field.IsSelected(option.Value),
		})
	}
	return data
}

func inputID(idx int, field form.FieldView) string {
	if field.ID != "" {
		return "fb-" + field.ID
	}
	return fmt.Sprintf("fb-field-%d", idx)
}

func buildThemeData(cfg *theme.RendererConfig) themeData {
	if cfg == nil {
		return themeData{}
	}
	data := themeData{
		Name:         cfg.Theme,
		Variant:      cfg.Variant,
		CSSVarsStyle: cssVarsStyle(cfg.CSSVars),
	}
	if cfg.AssetURL != nil {
		data.StylesheetURL = cfg.AssetURL(StylesheetAssetKey)
	}
	return data
}

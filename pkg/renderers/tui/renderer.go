// Package tui renders forms for the terminal. Render produces a plain-text
// snapshot of a view; Fill drives a form controller through interactive
// prompts and serializes the submitted values.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/KailasMahavarkar/form-builder/pkg/form"
	"github.com/KailasMahavarkar/form-builder/pkg/render"
	"github.com/KailasMahavarkar/form-builder/pkg/schema"
)

// Name is the registry name of the terminal renderer.
const Name = "tui"

const defaultMaxAttempts = 3

// Renderer implements render.Renderer for terminal sessions.
type Renderer struct {
	driver        PromptDriver
	out           io.Writer
	outputFormat  OutputFormat
	theme         Theme
	maxAttempts   int
	confirmSubmit bool
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a terminal renderer with defaults (survey driver, JSON
// output, three attempts per field).
func New(options ...Option) *Renderer {
	r := &Renderer{
		out:          os.Stdout,
		outputFormat: OutputFormatJSON,
		theme:        DefaultTheme,
		maxAttempts:  defaultMaxAttempts,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver(r.out)
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the media type of Render snapshots.
func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// SubmissionContentType reports the media type of Fill output.
func (r *Renderer) SubmissionContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render writes a plain-text snapshot of view: the title, the schema status,
// one line per field with its current value, and the field error beneath it.
func (r *Renderer) Render(ctx context.Context, view form.View, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var b strings.Builder
	title := view.Title
	if title == "" {
		title = "(untitled)"
	}
	b.WriteString(title)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("=", len([]rune(title))))
	b.WriteByte('\n')

	if view.SchemaValid {
		b.WriteString("Schema: valid\n")
	} else {
		b.WriteString("Schema: invalid\n")
		if view.SchemaError != "" {
			fmt.Fprintf(&b, "%s%s\n", r.theme.ErrorPrefix, view.SchemaError)
		}
	}
	b.WriteByte('\n')

	for _, field := range view.Fields {
		fmt.Fprintf(&b, "%s [%s]: %s\n", r.fieldLabel(field), field.Type, displayValue(field))
		if field.HasError {
			fmt.Fprintf(&b, "  %s%s\n", r.theme.ErrorPrefix, field.Error)
		}
	}

	if opts.ShowState {
		values, err := json.MarshalIndent(view.Values, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("tui: encode values: %w", err)
		}
		errs, err := json.MarshalIndent(view.Errors, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("tui: encode errors: %w", err)
		}
		fmt.Fprintf(&b, "\nValues:\n%s\nErrors:\n%s\n", values, errs)
	}

	return []byte(b.String()), nil
}

// Fill prompts for every field of c in schema order, feeding each answer
// through the controller so the live error for that field is shown before
// moving on. A field that still fails after the configured number of attempts
// stops the session with ErrTooManyAttempts. Once every field is clean the
// form is submitted and the submitted values are serialized.
func (r *Renderer) Fill(ctx context.Context, c *form.Controller) ([]byte, error) {
	if c == nil {
		return nil, errors.New("tui: controller is nil")
	}
	if !c.SchemaValid() {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, c.SchemaError())
	}

	pending := keysOf(c.View().Fields)
	for round := 0; ; round++ {
		for _, key := range pending {
			if err := r.fillField(ctx, c, key); err != nil {
				return nil, err
			}
		}

		if r.confirmSubmit {
			ok, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Submit?", Default: true})
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, ErrAborted
			}
		}

		if c.Submit() {
			break
		}

		// Submit rejected the form: re-prompt only the failing fields.
		view := c.View()
		if round+1 >= r.maxAttempts {
			return nil, fmt.Errorf("%w: %s", ErrTooManyAttempts, strings.Join(failingKeys(view), ", "))
		}
		for _, fieldErr := range render.SummarizeErrors(view) {
			if err := r.driver.Info(ctx, fmt.Sprintf("%s%s: %s", r.theme.ErrorPrefix, fieldErr.Label, fieldErr.Message)); err != nil {
				return nil, err
			}
		}
		pending = failingKeys(view)
	}

	return r.serialize(c.View())
}

func (r *Renderer) fillField(ctx context.Context, c *form.Controller, key string) error {
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		field, ok := c.View().Field(key)
		if !ok {
			// A concurrent schema edit dropped the field.
			return nil
		}

		if err := r.promptField(ctx, c, field); err != nil {
			return err
		}

		field, _ = c.View().Field(key)
		if !field.HasError {
			return nil
		}
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+field.Error); err != nil {
			return err
		}
	}
	return fmt.Errorf("%w: %s", ErrTooManyAttempts, key)
}

func (r *Renderer) promptField(ctx context.Context, c *form.Controller, field form.FieldView) error {
	message := r.fieldLabel(field)

	switch field.Type {
	case schema.FieldTypeText:
		value, err := r.driver.Input(ctx, InputConfig{Message: message, Default: field.Value})
		if err != nil {
			return err
		}
		c.EditFieldValue(field.Key, value)

	case schema.FieldTypeSelect, schema.FieldTypeRadio:
		labels := optionLabels(field.Options)
		if field.Multiple {
			indices, err := r.driver.MultiSelect(ctx, SelectConfig{
				Message:  message,
				Options:  labels,
				Defaults: selectedIndices(field),
			})
			if err != nil {
				return err
			}
			c.EditFieldSelection(field.Key, optionValues(field.Options, indices))
			return nil
		}

		options := labels
		offset := 0
		if !field.Required {
			// Optional single choices can be cleared.
			options = append([]string{"(none)"}, labels...)
			offset = 1
		}
		defaultIndex := offset + optionIndex(field.Options, field.Value)
		if defaultIndex < offset {
			defaultIndex = 0
		}
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      options,
			DefaultIndex: defaultIndex,
		})
		if err != nil {
			return err
		}
		value := ""
		if pos := idx - offset; pos >= 0 && pos < len(field.Options) {
			value = field.Options[pos].Value
		}
		c.EditFieldValue(field.Key, value)
	}
	return nil
}

func (r *Renderer) fieldLabel(field form.FieldView) string {
	label := render.DisplayLabel(field)
	if field.Required && r.theme.RequiredMarker != "" {
		label += " " + r.theme.RequiredMarker
	}
	return label
}

// serialize encodes the values of known fields in the configured format.
func (r *Renderer) serialize(view form.View) ([]byte, error) {
	values := make(map[string]string, len(view.Fields))
	for _, field := range view.Fields {
		values[field.Key] = field.Value
	}

	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(view.Fields)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(view.Fields)), nil
	default:
		return jsonBytes(values)
	}
}

func displayValue(field form.FieldView) string {
	if len(field.Options) > 0 {
		labels := make([]string, 0, len(field.Selected))
		for _, option := range field.Options {
			if field.IsSelected(option.Value) {
				labels = append(labels, optionLabel(option))
			}
		}
		if len(labels) == 0 {
			return "-"
		}
		return strings.Join(labels, ", ")
	}
	if field.Value == "" {
		return "-"
	}
	return field.Value
}

func keysOf(fields []form.FieldView) []string {
	keys := make([]string, 0, len(fields))
	for _, field := range fields {
		keys = append(keys, field.Key)
	}
	return keys
}

func failingKeys(view form.View) []string {
	var keys []string
	for _, field := range view.Fields {
		if field.HasError {
			keys = append(keys, field.Key)
		}
	}
	return keys
}

func optionLabel(option schema.Option) string {
	if option.Label != "" {
		return option.Label
	}
	return option.Value
}

func optionLabels(options []schema.Option) []string {
	labels := make([]string, 0, len(options))
	for _, option := range options {
		labels = append(labels, optionLabel(option))
	}
	return labels
}

func optionIndex(options []schema.Option, value string) int {
	for i, option := range options {
		if option.Value == value {
			return i
		}
	}
	return -1
}

func optionValues(options []schema.Option, indices []int) []string {
	values := make([]string, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(options) {
			values = append(values, options[idx].Value)
		}
	}
	return values
}

func selectedIndices(field form.FieldView) []int {
	var indices []int
	for i, option := range field.Options {
		if field.IsSelected(option.Value) {
			indices = append(indices, i)
		}
	}
	return indices
}

// flattenForm encodes fields as a query string; multi-select values become
// repeated keys.
func flattenForm(fields []form.FieldView) string {
	out := url.Values{}
	for _, field := range fields {
		if field.Multiple {
			for _, value := range field.Selected {
				out.Add(field.Key, value)
			}
			continue
		}
		out.Set(field.Key, field.Value)
	}
	return out.Encode()
}

func prettyPrint(fields []form.FieldView) string {
	var b strings.Builder
	for _, field := range fields {
		b.WriteString(field.Key)
		b.WriteByte('=')
		b.WriteString(field.Value)
		b.WriteByte('\n')
	}
	return b.String()
}

func jsonBytes(values map[string]string) ([]byte, error) {
	out, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("tui: encode values: %w", err)
	}
	return out, nil
}

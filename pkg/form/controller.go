// Package form coordinates a schema-driven form session: it owns the schema
// text, the last successfully parsed schema, the field values and the error
// map, and recomputes them in response to edit and submit events.
package form

import (
	"log/slog"

	"github.com/KailasMahavarkar/form-builder/pkg/schema"
	"github.com/KailasMahavarkar/form-builder/pkg/state"
	"github.com/KailasMahavarkar/form-builder/pkg/validation"
)

// Controller is a single-writer state machine. It holds no locks; hosts that
// deliver events from several goroutines must serialise them.
//
// Events raised while another event is being processed (for example from a
// change listener or submit handler) are queued and run once the current
// cycle completes.
type Controller struct {
	parser    *schema.Parser
	validator *validation.Validator
	logger    *slog.Logger
	onSubmit  func(map[string]string)
	onChange  func(View)

	schemaText  string
	form        schema.FormSchema
	schemaValid bool
	schemaErr   error
	store       *state.Store
	errors      map[string]string

	busy    bool
	pending []func()
}

// New constructs a controller around an already parsed schema. Values are
// seeded from field defaults and the error map starts empty.
func New(schemaText string, form schema.FormSchema, opts ...Option) *Controller {
	c := newController(opts...)
	c.schemaText = schemaText
	c.form = form
	c.store.Seed(form)
	return c
}

// NewFromText parses text with the configured parser and constructs a
// controller from the result.
func NewFromText(text string, opts ...Option) (*Controller, error) {
	c := newController(opts...)
	form, err := c.parser.Parse(text)
	if err != nil {
		return nil, err
	}
	c.schemaText = text
	c.form = form
	c.store.Seed(form)
	return c, nil
}

func newController(opts ...Option) *Controller {
	c := &Controller{
		parser:      schema.NewParser(),
		validator:   validation.NewValidator(),
		logger:      slog.Default(),
		store:       state.NewStore(nil),
		errors:      map[string]string{},
		schemaValid: true,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// EditSchemaText stores text and tries to parse it. A parsed schema replaces
// the current one, seeds defaults for new keys and recomputes every error. A
// failed parse keeps the last good schema, values and errors and marks the
// schema invalid.
func (c *Controller) EditSchemaText(text string) {
	c.dispatch(func() {
		c.schemaText = text
		form, err := c.parser.Parse(text)
		if err != nil {
			c.schemaValid = false
			c.schemaErr = err
			c.logger.Debug("form.schema.rejected", "error", err)
			return
		}

		c.form = form
		c.schemaValid = true
		c.schemaErr = nil
		seeded := c.store.Seed(form)
		c.errors = validation.Project(c.validator.Validate(form, c.store.Snapshot()))
		c.logger.Debug("form.schema.adopted",
			"title", form.Title,
			"fields", len(form.Fields),
			"seeded", len(seeded),
			"skipped", len(form.Skipped),
			"errors", len(c.errors),
		)
	})
}

// EditFieldValue stores value under key and recomputes only that key's error
// against the current schema.
func (c *Controller) EditFieldValue(key, value string) {
	c.dispatch(func() {
		c.applyFieldValue(key, value)
	})
}

func (c *Controller) applyFieldValue(key, value string) {
	snapshot := c.store.Merge(key, value)
	c.store.Replace(snapshot)

	violations := c.validator.ValidateField(c.form, key, snapshot)
	next := make(map[string]string, len(c.errors)+1)
	for k, v := range c.errors {
		if k != key {
			next[k] = v
		}
	}
	if message, ok := validation.ProjectField(violations, key); ok {
		next[key] = message
	}
	c.errors = next
	c.logger.Debug("form.field.changed", "key", key, "error", next[key])
}

// EditFieldSelection stores the selected option values for key.
func (c *Controller) EditFieldSelection(key string, selected []string) {
	c.EditFieldValue(key, schema.JoinSelection(selected))
}

// ToggleOption applies a click on an option of a select or radio field.
// Multi-select radios toggle membership, other fields replace the selection.
// Keys that do not name an option field in the current schema are ignored.
func (c *Controller) ToggleOption(key, value string) {
	c.dispatch(func() {
		field, ok := c.form.Field(key)
		if !ok || !field.HasOptions() {
			c.logger.Debug("form.option.ignored", "key", key)
			return
		}
		current := validation.ResolveValue(field, c.store.Snapshot())
		next := schema.ToggleSelection(selection(current, field.IsMultiSelect()), value, field.IsMultiSelect())
		c.applyFieldValue(key, schema.JoinSelection(next))
	})
}

// Submit validates every field. Violations replace the error map and the
// submit handler is not called. Otherwise the error map is cleared and the
// handler receives a copy of the values. Submit reports whether the handler
// was reached; a submit raised during another event is queued and reports
// false.
func (c *Controller) Submit() bool {
	accepted := false
	ran := c.dispatch(func() {
		snapshot := c.store.Snapshot()
		violations := c.validator.Validate(c.form, snapshot)
		if len(violations) > 0 {
			c.errors = validation.Project(violations)
			c.logger.Debug("form.submit.rejected", "errors", len(c.errors))
			return
		}
		c.errors = map[string]string{}
		accepted = true
		c.logger.Debug("form.submit.accepted", "fields", len(snapshot))
		if c.onSubmit != nil {
			c.onSubmit(snapshot.Clone())
		}
	})
	return ran && accepted
}

// dispatch runs fn as one recomputation cycle, or queues it when a cycle is
// already in progress. It reports whether fn ran synchronously.
func (c *Controller) dispatch(fn func()) bool {
	if c.busy {
		c.pending = append(c.pending, fn)
		return false
	}

	c.busy = true
	defer func() {
		c.busy = false
	}()

	c.runCycle(fn)
	for len(c.pending) > 0 {
		next := c.pending[0]
		c.pending = c.pending[1:]
		c.runCycle(next)
	}
	return true
}

func (c *Controller) runCycle(fn func()) {
	fn()
	if c.onChange != nil {
		c.onChange(c.View())
	}
}

// View returns a read-only snapshot of the controller.
func (c *Controller) View() View {
	values := c.store.Snapshot()
	view := View{
		Title:       c.form.Title,
		SchemaText:  c.schemaText,
		SchemaValid: c.schemaValid,
		Fields:      make([]FieldView, 0, len(c.form.Fields)),
		Values:      values,
		Errors:      c.Errors(),
	}
	if c.schemaErr != nil {
		view.SchemaError = c.schemaErr.Error()
	}
	for _, field := range c.form.Fields {
		if !field.Type.Known() {
			continue
		}
		view.Fields = append(view.Fields, buildFieldView(field, values, view.Errors))
	}
	return view
}

// Schema returns the last successfully parsed schema.
func (c *Controller) Schema() schema.FormSchema {
	return c.form
}

// SchemaText returns the most recent schema text, parsed or not.
func (c *Controller) SchemaText() string {
	return c.schemaText
}

// SchemaValid reports whether the most recent schema text parsed.
func (c *Controller) SchemaValid() bool {
	return c.schemaValid
}

// SchemaError returns the parse error of the most recent schema text, if any.
func (c *Controller) SchemaError() error {
	return c.schemaErr
}

// Values returns a copy of the current field values.
func (c *Controller) Values() map[string]string {
	return c.store.Snapshot()
}

// Errors returns a copy of the current error map.
func (c *Controller) Errors() map[string]string {
	out := make(map[string]string, len(c.errors))
	for key, message := range c.errors {
		out[key] = message
	}
	return out
}

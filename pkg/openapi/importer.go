package openapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/KailasMahavarkar/form-builder/pkg/schema"
)

var (
	// ErrEmptyDocument is returned for an empty payload.
	ErrEmptyDocument = errors.New("openapi: document payload is empty")
	// ErrOperationNotFound is returned when no operation matches the requested id.
	ErrOperationNotFound = errors.New("openapi: operation not found")
	// ErrNoRequestBody is returned when the operation has no usable request body.
	ErrNoRequestBody = errors.New("openapi: operation has no request body schema")
	// ErrBodyNotObject is returned when the request body schema is not an object.
	ErrBodyNotObject = errors.New("openapi: request body schema is not an object")
)

const (
	integerPattern = `^-?[0-9]+$`
	numberPattern  = `^-?[0-9]+(\.[0-9]+)?$`
)

var defaultMediaTypes = []string{
	"application/json",
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

// methodOrder keeps operation listings stable within a path.
var methodOrder = []string{"GET", "PUT", "POST", "DELETE", "PATCH", "HEAD", "OPTIONS", "TRACE"}

// Operation describes one operation in a loaded document.
type Operation struct {
	ID      string `json:"id"`
	Method  string `json:"method"`
	Path    string `json:"path"`
	Summary string `json:"summary,omitempty"`
	HasBody bool   `json:"hasBody"`
}

// Option configures an Importer.
type Option func(*Importer)

// WithLabeler overrides how property names become field labels.
func WithLabeler(labeler Labeler) Option {
	return func(i *Importer) {
		if labeler != nil {
			i.labeler = labeler
		}
	}
}

// WithLogger sets the logger used to report skipped properties.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Importer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithMediaTypes sets the request body media types considered, in preference
// order.
func WithMediaTypes(mediaTypes ...string) Option {
	return func(i *Importer) {
		if len(mediaTypes) > 0 {
			i.mediaTypes = append([]string(nil), mediaTypes...)
		}
	}
}

// Importer converts OpenAPI operations into form schemas.
type Importer struct {
	labeler    Labeler
	logger     *slog.Logger
	mediaTypes []string
}

// New constructs an Importer.
func New(options ...Option) *Importer {
	i := &Importer{
		labeler:    DefaultLabeler,
		logger:     slog.Default(),
		mediaTypes: defaultMediaTypes,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(i)
	}
	return i
}

// Document is a loaded OpenAPI document bound to the importer that loaded it.
type Document struct {
	importer *Importer
	spec     *openapi3.T
}

// Load parses raw as an OpenAPI 3 document (JSON or YAML). Internal
// references are resolved.
func (i *Importer) Load(ctx context.Context, raw []byte) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, ErrEmptyDocument
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	return &Document{importer: i, spec: spec}, nil
}

// Operations lists every operation ordered by path then method.
func (d *Document) Operations() []Operation {
	if d == nil || d.spec == nil || d.spec.Paths == nil {
		return nil
	}
	paths := d.spec.Paths.Map()
	names := make([]string, 0, len(paths))
	for path := range paths {
		names = append(names, path)
	}
	sort.Strings(names)

	var out []Operation
	for _, path := range names {
		item := paths[path]
		if item == nil {
			continue
		}
		operations := item.Operations()
		for _, method := range methodOrder {
			op, ok := operations[method]
			if !ok || op == nil {
				continue
			}
			_, err := d.importer.bodySchema(op)
			out = append(out, Operation{
				ID:      operationID(method, path, op),
				Method:  method,
				Path:    path,
				Summary: op.Summary,
				HasBody: err == nil,
			})
		}
	}
	return out
}

// Form builds a form schema from the request body of the operation with the
// given id. Operations without an operationId are addressed as
// "method:path", e.g. "post:/users".
func (d *Document) Form(id string) (schema.FormSchema, error) {
	if d == nil || d.spec == nil || d.spec.Paths == nil {
		return schema.FormSchema{}, fmt.Errorf("%w: %s", ErrOperationNotFound, id)
	}
	for path, item := range d.spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil || operationID(method, path, op) != id {
				continue
			}
			body, err := d.importer.bodySchema(op)
			if err != nil {
				return schema.FormSchema{}, fmt.Errorf("%w: %s", err, id)
			}
			return d.importer.formFromSchema(d.importer.title(method, path, op), body), nil
		}
	}
	return schema.FormSchema{}, fmt.Errorf("%w: %s", ErrOperationNotFound, id)
}

// Import loads raw and returns the form for operation id.
func (i *Importer) Import(ctx context.Context, raw []byte, id string) (schema.FormSchema, error) {
	doc, err := i.Load(ctx, raw)
	if err != nil {
		return schema.FormSchema{}, err
	}
	return doc.Form(id)
}

func operationID(method, path string, op *openapi3.Operation) string {
	if op.OperationID != "" {
		return op.OperationID
	}
	return strings.ToLower(method) + ":" + path
}

func (i *Importer) title(method, path string, op *openapi3.Operation) string {
	if summary := strings.TrimSpace(op.Summary); summary != "" {
		return summary
	}
	if op.OperationID != "" {
		if label := i.labeler(op.OperationID); label != "" {
			return label
		}
	}
	return method + " " + path
}

func (i *Importer) bodySchema(op *openapi3.Operation) (*openapi3.Schema, error) {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil, ErrNoRequestBody
	}
	content := op.RequestBody.Value.Content
	for _, mediaType := range i.mediaTypes {
		mt, ok := content[mediaType]
		if !ok || mt == nil || mt.Schema == nil || mt.Schema.Value == nil {
			continue
		}
		body := mt.Schema.Value
		if !isType(body, openapi3.TypeObject) && len(body.Properties) == 0 {
			return nil, ErrBodyNotObject
		}
		return body, nil
	}
	return nil, ErrNoRequestBody
}

// formFromSchema maps top-level properties to fields in name order.
// Properties that have no field equivalent are recorded as skipped.
func (i *Importer) formFromSchema(title string, body *openapi3.Schema) schema.FormSchema {
	form := schema.FormSchema{Title: title, Fields: []schema.FieldConfig{}}

	names := make([]string, 0, len(body.Properties))
	for name := range body.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	required := make(map[string]bool, len(body.Required))
	for _, name := range body.Required {
		required[name] = true
	}

	for idx, name := range names {
		ref := body.Properties[name]
		if ref == nil {
			continue
		}
		if ref.Value == nil {
			form.Skipped = append(form.Skipped, schema.SkippedField{
				Index: idx,
				Error: fmt.Sprintf("property %q: unresolved reference %q", name, ref.Ref),
			})
			continue
		}
		field, err := i.fieldFromProperty(name, ref.Value, required[name])
		if err != nil {
			i.logger.Debug("openapi.property.skipped", "property", name, "error", err)
			form.Skipped = append(form.Skipped, schema.SkippedField{
				Index: idx,
				Error: fmt.Sprintf("property %q: %v", name, err),
			})
			continue
		}
		form.Fields = append(form.Fields, field)
	}
	return form
}

func (i *Importer) fieldFromProperty(name string, prop *openapi3.Schema, required bool) (schema.FieldConfig, error) {
	if prop.ReadOnly {
		return schema.FieldConfig{}, errors.New("read-only")
	}

	label := strings.TrimSpace(prop.Title)
	if label == "" {
		label = i.labeler(name)
	}
	field := schema.FieldConfig{
		ID:    "fld-" + name,
		Key:   name,
		Label: label,
	}
	rules := &schema.ValidatorConfig{Required: required}

	switch {
	case len(prop.Enum) > 0:
		field.Type = schema.FieldTypeSelect
		field.Children = i.enumOptions(prop.Enum)

	case isType(prop, openapi3.TypeBoolean):
		field.Type = schema.FieldTypeSelect
		field.Children = []schema.Option{{Value: "true", Label: "Yes"}, {Value: "false", Label: "No"}}

	case isType(prop, openapi3.TypeArray):
		if prop.Items == nil || prop.Items.Value == nil || len(prop.Items.Value.Enum) == 0 {
			return schema.FieldConfig{}, errors.New("array items have no enum")
		}
		field.Type = schema.FieldTypeRadio
		field.Multiple = true
		field.Children = i.enumOptions(prop.Items.Value.Enum)

	case isType(prop, openapi3.TypeString):
		field.Type = schema.FieldTypeText
		field.Pattern = prop.Pattern
		rules.Pattern = prop.Pattern
		if prop.MinLength > 0 {
			n := int(prop.MinLength)
			rules.MinLength = &n
		}
		if prop.MaxLength != nil {
			n := int(*prop.MaxLength)
			rules.MaxLength = &n
		}

	case isType(prop, openapi3.TypeInteger), isType(prop, openapi3.TypeNumber):
		field.Type = schema.FieldTypeText
		rules.Pattern = numberPattern
		if isType(prop, openapi3.TypeInteger) {
			rules.Pattern = integerPattern
		}
		rules.Min = cloneFloat(prop.Min)
		rules.Max = cloneFloat(prop.Max)

	default:
		return schema.FieldConfig{}, fmt.Errorf("unsupported type %q", typeName(prop))
	}

	if prop.Default != nil {
		def := stringify(prop.Default)
		field.DefaultValue = &def
	}
	if rules.Required || rules.Pattern != "" || rules.HasLengthBounds() || rules.Min != nil || rules.Max != nil {
		field.Validation = rules
	}
	return field, nil
}

func (i *Importer) enumOptions(values []any) []schema.Option {
	options := make([]schema.Option, 0, len(values))
	for _, value := range values {
		if value == nil {
			continue
		}
		text := stringify(value)
		options = append(options, schema.Option{Value: text, Label: i.labeler(text)})
	}
	return options
}

func isType(s *openapi3.Schema, typ string) bool {
	if s == nil || s.Type == nil {
		return false
	}
	for _, candidate := range s.Type.Slice() {
		if candidate == typ {
			return true
		}
	}
	return false
}

func typeName(s *openapi3.Schema) string {
	if s == nil || s.Type == nil {
		return ""
	}
	return strings.Join(s.Type.Slice(), ",")
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, stringify(item))
		}
		return schema.JoinSelection(parts)
	default:
		return fmt.Sprint(v)
	}
}

func cloneFloat(in *float64) *float64 {
	if in == nil {
		return nil
	}
	value := *in
	return &value
}

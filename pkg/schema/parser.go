package schema

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyInput    = errors.New("schema: input is empty")
	ErrSyntax        = errors.New("schema: invalid syntax")
	ErrNotObject     = errors.New("schema: document must be an object")
	ErrMissingTitle  = errors.New("schema: title must be a non-empty string")
	ErrMissingFields = errors.New("schema: fields must be a list")
	ErrDuplicateKey  = errors.New("schema: duplicate field key")
)

// ParseError describes why a schema document was rejected. It unwraps to one
// of the Err* sentinels and, for syntax failures, the decoder error.
type ParseError struct {
	Err    error
	Detail string
	Cause  error
}

func (e *ParseError) Error() string {
	if e == nil || e.Err == nil {
		return "schema: parse failed"
	}
	msg := e.Err.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() []error {
	if e == nil {
		return nil
	}
	out := []error{e.Err}
	if e.Cause != nil {
		out = append(out, e.Cause)
	}
	return out
}

// Format selects the structured-data notation accepted by a Parser.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	// FormatAuto tries JSON first and falls back to YAML.
	FormatAuto Format = "auto"
)

// FormatFromPath picks a format from a file extension. Unknown extensions use
// FormatAuto.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatAuto
	}
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithFormat overrides the accepted notation. Empty values are ignored.
func WithFormat(format Format) ParserOption {
	return func(p *Parser) {
		if format != "" {
			p.format = format
		}
	}
}

// Parser turns schema text into a FormSchema. It holds no state between calls
// and is safe for concurrent use.
type Parser struct {
	format Format
}

// NewParser constructs a Parser. The default notation is JSON.
func NewParser(options ...ParserOption) *Parser {
	p := &Parser{format: FormatJSON}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	return p
}

// Format reports the notation accepted by the parser.
func (p *Parser) Format() Format {
	if p == nil || p.format == "" {
		return FormatJSON
	}
	return p.format
}

var defaultParser = NewParser()

// Parse decodes JSON schema text with the default parser.
func Parse(text string) (FormSchema, error) {
	return defaultParser.Parse(text)
}

// Parse decodes text into a FormSchema. The document must carry a non-empty
// title and a fields list; field entries are otherwise decoded leniently and
// entries that cannot be decoded are recorded in FormSchema.Skipped. On error
// the returned schema is the zero value and must not be adopted.
func (p *Parser) Parse(text string) (FormSchema, error) {
	if strings.TrimSpace(text) == "" {
		return FormSchema{}, &ParseError{Err: ErrEmptyInput}
	}

	raw, err := p.decode([]byte(text))
	if err != nil {
		return FormSchema{}, &ParseError{Err: ErrSyntax, Cause: err}
	}

	doc, ok := normaliseNode(raw).(map[string]any)
	if !ok {
		return FormSchema{}, &ParseError{Err: ErrNotObject}
	}

	title, ok := doc["title"].(string)
	if !ok || title == "" {
		return FormSchema{}, &ParseError{Err: ErrMissingTitle}
	}

	entries, ok := doc["fields"].([]any)
	if !ok {
		return FormSchema{}, &ParseError{Err: ErrMissingFields}
	}

	form := FormSchema{
		Title:  title,
		Fields: make([]FieldConfig, 0, len(entries)),
	}
	seen := make(map[string]int, len(entries))
	for idx, entry := range entries {
		field, err := decodeField(entry)
		if err != nil {
			form.Skipped = append(form.Skipped, SkippedField{Index: idx, Error: err.Error()})
			continue
		}
		if first, exists := seen[field.Key]; exists {
			return FormSchema{}, &ParseError{
				Err:    ErrDuplicateKey,
				Detail: fmt.Sprintf("key %q used by fields %d and %d", field.Key, first, idx),
			}
		}
		seen[field.Key] = idx
		form.Fields = append(form.Fields, field)
	}

	return form, nil
}

func (p *Parser) decode(data []byte) (any, error) {
	switch p.Format() {
	case FormatYAML:
		return decodeYAML(data)
	case FormatAuto:
		if out, err := decodeJSON(data); err == nil {
			return out, nil
		}
		out, err := decodeYAML(data)
		if err != nil {
			return nil, errors.New("invalid JSON or YAML")
		}
		return out, nil
	default:
		return decodeJSON(data)
	}
}

func decodeJSON(data []byte) (any, error) {
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeYAML(data []byte) (any, error) {
	var out any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// decodeField round-trips a generic node through JSON so both notations share
// the FieldConfig struct tags.
func decodeField(node any) (FieldConfig, error) {
	if _, ok := node.(map[string]any); !ok {
		return FieldConfig{}, errors.New("field entry must be an object")
	}
	payload, err := json.Marshal(node)
	if err != nil {
		return FieldConfig{}, err
	}
	var field FieldConfig
	if err := json.Unmarshal(payload, &field); err != nil {
		return FieldConfig{}, err
	}
	return field, nil
}

// normaliseNode converts YAML maps keyed by arbitrary scalars into
// map[string]any so JSON and YAML documents share one shape.
func normaliseNode(node any) any {
	switch typed := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, value := range typed {
			out[key] = normaliseNode(value)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, value := range typed {
			out[fmt.Sprint(key)] = normaliseNode(value)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, value := range typed {
			out[i] = normaliseNode(value)
		}
		return out
	default:
		return typed
	}
}

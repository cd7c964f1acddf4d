package schema

import "strings"

// FieldType is the variant tag of a FieldConfig.
type FieldType string

const (
	FieldTypeText   FieldType = "text"
	FieldTypeSelect FieldType = "select"
	FieldTypeRadio  FieldType = "radio"
)

// Known reports whether the tag names one of the supported variants. Unknown
// variants survive parsing but are ignored by validation, seeding and
// rendering.
func (t FieldType) Known() bool {
	switch t {
	case FieldTypeText, FieldTypeSelect, FieldTypeRadio:
		return true
	default:
		return false
	}
}

// Option is a single value/label pair offered by select and radio fields.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// ValidatorConfig holds the optional rules evaluated against a field value.
// Length bounds are inclusive. Min and Max are carried for schema authors but
// the validation engine does not evaluate them.
type ValidatorConfig struct {
	Required  bool     `json:"required,omitempty" yaml:"required,omitempty"`
	MinLength *int     `json:"minLength,omitempty" yaml:"minLength,omitempty" jsonschema:"minimum=0"`
	MaxLength *int     `json:"maxLength,omitempty" yaml:"maxLength,omitempty" jsonschema:"minimum=0"`
	Min       *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Pattern   string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

// HasLengthBounds reports whether either length bound is configured.
func (v *ValidatorConfig) HasLengthBounds() bool {
	return v != nil && (v.MinLength != nil || v.MaxLength != nil)
}

// FieldConfig is the declarative definition of one form field. The struct is
// flat: variant specific attributes (Pattern for text, Children for select and
// radio, Multiple for radio) are ignored by variants that do not use them.
type FieldConfig struct {
	ID           string           `json:"id" yaml:"id"`
	Type         FieldType        `json:"type" yaml:"type" jsonschema:"enum=text,enum=select,enum=radio"`
	Label        string           `json:"label" yaml:"label"`
	Key          string           `json:"key" yaml:"key"`
	Validation   *ValidatorConfig `json:"validation,omitempty" yaml:"validation,omitempty"`
	DefaultValue *string          `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Pattern      string           `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Children     []Option         `json:"children,omitempty" yaml:"children,omitempty"`
	Multiple     bool             `json:"multiple,omitempty" yaml:"multiple,omitempty"`
}

// Required reports whether the field carries a required rule.
func (f FieldConfig) Required() bool {
	return f.Validation != nil && f.Validation.Required
}

// HasOptions reports whether the variant renders an option list.
func (f FieldConfig) HasOptions() bool {
	return f.Type == FieldTypeSelect || f.Type == FieldTypeRadio
}

// IsMultiSelect reports whether the field stores a comma-joined selection.
func (f FieldConfig) IsMultiSelect() bool {
	return f.Type == FieldTypeRadio && f.Multiple
}

// DefaultOrEmpty returns the configured default value or the empty string.
func (f FieldConfig) DefaultOrEmpty() string {
	if f.DefaultValue == nil {
		return ""
	}
	return *f.DefaultValue
}

// SkippedField records a field entry that could not be decoded. The parser
// keeps going so one malformed entry does not reject the whole document.
type SkippedField struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// FormSchema is an immutable parsed schema. A new instance replaces the old one
// wholesale on every successful parse.
type FormSchema struct {
	Title   string         `json:"title" yaml:"title" jsonschema:"minLength=1"`
	Fields  []FieldConfig  `json:"fields" yaml:"fields"`
	Skipped []SkippedField `json:"-" yaml:"-"`
}

// Keys lists field keys in schema order.
func (s FormSchema) Keys() []string {
	keys := make([]string, 0, len(s.Fields))
	for _, field := range s.Fields {
		keys = append(keys, field.Key)
	}
	return keys
}

// Field looks up a field by key.
func (s FormSchema) Field(key string) (FieldConfig, bool) {
	for _, field := range s.Fields {
		if field.Key == key {
			return field, true
		}
	}
	return FieldConfig{}, false
}

// OptionLabel resolves the display label for an option value, falling back to
// the value itself.
func (f FieldConfig) OptionLabel(value string) string {
	for _, option := range f.Children {
		if option.Value == value {
			if strings.TrimSpace(option.Label) != "" {
				return option.Label
			}
			break
		}
	}
	return value
}

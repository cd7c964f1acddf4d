// Package validation evaluates field rules of a parsed form schema against a
// value snapshot and projects the resulting violations into an error map.
package validation

import (
	"regexp"
	"sync"
	"unicode/utf8"

	"github.com/KailasMahavarkar/form-builder/pkg/schema"
)

// Violation messages.
const (
	MessageRequired       = "Field is required"
	MessageTooShort       = "Field is too short"
	MessageTooLong        = "Field is too long"
	MessagePattern        = "Field does not match pattern"
	MessageInvalidPattern = "Field pattern is invalid"
)

// Violation is a single failed rule for a field key.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator evaluates schemas against values. Compiled patterns are cached;
// the cache never changes results. The zero value is ready to use and a
// Validator is safe for concurrent use.
type Validator struct {
	mu       sync.RWMutex
	patterns map[string]compiledPattern
}

type compiledPattern struct {
	re  *regexp.Regexp
	err error
}

// NewValidator returns an empty Validator.
func NewValidator() *Validator {
	return &Validator{}
}

var defaultValidator = NewValidator()

// Validate evaluates every field of form with the shared validator.
func Validate(form schema.FormSchema, values map[string]string) []Violation {
	return defaultValidator.Validate(form, values)
}

// ValidateField evaluates the field stored under key with the shared validator.
func ValidateField(form schema.FormSchema, key string, values map[string]string) []Violation {
	return defaultValidator.ValidateField(form, key, values)
}

// Validate evaluates fields in schema order and returns the violations found.
// The result is empty (nil) when every rule passes.
func (v *Validator) Validate(form schema.FormSchema, values map[string]string) []Violation {
	var out []Violation
	for _, field := range form.Fields {
		out = v.appendField(out, field, values)
	}
	return out
}

// ValidateField evaluates only the field stored under key. Unknown keys yield
// no violations.
func (v *Validator) ValidateField(form schema.FormSchema, key string, values map[string]string) []Violation {
	var out []Violation
	for _, field := range form.Fields {
		if field.Key == key {
			out = v.appendField(out, field, values)
		}
	}
	return out
}

func (v *Validator) appendField(out []Violation, field schema.FieldConfig, values map[string]string) []Violation {
	if !field.Type.Known() || field.Validation == nil {
		return out
	}
	rules := field.Validation
	value := ResolveValue(field, values)

	if rules.Required && value == "" {
		return append(out, Violation{Field: field.Key, Message: MessageRequired})
	}

	if rules.HasLengthBounds() {
		length := utf8.RuneCountInString(value)
		switch {
		case rules.MinLength != nil && length < *rules.MinLength:
			out = append(out, Violation{Field: field.Key, Message: MessageTooShort})
		case rules.MaxLength != nil && length > *rules.MaxLength:
			out = append(out, Violation{Field: field.Key, Message: MessageTooLong})
		}
	}

	if rules.Pattern != "" {
		re, err := v.compile(rules.Pattern)
		switch {
		case err != nil:
			out = append(out, Violation{Field: field.Key, Message: MessageInvalidPattern})
		case !re.MatchString(value):
			out = append(out, Violation{Field: field.Key, Message: MessagePattern})
		}
	}

	return out
}

func (v *Validator) compile(pattern string) (*regexp.Regexp, error) {
	v.mu.RLock()
	cached, ok := v.patterns[pattern]
	v.mu.RUnlock()
	if ok {
		return cached.re, cached.err
	}

	re, err := regexp.Compile(pattern)

	v.mu.Lock()
	if v.patterns == nil {
		v.patterns = make(map[string]compiledPattern)
	}
	v.patterns[pattern] = compiledPattern{re: re, err: err}
	v.mu.Unlock()
	return re, err
}

// ResolveValue returns the stored value when the key is present, otherwise the
// field default, otherwise the empty string. A stored empty string is present
// and does not fall back to the default.
func ResolveValue(field schema.FieldConfig, values map[string]string) string {
	if value, ok := values[field.Key]; ok {
		return value
	}
	return field.DefaultOrEmpty()
}

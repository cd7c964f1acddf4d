package render

import (
	"github.com/KailasMahavarkar/form-builder/pkg/form"
)

// FieldError pairs a field with its projected error message.
type FieldError struct {
	Key     string
	Label   string
	Message string
}

// SummarizeErrors lists field errors in schema order. Errors recorded for keys
// the current schema does not render are left out.
func SummarizeErrors(view form.View) []FieldError {
	if len(view.Errors) == 0 {
		return nil
	}
	out := make([]FieldError, 0, len(view.Errors))
	for _, field := range view.Fields {
		if !field.HasError {
			continue
		}
		label := field.Label
		if label == "" {
			label = field.Key
		}
		out = append(out, FieldError{Key: field.Key, Label: label, Message: field.Error})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// DisplayLabel returns the field label, falling back to its key.
func DisplayLabel(field form.FieldView) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Key
}

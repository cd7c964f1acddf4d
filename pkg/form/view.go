package form

import (
	"github.com/KailasMahavarkar/form-builder/pkg/schema"
	"github.com/KailasMahavarkar/form-builder/pkg/validation"
)

// FieldView is the renderer input for one known field.
type FieldView struct {
	ID       string           `json:"id"`
	Key      string           `json:"key"`
	Label    string           `json:"label"`
	Type     schema.FieldType `json:"type"`
	Required bool             `json:"required"`
	Value    string           `json:"value"`
	Error    string           `json:"error,omitempty"`
	HasError bool             `json:"hasError"`
	Options  []schema.Option  `json:"options,omitempty"`
	Multiple bool             `json:"multiple,omitempty"`
	Selected []string         `json:"selected,omitempty"`
	Pattern  string           `json:"pattern,omitempty"`
}

// IsSelected reports whether value is part of the current selection.
func (f FieldView) IsSelected(value string) bool {
	for _, selected := range f.Selected {
		if selected == value {
			return true
		}
	}
	return false
}

// View is a read-only snapshot of a controller for renderers and hosts.
type View struct {
	Title       string            `json:"title"`
	SchemaText  string            `json:"schemaText"`
	SchemaValid bool              `json:"schemaValid"`
	SchemaError string            `json:"schemaError,omitempty"`
	Fields      []FieldView       `json:"fields"`
	Values      map[string]string `json:"values"`
	Errors      map[string]string `json:"errors"`
}

// Field looks up a field view by key.
func (v View) Field(key string) (FieldView, bool) {
	for _, field := range v.Fields {
		if field.Key == key {
			return field, true
		}
	}
	return FieldView{}, false
}

// Clean reports whether the schema parsed and no field carries an error.
func (v View) Clean() bool {
	return v.SchemaValid && len(v.Errors) == 0
}

func buildFieldView(field schema.FieldConfig, values, errs map[string]string) FieldView {
	value := validation.ResolveValue(field, values)
	message, hasError := errs[field.Key]
	view := FieldView{
		ID:       field.ID,
		Key:      field.Key,
		Label:    field.Label,
		Type:     field.Type,
		Required: field.Required(),
		Value:    value,
		Error:    message,
		HasError: hasError,
	}
	switch field.Type {
	case schema.FieldTypeText:
		view.Pattern = field.Pattern
	case schema.FieldTypeSelect, schema.FieldTypeRadio:
		view.Options = append([]schema.Option(nil), field.Children...)
		view.Multiple = field.IsMultiSelect()
		view.Selected = selection(value, view.Multiple)
	}
	return view
}

func selection(value string, multiple bool) []string {
	if multiple {
		return schema.SplitSelection(value)
	}
	if value == "" {
		return []string{}
	}
	return []string{value}
}

package render

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// HiddenField is a hidden input emitted next to the schema fields.
type HiddenField struct {
	Name  string
	Value string
}

// SessionFieldName is the hidden input holding the server session id.
const SessionFieldName = "_session"

// Hidden builds a hidden field, formatting value with fmt.Sprint.
func Hidden(name string, value any) HiddenField {
	return HiddenField{Name: strings.TrimSpace(name), Value: fmt.Sprint(value)}
}

// SessionField routes a form post back to the session that rendered it.
func SessionField(id string) HiddenField {
	return Hidden(SessionFieldName, id)
}

// MergeHiddenFields copies base and applies fields on top. Blank names are
// dropped and a nil map is returned when nothing remains.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	out := make(map[string]string, len(base)+len(fields))
	for name, value := range base {
		if name = strings.TrimSpace(name); name != "" {
			out[name] = value
		}
	}
	for _, field := range fields {
		if name := strings.TrimSpace(field.Name); name != "" {
			out[name] = field.Value
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields lists fields by name.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	clean := MergeHiddenFields(fields)
	if clean == nil {
		return nil
	}
	out := make([]HiddenField, 0, len(clean))
	for _, name := range slices.Sorted(maps.Keys(clean)) {
		out = append(out, HiddenField{Name: name, Value: clean[name]})
	}
	return out
}

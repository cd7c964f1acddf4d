package schema

import (
	"fmt"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Encode renders form as schema text in the given format. FormatAuto encodes
// JSON. The result parses back into an equivalent schema.
func Encode(form FormSchema, format Format) ([]byte, error) {
	if form.Fields == nil {
		form.Fields = []FieldConfig{}
	}
	switch format {
	case FormatYAML:
		out, err := yaml.Marshal(form)
		if err != nil {
			return nil, fmt.Errorf("schema: encode yaml: %w", err)
		}
		return out, nil
	default:
		out, err := json.MarshalIndent(form, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("schema: encode json: %w", err)
		}
		return append(out, '\n'), nil
	}
}

package openapi

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/KailasMahavarkar/form-builder/pkg/schema"
)

// DefaultStandaloneTitle titles forms built from a JSON Schema without a title.
const DefaultStandaloneTitle = "Form"

// ImportJSONSchema builds a form from a standalone JSON Schema object (JSON or
// YAML). Local references are not followed; properties using $ref are
// reported as skipped.
func (i *Importer) ImportJSONSchema(ctx context.Context, raw []byte) (schema.FormSchema, error) {
	if err := ctx.Err(); err != nil {
		return schema.FormSchema{}, err
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return schema.FormSchema{}, ErrEmptyDocument
	}

	data, err := toJSON(raw)
	if err != nil {
		return schema.FormSchema{}, err
	}
	var body openapi3.Schema
	if err := json.Unmarshal(data, &body); err != nil {
		return schema.FormSchema{}, fmt.Errorf("openapi: decode json schema: %w", err)
	}
	if !isType(&body, openapi3.TypeObject) && len(body.Properties) == 0 {
		return schema.FormSchema{}, ErrBodyNotObject
	}

	title := strings.TrimSpace(body.Title)
	if title == "" {
		title = DefaultStandaloneTitle
	}
	return i.formFromSchema(title, &body), nil
}

func toJSON(raw []byte) ([]byte, error) {
	if json.Valid(raw) {
		return raw, nil
	}
	var node any
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("openapi: decode json schema: %w", err)
	}
	if _, ok := node.(map[string]any); !ok {
		return nil, errors.New("openapi: json schema must be an object")
	}
	data, err := json.Marshal(node)
	if err != nil {
		return nil, fmt.Errorf("openapi: decode json schema: %w", err)
	}
	return data, nil
}

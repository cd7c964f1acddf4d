// Package testsupport bundles fixture helpers shared by package tests.
package testsupport

import (
	"context"
	"testing"

	"github.com/KailasMahavarkar/form-builder/pkg/form"
)

// SignupSchema exercises every field variant and rule.
const SignupSchema = `{
  "title": "Signup",
  "fields": [
    {"id": "f1", "type": "text", "label": "Username", "key": "username",
     "validation": {"required": true, "minLength": 3, "maxLength": 12}},
    {"id": "f2", "type": "text", "label": "Email", "key": "email", "pattern": ".+@.+",
     "validation": {"required": true, "pattern": "@"}},
    {"id": "f3", "type": "select", "label": "Plan", "key": "plan", "defaultValue": "free",
     "children": [{"value": "free", "label": "Free"}, {"value": "pro", "label": "Pro"}],
     "validation": {"required": true}},
    {"id": "f4", "type": "radio", "label": "Topics", "key": "topics", "multiple": true,
     "children": [{"value": "go", "label": "Go"}, {"value": "web", "label": "Web"}, {"value": "ops", "label": "Ops"}]}
  ]
}`

// NewController builds a controller from schema text.
func NewController(t *testing.T, text string, opts ...form.Option) *form.Controller {
	t.Helper()
	c, err := form.NewFromText(text, opts...)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return c
}

// SignupView returns the view of a signup controller after applying edits.
func SignupView(t *testing.T, edits map[string]string) form.View {
	t.Helper()
	c := NewController(t, SignupSchema)
	for key, value := range edits {
		c.EditFieldValue(key, value)
	}
	return c.View()
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

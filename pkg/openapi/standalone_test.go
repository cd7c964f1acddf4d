package openapi_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/KailasMahavarkar/form-builder/pkg/openapi"
	"github.com/KailasMahavarkar/form-builder/pkg/schema"
)

const profileSchema = `
title: Profile
type: object
required: [display_name]
properties:
  display_name:
    type: string
    maxLength: 20
  locale:
    type: string
    enum: [en, de]
    default: en
  address:
    $ref: "#/$defs/address"
`

func TestImporter_ImportJSONSchema(t *testing.T) {
	form, err := openapi.New().ImportJSONSchema(context.Background(), []byte(profileSchema))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if form.Title != "Profile" {
		t.Fatalf("unexpected title %q", form.Title)
	}
	if diff := cmp.Diff([]string{"display_name", "locale"}, form.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	locale, _ := form.Field("locale")
	if locale.Type != schema.FieldTypeSelect || locale.DefaultOrEmpty() != "en" {
		t.Fatalf("unexpected locale field %+v", locale)
	}
	if len(form.Skipped) != 1 || form.Skipped[0].Index != 0 {
		t.Fatalf("expected address to be skipped, got %+v", form.Skipped)
	}
}

func TestImporter_ImportJSONSchemaJSONInput(t *testing.T) {
	form, err := openapi.New().ImportJSONSchema(context.Background(), []byte(`{"properties": {"nick": {"type": "string"}}}`))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if form.Title != openapi.DefaultStandaloneTitle || len(form.Fields) != 1 {
		t.Fatalf("unexpected form %+v", form)
	}
}

func TestImporter_ImportJSONSchemaErrors(t *testing.T) {
	importer := openapi.New()
	if _, err := importer.ImportJSONSchema(context.Background(), []byte("  ")); !errors.Is(err, openapi.ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
	if _, err := importer.ImportJSONSchema(context.Background(), []byte(`{"type": "string"}`)); !errors.Is(err, openapi.ErrBodyNotObject) {
		t.Fatalf("expected ErrBodyNotObject, got %v", err)
	}
}

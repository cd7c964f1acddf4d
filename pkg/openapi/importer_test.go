package openapi_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/KailasMahavarkar/form-builder/pkg/openapi"
	"github.com/KailasMahavarkar/form-builder/pkg/schema"
	"github.com/KailasMahavarkar/form-builder/pkg/validation"
)

const petstore = `
openapi: 3.0.3
info:
  title: Accounts
  version: 1.0.0
paths:
  /accounts:
    get:
      operationId: listAccounts
      responses:
        "200":
          description: ok
    post:
      operationId: createAccount
      summary: Create account
      requestBody:
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Account'
      responses:
        "201":
          description: created
  /accounts/{id}/notes:
    put:
      requestBody:
        content:
          application/json:
            schema:
              type: object
              properties:
                body:
                  type: string
      responses:
        "204":
          description: updated
components:
  schemas:
    Account:
      type: object
      required: [user_name, plan]
      properties:
        user_name:
          type: string
          minLength: 3
          maxLength: 12
          pattern: '^[a-z]+$'
        plan:
          type: string
          enum: [free, pro]
          default: free
        topics:
          type: array
          items:
            type: string
            enum: [go, web]
          default: [go]
        newsletter:
          type: boolean
          title: Send newsletter
        seats:
          type: integer
          minimum: 1
        id:
          type: string
          readOnly: true
        address:
          type: object
`

func TestImporter_FormFromOperation(t *testing.T) {
	form, err := openapi.New().Import(context.Background(), []byte(petstore), "createAccount")
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if form.Title != "Create account" {
		t.Fatalf("unexpected title %q", form.Title)
	}
	if diff := cmp.Diff([]string{"newsletter", "plan", "seats", "topics", "user_name"}, form.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}

	user, _ := form.Field("user_name")
	if user.Type != schema.FieldTypeText || user.Label != "User Name" || user.Pattern != "^[a-z]+$" {
		t.Fatalf("unexpected user_name field %+v", user)
	}
	if !user.Required() || *user.Validation.MinLength != 3 || *user.Validation.MaxLength != 12 {
		t.Fatalf("unexpected user_name rules %+v", user.Validation)
	}

	plan, _ := form.Field("plan")
	wantPlan := []schema.Option{{Value: "free", Label: "Free"}, {Value: "pro", Label: "Pro"}}
	if diff := cmp.Diff(wantPlan, plan.Children); diff != "" {
		t.Fatalf("plan options mismatch (-want +got):\n%s", diff)
	}
	if plan.Type != schema.FieldTypeSelect || plan.DefaultOrEmpty() != "free" || !plan.Required() {
		t.Fatalf("unexpected plan field %+v", plan)
	}

	topics, _ := form.Field("topics")
	if topics.Type != schema.FieldTypeRadio || !topics.Multiple || topics.DefaultOrEmpty() != "go" {
		t.Fatalf("unexpected topics field %+v", topics)
	}

	newsletter, _ := form.Field("newsletter")
	if newsletter.Label != "Send newsletter" || len(newsletter.Children) != 2 {
		t.Fatalf("unexpected newsletter field %+v", newsletter)
	}

	seats, _ := form.Field("seats")
	if seats.Validation == nil || seats.Validation.Min == nil || *seats.Validation.Min != 1 {
		t.Fatalf("expected seats minimum to be carried, got %+v", seats.Validation)
	}

	if len(form.Skipped) != 2 ||
		!strings.Contains(form.Skipped[0].Error, `property "address"`) ||
		!strings.Contains(form.Skipped[1].Error, `property "id": read-only`) {
		t.Fatalf("expected address and id to be skipped, got %+v", form.Skipped)
	}
}

func TestImporter_ImportedFormValidates(t *testing.T) {
	form, err := openapi.New().Import(context.Background(), []byte(petstore), "createAccount")
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	values := map[string]string{"user_name": "Ab", "plan": "free", "seats": "two"}
	got := validation.Project(validation.Validate(form, values))
	want := map[string]string{
		"user_name": validation.MessageTooShort,
		"seats":     validation.MessagePattern,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestImporter_RoundTripsThroughParser(t *testing.T) {
	form, err := openapi.New().Import(context.Background(), []byte(petstore), "createAccount")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	text, err := schema.Encode(form, schema.FormatJSON)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	parsed, err := schema.Parse(string(text))
	if err != nil {
		t.Fatalf("parse encoded form: %v\n%s", err, text)
	}
	if diff := cmp.Diff(form.Fields, parsed.Fields); diff != "" {
		t.Fatalf("fields mismatch after round trip (-want +got):\n%s", diff)
	}
}

func TestDocument_Operations(t *testing.T) {
	doc, err := openapi.New().Load(context.Background(), []byte(petstore))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []openapi.Operation{
		{ID: "listAccounts", Method: "GET", Path: "/accounts"},
		{ID: "createAccount", Method: "POST", Path: "/accounts", Summary: "Create account", HasBody: true},
		{ID: "put:/accounts/{id}/notes", Method: "PUT", Path: "/accounts/{id}/notes", HasBody: true},
	}
	if diff := cmp.Diff(want, doc.Operations()); diff != "" {
		t.Fatalf("operations mismatch (-want +got):\n%s", diff)
	}

	form, err := doc.Form("put:/accounts/{id}/notes")
	if err != nil {
		t.Fatalf("form by method:path: %v", err)
	}
	if form.Title != "PUT /accounts/{id}/notes" || len(form.Fields) != 1 {
		t.Fatalf("unexpected form %+v", form)
	}
}

func TestImporter_Errors(t *testing.T) {
	importer := openapi.New()
	ctx := context.Background()

	if _, err := importer.Import(ctx, nil, "x"); !errors.Is(err, openapi.ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
	if _, err := importer.Import(ctx, []byte(petstore), "missing"); !errors.Is(err, openapi.ErrOperationNotFound) {
		t.Fatalf("expected ErrOperationNotFound, got %v", err)
	}
	if _, err := importer.Import(ctx, []byte(petstore), "listAccounts"); !errors.Is(err, openapi.ErrNoRequestBody) {
		t.Fatalf("expected ErrNoRequestBody, got %v", err)
	}
	if _, err := importer.Import(ctx, []byte("openapi: [broken"), "x"); err == nil {
		t.Fatalf("expected malformed document to fail")
	}
}

func TestDefaultLabeler(t *testing.T) {
	cases := map[string]string{
		"firstName": "First Name",
		"user_name": "User Name",
		"api-key":   "Api Key",
		"address2":  "Address 2",
		"":          "",
	}
	for input, want := range cases {
		if got := openapi.DefaultLabeler(input); got != want {
			t.Fatalf("DefaultLabeler(%q) = %q, want %q", input, got, want)
		}
	}
}

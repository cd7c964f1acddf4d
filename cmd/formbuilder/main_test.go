package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/KailasMahavarkar/form-builder/pkg/renderers/tui"
	"github.com/KailasMahavarkar/form-builder/pkg/schema"
	"github.com/KailasMahavarkar/form-builder/pkg/testsupport"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestValidateCommand_ReportsErrorsInSchemaOrder(t *testing.T) {
	path := writeFile(t, "signup.json", testsupport.SignupSchema)

	out, err := execute(t, "validate", path, "--set", "username=ab")
	if !errors.Is(err, errInvalid) {
		t.Fatalf("expected errInvalid, got %v", err)
	}
	want := "username: Field is too short\nemail: Field is required\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateCommand_JSONWithValuesFile(t *testing.T) {
	path := writeFile(t, "signup.json", testsupport.SignupSchema)
	values := writeFile(t, "values.yaml", "username: alice\nemail: alice@example.com\ntopics: [go, ops]\n")

	out, err := execute(t, "validate", path, "--values", values, "--output", "json")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	var report validateReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	want := validateReport{
		Valid: true,
		Values: map[string]string{
			"username": "alice",
			"email":    "alice@example.com",
			"plan":     "free",
			"topics":   "go,ops",
		},
		Errors: map[string]string{},
	}
	if diff := cmp.Diff(want, report); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateCommand_DefaultSchema(t *testing.T) {
	out, err := execute(t, "validate")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if out != "ok\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestLintCommand(t *testing.T) {
	clean := writeFile(t, "clean.json", testsupport.SignupSchema)
	if out, err := execute(t, "lint", clean); err != nil || out != "ok\n" {
		t.Fatalf("expected clean lint, got %q (%v)", out, err)
	}

	broken := writeFile(t, "broken.json", `{
  "title": "Broken",
  "fields": [
    {"id": "a", "type": "text", "label": "A", "key": "name"},
    {"id": "b", "type": "date", "label": "B", "key": "born"}
  ]
}`)
	out, err := execute(t, "lint", broken)
	if !errors.Is(err, errInvalid) {
		t.Fatalf("expected errInvalid, got %v", err)
	}
	if !strings.Contains(out, "error: fields[1] (born): unknown type") {
		t.Fatalf("expected unknown type issue, got %q", out)
	}
}

func TestRenderCommand(t *testing.T) {
	path := writeFile(t, "signup.yaml", `title: Signup
fields:
  - id: f1
    type: text
    label: Username
    key: username
    validation:
      required: true
      minLength: 3
`)

	out, err := execute(t, "render", path, "--renderer", "tui", "--set", "username=ab")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, fragment := range []string{"Signup", "Username * [text]: ab", "! Field is too short"} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in output:\n%s", fragment, out)
		}
	}

	target := filepath.Join(t.TempDir(), "preview.html")
	if _, err := execute(t, "render", path, "--variant", "dark", "-o", target); err != nil {
		t.Fatalf("render html: %v", err)
	}
	page, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read preview: %v", err)
	}
	if !strings.Contains(string(page), `data-theme-variant="dark"`) {
		t.Fatalf("expected themed page:\n%s", page)
	}
}

func TestRenderCommand_UnknownRenderer(t *testing.T) {
	if _, err := execute(t, "render", "--renderer", "pdf"); err == nil {
		t.Fatalf("expected unknown renderer to fail")
	}
}

const accountsAPI = `openapi: 3.0.3
info:
  title: Accounts
  version: 1.0.0
paths:
  /accounts:
    post:
      operationId: createAccount
      summary: Create account
      requestBody:
        content:
          application/json:
            schema:
              type: object
              required: [user_name]
              properties:
                user_name:
                  type: string
                  minLength: 3
                plan:
                  type: string
                  enum: [free, pro]
                  default: free
      responses:
        "201":
          description: created
    get:
      operationId: listAccounts
      responses:
        "200":
          description: ok
`

func TestImportCommand(t *testing.T) {
	path := writeFile(t, "accounts.yaml", accountsAPI)

	out, err := execute(t, "import", path, "--list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "createAccount") || !strings.Contains(out, "listAccounts") {
		t.Fatalf("unexpected listing:\n%s", out)
	}

	out, err = execute(t, "import", path, "--operation", "createAccount", "--format", "yaml")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	form, err := schema.NewParser(schema.WithFormat(schema.FormatYAML)).Parse(out)
	if err != nil {
		t.Fatalf("parse imported schema: %v\n%s", err, out)
	}
	if diff := cmp.Diff([]string{"plan", "user_name"}, form.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if form.Title != "Create account" {
		t.Fatalf("unexpected title %q", form.Title)
	}

	if _, err := execute(t, "import", path); err == nil {
		t.Fatalf("expected missing operation to fail")
	}
}

func TestJSONSchemaCommand(t *testing.T) {
	out, err := execute(t, "jsonschema")
	if err != nil {
		t.Fatalf("jsonschema: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := doc["$schema"]; !ok {
		t.Fatalf("expected $schema in document:\n%s", out)
	}
}

func TestSchemaPreview_KeepsLastGoodSchema(t *testing.T) {
	preview := &schemaPreview{
		parser:   schema.NewParser(),
		values:   map[string]string{"username": "ab"},
		renderer: tui.New(),
		logger:   func(string, ...any) {},
	}
	ctx := context.Background()

	out, err := preview.update(ctx, `{"title": `)
	if err != nil || !strings.HasPrefix(string(out), "waiting for a valid schema") {
		t.Fatalf("expected waiting message, got %q (%v)", out, err)
	}

	if _, err := preview.update(ctx, testsupport.SignupSchema); err != nil {
		t.Fatalf("update: %v", err)
	}
	out, err = preview.update(ctx, `{"title": `)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	for _, fragment := range []string{"Schema: invalid", "Username * [text]: ab"} {
		if !strings.Contains(string(out), fragment) {
			t.Fatalf("expected %q in snapshot:\n%s", fragment, out)
		}
	}
}

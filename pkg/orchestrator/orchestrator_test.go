package orchestrator_test

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	internalLoader "github.com/KailasMahavarkar/form-builder/internal/source/loader"
	"github.com/KailasMahavarkar/form-builder/pkg/orchestrator"
	"github.com/KailasMahavarkar/form-builder/pkg/render"
	"github.com/KailasMahavarkar/form-builder/pkg/renderers/html"
	"github.com/KailasMahavarkar/form-builder/pkg/schema"
	"github.com/KailasMahavarkar/form-builder/pkg/source"
	"github.com/KailasMahavarkar/form-builder/pkg/testsupport"
	"github.com/KailasMahavarkar/form-builder/pkg/validation"
)

const yamlSchema = `
title: Signup
fields:
  - id: f1
    type: text
    key: username
    label: Username
    validation:
      required: true
      minLength: 3
`

func fsOrchestrator(opts ...orchestrator.Option) *orchestrator.Orchestrator {
	files := fstest.MapFS{
		"signup.json": {Data: []byte(testsupport.SignupSchema)},
		"signup.yaml": {Data: []byte(yamlSchema)},
	}
	loader := internalLoader.New(source.NewLoaderOptions(source.WithFileSystem(files)))
	return orchestrator.New(append([]orchestrator.Option{orchestrator.WithLoader(loader)}, opts...)...)
}

func TestOrchestrator_GenerateDefaultRenderer(t *testing.T) {
	orch := fsOrchestrator()

	out, err := orch.Generate(testsupport.Context(), orchestrator.Request{
		Source: source.FromFS("signup.json"),
		Values: map[string]string{"username": "ab"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	page := string(out)
	for _, fragment := range []string{`<h1 class="fb-title">Signup</h1>`, `>Field is too short</p>`} {
		if !strings.Contains(page, fragment) {
			t.Fatalf("expected page to contain %q", fragment)
		}
	}
	if strings.Contains(page, validation.MessageRequired) {
		t.Fatalf("expected untouched fields to stay clean without Validate")
	}
}

func TestOrchestrator_ValidateShowsEveryError(t *testing.T) {
	orch := fsOrchestrator()

	ctrl, err := orch.Controller(testsupport.Context(), orchestrator.Request{
		Source:   source.FromFS("signup.json"),
		Values:   map[string]string{"username": "alice"},
		Validate: true,
	})
	if err != nil {
		t.Fatalf("controller: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"email": validation.MessageRequired}, ctrl.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestOrchestrator_ParserFollowsExtension(t *testing.T) {
	orch := fsOrchestrator()

	out, err := orch.Generate(testsupport.Context(), orchestrator.Request{
		Source:   source.FromFS("signup.yaml"),
		Renderer: "tui",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(string(out), "Signup\n======\nSchema: valid") {
		t.Fatalf("unexpected text output:\n%s", out)
	}
}

func TestOrchestrator_SchemaTextAndDefaults(t *testing.T) {
	orch := orchestrator.New()

	ctrl, err := orch.Controller(testsupport.Context(), orchestrator.Request{})
	if err != nil {
		t.Fatalf("controller: %v", err)
	}
	if ctrl.Schema().Title != "Dynamic Form Example" {
		t.Fatalf("expected default schema, got %q", ctrl.Schema().Title)
	}

	ctrl, err = orch.Controller(testsupport.Context(), orchestrator.Request{SchemaText: yamlSchema})
	if err != nil {
		t.Fatalf("controller from yaml text: %v", err)
	}
	if diff := cmp.Diff([]string{"username"}, ctrl.Schema().Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestOrchestrator_Errors(t *testing.T) {
	orch := fsOrchestrator()
	ctx := testsupport.Context()

	if _, err := orch.Generate(ctx, orchestrator.Request{Source: source.FromFS("missing.json")}); err == nil {
		t.Fatalf("expected missing source to fail")
	}
	_, err := orch.Generate(ctx, orchestrator.Request{SchemaText: `{"title": ""}`})
	if !errors.Is(err, schema.ErrMissingTitle) {
		t.Fatalf("expected ErrMissingTitle, got %v", err)
	}
	if _, err := orch.Generate(ctx, orchestrator.Request{Renderer: "pdf"}); err == nil {
		t.Fatalf("expected unknown renderer to fail")
	}
}

func TestOrchestrator_ThemeSelector(t *testing.T) {
	orch := orchestrator.New(orchestrator.WithThemeSelector(html.NewThemeSelector(), "", "dark"))
	out, err := orch.Generate(testsupport.Context(), orchestrator.Request{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), `data-theme-variant="dark"`) {
		t.Fatalf("expected themed output")
	}

	bad := orchestrator.New(orchestrator.WithThemeSelector(nil, "missing", ""))
	if _, err := bad.Generate(testsupport.Context(), orchestrator.Request{}); err == nil {
		t.Fatalf("expected unknown theme to fail")
	}
}

func TestOrchestrator_CustomRegistry(t *testing.T) {
	r, err := html.New()
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	orch := orchestrator.New(
		orchestrator.WithRegistry(render.NewRegistry(r)),
		orchestrator.WithDefaultRenderer("missing"),
	)
	if _, err := orch.Renderer(""); err != nil {
		t.Fatalf("expected fallback to first registered renderer, got %v", err)
	}
}

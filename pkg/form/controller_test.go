package form_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/KailasMahavarkar/form-builder/pkg/form"
	"github.com/KailasMahavarkar/form-builder/pkg/schema"
	"github.com/KailasMahavarkar/form-builder/pkg/validation"
)

const usernameSchema = `{
  "title": "T",
  "fields": [
    {"id": "1", "type": "text", "label": "User", "key": "username",
     "validation": {"required": true, "minLength": 3, "maxLength": 5}}
  ]
}`

func newUsernameController(t *testing.T, opts ...form.Option) *form.Controller {
	t.Helper()
	c, err := form.NewFromText(usernameSchema, opts...)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return c
}

func TestNew_SeedsDefaultsWithoutErrors(t *testing.T) {
	c := form.New(schema.DefaultSchemaText(), schema.DefaultSchema())

	if !c.SchemaValid() {
		t.Fatalf("expected initial schema to be valid")
	}
	want := map[string]string{"username": "Kailas", "gender": "male"}
	if diff := cmp.Diff(want, c.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if len(c.Errors()) != 0 {
		t.Fatalf("expected no initial errors, got %v", c.Errors())
	}
}

func TestNewFromText_RejectsInvalidSchema(t *testing.T) {
	if _, err := form.NewFromText(`{"fields": []}`); !errors.Is(err, schema.ErrMissingTitle) {
		t.Fatalf("expected ErrMissingTitle, got %v", err)
	}
}

func TestController_UsernameScenario(t *testing.T) {
	c := newUsernameController(t)

	steps := []struct {
		value string
		want  map[string]string
	}{
		{value: "", want: map[string]string{"username": validation.MessageRequired}},
		{value: "ab", want: map[string]string{"username": validation.MessageTooShort}},
		{value: "abc", want: map[string]string{}},
		{value: "abcdef", want: map[string]string{"username": validation.MessageTooLong}},
	}
	for _, step := range steps {
		c.EditFieldValue("username", step.value)
		if diff := cmp.Diff(step.want, c.Errors()); diff != "" {
			t.Fatalf("value %q: errors mismatch (-want +got):\n%s", step.value, diff)
		}
	}
}

func TestController_FieldEditOnlyTouchesOwnKey(t *testing.T) {
	c := form.New(schema.DefaultSchemaText(), schema.DefaultSchema())
	c.EditFieldValue("username", "")
	c.EditFieldValue("gender", "")
	c.EditFieldValue("username", "Kailas")

	want := map[string]string{"gender": validation.MessageRequired}
	if diff := cmp.Diff(want, c.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestController_SchemaParseFailureKeepsLastGoodSchema(t *testing.T) {
	c := newUsernameController(t)
	c.EditFieldValue("username", "ab")
	before := c.Errors()

	broken := `{"title": "T", "fields": [`
	c.EditSchemaText(broken)

	if c.SchemaValid() {
		t.Fatalf("expected schema to be invalid")
	}
	if !errors.Is(c.SchemaError(), schema.ErrSyntax) {
		t.Fatalf("expected syntax error, got %v", c.SchemaError())
	}
	if c.SchemaText() != broken {
		t.Fatalf("expected schema text to be stored")
	}
	if diff := cmp.Diff([]string{"username"}, c.Schema().Keys()); diff != "" {
		t.Fatalf("schema replaced (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(before, c.Errors()); diff != "" {
		t.Fatalf("errors changed (-want +got):\n%s", diff)
	}

	view := c.View()
	if view.SchemaValid || view.SchemaError == "" {
		t.Fatalf("expected view to report invalid schema, got %+v", view)
	}
	if len(view.Fields) != 1 {
		t.Fatalf("expected last good fields to keep rendering, got %+v", view.Fields)
	}
}

func TestController_SchemaEditRecomputesAllErrors(t *testing.T) {
	c := newUsernameController(t)
	c.EditFieldValue("username", "ab")

	c.EditSchemaText(`{
  "title": "Next",
  "fields": [
    {"id": "1", "type": "text", "key": "username", "validation": {"minLength": 1}},
    {"id": "2", "type": "text", "key": "email", "validation": {"required": true}},
    {"id": "3", "type": "text", "key": "nick", "defaultValue": "kai", "validation": {"required": true}}
  ]
}`)

	if !c.SchemaValid() || c.SchemaError() != nil {
		t.Fatalf("expected schema to be adopted, got %v", c.SchemaError())
	}
	want := map[string]string{"email": validation.MessageRequired}
	if diff := cmp.Diff(want, c.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	wantValues := map[string]string{"username": "ab", "email": "", "nick": "kai"}
	if diff := cmp.Diff(wantValues, c.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestController_StaleKeysAreRetainedWithoutErrors(t *testing.T) {
	c := newUsernameController(t)
	c.EditFieldValue("username", "")

	c.EditSchemaText(`{"title": "Other", "fields": [{"id": "1", "type": "text", "key": "email"}]}`)

	if _, ok := c.Values()["username"]; !ok {
		t.Fatalf("expected stale key to be retained")
	}
	if len(c.Errors()) != 0 {
		t.Fatalf("expected stale key to produce no errors, got %v", c.Errors())
	}
}

func TestController_SubmitGate(t *testing.T) {
	var submitted []map[string]string
	c := newUsernameController(t, form.WithSubmitHandler(func(values map[string]string) {
		submitted = append(submitted, values)
	}))

	c.EditFieldValue("username", "ab")
	if c.Submit() {
		t.Fatalf("expected submit to be rejected")
	}
	if len(submitted) != 0 {
		t.Fatalf("expected handler not to be called, got %v", submitted)
	}

	c.EditFieldValue("username", "abc")
	if !c.Submit() {
		t.Fatalf("expected submit to pass")
	}
	if diff := cmp.Diff([]map[string]string{{"username": "abc"}}, submitted); diff != "" {
		t.Fatalf("submissions mismatch (-want +got):\n%s", diff)
	}
	if len(c.Errors()) != 0 {
		t.Fatalf("expected errors to be cleared, got %v", c.Errors())
	}

	submitted[0]["username"] = "mutated"
	if c.Values()["username"] != "abc" {
		t.Fatalf("expected submitted copy to be independent of the store")
	}
}

func TestController_SubmitValidatesUntouchedFields(t *testing.T) {
	c := form.New(`{}`, schema.MustParse(`{
  "title": "T",
  "fields": [{"id": "1", "type": "text", "key": "email", "validation": {"required": true}}]
}`))
	if c.Submit() {
		t.Fatalf("expected submit to be rejected")
	}
	want := map[string]string{"email": validation.MessageRequired}
	if diff := cmp.Diff(want, c.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestController_MultiSelectSelection(t *testing.T) {
	c, err := form.NewFromText(`{
  "title": "T",
  "fields": [
    {"id": "1", "type": "radio", "key": "colours", "multiple": true,
     "children": [{"value": "a", "label": "A"}, {"value": "b", "label": "B"}]},
    {"id": "2", "type": "select", "key": "size",
     "children": [{"value": "s", "label": "S"}, {"value": "m", "label": "M"}]}
  ]
}`)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}

	c.EditFieldSelection("colours", []string{"a", "b"})
	if got := c.Values()["colours"]; got != "a,b" {
		t.Fatalf("expected a,b, got %q", got)
	}
	field, _ := c.View().Field("colours")
	if diff := cmp.Diff([]string{"a", "b"}, field.Selected); diff != "" {
		t.Fatalf("selected mismatch (-want +got):\n%s", diff)
	}

	c.ToggleOption("colours", "a")
	if got := c.Values()["colours"]; got != "b" {
		t.Fatalf("expected b after toggle, got %q", got)
	}
	c.ToggleOption("size", "s")
	c.ToggleOption("size", "m")
	if got := c.Values()["size"]; got != "m" {
		t.Fatalf("expected single select to replace, got %q", got)
	}

	c.ToggleOption("missing", "x")
	if _, ok := c.Values()["missing"]; ok {
		t.Fatalf("expected toggle on unknown key to be ignored")
	}
}

func TestController_ReentrantEventsAreQueued(t *testing.T) {
	var observed []string
	var c *form.Controller
	c = newUsernameController(t, form.WithChangeListener(func(view form.View) {
		observed = append(observed, view.Values["username"])
		if view.Values["username"] == "ab" {
			c.EditFieldValue("username", "abc")
		}
	}))

	c.EditFieldValue("username", "ab")

	if diff := cmp.Diff([]string{"ab", "abc"}, observed); diff != "" {
		t.Fatalf("observed views mismatch (-want +got):\n%s", diff)
	}
	if len(c.Errors()) != 0 {
		t.Fatalf("expected queued edit to clear the error, got %v", c.Errors())
	}
}

func TestController_SubmitFromHandlerIsQueued(t *testing.T) {
	calls := 0
	var c *form.Controller
	c = newUsernameController(t, form.WithSubmitHandler(func(map[string]string) {
		calls++
		if calls == 1 && c.Submit() {
			t.Errorf("expected nested submit to be deferred")
		}
	}))
	c.EditFieldValue("username", "abc")

	if !c.Submit() {
		t.Fatalf("expected submit to pass")
	}
	if calls != 2 {
		t.Fatalf("expected queued submit to run after the first, got %d calls", calls)
	}
}

func TestView_OmitsUnknownVariants(t *testing.T) {
	c, err := form.NewFromText(`{
  "title": "T",
  "fields": [
    {"id": "1", "type": "slider", "key": "volume"},
    {"id": "2", "type": "text", "key": "name", "pattern": "[a-z]+", "validation": {"required": true}}
  ]
}`)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	c.EditFieldValue("name", "")

	view := c.View()
	want := []form.FieldView{{
		ID:       "2",
		Key:      "name",
		Type:     schema.FieldTypeText,
		Required: true,
		Value:    "",
		Error:    validation.MessageRequired,
		HasError: true,
		Pattern:  "[a-z]+",
	}}
	if diff := cmp.Diff(want, view.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if view.Clean() {
		t.Fatalf("expected view with errors not to be clean")
	}
	if _, ok := view.Values["volume"]; ok {
		t.Fatalf("expected unknown variant not to be seeded")
	}
}

package render

import "strings"

// RenderOptions carry per-request presentation knobs that do not belong to
// the form state.
type RenderOptions struct {
	// Action is the submit target of the rendered form. Empty keeps the
	// current location.
	Action string
	// Method is the submit verb. Verbs other than GET and POST are sent as POST
	// plus a hidden _method input.
	Method string
	// HiddenFields are emitted as hidden inputs in sorted order.
	HiddenFields map[string]string
	// SubmitLabel overrides the submit button caption.
	SubmitLabel string
	// ShowState appends the values and errors panes to the output.
	ShowState bool
}

// DefaultSubmitLabel is the submit caption used when none is configured.
const DefaultSubmitLabel = "Submit"

// ResolvedSubmitLabel returns the configured caption or the default.
func (o RenderOptions) ResolvedSubmitLabel() string {
	if label := strings.TrimSpace(o.SubmitLabel); label != "" {
		return label
	}
	return DefaultSubmitLabel
}

// FormMethod returns the verb to place on the form element together with the
// override to send as _method, if any.
func (o RenderOptions) FormMethod() (method string, override string) {
	verb := strings.ToUpper(strings.TrimSpace(o.Method))
	switch verb {
	case "", "POST":
		return "post", ""
	case "GET":
		return "get", ""
	default:
		return "post", verb
	}
}

// MethodOverrideField is the hidden input carrying non-POST verbs.
const MethodOverrideField = "_method"

// ResolvedHiddenFields merges the configured hidden fields with the method
// override and returns them sorted by name.
func (o RenderOptions) ResolvedHiddenFields() []HiddenField {
	_, override := o.FormMethod()
	var extras []HiddenField
	if override != "" {
		extras = append(extras, Hidden(MethodOverrideField, override))
	}
	return SortedHiddenFields(MergeHiddenFields(o.HiddenFields, extras...))
}

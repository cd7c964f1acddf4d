package tui

import "io"

// OutputFormat controls how submitted values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits key=value lines in schema order.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures message prefixes used in prompts and snapshots.
type Theme struct {
	RequiredMarker string
	InfoPrefix     string
	ErrorPrefix    string
}

// DefaultTheme is applied when no theme is configured.
var DefaultTheme = Theme{
	RequiredMarker: "*",
	InfoPrefix:     "",
	ErrorPrefix:    "! ",
}

// Option configures the terminal renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by Fill.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutput directs driver info messages to w when the survey driver is used.
func WithOutput(w io.Writer) Option {
	return func(r *Renderer) {
		if w != nil {
			r.out = w
		}
	}
}

// WithOutputFormat selects the serialization of submitted values.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithMaxAttempts bounds how often a single field is re-prompted after a
// validation error. Values below one are ignored.
func WithMaxAttempts(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// WithConfirmSubmit asks for confirmation before submitting.
func WithConfirmSubmit(confirm bool) Option {
	return func(r *Renderer) {
		r.confirmSubmit = confirm
	}
}

package form

import (
	"log/slog"

	"github.com/KailasMahavarkar/form-builder/pkg/schema"
	"github.com/KailasMahavarkar/form-builder/pkg/validation"
)

// Option configures a Controller.
type Option func(*Controller)

// WithSubmitHandler registers the callback invoked with a copy of the values
// when a submission passes validation.
func WithSubmitHandler(fn func(map[string]string)) Option {
	return func(c *Controller) {
		c.onSubmit = fn
	}
}

// WithChangeListener registers a callback that receives a fresh View after
// every completed event.
func WithChangeListener(fn func(View)) Option {
	return func(c *Controller) {
		c.onChange = fn
	}
}

// WithLogger overrides the logger. Nil values are ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithParser overrides the parser used for schema text edits. Nil values are
// ignored.
func WithParser(parser *schema.Parser) Option {
	return func(c *Controller) {
		if parser != nil {
			c.parser = parser
		}
	}
}

// WithValidator overrides the validator. Nil values are ignored.
func WithValidator(validator *validation.Validator) Option {
	return func(c *Controller) {
		if validator != nil {
			c.validator = validator
		}
	}
}

// WithInitialValues prefills the value store before defaults are seeded.
func WithInitialValues(values map[string]string) Option {
	return func(c *Controller) {
		for key, value := range values {
			c.store.Set(key, value)
		}
	}
}

package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g. Ctrl+C) or declined to
	// submit.
	ErrAborted = errors.New("tui: aborted")
	// ErrTooManyAttempts is returned when a field keeps failing validation.
	ErrTooManyAttempts = errors.New("tui: too many invalid attempts")
	// ErrSchemaInvalid is returned when filling a controller whose schema
	// text does not parse.
	ErrSchemaInvalid = errors.New("tui: schema is invalid")
)

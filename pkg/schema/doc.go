// Package schema defines the declarative form schema and its parser. A
// FormSchema is an immutable value: each successful Parse produces a new
// instance and callers replace their previous schema wholesale. Field variants
// share one flat FieldConfig struct discriminated by Type; unknown variants
// decode without error so a schema being edited keeps working while the author
// types a new tag.
//
// Schema text is JSON by default (decoded with goccy/go-json). YAML documents
// are accepted by parsers configured with FormatYAML or FormatAuto.
package schema

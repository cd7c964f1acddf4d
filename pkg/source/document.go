package source

import (
	"errors"

	"github.com/KailasMahavarkar/form-builder/pkg/schema"
)

// Document wraps raw document bytes and their origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument validates the inputs and keeps a private copy of raw.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("source: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("source: document is empty")
	}
	return Document{source: src, raw: append([]byte(nil), raw...)}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a copy of the document bytes.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Text returns the document as a string.
func (d Document) Text() string {
	return string(d.raw)
}

// Format guesses the schema notation from the location's extension.
func (d Document) Format() schema.Format {
	if d.source == nil {
		return schema.FormatAuto
	}
	return schema.FormatFromPath(d.source.Location())
}

package formbuilder

import (
	"context"
	"fmt"

	internalLoader "github.com/KailasMahavarkar/form-builder/internal/source/loader"
	"github.com/KailasMahavarkar/form-builder/pkg/schema"
	"github.com/KailasMahavarkar/form-builder/pkg/source"
)

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...source.LoaderOption) source.Loader {
	cfg := source.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// NewParser constructs a schema parser.
func NewParser(options ...schema.ParserOption) *schema.Parser {
	return schema.NewParser(options...)
}

// LoadSchema fetches src and parses it with a parser matching the document's
// extension. The raw document is returned alongside the schema.
func LoadSchema(ctx context.Context, loader source.Loader, src source.Source) (schema.FormSchema, source.Document, error) {
	if loader == nil {
		loader = NewLoader(source.WithHTTPFallback(0))
	}
	doc, err := loader.Load(ctx, src)
	if err != nil {
		return schema.FormSchema{}, source.Document{}, err
	}
	form, err := schema.NewParser(schema.WithFormat(doc.Format())).Parse(doc.Text())
	if err != nil {
		return schema.FormSchema{}, doc, fmt.Errorf("formbuilder: parse %s: %w", src.Location(), err)
	}
	return form, doc, nil
}

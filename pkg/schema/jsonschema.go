package schema

import (
	"github.com/invopop/jsonschema"
)

// DocumentSchemaID identifies the published JSON Schema of schema documents.
const DocumentSchemaID = "https://github.com/KailasMahavarkar/form-builder/schema/form.json"

// DocumentSchema describes the schema document format as a JSON Schema so
// editors can offer completion and inline checks while the text is edited.
func DocumentSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference:             true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  true,
		RequiredFromJSONSchemaTags: false,
	}
	s := r.Reflect(new(FormSchema))
	s.ID = jsonschema.ID(DocumentSchemaID)
	s.Title = "Form schema"
	return s
}

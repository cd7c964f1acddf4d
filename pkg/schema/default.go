package schema

const defaultSchemaText = `{
  "title": "Dynamic Form Example",
  "fields": [
    {
      "id": "username",
      "type": "text",
      "label": "Username",
      "key": "username",
      "defaultValue": "Kailas",
      "validation": {
        "required": true,
        "minLength": 3,
        "maxLength": 20
      }
    },
    {
      "id": "gender",
      "type": "select",
      "label": "Gender",
      "key": "gender",
      "defaultValue": "male",
      "children": [
        { "value": "male", "label": "Male" },
        { "value": "female", "label": "Female" }
      ],
      "validation": {
        "required": true
      }
    }
  ]
}
`

// DefaultSchemaText returns the example schema used when no schema is given.
func DefaultSchemaText() string {
	return defaultSchemaText
}

// DefaultSchema returns the parsed example schema.
func DefaultSchema() FormSchema {
	return MustParse(defaultSchemaText)
}

// MustParse parses JSON schema text and panics on failure. Useful for tests
// and compiled-in schemas.
func MustParse(text string) FormSchema {
	form, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return form
}

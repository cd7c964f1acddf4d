// Package openapi derives form schemas from OpenAPI 3 documents. Each
// operation with a JSON object request body becomes one form whose fields
// mirror the body's top-level properties.
package openapi

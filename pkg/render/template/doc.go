// Package template defines the seam between markup renderers and a template
// engine. The pongo subpackage provides the pongo2-backed engine.
package template

// Package orchestrator wires the source loader, schema parser, form
// controller and renderers into a single load-and-render call.
package orchestrator

// Package render defines the renderer contract shared by the HTML and
// terminal front ends and a registry to look them up by name.
package render

import (
	"context"

	"github.com/KailasMahavarkar/form-builder/pkg/form"
)

// Renderer turns a controller view into bytes (HTML, plain text, ...).
// Renderers never mutate state; change events flow back through the
// controller.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view form.View, options RenderOptions) ([]byte, error)
}

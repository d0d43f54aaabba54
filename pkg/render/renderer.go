// Package render defines the surface-agnostic form view and the renderer
// registry the CLI and web front ends resolve their output through.
package render

import (
	"context"

	"github.com/comunavision/go-admin/pkg/schema"
)

// View is one form ready to render: the active field set plus the current
// values and any validation feedback to surface inline.
type View struct {
	// Title heads the rendered form.
	Title string
	// Fields come pre-sorted in render order.
	Fields []schema.FieldDescriptor
	// Values pre-populates controls, keyed by field key.
	Values map[string]any
	// Errors carries per-field validation messages, keyed by field key.
	Errors map[string]string
	// FormErrors carries messages not tied to any single field.
	FormErrors []string
}

// Options hold per-request rendering knobs that do not belong in the view.
type Options struct {
	// Action is the submit target for HTML output.
	Action string
	// Method is the logical HTTP verb. HTML renderers translate anything
	// beyond GET/POST into a POST plus a hidden _method input.
	Method string
	// Hidden adds extra hidden inputs (CSRF tokens, record ids).
	Hidden map[string]string
	// SubmitLabel overrides the submit control's caption.
	SubmitLabel string
}

// Renderer turns a View into one output representation.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view View, options Options) ([]byte, error)
}

// Package html renders form views as server-side HTML fragments using
// pongo2 templates, with theme tokens exposed as CSS custom properties.
// Backend-supplied text (labels, placeholders, options) is stripped of any
// markup before it reaches a template.
package html

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/flosch/pongo2/v6"
	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/comunavision/go-admin/pkg/render"
	"github.com/comunavision/go-admin/pkg/schema"
)

//go:embed templates/*.html
var templateFS embed.FS

const formTemplate = "form.html"

// Option configures the renderer.
type Option func(*Renderer)

// WithThemeSelection applies a resolved theme. Without one the default
// manifest's base tokens apply.
func WithThemeSelection(selection *theme.Selection) Option {
	return func(r *Renderer) {
		r.selection = selection
	}
}

// WithTemplates overrides the embedded template set.
func WithTemplates(files fs.FS) Option {
	return func(r *Renderer) {
		r.templates = files
	}
}

// Renderer emits HTML form fragments.
type Renderer struct {
	templates fs.FS
	engine    *engine
	policy    *bluemonday.Policy
	selection *theme.Selection
}

// New constructs the HTML renderer.
func New(options ...Option) (*Renderer, error) {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("html: embedded templates: %w", err)
	}
	r := &Renderer{
		templates: sub,
		policy:    bluemonday.StrictPolicy(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.selection == nil {
		manifest := DefaultManifest()
		r.selection = &theme.Selection{Theme: manifest.Name, Manifest: manifest}
	}
	if r.engine, err = newEngine(r.templates); err != nil {
		return nil, err
	}
	return r, nil
}

// Name implements render.Renderer.
func (r *Renderer) Name() string { return "html" }

// ContentType implements render.Renderer.
func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

// Render implements render.Renderer.
func (r *Renderer) Render(ctx context.Context, view render.View, options render.Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var fieldsMarkup strings.Builder
	for _, field := range view.Fields {
		clean := r.sanitizeField(field)
		fieldsMarkup.WriteString(buildFieldMarkup(clean, view.Values[field.Key], view.Errors[field.Key]))
	}

	method, methodOverride := htmlMethod(options.Method)

	data := map[string]any{
		"title":           r.policy.Sanitize(view.Title),
		"action":          options.Action,
		"method":          method,
		"method_override": methodOverride,
		"hidden":          options.Hidden,
		"submit_label":    submitLabel(options),
		"form_errors":     view.FormErrors,
		"fields":          pongo2.AsSafeValue(fieldsMarkup.String()),
		"css_vars":        pongo2.AsSafeValue(cssVars(resolveTokens(r.selection))),
		"theme":           r.selection.Theme,
	}
	return r.engine.render(formTemplate, data)
}

// sanitizeField strips markup from every backend-controlled string before it
// is escaped into attributes, so even a compromised backend cannot smuggle
// tags through the admin screens.
func (r *Renderer) sanitizeField(field schema.FieldDescriptor) schema.FieldDescriptor {
	field.Label = r.policy.Sanitize(field.Label)
	field.Placeholder = r.policy.Sanitize(field.Placeholder)
	if len(field.Options) > 0 {
		options := make([]string, len(field.Options))
		for i, option := range field.Options {
			options[i] = r.policy.Sanitize(option)
		}
		field.Options = options
	}
	return field
}

// htmlMethod folds any verb beyond GET/POST into a POST plus an override
// marker the server side unwraps.
func htmlMethod(method string) (string, string) {
	switch verb := strings.ToUpper(strings.TrimSpace(method)); verb {
	case "", "POST":
		return "POST", ""
	case "GET":
		return "GET", ""
	default:
		return "POST", verb
	}
}

func submitLabel(options render.Options) string {
	if strings.TrimSpace(options.SubmitLabel) != "" {
		return options.SubmitLabel
	}
	return "Guardar"
}

package html

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// DefaultManifest is the built-in look. The dark variant only overrides the
// tokens that differ.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "comuna",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":      "#1d6f42",
			"surface":    "#ffffff",
			"ink":        "#1f2933",
			"muted":      "#6b7280",
			"danger":     "#b42318",
			"control-bg": "#f9fafb",
			"border":     "#d1d5db",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"surface":    "#111827",
					"ink":        "#f9fafb",
					"muted":      "#9ca3af",
					"control-bg": "#1f2937",
					"border":     "#374151",
				},
			},
		},
	}
}

// SelectionFor resolves a theme name and variant against the built-in
// manifest. Unknown names fall back to the manifest's own name; unknown
// variants simply contribute no token overrides.
func SelectionFor(name, variant string) *theme.Selection {
	manifest := DefaultManifest()
	if strings.TrimSpace(name) == "" || name != manifest.Name {
		name = manifest.Name
	}
	if _, ok := manifest.Variants[variant]; !ok {
		variant = ""
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}
}

// CSSVars renders a selection's merged tokens as a :root custom-property
// block, for callers embedding the theme into a full page head.
func CSSVars(selection *theme.Selection) string {
	return cssVars(resolveTokens(selection))
}

// resolveTokens merges the manifest's base tokens with the selected variant's
// overrides.
func resolveTokens(selection *theme.Selection) map[string]string {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest
	tokens := make(map[string]string, len(manifest.Tokens))
	for key, value := range manifest.Tokens {
		tokens[key] = value
	}
	if variant, ok := manifest.Variants[selection.Variant]; ok {
		for key, value := range variant.Tokens {
			tokens[key] = value
		}
	}
	return tokens
}

// cssVars renders the merged tokens as a :root custom-property block, ready
// to inline into the page head.
func cssVars(tokens map[string]string) string {
	if len(tokens) == 0 {
		return ""
	}
	keys := make([]string, 0, len(tokens))
	for key := range tokens {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var builder strings.Builder
	builder.WriteString(":root {\n")
	for _, key := range keys {
		fmt.Fprintf(&builder, "  --%s: %s;\n", key, tokens[key])
	}
	builder.WriteString("}")
	return builder.String()
}

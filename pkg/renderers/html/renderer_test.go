package html

import (
	"context"
	"strings"
	"testing"

	"github.com/comunavision/go-admin/pkg/render"
	"github.com/comunavision/go-admin/pkg/schema"
)

func testView() render.View {
	return render.View{
		Title: "Editar comunero",
		Fields: []schema.FieldDescriptor{
			{Key: "zona", Label: "Zona", Type: schema.TypeSelect, Options: []string{"Norte", "Sur"}, Required: true, Active: true},
			{Key: "hijos", Type: schema.TypeInteger, Active: true},
			{Key: "aporta", Label: "Aporta", Type: schema.TypeBoolean, Active: true},
			{Key: "nota", Type: schema.TypeTextarea, Placeholder: "Observaciones", Active: true},
		},
		Values: map[string]any{"zona": "Sur", "hijos": float64(2), "aporta": true},
	}
}

func TestRenderer_RenderForm(t *testing.T) {
	renderer, err := New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	out, err := renderer.Render(context.Background(), testView(), render.Options{
		Action: "/comuneros/5",
		Method: "PUT",
		Hidden: map[string]string{"id": "5"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	markup := string(out)

	for _, want := range []string{
		`<form class="cv-form"`,
		`action="/comuneros/5"`,
		`method="POST"`,
		`name="_method" value="PUT"`,
		`name="id" value="5"`,
		`<option value="Sur" selected>`,
		`type="number"`,
		`value="2"`,
		`type="checkbox"`,
		` checked`,
		`placeholder="Observaciones"`,
		`--brand: #1d6f42;`,
		`Editar comunero`,
		`>Guardar</button>`,
	} {
		if !strings.Contains(markup, want) {
			t.Errorf("markup missing %q\n%s", want, markup)
		}
	}
}

func TestRenderer_SanitizesBackendText(t *testing.T) {
	renderer, err := New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	view := render.View{
		Fields: []schema.FieldDescriptor{{
			Key:    "zona",
			Label:  `Zona <script>alert(1)</script>`,
			Type:   schema.TypeText,
			Active: true,
		}},
	}
	out, err := renderer.Render(context.Background(), view, render.Options{Action: "/x"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	markup := string(out)
	if strings.Contains(markup, "<script>") {
		t.Fatalf("script tag survived sanitisation:\n%s", markup)
	}
	if !strings.Contains(markup, "Zona") {
		t.Fatalf("label text lost:\n%s", markup)
	}
}

func TestRenderer_InlineErrors(t *testing.T) {
	renderer, err := New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	view := testView()
	view.Errors = map[string]string{"zona": "Zona es obligatorio"}
	view.FormErrors = []string{"Revisa los campos marcados"}

	out, err := renderer.Render(context.Background(), view, render.Options{Action: "/x"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	markup := string(out)
	if !strings.Contains(markup, "field--invalid") {
		t.Error("invalid chrome class missing")
	}
	if !strings.Contains(markup, "Zona es obligatorio") {
		t.Error("inline error missing")
	}
	if !strings.Contains(markup, "Revisa los campos marcados") {
		t.Error("form-level error missing")
	}
}

func TestHTMLMethod(t *testing.T) {
	tests := []struct {
		in           string
		method, over string
	}{
		{"", "POST", ""},
		{"post", "POST", ""},
		{"GET", "GET", ""},
		{"put", "POST", "PUT"},
		{"PATCH", "POST", "PATCH"},
		{"DELETE", "POST", "DELETE"},
	}
	for _, tc := range tests {
		method, over := htmlMethod(tc.in)
		if method != tc.method || over != tc.over {
			t.Errorf("htmlMethod(%q) = %q,%q want %q,%q", tc.in, method, over, tc.method, tc.over)
		}
	}
}

func TestSelectionFor(t *testing.T) {
	sel := SelectionFor("comuna", "dark")
	if sel.Theme != "comuna" || sel.Variant != "dark" {
		t.Fatalf("unexpected selection: %+v", sel)
	}
	tokens := resolveTokens(sel)
	if tokens["surface"] != "#111827" {
		t.Errorf("dark variant surface not applied, got %q", tokens["surface"])
	}
	if tokens["brand"] != "#1d6f42" {
		t.Errorf("base brand token lost, got %q", tokens["brand"])
	}

	sel = SelectionFor("desconocido", "no-such-variant")
	if sel.Theme != "comuna" {
		t.Errorf("unknown theme should fall back, got %q", sel.Theme)
	}
	if sel.Variant != "" {
		t.Errorf("unknown variant should clear, got %q", sel.Variant)
	}
	if !strings.Contains(CSSVars(sel), "--brand: #1d6f42;") {
		t.Error("css vars missing base brand")
	}
}

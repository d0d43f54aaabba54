package render_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/comunavision/go-admin/pkg/render"
)

type stubRenderer struct {
	name string
}

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return "text/plain" }
func (s stubRenderer) Render(context.Context, render.View, render.Options) ([]byte, error) {
	return []byte(s.name), nil
}

func TestRegistry(t *testing.T) {
	registry := render.NewRegistry()

	if err := registry.Register(stubRenderer{name: "html"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(stubRenderer{name: "tui"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := registry.Register(stubRenderer{name: "html"}); err == nil {
		t.Fatal("duplicate registration must fail")
	}
	if err := registry.Register(stubRenderer{}); err == nil {
		t.Fatal("unnamed renderer must fail")
	}
	if err := registry.Register(nil); err == nil {
		t.Fatal("nil renderer must fail")
	}

	if diff := cmp.Diff([]string{"html", "tui"}, registry.List()); diff != "" {
		t.Errorf("list mismatch (-want +got):\n%s", diff)
	}
	if !registry.Has("tui") || registry.Has("pdf") {
		t.Fatal("Has misreports membership")
	}

	got, err := registry.Get("html")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name() != "html" {
		t.Fatalf("unexpected renderer %q", got.Name())
	}
	if _, err := registry.Get("pdf"); err == nil {
		t.Fatal("missing renderer must error")
	}
}

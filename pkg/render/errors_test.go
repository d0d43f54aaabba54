package render_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/comunavision/go-admin/pkg/apiclient"
	"github.com/comunavision/go-admin/pkg/render"
	"github.com/comunavision/go-admin/pkg/schema"
)

func TestMergeFormErrors(t *testing.T) {
	got := render.MergeFormErrors([]string{" uno ", "dos"}, "dos", "", "tres")
	want := []string{"uno", "dos", "tres"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("merge mismatch (-want +got):\n%s", diff)
	}
	if render.MergeFormErrors(nil, "  ") != nil {
		t.Error("blank-only input must yield nil")
	}
}

func TestMapError_FieldAttachment(t *testing.T) {
	view := &render.View{
		Fields: []schema.FieldDescriptor{{Key: "documento", Type: schema.TypeText}},
	}
	err := &apiclient.Error{
		Status:  409,
		Message: "Documento ya registrado",
		Payload: &apiclient.ErrorPayload{Code: "DOCUMENTO_DUPLICADO", Field: "documento"},
	}

	render.MapError(view, err)
	if view.Errors["documento"] != "Documento ya registrado" {
		t.Fatalf("expected inline error, got %+v", view.Errors)
	}
	if len(view.FormErrors) != 0 {
		t.Fatalf("field error must not duplicate at form level: %v", view.FormErrors)
	}
}

func TestMapError_UnknownFieldFallsBack(t *testing.T) {
	view := &render.View{
		Fields: []schema.FieldDescriptor{{Key: "nombre", Type: schema.TypeText}},
	}
	err := &apiclient.Error{
		Status:  422,
		Message: "valor inválido",
		Payload: &apiclient.ErrorPayload{Field: "telefono"},
	}

	render.MapError(view, err)
	if len(view.Errors) != 0 {
		t.Fatalf("unknown field must not attach inline: %+v", view.Errors)
	}
	if diff := cmp.Diff([]string{"valor inválido"}, view.FormErrors); diff != "" {
		t.Errorf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMapError_NoPayload(t *testing.T) {
	view := &render.View{
		Fields: []schema.FieldDescriptor{{Key: "nombre", Type: schema.TypeText}},
	}
	// An outage-style failure: status and message only, no structured body.
	err := &apiclient.Error{Status: 500, Message: "HTTP 500 Internal Server Error"}

	render.MapError(view, err)
	if len(view.Errors) != 0 {
		t.Fatalf("payload-less error must not attach inline: %+v", view.Errors)
	}
	if diff := cmp.Diff([]string{"HTTP 500 Internal Server Error"}, view.FormErrors); diff != "" {
		t.Errorf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMapError_PlainError(t *testing.T) {
	view := &render.View{}
	render.MapError(view, errors.New("se perdió la conexión"))
	if diff := cmp.Diff([]string{"se perdió la conexión"}, view.FormErrors); diff != "" {
		t.Errorf("form errors mismatch (-want +got):\n%s", diff)
	}
	render.MapError(view, nil)
	if len(view.FormErrors) != 1 {
		t.Fatal("nil error must be a no-op")
	}
}

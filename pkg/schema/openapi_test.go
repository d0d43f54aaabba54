package schema_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/comunavision/go-admin/pkg/schema"
)

const comuneroDoc = `
openapi: 3.0.3
info:
  title: Padrón
  version: "1.0"
paths: {}
components:
  schemas:
    ComuneroExtra:
      type: object
      required: [zona]
      properties:
        zona:
          type: string
          title: Zona
          enum: [Norte, Sur, Centro]
        fecha_ingreso:
          type: string
          format: date
        aporta:
          type: boolean
        hijos:
          type: integer
        nombre:
          type: string
`

func TestImportOpenAPI(t *testing.T) {
	fields, err := schema.ImportOpenAPI(context.Background(), []byte(comuneroDoc), schema.ImportOptions{
		Schema:   "ComuneroExtra",
		SkipKeys: []string{"nombre"},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	want := []schema.FieldDescriptor{
		{Key: "aporta", Type: schema.TypeBoolean, Active: true, Order: 0},
		{Key: "fecha_ingreso", Type: schema.TypeDate, Active: true, Order: 1},
		{Key: "hijos", Type: schema.TypeInteger, Active: true, Order: 2},
		{Key: "zona", Label: "Zona", Type: schema.TypeSelect, Required: true,
			Options: []string{"Norte", "Sur", "Centro"}, Active: true, Order: 3},
	}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestImportOpenAPI_MissingComponent(t *testing.T) {
	_, err := schema.ImportOpenAPI(context.Background(), []byte(comuneroDoc), schema.ImportOptions{
		Schema: "NoSuchThing",
	})
	if err == nil {
		t.Fatal("expected error for unknown component")
	}
}

func TestImportOpenAPI_EmptyDocument(t *testing.T) {
	if _, err := schema.ImportOpenAPI(context.Background(), nil, schema.ImportOptions{}); err == nil {
		t.Fatal("expected error for empty document")
	}
}

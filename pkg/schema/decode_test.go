package schema

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		raw  string
		want FieldType
	}{
		{"text", TypeText},
		{"TEXT", TypeText},
		{"bool", TypeBoolean},
		{"boolean", TypeBoolean},
		{"int", TypeInteger},
		{"integer", TypeInteger},
		{"number", TypeNumber},
		{"float", TypeNumber},
		{"decimal", TypeNumber},
		{"date", TypeDate},
		{"datetime", TypeDatetime},
		{"date_time", TypeDatetime},
		{"select", TypeSelect},
		{"enum", TypeSelect},
		{"textarea", TypeTextarea},
		{"text_area", TypeTextarea},
		{"multiline", TypeTextarea},
		{" Select ", TypeSelect},
		{"", TypeText},
		{"mystery", TypeText},
	}
	for _, tc := range tests {
		if got := NormalizeType(tc.raw); got != tc.want {
			t.Errorf("NormalizeType(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeTypeIdempotent(t *testing.T) {
	properties := gopter.NewProperties(nil)
	properties.Property("normalising twice equals once", prop.ForAll(
		func(raw string) bool {
			once := NormalizeType(raw)
			return NormalizeType(string(once)) == once
		},
		gen.AnyString(),
	))
	properties.TestingRun(t)
}

func TestDecodeDescriptor(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want FieldDescriptor
	}{
		{
			name: "canonical shape",
			raw: map[string]any{
				"id": float64(7), "key": "zona", "label": "Zona",
				"type": "select", "required": true,
				"options": []any{"Norte", "Sur"},
				"activo":  true, "orden": float64(2),
			},
			want: FieldDescriptor{
				ID: 7, Key: "zona", Label: "Zona", Type: TypeSelect,
				Required: true, Options: []string{"Norte", "Sur"},
				Active: true, Order: 2,
			},
		},
		{
			name: "spanish synonyms",
			raw: map[string]any{
				"id": float64(3), "nombre_campo": "telefono",
				"etiqueta": "Teléfono", "tipo": "int",
				"obligatorio": true, "activo": false,
			},
			want: FieldDescriptor{
				ID: 3, Key: "telefono", Label: "Teléfono",
				Type: TypeInteger, Required: true, Active: false,
			},
		},
		{
			name: "object option variant",
			raw: map[string]any{
				"key": "estado", "tipo": "enum",
				"opciones": []any{
					map[string]any{"label": "Activo", "value": "ACTIVO"},
					map[string]any{"label": "Baja", "value": "BAJA"},
					"  ",
				},
			},
			want: FieldDescriptor{
				Key: "estado", Type: TypeSelect,
				Options: []string{"ACTIVO", "BAJA"}, Active: true,
			},
		},
		{
			name: "string required flag",
			raw:  map[string]any{"slug": "dni_tutor", "type": "text", "requerido": "true"},
			want: FieldDescriptor{Key: "dni_tutor", Type: TypeText, Required: true, Active: true},
		},
		{
			name: "options ignored for non-select",
			raw:  map[string]any{"key": "edad", "type": "integer", "options": []any{"1", "2"}},
			want: FieldDescriptor{Key: "edad", Type: TypeInteger, Active: true},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DecodeDescriptor(tc.raw)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("descriptor mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeDescriptorPlaceholderKey(t *testing.T) {
	got := DecodeDescriptor(map[string]any{"tipo": "text"})
	if !strings.HasPrefix(got.Key, "campo_") {
		t.Fatalf("expected generated placeholder key, got %q", got.Key)
	}
	if len(got.Key) != len("campo_")+8 {
		t.Fatalf("placeholder key has wrong length: %q", got.Key)
	}

	again := DecodeDescriptor(map[string]any{"tipo": "text"})
	if again.Key == got.Key {
		t.Fatal("placeholder keys must be unique per record")
	}
}

func TestDecodeList(t *testing.T) {
	bare := []any{
		map[string]any{"key": "a", "type": "text"},
		"garbage",
		map[string]any{"key": "b", "type": "date"},
	}
	enveloped := map[string]any{"items": bare, "total": float64(2)}

	for _, doc := range []any{bare, enveloped} {
		fields := DecodeList(doc)
		if len(fields) != 2 {
			t.Fatalf("expected 2 descriptors, got %d", len(fields))
		}
		if fields[0].Key != "a" || fields[1].Key != "b" {
			t.Fatalf("unexpected keys: %q, %q", fields[0].Key, fields[1].Key)
		}
	}

	if got := DecodeList("not a listing"); got != nil && len(got) != 0 {
		t.Fatalf("expected empty result for junk payload, got %v", got)
	}
}

func TestParseOptions(t *testing.T) {
	got := ParseOptions("Norte\n  Sur  \n\n\nCentro\n")
	want := []string{"Norte", "Sur", "Centro"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
	if ParseOptions("  \n \n") != nil {
		t.Error("blank block must yield nil")
	}
}

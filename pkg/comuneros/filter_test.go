package comuneros

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func sampleRecords() []Comunero {
	return []Comunero{
		{ID: 1, Nombre: "Ana Quispe", Documento: "40111222", Datos: map[string]any{
			"zona": "Norte", "hijos": float64(2), "apodo": "",
		}},
		{ID: 2, Nombre: "Braulio Mamani", Documento: "40999888", Datos: map[string]any{
			"zona": "Sur", "aporta": true,
		}},
		{ID: 3, Nombre: "Carla Huamán", Documento: "41222333", Datos: nil},
	}
}

func TestFilter(t *testing.T) {
	records := sampleRecords()

	tests := []struct {
		query string
		want  []int64
	}{
		{"", []int64{1, 2, 3}},
		{"   ", []int64{1, 2, 3}},
		{"ana", []int64{1}},
		{"MAMANI", []int64{2}},
		{"4022", nil},
		{"409", []int64{2}},
		{"41222", []int64{3}},
	}
	for _, tc := range tests {
		got := Filter(records, tc.query)
		ids := make([]int64, 0, len(got))
		for _, r := range got {
			ids = append(ids, r.ID)
		}
		if diff := cmp.Diff(tc.want, ids, cmp.Transformer("nilEmpty", func(in []int64) []int64 {
			if len(in) == 0 {
				return nil
			}
			return in
		})); diff != "" {
			t.Errorf("Filter(%q) mismatch (-want +got):\n%s", tc.query, diff)
		}
	}
}

func TestDynamicColumns(t *testing.T) {
	got := DynamicColumns(sampleRecords())
	want := []string{"aporta", "hijos", "zona"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}

	if cols := DynamicColumns(nil); len(cols) != 0 {
		t.Fatalf("expected no columns, got %v", cols)
	}
}

func TestRenderValue(t *testing.T) {
	record := Comunero{Datos: map[string]any{
		"zona":   "Norte",
		"aporta": true,
		"socio":  false,
		"hijos":  float64(2),
		"cuota":  2.5,
		"apodo":  "  ",
	}}

	tests := []struct {
		key  string
		want string
	}{
		{"zona", "Norte"},
		{"aporta", "Sí"},
		{"socio", "No"},
		{"hijos", "2"},
		{"cuota", "2.5"},
		{"apodo", EmptyCell},
		{"fantasma", EmptyCell},
	}
	for _, tc := range tests {
		if got := record.RenderValue(tc.key); got != tc.want {
			t.Errorf("RenderValue(%q) = %q, want %q", tc.key, got, tc.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	records := []Comunero{
		{ID: 1, CreatedAt: "2026-08-28T08:00:00"},
		{ID: 2, CreatedAt: "2026-08-27T23:59:00", IsDeleted: true},
		{ID: 3, CreatedAt: "2026-08-28T00:00:01Z"},
		{ID: 4, CreatedAt: "not a time"},
	}

	got := Summarize(records, now)
	want := Stats{Total: 4, Active: 3, Deleted: 1, CreatedToday: 2}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}

package schema_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/comunavision/go-admin/pkg/apiclient"
	"github.com/comunavision/go-admin/pkg/schema"
)

func TestService_ListSortsByOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/campos" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[
			{"id":2,"nombre_campo":"zona","tipo":"text","orden":5},
			{"id":1,"nombre_campo":"apodo","tipo":"text","orden":1},
			{"id":3,"nombre_campo":"barrio","tipo":"text","orden":5}
		]}`))
	}))
	defer server.Close()

	svc := schema.NewService(apiclient.New(server.URL))
	fields, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.Key
	}
	want := []string{"apodo", "barrio", "zona"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestService_ActiveFiltersInactive(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":1,"nombre_campo":"zona","tipo":"text","activo":true},
			{"id":2,"nombre_campo":"antiguo","tipo":"text","activo":false}
		]`))
	}))
	defer server.Close()

	svc := schema.NewService(apiclient.New(server.URL))
	fields, err := svc.Active(context.Background())
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if len(fields) != 1 || fields[0].Key != "zona" {
		t.Fatalf("unexpected active set: %+v", fields)
	}
}

func TestService_CreatePayloadShape(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/campos" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":11,"nombre_campo":"zona","tipo":"select","opciones":["Norte","Sur"],"activo":true}`))
	}))
	defer server.Close()

	svc := schema.NewService(apiclient.New(server.URL))
	saved, err := svc.Create(context.Background(), schema.FieldDescriptor{
		Key:      " zona ",
		Type:     schema.TypeSelect,
		Options:  []string{"Norte", " Sur ", ""},
		Active:   true,
		Required: true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if saved.ID != 11 {
		t.Fatalf("expected server id, got %d", saved.ID)
	}

	want := map[string]any{
		"nombre_campo": "zona",
		"etiqueta":     nil,
		"tipo":         "select",
		"requerido":    true,
		"obligatorio":  false,
		"activo":       true,
		"orden":        float64(0),
		"opciones":     []any{"Norte", "Sur"},
	}
	if diff := cmp.Diff(want, body); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestService_CreateRejectsOptionlessSelect(t *testing.T) {
	svc := schema.NewService(apiclient.New("http://unused.invalid"))
	_, err := svc.Create(context.Background(), schema.FieldDescriptor{
		Key:  "estado",
		Type: schema.TypeSelect,
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestService_UpdateRequiresID(t *testing.T) {
	svc := schema.NewService(apiclient.New("http://unused.invalid"))
	_, err := svc.Update(context.Background(), schema.FieldDescriptor{Key: "zona", Type: schema.TypeText})
	if err == nil {
		t.Fatal("expected error for unsaved descriptor")
	}
}

func TestService_CreateEmptyResponseFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	svc := schema.NewService(apiclient.New(server.URL))
	submitted := schema.FieldDescriptor{Key: "zona", Type: schema.TypeText, Active: true}
	saved, err := svc.Create(context.Background(), submitted)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if diff := cmp.Diff(submitted, saved); diff != "" {
		t.Errorf("fallback mismatch (-want +got):\n%s", diff)
	}
}

func TestService_Delete(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	svc := schema.NewService(apiclient.New(server.URL))
	if err := svc.Delete(context.Background(), 9); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if gotPath != "DELETE /campos/9" {
		t.Fatalf("unexpected request: %s", gotPath)
	}
	if err := svc.Delete(context.Background(), 0); err == nil {
		t.Fatal("expected error for zero id")
	}
}

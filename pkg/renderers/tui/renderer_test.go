package tui

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/comunavision/go-admin/pkg/render"
	"github.com/comunavision/go-admin/pkg/schema"
)

// scriptDriver replays canned answers and records informational output.
type scriptDriver struct {
	inputs   []string
	selects  []int
	confirms []bool
	areas    []string
	infos    []string
}

func (d *scriptDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	return d.pop(&d.inputs), nil
}

func (d *scriptDriver) Password(_ context.Context, _ InputConfig) (string, error) {
	return d.pop(&d.inputs), nil
}

func (d *scriptDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if len(d.confirms) == 0 {
		return false, nil
	}
	out := d.confirms[0]
	d.confirms = d.confirms[1:]
	return out, nil
}

func (d *scriptDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if len(d.selects) == 0 {
		return -1, nil
	}
	out := d.selects[0]
	d.selects = d.selects[1:]
	return out, nil
}

func (d *scriptDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	return d.pop(&d.areas), nil
}

func (d *scriptDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

func (d *scriptDriver) pop(queue *[]string) string {
	if len(*queue) == 0 {
		return ""
	}
	out := (*queue)[0]
	*queue = (*queue)[1:]
	return out
}

func collectFields() []schema.FieldDescriptor {
	return []schema.FieldDescriptor{
		{Key: "zona", Label: "Zona", Type: schema.TypeSelect, Options: []string{"Norte", "Sur"}, Required: true, Active: true},
		{Key: "hijos", Type: schema.TypeInteger, Active: true},
		{Key: "aporta", Type: schema.TypeBoolean, Active: true},
		{Key: "viejo", Type: schema.TypeText, Active: false},
	}
}

func TestCollect(t *testing.T) {
	driver := &scriptDriver{
		selects:  []int{1}, // required select has no blank entry: index 1 = Sur
		inputs:   []string{"3"},
		confirms: []bool{true},
	}
	renderer := New(WithPromptDriver(driver))

	values, err := renderer.Collect(context.Background(), collectFields(), nil)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	want := map[string]any{"zona": "Sur", "hijos": int64(3), "aporta": true}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
	if len(driver.inputs) != 0 {
		t.Error("inactive field must not prompt")
	}
}

func TestCollect_ReasksOnParseFailure(t *testing.T) {
	driver := &scriptDriver{
		selects:  []int{0},
		inputs:   []string{"tres", "3"},
		confirms: []bool{false},
	}
	renderer := New(WithPromptDriver(driver))

	values, err := renderer.Collect(context.Background(), collectFields(), nil)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if values["hijos"] != int64(3) {
		t.Fatalf("expected corrected value, got %v", values["hijos"])
	}
	if len(driver.infos) == 0 {
		t.Fatal("parse failure must explain itself")
	}
}

func TestCollect_SeedsInitialValues(t *testing.T) {
	driver := &scriptDriver{
		selects:  []int{0},
		inputs:   []string{""},
		confirms: []bool{false},
	}
	renderer := New(WithPromptDriver(driver))

	values, err := renderer.Collect(context.Background(), collectFields(), map[string]any{
		"zona":  "Norte",
		"hijos": float64(2),
	})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if values["zona"] != "Norte" {
		t.Fatalf("expected seeded select default kept, got %v", values["zona"])
	}
	// blank input clears the seeded number
	if _, ok := values["hijos"]; ok {
		t.Fatalf("cleared number must prune, got %v", values["hijos"])
	}
}

func TestRender_SerializesJSON(t *testing.T) {
	driver := &scriptDriver{
		selects:  []int{0},
		inputs:   []string{"1"},
		confirms: []bool{false},
	}
	renderer := New(WithPromptDriver(driver))

	out, err := renderer.Render(context.Background(), render.View{Fields: collectFields()}, render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) == "" || out[0] != '{' {
		t.Fatalf("expected JSON object, got %s", out)
	}
}

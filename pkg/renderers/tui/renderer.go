// Package tui collects form input through terminal prompts, one prompt per
// dynamic field, re-asking on invalid input.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/comunavision/go-admin/pkg/form"
	"github.com/comunavision/go-admin/pkg/render"
	"github.com/comunavision/go-admin/pkg/schema"
)

// Option configures the renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the survey-backed default, used by tests and by
// callers embedding the collector in another TUI.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// Renderer implements render.Renderer over interactive prompts. Render walks
// the view's fields, collects values, and serializes the cleaned map.
type Renderer struct {
	driver PromptDriver
}

// New constructs a TUI renderer with the survey driver.
func New(options ...Option) *Renderer {
	r := &Renderer{driver: newSurveyDriver()}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Name implements render.Renderer.
func (r *Renderer) Name() string { return "tui" }

// ContentType implements render.Renderer.
func (r *Renderer) ContentType() string { return "application/json" }

// Render prompts for every field and returns the pruned value map as JSON.
func (r *Renderer) Render(ctx context.Context, view render.View, _ render.Options) ([]byte, error) {
	values, err := r.Collect(ctx, view.Fields, view.Values)
	if err != nil {
		return nil, err
	}
	return json.Marshal(values)
}

// Collect runs the prompt loop over fields, seeded with initial values, and
// returns the submit-ready map. Parse and validation failures re-prompt; only
// an abort or a driver failure ends the walk early.
func (r *Renderer) Collect(ctx context.Context, fields []schema.FieldDescriptor, initial map[string]any) (map[string]any, error) {
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	engine := form.New(fields, form.WithInitial(initial))
	for _, field := range engine.Fields() {
		if !field.Active {
			continue
		}
		if err := r.promptField(ctx, engine, field); err != nil {
			return nil, err
		}
	}

	if problems := engine.Validate(); len(problems) > 0 {
		for _, field := range engine.Fields() {
			if msg, ok := problems[field.Key]; ok {
				_ = r.driver.Info(ctx, msg)
			}
		}
		return nil, errors.New("tui: faltan campos obligatorios")
	}
	return engine.Clean(), nil
}

func (r *Renderer) promptField(ctx context.Context, engine *form.Engine, field schema.FieldDescriptor) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch field.Type {
	case schema.TypeBoolean:
		return r.promptBoolean(ctx, engine, field)
	case schema.TypeSelect:
		return r.promptSelect(ctx, engine, field)
	case schema.TypeTextarea:
		return r.promptTextArea(ctx, engine, field)
	default:
		return r.promptInput(ctx, engine, field)
	}
}

func (r *Renderer) promptInput(ctx context.Context, engine *form.Engine, field schema.FieldDescriptor) error {
	current, _ := engine.Get(field.Key)
	for {
		response, err := r.driver.Input(ctx, InputConfig{
			Message: field.DisplayLabel(),
			Default: promptDefault(current),
			Help:    field.Placeholder,
		})
		if err != nil {
			return err
		}
		if err := engine.Set(field.Key, response); err != nil {
			_ = r.driver.Info(ctx, err.Error())
			continue
		}
		return nil
	}
}

func (r *Renderer) promptTextArea(ctx context.Context, engine *form.Engine, field schema.FieldDescriptor) error {
	current, _ := engine.Get(field.Key)
	response, err := r.driver.TextArea(ctx, TextAreaConfig{
		Message: field.DisplayLabel(),
		Default: promptDefault(current),
		Help:    field.Placeholder,
	})
	if err != nil {
		return err
	}
	return engine.Set(field.Key, response)
}

func (r *Renderer) promptBoolean(ctx context.Context, engine *form.Engine, field schema.FieldDescriptor) error {
	current, _ := engine.Get(field.Key)
	def, _ := current.(bool)
	response, err := r.driver.Confirm(ctx, ConfirmConfig{
		Message: field.DisplayLabel(),
		Default: def,
	})
	if err != nil {
		return err
	}
	engine.SetRaw(field.Key, response)
	return nil
}

// promptSelect offers the configured options plus a leading blank so an
// optional field can be cleared.
func (r *Renderer) promptSelect(ctx context.Context, engine *form.Engine, field schema.FieldDescriptor) error {
	options := make([]string, 0, len(field.Options)+1)
	blank := "(vacío)"
	if !field.Required {
		options = append(options, blank)
	}
	options = append(options, field.Options...)

	defaultIdx := 0
	if current, ok := engine.Get(field.Key); ok {
		if idx := indexOf(options, fmt.Sprint(current)); idx >= 0 {
			defaultIdx = idx
		}
	}

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      field.DisplayLabel(),
			Options:      options,
			DefaultIndex: defaultIdx,
			Help:         field.Placeholder,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(options) {
			_ = r.driver.Info(ctx, fmt.Sprintf("selección inválida para %s", field.DisplayLabel()))
			continue
		}
		selected := options[idx]
		if selected == blank && !field.Required {
			selected = ""
		}
		if err := engine.Set(field.Key, selected); err != nil {
			_ = r.driver.Info(ctx, err.Error())
			continue
		}
		return nil
	}
}

func promptDefault(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprint(v)
	}
}

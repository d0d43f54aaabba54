package web

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/flosch/pongo2/v6"
	"go.uber.org/zap"

	"github.com/comunavision/go-admin/pkg/render"
	"github.com/comunavision/go-admin/pkg/schema"
)

// campoFormFields describes the descriptor editor with the same descriptor
// vocabulary the editor manages. The key is only editable before the first
// save; the active toggle only appears after it.
func campoFormFields(saved bool) []schema.FieldDescriptor {
	typeNames := make([]string, 0, len(schema.Types()))
	for _, t := range schema.Types() {
		typeNames = append(typeNames, string(t))
	}

	fields := []schema.FieldDescriptor{}
	if !saved {
		fields = append(fields, schema.FieldDescriptor{
			Key: "clave", Label: "Clave", Type: schema.TypeText, Required: true, Active: true,
			Placeholder: "p. ej. zona o fecha_ingreso",
		})
	}
	fields = append(fields,
		schema.FieldDescriptor{Key: "etiqueta", Label: "Etiqueta", Type: schema.TypeText, Active: true},
		schema.FieldDescriptor{Key: "tipo", Label: "Tipo", Type: schema.TypeSelect, Options: typeNames, Required: true, Active: true},
		schema.FieldDescriptor{Key: "opciones", Label: "Opciones (una por línea)", Type: schema.TypeTextarea, Active: true},
		schema.FieldDescriptor{Key: "placeholder", Label: "Placeholder", Type: schema.TypeText, Active: true},
		schema.FieldDescriptor{Key: "obligatorio", Label: "Obligatorio", Type: schema.TypeBoolean, Active: true},
	)
	if saved {
		fields = append(fields, schema.FieldDescriptor{Key: "activo", Label: "Activo", Type: schema.TypeBoolean, Active: true})
	}
	return fields
}

func (s *Server) handleCamposList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	fields, err := s.campos.List(ctx)
	if err != nil {
		s.logger.Error("listar campos", zap.Error(err))
		s.renderPage(w, "campos_list.html", pongo2.Context{
			"title": "Campos",
			"error": errorMessage(err),
		})
		return
	}

	rows := make([]map[string]any, 0, len(fields))
	for _, field := range fields {
		rows = append(rows, map[string]any{
			"id":       field.ID,
			"clave":    field.Key,
			"etiqueta": field.DisplayLabel(),
			"tipo":     string(field.Type),
			"required": field.Required,
			"active":   field.Active,
			"opciones": strings.Join(field.Options, ", "),
		})
	}

	s.renderPage(w, "campos_list.html", pongo2.Context{
		"title": "Campos",
		"rows":  rows,
	})
}

func (s *Server) handleCampoNew(w http.ResponseWriter, r *http.Request) {
	view := render.View{
		Title:  "Nuevo campo",
		Fields: campoFormFields(false),
		Values: map[string]any{"tipo": string(schema.TypeText)},
	}
	s.renderFormPage(w, r, view, render.Options{Action: "/campos/new", Method: "POST"})
}

func (s *Server) handleCampoCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	field, view, ok := s.parseCampoForm(r, schema.FieldDescriptor{Active: true}, "Nuevo campo")
	options := render.Options{Action: "/campos/new", Method: "POST"}
	if !ok {
		s.renderFormPage(w, r, view, options)
		return
	}

	saved, err := s.campos.Create(ctx, field)
	if err != nil {
		render.MapError(&view, err)
		s.renderFormPage(w, r, view, options)
		return
	}

	s.logger.Info("campo creado", zap.Int64("id", saved.ID), zap.String("clave", saved.Key))
	seeOther(w, r, "/campos")
}

func (s *Server) handleCampoEditPage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	current, err := s.findCampo(ctx, id)
	if err != nil {
		s.fail(w, err)
		return
	}

	view := render.View{
		Title:  fmt.Sprintf("Editar campo %q", current.Key),
		Fields: campoFormFields(true),
		Values: map[string]any{
			"etiqueta":    current.Label,
			"tipo":        string(current.Type),
			"opciones":    strings.Join(current.Options, "\n"),
			"placeholder": current.Placeholder,
			"obligatorio": current.Required,
			"activo":      current.Active,
		},
	}
	s.renderFormPage(w, r, view, campoEditOptions(id))
}

func (s *Server) handleCampoEdit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	current, err := s.findCampo(ctx, id)
	if err != nil {
		s.fail(w, err)
		return
	}

	field, view, ok := s.parseCampoForm(r, current, fmt.Sprintf("Editar campo %q", current.Key))
	if !ok {
		s.renderFormPage(w, r, view, campoEditOptions(id))
		return
	}

	saved, err := s.campos.Update(ctx, field)
	if err != nil {
		render.MapError(&view, err)
		s.renderFormPage(w, r, view, campoEditOptions(id))
		return
	}

	s.logger.Info("campo actualizado", zap.Int64("id", saved.ID))
	seeOther(w, r, "/campos")
}

func (s *Server) handleCampoDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := s.campos.Delete(ctx, id); err != nil {
		s.fail(w, err)
		return
	}
	s.logger.Info("campo eliminado", zap.Int64("id", id))
	seeOther(w, r, "/campos")
}

// parseCampoForm reads the posted descriptor editor. On a saved descriptor
// the stored key wins over anything posted.
func (s *Server) parseCampoForm(r *http.Request, current schema.FieldDescriptor, title string) (schema.FieldDescriptor, render.View, bool) {
	view := render.View{
		Title:  title,
		Fields: campoFormFields(current.Saved()),
		Values: map[string]any{},
		Errors: map[string]string{},
	}

	if err := r.ParseForm(); err != nil {
		view.FormErrors = render.MergeFormErrors(view.FormErrors, "formulario inválido")
		return schema.FieldDescriptor{}, view, false
	}

	field := schema.FieldDescriptor{
		ID:          current.ID,
		Key:         strings.TrimSpace(r.PostFormValue("clave")),
		Label:       strings.TrimSpace(r.PostFormValue("etiqueta")),
		Type:        schema.NormalizeType(r.PostFormValue("tipo")),
		Options:     schema.ParseOptions(r.PostFormValue("opciones")),
		Placeholder: strings.TrimSpace(r.PostFormValue("placeholder")),
		Required:    checkbox(r, "obligatorio"),
		Active:      true,
		Order:       current.Order,
	}
	if current.Saved() {
		field.Key = current.Key
		field.Active = checkbox(r, "activo")
	}

	view.Values = map[string]any{
		"clave":       field.Key,
		"etiqueta":    field.Label,
		"tipo":        string(field.Type),
		"opciones":    r.PostFormValue("opciones"),
		"placeholder": field.Placeholder,
		"obligatorio": field.Required,
		"activo":      field.Active,
	}

	if field.Key == "" {
		view.Errors["clave"] = "la clave es obligatoria"
	}
	if field.Type == schema.TypeSelect && len(field.Options) == 0 {
		view.Errors["opciones"] = "un campo de selección necesita opciones"
	}

	if len(view.Errors) == 0 {
		view.Errors = nil
		return field, view, true
	}
	return schema.FieldDescriptor{}, view, false
}

func (s *Server) findCampo(ctx context.Context, id int64) (schema.FieldDescriptor, error) {
	fields, err := s.campos.List(ctx)
	if err != nil {
		return schema.FieldDescriptor{}, err
	}
	for _, field := range fields {
		if field.ID == id {
			return field, nil
		}
	}
	return schema.FieldDescriptor{}, fmt.Errorf("web: no existe el campo #%d", id)
}

func campoEditOptions(id int64) render.Options {
	return render.Options{
		Action: fmt.Sprintf("/campos/%d/edit", id),
		Method: "PUT",
		Hidden: map[string]string{"id": strconv.FormatInt(id, 10)},
	}
}

func checkbox(r *http.Request, name string) bool {
	switch strings.ToLower(strings.TrimSpace(r.PostFormValue(name))) {
	case "true", "1", "on", "si", "sí", "yes":
		return true
	default:
		return false
	}
}

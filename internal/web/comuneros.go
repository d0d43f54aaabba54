package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/flosch/pongo2/v6"
	"go.uber.org/zap"

	"github.com/comunavision/go-admin/pkg/comuneros"
	"github.com/comunavision/go-admin/pkg/form"
	"github.com/comunavision/go-admin/pkg/render"
	"github.com/comunavision/go-admin/pkg/schema"
)

// fixedFields are the two mandatory registry columns, expressed as
// descriptors so one renderer draws the whole form.
func fixedFields() []schema.FieldDescriptor {
	return []schema.FieldDescriptor{
		{Key: "nombre", Label: "Nombre", Type: schema.TypeText, Required: true, Active: true},
		{Key: "documento", Label: "Documento", Type: schema.TypeText, Required: true, Active: true},
	}
}

func (s *Server) handleComunerosList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	includeDeleted := r.URL.Query().Get("include_deleted") != ""
	query := r.URL.Query().Get("q")

	records, err := s.comuneros.List(ctx, includeDeleted)
	if err != nil {
		s.logger.Error("listar comuneros", zap.Error(err))
		s.renderPage(w, "comuneros_list.html", pongo2.Context{
			"title":           "Comuneros",
			"error":           errorMessage(err),
			"query":           query,
			"include_deleted": includeDeleted,
		})
		return
	}
	records = comuneros.Filter(records, query)

	columns := comuneros.DynamicColumns(records)
	rows := make([]map[string]any, 0, len(records))
	for _, record := range records {
		cells := make([]string, 0, len(columns))
		for _, column := range columns {
			cells = append(cells, record.RenderValue(column))
		}
		rows = append(rows, map[string]any{
			"id":        record.ID,
			"nombre":    record.Nombre,
			"documento": record.Documento,
			"deleted":   record.IsDeleted,
			"cells":     cells,
		})
	}

	s.renderPage(w, "comuneros_list.html", pongo2.Context{
		"title":           "Comuneros",
		"columns":         columns,
		"rows":            rows,
		"query":           query,
		"include_deleted": includeDeleted,
	})
}

func (s *Server) handleComuneroNew(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	fields, err := s.campos.Active(ctx)
	view := render.View{
		Title:  "Nuevo comunero",
		Fields: append(fixedFields(), fields...),
	}
	if err != nil {
		s.logger.Error("cargar campos", zap.Error(err))
		render.MapError(&view, err)
	}
	s.renderFormPage(w, r, view, render.Options{Action: "/comuneros/new", Method: "POST"})
}

func (s *Server) handleComuneroCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	options := render.Options{Action: "/comuneros/new", Method: "POST"}
	fields, err := s.campos.Active(ctx)
	if err != nil {
		s.logger.Error("cargar campos", zap.Error(err))
		view := render.View{Title: "Nuevo comunero", Fields: fixedFields()}
		render.MapError(&view, err)
		s.renderFormPage(w, r, view, options)
		return
	}

	input, view, ok := s.parseComuneroForm(r, fields, "Nuevo comunero")
	if !ok {
		s.renderFormPage(w, r, view, options)
		return
	}

	record, err := s.comuneros.Create(ctx, input)
	if err != nil {
		render.MapError(&view, err)
		s.renderFormPage(w, r, view, options)
		return
	}

	s.logger.Info("comunero creado", zap.Int64("id", record.ID))
	seeOther(w, r, "/comuneros")
}

func (s *Server) handleComuneroEditPage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	record, err := s.comuneros.Get(ctx, id)
	if err != nil {
		s.fail(w, err)
		return
	}
	fields, err := s.campos.Active(ctx)

	values := map[string]any{"nombre": record.Nombre, "documento": record.Documento}
	for key, value := range record.Datos {
		values[key] = value
	}

	view := render.View{
		Title:  fmt.Sprintf("Editar #%d", record.ID),
		Fields: append(fixedFields(), fields...),
		Values: values,
	}
	if err != nil {
		s.logger.Error("cargar campos", zap.Error(err))
		render.MapError(&view, err)
	}
	s.renderFormPage(w, r, view, editOptions(id))
}

func (s *Server) handleComuneroEdit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	fields, err := s.campos.Active(ctx)
	if err != nil {
		s.logger.Error("cargar campos", zap.Error(err))
		view := render.View{Title: fmt.Sprintf("Editar #%d", id), Fields: fixedFields()}
		render.MapError(&view, err)
		s.renderFormPage(w, r, view, editOptions(id))
		return
	}

	input, view, ok := s.parseComuneroForm(r, fields, fmt.Sprintf("Editar #%d", id))
	if !ok {
		s.renderFormPage(w, r, view, editOptions(id))
		return
	}

	if _, err := s.comuneros.Update(ctx, id, input); err != nil {
		render.MapError(&view, err)
		s.renderFormPage(w, r, view, editOptions(id))
		return
	}

	s.logger.Info("comunero actualizado", zap.Int64("id", id))
	seeOther(w, r, "/comuneros")
}

func (s *Server) handleComuneroDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := s.comuneros.Delete(ctx, id); err != nil {
		s.fail(w, err)
		return
	}
	s.logger.Info("comunero eliminado", zap.Int64("id", id))
	seeOther(w, r, "/comuneros")
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	format := comuneros.ExportFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = comuneros.ExportCSV
	}
	includeDeleted := r.URL.Query().Get("include_deleted") != ""

	export, err := s.comuneros.Export(ctx, format, includeDeleted)
	if err != nil {
		s.fail(w, err)
		return
	}

	contentType := "text/csv; charset=utf-8"
	if format == comuneros.ExportJSON {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	if _, err := w.Write(export.Data); err != nil {
		s.logger.Warn("export write", zap.Error(err))
	}
}

// parseComuneroForm folds the posted form through the dynamic engine. The
// returned view carries submitted values and per-field problems so a failed
// submit re-renders with everything the user typed still in place.
func (s *Server) parseComuneroForm(r *http.Request, fields []schema.FieldDescriptor, title string) (comuneros.Input, render.View, bool) {
	view := render.View{
		Title:  title,
		Fields: append(fixedFields(), fields...),
		Values: map[string]any{},
		Errors: map[string]string{},
	}

	if err := r.ParseForm(); err != nil {
		view.FormErrors = render.MergeFormErrors(view.FormErrors, "formulario inválido")
		return comuneros.Input{}, view, false
	}

	engine := form.New(fields)
	for _, field := range fields {
		if err := engine.Set(field.Key, r.PostFormValue(field.Key)); err != nil {
			view.Errors[field.Key] = userFacing(err)
		}
	}
	for key, message := range engine.Validate() {
		if _, taken := view.Errors[key]; !taken {
			view.Errors[key] = message
		}
	}

	input := comuneros.Input{
		Nombre:    r.PostFormValue("nombre"),
		Documento: r.PostFormValue("documento"),
		Datos:     engine.Clean(),
	}

	view.Values["nombre"] = input.Nombre
	view.Values["documento"] = input.Documento
	for key, value := range engine.Values() {
		view.Values[key] = value
	}
	for _, field := range fixedFields() {
		if raw := r.PostFormValue(field.Key); raw == "" {
			view.Errors[field.Key] = fmt.Sprintf("%s es obligatorio", field.Label)
		}
	}

	if len(view.Errors) == 0 {
		view.Errors = nil
		return input, view, true
	}
	return comuneros.Input{}, view, false
}

// renderFormPage resolves the page renderer by name and wraps its fragment in
// the shared layout.
func (s *Server) renderFormPage(w http.ResponseWriter, r *http.Request, view render.View, options render.Options) {
	renderer, err := s.renderers.Get("html")
	if err != nil {
		s.fail(w, err)
		return
	}
	fragment, err := renderer.Render(r.Context(), view, options)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.renderPage(w, "form_page.html", pongo2.Context{
		"title": view.Title,
		"form":  pongo2.AsSafeValue(string(fragment)),
	})
}

func editOptions(id int64) render.Options {
	return render.Options{
		Action: fmt.Sprintf("/comuneros/%d/edit", id),
		Method: "PUT",
		Hidden: map[string]string{"id": strconv.FormatInt(id, 10)},
	}
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("web: id inválido")
	}
	return id, nil
}

// userFacing strips the package prefix convention off messages headed for a
// form control.
func userFacing(err error) string {
	message := err.Error()
	for _, prefix := range []string{"form: ", "web: "} {
		if len(message) > len(prefix) && message[:len(prefix)] == prefix {
			return message[len(prefix):]
		}
	}
	return message
}

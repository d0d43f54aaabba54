// Package web serves the local admin panel: server-rendered pages over the
// same services the CLI uses.
package web

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/flosch/pongo2/v6"
	"go.uber.org/zap"

	"github.com/comunavision/go-admin/pkg/apiclient"
	"github.com/comunavision/go-admin/pkg/comuneros"
	"github.com/comunavision/go-admin/pkg/config"
	"github.com/comunavision/go-admin/pkg/render"
	"github.com/comunavision/go-admin/pkg/renderers/html"
	"github.com/comunavision/go-admin/pkg/schema"
	"github.com/comunavision/go-admin/pkg/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server is the admin panel HTTP handler.
type Server struct {
	logger    *zap.Logger
	client    *apiclient.Client
	session   *session.Store
	comuneros *comuneros.Service
	campos    *schema.Service
	renderers *render.Registry
	pages     *pongo2.TemplateSet
	cssVars   string
	mux       *http.ServeMux

	mu       sync.Mutex
	compiled map[string]*pongo2.Template
}

// New wires the panel over an already-constructed service graph.
func New(cfg config.Config, logger *zap.Logger, client *apiclient.Client, store *session.Store) (*Server, error) {
	selection := html.SelectionFor(cfg.Theme, cfg.ThemeVariant)
	forms, err := html.New(html.WithThemeSelection(selection))
	if err != nil {
		return nil, err
	}

	renderers := render.NewRegistry()
	if err := renderers.Register(forms); err != nil {
		return nil, err
	}

	pages, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("web: embedded templates: %w", err)
	}

	s := &Server{
		logger:    logger,
		client:    client,
		session:   store,
		comuneros: comuneros.NewService(client),
		campos:    schema.NewService(client),
		renderers: renderers,
		pages:     pongo2.NewSet("comunavision-web", pongo2.NewFSLoader(pages)),
		cssVars:   html.CSSVars(selection),
		mux:       http.NewServeMux(),
		compiled:  map[string]*pongo2.Template{},
	}

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /login", s.handleLoginPage)
	s.mux.HandleFunc("POST /login", s.handleLogin)
	s.mux.HandleFunc("GET /logout", s.handleLogout)

	s.mux.Handle("GET /{$}", s.authed(s.handleDashboard))

	s.mux.Handle("GET /comuneros", s.authed(s.handleComunerosList))
	s.mux.Handle("GET /comuneros/new", s.authed(s.handleComuneroNew))
	s.mux.Handle("POST /comuneros/new", s.authed(s.handleComuneroCreate))
	s.mux.Handle("GET /comuneros/{id}/edit", s.authed(s.handleComuneroEditPage))
	s.mux.Handle("POST /comuneros/{id}/edit", s.authed(s.handleComuneroEdit))
	s.mux.Handle("POST /comuneros/{id}/delete", s.authed(s.handleComuneroDelete))
	s.mux.Handle("GET /comuneros/export", s.authed(s.handleExport))

	s.mux.Handle("GET /campos", s.authed(s.handleCamposList))
	s.mux.Handle("GET /campos/new", s.authed(s.handleCampoNew))
	s.mux.Handle("POST /campos/new", s.authed(s.handleCampoCreate))
	s.mux.Handle("GET /campos/{id}/edit", s.authed(s.handleCampoEditPage))
	s.mux.Handle("POST /campos/{id}/edit", s.authed(s.handleCampoEdit))
	s.mux.Handle("POST /campos/{id}/delete", s.authed(s.handleCampoDelete))
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// authed redirects anonymous visitors to the login page.
func (s *Server) authed(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.session.Authenticated() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	})
}

// renderPage executes one page template inside the shared layout context.
func (s *Server) renderPage(w http.ResponseWriter, name string, data pongo2.Context) {
	tmpl, err := s.pageTemplate(name)
	if err != nil {
		s.fail(w, err)
		return
	}

	ctx := pongo2.Context{
		"authenticated": s.session.Authenticated(),
		"css_vars":      pongo2.AsSafeValue(s.cssVars),
	}
	ctx.Update(data)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteWriter(ctx, w); err != nil {
		s.logger.Error("render page", zap.String("template", name), zap.Error(err))
	}
}

func (s *Server) pageTemplate(name string) (*pongo2.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tmpl, ok := s.compiled[name]; ok {
		return tmpl, nil
	}
	tmpl, err := s.pages.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("web: load template %q: %w", name, err)
	}
	s.compiled[name] = tmpl
	return tmpl, nil
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	s.logger.Error("request failed", zap.Error(err))
	http.Error(w, "error interno", http.StatusInternalServerError)
}

// errorMessage prefers the backend's own wording when the failure carries it.
func errorMessage(err error) string {
	if apiErr, ok := apiclient.AsError(err); ok {
		return apiErr.Message
	}
	return err.Error()
}

// seeOther handles the one redirect quirk that matters after a mutation.
func seeOther(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// requestContext bounds upstream calls so a hung backend cannot pin a panel
// worker forever.
func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 30*time.Second)
}

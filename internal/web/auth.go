package web

import (
	"errors"
	"net/http"

	"github.com/flosch/pongo2/v6"
	"go.uber.org/zap"

	"github.com/comunavision/go-admin/pkg/session"
)

const loginTemplate = "login.html"

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if s.session.Authenticated() {
		seeOther(w, r, "/")
		return
	}
	s.renderPage(w, loginTemplate, pongo2.Context{"title": "Iniciar sesión"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.fail(w, err)
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	ctx, cancel := requestContext(r)
	defer cancel()

	if err := s.session.Login(ctx, s.client, username, password); err != nil {
		message := "no se pudo iniciar sesión"
		if errors.Is(err, session.ErrBadCredentials) {
			message = "usuario o contraseña incorrectos"
		}
		s.logger.Warn("login rejected", zap.String("usuario", username), zap.Error(err))
		s.renderPage(w, loginTemplate, pongo2.Context{
			"title":    "Iniciar sesión",
			"error":    message,
			"username": username,
		})
		return
	}

	s.logger.Info("sesión iniciada", zap.String("usuario", username))
	seeOther(w, r, "/")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Logout(); err != nil {
		s.logger.Warn("logout", zap.Error(err))
	}
	seeOther(w, r, "/login")
}

// Package session owns the admin credential lifecycle: anonymous until a
// login exchange succeeds, authenticated until logout or a forced reset.
// The store subscribes to the transport's unauthorized notification so an
// expired token observed anywhere collapses the whole session, exactly once.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/comunavision/go-admin/pkg/apiclient"
)

// ErrNotAuthenticated is returned by operations that need a session token.
var ErrNotAuthenticated = errors.New("session: not authenticated")

// ErrBadCredentials wraps a rejected login exchange.
var ErrBadCredentials = errors.New("session: credenciales inválidas")

const loginPath = "/auth/login"

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Store holds the current token, mirrored to durable storage. The zero state
// is derived from storage at construction so sessions survive restarts.
type Store struct {
	mu      sync.RWMutex
	storage TokenStorage
	token   string
}

// NewStore loads the persisted token, if any, and returns the store.
func NewStore(storage TokenStorage) (*Store, error) {
	if storage == nil {
		return nil, errors.New("session: storage is required")
	}
	token, err := storage.Load()
	if err != nil {
		return nil, err
	}
	return &Store{storage: storage, token: token}, nil
}

// Token implements apiclient.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a token is present.
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

// Login exchanges credentials for a token using the form-encoded OAuth2
// password flow and persists the result. The exchange itself never carries a
// bearer header.
func (s *Store) Login(ctx context.Context, client *apiclient.Client, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return fmt.Errorf("%w: usuario y contraseña son obligatorios", ErrBadCredentials)
	}

	res, err := client.Do(ctx, "POST", loginPath, apiclient.Options{
		Form:             url.Values{"username": {username}, "password": {password}},
		NoAuth:           true,
		KeepSessionOn401: true,
	})
	if err != nil {
		if apiclient.IsStatus(err, 401) {
			return fmt.Errorf("%w: %v", ErrBadCredentials, err)
		}
		return err
	}

	var payload loginResponse
	if err := res.JSON(&payload); err != nil {
		return err
	}
	if payload.AccessToken == "" {
		return errors.New("session: login response missing access_token")
	}

	if err := s.storage.Save(payload.AccessToken); err != nil {
		return err
	}

	s.mu.Lock()
	s.token = payload.AccessToken
	s.mu.Unlock()
	return nil
}

// Logout clears the token and its persisted copy.
func (s *Store) Logout() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return s.storage.Clear()
}

// HandleUnauthorized is the forced-logout path, wired as the api client's
// 401 handler. Storage failures are swallowed: the in-memory state must drop
// regardless, and there is nobody to report to from the transport callback.
func (s *Store) HandleUnauthorized() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	_ = s.storage.Clear()
}

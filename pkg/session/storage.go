package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TokenStorage persists the session token across process restarts, the
// durable-storage counterpart of the browser's localStorage slot.
type TokenStorage interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// tokenFileName keeps the storage key the web client used.
const tokenFileName = "cv_token"

// FileStorage keeps the token in a 0600 file under the user config dir.
type FileStorage struct {
	path string
}

// NewFileStorage stores the token at the given path. An empty path resolves
// to DefaultTokenPath.
func NewFileStorage(path string) (*FileStorage, error) {
	if strings.TrimSpace(path) == "" {
		resolved, err := DefaultTokenPath()
		if err != nil {
			return nil, err
		}
		path = resolved
	}
	return &FileStorage{path: path}, nil
}

// DefaultTokenPath resolves the per-user token location.
func DefaultTokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("session: resolve config dir: %w", err)
	}
	return filepath.Join(dir, "comunavision", tokenFileName), nil
}

// Path reports where the token lives.
func (s *FileStorage) Path() string { return s.path }

func (s *FileStorage) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("session: read token: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileStorage) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session: create token dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("session: write token: %w", err)
	}
	return nil
}

func (s *FileStorage) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: clear token: %w", err)
	}
	return nil
}

// MemoryStorage is an in-process TokenStorage for tests and ephemeral use.
type MemoryStorage struct {
	token string
}

func NewMemoryStorage() *MemoryStorage { return &MemoryStorage{} }

func (s *MemoryStorage) Load() (string, error) { return s.token, nil }

func (s *MemoryStorage) Save(token string) error {
	s.token = token
	return nil
}

func (s *MemoryStorage) Clear() error {
	s.token = ""
	return nil
}

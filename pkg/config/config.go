// Package config loads the admin tool configuration: YAML file when present,
// .env file, then CV_* environment overrides, in that order of increasing
// precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/comunavision/go-admin/pkg/apiclient"
)

// Config is the resolved configuration for both the CLI and the web panel.
type Config struct {
	// APIURL is the backend base URL.
	APIURL string `yaml:"api_url"`
	// TokenPath overrides where the session token is persisted.
	TokenPath string `yaml:"token_path"`
	// Theme selects the admin look.
	Theme string `yaml:"theme"`
	// ThemeVariant selects a variant of the theme (e.g. dark).
	ThemeVariant string `yaml:"theme_variant"`
	// Web holds the panel's listen settings.
	Web Web `yaml:"web"`
	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose"`
}

// Web configures the local admin panel server.
type Web struct {
	Addr string `yaml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIURL: apiclient.DefaultBaseURL,
		Theme:  "comuna",
		Web:    Web{Addr: "127.0.0.1:8080"},
	}
}

// DefaultPath is the conventional config location.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "comunavision", "config.yaml")
}

// Load resolves the configuration. A missing file at the default path is
// fine; an explicitly named file must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultPath()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
			// defaults apply
		default:
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	// .env is developer convenience; absence is the normal case.
	_ = godotenv.Load()

	applyEnv(&cfg)

	if strings.TrimSpace(cfg.APIURL) == "" {
		cfg.APIURL = apiclient.DefaultBaseURL
	}
	if strings.TrimSpace(cfg.Web.Addr) == "" {
		cfg.Web.Addr = Default().Web.Addr
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CV_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("CV_TOKEN_PATH"); v != "" {
		cfg.TokenPath = v
	}
	if v := os.Getenv("CV_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("CV_THEME_VARIANT"); v != "" {
		cfg.ThemeVariant = v
	}
	if v := os.Getenv("CV_WEB_ADDR"); v != "" {
		cfg.Web.Addr = v
	}
	if v := os.Getenv("CV_VERBOSE"); v != "" {
		cfg.Verbose = v == "1" || strings.EqualFold(v, "true")
	}
}

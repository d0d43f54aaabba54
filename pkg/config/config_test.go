package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "http://localhost:8000" {
		t.Fatalf("unexpected default api url %q", cfg.APIURL)
	}
	if cfg.Web.Addr != "127.0.0.1:8080" {
		t.Fatalf("unexpected default addr %q", cfg.Web.Addr)
	}
}

func TestLoad_FileAndEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	payload := "api_url: http://padron.interno:9000\ntheme: sierra\nweb:\n  addr: 0.0.0.0:9090\n"
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	t.Setenv("CV_API_URL", "http://override:8000")
	t.Setenv("CV_VERBOSE", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "http://override:8000" {
		t.Fatalf("env must beat file, got %q", cfg.APIURL)
	}
	if cfg.Theme != "sierra" {
		t.Fatalf("file value lost, got %q", cfg.Theme)
	}
	if cfg.Web.Addr != "0.0.0.0:9090" {
		t.Fatalf("nested file value lost, got %q", cfg.Web.Addr)
	}
	if !cfg.Verbose {
		t.Fatal("CV_VERBOSE not applied")
	}
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("explicit missing config must error")
	}
}

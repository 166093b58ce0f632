package config

import (
	"path/filepath"
	"testing"
	"time"
)

func withoutEnvFile(t *testing.T) {
	t.Helper()
	prev := EnvFile
	EnvFile = filepath.Join(t.TempDir(), "missing.env")
	t.Cleanup(func() { EnvFile = prev })
}

func TestLoadDefaults(t *testing.T) {
	withoutEnvFile(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Endpoint != "https://packagist.org" {
		t.Errorf("expected default endpoint, got %q", cfg.Endpoint)
	}
	if cfg.OutputFormat != "json" {
		t.Errorf("expected json output, got %q", cfg.OutputFormat)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Errorf("expected 15s timeout, got %v", cfg.HTTPTimeout)
	}
	if cfg.ArchiveType != "bbolt" || cfg.ArchivePath == "" {
		t.Errorf("unexpected archive settings %q %q", cfg.ArchiveType, cfg.ArchivePath)
	}
	if cfg.ArchiveTTL != 30*24*time.Hour {
		t.Errorf("expected 30 day ttl, got %v", cfg.ArchiveTTL)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	withoutEnvFile(t)
	t.Setenv("PACKAGIST_ENDPOINT", " http://localhost:8080 ")
	t.Setenv("OUTPUT_FORMAT", "YAML")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "3")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Endpoint != "http://localhost:8080" {
		t.Errorf("expected endpoint from env, got %q", cfg.Endpoint)
	}
	if cfg.OutputFormat != "yaml" {
		t.Errorf("expected yaml output, got %q", cfg.OutputFormat)
	}
	if cfg.HTTPTimeout != 3*time.Second {
		t.Errorf("expected 3s timeout, got %v", cfg.HTTPTimeout)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected debug log level, got %q", cfg.LogLevel)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"output format", "OUTPUT_FORMAT", "xml"},
		{"timeout", "HTTP_TIMEOUT_SECONDS", "0"},
		{"archive ttl", "ARCHIVE_TTL_SECONDS", "-1"},
		{"cleanup interval", "ARCHIVE_CLEANUP_INTERVAL_SECONDS", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withoutEnvFile(t)
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.val)
			}
		})
	}
}

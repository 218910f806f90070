package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TAMIZ_STORAGE_DIR", dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StorageDir != dir {
		t.Errorf("StorageDir: got %q, want %q", cfg.StorageDir, dir)
	}
	if cfg.DefaultClient != "gemini" {
		t.Errorf("DefaultClient: got %q, want gemini", cfg.DefaultClient)
	}
	if diff := cmp.Diff([]string{"think", "plan", "status"}, cfg.Tags); diff != "" {
		t.Errorf("Tags mismatch (-want +got):\n%s", diff)
	}
	if cfg.IncludeTags {
		t.Error("IncludeTags should default to false")
	}
	if _, err := os.Stat(filepath.Join(dir, "sessions")); err != nil {
		t.Errorf("sessions dir not created: %v", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TAMIZ_STORAGE_DIR", dir)

	yamlBody := `
default_client: claude-code
include_tags: true
tags: [plan]
clients:
  claude-code:
    bin_path: /usr/local/bin/claude
    models:
      high: opus
`
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(yamlBody), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultClient != "claude-code" {
		t.Errorf("DefaultClient: got %q, want claude-code", cfg.DefaultClient)
	}
	if !cfg.IncludeTags {
		t.Error("IncludeTags not read from file")
	}
	if diff := cmp.Diff([]string{"plan"}, cfg.Tags); diff != "" {
		t.Errorf("Tags mismatch (-want +got):\n%s", diff)
	}
	cc, ok := cfg.Clients["claude-code"]
	if !ok || cc.BinPath != "/usr/local/bin/claude" || cc.Models["high"] != "opus" {
		t.Errorf("client config mismatch: %+v", cfg.Clients)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TAMIZ_STORAGE_DIR", dir)
	t.Setenv("TAMIZ_DEFAULT_CLIENT", "gemini")
	t.Setenv("TAMIZ_TAGS", "think, status")
	t.Setenv("TAMIZ_INCLUDE_TAGS", "true")

	if err := os.WriteFile(filepath.Join(dir, ConfigFileName),
		[]byte("default_client: claude-code\ntags: [plan]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultClient != "gemini" {
		t.Errorf("env override lost: DefaultClient = %q", cfg.DefaultClient)
	}
	if diff := cmp.Diff([]string{"think", "status"}, cfg.Tags); diff != "" {
		t.Errorf("Tags mismatch (-want +got):\n%s", diff)
	}
	if !cfg.IncludeTags {
		t.Error("TAMIZ_INCLUDE_TAGS=true not applied")
	}
}

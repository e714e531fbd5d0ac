package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if cfg.Codec.Binary != "magick" {
		t.Fatalf("unexpected default codec binary: %q", cfg.Codec.Binary)
	}
	if cfg.Convert.DefaultFormat != "heic" {
		t.Fatalf("unexpected default format: %q", cfg.Convert.DefaultFormat)
	}
	if cfg.Convert.Workers != 0 {
		t.Fatalf("expected workers=0 (auto), got %d", cfg.Convert.Workers)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[codec]
binary = "  magick  "
extra_args = "-strip"

[convert]
workers = 3
default_format = "JPEG"

[history]
enabled = true
path = "` + filepath.Join(dir, "hist", "history.db") + `"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if resolved != path {
		t.Fatalf("resolved path mismatch: %q", resolved)
	}
	if cfg.Codec.Binary != "magick" {
		t.Fatalf("binary not trimmed: %q", cfg.Codec.Binary)
	}
	if cfg.Convert.Workers != 3 {
		t.Fatalf("workers not applied: %d", cfg.Convert.Workers)
	}
	if cfg.Convert.DefaultFormat != "jpeg" {
		t.Fatalf("default_format not lowercased: %q", cfg.Convert.DefaultFormat)
	}
	if !filepath.IsAbs(cfg.History.Path) {
		t.Fatalf("history path not absolute: %q", cfg.History.Path)
	}
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[convert]\ndefault_format = \"webp\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "default_format") {
		t.Fatalf("expected default_format error, got %v", err)
	}
}

func TestLoadRejectsNegativeWorkers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[convert]\nworkers = -2\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected error for negative workers")
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("create sample: %v", err)
	}
	if _, _, exists, err := Load(path); err != nil || !exists {
		t.Fatalf("sample config should load cleanly: exists=%v err=%v", exists, err)
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	got, err := ExpandPath("~/x")
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if got != filepath.Join(home, "x") {
		t.Fatalf("expand mismatch: %q", got)
	}
}

package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/complianceops/scorecard/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SCORECARD_API_URL", "")
	t.Setenv("SCORECARD_TOKEN", "")
}

func TestLoad_ReadsFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
api:
  base_url: https://scorecard.example.com/api
  token: file-token
  timeout: 10s
log:
  level: debug
`)

	cfg, err := (&config.DefaultLoader{Path: path}).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.BaseURL != "https://scorecard.example.com/api" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Token != "file-token" {
		t.Errorf("Token = %q", cfg.API.Token)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v; want 10s", cfg.API.Timeout)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Level = %q; want debug", cfg.Log.Level)
	}
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "absent.yaml")

	cfg, err := (&config.DefaultLoader{Path: path}).Load()
	if err != nil {
		t.Fatalf("a missing file must not fail the load: %v", err)
	}
	if cfg.API.BaseURL != "" {
		t.Errorf("BaseURL = %q; want empty", cfg.API.BaseURL)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
api:
  base_url: https://scorecard.example.com
`)

	cfg, err := (&config.DefaultLoader{Path: path}).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v; want the 30s default", cfg.API.Timeout)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Level = %q; want the info default", cfg.Log.Level)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://from-file.example.com
  token: file-token
`)
	t.Setenv("SCORECARD_API_URL", "https://from-env.example.com")
	t.Setenv("SCORECARD_TOKEN", "env-token")

	cfg, err := (&config.DefaultLoader{Path: path}).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.BaseURL != "https://from-env.example.com" {
		t.Errorf("BaseURL = %q; the environment must win", cfg.API.BaseURL)
	}
	if cfg.API.Token != "env-token" {
		t.Errorf("Token = %q; the environment must win", cfg.API.Token)
	}
}

func TestLoad_EmptyEnvironmentKeepsFileValues(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
api:
  base_url: https://from-file.example.com
  token: file-token
`)

	cfg, err := (&config.DefaultLoader{Path: path}).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.BaseURL != "https://from-file.example.com" {
		t.Errorf("BaseURL = %q; an empty variable is no override", cfg.API.BaseURL)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "api: [not a mapping")

	_, err := (&config.DefaultLoader{Path: path}).Load()
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error %q must name the file", err.Error())
	}
}

func TestConfigPath_Override(t *testing.T) {
	loader := &config.DefaultLoader{Path: "/tmp/custom.yaml"}
	if got := loader.ConfigPath(); got != "/tmp/custom.yaml" {
		t.Errorf("ConfigPath = %q", got)
	}
}

func TestConfigPath_DefaultIsUnderHome(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	loader := &config.DefaultLoader{}
	want := filepath.Join(os.Getenv("HOME"), ".config", "scorecard", "config.yaml")
	if got := loader.ConfigPath(); got != want {
		t.Errorf("ConfigPath = %q; want %q", got, want)
	}
}

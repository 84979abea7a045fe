package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("WEB_PORT", "")
	t.Setenv("YOUTUBE_MAX_RESULTS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.WebPort != "3000" || cfg.APIPort != "8080" {
		t.Errorf("ports = %s/%s, want 3000/8080", cfg.WebPort, cfg.APIPort)
	}
	if cfg.YouTubeMaxResults != 10 {
		t.Errorf("YouTubeMaxResults = %d, want 10", cfg.YouTubeMaxResults)
	}
	if cfg.LoginPath != "/login" {
		t.Errorf("LoginPath = %q, want /login", cfg.LoginPath)
	}
}

func TestLoadFile_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "skillhive.yaml")
	content := "web_port: \"4000\"\nyoutube_max_results: 25\nsession_ttl: 2h\ngemini_model: gemini-test\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("WEB_PORT", "5000")
	t.Setenv("YOUTUBE_MAX_RESULTS", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("GEMINI_MODEL", "")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.WebPort != "5000" {
		t.Errorf("WebPort = %q, want env value 5000", cfg.WebPort)
	}
	if cfg.YouTubeMaxResults != 25 {
		t.Errorf("YouTubeMaxResults = %d, want 25 from file", cfg.YouTubeMaxResults)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Errorf("SessionTTL = %s, want 2h", cfg.SessionTTL)
	}
	if cfg.GeminiModel != "gemini-test" {
		t.Errorf("GeminiModel = %q, want gemini-test", cfg.GeminiModel)
	}
}

func TestLoad_EmptyOrderOmitsParameter(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("YOUTUBE_ORDER", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.YouTubeOrder != "" {
		t.Errorf("YouTubeOrder = %q, want empty", cfg.YouTubeOrder)
	}
}

func TestLoad_InvalidNumbers(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	t.Setenv("YOUTUBE_MAX_RESULTS", "ten")
	if _, err := Load(); err == nil {
		t.Error("expected error for non-numeric YOUTUBE_MAX_RESULTS")
	}

	t.Setenv("YOUTUBE_MAX_RESULTS", "")
	t.Setenv("SESSION_TTL", "forever")
	if _, err := Load(); err == nil {
		t.Error("expected error for invalid SESSION_TTL")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

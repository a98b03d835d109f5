package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/javiermolinar/awase/internal/slot"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Event.DefaultStart != "09:00" {
		t.Errorf("expected default_start 09:00, got %s", cfg.Event.DefaultStart)
	}
	if cfg.Event.DefaultEnd != "18:00" {
		t.Errorf("expected default_end 18:00, got %s", cfg.Event.DefaultEnd)
	}
	if cfg.Event.ExpiryDays != 30 {
		t.Errorf("expected expiry_days 30, got %d", cfg.Event.ExpiryDays)
	}
	if cfg.LLM.Provider != "ollama" {
		t.Errorf("expected provider ollama, got %s", cfg.LLM.Provider)
	}
	if cfg.UI.Input != InputPointer {
		t.Errorf("expected input pointer, got %s", cfg.UI.Input)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Event.DefaultStart != "09:00" {
		t.Errorf("expected default default_start, got %s", cfg.Event.DefaultStart)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[event]
default_start = "08:00"
default_end = "16:30"
expiry_days = 7
weekdays = ["monday", "saturday"]

[llm]
provider = "lmstudio"
model = "qwen2.5"
base_url = "http://localhost:1234/v1"

[storage]
db_path = "/tmp/awase-test.db"

[ui]
theme = "latte"
input = "touch"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Event.DefaultStart != "08:00" || cfg.Event.DefaultEnd != "16:30" {
		t.Errorf("event hours = %s-%s, want 08:00-16:30", cfg.Event.DefaultStart, cfg.Event.DefaultEnd)
	}
	if cfg.Event.ExpiryDays != 7 {
		t.Errorf("expected expiry_days 7, got %d", cfg.Event.ExpiryDays)
	}
	if !cfg.IsCandidateDay("Saturday") || cfg.IsCandidateDay("tuesday") {
		t.Errorf("weekdays = %v", cfg.Event.Weekdays)
	}
	if cfg.LLM.Provider != "lmstudio" || cfg.LLM.Model != "qwen2.5" {
		t.Errorf("llm = %+v", cfg.LLM)
	}
	if cfg.Storage.DBPath != "/tmp/awase-test.db" {
		t.Errorf("expected db_path /tmp/awase-test.db, got %s", cfg.Storage.DBPath)
	}
	if cfg.UI.Theme != "latte" || cfg.UI.Input != InputTouch {
		t.Errorf("ui = %+v", cfg.UI)
	}
	// Unset keys keep their defaults.
	if cfg.UI.CellWidthPx != 8 {
		t.Errorf("expected default cell_width_px 8, got %d", cfg.UI.CellWidthPx)
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[event]
default_start = "08:00"
default_end = "16:00"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("AWASE_DEFAULT_START", "10:00")
	t.Setenv("AWASE_EXPIRY_DAYS", "3")
	t.Setenv("AWASE_LLM_MODEL", "gpt-4o-mini")
	t.Setenv("AWASE_DB_PATH", "~/awase/test.db")
	t.Setenv("AWASE_UI_INPUT", "touch")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Event.DefaultStart != "10:00" {
		t.Errorf("expected default_start 10:00 from env, got %s", cfg.Event.DefaultStart)
	}
	if cfg.Event.DefaultEnd != "16:00" {
		t.Errorf("expected default_end 16:00 from file, got %s", cfg.Event.DefaultEnd)
	}
	if cfg.Event.ExpiryDays != 3 {
		t.Errorf("expected expiry_days 3 from env, got %d", cfg.Event.ExpiryDays)
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("expected model gpt-4o-mini from env, got %s", cfg.LLM.Model)
	}
	if cfg.UI.Input != InputTouch {
		t.Errorf("expected input touch from env, got %s", cfg.UI.Input)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, "awase", "test.db"); cfg.Storage.DBPath != want {
		t.Errorf("db_path = %s, want %s", cfg.Storage.DBPath, want)
	}
}

func TestLoadFrom_BadEnvNumber(t *testing.T) {
	t.Setenv("AWASE_EXPIRY_DAYS", "soon")
	if _, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for non-numeric AWASE_EXPIRY_DAYS")
	}
}

func TestLoadFrom_InvalidTOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[event\n"), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if _, err := LoadFrom(configPath); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"malformed start", func(c *Config) { c.Event.DefaultStart = "9:00" }},
		{"off-grid end", func(c *Config) { c.Event.DefaultEnd = "17:15" }},
		{"start after end", func(c *Config) { c.Event.DefaultStart, c.Event.DefaultEnd = "18:00", "09:00" }},
		{"start equals end", func(c *Config) { c.Event.DefaultEnd = c.Event.DefaultStart }},
		{"zero expiry", func(c *Config) { c.Event.ExpiryDays = 0 }},
		{"no weekdays", func(c *Config) { c.Event.Weekdays = nil }},
		{"bad weekday", func(c *Config) { c.Event.Weekdays = []string{"funday"} }},
		{"bad provider", func(c *Config) { c.LLM.Provider = "copilot" }},
		{"empty db path", func(c *Config) { c.Storage.DBPath = "" }},
		{"bad theme", func(c *Config) { c.UI.Theme = "frappe" }},
		{"bad input", func(c *Config) { c.UI.Input = "pen" }},
		{"zero cell width", func(c *Config) { c.UI.CellWidthPx = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidate_OffGridWrapsSentinel(t *testing.T) {
	cfg := Default()
	cfg.Event.DefaultStart = "09:10"
	if err := cfg.Validate(); !errors.Is(err, slot.ErrOffGrid) {
		t.Errorf("Validate() error = %v, want ErrOffGrid", err)
	}
}

func TestValidate_EndOfDay(t *testing.T) {
	cfg := Default()
	cfg.Event.DefaultEnd = "24:00"
	if err := cfg.Validate(); err != nil {
		t.Errorf("24:00 should be a valid default_end: %v", err)
	}
}

func TestShareURL(t *testing.T) {
	cfg := Default()
	cfg.Event.BaseURL = "https://example.com/"
	if got := cfg.ShareURL("abc123"); got != "https://example.com/e/abc123" {
		t.Errorf("ShareURL() = %q", got)
	}
}

func TestSaveTo(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.toml")

	cfg := Default()
	cfg.Event.DefaultStart = "07:30"
	cfg.UI.Theme = "latte"
	cfg.Storage.DBPath = filepath.Join(tmpDir, "awase.db")

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.Event.DefaultStart != "07:30" {
		t.Errorf("expected default_start 07:30, got %s", loaded.Event.DefaultStart)
	}
	if loaded.UI.Theme != "latte" {
		t.Errorf("expected theme latte, got %s", loaded.UI.Theme)
	}
}

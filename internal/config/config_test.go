package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Hours.BusinessStart != "09:00" {
		t.Errorf("expected business_start 09:00, got %s", cfg.Hours.BusinessStart)
	}
	if cfg.Hours.BusinessEnd != "17:00" {
		t.Errorf("expected business_end 17:00, got %s", cfg.Hours.BusinessEnd)
	}
	if cfg.Hours.EveningStart != "18:00" || cfg.Hours.EveningEnd != "22:00" {
		t.Errorf("expected evening 18:00-22:00, got %s-%s", cfg.Hours.EveningStart, cfg.Hours.EveningEnd)
	}
	if cfg.LLM.Provider != "copilot" {
		t.Errorf("expected provider copilot, got %s", cfg.LLM.Provider)
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("expected theme dark, got %s", cfg.UI.Theme)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Should return defaults
	if cfg.Hours.BusinessStart != "09:00" {
		t.Errorf("expected default business_start, got %s", cfg.Hours.BusinessStart)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[user]
email = "ana@example.com"
name = "Ana"

[hours]
business_start = "08:00"
business_end = "16:00"
evening_start = "19:00"
evening_end = "23:00"

[llm]
provider = "ollama"
model = "llama3"
base_url = "http://localhost:11435"

[storage]
db_path = "/tmp/test.db"
timeout = "3s"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.User.Email != "ana@example.com" || cfg.User.Name != "Ana" {
		t.Errorf("unexpected user %+v", cfg.User)
	}
	if from, to := cfg.Hours.BusinessBand(); from != 8 || to != 16 {
		t.Errorf("business band = %d-%d", from, to)
	}
	if from, to := cfg.Hours.EveningBand(); from != 19 || to != 23 {
		t.Errorf("evening band = %d-%d", from, to)
	}
	if cfg.LLM.Provider != "ollama" {
		t.Errorf("expected provider ollama, got %s", cfg.LLM.Provider)
	}
	if cfg.Storage.DBPath != "/tmp/test.db" {
		t.Errorf("expected db_path /tmp/test.db, got %s", cfg.Storage.DBPath)
	}
	if d, _ := cfg.Storage.TimeoutDuration(); d != 3*time.Second {
		t.Errorf("expected timeout 3s, got %s", d)
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[hours]
business_start = "08:00"
business_end = "16:00"

[storage]
db_path = "/tmp/test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("FREETOGETHER_BUSINESS_START", "10:00")
	t.Setenv("FREETOGETHER_LLM_MODEL", "gpt-4o-mini")
	t.Setenv("FREETOGETHER_USER_EMAIL", "bo@example.com")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Env should override file
	if cfg.Hours.BusinessStart != "10:00" {
		t.Errorf("expected business_start 10:00 from env, got %s", cfg.Hours.BusinessStart)
	}
	// File value should be kept when no env override
	if cfg.Hours.BusinessEnd != "16:00" {
		t.Errorf("expected business_end 16:00 from file, got %s", cfg.Hours.BusinessEnd)
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("expected model gpt-4o-mini from env, got %s", cfg.LLM.Model)
	}
	if cfg.User.Email != "bo@example.com" {
		t.Errorf("expected email from env, got %s", cfg.User.Email)
	}
}

func TestLoadFrom_DotEnv(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	dotenv := "FREETOGETHER_USER_NAME=Dot Env\nFREETOGETHER_UI_THEME=light\n"
	if err := os.WriteFile(filepath.Join(tmpDir, ".env"), []byte(dotenv), 0o644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	// process environment wins over .env
	t.Setenv("FREETOGETHER_UI_THEME", "dark")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.User.Name != "Dot Env" {
		t.Errorf("expected name from .env, got %q", cfg.User.Name)
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("expected theme from env, got %q", cfg.UI.Theme)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"business start missing zero", func(c *Config) { c.Hours.BusinessStart = "9:00" }},
		{"business start after end", func(c *Config) { c.Hours.BusinessStart = "18:00"; c.Hours.BusinessEnd = "09:00" }},
		{"evening equal", func(c *Config) { c.Hours.EveningStart = "20:00"; c.Hours.EveningEnd = "20:00" }},
		{"hour out of range", func(c *Config) { c.Hours.EveningEnd = "24:30" }},
		{"bad email", func(c *Config) { c.User.Email = "nobody" }},
		{"empty db path", func(c *Config) { c.Storage.DBPath = "" }},
		{"bad timeout", func(c *Config) { c.Storage.Timeout = "soon" }},
		{"negative timeout", func(c *Config) { c.Storage.Timeout = "-1s" }},
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

func TestIdentity(t *testing.T) {
	cfg := Default()
	if _, err := cfg.Identity(); !errors.Is(err, ErrNoIdentity) {
		t.Errorf("expected ErrNoIdentity, got %v", err)
	}

	cfg.User.Email = " Ana@Example.com "
	email, err := cfg.Identity()
	if err != nil || email != "ana@example.com" {
		t.Errorf("identity = %q, %v", email, err)
	}
	if cfg.DisplayName() != cfg.User.Email {
		t.Errorf("display name should fall back to email")
	}
	cfg.User.Name = "Ana"
	if cfg.DisplayName() != "Ana" {
		t.Errorf("display name = %q", cfg.DisplayName())
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input string
		want  string
	}{
		{"~/test.db", filepath.Join(home, "test.db")},
		{"/absolute/path.db", "/absolute/path.db"},
		{"relative/path.db", "relative/path.db"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := expandPath(tc.input)
			if got != tc.want {
				t.Errorf("expandPath(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	cfg := Default()
	cfg.Hours.BusinessStart = "07:30"
	cfg.Hours.BusinessEnd = "15:30"
	cfg.User.Email = "ana@example.com"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.Hours.BusinessStart != "07:30" {
		t.Errorf("expected business_start 07:30, got %s", loaded.Hours.BusinessStart)
	}
	if loaded.Hours.BusinessEnd != "15:30" {
		t.Errorf("expected business_end 15:30, got %s", loaded.Hours.BusinessEnd)
	}
	if loaded.User.Email != "ana@example.com" {
		t.Errorf("expected email to round trip, got %s", loaded.User.Email)
	}
}

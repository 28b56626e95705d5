// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// envPrefix is prepended to every environment override.
const envPrefix = "FREETOGETHER_"

// ErrNoIdentity is returned when a command needs the user's email and none is configured.
var ErrNoIdentity = errors.New("user email is not configured (set [user] email or FREETOGETHER_USER_EMAIL)")

// Config holds the application configuration.
type Config struct {
	User    UserConfig    `toml:"user"`
	Hours   HoursConfig   `toml:"hours"`
	LLM     LLMConfig     `toml:"llm"`
	Storage StorageConfig `toml:"storage"`
	UI      UIConfig      `toml:"ui"`
}

// UserConfig identifies the person running the CLI.
type UserConfig struct {
	Email string `toml:"email"`
	Name  string `toml:"name"`
}

// HoursConfig holds the quick-select hour bands.
type HoursConfig struct {
	BusinessStart string `toml:"business_start"` // e.g., "09:00"
	BusinessEnd   string `toml:"business_end"`   // e.g., "17:00"
	EveningStart  string `toml:"evening_start"`  // e.g., "18:00"
	EveningEnd    string `toml:"evening_end"`    // e.g., "22:00"
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "dark", "light"
}

// LLMConfig holds LLM provider settings.
type LLMConfig struct {
	Provider string `toml:"provider"` // "copilot", "ollama", "lmstudio"
	Model    string `toml:"model"`    // e.g., "gpt-4o"
	BaseURL  string `toml:"base_url"` // e.g., "http://localhost:11434"
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath  string `toml:"db_path"`
	Timeout string `toml:"timeout"` // Go duration, e.g. "10s"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Hours: DefaultHours(),
		LLM: LLMConfig{
			Provider: "copilot",
			Model:    "gpt-4o",
			BaseURL:  "http://localhost:11434",
		},
		Storage: StorageConfig{
			DBPath:  defaultDBPath(),
			Timeout: "10s",
		},
		UI: UIConfig{
			Theme: "dark",
		},
	}
}

// DefaultHours returns the built-in business and evening bands.
func DefaultHours() HoursConfig {
	return HoursConfig{
		BusinessStart: "09:00",
		BusinessEnd:   "17:00",
		EveningStart:  "18:00",
		EveningEnd:    "22:00",
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "freetogether.db"
	}
	return filepath.Join(home, ".local", "share", "freetogether", "freetogether.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "freetogether", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies
// overrides from a .env file next to the config or in the working directory,
// then from the process environment.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	dotenv, err := readDotEnv(filepath.Join(filepath.Dir(path), ".env"), ".env")
	if err != nil {
		return nil, err
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg, func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	})

	// Expand paths
	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// readDotEnv reads the first .env file that exists. Earlier paths win.
func readDotEnv(paths ...string) (map[string]string, error) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		vars, err := godotenv.Read(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		return vars, nil
	}
	return map[string]string{}, nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config, getenv func(string) string) {
	overrides := []struct {
		key string
		dst *string
	}{
		{"USER_EMAIL", &cfg.User.Email},
		{"USER_NAME", &cfg.User.Name},
		{"BUSINESS_START", &cfg.Hours.BusinessStart},
		{"BUSINESS_END", &cfg.Hours.BusinessEnd},
		{"EVENING_START", &cfg.Hours.EveningStart},
		{"EVENING_END", &cfg.Hours.EveningEnd},
		{"LLM_PROVIDER", &cfg.LLM.Provider},
		{"LLM_MODEL", &cfg.LLM.Model},
		{"LLM_BASE_URL", &cfg.LLM.BaseURL},
		{"DB_PATH", &cfg.Storage.DBPath},
		{"DB_TIMEOUT", &cfg.Storage.Timeout},
		{"UI_THEME", &cfg.UI.Theme},
	}
	for _, o := range overrides {
		if v := getenv(envPrefix + o.key); v != "" {
			*o.dst = v
		}
	}
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := c.Hours.Validate(); err != nil {
		return err
	}
	if c.User.Email != "" && !strings.Contains(c.User.Email, "@") {
		return fmt.Errorf("user email %q is not an email address", c.User.Email)
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	if _, err := c.Storage.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}

// Validate checks both bands: HH:MM values with start before end.
func (h HoursConfig) Validate() error {
	bands := []struct {
		name       string
		start, end string
	}{
		{"business", h.BusinessStart, h.BusinessEnd},
		{"evening", h.EveningStart, h.EveningEnd},
	}
	for _, b := range bands {
		if err := validateTime(b.start, b.name+"_start"); err != nil {
			return err
		}
		if err := validateTime(b.end, b.name+"_end"); err != nil {
			return err
		}
		if b.start >= b.end {
			return fmt.Errorf("%s_start must be before %s_end", b.name, b.name)
		}
	}
	return nil
}

// BusinessBand returns the business hours as an inclusive hour range.
func (h HoursConfig) BusinessBand() (from, to int) {
	return hourOf(h.BusinessStart), hourOf(h.BusinessEnd)
}

// EveningBand returns the evening hours as an inclusive hour range.
func (h HoursConfig) EveningBand() (from, to int) {
	return hourOf(h.EveningStart), hourOf(h.EveningEnd)
}

func hourOf(t string) int {
	if len(t) < 2 {
		return 0
	}
	h, err := strconv.Atoi(t[:2])
	if err != nil {
		return 0
	}
	return h
}

// TimeoutDuration parses the store timeout.
func (s StorageConfig) TimeoutDuration() (time.Duration, error) {
	if s.Timeout == "" {
		return 10 * time.Second, nil
	}
	d, err := time.ParseDuration(s.Timeout)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("timeout must be a positive duration, got %q", s.Timeout)
	}
	return d, nil
}

// Identity returns the configured email, or ErrNoIdentity.
func (c *Config) Identity() (string, error) {
	email := strings.ToLower(strings.TrimSpace(c.User.Email))
	if email == "" {
		return "", ErrNoIdentity
	}
	return email, nil
}

// DisplayName returns the configured name, falling back to the email.
func (c *Config) DisplayName() string {
	if c.User.Name != "" {
		return c.User.Name
	}
	return c.User.Email
}

// validateTime checks if a time string is in HH:MM format.
func validateTime(t, field string) error {
	if len(t) != 5 || t[2] != ':' {
		return fmt.Errorf("%s must be in HH:MM format, got %q", field, t)
	}
	hour := t[0:2]
	min := t[3:5]
	if !isDigits(hour) || !isDigits(min) {
		return fmt.Errorf("%s must be in HH:MM format, got %q", field, t)
	}
	if hour > "23" || min > "59" {
		return fmt.Errorf("%s is not a valid time of day, got %q", field, t)
	}
	return nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

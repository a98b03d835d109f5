// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/awase/internal/slot"
)

// Config holds the application configuration.
type Config struct {
	Event   EventConfig   `toml:"event"`
	LLM     LLMConfig     `toml:"llm"`
	Storage StorageConfig `toml:"storage"`
	UI      UIConfig      `toml:"ui"`
}

// EventConfig holds defaults for new events.
type EventConfig struct {
	DefaultStart string   `toml:"default_start"` // e.g., "09:00"
	DefaultEnd   string   `toml:"default_end"`   // e.g., "18:00"
	ExpiryDays   int      `toml:"expiry_days"`   // how long an event accepts responses
	BaseURL      string   `toml:"base_url"`      // share link prefix
	Weekdays     []string `toml:"weekdays"`      // days kept when expanding a date range
}

// LLMConfig holds LLM provider settings.
type LLMConfig struct {
	Provider string `toml:"provider"` // "ollama", "lmstudio", "openai"
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme        string `toml:"theme"`          // "mocha", "latte"
	Input        string `toml:"input"`          // "pointer" or "touch"
	CellWidthPx  int    `toml:"cell_width_px"`  // touch emulation scale
	CellHeightPx int    `toml:"cell_height_px"` // touch emulation scale
}

// Input modes.
const (
	InputPointer = "pointer"
	InputTouch   = "touch"
)

var validProviders = map[string]bool{
	"ollama":   true,
	"lmstudio": true,
	"openai":   true,
}

var validThemes = map[string]bool{
	"mocha": true,
	"latte": true,
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Event: EventConfig{
			DefaultStart: "09:00",
			DefaultEnd:   "18:00",
			ExpiryDays:   30,
			BaseURL:      "https://awase.app",
			Weekdays:     []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
		},
		LLM: LLMConfig{
			Provider: "ollama",
			Model:    "llama3.2",
			BaseURL:  "http://localhost:11434",
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme:        "mocha",
			Input:        InputPointer,
			CellWidthPx:  8,
			CellHeightPx: 16,
		},
	}
}

// DataDir returns the directory holding the database and logs.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "awase")
}

func defaultDBPath() string {
	return filepath.Join(DataDir(), "awase.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "awase", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

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
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("AWASE_DEFAULT_START"); v != "" {
		cfg.Event.DefaultStart = v
	}
	if v := os.Getenv("AWASE_DEFAULT_END"); v != "" {
		cfg.Event.DefaultEnd = v
	}
	if v := os.Getenv("AWASE_EXPIRY_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("AWASE_EXPIRY_DAYS: %w", err)
		}
		cfg.Event.ExpiryDays = n
	}
	if v := os.Getenv("AWASE_BASE_URL"); v != "" {
		cfg.Event.BaseURL = v
	}
	if v := os.Getenv("AWASE_WEEKDAYS"); v != "" {
		cfg.Event.Weekdays = strings.Split(v, ",")
	}

	if v := os.Getenv("AWASE_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("AWASE_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("AWASE_LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}

	if v := os.Getenv("AWASE_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}

	if v := os.Getenv("AWASE_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := os.Getenv("AWASE_UI_INPUT"); v != "" {
		cfg.UI.Input = v
	}
	return nil
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
	if err := validateTime(c.Event.DefaultStart, "default_start"); err != nil {
		return err
	}
	if err := validateTime(c.Event.DefaultEnd, "default_end"); err != nil {
		return err
	}
	if slot.CompareTimes(c.Event.DefaultStart, c.Event.DefaultEnd) >= 0 {
		return errors.New("default_start must be before default_end")
	}
	if c.Event.ExpiryDays <= 0 {
		return errors.New("expiry_days must be positive")
	}
	if len(c.Event.Weekdays) == 0 {
		return errors.New("at least one weekday must be configured")
	}
	for _, day := range c.Event.Weekdays {
		if !isValidWeekday(day) {
			return fmt.Errorf("invalid weekday: %s", day)
		}
	}

	if !validProviders[c.LLM.Provider] {
		return fmt.Errorf("invalid llm provider: %s", c.LLM.Provider)
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}

	if !validThemes[c.UI.Theme] {
		return fmt.Errorf("invalid theme: %s", c.UI.Theme)
	}
	if c.UI.Input != InputPointer && c.UI.Input != InputTouch {
		return fmt.Errorf("input must be %q or %q, got %q", InputPointer, InputTouch, c.UI.Input)
	}
	if c.UI.CellWidthPx <= 0 || c.UI.CellHeightPx <= 0 {
		return errors.New("cell_width_px and cell_height_px must be positive")
	}
	return nil
}

// validateTime checks a time is HH:MM on the 30-minute grid.
func validateTime(t, field string) error {
	if err := slot.ValidateTime(t); err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if !slot.OnGrid(t) {
		return fmt.Errorf("%s: %w", field, slot.ErrOffGrid)
	}
	return nil
}

var validWeekdays = map[string]bool{
	"monday":    true,
	"tuesday":   true,
	"wednesday": true,
	"thursday":  true,
	"friday":    true,
	"saturday":  true,
	"sunday":    true,
}

func isValidWeekday(day string) bool {
	return validWeekdays[strings.ToLower(strings.TrimSpace(day))]
}

// IsCandidateDay returns true if the given weekday name is kept when
// expanding a date range into candidates.
func (c *Config) IsCandidateDay(weekday string) bool {
	weekday = strings.ToLower(weekday)
	for _, d := range c.Event.Weekdays {
		if strings.ToLower(strings.TrimSpace(d)) == weekday {
			return true
		}
	}
	return false
}

// ShareURL returns the public link for an event slug.
func (c *Config) ShareURL(slug string) string {
	return strings.TrimRight(c.Event.BaseURL, "/") + "/e/" + slug
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
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

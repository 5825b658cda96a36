package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// APIConfig holds backend connection settings
type APIConfig struct {
	// BaseURL of the EmailCat backend
	BaseURL string `json:"base_url"`
	// Timeout for backend requests. "0" disables the client-side timeout
	// entirely; the backend can be slow to cold-start and save retries are
	// bounded by attempt count instead of wall clock.
	Timeout string `json:"timeout"`
}

// RetryConfig tunes the save retry executor
type RetryConfig struct {
	MaxRetries     int `json:"max_retries"`
	InitialDelayMs int `json:"initial_delay_ms"`
	MaxDelayMs     int `json:"max_delay_ms"`
}

// EditorConfig tunes the draft editor
type EditorConfig struct {
	// AutoSaveIdleSec is the quiet period after the last edit before an
	// automatic save fires
	AutoSaveIdleSec int `json:"auto_save_idle_sec"`
}

// LocalStoreConfig controls the sqlite-backed durability store
type LocalStoreConfig struct {
	Enabled bool `json:"enabled"`
	// Path to the sqlite file (empty = default under the config dir)
	Path string `json:"path"`
}

// Config holds all configuration for the EmailCat terminal client
type Config struct {
	API        APIConfig        `json:"api"`
	Retry      RetryConfig      `json:"retry"`
	Editor     EditorConfig     `json:"editor"`
	LocalStore LocalStoreConfig `json:"local_store"`

	// Theme is the name of a YAML theme file (without extension)
	Theme string `json:"theme"`

	// Logging
	LogFile string `json:"log_file"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8000",
			Timeout: "0",
		},
		Retry: RetryConfig{
			MaxRetries:     3,
			InitialDelayMs: 1000,
			MaxDelayMs:     10000,
		},
		Editor: EditorConfig{
			AutoSaveIdleSec: 30,
		},
		LocalStore: LocalStoreConfig{
			Enabled: true,
		},
		Theme: "emailcat-dark",
	}
}

// LoadConfig reads a JSON configuration file and fills gaps with defaults
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// SaveConfig writes the configuration as indented JSON
func (c *Config) SaveConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.API.BaseURL == "" {
		c.API.BaseURL = def.API.BaseURL
	}
	if c.API.Timeout == "" {
		c.API.Timeout = def.API.Timeout
	}
	if c.Retry.MaxRetries <= 0 {
		c.Retry.MaxRetries = def.Retry.MaxRetries
	}
	if c.Retry.InitialDelayMs <= 0 {
		c.Retry.InitialDelayMs = def.Retry.InitialDelayMs
	}
	if c.Retry.MaxDelayMs <= 0 {
		c.Retry.MaxDelayMs = def.Retry.MaxDelayMs
	}
	if c.Editor.AutoSaveIdleSec <= 0 {
		c.Editor.AutoSaveIdleSec = def.Editor.AutoSaveIdleSec
	}
	if c.Theme == "" {
		c.Theme = def.Theme
	}
}

// GetAPITimeout parses the configured request timeout. Unparseable values
// fall back to no timeout.
func (c *Config) GetAPITimeout() time.Duration {
	if c.API.Timeout == "" || c.API.Timeout == "0" {
		return 0
	}
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// GetAutoSaveIdle returns the editor idle period before an automatic save
func (c *Config) GetAutoSaveIdle() time.Duration {
	return time.Duration(c.Editor.AutoSaveIdleSec) * time.Second
}

// DefaultConfigDir returns ~/.config/emailcat
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "emailcat")
}

// DefaultConfigPath returns the default config file location
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// DefaultStorePath returns the default sqlite file for local snapshots
func DefaultStorePath() string {
	return filepath.Join(DefaultConfigDir(), "local.sqlite3")
}

// StorePath resolves the configured local store path
func (c *Config) StorePath() string {
	if c.LocalStore.Path != "" {
		return c.LocalStore.Path
	}
	return DefaultStorePath()
}

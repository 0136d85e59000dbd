// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for chatvault.
//
// Configuration is read from ~/.chatvault/config.toml with environment
// variable overrides and validation with clamping to safe bounds.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete chatvault configuration.
type Config struct {
	// DataDir is where session slots live (empty = ~/.chatvault/data).
	DataDir string `toml:"data_dir"`

	// Store configuration.
	Store StoreConfig `toml:"store"`

	// Assistant service configuration.
	Assistant AssistantConfig `toml:"assistant"`

	// UI configuration.
	UI UIConfig `toml:"ui"`
}

// StoreConfig contains session store and auto-save configuration.
type StoreConfig struct {
	// Capacity bounds the persisted collection (default: 50).
	Capacity int `toml:"capacity"`
	// AutoSaveDelayMs is the debounce delay before persisting a quiescent
	// conversation (default: 3000, clamped to 250-60000).
	AutoSaveDelayMs int `toml:"auto_save_delay_ms"`
}

// AssistantConfig contains the remote assistant service configuration.
type AssistantConfig struct {
	// BaseURL of the assistant service.
	BaseURL string `toml:"base_url"`
	// TimeoutSecs bounds one request round trip (default: 60).
	TimeoutSecs int `toml:"timeout_secs"`
	// RequestsPerMinute throttles outbound sends (default: 30).
	RequestsPerMinute int `toml:"requests_per_minute"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// ShowTimestamps displays per-message clock times in the transcript.
	ShowTimestamps bool `toml:"show_timestamps"`
	// CompactHistory hides previews in the history list.
	CompactHistory bool `toml:"compact_history"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Capacity:        50,
			AutoSaveDelayMs: 3000,
		},
		Assistant: AssistantConfig{
			BaseURL:           "http://127.0.0.1:8090",
			TimeoutSecs:       60,
			RequestsPerMinute: 30,
		},
		UI: UIConfig{
			ShowTimestamps: true,
		},
	}
}

// AutoSaveDelay returns the debounce delay as a duration.
func (c *Config) AutoSaveDelay() time.Duration {
	return time.Duration(c.Store.AutoSaveDelayMs) * time.Millisecond
}

// =============================================================================
// PATH HELPERS
// =============================================================================

// Dir returns the chatvault configuration directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".chatvault"), nil
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ResolveDataDir returns the session data directory, creating nothing.
func (c *Config) ResolveDataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "data"), nil
}

// =============================================================================
// LOAD
// =============================================================================

// Load reads configuration from the config file, falling back to defaults
// when the file is missing. Environment overrides are applied last, then
// the result is validated and clamped.
func Load() (*Config, error) {
	cfg := Default()

	path, err := Path()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to decode %s: %w", path, err)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.Clamp()
	return cfg, nil
}

// LoadFromPath reads configuration from an explicit file path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	cfg.ApplyEnvOverrides()
	cfg.Clamp()
	return cfg, nil
}

// ApplyEnvOverrides overlays CHATVAULT_* environment variables.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("CHATVAULT_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("CHATVAULT_ASSISTANT_URL"); v != "" {
		c.Assistant.BaseURL = v
	}
	if v := os.Getenv("CHATVAULT_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Store.Capacity = n
		}
	}
	if v := os.Getenv("CHATVAULT_AUTOSAVE_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Store.AutoSaveDelayMs = n
		}
	}
}

// Clamp forces out-of-range values back to safe bounds rather than failing.
func (c *Config) Clamp() {
	if c.Store.Capacity <= 0 {
		c.Store.Capacity = 50
	}
	if c.Store.AutoSaveDelayMs < 250 {
		c.Store.AutoSaveDelayMs = 250
	}
	if c.Store.AutoSaveDelayMs > 60000 {
		c.Store.AutoSaveDelayMs = 60000
	}
	if c.Assistant.TimeoutSecs <= 0 {
		c.Assistant.TimeoutSecs = 60
	}
	if c.Assistant.RequestsPerMinute <= 0 {
		c.Assistant.RequestsPerMinute = 30
	}
	if c.Assistant.BaseURL == "" {
		c.Assistant.BaseURL = "http://127.0.0.1:8090"
	}
}

// =============================================================================
// SAVE
// =============================================================================

// Save writes the configuration to the default config path.
func Save(cfg *Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	path := filepath.Join(dir, "config.toml")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Package config provides persistent configuration for the ramadan-taqwim CLI.
//
// Configuration is stored as JSON at ~/.config/ramadan-taqwim/config.json
// (XDG-compliant). The merge priority is: CLI flags > config file > defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	configDirName  = "ramadan-taqwim"
	configFileName = "config.json"
)

// Country is fixed: the app serves Bangladesh moon-sighting data only.
const Country = "Bangladesh"

// ValidKeys lists all config keys that can be set via `config set`.
var ValidKeys = []string{
	"city",
	"method", "school",
	"time_format",
	"sehri_policy",
	"cache_dir", "cache_backend", "redis_url",
	"port",
}

// Config holds all user-configurable settings.
// Zero values mean "not set" (use defaults).
type Config struct {
	City         string `json:"city,omitempty"`
	Method       *int   `json:"method,omitempty"` // pointer so we can distinguish "not set" from 0
	School       *int   `json:"school,omitempty"` // pointer so we can distinguish "not set" from 0
	TimeFormat   string `json:"time_format,omitempty"`   // "12h" or "24h"
	SehriPolicy  string `json:"sehri_policy,omitempty"`  // "fajr" or "imsak-if-present"
	CacheDir     string `json:"cache_dir,omitempty"`
	CacheBackend string `json:"cache_backend,omitempty"` // "file" or "redis"
	RedisURL     string `json:"redis_url,omitempty"`
	Port         string `json:"port,omitempty"`
}

// Defaults returns a Config mirroring the original application's settings:
// Dhaka, the Karachi calculation method, Hanafi school, 12-hour display.
func Defaults() Config {
	method := 1 // University of Islamic Sciences, Karachi
	school := 1 // Hanafi
	return Config{
		City:         "Dhaka",
		Method:       &method,
		School:       &school,
		TimeFormat:   "12h",
		SehriPolicy:  "fajr",
		CacheBackend: "file",
		RedisURL:     "redis://localhost:6379/0",
		Port:         "8780",
	}
}

// Dir returns the config directory path.
// It respects $XDG_CONFIG_HOME if set, otherwise uses ~/.config/.
func Dir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, configDirName), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the config file from disk.
// If the file does not exist, it returns an empty Config (not an error).
// If the file exists but is invalid JSON, it returns an error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	return LoadFrom(path)
}

// LoadFrom reads the config from a specific file path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Config{}
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}

	return c.SaveTo(path)
}

// SaveTo writes the config to a specific file path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Reset deletes the config file.
func Reset() error {
	path, err := Path()
	if err != nil {
		return err
	}

	return ResetAt(path)
}

// ResetAt deletes the config file at a specific path.
func ResetAt(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete config file: %w", err)
	}
	return nil
}

// Set sets a config key to the given value.
// It validates the key name and parses the value into the correct type.
func (c *Config) Set(key, value string) error {
	switch key {
	case "city":
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("city must not be empty")
		}
		c.City = value
	case "method":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid method %q: must be an integer", value)
		}
		if v < 0 || v > 23 {
			return fmt.Errorf("invalid method %q: must be between 0 and 23", value)
		}
		c.Method = &v
	case "school":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid school %q: must be an integer", value)
		}
		if v != 0 && v != 1 {
			return fmt.Errorf("invalid school %q: must be 0 (Shafi) or 1 (Hanafi)", value)
		}
		c.School = &v
	case "time_format":
		if value != "12h" && value != "24h" {
			return fmt.Errorf("invalid time_format %q: must be \"12h\" or \"24h\"", value)
		}
		c.TimeFormat = value
	case "sehri_policy":
		if value != "fajr" && value != "imsak-if-present" {
			return fmt.Errorf("invalid sehri_policy %q: must be \"fajr\" or \"imsak-if-present\"", value)
		}
		c.SehriPolicy = value
	case "cache_dir":
		c.CacheDir = value
	case "cache_backend":
		if value != "file" && value != "redis" {
			return fmt.Errorf("invalid cache_backend %q: must be \"file\" or \"redis\"", value)
		}
		c.CacheBackend = value
	case "redis_url":
		c.RedisURL = value
	case "port":
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("invalid port %q: must be an integer", value)
		}
		c.Port = value
	default:
		return fmt.Errorf("unknown config key %q; valid keys: %s", key, strings.Join(ValidKeys, ", "))
	}

	return nil
}

// Get returns the string value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "city":
		return c.City, nil
	case "method":
		if c.Method == nil {
			return "", nil
		}
		return strconv.Itoa(*c.Method), nil
	case "school":
		if c.School == nil {
			return "", nil
		}
		return strconv.Itoa(*c.School), nil
	case "time_format":
		return c.TimeFormat, nil
	case "sehri_policy":
		return c.SehriPolicy, nil
	case "cache_dir":
		return c.CacheDir, nil
	case "cache_backend":
		return c.CacheBackend, nil
	case "redis_url":
		return c.RedisURL, nil
	case "port":
		return c.Port, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// MethodOrDefault returns the method value, falling back to the given default.
func (c *Config) MethodOrDefault(def int) int {
	if c.Method != nil {
		return *c.Method
	}
	return def
}

// SchoolOrDefault returns the school value, falling back to the given default.
func (c *Config) SchoolOrDefault(def int) int {
	if c.School != nil {
		return *c.School
	}
	return def
}

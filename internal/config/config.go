// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/persona-studio/internal/llm"
)

// Config represents the configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Credentials and models
	APIKey     string `json:"api_key,omitempty" yaml:"api_key,omitempty"`         // Gemini API key
	TextTier   string `json:"text_tier,omitempty" yaml:"text_tier,omitempty"`     // lite, standard or advanced
	TextModel  string `json:"text_model,omitempty" yaml:"text_model,omitempty"`   // Overrides the tier's model
	ImageModel string `json:"image_model,omitempty" yaml:"image_model,omitempty"` // Model for persona images

	// Storage
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"` // PostgreSQL connection URL
	RedisURL    string `json:"redis_url,omitempty" yaml:"redis_url,omitempty"`       // Redis URL for the image cache

	// Server
	Port            int `json:"port,omitempty" yaml:"port,omitempty"`
	MemoryStoreSize int `json:"memory_store_size,omitempty" yaml:"memory_store_size,omitempty"` // Submissions kept without a database

	// Export
	ChromePath  string  `json:"chrome_path,omitempty" yaml:"chrome_path,omitempty"`   // Chrome/Chromium executable
	ExportScale float64 `json:"export_scale,omitempty" yaml:"export_scale,omitempty"` // Device scale factor for card capture

	// Behavior
	PlaceholderImageURL string `json:"placeholder_image_url,omitempty" yaml:"placeholder_image_url,omitempty"`
	Verbose             bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"` // Print detailed debug information
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		TextTier:            "standard",
		ImageModel:          "imagen-3.0-generate-002",
		Port:                8080,
		MemoryStoreSize:     256,
		ExportScale:         1.5,
		PlaceholderImageURL: "https://picsum.photos/500/500?grayscale&blur=2",
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// ApplyEnv overrides fields from the environment: GEMINI_API_KEY (falling back to API_KEY),
// DATABASE_URL, REDIS_URL, PORT and CHROME_PATH.
func (c *Config) ApplyEnv() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.APIKey = key
	} else if key := os.Getenv("API_KEY"); key != "" {
		c.APIKey = key
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.RedisURL = v
	}
	if v := os.Getenv("CHROME_PATH"); v != "" {
		c.ChromePath = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for the API key since a missing key is reported
// by the generator as a configuration error.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if _, err := llm.ParseModelTier(c.TextTier); err != nil {
		return fmt.Errorf("config error: 'text_tier': %w", err)
	}
	if c.MemoryStoreSize < 0 {
		return fmt.Errorf("config error: 'memory_store_size' must be non-negative")
	}
	if c.ExportScale < 0 {
		return fmt.Errorf("config error: 'export_scale' must be non-negative")
	}
	if c.PlaceholderImageURL != "" {
		if u, err := url.Parse(c.PlaceholderImageURL); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config error: 'placeholder_image_url' must be an absolute URL")
		}
	}
	if c.RedisURL != "" && !strings.HasPrefix(c.RedisURL, "redis://") && !strings.HasPrefix(c.RedisURL, "rediss://") {
		return fmt.Errorf("config error: 'redis_url' must use the redis:// or rediss:// scheme")
	}
	if c.ChromePath != "" {
		if _, err := os.Stat(c.ChromePath); os.IsNotExist(err) {
			return fmt.Errorf("config error: chrome executable not found: %s", c.ChromePath)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.TextTier == "" {
		result.TextTier = defaults.TextTier
	}
	if result.TextModel == "" {
		result.TextModel = defaults.TextModel
	}
	if result.ImageModel == "" {
		result.ImageModel = defaults.ImageModel
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.ChromePath == "" {
		result.ChromePath = defaults.ChromePath
	}
	if result.PlaceholderImageURL == "" {
		result.PlaceholderImageURL = defaults.PlaceholderImageURL
	}

	// Numeric fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MemoryStoreSize == 0 {
		result.MemoryStoreSize = defaults.MemoryStoreSize
	}
	if result.ExportScale == 0 {
		result.ExportScale = defaults.ExportScale
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Load reads the optional config file, applies environment overrides and fills defaults.
func Load(path string) (Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return Config{}, err
	}
	return merged, nil
}

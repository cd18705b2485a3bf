package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the application configuration
type Config struct {
	Preview PreviewConfig `json:"preview"`
	Output  OutputConfig  `json:"output"`
	Theme   ThemeConfig   `json:"theme"`
	Source  SourceConfig  `json:"source"`
}

// PreviewConfig holds the interactive preview geometry
type PreviewConfig struct {
	ViewportSize int `json:"viewport_size"`
}

// OutputConfig holds configuration for the exported badge
type OutputConfig struct {
	Size     int    `json:"size"`
	Format   string `json:"format"`
	Lossless bool   `json:"lossless"`
	Filename string `json:"filename"`
}

// ThemeConfig holds the default badge appearance
type ThemeConfig struct {
	FillColor   string `json:"fill_color"`
	AccentColor string `json:"accent_color"`
}

// SourceConfig holds configuration for photo loading
type SourceConfig struct {
	MinImageSize       int `json:"min_image_size"`
	HTTPTimeoutSeconds int `json:"http_timeout_seconds"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Preview: PreviewConfig{
			ViewportSize: 300,
		},
		Output: OutputConfig{
			Size:     1200,
			Format:   "png",
			Lossless: true,
			Filename: "badge.png",
		},
		Theme: ThemeConfig{
			FillColor:   "#1e90ff",
			AccentColor: "#ffffff",
		},
		Source: SourceConfig{
			MinImageSize:       100,
			HTTPTimeoutSeconds: 30,
		},
	}
}

// LoadFromFile loads configuration from a JSON file
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Preview.ViewportSize < 1 {
		return fmt.Errorf("preview.viewport_size must be positive")
	}

	if c.Output.Size < c.Preview.ViewportSize {
		return fmt.Errorf("output.size must be at least preview.viewport_size")
	}

	if c.Output.Format != "png" && c.Output.Format != "webp" {
		return fmt.Errorf("output.format must be png or webp")
	}

	if c.Output.Filename == "" {
		return fmt.Errorf("output.filename cannot be empty")
	}

	if c.Theme.FillColor == "" || c.Theme.AccentColor == "" {
		return fmt.Errorf("theme colors cannot be empty")
	}

	if c.Source.MinImageSize < 1 {
		return fmt.Errorf("source.min_image_size must be positive")
	}

	if c.Source.HTTPTimeoutSeconds < 1 {
		return fmt.Errorf("source.http_timeout_seconds must be positive")
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "badge", "config.json")
}

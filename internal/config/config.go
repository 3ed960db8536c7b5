package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/yildizm/CloudClassify/internal/predict"
)

// Config holds the complete application configuration
type Config struct {
	Version  string         `yaml:"version" json:"version"`
	Endpoint EndpointConfig `yaml:"endpoint" json:"endpoint"`
	UI       UIConfig       `yaml:"ui" json:"ui"`
	Output   OutputConfig   `yaml:"output" json:"output"`
	Watch    WatchConfig    `yaml:"watch" json:"watch"`
}

// EndpointConfig configures the prediction service
type EndpointConfig struct {
	URL     string        `yaml:"url" json:"url"`         // full URL of the predict route
	Timeout time.Duration `yaml:"timeout" json:"timeout"` // 0 disables the timeout
}

// UIConfig configures the interactive form
type UIConfig struct {
	Theme            string `yaml:"theme" json:"theme"`                         // default|high-contrast|minimal
	SerializeSubmits bool   `yaml:"serialize_submits" json:"serialize_submits"` // ignore submits while one is pending
	Accept           string `yaml:"accept" json:"accept"`                       // advisory file filter hint
}

// OutputConfig configures non-interactive output
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // text|json|markdown|csv
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Verbose       bool   `yaml:"verbose" json:"verbose"`
}

// WatchConfig configures the watch command
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" json:"debounce"` // quiet period before resubmitting
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Endpoint: EndpointConfig{
			URL:     predict.DefaultEndpoint,
			Timeout: 0,
		},
		UI: UIConfig{
			Theme:            "default",
			SerializeSubmits: false,
			Accept:           "image/*",
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
			Verbose:       false,
		},
		Watch: WatchConfig{
			Debounce: 250 * time.Millisecond,
		},
	}
}

// ClientConfig converts the endpoint section into prediction client configuration
func (c *Config) ClientConfig() *predict.Config {
	pc := predict.DefaultConfig()
	if c.Endpoint.URL != "" {
		pc.Endpoint = c.Endpoint.URL
	}
	pc.Timeout = c.Endpoint.Timeout
	return pc
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateEndpointConfig(); err != nil {
		return err
	}
	if err := c.validateUIConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch debounce must be non-negative")
	}
	return nil
}

// validateEndpointConfig validates endpoint configuration
func (c *Config) validateEndpointConfig() error {
	if c.Endpoint.URL == "" {
		return fmt.Errorf("endpoint url is required")
	}
	u, err := url.Parse(c.Endpoint.URL)
	if err != nil {
		return fmt.Errorf("invalid endpoint url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid endpoint url scheme: %s (must be http or https)", u.Scheme)
	}
	if c.Endpoint.Timeout < 0 {
		return fmt.Errorf("endpoint timeout must be non-negative")
	}
	return nil
}

// validateUIConfig validates UI configuration
func (c *Config) validateUIConfig() error {
	if c.UI.Theme != "" {
		validThemes := map[string]bool{
			"default":       true,
			"high-contrast": true,
			"minimal":       true,
		}
		if !validThemes[c.UI.Theme] {
			return fmt.Errorf("invalid theme: %s (must be one of: default, high-contrast, minimal)", c.UI.Theme)
		}
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json":     true,
			"text":     true,
			"markdown": true,
			"csv":      true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text, markdown, csv)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	return nil
}

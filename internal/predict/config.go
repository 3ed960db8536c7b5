package predict

import (
	"fmt"
	"net/url"
	"time"
)

// DefaultEndpoint is the prediction service started by the reference backend
const DefaultEndpoint = "http://127.0.0.1:5000/predict"

// FieldName is the multipart field carrying the uploaded file
const FieldName = "file"

// Config holds prediction client configuration
type Config struct {
	// Endpoint is the full URL of the predict route
	Endpoint string `json:"endpoint"`

	// Timeout for the whole request; zero means no timeout
	Timeout time.Duration `json:"timeout"`

	// UserAgent sent with each request
	UserAgent string `json:"user_agent"`
}

// DefaultConfig returns a default client configuration
func DefaultConfig() *Config {
	return &Config{
		Endpoint:  DefaultEndpoint,
		Timeout:   0,
		UserAgent: "cloudclassify",
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}

	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid endpoint scheme %q (must be http or https)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint host is required")
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}

	return nil
}

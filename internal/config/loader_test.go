package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	loader := NewLoaderWithPaths(nil)

	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load default config: %v", err)
	}
	if cfg.Endpoint.URL != DefaultConfig().Endpoint.URL {
		t.Errorf("Expected default endpoint, got %s", cfg.Endpoint.URL)
	}
	if cfg.Output.DefaultFormat != "text" {
		t.Errorf("Expected default output format text, got %s", cfg.Output.DefaultFormat)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "test-config.yaml", `version: "1.0"
endpoint:
  url: "http://192.168.1.20:5000/predict"
  timeout: 45s
ui:
  theme: "minimal"
  serialize_submits: true
output:
  default_format: "json"
  verbose: true
`)

	cfg, err := NewLoaderWithPaths(nil).LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config from file: %v", err)
	}

	if cfg.Endpoint.URL != "http://192.168.1.20:5000/predict" {
		t.Errorf("Unexpected endpoint %s", cfg.Endpoint.URL)
	}
	if cfg.Endpoint.Timeout != 45*time.Second {
		t.Errorf("Expected timeout 45s, got %v", cfg.Endpoint.Timeout)
	}
	if cfg.UI.Theme != "minimal" || !cfg.UI.SerializeSubmits {
		t.Errorf("Unexpected UI config %+v", cfg.UI)
	}
	if cfg.Output.DefaultFormat != "json" || !cfg.Output.Verbose {
		t.Errorf("Unexpected output config %+v", cfg.Output)
	}

	// Keys absent from the file keep their defaults
	if cfg.UI.Accept != "image/*" {
		t.Errorf("Expected default accept hint to survive, got %s", cfg.UI.Accept)
	}
	if cfg.Watch.Debounce != 250*time.Millisecond {
		t.Errorf("Expected default debounce to survive, got %v", cfg.Watch.Debounce)
	}
}

func TestLoadConfigPriority(t *testing.T) {
	dir := t.TempDir()
	high := writeConfig(t, dir, "high.yaml", `output:
  default_format: "markdown"
`)
	low := writeConfig(t, dir, "low.yaml", `endpoint:
  url: "http://low.example.com/predict"
output:
  default_format: "json"
`)

	cfg, err := NewLoaderWithPaths([]string{high, low}).LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Output.DefaultFormat != "markdown" {
		t.Errorf("Expected higher priority file to win, got %s", cfg.Output.DefaultFormat)
	}
	if cfg.Endpoint.URL != "http://low.example.com/predict" {
		t.Errorf("Expected lower priority value to remain when not overridden, got %s", cfg.Endpoint.URL)
	}
}

func TestLoadConfigBrokenSearchPathWarns(t *testing.T) {
	dir := t.TempDir()
	broken := writeConfig(t, dir, "broken.yaml", "endpoint: [unclosed\n")

	var warnings []string
	loader := NewLoaderWithPaths([]string{broken})
	loader.warn = func(format string, args ...interface{}) {
		warnings = append(warnings, format)
	}

	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("Broken search-path file should only warn, got %v", err)
	}
	if len(warnings) != 1 {
		t.Errorf("Expected one warning, got %d", len(warnings))
	}
	if cfg.Endpoint.URL != DefaultConfig().Endpoint.URL {
		t.Errorf("Expected defaults after broken file, got %s", cfg.Endpoint.URL)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "invalid-config.yaml", `endpoint:
  url: "http://127.0.0.1:5000/predict
output:
  default_format: json
`)

	if _, err := NewLoaderWithPaths(nil).LoadConfig(path); err == nil {
		t.Error("Expected error loading invalid YAML config, but got none")
	}
}

func TestLoadConfigInvalidValues(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "bad.yaml", `ui:
  theme: "neon"
`)

	_, err := NewLoaderWithPaths(nil).LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "invalid theme") {
		t.Errorf("Expected theme validation error, got %v", err)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("CLOUDCLASSIFY_ENDPOINT_URL", "http://env.example.com:9000/predict")
	t.Setenv("CLOUDCLASSIFY_ENDPOINT_TIMEOUT", "10s")
	t.Setenv("CLOUDCLASSIFY_UI_SERIALIZE_SUBMITS", "true")
	t.Setenv("CLOUDCLASSIFY_OUTPUT_DEFAULT_FORMAT", "markdown")
	t.Setenv("CLOUDCLASSIFY_WATCH_DEBOUNCE", "1s")

	cfg, err := NewLoaderWithPaths(nil).LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Endpoint.URL != "http://env.example.com:9000/predict" {
		t.Errorf("Unexpected endpoint %s", cfg.Endpoint.URL)
	}
	if cfg.Endpoint.Timeout != 10*time.Second {
		t.Errorf("Expected timeout 10s, got %v", cfg.Endpoint.Timeout)
	}
	if !cfg.UI.SerializeSubmits {
		t.Error("Expected serialize_submits from env")
	}
	if cfg.Output.DefaultFormat != "markdown" {
		t.Errorf("Expected markdown, got %s", cfg.Output.DefaultFormat)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Expected debounce 1s, got %v", cfg.Watch.Debounce)
	}
}

func TestApplyEnvOverridesInvalid(t *testing.T) {
	t.Setenv("CLOUDCLASSIFY_ENDPOINT_TIMEOUT", "forever")

	_, err := NewLoaderWithPaths(nil).LoadConfig("")
	if err == nil || !strings.Contains(err.Error(), "CLOUDCLASSIFY_ENDPOINT_TIMEOUT") {
		t.Errorf("Expected env parse error naming the variable, got %v", err)
	}
}

func TestValidateConfigPath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"config.yaml", false},
		{"config.yml", false},
		{"config.json", true},
		{"../secrets/config.yaml", true},
		{"/proc/self/config.yaml", true},
	}

	for _, tt := range tests {
		err := validateConfigPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateConfigPath(%s) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
	}
}

func TestSampleConfigsParse(t *testing.T) {
	for name, sample := range map[string]string{"full": SampleConfig(), "minimal": MinimalSampleConfig()} {
		cfg := DefaultConfig()
		if err := yaml.Unmarshal([]byte(sample), cfg); err != nil {
			t.Errorf("%s sample does not parse: %v", name, err)
			continue
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("%s sample is not valid: %v", name, err)
		}
	}
}

package config

// SampleConfig returns a fully commented configuration file
func SampleConfig() string {
	return `# CloudClassify configuration
version: "1.0"

# Prediction service
endpoint:
  # Full URL of the predict route. The file is sent as multipart field "file".
  url: "http://127.0.0.1:5000/predict"
  # Request timeout, e.g. 30s. 0s waits indefinitely.
  timeout: 0s

# Interactive form
ui:
  # default | high-contrast | minimal
  theme: "default"
  # Ignore submits while a prediction is pending
  serialize_submits: false
  # Shown as a hint only; files are never rejected by type
  accept: "image/*"

# Non-interactive output (predict --no-tui, watch)
output:
  # text | json | markdown | csv
  default_format: "text"
  # auto | always | never
  color_mode: "auto"
  verbose: false

# watch command
watch:
  # Quiet period after the last write before resubmitting
  debounce: 250ms
`
}

// MinimalSampleConfig returns a compact configuration with only the essentials
func MinimalSampleConfig() string {
	return `version: "1.0"
endpoint:
  url: "http://127.0.0.1:5000/predict"
output:
  default_format: "text"
`
}

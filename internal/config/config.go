// Package config defines service configuration and its loader.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// SeedFile optionally replaces the built-in activity directory.
	SeedFile string `koanf:"seed_file"`

	// ServiceName identifies the process in traces and metrics labels.
	ServiceName string `koanf:"service_name"`

	// TracingEnabled turns on the OpenTelemetry SDK provider.
	TracingEnabled bool `koanf:"tracing_enabled"`

	// TracingExporter is "none" or "stdout".
	TracingExporter string `koanf:"tracing_exporter"`

	// TracingSampleRate is the fraction of requests traced, in (0, 1].
	TracingSampleRate float64 `koanf:"tracing_sample_rate"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":8000",
		SeedFile:          "",
		ServiceName:       "mergington-activities",
		TracingEnabled:    false,
		TracingExporter:   "none",
		TracingSampleRate: 1.0,
	}
}

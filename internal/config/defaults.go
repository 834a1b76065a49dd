package config

// Valid option values.
var (
	ValidBackends = []string{"sqlite", "dolt"}
	ValidFormats  = []string{"markdown", "json", "yaml"}
	ValidLevels   = []string{"debug", "info", "warn", "error"}
)

// DefaultConfig returns configuration with sensible defaults.
// These defaults are used when no config file exists or when
// config file is missing specific fields.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: "sqlite",
		},
		Output: OutputConfig{
			DefaultFormat: "markdown",
		},
		Report: ReportConfig{
			DefaultMode: "full",
		},
		Services: ServicesConfig{
			Timeout: "30s",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Merge merges loaded config with defaults.
// Values from loaded config take precedence over defaults.
// Returns a new Config with merged values.
func Merge(loaded, defaults *Config) *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: pick(loaded.Storage.Backend, defaults.Storage.Backend),
			Path:    pick(loaded.Storage.Path, defaults.Storage.Path),
		},
		Output: OutputConfig{
			DefaultFormat: pick(loaded.Output.DefaultFormat, defaults.Output.DefaultFormat),
		},
		Report: ReportConfig{
			Version:     pick(loaded.Report.Version, defaults.Report.Version),
			DefaultMode: pick(loaded.Report.DefaultMode, defaults.Report.DefaultMode),
		},
		Services: ServicesConfig{
			// Service URLs have no defaults; an unset URL disables the service.
			DiagramURL: loaded.Services.DiagramURL,
			PDFURL:     loaded.Services.PDFURL,
			Timeout:    pick(loaded.Services.Timeout, defaults.Services.Timeout),
		},
		Logging: LoggingConfig{
			Level: pick(loaded.Logging.Level, defaults.Logging.Level),
		},
	}
}

// pick returns loaded unless it is empty.
func pick(loaded, def string) string {
	if loaded != "" {
		return loaded
	}
	return def
}

// IsValidBackend checks if the given storage backend is supported
func IsValidBackend(backend string) bool {
	return contains(ValidBackends, backend)
}

// IsValidFormat checks if the given output format is supported
func IsValidFormat(format string) bool {
	return contains(ValidFormats, format)
}

// IsValidLevel checks if the given log level is supported
func IsValidLevel(level string) bool {
	return contains(ValidLevels, level)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

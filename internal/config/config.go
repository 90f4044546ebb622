// Package config provides centralized configuration management for csvprep.
// It loads run defaults from environment variables (optionally seeded from a
// .env file by the caller) and validates all settings on startup to fail
// fast on misconfiguration. Command-line flags are layered on top by the
// CLI.
package config

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Pipeline PipelineConfig
	Logging  LoggingConfig
}

// PipelineConfig holds the defaults for one conversion run.
type PipelineConfig struct {
	// Type is the dataset type; empty means detect from the input filename
	Type string `env:"CSVPREP_TYPE"`

	// SchemaFile is a YAML schema overriding the preset fields
	SchemaFile string `env:"CSVPREP_SCHEMA_FILE"`

	// Format is the output format: txt or json (default: txt)
	Format string `env:"CSVPREP_FORMAT" default:"txt"`

	// Encoding is the input encoding: utf8, latin1 or auto (default: auto)
	Encoding string `env:"CSVPREP_ENCODING" default:"auto"`

	// Delimiter is a single character, "tab", or empty to sniff it
	Delimiter string `env:"CSVPREP_DELIMITER"`

	// HasHeader skips the first line after SkipLines (default: true)
	HasHeader bool `env:"CSVPREP_HAS_HEADER" default:"true"`

	// Strict drops invalid records and limits punctuation runs
	Strict bool `env:"CSVPREP_STRICT" default:"false"`

	// RemoveDuplicates drops records whose first field was seen before
	RemoveDuplicates bool `env:"CSVPREP_REMOVE_DUPLICATES" envAlt:"CSVPREP_DEDUP" default:"false"`

	// Validate enables per-field schema checks
	Validate bool `env:"CSVPREP_VALIDATE" default:"false"`

	// MaxLines caps processed records (default: 0, unbounded)
	MaxLines int `env:"CSVPREP_MAX_LINES" default:"0"`

	// SkipLines discards leading lines before the header (default: 0)
	SkipLines int `env:"CSVPREP_SKIP_LINES" default:"0"`

	// DedupCapacity overrides the duplicate table size (default: 0, derived)
	DedupCapacity int `env:"CSVPREP_DEDUP_CAPACITY" default:"0"`

	// ProgressInterval is records between progress reports (default: 1000)
	ProgressInterval int `env:"CSVPREP_PROGRESS_INTERVAL" default:"1000"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

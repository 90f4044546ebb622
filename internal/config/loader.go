package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/JonMunkholm/csvprep/internal/core"
	"github.com/JonMunkholm/csvprep/internal/schema"
)

// ErrTypeUndetected is returned by Resolve when no dataset type was given
// and none could be derived from the input filename.
var ErrTypeUndetected = errors.New("could not detect dataset type from filename")

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if required values are missing or validation fails.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadStruct recursively populates struct fields from environment variables.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		// Skip unexported fields
		if !fieldVal.CanSet() {
			continue
		}

		// Recurse into nested structs
		if field.Type.Kind() == reflect.Struct {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		// Get tags
		envName := field.Tag.Get("env")
		envAlt := field.Tag.Get("envAlt")
		defaultVal := field.Tag.Get("default")
		required := field.Tag.Get("required") == "true"

		if envName == "" {
			continue
		}

		// Try primary env var, then alternate
		value := os.Getenv(envName)
		if value == "" && envAlt != "" {
			value = os.Getenv(envAlt)
		}

		// Apply default if not set
		if value == "" {
			if required {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			value = defaultVal
		}

		if value == "" {
			continue
		}

		// Set the field value
		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(i)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Pipeline validation
	p := c.Pipeline
	if strings.TrimSpace(p.Type) != "" {
		if _, err := schema.ParseDatasetType(p.Type); err != nil {
			errs = append(errs, fmt.Sprintf("CSVPREP_TYPE: %v", err))
		}
	}
	if _, err := core.ParseFormat(p.Format); err != nil {
		errs = append(errs, fmt.Sprintf("CSVPREP_FORMAT: %v", err))
	}
	if _, err := core.ParseEncoding(p.Encoding); err != nil {
		errs = append(errs, fmt.Sprintf("CSVPREP_ENCODING: %v", err))
	}
	if _, err := ParseDelimiter(p.Delimiter); err != nil {
		errs = append(errs, fmt.Sprintf("CSVPREP_DELIMITER: %v", err))
	}
	if p.MaxLines < 0 {
		errs = append(errs, "CSVPREP_MAX_LINES must be non-negative (0 means no limit)")
	}
	if p.SkipLines < 0 {
		errs = append(errs, "CSVPREP_SKIP_LINES must be non-negative")
	}
	if p.DedupCapacity < 0 {
		errs = append(errs, "CSVPREP_DEDUP_CAPACITY must be non-negative")
	}
	if p.ProgressInterval <= 0 {
		errs = append(errs, "CSVPREP_PROGRESS_INTERVAL must be positive")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// ParseDelimiter converts a user-supplied delimiter. Empty and "auto" mean
// sniff from the input (0); "tab" and `\t` select a tab; anything else must
// be a single byte.
func ParseDelimiter(s string) (byte, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return 0, nil
	case "tab", `\t`, "\t":
		return '\t', nil
	}
	if len(s) != 1 {
		return 0, fmt.Errorf("invalid delimiter %q: want a single character", s)
	}
	switch s[0] {
	case '"', '\'', '\n', '\r':
		return 0, fmt.Errorf("invalid delimiter %q: quote and newline characters are reserved", s)
	}
	return s[0], nil
}

// Resolve turns the loaded settings into the core configuration for one
// input file. The dataset type comes from CSVPREP_TYPE, then the schema
// file, then the input filename. A schema file replaces the preset fields.
func (c *Config) Resolve(inputPath string) (core.Config, error) {
	p := c.Pipeline

	t, err := schema.DetectType(inputPath, p.Type)
	if err != nil {
		return core.Config{}, err
	}

	var fields []schema.FieldSchema
	if p.SchemaFile != "" {
		f, err := schema.LoadFile(p.SchemaFile)
		if err != nil {
			return core.Config{}, err
		}
		fields = f.Fields
		if strings.TrimSpace(p.Type) == "" {
			t = f.Type
		}
	}

	if t == schema.TypeUndefined {
		return core.Config{}, fmt.Errorf("%w %q: pass a type", ErrTypeUndetected, inputPath)
	}
	if fields == nil {
		fields, err = schema.FieldsFor(t)
		if err != nil {
			return core.Config{}, err
		}
	}

	format, err := core.ParseFormat(p.Format)
	if err != nil {
		return core.Config{}, err
	}
	enc, err := core.ParseEncoding(p.Encoding)
	if err != nil {
		return core.Config{}, err
	}
	delim, err := ParseDelimiter(p.Delimiter)
	if err != nil {
		return core.Config{}, err
	}

	return core.Config{
		Type:             t,
		Encoding:         enc,
		Delimiter:        delim,
		HasHeader:        p.HasHeader,
		StrictMode:       p.Strict,
		RemoveDuplicates: p.RemoveDuplicates,
		ValidateData:     p.Validate,
		MaxLines:         p.MaxLines,
		SkipLines:        p.SkipLines,
		Fields:           fields,
		Format:           format,
		DedupCapacity:    p.DedupCapacity,
	}, nil
}

// String returns a compact representation of the config for logging.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Pipeline: {Type: %q, SchemaFile: %q, Format: %q, Encoding: %q, Delimiter: %q, ",
		c.Pipeline.Type, c.Pipeline.SchemaFile, c.Pipeline.Format, c.Pipeline.Encoding, c.Pipeline.Delimiter))
	b.WriteString(fmt.Sprintf("HasHeader: %v, Strict: %v, RemoveDuplicates: %v, Validate: %v, MaxLines: %d, SkipLines: %d}, ",
		c.Pipeline.HasHeader, c.Pipeline.Strict, c.Pipeline.RemoveDuplicates, c.Pipeline.Validate,
		c.Pipeline.MaxLines, c.Pipeline.SkipLines))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}

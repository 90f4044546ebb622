// Package schema describes the record layouts csvprep knows how to clean:
// dataset types, their ordered field schemas, and the registry of built-in
// presets. Custom layouts can be loaded from YAML files.
package schema

import (
	"fmt"
	"strings"
)

// MaxFields is the maximum number of schema fields a dataset may declare.
const MaxFields = 16

// MinTextLength is the shortest cleaned text kept by the normalizer.
// Shorter values are blanked.
const MinTextLength = 5

// DatasetType identifies the kind of dataset being converted.
// It selects the default schema and the text output layout.
type DatasetType string

const (
	TypeUndefined      DatasetType = ""
	TypeSentiment      DatasetType = "sentiment"
	TypeLeetcode       DatasetType = "leetcode"
	TypeCustom         DatasetType = "custom"
	TypeClassification DatasetType = "classification"
	TypeQA             DatasetType = "qa"
)

// knownTypes lists every dataset type in display order.
var knownTypes = []DatasetType{
	TypeSentiment,
	TypeLeetcode,
	TypeQA,
	TypeClassification,
	TypeCustom,
}

// KnownTypes returns all supported dataset types.
func KnownTypes() []DatasetType {
	out := make([]DatasetType, len(knownTypes))
	copy(out, knownTypes)
	return out
}

// ParseDatasetType converts a user-supplied name to a DatasetType.
// Matching is case-insensitive; surrounding whitespace is ignored.
func ParseDatasetType(s string) (DatasetType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range knownTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return TypeUndefined, fmt.Errorf("unknown dataset type %q (want one of: %s)", s, typeList())
}

func (t DatasetType) String() string {
	if t == TypeUndefined {
		return "undefined"
	}
	return string(t)
}

func typeList() string {
	names := make([]string, len(knownTypes))
	for i, t := range knownTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// FieldSchema defines validation rules for a single positional field.
type FieldSchema struct {
	Name      string `yaml:"name"`       // Key used in JSON output and generic text output
	Index     int    `yaml:"index"`      // Position in the schema
	Required  bool   `yaml:"required"`   // Cleaned value must be non-empty
	IsLabel   bool   `yaml:"is_label"`   // Field carries the class label
	MinLength int    `yaml:"min_length"` // Minimum cleaned length in bytes
	MaxLength int    `yaml:"max_length"` // Maximum cleaned length in bytes (0 = unbounded)
}

// Names returns the field names of a schema in order.
func Names(fields []FieldSchema) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}
	return out
}

// LabelIndex returns the position of the first label field, or -1.
func LabelIndex(fields []FieldSchema) int {
	for i, f := range fields {
		if f.IsLabel {
			return i
		}
	}
	return -1
}

// Check reports structural problems with a schema: too many fields, blank
// or duplicate names, and inverted length bounds.
func Check(fields []FieldSchema) error {
	if len(fields) == 0 {
		return fmt.Errorf("schema has no fields")
	}
	if len(fields) > MaxFields {
		return fmt.Errorf("schema has %d fields, maximum is %d", len(fields), MaxFields)
	}

	var errs []string
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			errs = append(errs, fmt.Sprintf("field %d has no name", i))
			continue
		}
		if seen[name] {
			errs = append(errs, fmt.Sprintf("duplicate field name %q", name))
		}
		seen[name] = true
		if f.MinLength < 0 || f.MaxLength < 0 {
			errs = append(errs, fmt.Sprintf("field %q has a negative length bound", name))
		}
		if f.MaxLength > 0 && f.MinLength > f.MaxLength {
			errs = append(errs, fmt.Sprintf("field %q: min_length %d exceeds max_length %d", name, f.MinLength, f.MaxLength))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid schema: %s", strings.Join(errs, "; "))
	}
	return nil
}

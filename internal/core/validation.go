package core

// validation.go checks cleaned records against their field schemas.
//
// Validation happens at two levels:
//  1. Field count: the line must yield at least as many fields as declared
//  2. Field rules: required, minimum and maximum length per FieldSchema
//
// What happens to an invalid record is the pipeline's decision: strict runs
// drop it, other runs count it as an error and still emit it.

import (
	"fmt"

	"github.com/JonMunkholm/csvprep/internal/schema"
)

// ValidationError represents a single validation error for a field.
type ValidationError struct {
	Field   string // Field name, empty for record-level errors
	Value   string // The invalid value
	Message string // Human-readable error message
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ValidationResult contains the result of validating a record.
type ValidationResult struct {
	Valid     bool               // True if all validations passed
	Shortfall bool               // Fewer fields than declared
	Errors    []*ValidationError // All errors found (empty if Valid)
}

// ValidateField checks a cleaned value against its schema.
// Returns nil if valid.
func ValidateField(value string, fs schema.FieldSchema) error {
	n := len(value)

	if fs.Required && n == 0 {
		return &ValidationError{Field: fs.Name, Value: value, Message: "required field is empty"}
	}
	if n < fs.MinLength {
		return &ValidationError{
			Field:   fs.Name,
			Value:   value,
			Message: fmt.Sprintf("length %d is below minimum %d", n, fs.MinLength),
		}
	}
	if fs.MaxLength > 0 && n > fs.MaxLength {
		return &ValidationError{
			Field:   fs.Name,
			Value:   value,
			Message: fmt.Sprintf("length %d exceeds maximum %d", n, fs.MaxLength),
		}
	}
	return nil
}

// RecordValidator validates records against an ordered schema.
type RecordValidator struct {
	fields      []schema.FieldSchema
	checkFields bool
}

// NewRecordValidator creates a validator. When checkFields is false only the
// field count is checked.
func NewRecordValidator(fields []schema.FieldSchema, checkFields bool) *RecordValidator {
	return &RecordValidator{
		fields:      fields,
		checkFields: checkFields,
	}
}

// Validate checks the fields found on one line, before padding.
// All errors are collected.
func (v *RecordValidator) Validate(record []string) ValidationResult {
	result := ValidationResult{Valid: true}

	if len(record) < len(v.fields) {
		result.Valid = false
		result.Shortfall = true
		result.Errors = append(result.Errors, &ValidationError{
			Message: fmt.Sprintf("expected %d fields, got %d", len(v.fields), len(record)),
		})
	}

	if !v.checkFields {
		return result
	}

	for i, fs := range v.fields {
		if i >= len(record) {
			break
		}
		if err := ValidateField(record[i], fs); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, err.(*ValidationError))
		}
	}

	return result
}

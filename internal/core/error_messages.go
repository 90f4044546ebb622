package core

// # Error Codes Reference
//
// This file maps technical errors to user-friendly messages with codes, so
// a failed conversion can be reported in one line the user can act on.
//
// Error codes are grouped by category:
//
// # Pipeline Errors (PIPE001-PIPE099)
//
//	PIPE001 - Run cancelled: The conversion was interrupted
//	          Action: Run the conversion again
//	          Patterns: "run cancelled", "context canceled"
//
//	PIPE002 - No records: No records were written
//	          Action: Check the dataset type, delimiter and header settings
//	          Patterns: "no records processed"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - Input unavailable: The input file could not be opened
//	          Action: Check that the path exists and is readable
//	          Patterns: "open input"
//
//	FILE002 - Output unavailable: The output file could not be created
//	          Action: Check that the directory exists and is writable
//	          Patterns: "open output"
//
//	FILE003 - Not seekable: The input could not be inspected
//	          Action: Pass a regular file, not a pipe or a stream
//	          Patterns: "sniff"
//
//	FILE004 - Read failed: Reading the input failed part way
//	          Action: Check the input file and try again
//	          Patterns: "read input"
//
//	FILE005 - Write failed: Writing the output failed part way
//	          Action: Check free disk space and try again
//	          Patterns: "write output"
//
// # Configuration Errors (CFG001-CFG099)
//
//	CFG001 - Invalid settings: One or more settings are invalid
//	         Action: Review the listed settings
//	         Patterns: "invalid pipeline config", "config validation", "config load"
//
//	CFG002 - Schema file: The schema file could not be used
//	         Action: Check the file path and its YAML layout
//	         Patterns: "schema file", "invalid schema"
//
//	CFG003 - Dataset type: The dataset type is unknown or undetected
//	         Action: Pass --type sentiment, leetcode, qa, classification or custom
//	         Patterns: "dataset type"
//
//	CFG004 - Encoding/format: Unknown encoding or output format
//	         Action: Use utf8, latin1 or auto; txt or json
//	         Patterns: "unknown encoding", "unknown output format"
//
//	CFG005 - Delimiter: The delimiter cannot be used
//	         Action: Pass a single character such as , ; | or \t
//	         Patterns: "delimiter"

import (
	"fmt"
	"strings"
)

// UserMessage is the user-facing description of an error.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns is checked in order; the first match wins. Aggregated
// config failures come before the single-setting patterns they may contain.
var errorPatterns = []errorPattern{
	// Pipeline
	{
		pattern: "run cancelled",
		msg: UserMessage{
			Message: "The conversion was interrupted",
			Action:  "Run the conversion again",
			Code:    "PIPE001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The conversion was interrupted",
			Action:  "Run the conversion again",
			Code:    "PIPE001",
		},
	},
	{
		pattern: "no records processed",
		msg: UserMessage{
			Message: "No records were written",
			Action:  "Check the dataset type, delimiter and header settings",
			Code:    "PIPE002",
		},
	},

	// Files
	{
		pattern: "open input",
		msg: UserMessage{
			Message: "The input file could not be opened",
			Action:  "Check that the path exists and is readable",
			Code:    "FILE001",
		},
	},
	{
		pattern: "open output",
		msg: UserMessage{
			Message: "The output file could not be created",
			Action:  "Check that the directory exists and is writable",
			Code:    "FILE002",
		},
	},
	{
		pattern: "sniff",
		msg: UserMessage{
			Message: "The input could not be inspected",
			Action:  "Pass a regular file, not a pipe or a stream",
			Code:    "FILE003",
		},
	},
	{
		pattern: "read input",
		msg: UserMessage{
			Message: "Reading the input failed part way",
			Action:  "Check the input file and try again",
			Code:    "FILE004",
		},
	},
	{
		pattern: "write output",
		msg: UserMessage{
			Message: "Writing the output failed part way",
			Action:  "Check free disk space and try again",
			Code:    "FILE005",
		},
	},

	// Configuration
	{
		pattern: "invalid pipeline config",
		msg: UserMessage{
			Message: "One or more settings are invalid",
			Action:  "Review the listed settings",
			Code:    "CFG001",
		},
	},
	{
		pattern: "config validation",
		msg: UserMessage{
			Message: "One or more settings are invalid",
			Action:  "Review the listed settings",
			Code:    "CFG001",
		},
	},
	{
		pattern: "config load",
		msg: UserMessage{
			Message: "One or more settings are invalid",
			Action:  "Review the listed settings",
			Code:    "CFG001",
		},
	},
	{
		pattern: "schema file",
		msg: UserMessage{
			Message: "The schema file could not be used",
			Action:  "Check the file path and its YAML layout",
			Code:    "CFG002",
		},
	},
	{
		pattern: "invalid schema",
		msg: UserMessage{
			Message: "The schema file could not be used",
			Action:  "Check the file path and its YAML layout",
			Code:    "CFG002",
		},
	},
	{
		pattern: "dataset type",
		msg: UserMessage{
			Message: "The dataset type is unknown or could not be detected",
			Action:  "Pass --type sentiment, leetcode, qa, classification or custom",
			Code:    "CFG003",
		},
	},
	{
		pattern: "unknown encoding",
		msg: UserMessage{
			Message: "Unknown input encoding",
			Action:  "Use utf8, latin1 or auto",
			Code:    "CFG004",
		},
	},
	{
		pattern: "unknown output format",
		msg: UserMessage{
			Message: "Unknown output format",
			Action:  "Use txt or json",
			Code:    "CFG004",
		},
	},
	{
		pattern: "delimiter",
		msg: UserMessage{
			Message: "The delimiter cannot be used",
			Action:  `Pass a single character such as , ; | or \t`,
			Code:    "CFG005",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Run again with --log-level debug for details",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns an empty UserMessage for a nil error and the generic ERR000
// message when no pattern matches.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
//
// Example output: "The input file could not be opened (Code: FILE001). Check that the path exists and is readable"
func FormatUserError(err error) string {
	ue := NewUserError(err)
	if ue == nil {
		return ""
	}
	return ue.Format()
}

// IsUserFacing reports whether err matches a known pattern (anything but
// the generic ERR000 fallback).
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-friendly message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// Format renders the message as "Message (Code: XXX). Action".
func (e *UserError) Format() string {
	return fmt.Sprintf("%s (Code: %s). %s", e.User.Message, e.User.Code, e.User.Action)
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}

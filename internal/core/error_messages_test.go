package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "missing input maps correctly",
			err:         fmt.Errorf("%w %s: %w", ErrOpenInput, "data.csv", errors.New("no such file or directory")),
			wantCode:    "FILE001",
			wantMessage: "The input file could not be opened",
		},
		{
			name:        "unwritable output maps correctly",
			err:         fmt.Errorf("%w %s: %w", ErrOpenOutput, "out.txt", errors.New("permission denied")),
			wantCode:    "FILE002",
			wantMessage: "The output file could not be created",
		},
		{
			name:        "unseekable input maps correctly",
			err:         errors.New("sniff encoding: seek /dev/stdin: illegal seek"),
			wantCode:    "FILE003",
			wantMessage: "The input could not be inspected",
		},
		{
			name:        "read failure maps correctly",
			err:         errors.New("read input at line 12: input/output error"),
			wantCode:    "FILE004",
			wantMessage: "Reading the input failed part way",
		},
		{
			name:        "write failure maps correctly",
			err:         errors.New("write output at line 7: no space left on device"),
			wantCode:    "FILE005",
			wantMessage: "Writing the output failed part way",
		},
		{
			name:        "cancelled run maps correctly",
			err:         fmt.Errorf("run cancelled at line %d: %w", 300, context.Canceled),
			wantCode:    "PIPE001",
			wantMessage: "The conversion was interrupted",
		},
		{
			name:        "empty result maps correctly",
			err:         ErrNoRecords,
			wantCode:    "PIPE002",
			wantMessage: "No records were written",
		},
		{
			name:        "aggregated config failure wins over contained settings",
			err:         errors.New("invalid pipeline config:\n  - delimiter '\"' cannot be used"),
			wantCode:    "CFG001",
			wantMessage: "One or more settings are invalid",
		},
		{
			name:        "schema file maps correctly",
			err:         errors.New("read schema file fields.yaml: no such file or directory"),
			wantCode:    "CFG002",
			wantMessage: "The schema file could not be used",
		},
		{
			name:        "dataset type maps correctly",
			err:         errors.New(`unknown dataset type "tweets"`),
			wantCode:    "CFG003",
			wantMessage: "The dataset type is unknown or could not be detected",
		},
		{
			name:        "unknown encoding maps correctly",
			err:         errors.New(`unknown encoding "utf16" (want utf8, latin1 or auto)`),
			wantCode:    "CFG004",
			wantMessage: "Unknown input encoding",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("OPEN INPUT data.csv: denied"),
			wantCode:    "FILE001",
			wantMessage: "The input file could not be opened",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	err := fmt.Errorf("%w %s: %w", ErrOpenInput, "data.csv", errors.New("no such file or directory"))
	result := FormatUserError(err)

	expected := "The input file could not be opened (Code: FILE001). Check that the path exists and is readable"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error is not user facing",
			err:  nil,
			want: false,
		},
		{
			name: "known error is user facing",
			err:  ErrNoRecords,
			want: true,
		},
		{
			name: "unknown error is not user facing",
			err:  errors.New("random internal error xyz"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsUserFacing(tt.err)
			if got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		techErr := fmt.Errorf("%w %s: denied", ErrOpenOutput, "out.txt")
		userErr := NewUserError(techErr)

		if userErr.Error() != "The output file could not be created" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}

		if !errors.Is(userErr, ErrOpenOutput) {
			t.Error("Unwrap() should expose the original sentinel")
		}
	})
}

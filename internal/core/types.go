package core

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/csvprep/internal/schema"
)

const (
	// MaxFields is the maximum number of fields kept from one line.
	MaxFields = 32

	// MaxFieldLength is the maximum number of bytes kept per field.
	MaxFieldLength = 8192

	// MaxLineLength bounds one physical input line, terminator included.
	// Bytes beyond it are discarded.
	MaxLineLength = 8192

	// DefaultDedupCapacity sizes the duplicate table when MaxLines is 0.
	DefaultDedupCapacity = 100000

	// DefaultProgressInterval is how many processed records pass between
	// progress reports.
	DefaultProgressInterval = 1000

	// MaxClasses bounds the class distribution table.
	MaxClasses = 32
)

// Encoding is the text encoding noted for the input stream.
// No transcoding is performed; Latin1 and Auto both pass bytes through.
type Encoding string

const (
	EncodingUTF8   Encoding = "utf8"
	EncodingLatin1 Encoding = "latin1"
	EncodingAuto   Encoding = "auto"
)

// ParseEncoding converts a user-supplied encoding name.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "utf8", "utf-8":
		return EncodingUTF8, nil
	case "latin1", "latin-1", "iso-8859-1":
		return EncodingLatin1, nil
	case "", "auto":
		return EncodingAuto, nil
	default:
		return "", fmt.Errorf("unknown encoding %q (want utf8, latin1 or auto)", s)
	}
}

// Format is the output serialization format.
type Format string

const (
	FormatText Format = "txt"
	FormatJSON Format = "json"
)

// ParseFormat converts a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "txt", "text":
		return FormatText, nil
	case "json", "jsonl":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want txt or json)", s)
	}
}

// Config is the fully resolved configuration of one run.
type Config struct {
	Type      schema.DatasetType
	Encoding  Encoding
	Delimiter byte // 0 means sniff from the input

	HasHeader        bool
	StrictMode       bool
	RemoveDuplicates bool
	ValidateData     bool

	MaxLines  int // 0 = unbounded
	SkipLines int

	Fields []schema.FieldSchema
	Format Format

	// DedupCapacity overrides the duplicate table size. 0 applies the
	// default rule: MaxLines when bounded, else DefaultDedupCapacity.
	DedupCapacity int
}

// Validate checks that the configuration can drive a run.
// Returns an error describing all validation failures.
func (c Config) Validate() error {
	var errs []string

	if _, ok := schema.Get(c.Type); !ok {
		errs = append(errs, fmt.Sprintf("dataset type %q is not supported", c.Type))
	}
	if err := schema.Check(c.Fields); err != nil {
		errs = append(errs, err.Error())
	}
	switch c.Encoding {
	case EncodingUTF8, EncodingLatin1, EncodingAuto:
	default:
		errs = append(errs, fmt.Sprintf("encoding %q is not supported", c.Encoding))
	}
	switch c.Format {
	case FormatText, FormatJSON:
	default:
		errs = append(errs, fmt.Sprintf("format %q is not supported", c.Format))
	}
	if c.Delimiter == '"' || c.Delimiter == '\'' || c.Delimiter == '\n' || c.Delimiter == '\r' {
		errs = append(errs, fmt.Sprintf("delimiter %q cannot be used", c.Delimiter))
	}
	if c.MaxLines < 0 {
		errs = append(errs, "max lines must be non-negative (0 means no limit)")
	}
	if c.SkipLines < 0 {
		errs = append(errs, "skip lines must be non-negative")
	}
	if c.DedupCapacity < 0 {
		errs = append(errs, "dedup capacity must be non-negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid pipeline config:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// dedupCapacity returns the duplicate table size for this run.
func (c Config) dedupCapacity() int {
	if c.DedupCapacity > 0 {
		return c.DedupCapacity
	}
	if c.MaxLines > 0 {
		return c.MaxLines
	}
	return DefaultDedupCapacity
}

// Phase indicates the current stage of a run.
type Phase string

const (
	PhaseInit           Phase = "init"
	PhaseSkippingLines  Phase = "skipping_lines"
	PhaseHeaderConsumed Phase = "header_consumed"
	PhaseStreaming      Phase = "streaming"
	PhaseDone           Phase = "done"
	PhaseAborted        Phase = "aborted"
)

// Progress is a snapshot of a running pipeline, delivered to ProgressFunc.
type Progress struct {
	RunID          string
	Phase          Phase
	TotalLines     int
	ProcessedLines int
	BytesRead      int64
	BytesTotal     int64
}

// Percent returns the read progress as a percentage (0-100), based on
// bytes when the input size is known, otherwise on lines.
func (p Progress) Percent() int {
	if p.BytesTotal > 0 {
		return int((p.BytesRead * 100) / p.BytesTotal)
	}
	if p.TotalLines > 0 {
		return (p.ProcessedLines * 100) / p.TotalLines
	}
	return 0
}

// ProgressFunc is called periodically while streaming.
type ProgressFunc func(Progress)

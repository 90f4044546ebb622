package core

// pipeline.go drives one conversion run.
//
// A run moves through these phases:
//
//	init → skipping_lines → header_consumed (optional) → streaming → done
//
// Any failure before streaming starts aborts the run. While streaming,
// problems with individual lines only update counters; only read and write
// errors (or a cancelled context) end the run early.

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JonMunkholm/csvprep/internal/logging"
	"github.com/JonMunkholm/csvprep/internal/schema"
)

var (
	// ErrOpenInput is returned when the input file cannot be opened.
	ErrOpenInput = errors.New("open input")

	// ErrOpenOutput is returned when the output file cannot be created.
	ErrOpenOutput = errors.New("open output")

	// ErrNoRecords reports a run that completed without writing a record.
	// The pipeline itself never returns it; callers decide whether an empty
	// result is a failure.
	ErrNoRecords = errors.New("no records processed")
)

// ContextCheckInterval is how often (in lines) to check for context
// cancellation while streaming.
var ContextCheckInterval = 100

// Pipeline converts delimited input into cleaned records.
// A Pipeline holds only immutable configuration; all per-run state lives in
// the run, so one Pipeline can serve several sequential or concurrent runs.
type Pipeline struct {
	cfg      Config
	logger   *slog.Logger
	progress ProgressFunc
	interval int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. Defaults to logging.FromContext of the run
// context.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithProgressFunc registers a callback invoked at every progress report.
func WithProgressFunc(fn ProgressFunc) Option {
	return func(p *Pipeline) { p.progress = fn }
}

// WithProgressInterval sets how many processed records pass between
// progress reports.
func WithProgressInterval(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.interval = n
		}
	}
}

// NewPipeline validates cfg and creates a pipeline.
func NewPipeline(cfg Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fields := make([]schema.FieldSchema, len(cfg.Fields))
	copy(fields, cfg.Fields)
	cfg.Fields = fields

	p := &Pipeline{
		cfg:      cfg,
		interval: DefaultProgressInterval,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// RunFiles opens inPath, creates outPath and runs the pipeline between
// them. Open failures wrap ErrOpenInput or ErrOpenOutput.
func (p *Pipeline) RunFiles(ctx context.Context, inPath, outPath string) (stats Stats, err error) {
	in, err := os.Open(inPath)
	if err != nil {
		return Stats{}, fmt.Errorf("%w %s: %w", ErrOpenInput, inPath, err)
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return Stats{}, fmt.Errorf("%w %s: %w", ErrOpenOutput, outPath, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("write output: close %s: %w", outPath, cerr)
		}
	}()

	return p.Run(ctx, in, out)
}

// Run converts in to out. The returned Stats reflect all lines handled,
// also when an error ends the run early.
func (p *Pipeline) Run(ctx context.Context, in io.ReadSeeker, out io.Writer) (Stats, error) {
	logger := p.logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}

	r := &run{
		cfg:      p.cfg,
		phase:    PhaseInit,
		logger:   logger,
		progress: p.progress,
		interval: p.interval,
		labelIdx: schema.LabelIndex(p.cfg.Fields),
	}
	if id, ok := logging.RunID(ctx); ok {
		r.runID = id.String()
	}

	if err := r.init(in, out); err != nil {
		r.phase = PhaseAborted
		logger.Error("run aborted", "phase", PhaseInit, "error", err)
		return r.stats, err
	}

	lines := newLineReader(r.counter, MaxLineLength)

	r.skipLines(lines)
	r.consumeHeader(lines)

	streamErr := r.stream(ctx, lines)
	if err := r.out.Flush(); err != nil && streamErr == nil {
		streamErr = fmt.Errorf("write output: %w", err)
	}

	r.stats.finalize()

	if streamErr != nil {
		r.phase = PhaseAborted
		logger.Error("run aborted",
			"phase", PhaseStreaming,
			"total_lines", r.stats.TotalLines,
			"processed", r.stats.ProcessedLines,
			"error", streamErr,
		)
		return r.stats, streamErr
	}

	r.phase = PhaseDone
	logger.Info("run complete",
		"total_lines", r.stats.TotalLines,
		"processed", r.stats.ProcessedLines,
		"errors", r.stats.ErrorLines,
		"skipped", r.stats.SkippedLines,
		"duplicates", r.stats.DuplicateLines,
		"avg_text_length", r.stats.AvgTextLength,
	)
	return r.stats, nil
}

// run is the mutable state of one conversion.
type run struct {
	cfg   Config
	phase Phase
	stats Stats

	validator *RecordValidator
	dedup     *DedupFilter
	renderer  Renderer
	counter   *CountingReader
	out       *bufio.Writer

	logger   *slog.Logger
	progress ProgressFunc
	interval int
	labelIdx int
	runID    string

	dedupFullLogged bool
	lineNo          int // physical lines read, including skipped ones
}

// init resolves delimiter and encoding from the input and sets up the
// per-run components.
func (r *run) init(in io.ReadSeeker, out io.Writer) error {
	enc, err := DetectEncoding(in)
	if err != nil {
		return err
	}
	if r.cfg.Encoding == EncodingAuto {
		r.cfg.Encoding = enc
	}

	if r.cfg.Delimiter == 0 {
		delim, err := DetectDelimiter(in)
		if err != nil {
			return err
		}
		r.cfg.Delimiter = delim
	}

	size, err := streamSize(in)
	if err != nil {
		return fmt.Errorf("sniff size: %w", err)
	}

	r.stats.Delimiter = r.cfg.Delimiter
	r.stats.Encoding = r.cfg.Encoding

	r.counter = NewCountingReader(in, size)
	r.out = bufio.NewWriterSize(out, 64*1024)
	r.validator = NewRecordValidator(r.cfg.Fields, r.cfg.ValidateData)
	r.renderer = RendererFor(r.cfg.Format, r.cfg.Type)
	if r.cfg.RemoveDuplicates {
		r.dedup = NewDedupFilter(r.cfg.dedupCapacity())
	}

	r.logger.Info("run started",
		"type", r.cfg.Type,
		"format", r.cfg.Format,
		"delimiter", string(r.cfg.Delimiter),
		"encoding", r.cfg.Encoding,
		"bytes", size,
	)
	return nil
}

// skipLines discards the configured number of leading lines. Running out of
// input ends the phase early.
func (r *run) skipLines(lines *lineReader) {
	r.phase = PhaseSkippingLines
	for i := 0; i < r.cfg.SkipLines; i++ {
		if err := lines.Skip(); err != nil {
			return
		}
		r.lineNo++
	}
}

// consumeHeader discards the header line. It counts towards TotalLines but
// is never processed.
func (r *run) consumeHeader(lines *lineReader) {
	if !r.cfg.HasHeader {
		return
	}
	header, err := lines.Next()
	if err != nil {
		return
	}
	r.lineNo++
	r.phase = PhaseHeaderConsumed
	r.stats.TotalLines++
	r.logger.Debug("header", "line", string(trimTerminator(header)))
}

func (r *run) stream(ctx context.Context, lines *lineReader) error {
	r.phase = PhaseStreaming

	for i := 0; ; i++ {
		if r.cfg.MaxLines > 0 && r.stats.ProcessedLines >= r.cfg.MaxLines {
			return nil
		}

		if i%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("run cancelled at line %d: %w", r.lineNo, err)
			}
		}

		raw, err := lines.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input at line %d: %w", r.lineNo+1, err)
		}
		r.lineNo++
		r.stats.TotalLines++

		line := trimTerminator(raw)
		if len(line) == 0 {
			continue
		}

		if err := r.processLine(string(line)); err != nil {
			return err
		}
	}
}

// processLine runs one non-empty line through tokenize, normalize,
// validate, dedup and render.
func (r *run) processLine(line string) error {
	fields := Tokenize(line, r.cfg.Delimiter)
	declared := len(r.cfg.Fields)

	for i := 0; i < len(fields) && i < declared; i++ {
		fields[i] = Normalize(fields[i], r.cfg.StrictMode, MaxFieldLength)
	}

	result := r.validator.Validate(fields)
	if !result.Valid {
		r.stats.ErrorLines++
		r.logger.Debug("invalid record",
			"line", r.lineNo,
			"strict", r.cfg.StrictMode,
			"reason", result.Errors[0].Error(),
			"errors", len(result.Errors),
		)
		if r.cfg.StrictMode {
			r.stats.SkippedLines++
			return nil
		}
	}

	if r.dedup != nil && len(fields) > 0 {
		if r.dedup.Seen(fields[0]) {
			r.stats.DuplicateLines++
			return nil
		}
		if !r.dedupFullLogged && r.dedup.Full() {
			r.dedupFullLogged = true
			r.logger.Warn("duplicate table full, later repeats go undetected",
				"line", r.lineNo,
				"capacity", r.dedup.Cap(),
			)
		}
	}

	for len(fields) < declared {
		fields = append(fields, "")
	}

	if err := r.renderer.Render(r.out, fields, r.cfg.Fields); err != nil {
		return fmt.Errorf("write output at line %d: %w", r.lineNo, err)
	}

	r.stats.ProcessedLines++
	r.stats.addTextLength(len(fields[0]))
	if r.labelIdx >= 0 {
		r.stats.recordClass(fields[r.labelIdx])
	}

	if r.stats.ProcessedLines%r.interval == 0 {
		r.reportProgress()
	}
	return nil
}

func (r *run) reportProgress() {
	p := Progress{
		RunID:          r.runID,
		Phase:          r.phase,
		TotalLines:     r.stats.TotalLines,
		ProcessedLines: r.stats.ProcessedLines,
		BytesRead:      r.counter.BytesRead,
		BytesTotal:     r.counter.Total,
	}

	r.logger.Info("progress",
		"processed", p.ProcessedLines,
		"total_lines", p.TotalLines,
		"success_rate", r.stats.SuccessRate(),
		"percent_read", p.Percent(),
	)
	if r.progress != nil {
		r.progress(p)
	}
}

// trimTerminator cuts a line at its first CR or LF.
func trimTerminator(b []byte) []byte {
	if i := bytes.IndexAny(b, "\r\n"); i >= 0 {
		return b[:i]
	}
	return b
}

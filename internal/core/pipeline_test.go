package core

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/csvprep/internal/schema"
)

func presetFields(t *testing.T, dt schema.DatasetType) []schema.FieldSchema {
	t.Helper()
	fields, err := schema.FieldsFor(dt)
	if err != nil {
		t.Fatalf("FieldsFor(%s): %v", dt, err)
	}
	return fields
}

func testConfig(t *testing.T, dt schema.DatasetType) Config {
	t.Helper()
	return Config{
		Type:      dt,
		Encoding:  EncodingAuto,
		Delimiter: ',',
		Fields:    presetFields(t, dt),
		Format:    FormatText,
	}
}

func runPipeline(t *testing.T, cfg Config, input string, opts ...Option) (Stats, string) {
	t.Helper()
	opts = append([]Option{WithLogger(slog.New(slog.DiscardHandler))}, opts...)
	p, err := NewPipeline(cfg, opts...)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	var out bytes.Buffer
	stats, err := p.Run(context.Background(), strings.NewReader(input), &out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return stats, out.String()
}

func TestPipelineBasic(t *testing.T) {
	cfg := testConfig(t, schema.TypeSentiment)
	cfg.HasHeader = true

	input := "text,sentiment\nGreat! ,positive\nTerrible service,negative\n"
	stats, out := runPipeline(t, cfg, input)

	expected := "Text: Great!\nSentiment: positive\n---\n" +
		"Text: Terrible service\nSentiment: negative\n---\n"
	if out != expected {
		t.Errorf("got %q, want %q", out, expected)
	}
	if stats.TotalLines != 3 {
		t.Errorf("TotalLines = %d, want 3", stats.TotalLines)
	}
	if stats.ProcessedLines != 2 {
		t.Errorf("ProcessedLines = %d, want 2", stats.ProcessedLines)
	}
	if stats.ErrorLines != 0 {
		t.Errorf("ErrorLines = %d, want 0", stats.ErrorLines)
	}
}

func TestPipelineJSON(t *testing.T) {
	cfg := testConfig(t, schema.TypeSentiment)
	cfg.Format = FormatJSON

	_, out := runPipeline(t, cfg, "Great! ,positive\n")

	expected := `{"text":"Great!","sentiment":"positive"}` + "\n"
	if out != expected {
		t.Errorf("got %q, want %q", out, expected)
	}
}

func TestPipelineInvalidRecord(t *testing.T) {
	input := "abc,positive\nGood enough,positive\n"

	t.Run("non-strict emits and counts", func(t *testing.T) {
		cfg := testConfig(t, schema.TypeSentiment)
		cfg.ValidateData = true

		stats, out := runPipeline(t, cfg, input)
		if stats.ErrorLines != 1 {
			t.Errorf("ErrorLines = %d, want 1", stats.ErrorLines)
		}
		if stats.ProcessedLines != 2 {
			t.Errorf("ProcessedLines = %d, want 2", stats.ProcessedLines)
		}
		if !strings.HasPrefix(out, "Text: \nSentiment: positive\n---\n") {
			t.Errorf("invalid record should still be written, got %q", out)
		}
	})

	t.Run("strict skips", func(t *testing.T) {
		cfg := testConfig(t, schema.TypeSentiment)
		cfg.ValidateData = true
		cfg.StrictMode = true

		stats, out := runPipeline(t, cfg, input)
		if stats.ErrorLines != 1 {
			t.Errorf("ErrorLines = %d, want 1", stats.ErrorLines)
		}
		if stats.SkippedLines != 1 {
			t.Errorf("SkippedLines = %d, want 1", stats.SkippedLines)
		}
		if stats.ProcessedLines != 1 {
			t.Errorf("ProcessedLines = %d, want 1", stats.ProcessedLines)
		}
		expected := "Text: Good enough\nSentiment: positive\n---\n"
		if out != expected {
			t.Errorf("got %q, want %q", out, expected)
		}
	})

	t.Run("field rules off", func(t *testing.T) {
		cfg := testConfig(t, schema.TypeSentiment)

		stats, _ := runPipeline(t, cfg, input)
		if stats.ErrorLines != 0 {
			t.Errorf("ErrorLines = %d, want 0", stats.ErrorLines)
		}
	})
}

func TestPipelineShortfall(t *testing.T) {
	cfg := testConfig(t, schema.TypeSentiment)

	stats, out := runPipeline(t, cfg, "just one field here\n")
	if stats.ErrorLines != 1 {
		t.Errorf("ErrorLines = %d, want 1", stats.ErrorLines)
	}
	expected := "Text: just one field here\nSentiment: \n---\n"
	if out != expected {
		t.Errorf("got %q, want %q", out, expected)
	}

	// Short and failing a field rule still counts as one error line.
	cfg.ValidateData = true
	stats, _ = runPipeline(t, cfg, "abc\n")
	if stats.ErrorLines != 1 {
		t.Errorf("short invalid record: ErrorLines = %d, want 1", stats.ErrorLines)
	}
	cfg.ValidateData = false

	cfg.StrictMode = true
	stats, out = runPipeline(t, cfg, "just one field here\n")
	if stats.ProcessedLines != 0 || out != "" {
		t.Errorf("strict shortfall: processed %d, output %q", stats.ProcessedLines, out)
	}
}

func TestPipelineDuplicates(t *testing.T) {
	cfg := testConfig(t, schema.TypeSentiment)
	cfg.RemoveDuplicates = true

	input := "Same review text,positive\nSame review text,negative\nOther review,positive\n"
	stats, out := runPipeline(t, cfg, input)

	if stats.ProcessedLines != 2 {
		t.Errorf("ProcessedLines = %d, want 2", stats.ProcessedLines)
	}
	if stats.DuplicateLines != 1 {
		t.Errorf("DuplicateLines = %d, want 1", stats.DuplicateLines)
	}
	if strings.Contains(out, "negative") {
		t.Errorf("duplicate should not be written, got %q", out)
	}

	cfg.RemoveDuplicates = false
	stats, _ = runPipeline(t, cfg, input)
	if stats.ProcessedLines != 3 || stats.DuplicateLines != 0 {
		t.Errorf("without dedup: processed %d, duplicates %d", stats.ProcessedLines, stats.DuplicateLines)
	}
}

func TestPipelineDedupPastCapacity(t *testing.T) {
	cfg := testConfig(t, schema.TypeSentiment)
	cfg.RemoveDuplicates = true
	cfg.DedupCapacity = 1

	input := "First review,positive\n" +
		"Second review,negative\n" +
		"Second review,negative\n" +
		"First review,positive\n"
	stats, _ := runPipeline(t, cfg, input)

	// Only the first value fits in the table, so the repeated second value
	// is written again.
	if stats.DuplicateLines != 1 {
		t.Errorf("DuplicateLines = %d, want 1", stats.DuplicateLines)
	}
	if stats.ProcessedLines != 3 {
		t.Errorf("ProcessedLines = %d, want 3", stats.ProcessedLines)
	}
}

func TestPipelineMaxLines(t *testing.T) {
	cfg := testConfig(t, schema.TypeSentiment)
	cfg.MaxLines = 2

	input := strings.Repeat("Another line of text,positive\n", 5)
	stats, out := runPipeline(t, cfg, input)

	if stats.ProcessedLines != 2 {
		t.Errorf("ProcessedLines = %d, want 2", stats.ProcessedLines)
	}
	if stats.TotalLines != 2 {
		t.Errorf("TotalLines = %d, want 2", stats.TotalLines)
	}
	if n := strings.Count(out, RecordSeparator+"\n"); n != 2 {
		t.Errorf("got %d records, want 2", n)
	}
}

func TestPipelineSkipLinesAndHeader(t *testing.T) {
	cfg := testConfig(t, schema.TypeSentiment)
	cfg.SkipLines = 2
	cfg.HasHeader = true

	input := "# exported\n# by tool\ntext,sentiment\nFirst review,positive\n"
	stats, out := runPipeline(t, cfg, input)

	if stats.TotalLines != 2 {
		t.Errorf("TotalLines = %d, want 2", stats.TotalLines)
	}
	if stats.ProcessedLines != 1 {
		t.Errorf("ProcessedLines = %d, want 1", stats.ProcessedLines)
	}
	expected := "Text: First review\nSentiment: positive\n---\n"
	if out != expected {
		t.Errorf("got %q, want %q", out, expected)
	}
}

func TestPipelineSkipPastEnd(t *testing.T) {
	cfg := testConfig(t, schema.TypeSentiment)
	cfg.SkipLines = 10
	cfg.HasHeader = true

	stats, out := runPipeline(t, cfg, "a,b\nc,d\n")
	if stats.TotalLines != 0 || out != "" {
		t.Errorf("got total %d and output %q, want nothing", stats.TotalLines, out)
	}
}

func TestPipelineEmptyLinesAndCRLF(t *testing.T) {
	cfg := testConfig(t, schema.TypeSentiment)

	input := "\r\nWindows line,positive\r\n\n"
	stats, out := runPipeline(t, cfg, input)

	if stats.TotalLines != 3 {
		t.Errorf("TotalLines = %d, want 3", stats.TotalLines)
	}
	if stats.ProcessedLines != 1 {
		t.Errorf("ProcessedLines = %d, want 1", stats.ProcessedLines)
	}
	if stats.ErrorLines != 0 || stats.SkippedLines != 0 {
		t.Errorf("empty lines changed counters: errors %d, skipped %d", stats.ErrorLines, stats.SkippedLines)
	}
	expected := "Text: Windows line\nSentiment: positive\n---\n"
	if out != expected {
		t.Errorf("got %q, want %q", out, expected)
	}
}

func TestPipelineSniffing(t *testing.T) {
	cfg := testConfig(t, schema.TypeSentiment)
	cfg.Delimiter = 0

	input := "\xEF\xBB\xBFNice little shop;positive\n"
	stats, out := runPipeline(t, cfg, input)

	if stats.Delimiter != ';' {
		t.Errorf("Delimiter = %q, want %q", stats.Delimiter, ';')
	}
	if stats.Encoding != EncodingUTF8 {
		t.Errorf("Encoding = %q, want %q", stats.Encoding, EncodingUTF8)
	}
	expected := "Text: Nice little shop\nSentiment: positive\n---\n"
	if out != expected {
		t.Errorf("got %q, want %q", out, expected)
	}
}

func TestPipelineConfiguredEncodingKept(t *testing.T) {
	cfg := testConfig(t, schema.TypeSentiment)
	cfg.Encoding = EncodingLatin1

	stats, _ := runPipeline(t, cfg, "\xEF\xBB\xBFSome text,positive\n")
	if stats.Encoding != EncodingLatin1 {
		t.Errorf("Encoding = %q, want %q", stats.Encoding, EncodingLatin1)
	}
}

func TestPipelineAverageLength(t *testing.T) {
	cfg := testConfig(t, schema.TypeCustom)

	input := strings.Repeat("a", 10) + ",x\n" + strings.Repeat("b", 20) + ",y\n"
	stats, _ := runPipeline(t, cfg, input)
	if stats.AvgTextLength != 15.0 {
		t.Errorf("AvgTextLength = %v, want 15", stats.AvgTextLength)
	}

	stats, _ = runPipeline(t, cfg, "")
	if stats.AvgTextLength != 0.0 {
		t.Errorf("AvgTextLength on empty input = %v, want 0", stats.AvgTextLength)
	}
}

func TestPipelineClassDistribution(t *testing.T) {
	cfg := testConfig(t, schema.TypeSentiment)

	input := "Loved it a lot,positive\nHated it a lot,negative\nLiked it fine,positive\n"
	stats, _ := runPipeline(t, cfg, input)

	if got := stats.ClassCount("positive"); got != 2 {
		t.Errorf("ClassCount(positive) = %d, want 2", got)
	}
	if got := stats.ClassCount("negative"); got != 1 {
		t.Errorf("ClassCount(negative) = %d, want 1", got)
	}
}

func TestPipelineProgress(t *testing.T) {
	cfg := testConfig(t, schema.TypeSentiment)

	var reports []Progress
	input := strings.Repeat("Progress test line,positive\n", 5)
	runPipeline(t, cfg, input,
		WithProgressInterval(2),
		WithProgressFunc(func(p Progress) { reports = append(reports, p) }),
	)

	if len(reports) != 2 {
		t.Fatalf("got %d progress reports, want 2", len(reports))
	}
	if reports[1].ProcessedLines != 4 {
		t.Errorf("ProcessedLines = %d, want 4", reports[1].ProcessedLines)
	}
	if reports[1].Phase != PhaseStreaming {
		t.Errorf("Phase = %q, want %q", reports[1].Phase, PhaseStreaming)
	}
}

func TestPipelineCancelled(t *testing.T) {
	cfg := testConfig(t, schema.TypeSentiment)
	p, err := NewPipeline(cfg, WithLogger(slog.New(slog.DiscardHandler)))
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	stats, err := p.Run(ctx, strings.NewReader("Some review,positive\n"), &out)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got error %v, want context.Canceled", err)
	}
	if stats.ProcessedLines != 0 {
		t.Errorf("ProcessedLines = %d, want 0", stats.ProcessedLines)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestPipelineWriteError(t *testing.T) {
	cfg := testConfig(t, schema.TypeSentiment)
	p, err := NewPipeline(cfg, WithLogger(slog.New(slog.DiscardHandler)))
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	_, err = p.Run(context.Background(), strings.NewReader("Some review,positive\n"), failingWriter{})
	if err == nil || !strings.Contains(err.Error(), "write output") {
		t.Errorf("got error %v, want write output error", err)
	}
}

func TestNewPipelineInvalidConfig(t *testing.T) {
	cfg := testConfig(t, schema.TypeSentiment)
	cfg.Format = "xml"
	cfg.MaxLines = -1

	_, err := NewPipeline(cfg)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "format") || !strings.Contains(err.Error(), "max lines") {
		t.Errorf("error should list every problem, got %q", err.Error())
	}
}

func TestRunFiles(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "reviews.csv")
	outPath := filepath.Join(dir, "reviews.txt")

	if err := os.WriteFile(inPath, []byte("text,sentiment\nGreat! ,positive\n"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	cfg := testConfig(t, schema.TypeSentiment)
	cfg.HasHeader = true
	p, err := NewPipeline(cfg, WithLogger(slog.New(slog.DiscardHandler)))
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	stats, err := p.RunFiles(context.Background(), inPath, outPath)
	if err != nil {
		t.Fatalf("RunFiles: %v", err)
	}
	if stats.ProcessedLines != 1 {
		t.Errorf("ProcessedLines = %d, want 1", stats.ProcessedLines)
	}

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(got) != "Text: Great!\nSentiment: positive\n---\n" {
		t.Errorf("got %q", got)
	}

	t.Run("missing input", func(t *testing.T) {
		_, err := p.RunFiles(context.Background(), filepath.Join(dir, "nope.csv"), outPath)
		if !errors.Is(err, ErrOpenInput) {
			t.Errorf("got %v, want ErrOpenInput", err)
		}
	})

	t.Run("unwritable output", func(t *testing.T) {
		_, err := p.RunFiles(context.Background(), inPath, filepath.Join(dir, "missing", "out.txt"))
		if !errors.Is(err, ErrOpenOutput) {
			t.Errorf("got %v, want ErrOpenOutput", err)
		}
	})
}

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/csvprep/internal/config"
	"github.com/JonMunkholm/csvprep/internal/core"
	"github.com/JonMunkholm/csvprep/internal/logging"
)

// flagValues holds raw command-line values. Only flags the user actually
// set are applied over the loaded configuration.
type flagValues struct {
	output           string
	dtype            string
	schemaFile       string
	maxLines         int
	skipLines        int
	delimiter        string
	format           string
	encoding         string
	noHeader         bool
	strict           bool
	removeDuplicates bool
	validate         bool
	logLevel         string
	logFormat        string
}

func newRootCmd() *cobra.Command {
	var fv flagValues

	cmd := &cobra.Command{
		Use:   "csvprep <input> --output <file>",
		Short: "Clean and validate CSV datasets for training",
		Long: `csvprep streams a delimited text file through a cleaning pipeline:
delimiter and BOM sniffing, quote-aware tokenizing, text normalization,
schema validation and duplicate removal. Records are written as labeled
text blocks or JSON lines.

The dataset type is taken from --type, from a --schema file, or guessed
from the input filename (sentiment/review, leetcode/problem, qa/question,
class/category).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], fv)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&fv.output, "output", "o", "", "Output file path (required)")
	f.StringVarP(&fv.dtype, "type", "t", "", "Dataset type: sentiment, leetcode, qa, classification, custom")
	f.StringVar(&fv.schemaFile, "schema", "", "YAML schema file overriding the preset fields")
	f.IntVar(&fv.maxLines, "max-lines", 0, "Maximum records to process (0 = no limit)")
	f.IntVar(&fv.skipLines, "skip-lines", 0, "Lines to skip before the header")
	f.StringVarP(&fv.delimiter, "delimiter", "d", "", `Field delimiter, e.g. "," ";" "|" or "tab" (auto-detect if empty)`)
	f.StringVarP(&fv.format, "format", "f", "txt", "Output format: txt, json")
	f.StringVar(&fv.encoding, "encoding", "auto", "Input encoding: utf8, latin1, auto")
	f.BoolVar(&fv.noHeader, "no-header", false, "Input has no header row")
	f.BoolVar(&fv.strict, "strict", false, "Drop invalid records and limit punctuation runs")
	f.BoolVar(&fv.removeDuplicates, "remove-duplicates", false, "Drop records whose first field was already seen")
	f.BoolVar(&fv.validate, "validate", false, "Check fields against the schema")
	f.StringVar(&fv.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	f.StringVar(&fv.logFormat, "log-format", "text", "Log format: text, json")
	_ = cmd.MarkFlagRequired("output")

	cmd.AddCommand(newTypesCmd())
	return cmd
}

// applyFlags copies explicitly set flags over cfg.
func applyFlags(cmd *cobra.Command, fv flagValues, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("type") {
		cfg.Pipeline.Type = fv.dtype
	}
	if f.Changed("schema") {
		cfg.Pipeline.SchemaFile = fv.schemaFile
	}
	if f.Changed("max-lines") {
		cfg.Pipeline.MaxLines = fv.maxLines
	}
	if f.Changed("skip-lines") {
		cfg.Pipeline.SkipLines = fv.skipLines
	}
	if f.Changed("delimiter") {
		cfg.Pipeline.Delimiter = fv.delimiter
	}
	if f.Changed("format") {
		cfg.Pipeline.Format = fv.format
	}
	if f.Changed("encoding") {
		cfg.Pipeline.Encoding = fv.encoding
	}
	if f.Changed("no-header") {
		cfg.Pipeline.HasHeader = !fv.noHeader
	}
	if f.Changed("strict") {
		cfg.Pipeline.Strict = fv.strict
	}
	if f.Changed("remove-duplicates") {
		cfg.Pipeline.RemoveDuplicates = fv.removeDuplicates
	}
	if f.Changed("validate") {
		cfg.Pipeline.Validate = fv.validate
	}
	if f.Changed("log-level") {
		cfg.Logging.Level = fv.logLevel
	}
	if f.Changed("log-format") {
		cfg.Logging.Format = fv.logFormat
	}
}

func run(cmd *cobra.Command, input string, fv flagValues) error {
	// Overload so a local .env wins over the inherited environment
	envErr := godotenv.Overload()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyFlags(cmd, fv, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	if envErr != nil {
		slog.Debug("no .env file found, using environment variables")
	} else {
		slog.Debug("loaded .env file")
	}
	slog.Debug("configuration loaded", "config", cfg.String())

	fi, err := os.Stat(input)
	if err != nil {
		return fmt.Errorf("%w %s: %w", core.ErrOpenInput, input, err)
	}

	coreCfg, err := cfg.Resolve(input)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, runID := logging.NewRunContext(ctx)

	p, err := core.NewPipeline(coreCfg,
		core.WithLogger(logging.WithFields(ctx, "input", input, "output", fv.output)),
		core.WithProgressInterval(cfg.Pipeline.ProgressInterval),
	)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	typeSource := "auto-detected"
	if cfg.Pipeline.Type != "" {
		typeSource = "requested"
	}
	fmt.Fprintf(out, "Input:  %s (%s)\n", input, humanize.Bytes(uint64(fi.Size())))
	fmt.Fprintf(out, "Output: %s\n", fv.output)
	fmt.Fprintf(out, "Type:   %s (%s)\n", coreCfg.Type, typeSource)
	fmt.Fprintf(out, "Format: %s\n", coreCfg.Format)
	if coreCfg.MaxLines > 0 {
		fmt.Fprintf(out, "Limit:  %s records\n", humanize.Comma(int64(coreCfg.MaxLines)))
	}
	fmt.Fprintf(out, "Run:    %s\n", runID)

	stats, runErr := p.RunFiles(ctx, input, fv.output)
	printStats(out, stats)
	if runErr != nil {
		return runErr
	}
	if stats.ProcessedLines == 0 {
		return core.ErrNoRecords
	}

	fmt.Fprintf(out, "\nDone. Output written to %s\n", fv.output)
	return nil
}

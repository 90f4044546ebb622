package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/csvprep/internal/core"
	"github.com/JonMunkholm/csvprep/internal/schema"
)

func printStats(w io.Writer, s core.Stats) {
	fmt.Fprintln(w, "\n=== Processing Statistics ===")
	fmt.Fprintf(w, "Total lines read:    %s\n", humanize.Comma(int64(s.TotalLines)))
	fmt.Fprintf(w, "Lines processed:     %s\n", humanize.Comma(int64(s.ProcessedLines)))
	fmt.Fprintf(w, "Lines skipped:       %s\n", humanize.Comma(int64(s.SkippedLines)))
	fmt.Fprintf(w, "Error lines:         %s\n", humanize.Comma(int64(s.ErrorLines)))
	fmt.Fprintf(w, "Duplicate lines:     %s\n", humanize.Comma(int64(s.DuplicateLines)))
	fmt.Fprintf(w, "Average text length: %.1f characters\n", s.AvgTextLength)
	fmt.Fprintf(w, "Success rate:        %.1f%%\n", s.SuccessRate())
	if s.Delimiter != 0 {
		fmt.Fprintf(w, "Delimiter:           %q\n", s.Delimiter)
	}

	if len(s.Classes) > 0 {
		fmt.Fprintln(w, "Class distribution:")
		for _, c := range s.Classes {
			fmt.Fprintf(w, "  %-20s %s\n", c.Label, humanize.Comma(int64(c.Count)))
		}
		if s.UntrackedClasses > 0 {
			fmt.Fprintf(w, "  (%s records with further labels not tracked)\n", humanize.Comma(int64(s.UntrackedClasses)))
		}
	}
}

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the built-in dataset types and their fields",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			printPresets(out, schema.All())
			fmt.Fprintf(out, "\n%d dataset types\n", schema.Count())
		},
	}
}

// printPresets lists each preset with its fields. Required fields are
// marked with '*', label fields with "(label)".
func printPresets(w io.Writer, presets []schema.Preset) {
	for _, p := range presets {
		names := make([]string, len(p.Fields))
		for i, f := range p.Fields {
			name := f.Name
			if f.Required {
				name += "*"
			}
			if f.IsLabel {
				name += " (label)"
			}
			names[i] = name
		}
		fmt.Fprintf(w, "%-16s %-20s %s\n", p.Type, p.Label, strings.Join(names, ", "))
	}
}

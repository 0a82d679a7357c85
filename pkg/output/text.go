package output

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	format := report.Format
	if !report.HasFormat() {
		format = "no timestamp format"
	}
	_, err := fmt.Fprintf(w, "%s: %s (%d/%d lines)\n",
		report.File, format, report.Summary.TimestampedLines, report.Summary.SampledLines)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	fmt.Fprintln(w, "=== Timestamp Format Detection ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", report.File)
	fmt.Fprintf(w, "Lines sampled: %d\n", report.Summary.SampledLines)
	fmt.Fprintf(w, "Lines with timestamps: %d\n", report.Summary.TimestampedLines)
	fmt.Fprintln(w)

	if !report.HasFormat() {
		fmt.Fprintln(w, "No timestamp format detected.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "All lines will be merged as untimestamped lines, ordered before")
		fmt.Fprintln(w, "timestamped lines of other files.")
		return nil
	}

	fmt.Fprintf(w, "Detected Format: %s\n", report.Format)
	fmt.Fprintf(w, "Coverage: %.1f%% (%d/%d lines)\n",
		report.Summary.Coverage*100, report.Summary.TimestampedLines, report.Summary.SampledLines)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Detected on line %d:\n  %s\n", report.LockedAt, report.SampleLine)
	if report.ParsedTime != nil {
		fmt.Fprintf(w, "Parsed as: %s\n", report.ParsedTime.Format("2006-01-02 15:04:05.000000 MST"))
	}
	fmt.Fprintf(w, "Pattern: %s\n", report.Pattern)
	if len(report.Examples) > 0 {
		fmt.Fprintf(w, "Examples: %s\n", strings.Join(report.Examples, ", "))
	}
	fmt.Fprintln(w)

	if f.opts.ShowAll && len(report.Matches) > 0 {
		fmt.Fprintln(w, "--- All matching formats ---")
		for i, m := range report.Matches {
			fmt.Fprintf(w, "%d. %s (%d lines, %.1f%%)\n", i+1, m.Name, m.MatchCount, m.Coverage*100)
			fmt.Fprintf(w, "   first match: %s\n", m.SampleLine)
		}
		fmt.Fprintln(w)
	}

	return nil
}

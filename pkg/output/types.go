package output

import (
	"time"

	"github.com/ccollicutt/ziplog/pkg/detector"
)

// Report describes the timestamp format detected for one log file.
type Report struct {
	// File is the log file that was sampled.
	File string `json:"file"`

	// Format is the name of the locked format, empty when none matched.
	Format string `json:"format,omitempty"`

	// Pattern is the locked format's regular expression.
	Pattern string `json:"pattern,omitempty"`

	// Examples shows timestamps written in the locked format.
	Examples []string `json:"examples,omitempty"`

	// LockedAt is the 1-based line number that locked the format.
	LockedAt int `json:"locked_at,omitempty"`

	// SampleLine is the line that locked the format.
	SampleLine string `json:"sample_line,omitempty"`

	// ParsedTime is the UTC instant parsed from SampleLine.
	ParsedTime *time.Time `json:"parsed_time,omitempty"`

	// Summary holds the sampling counts.
	Summary Summary `json:"summary"`

	// Matches lists every format that matched a sampled line, most
	// matches first.
	Matches []Match `json:"matches,omitempty"`
}

// Summary holds the sampling counts.
type Summary struct {
	SampledLines     int     `json:"sampled_lines"`
	TimestampedLines int     `json:"timestamped_lines"`
	Coverage         float64 `json:"coverage"`
}

// Match is one format's result over the sample.
type Match struct {
	Name       string  `json:"name"`
	Pattern    string  `json:"pattern"`
	MatchCount int     `json:"match_count"`
	Coverage   float64 `json:"coverage"`
	SampleLine string  `json:"sample_line"`
}

// NewReport creates a Report from a detection result.
func NewReport(result *detector.DetectionResult, file string) *Report {
	report := &Report{
		File: file,
		Summary: Summary{
			SampledLines:     result.SampledLines,
			TimestampedLines: result.TimestampedLines,
			Coverage:         result.Coverage(),
		},
	}

	if result.HasMatch() {
		parsed := result.ParsedTime
		report.Format = result.Locked.Name
		report.Pattern = result.Locked.PatternStr
		report.Examples = result.Locked.Examples
		report.LockedAt = result.LockedAt
		report.SampleLine = result.SampleLine
		report.ParsedTime = &parsed
	}

	for _, m := range result.Matches {
		report.Matches = append(report.Matches, Match{
			Name:       m.Format.Name,
			Pattern:    m.Format.PatternStr,
			MatchCount: m.MatchCount,
			Coverage:   m.Coverage,
			SampleLine: m.SampleLine,
		})
	}

	return report
}

// HasFormat returns true if a format was detected.
func (r *Report) HasFormat() bool {
	return r.Format != ""
}

// Package parser reads log sources line by line, classifies each line's
// timestamp, and merges many sources into one chronological stream.
package parser

import "time"

// ParsedLine represents a single log line with extracted metadata.
type ParsedLine struct {
	// Raw is the original line content.
	Raw string

	// Text is the rendered line: Prefix followed by Raw.
	Text string

	// Prefix is the source prefix if the line carries a timestamp, or the
	// equal-width filler if it does not.
	Prefix string

	// Timestamp is the parsed timestamp. It is meaningful only when Timed
	// is set.
	Timestamp time.Time

	// Timed records that a timestamp was recognized. The zero time is a
	// valid timestamp, so presence is never inferred from Timestamp.
	Timed bool

	// Format names the timestamp format that matched, if any.
	Format string

	// Source is the name of the source this line came from.
	Source string

	// LineNum is the 1-based line number in the source.
	LineNum int
}

// HasTimestamp reports whether a timestamp was recognized on the line.
func (l *ParsedLine) HasTimestamp() bool {
	return l.Timed
}

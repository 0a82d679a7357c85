package detector

import (
	"bufio"
	"context"
	"io"
	"os"
	"sort"
	"time"
)

// DetectionResult holds the result of sampling a log.
type DetectionResult struct {
	// Locked is the format a source reading these lines would commit to,
	// or nil if no line matched any format.
	Locked *Format

	// LockedAt is the 1-based sample line that caused the lock.
	LockedAt int

	// SampleLine is the line that caused the lock.
	SampleLine string

	// ParsedTime is the timestamp read from SampleLine.
	ParsedTime time.Time

	// Matches lists every format that matched at least one sampled line,
	// most matches first, catalog order on ties.
	Matches []FormatMatch

	SampledLines     int // Number of lines sampled
	TimestampedLines int // Lines timestamped under the locked format
}

// FormatMatch is one format's performance against the sample.
type FormatMatch struct {
	Format     *Format
	Coverage   float64   // 0.0 to 1.0 (fraction of sampled lines matched)
	MatchCount int       // Number of lines that matched
	SampleLine string    // First line that matched
	ParsedTime time.Time // Parsed timestamp from SampleLine
}

// Detector samples logs and reports which catalog format they lock to.
type Detector struct {
	catalog    *Catalog
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 100).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// WithCatalog replaces the default catalog.
func WithCatalog(c *Catalog) Option {
	return func(d *Detector) {
		if c != nil {
			d.catalog = c
		}
	}
}

// New creates a new Detector using the default catalog.
func New(opts ...Option) *Detector {
	d := &Detector{
		sampleSize: 100,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.catalog == nil {
		d.catalog = DefaultCatalog()
	}
	return d
}

// DetectFromFile samples the head of a log file.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	// #nosec G304 - path is provided by user via CLI
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return d.DetectFromReader(ctx, file)
}

// DetectFromReader samples up to the configured number of lines from r.
func (d *Detector) DetectFromReader(ctx context.Context, r io.Reader) (*DetectionResult, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for len(lines) < d.sampleSize && scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return d.DetectFromLines(lines), nil
}

// DetectFromLines classifies lines the way a single source would: the
// first line matched by any format locks that format, and later lines are
// checked against it alone.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{
		SampledLines: len(lines),
	}

	if len(lines) == 0 {
		return result
	}

	formats := d.catalog.Formats()
	stats := make([]FormatMatch, len(formats))
	for i, f := range formats {
		stats[i].Format = f
	}

	for i, line := range lines {
		if result.Locked == nil {
			if ts, f, ok := d.catalog.Match(line); ok {
				result.Locked = f
				result.LockedAt = i + 1
				result.SampleLine = line
				result.ParsedTime = ts
			}
		}
		if result.Locked != nil {
			if _, ok := result.Locked.Parse(line); ok {
				result.TimestampedLines++
			}
		}

		for j, f := range formats {
			ts, ok := f.Parse(line)
			if !ok {
				continue
			}
			if stats[j].MatchCount == 0 {
				stats[j].SampleLine = line
				stats[j].ParsedTime = ts
			}
			stats[j].MatchCount++
		}
	}

	for _, s := range stats {
		if s.MatchCount == 0 {
			continue
		}
		s.Coverage = float64(s.MatchCount) / float64(len(lines))
		result.Matches = append(result.Matches, s)
	}

	sort.SliceStable(result.Matches, func(i, j int) bool {
		return result.Matches[i].MatchCount > result.Matches[j].MatchCount
	})

	return result
}

// Coverage returns the fraction of sampled lines timestamped under the
// locked format.
func (r *DetectionResult) Coverage() float64 {
	if r.SampledLines == 0 {
		return 0
	}
	return float64(r.TimestampedLines) / float64(r.SampledLines)
}

// HasMatch returns true if some format locked.
func (r *DetectionResult) HasMatch() bool {
	return r.Locked != nil
}

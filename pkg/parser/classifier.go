package parser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/ccollicutt/ziplog/pkg/detector"
)

// Line size limits for the underlying scanner.
const (
	initialLineBuffer = 64 * 1024
	DefaultMaxLine    = 1024 * 1024
)

// ReadErrorHandler is called once when a source stops because of a read
// failure rather than end of input.
type ReadErrorHandler func(source string, err error)

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithReadErrorHandler registers a callback for read failures.
func WithReadErrorHandler(h ReadErrorHandler) ClassifierOption {
	return func(c *Classifier) {
		c.onReadError = h
	}
}

// WithLogger sets the logger used for format lock events.
func WithLogger(l *log.Logger) ClassifierOption {
	return func(c *Classifier) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxLineSize sets the longest line the classifier accepts. A longer
// line ends the source with a read error.
func WithMaxLineSize(n int) ClassifierOption {
	return func(c *Classifier) {
		if n > 0 {
			c.maxLine = n
		}
	}
}

// withCloser makes Close release the underlying reader.
func withCloser(closer io.Closer) ClassifierOption {
	return func(c *Classifier) {
		c.closer = closer
	}
}

// Classifier implements LogSource for a single reader. It detects the
// source's timestamp format from the catalog on the first line that
// matches any format and then uses only that format for the rest of the
// source.
type Classifier struct {
	name    string
	prefix  string
	filler  string
	catalog *detector.Catalog

	// format is nil until the first timestamp is recognized.
	format *detector.Format

	scanner *bufio.Scanner
	closer  io.Closer
	maxLine int
	lineNum int
	done    bool
	err     error

	onReadError ReadErrorHandler
	logger      *log.Logger
}

// NewClassifier creates a Classifier reading lines from r. Lines with a
// timestamp are rendered behind prefix; lines without one behind a run of
// spaces of the same width.
func NewClassifier(r io.Reader, name, prefix string, catalog *detector.Catalog, opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		name:    name,
		prefix:  prefix,
		filler:  strings.Repeat(" ", utf8.RuneCountInString(prefix)),
		catalog: catalog,
		maxLine: DefaultMaxLine,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.scanner = bufio.NewScanner(r)
	c.scanner.Buffer(make([]byte, 0, min(initialLineBuffer, c.maxLine)), c.maxLine)

	return c
}

// Next returns the next line of the source, classified.
// Returns io.EOF at end of input and after a read failure; the failure
// itself is available from Err.
func (c *Classifier) Next(ctx context.Context) (*ParsedLine, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if c.done {
		return nil, io.EOF
	}

	if !c.scanner.Scan() {
		c.done = true
		if err := c.scanner.Err(); err != nil {
			c.err = fmt.Errorf("reading %s: %w", c.name, err)
			if c.onReadError != nil {
				c.onReadError(c.name, c.err)
			}
		}
		return nil, io.EOF
	}

	c.lineNum++
	raw := c.scanner.Text()
	line := &ParsedLine{
		Raw:     raw,
		Source:  c.name,
		LineNum: c.lineNum,
	}

	if ts, ok := c.classify(raw); ok {
		line.Timestamp = ts
		line.Timed = true
		line.Format = c.format.Name
		line.Prefix = c.prefix
	} else {
		line.Prefix = c.filler
	}
	line.Text = line.Prefix + raw

	return line, nil
}

// classify finds the timestamp of one line, locking the format on the
// first success.
func (c *Classifier) classify(raw string) (time.Time, bool) {
	if c.format != nil {
		return c.format.Parse(raw)
	}

	ts, f, ok := c.catalog.Match(raw)
	if !ok {
		return time.Time{}, false
	}

	c.format = f
	c.logger.Debug("timestamp format detected", "source", c.name, "format", f.Name, "line", c.lineNum)
	return ts, true
}

// Format returns the locked format, or nil if none has been detected yet.
func (c *Classifier) Format() *detector.Format {
	return c.format
}

// Name returns the source name.
func (c *Classifier) Name() string {
	return c.name
}

// Prefix returns the prefix used for timestamped lines.
func (c *Classifier) Prefix() string {
	return c.prefix
}

// Err returns the read failure that ended the source, if any.
func (c *Classifier) Err() error {
	return c.err
}

// Close releases the underlying reader if the classifier owns it.
func (c *Classifier) Close() error {
	c.done = true
	if c.closer != nil {
		err := c.closer.Close()
		c.closer = nil
		return err
	}
	return nil
}

// Package output renders merged log lines, with an optional interval
// column and colored source prefixes.
package output

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ccollicutt/ziplog/pkg/parser"
)

// Writer writes merged lines, one per output line.
type Writer struct {
	out       *bufio.Writer
	annotator *Annotator
	color     bool
	colors    map[sourceKey]int
}

// sourceKey identifies a source for coloring. The same file attached twice
// under different prefixes counts as two sources.
type sourceKey struct {
	name   string
	prefix string
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithInterval enables the interval column.
func WithInterval(unit IntervalUnit) WriterOption {
	return func(w *Writer) {
		w.annotator = NewAnnotator(unit)
	}
}

// WithColor colors the prefix of timestamped lines, one color per source.
func WithColor(enabled bool) WriterOption {
	return func(w *Writer) {
		w.color = enabled
	}
}

// NewWriter creates a Writer on out.
func NewWriter(out io.Writer, opts ...WriterOption) *Writer {
	w := &Writer{
		out:       bufio.NewWriter(out),
		annotator: NewAnnotator(IntervalNone),
		colors:    make(map[sourceKey]int),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteLine writes one line. Output is buffered until Flush.
func (w *Writer) WriteLine(line *parser.ParsedLine) error {
	if _, err := w.out.WriteString(w.annotator.Column(line)); err != nil {
		return err
	}
	if _, err := w.out.WriteString(w.render(line)); err != nil {
		return err
	}
	return w.out.WriteByte('\n')
}

func (w *Writer) render(line *parser.ParsedLine) string {
	if !w.color || !line.HasTimestamp() {
		return line.Text
	}

	key := sourceKey{name: line.Source, prefix: line.Prefix}
	idx, ok := w.colors[key]
	if !ok {
		idx = len(w.colors)
		w.colors[key] = idx
	}
	return paint(line.Prefix, idx) + line.Raw
}

// Flush writes any buffered output.
func (w *Writer) Flush() error {
	return w.out.Flush()
}

// Copy writes every line of src and flushes. It returns the number of
// lines written.
func (w *Writer) Copy(ctx context.Context, src parser.LogSource) (int, error) {
	var n int
	for {
		line, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			_ = w.Flush()
			return n, err
		}
		if err := w.WriteLine(line); err != nil {
			return n, fmt.Errorf("writing output: %w", err)
		}
		n++
	}

	if err := w.Flush(); err != nil {
		return n, fmt.Errorf("writing output: %w", err)
	}
	return n, nil
}

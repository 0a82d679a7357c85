package output

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ccollicutt/ziplog/pkg/parser"
)

// IntervalUnit selects the unit of the interval column.
type IntervalUnit string

const (
	// IntervalNone disables the interval column.
	IntervalNone IntervalUnit = ""
	// IntervalSeconds prints whole seconds.
	IntervalSeconds IntervalUnit = "s"
	// IntervalMilliseconds prints whole milliseconds.
	IntervalMilliseconds IntervalUnit = "ms"
)

// IntervalWidth is the width of the interval column.
const IntervalWidth = 7

// ErrInvalidInterval is returned for an interval specifier other than s or ms.
var ErrInvalidInterval = errors.New("invalid interval specifier")

// ParseIntervalUnit parses "s", "ms", or "" (no interval column).
func ParseIntervalUnit(s string) (IntervalUnit, error) {
	switch u := IntervalUnit(s); u {
	case IntervalNone, IntervalSeconds, IntervalMilliseconds:
		return u, nil
	default:
		return IntervalNone, fmt.Errorf("%w %q (must be s or ms)", ErrInvalidInterval, s)
	}
}

// Truncate converts d to a whole number of the unit, rounding toward zero.
func (u IntervalUnit) Truncate(d time.Duration) int64 {
	switch u {
	case IntervalMilliseconds:
		return d.Milliseconds()
	default:
		return int64(d / time.Second)
	}
}

// Annotator prepends the time since the previous timestamped line.
// Lines without a timestamp get a blank column and do not reset the
// reference point.
type Annotator struct {
	unit    IntervalUnit
	last    time.Time
	hasLast bool
}

// NewAnnotator creates an Annotator for the given unit.
func NewAnnotator(unit IntervalUnit) *Annotator {
	return &Annotator{unit: unit}
}

// Column returns the interval column for line and advances the reference
// point if line carries a timestamp.
func (a *Annotator) Column(line *parser.ParsedLine) string {
	if a.unit == IntervalNone {
		return ""
	}

	col := strings.Repeat(" ", IntervalWidth)
	if line.HasTimestamp() {
		if a.hasLast {
			col = fmt.Sprintf("%*d", IntervalWidth, a.unit.Truncate(line.Timestamp.Sub(a.last)))
		}
		a.last = line.Timestamp
		a.hasLast = true
	}
	return col
}

// Annotate returns the rendered line with its interval column.
func (a *Annotator) Annotate(line *parser.ParsedLine) string {
	return a.Column(line) + line.Text
}

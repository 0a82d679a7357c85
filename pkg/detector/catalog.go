// Package detector provides the timestamp format catalog and automatic
// timestamp format detection for log files.
package detector

import "time"

// Catalog is an ordered, read-only list of timestamp formats. Earlier
// formats take priority over later ones. A Catalog is built once per run
// and shared by every source.
type Catalog struct {
	formats []*Format
	date    DateContext
}

// DefaultCatalog builds the built-in catalog dated today (UTC).
func DefaultCatalog() *Catalog {
	return NewCatalog(time.Now())
}

// NewCatalog builds the built-in catalog. The calendar date of now, in UTC,
// is captured once and used by formats that carry only a time of day, so
// such lines from a run spanning midnight are dated to the first day.
func NewCatalog(now time.Time) *Catalog {
	now = now.UTC()
	date := DateContext{Year: now.Year(), Month: now.Month(), Day: now.Day()}
	return &Catalog{
		formats: defaultFormats(date),
		date:    date,
	}
}

// Match tries every format in order and returns the first one that both
// matches and parses the line.
func (c *Catalog) Match(line string) (time.Time, *Format, bool) {
	for _, f := range c.formats {
		if ts, ok := f.Parse(line); ok {
			return ts, f, true
		}
	}
	return time.Time{}, nil, false
}

// Formats returns the formats in priority order.
func (c *Catalog) Formats() []*Format {
	out := make([]*Format, len(c.formats))
	copy(out, c.formats)
	return out
}

// Lookup returns the format with the given name, or nil.
func (c *Catalog) Lookup(name string) *Format {
	for _, f := range c.formats {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Date returns the date context captured at construction.
func (c *Catalog) Date() DateContext {
	return c.date
}

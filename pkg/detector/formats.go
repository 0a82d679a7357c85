package detector

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateContext is the calendar date a catalog was built on. Formats whose
// textual form omits the date borrow it from here.
type DateContext struct {
	Year  int
	Month time.Month
	Day   int
}

// dateString renders the context as "2006.01.02".
func (d DateContext) dateString() string {
	return fmt.Sprintf("%04d.%02d.%02d", d.Year, int(d.Month), d.Day)
}

// Format is one timestamp convention: a pattern that finds the timestamp
// inside a line and a parse function that turns the captured groups into
// a point in time.
type Format struct {
	Name       string         // Human-readable name
	Pattern    *regexp.Regexp // Compiled regex
	PatternStr string         // Pattern source
	Examples   []string       // Example timestamps

	// parse receives the submatches of Pattern (index 0 is the full match).
	parse func(groups []string) (time.Time, error)
}

// Parse applies the format to a line. A line that does not match the
// pattern and a line whose match does not form a valid time are both
// reported as a miss.
func (f *Format) Parse(line string) (time.Time, bool) {
	groups := f.Pattern.FindStringSubmatch(line)
	if groups == nil {
		return time.Time{}, false
	}
	ts, err := f.parse(groups)
	if err != nil {
		return time.Time{}, false
	}
	return ts.UTC(), true
}

// String returns the format name.
func (f *Format) String() string {
	return f.Name
}

// Layouts used for the synthesized date strings.
const (
	contextTimeLayout = "2006.01.02 15:04:05"
	syslogLayout      = "2006 Jan 2 15:04:05"
	dashLayout        = "2006-01-02 15:04:05"
	slashLayout       = "2006/01/02 15:04:05"
)

// defaultFormats builds the catalog entries, most specific first. A bare
// time pattern can match inside a longer timestamp (the strace pattern
// matches the tail of "2018-04-06 17:13:40.955356"), so the order here is
// what keeps detection correct.
func defaultFormats(date DateContext) []*Format {
	day := date.dateString()
	year := strconv.Itoa(date.Year)

	formats := []*Format{
		// 2018-12-15T02:11:06.123456+02:00
		// 2019-10-09T10:58:45,929228489+03:00
		{
			Name:       "ISO 8601 with fraction and offset",
			PatternStr: `^(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2})[.,](\d{6})\d*([+-]\d{2}):(\d{2})`,
			Examples:   []string{"2018-12-15T02:11:06.123456+02:00", "2019-10-09T10:58:45,929228489+03:00"},
			parse: func(g []string) (time.Time, error) {
				return time.Parse("2006-01-02T15:04:05.000000-0700", g[1]+"."+g[2]+g[3]+g[4])
			},
		},
		// 2018-12-15T02:11:06+0200
		{
			Name:       "ISO 8601 with offset",
			PatternStr: `^(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}[+-]\d{4})`,
			Examples:   []string{"2018-12-15T02:11:06+0200"},
			parse: func(g []string) (time.Time, error) {
				return time.Parse("2006-01-02T15:04:05-0700", g[1])
			},
		},
		// 2024-01-15T10:30:00Z, 2024-01-15T10:30:00.123Z
		{
			Name:       "ISO 8601 UTC",
			PatternStr: `^(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d+)?Z)`,
			Examples:   []string{"2024-01-15T10:30:00Z", "2024-01-15T10:30:00.123Z"},
			parse: func(g []string) (time.Time, error) {
				return time.Parse(time.RFC3339, g[1])
			},
		},
		// 127.0.0.1 - - [15/Jun/2024:10:30:00 +0000] "GET / HTTP/1.1"
		{
			Name:       "Apache/NGINX CLF",
			PatternStr: `\[(\d{2}/\w{3}/\d{4}:\d{2}:\d{2}:\d{2} [+-]\d{4})\]`,
			Examples:   []string{"[15/Jun/2024:10:30:00 +0000]"},
			parse: func(g []string) (time.Time, error) {
				return time.Parse("02/Jan/2006:15:04:05 -0700", g[1])
			},
		},
		// 2018-04-06 17:13:40,955
		// 2018-04-23 04:48:11,811|
		{
			Name:       "Python/log4j comma milliseconds",
			PatternStr: `(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}),(\d{3})(?:[| ]|$)`,
			Examples:   []string{"2018-04-06 17:13:40,955", "2018-04-23 04:48:11,811|"},
			parse: func(g []string) (time.Time, error) {
				return withFraction(dashLayout, g[1], g[2], time.Millisecond)
			},
		},
		// 2018-04-06 17:13:40
		// [2018-04-06 17:13:40.955356
		{
			Name:       "Datetime",
			PatternStr: `^\[?(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})(?:\.(\d{6}))?`,
			Examples:   []string{"2018-04-06 17:13:40", "[2018-04-06 17:13:40.955356"},
			parse: func(g []string) (time.Time, error) {
				return withFraction(dashLayout, g[1], g[2], time.Microsecond)
			},
		},
		// 2018/04/06 17:13:40
		// [2018/04/06 17:13:40.955356
		{
			Name:       "Datetime (slashes)",
			PatternStr: `^\[?(\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2})(?:\.(\d{6}))?`,
			Examples:   []string{"2018/04/06 17:13:40", "[2018/04/06 17:13:40.955356"},
			parse: func(g []string) (time.Time, error) {
				return withFraction(slashLayout, g[1], g[2], time.Microsecond)
			},
		},
		// Apr 6 17:13:40
		{
			Name:       "Syslog (BSD)",
			PatternStr: `^(\w{3} +\d+ +\d+:\d+:\d+)`,
			Examples:   []string{"Apr 6 17:13:40", "Jan  5 09:30:00"},
			parse: func(g []string) (time.Time, error) {
				return time.Parse(syslogLayout, year+" "+strings.Join(strings.Fields(g[1]), " "))
			},
		},
		// strace -tt output, optionally with -f pids:
		// 16255 15:08:52.554223
		{
			Name:       "strace",
			PatternStr: `\d+ (\d{2}:\d{2}:\d{2}).(\d{6})`,
			Examples:   []string{"16255 15:08:52.554223"},
			parse: func(g []string) (time.Time, error) {
				return withFraction(contextTimeLayout, day+" "+g[1], g[2], time.Microsecond)
			},
		},
		// 01:21:27
		{
			Name:       "Time of day",
			PatternStr: `^(\d+:\d+:\d+)`,
			Examples:   []string{"01:21:27"},
			parse: func(g []string) (time.Time, error) {
				return time.Parse(contextTimeLayout, day+" "+g[1])
			},
		},
	}

	for _, f := range formats {
		f.Pattern = regexp.MustCompile(f.PatternStr)
	}

	return formats
}

// withFraction parses value with layout and adds an optional fractional
// part given as a decimal count of unit.
func withFraction(layout, value, fraction string, unit time.Duration) (time.Time, error) {
	ts, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, err
	}
	if fraction == "" {
		return ts, nil
	}
	n, err := strconv.ParseInt(fraction, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing fraction %q: %w", fraction, err)
	}
	return ts.Add(time.Duration(n) * unit), nil
}

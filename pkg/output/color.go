package output

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// ColorMode controls prefix coloring.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode parses auto, always, or never. Empty means auto.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(s); m {
	case "":
		return ColorAuto, nil
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	default:
		return "", fmt.Errorf("invalid color mode %q (must be auto, always, or never)", s)
	}
}

// Enabled decides whether output to w should be colored. In auto mode
// termenv decides from the terminal and the NO_COLOR and CLICOLOR_FORCE
// variables.
func (m ColorMode) Enabled(w io.Writer) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	return termenv.NewOutput(w).EnvColorProfile() != termenv.Ascii
}

// palette holds the ANSI colors assigned to sources in turn.
var palette = []string{"6", "3", "2", "5", "4", "1", "14", "11"}

// paint renders s in the palette color at index i.
func paint(s string, i int) string {
	if s == "" {
		return s
	}
	return termenv.String(s).Foreground(termenv.ANSI.Color(palette[i%len(palette)])).String()
}

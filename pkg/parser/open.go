package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ccollicutt/ziplog/pkg/detector"
)

// StdinPath is the path that names standard input.
const StdinPath = "-"

// StdinName is the source name given to standard input.
const StdinName = "<stdin>"

// SourceSpec names one input and the prefix for its timestamped lines.
type SourceSpec struct {
	Prefix string
	Path   string
}

// ParseSourceSpec parses "PREFIX=PATH". A value without "=" is taken as a
// path with an empty prefix.
func ParseSourceSpec(s string) SourceSpec {
	prefix, path, ok := strings.Cut(s, "=")
	if !ok {
		return SourceSpec{Path: s}
	}
	return SourceSpec{Prefix: prefix, Path: path}
}

// IsStdin reports whether the spec names standard input.
func (s SourceSpec) IsStdin() bool {
	return s.Path == StdinPath
}

// Open creates one Classifier per spec, in order. Standard input is read by
// at most one classifier: specs naming it after the first are dropped.
// If any file fails to open, files already opened are closed and the error
// is returned.
func Open(specs []SourceSpec, stdin io.Reader, catalog *detector.Catalog, opts ...ClassifierOption) ([]*Classifier, error) {
	var (
		sources    []*Classifier
		stdinFound bool
	)

	for _, spec := range specs {
		if spec.IsStdin() {
			if stdinFound {
				continue
			}
			stdinFound = true
			sources = append(sources, NewClassifier(stdin, StdinName, spec.Prefix, catalog, opts...))
			continue
		}

		f, err := os.Open(spec.Path) // #nosec G304 -- user-provided paths are expected
		if err != nil {
			closeAll(sources)
			return nil, fmt.Errorf("opening log file %s: %w", spec.Path, err)
		}

		fileOpts := append(append([]ClassifierOption{}, opts...), withCloser(f))
		sources = append(sources, NewClassifier(f, spec.Path, spec.Prefix, catalog, fileOpts...))
	}

	return sources, nil
}

// AsLogSources converts classifiers for NewMergedSource.
func AsLogSources(classifiers []*Classifier) []LogSource {
	out := make([]LogSource, len(classifiers))
	for i, c := range classifiers {
		out[i] = c
	}
	return out
}

func closeAll(sources []*Classifier) {
	for _, s := range sources {
		_ = s.Close()
	}
}

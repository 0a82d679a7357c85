package parser

import (
	"fmt"
	"path/filepath"
	"sort"
)

// ExpandSources expands glob patterns in spec paths. Each pattern's matches
// are sorted and inherit the spec's prefix; a path seen earlier is not
// repeated. A pattern that matches nothing is kept as a literal path so the
// open error names it. Standard input is passed through unchanged.
func ExpandSources(specs []SourceSpec) ([]SourceSpec, error) {
	seen := make(map[string]bool)
	var result []SourceSpec

	for _, spec := range specs {
		if spec.IsStdin() {
			result = append(result, spec)
			continue
		}

		matches, err := filepath.Glob(spec.Path)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", spec.Path, err)
		}

		if len(matches) == 0 {
			matches = []string{spec.Path}
		}
		sort.Strings(matches)

		for _, match := range matches {
			if seen[match] {
				continue
			}
			seen[match] = true
			result = append(result, SourceSpec{Prefix: spec.Prefix, Path: match})
		}
	}

	return result, nil
}

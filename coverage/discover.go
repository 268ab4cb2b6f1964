package coverage

import (
	"fmt"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern matches the test runner's output layout:
// tests/<project>/bin/<config>/<target>/TestResults/coverage*.xml.
const DefaultPattern = "tests/**/TestResults/coverage*.xml"

// Discover expands the given glob patterns against the filesystem and
// returns the union of matches, deduplicated and sorted so aggregation is
// deterministic. Patterns matching nothing are fine; inputs are optional.
func Discover(patterns ...string) ([]string, error) {
	seen := make(map[string]struct{})
	var paths []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad glob pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			if _, ok := seen[match]; ok {
				continue
			}
			seen[match] = struct{}{}
			paths = append(paths, match)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

package fragments

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultInclude selects YAML fragment files.
var DefaultInclude = []string{"*.yaml", "*.yml"}

// MatchesInclude returns true if the given relative path matches any of the
// include patterns. If patterns is empty, DefaultInclude applies.
func MatchesInclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		patterns = DefaultInclude
	}
	return matchesAny(relPath, patterns)
}

// MatchesExclude returns true if the given relative path matches any of the
// exclude patterns. If patterns is empty, nothing is excluded.
func MatchesExclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	return matchesAny(relPath, patterns)
}

// matchesAny checks relPath against each pattern, then against its base name,
// so "theme.yaml" excludes that file name at every depth.
func matchesAny(relPath string, patterns []string) bool {
	normalized := filepath.ToSlash(relPath)
	base := filepath.Base(normalized)

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)

		if matched, err := doublestar.PathMatch(pattern, normalized); err == nil && matched {
			return true
		}
		if matched, err := doublestar.PathMatch(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}

package builder

import (
	"errors"
	"time"
)

var (
	// ErrInvalidBase is returned when the base theme document is missing,
	// unparseable, empty, or has no root element.
	ErrInvalidBase = errors.New("invalid base theme")
	// ErrFlavorsFailed is returned by Run in keep-going mode when at least
	// one flavor failed.
	ErrFlavorsFailed = errors.New("theme build failed")
)

// ProgressFunc is called after each flavor finishes, successfully or not.
type ProgressFunc func(done, total int, flavor string)

// Rendered is the XML produced for one flavor.
type Rendered struct {
	Flavor      string
	RootName    string
	XML         string
	Fragments   []string // Relative paths of merged fragments, in merge order.
	Unresolved  []string // Placeholders left in XML.
	AccentFound bool
}

// Output describes the files written for one flavor.
type Output struct {
	Flavor      string
	XMLPath     string // Empty when the XML file was not kept.
	ArchivePath string // Empty in XML-only mode.
	ArchiveSize int64
	Entries     int
	Fragments   int
}

// Failure records a flavor that could not be built.
type Failure struct {
	Flavor string
	Err    error
}

// Result holds the outcome of Run.
type Result struct {
	Outputs  []Output
	Failures []Failure
	Duration time.Duration
}

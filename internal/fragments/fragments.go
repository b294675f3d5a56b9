// Package fragments discovers and loads the YAML documents that are merged
// onto the base theme.
package fragments

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/ziadkadry99/opus-themer/internal/doctree"
)

// File is a fragment found during discovery.
type File struct {
	Path    string // Path on the filesystem.
	RelPath string // Slash-separated path relative to the fragments directory.
}

// Options controls Discover.
type Options struct {
	Dir      string   // Directory to search, recursively.
	BaseFile string   // Base document name, excluded at any depth.
	Include  []string // Glob patterns; DefaultInclude when empty.
	Exclude  []string // Glob patterns of files to skip.
}

// Fragment is a parsed fragment document.
type Fragment struct {
	File
	Tree *doctree.Node
}

// Skipped records a fragment that could not be used.
type Skipped struct {
	File
	Err error
}

// Discover walks opts.Dir in lexical order and returns every fragment file
// that passes the include and exclude filters.
func Discover(fsys afero.Fs, opts Options) ([]File, error) {
	info, err := fsys.Stat(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("fragments: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("fragments: %s is not a directory", opts.Dir)
	}

	exclude := opts.Exclude
	if opts.BaseFile != "" {
		exclude = append([]string{filepath.Base(opts.BaseFile)}, exclude...)
	}

	var files []File
	err = afero.Walk(fsys, opts.Dir, func(path string, fi os.FileInfo, walkErr error) error {
		if walkErr != nil {
			// Unreadable entries are skipped rather than failing the build.
			if fi != nil && fi.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if fi.IsDir() || !fi.Mode().IsRegular() {
			return nil
		}

		relPath, err := filepath.Rel(opts.Dir, path)
		if err != nil {
			return nil
		}
		if !MatchesInclude(relPath, opts.Include) || MatchesExclude(relPath, exclude) {
			return nil
		}

		files = append(files, File{Path: path, RelPath: filepath.ToSlash(relPath)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fragments: traversal: %w", err)
	}
	return files, nil
}

// ReadDocument reads and decodes a single YAML document.
func ReadDocument(fsys afero.Fs, path string) (*doctree.Node, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, doctree.ErrEmptyDocument
	}
	return doctree.Decode(data)
}

// LoadAll parses files in order. Files that cannot be read or parsed, or
// that are empty, are returned in skipped instead of aborting the load.
func LoadAll(fsys afero.Fs, files []File) (loaded []Fragment, skipped []Skipped) {
	for _, f := range files {
		tree, err := ReadDocument(fsys, f.Path)
		if err != nil {
			skipped = append(skipped, Skipped{File: f, Err: err})
			continue
		}
		loaded = append(loaded, Fragment{File: f, Tree: tree})
	}
	return loaded, skipped
}

// IsEmpty reports whether err means the document had no content.
func IsEmpty(err error) bool {
	return errors.Is(err, doctree.ErrEmptyDocument)
}

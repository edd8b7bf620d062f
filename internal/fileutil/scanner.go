// Package fileutil provides repository file scanning for the estimation
// data tier: counting test files versus source files under a repo root.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// CountOptions configures the file counting behavior
type CountOptions struct {
	// SourceGlobs are doublestar patterns matching source files (e.g. "**/*.go")
	SourceGlobs []string
	// TestGlobs are doublestar patterns matching test files (e.g. "**/*_test.go")
	TestGlobs []string
	// ExcludeDirs is a list of directory names to skip (e.g. ".git", "vendor")
	ExcludeDirs []string
}

// Counts contains the results of a counting scan
type Counts struct {
	// TestFiles is the number of files matching a test glob
	TestFiles int
	// SourceFiles is the number of files matching a source glob but no test glob
	SourceFiles int
	// Errors contains any non-fatal errors encountered during scanning
	Errors []error
}

// CountFiles walks the repository root and counts test and source files.
// A file matching any test glob counts as a test file; a file matching a
// source glob and no test glob counts as a source file. Hidden directories
// and those named in ExcludeDirs are skipped entirely.
func CountFiles(root string, opts CountOptions) (*Counts, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root)
	}

	// Validate patterns up front so a bad glob fails loudly, not per-file
	for _, pattern := range append(append([]string{}, opts.SourceGlobs...), opts.TestGlobs...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid glob pattern: %s", pattern)
		}
	}

	excludeMap := make(map[string]bool)
	for _, dir := range opts.ExcludeDirs {
		excludeMap[dir] = true
	}

	counts := &Counts{}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			counts.Errors = append(counts.Errors, fmt.Errorf("error accessing %s: %w", path, err))
			return nil // Continue walking
		}

		if path == root {
			return nil
		}

		if d.IsDir() {
			if excludeMap[d.Name()] || strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			counts.Errors = append(counts.Errors, fmt.Errorf("failed to resolve path %s: %w", path, err))
			return nil
		}
		// Globs are written with forward slashes
		relPath = filepath.ToSlash(relPath)

		if matchesAny(opts.TestGlobs, relPath) {
			counts.TestFiles++
			return nil
		}
		if matchesAny(opts.SourceGlobs, relPath) {
			counts.SourceFiles++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	return counts, nil
}

// matchesAny reports whether the path matches at least one pattern.
// Invalid patterns were rejected up front, so match errors cannot occur here.
func matchesAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

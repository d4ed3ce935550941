package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// Options controls which files FindArchives reports
type Options struct {
	// Extensions lists archive suffixes including the dot, e.g. ".war"
	Extensions []string
	// Excludes holds gitignore-style patterns relative to the scan root
	Excludes      []string
	IgnoreDirs    []string
	IncludeHidden bool
}

// FindArchives returns the archives at root. root may be a single archive,
// which is returned as-is unless excluded, or a directory searched recursively.
// Results are sorted for deterministic report ordering.
func FindArchives(root string, opts Options) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat input path: %w", err)
	}

	var matcher *ignore.GitIgnore
	if len(opts.Excludes) > 0 {
		matcher = ignore.CompileIgnoreLines(opts.Excludes...)
	}

	if !info.IsDir() {
		if !hasExtension(root, opts.Extensions) {
			return nil, fmt.Errorf("input path %s is not an archive", root)
		}
		if matcher != nil && matcher.MatchesPath(filepath.Base(root)) {
			return nil, nil
		}
		return []string{root}, nil
	}

	// Create a map for faster lookups
	ignoreMap := make(map[string]bool)
	for _, dir := range opts.IgnoreDirs {
		ignoreMap[dir] = true
	}

	var archives []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		name := d.Name()
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			// Skip hidden directories if includeHidden is false
			if !opts.IncludeHidden && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if ignoreMap[name] {
				return filepath.SkipDir
			}
			if matcher != nil && matcher.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if !hasExtension(name, opts.Extensions) {
			return nil
		}
		if matcher != nil && matcher.MatchesPath(rel) {
			return nil
		}
		archives = append(archives, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	sort.Strings(archives)
	return archives, nil
}

// IsArchive reports whether name ends with one of the extensions, ignoring case
func IsArchive(name string, extensions []string) bool {
	return hasExtension(name, extensions)
}

func hasExtension(name string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	for _, e := range extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

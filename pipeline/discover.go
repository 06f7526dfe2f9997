package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// DefaultPatterns are the include patterns used when none are given.
var DefaultPatterns = []string{"*.txt", "*.md", "*.html", "*.json"}

// Discover lists the files under root whose base name matches an include
// pattern and neither their base name nor their slash-separated path
// relative to root matches an exclude pattern. A root that is a file is
// returned as is. The result is sorted and free of duplicates.
func Discover(root string, include, exclude []string) ([]string, error) {
	if len(include) == 0 {
		include = DefaultPatterns
	}
	for _, pattern := range append(append([]string{}, include...), exclude...) {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	seen := make(map[string]struct{})
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if matchAny(include, d.Name()) && !matchAny(exclude, d.Name(), filepath.ToSlash(rel)) {
			seen[path] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(seen))
	for path := range seen {
		files = append(files, path)
	}
	sort.Strings(files)
	return files, nil
}

func matchAny(patterns []string, names ...string) bool {
	for _, pattern := range patterns {
		for _, name := range names {
			if ok, _ := filepath.Match(pattern, name); ok {
				return true
			}
		}
	}
	return false
}

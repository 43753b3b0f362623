package builder

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// ExpandGlob expands a glob pattern relative to baseDir, supporting ** for
// recursive matching. Only regular files are returned; a pattern naming a
// directory yields every file below it.
func ExpandGlob(baseDir, pattern string) ([]string, error) {
	if strings.Contains(pattern, "**") {
		return expandRecursive(baseDir, pattern)
	}

	matches, err := filepath.Glob(filepath.Join(baseDir, pattern))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 && !containsGlobChars(pattern) {
		return nil, fmt.Errorf("include %q: %w", pattern, fs.ErrNotExist)
	}

	var results []string
	for _, match := range matches {
		files, err := walkFiles(baseDir, match)
		if err != nil {
			return nil, err
		}
		results = append(results, files...)
	}
	return results, nil
}

// expandRecursive handles patterns of the form prefix/**/suffix
func expandRecursive(baseDir, pattern string) ([]string, error) {
	parts := strings.SplitN(filepath.ToSlash(pattern), "**", 2)
	prefix := strings.TrimSuffix(parts[0], "/")
	suffix := strings.TrimPrefix(parts[1], "/")

	startDir := baseDir
	if prefix != "" {
		startDir = filepath.Join(baseDir, filepath.FromSlash(prefix))
	}

	var results []string
	err := filepath.WalkDir(startDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil // unreadable entries are skipped
		}

		if suffix != "" {
			matched, _ := filepath.Match(suffix, d.Name())
			if !matched {
				// Try matching against the path below the ** point
				relFromStart, _ := filepath.Rel(startDir, path)
				matched, _ = filepath.Match(suffix, filepath.ToSlash(relFromStart))
			}
			if !matched {
				return nil
			}
		}

		relPath, err := filepath.Rel(baseDir, path)
		if err != nil {
			return nil
		}
		results = append(results, relPath)
		return nil
	})
	return results, err
}

// walkFiles returns root itself when it is a file, or every file below it
func walkFiles(baseDir, root string) ([]string, error) {
	var results []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		relPath, err := filepath.Rel(baseDir, path)
		if err != nil {
			return err
		}
		results = append(results, relPath)
		return nil
	})
	return results, err
}

// containsGlobChars checks if a pattern contains glob special characters
func containsGlobChars(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}

// IsExcluded checks if a path matches any of the exclude patterns. A plain
// name also excludes everything below a directory of that name.
func IsExcluded(path string, excludes []string) bool {
	for _, pattern := range excludes {
		if matchPattern(path, pattern) {
			return true
		}
	}
	return false
}

// matchPattern checks if a path matches a pattern (supports * and **)
func matchPattern(path, pattern string) bool {
	path = filepath.ToSlash(path)
	pattern = strings.TrimSuffix(filepath.ToSlash(pattern), "/")

	if strings.Contains(pattern, "**") {
		parts := strings.SplitN(pattern, "**", 2)
		prefix := strings.TrimSuffix(parts[0], "/")
		suffix := strings.TrimPrefix(parts[1], "/")

		if prefix != "" && path != prefix && !strings.HasPrefix(path, prefix+"/") {
			return false
		}
		if suffix == "" {
			return true
		}
		if matched, _ := filepath.Match(suffix, baseName(path)); matched {
			return true
		}
		return strings.HasSuffix(path, "/"+suffix) || path == suffix
	}

	if matched, _ := filepath.Match(pattern, path); matched {
		return true
	}

	// Without a slash the pattern is a name: match any path segment
	if !strings.Contains(pattern, "/") {
		for _, segment := range strings.Split(path, "/") {
			if matched, _ := filepath.Match(pattern, segment); matched {
				return true
			}
		}
		return false
	}

	// A pattern matching a parent directory excludes its contents
	for i, c := range path {
		if c != '/' {
			continue
		}
		if matched, _ := filepath.Match(pattern, path[:i]); matched {
			return true
		}
	}
	return false
}

// baseName returns the last element of a slash separated path
func baseName(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// ExpandIncludes expands all include patterns and returns unique file paths
// in natural order, so file2.html comes before file10.html
func ExpandIncludes(baseDir string, includes []string, excludes []string) ([]string, error) {
	seen := make(map[string]bool)
	var results []string

	for _, pattern := range includes {
		expanded, err := ExpandGlob(baseDir, pattern)
		if err != nil {
			return nil, err
		}

		for _, path := range expanded {
			if seen[path] || IsExcluded(path, excludes) {
				continue
			}
			seen[path] = true
			results = append(results, path)
		}
	}

	sort.Sort(natural.StringSlice(results))
	return results, nil
}

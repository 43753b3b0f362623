package builder

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// writeTree creates files with the given relative paths under dir
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func newGlobTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"index.html":                 "x",
		"page2.html":                 "x",
		"page10.html":                "x",
		"about.htm":                  "x",
		"style.css":                  "x",
		"docs/guide.html":            "x",
		"docs/api/ref.html":          "x",
		"build/index.html":           "x",
		"node_modules/pkg/demo.html": "x",
	})
	return dir
}

func TestExpandGlob(t *testing.T) {
	dir := newGlobTree(t)

	tests := []struct {
		name     string
		pattern  string
		expected int
	}{
		{"single wildcard", "*.html", 3},
		{"other extension", "*.htm", 1},
		{"directory", "docs", 2},
		{"recursive", "**/*.html", 7},
		{"recursive below prefix", "docs/**/*.html", 2},
		{"everything", "**", 9},
		{"specific file", "page2.html", 1},
		{"subdirectory wildcard", "docs/*.html", 1},
		{"no matches", "*.php", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := ExpandGlob(dir, tt.pattern)
			if err != nil {
				t.Fatalf("ExpandGlob(%q) error = %v", tt.pattern, err)
			}
			if len(results) != tt.expected {
				t.Errorf("ExpandGlob(%q) = %d files, want %d. Got: %v", tt.pattern, len(results), tt.expected, results)
			}
		})
	}
}

func TestExpandGlobMissingFile(t *testing.T) {
	_, err := ExpandGlob(t.TempDir(), "missing.html")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ExpandGlob() error = %v, want fs.ErrNotExist", err)
	}
}

func TestContainsGlobChars(t *testing.T) {
	tests := []struct {
		pattern  string
		expected bool
	}{
		{"*.html", true},
		{"page?.html", true},
		{"[ab].html", true},
		{"index.html", false},
		{"docs/guide.html", false},
		{"**/*.html", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			result := containsGlobChars(tt.pattern)
			if result != tt.expected {
				t.Errorf("containsGlobChars(%q) = %v, want %v", tt.pattern, result, tt.expected)
			}
		})
	}
}

func TestIsExcluded(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		excludes []string
		expected bool
	}{
		{"no excludes", "index.html", []string{}, false},
		{"exact match", "index.html", []string{"index.html"}, true},
		{"wildcard match", "index.html", []string{"*.html"}, true},
		{"no match", "index.html", []string{"*.css"}, false},
		{"directory name", "build/index.html", []string{"build"}, true},
		{"nested directory name", "a/node_modules/x.html", []string{"node_modules"}, true},
		{"similar name kept", "builder.html", []string{"build"}, false},
		{"directory glob", "build/sub/x.html", []string{"build/*"}, true},
		{"trailing slash", "build/index.html", []string{"build/"}, true},
		{"recursive exclude", "docs/api/ref.html", []string{"**/*.html"}, true},
		{"recursive below prefix", "docs/api/ref.html", []string{"docs/**"}, true},
		{"recursive other prefix", "src/x.html", []string{"docs/**"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsExcluded(tt.path, tt.excludes)
			if result != tt.expected {
				t.Errorf("IsExcluded(%q, %v) = %v, want %v", tt.path, tt.excludes, result, tt.expected)
			}
		})
	}
}

func TestExpandIncludes(t *testing.T) {
	dir := newGlobTree(t)

	results, err := ExpandIncludes(dir, []string{"**/*.html"}, []string{"build", "node_modules", ".git"})
	if err != nil {
		t.Fatalf("ExpandIncludes() error = %v", err)
	}
	expected := []string{
		filepath.Join("docs", "api", "ref.html"),
		filepath.Join("docs", "guide.html"),
		"index.html",
		"page2.html",
		"page10.html",
	}
	if !reflect.DeepEqual(results, expected) {
		t.Errorf("ExpandIncludes() = %v, want %v", results, expected)
	}

	results, err = ExpandIncludes(dir, []string{"*.html", "index.html"}, nil)
	if err != nil {
		t.Fatalf("ExpandIncludes() error = %v", err)
	}
	if len(results) != 3 {
		t.Errorf("ExpandIncludes() with overlapping patterns = %v, want 3 unique files", results)
	}

	if _, err := ExpandIncludes(dir, []string{"missing.html"}, nil); err == nil {
		t.Error("ExpandIncludes() expected error for a missing include")
	}
}

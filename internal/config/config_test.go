package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"classmin/internal/obfuscator"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		expectError bool
		validate    func(*testing.T, *Config)
	}{
		{
			name:    "empty file keeps defaults",
			content: "",
			validate: func(t *testing.T, cfg *Config) {
				if len(cfg.Include) != 1 || cfg.Include[0] != "**/*.html" {
					t.Errorf("Include = %v, want [**/*.html]", cfg.Include)
				}
				if cfg.Output != "build" {
					t.Errorf("Output = %q, want %q", cfg.Output, "build")
				}
				if len(cfg.Exclude) != 3 {
					t.Errorf("Exclude = %v, want 3 defaults", cfg.Exclude)
				}
				if cfg.Compact || cfg.Audit {
					t.Error("Compact and Audit must default to false")
				}
			},
		},
		{
			name: "overrides",
			content: `include:
  - "pages/*.html"
  - "*.htm"
output: dist
alphabet: "abc"
whitelist: [js-, state-]
compact: true
audit: true
alias_map: aliases.yaml
`,
			validate: func(t *testing.T, cfg *Config) {
				if len(cfg.Include) != 2 || cfg.Include[1] != "*.htm" {
					t.Errorf("Include = %v", cfg.Include)
				}
				if len(cfg.Exclude) != 3 {
					t.Errorf("Exclude = %v, want defaults kept", cfg.Exclude)
				}
				if cfg.Output != "dist" || cfg.Alphabet != "abc" || !cfg.Compact || !cfg.Audit {
					t.Errorf("cfg = %+v", cfg)
				}
				if len(cfg.Whitelist) != 2 || cfg.Whitelist[0] != "js-" {
					t.Errorf("Whitelist = %v", cfg.Whitelist)
				}
				if cfg.AliasMapPath() != filepath.Join(cfg.Dir, "aliases.yaml") {
					t.Errorf("AliasMapPath() = %q", cfg.AliasMapPath())
				}
			},
		},
		{
			name: "logging",
			content: `logging:
  console:
    level: debug
`,
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Console.Level != "debug" {
					t.Errorf("Console.Level = %q, want debug", cfg.Logging.Console.Level)
				}
				if cfg.Logging.File.Level != "none" {
					t.Errorf("File.Level = %q, want none", cfg.Logging.File.Level)
				}
			},
		},
		{name: "unknown field", content: "outptu: dist\n", expectError: true},
		{name: "bad alphabet", content: "alphabet: aa\n", expectError: true},
		{name: "output is source", content: "output: .\n", expectError: true},
		{name: "empty include", content: "include: []\n", expectError: true},
		{name: "bad level", content: "logging:\n  console:\n    level: loud\n", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, FileName), []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			cfg, err := Load(dir)
			if tt.expectError {
				if err == nil {
					t.Errorf("Load() expected error, got %+v", cfg)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.OutputDir() != filepath.Join(cfg.Dir, cfg.Output) {
				t.Errorf("OutputDir() = %q", cfg.OutputDir())
			}
			tt.validate(t, cfg)
		})
	}
}

func TestLoadRejectsOutputOverSources(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "site", "src")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		output      string
		expectError bool
	}{
		{name: "source directory", output: ".", expectError: true},
		{name: "parent", output: "..", expectError: true},
		{name: "grandparent", output: "../..", expectError: true},
		{name: "climbs through a subdirectory", output: "a/../../..", expectError: true},
		{name: "absolute source directory", output: dir, expectError: true},
		{name: "absolute ancestor", output: parent, expectError: true},
		{name: "absolute with trailing elements", output: filepath.Join(dir, "x", ".."), expectError: true},
		{name: "subdirectory", output: "dist"},
		{name: "sibling", output: "../dist"},
		{name: "absolute inside sources", output: filepath.Join(dir, "dist")},
		{name: "absolute elsewhere", output: filepath.Join(parent, "out")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := "output: " + strconv.Quote(tt.output) + "\n"
			if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
				t.Fatal(err)
			}

			cfg, err := Load(dir)
			if tt.expectError {
				if err == nil || !strings.Contains(err.Error(), "would overwrite the sources") {
					t.Errorf("Load() error = %v, want output rejected", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("Validate() after Load() error = %v", err)
			}
		})
	}
}

func TestOutputInSources(t *testing.T) {
	tests := []struct {
		output   string
		expected string
	}{
		{"build", "build"},
		{"out/site", "out/site"},
		{"/project/dist", "dist"},
		{"../dist", ""},
		{"/elsewhere", ""},
	}

	for _, tt := range tests {
		cfg := Default()
		cfg.Dir = "/project"
		cfg.Output = tt.output
		if got := cfg.OutputInSources(); got != tt.expected {
			t.Errorf("OutputInSources() with output %q = %q, want %q", tt.output, got, tt.expected)
		}
	}
}

func TestLoadResolvesLogDestination(t *testing.T) {
	dir := t.TempDir()
	content := "logging:\n  file:\n    level: debug\n    destination: logs/classmin.log\n"
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	expected := filepath.Join(cfg.Dir, "logs", "classmin.log")
	if cfg.Logging.File.Destination != expected {
		t.Errorf("Destination = %q, want %q", cfg.Logging.File.Destination, expected)
	}
}

func TestLoadMissing(t *testing.T) {
	dir := t.TempDir()
	if Exists(dir) {
		t.Error("Exists() = true for an empty directory")
	}
	if _, err := Load(dir); err == nil {
		t.Error("Load() expected error for a missing file")
	}
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Include = nil
	cfg.Output = ".."
	cfg.Alphabet = "x"
	cfg.Logging.File.Level = "debug"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	for _, want := range []string{"include", "output", "alphabet", "logging.file.destination"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error %q does not mention %s", err, want)
		}
	}
	if !errors.Is(err, obfuscator.ErrInvalidAlphabet) {
		t.Errorf("Validate() error does not wrap ErrInvalidAlphabet")
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Whitelist = []string{"js-"}
	if err := cfg.Save(dir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !Exists(dir) {
		t.Fatal("Exists() = false after Save()")
	}

	loaded, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded.Whitelist) != 1 || loaded.Whitelist[0] != "js-" {
		t.Errorf("Whitelist = %v, want [js-]", loaded.Whitelist)
	}
}

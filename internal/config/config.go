package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"classmin/internal/obfuscator"
)

// FileName is the project configuration file looked up in a source directory
const FileName = "classmin.yaml"

// Config holds the project configuration from classmin.yaml
type Config struct {
	Include   []string      `yaml:"include"`
	Exclude   []string      `yaml:"exclude"`
	Output    string        `yaml:"output"`
	Alphabet  string        `yaml:"alphabet,omitempty"`
	Whitelist []string      `yaml:"whitelist,omitempty"`
	Compact   bool          `yaml:"compact"`
	Audit     bool          `yaml:"audit"`
	AliasMap  string        `yaml:"alias_map,omitempty"`
	Logging   LoggingConfig `yaml:"logging"`

	// Dir is the directory the configuration was loaded from
	Dir string `yaml:"-"`
}

// Default returns the configuration used when classmin.yaml leaves a field out
func Default() *Config {
	return &Config{
		Include: []string{"**/*.html"},
		Exclude: []string{"build", "node_modules", ".git"},
		Output:  "build",
		Logging: LoggingConfig{
			Console: LoggerConfig{Level: "normal"},
			File:    LoggerConfig{Level: "none", Mode: "overwrite"},
		},
	}
}

// Exists checks if classmin.yaml exists in the given directory
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, FileName))
	return err == nil
}

// Load reads classmin.yaml from path, which may be the file itself or the
// directory holding it. Values from the file are laid over Default.
func Load(path string) (*Config, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, FileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	cfg, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file %s: %w", path, err)
	}
	cfg.Dir = filepath.Dir(abs)
	if dest := cfg.Logging.File.Destination; dest != "" {
		cfg.Logging.File.Destination = cfg.resolve(dest)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to process configuration file %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes configuration data over the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	cfg, err := decode(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(data []byte) (*Config, error) {
	cfg := Default()

	// Only fields we know about are accepted, so yaml.Unmarshal is not enough
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	return cfg, nil
}

// Validate reports every problem found in the configuration
func (c *Config) Validate() error {
	var err error

	if len(c.Include) == 0 {
		err = multierr.Append(err, errors.New("include: at least one pattern is required"))
	}

	if c.Output == "" {
		err = multierr.Append(err, errors.New("output: directory is required"))
	} else if c.overwritesSources() {
		err = multierr.Append(err, fmt.Errorf("output: %q would overwrite the sources", c.Output))
	}

	if c.Alphabet != "" {
		if aerr := obfuscator.ValidateAlphabet(c.Alphabet); aerr != nil {
			err = multierr.Append(err, fmt.Errorf("alphabet: %w", aerr))
		}
	}

	return multierr.Append(err, c.Logging.Validate())
}

// overwritesSources reports whether cleaning the output directory would
// remove the source directory. Without Dir only relative outputs that climb
// to an ancestor can be detected.
func (c *Config) overwritesSources() bool {
	output := filepath.Clean(c.Output)
	if !filepath.IsAbs(output) && isAncestorPath(output) {
		return true
	}
	if c.Dir == "" {
		return false
	}
	rel, err := filepath.Rel(c.OutputDir(), filepath.Clean(c.Dir))
	return err == nil && !escapes(rel)
}

// isAncestorPath reports whether a clean relative path is made only of "."
// and ".." elements
func isAncestorPath(rel string) bool {
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if part != "." && part != ".." {
			return false
		}
	}
	return true
}

// escapes reports whether a clean relative path leaves its base directory
func escapes(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// OutputDir returns the output directory resolved against the source directory
func (c *Config) OutputDir() string {
	return c.resolve(c.Output)
}

// AliasMapPath returns where the alias map is written, or "" when disabled
func (c *Config) AliasMapPath() string {
	if c.AliasMap == "" {
		return ""
	}
	return c.resolve(c.AliasMap)
}

// OutputInSources returns the output directory relative to the source
// directory, or "" when it lies outside of it
func (c *Config) OutputInSources() string {
	rel, err := filepath.Rel(filepath.Clean(c.Dir), c.OutputDir())
	if err != nil || rel == "." || escapes(rel) {
		return ""
	}
	return filepath.ToSlash(rel)
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(c.Dir, path)
}

// Save writes the configuration as classmin.yaml into dir
func (c *Config) Save(dir string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, FileName), data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", FileName, err)
	}
	return nil
}

package builder

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"classmin/internal/obfuscator"
)

// CleanBuildDir removes and recreates the output directory
func CleanBuildDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to clean build directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create build directory: %w", err)
	}
	return nil
}

// WriteFile writes content to dst, creating parent directories as needed
func WriteFile(dst string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	return os.WriteFile(dst, content, 0644)
}

// WriteAliasMap writes the alias table as a YAML list of name/alias pairs
func WriteAliasMap(path string, entries []obfuscator.AliasEntry) error {
	if entries == nil {
		entries = []obfuscator.AliasEntry{}
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal alias map: %w", err)
	}
	if err := WriteFile(path, data); err != nil {
		return fmt.Errorf("failed to write alias map: %w", err)
	}
	return nil
}

// ReadAliasMap reads an alias table written by WriteAliasMap
func ReadAliasMap(path string) ([]obfuscator.AliasEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read alias map: %w", err)
	}
	var entries []obfuscator.AliasEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode alias map: %w", err)
	}
	return entries, nil
}

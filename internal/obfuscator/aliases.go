package obfuscator

import (
	"errors"
	"fmt"
)

// ErrAliasNotFound is returned when a class has no alias yet
var ErrAliasNotFound = errors.New("alias not found")

// AliasEntry pairs an original class name with its replacement
type AliasEntry struct {
	Name  string `yaml:"name" json:"name"`
	Alias string `yaml:"alias" json:"alias"`
}

// AliasTable maps original class names to aliases. Aliases are minted
// lazily and never reassigned; insertion order is preserved.
type AliasTable struct {
	names     []string
	aliases   map[string]string
	whitelist *Whitelist
	symbols   *Symbols
}

// NewAliasTable creates an empty table minting aliases from symbols
func NewAliasTable(whitelist *Whitelist, symbols *Symbols) *AliasTable {
	return &AliasTable{
		aliases:   make(map[string]string),
		whitelist: whitelist,
		symbols:   symbols,
	}
}

// Has reports whether name already has an alias
func (t *AliasTable) Has(name string) bool {
	_, ok := t.aliases[name]
	return ok
}

// Get returns the alias of name
func (t *AliasTable) Get(name string) (string, error) {
	alias, ok := t.aliases[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrAliasNotFound, name)
	}
	return alias, nil
}

// Create assigns an alias to name. Whitelisted names keep their own name
// and do not consume a symbol. An existing alias is never replaced.
func (t *AliasTable) Create(name string) string {
	if alias, exists := t.aliases[name]; exists {
		return alias
	}
	alias := name
	if !t.whitelist.Contains(name) {
		alias = t.symbols.Next()
	}
	t.names = append(t.names, name)
	t.aliases[name] = alias
	return alias
}

// GetOrCreate returns the existing alias of name or creates one
func (t *AliasTable) GetOrCreate(name string) string {
	if alias, ok := t.aliases[name]; ok {
		return alias
	}
	return t.Create(name)
}

// lookup is Get without the error, for hot paths
func (t *AliasTable) lookup(name string) (string, bool) {
	alias, ok := t.aliases[name]
	return alias, ok
}

// Names returns the original names in insertion order
func (t *AliasTable) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Entries returns the table in insertion order
func (t *AliasTable) Entries() []AliasEntry {
	out := make([]AliasEntry, 0, len(t.names))
	for _, name := range t.names {
		out = append(out, AliasEntry{Name: name, Alias: t.aliases[name]})
	}
	return out
}

// Len returns the number of known names
func (t *AliasTable) Len() int {
	return len(t.names)
}

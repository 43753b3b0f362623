package obfuscator

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Minifier is one renaming session. Its alias table, whitelist, symbol
// cursor and size counters persist across calls so several documents can
// share one consistent set of aliases. A Minifier is not safe for
// concurrent use.
type Minifier struct {
	log       *zap.Logger
	symbols   *Symbols
	whitelist *Whitelist
	aliases   *AliasTable
	compact   bool

	alphabet string
	extra    []string

	originalBytes int
	minifiedBytes int
}

// Option configures a Minifier
type Option func(*Minifier)

// WithLogger sets the logger used for diagnostics
func WithLogger(log *zap.Logger) Option {
	return func(m *Minifier) {
		if log != nil {
			m.log = log
		}
	}
}

// WithAlphabet replaces the default alias alphabet
func WithAlphabet(alphabet string) Option {
	return func(m *Minifier) {
		m.alphabet = alphabet
	}
}

// WithWhitelist protects additional name fragments
func WithWhitelist(entries ...string) Option {
	return func(m *Minifier) {
		m.extra = append(m.extra, entries...)
	}
}

// WithCompact compacts whitespace and comments of every rebuilt stylesheet
func WithCompact(compact bool) Option {
	return func(m *Minifier) {
		m.compact = compact
	}
}

// New creates a session with an empty alias table and the reserved whitelist
func New(opts ...Option) (*Minifier, error) {
	m := &Minifier{
		log:      zap.NewNop(),
		alphabet: DefaultAlphabet,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.Named("classes")

	symbols, err := NewSymbols(m.alphabet)
	if err != nil {
		return nil, fmt.Errorf("failed to create symbol generator: %w", err)
	}
	m.symbols = symbols
	m.whitelist = NewWhitelist(ReservedWhitelist...)
	m.whitelist.Add(m.extra...)
	m.aliases = NewAliasTable(m.whitelist, m.symbols)
	return m, nil
}

// InWhitelist reports whether name is protected from renaming and removal
func (m *Minifier) InWhitelist(name string) bool {
	return m.whitelist.Contains(name)
}

// AddToWhitelist protects additional name fragments. Names that already
// have an alias keep it.
func (m *Minifier) AddToWhitelist(entries ...string) {
	m.whitelist.Add(entries...)
}

// Whitelist returns the current whitelist entries
func (m *Minifier) Whitelist() []string {
	return m.whitelist.Entries()
}

// HasAlias reports whether name has an alias
func (m *Minifier) HasAlias(name string) bool {
	return m.aliases.Has(name)
}

// Alias returns the alias of name or an error wrapping ErrAliasNotFound
func (m *Minifier) Alias(name string) (string, error) {
	return m.aliases.Get(name)
}

// CreateAlias assigns an alias to name
func (m *Minifier) CreateAlias(name string) string {
	return m.aliases.Create(name)
}

// GetOrCreateAlias returns the alias of name, creating it when needed
func (m *Minifier) GetOrCreateAlias(name string) string {
	return m.aliases.GetOrCreate(name)
}

// ClassNames returns every class name seen so far in order of first appearance
func (m *Minifier) ClassNames() []string {
	return m.aliases.Names()
}

// Aliases returns the alias table in order of first appearance
func (m *Minifier) Aliases() []AliasEntry {
	return m.aliases.Entries()
}

// DiscoverWhitelist protects the values of class attribute selectors found
// in html. It must run before RewriteMarkup to have any effect on aliases.
func (m *Minifier) DiscoverWhitelist(html string) {
	before := m.whitelist.Len()
	m.whitelist.Discover(html)
	if added := m.whitelist.Len() - before; added > 0 {
		m.log.Debug("Whitelist extended from attribute selectors", zap.Int("added", added))
	}
}

// RewriteMarkup replaces the tokens of every class attribute with their
// aliases, minting aliases for names not seen before.
func (m *Minifier) RewriteMarkup(html string) string {
	return replaceClassAttributes(html, func(value string) string {
		names := strings.Fields(value)
		for i, name := range names {
			names[i] = m.aliases.GetOrCreate(name)
		}
		return strings.Join(names, " ")
	})
}

// RewriteStylesheets rebuilds every <style> block of html against the alias
// table, dropping rules whose selectors reference unknown classes.
func (m *Minifier) RewriteStylesheets(html string) string {
	return replaceStyleBlocks(html, m.rewriteSheet)
}

// Minify runs the whole pipeline over a single document
func (m *Minifier) Minify(html string) *Result {
	m.ResetSizes()
	m.DiscoverWhitelist(html)
	out := m.RewriteMarkup(html)
	out = m.RewriteStylesheets(out)

	m.log.Debug("Document minified",
		zap.Int("classes", m.aliases.Len()),
		zap.Int("original", m.originalBytes),
		zap.Int("minified", m.minifiedBytes))

	return &Result{
		Minified:      out,
		OriginalBytes: m.originalBytes,
		MinifiedBytes: m.minifiedBytes,
	}
}

// Sizes returns the accumulated stylesheet sizes
func (m *Minifier) Sizes() (original, minified int) {
	return m.originalBytes, m.minifiedBytes
}

// ResetSizes zeroes the size counters
func (m *Minifier) ResetSizes() {
	m.originalBytes = 0
	m.minifiedBytes = 0
}

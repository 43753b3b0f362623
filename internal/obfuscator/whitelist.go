package obfuscator

import "strings"

// ReservedWhitelist holds the fragments protected in every session.
// amp- covers AMP runtime classes, the rest are toggled by scripts.
var ReservedWhitelist = []string{
	"amp-",
	"opened",
	"noscroll",
	"submenu",
	"overflow-y",
	"nominify-",
}

// Whitelist is an ordered set of name fragments. A class name is protected
// when it contains any fragment, so "nominify-" protects a whole family.
type Whitelist struct {
	entries []string
	seen    map[string]bool
}

// NewWhitelist creates a whitelist seeded with the given entries
func NewWhitelist(entries ...string) *Whitelist {
	w := &Whitelist{seen: make(map[string]bool)}
	w.Add(entries...)
	return w
}

// Add appends entries that are not already present. Empty entries are
// ignored since they would match every name.
func (w *Whitelist) Add(entries ...string) {
	for _, e := range entries {
		if e == "" || w.seen[e] {
			continue
		}
		w.seen[e] = true
		w.entries = append(w.entries, e)
	}
}

// Contains reports whether name contains any whitelist entry as a substring
func (w *Whitelist) Contains(name string) bool {
	for _, e := range w.entries {
		if strings.Contains(name, e) {
			return true
		}
	}
	return false
}

// Entries returns a copy of the entries in insertion order
func (w *Whitelist) Entries() []string {
	out := make([]string, len(w.entries))
	copy(out, w.entries)
	return out
}

// Len returns the number of entries
func (w *Whitelist) Len() int {
	return len(w.entries)
}

// Discover adds every value referenced by a class attribute selector such
// as [class^="icon-"] or [class*=col-] found in content.
func (w *Whitelist) Discover(content string) {
	w.Add(attributeSelectorValues(content)...)
}

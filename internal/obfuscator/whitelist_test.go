package obfuscator

import (
	"reflect"
	"testing"
)

func TestWhitelistContains(t *testing.T) {
	w := NewWhitelist(ReservedWhitelist...)

	tests := []struct {
		name     string
		expected bool
	}{
		{"amp-social-share-item", true},
		{"my-amp-thing", true},
		{"menu-opened", true},
		{"nominify-header", true},
		{"overflow-y-auto", true},
		{"amp", false},
		{"header", false},
		{"open", false},
	}

	for _, tt := range tests {
		if got := w.Contains(tt.name); got != tt.expected {
			t.Errorf("Contains(%q) = %v, want %v", tt.name, got, tt.expected)
		}
	}
}

func TestWhitelistAdd(t *testing.T) {
	w := NewWhitelist("a-", "b-")
	w.Add("b-", "", "c-", "a-", "c-")

	expected := []string{"a-", "b-", "c-"}
	if got := w.Entries(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Entries() = %v, want %v", got, expected)
	}
	if w.Contains("anything") {
		t.Error("empty entry must not be added")
	}
}

func TestWhitelistDiscover(t *testing.T) {
	content := `<style>
[class^="icon-"]{display:inline}
[class*='col-']{float:left}
[class$=-end]{margin:0}
[class~="exact"]{x:y}
[class|="lang"]{x:y}
[class="plain"]{x:y}
[class^="icon-"]{display:block}
</style>`

	w := NewWhitelist()
	w.Discover(content)

	expected := []string{"icon-", "col-", "-end", "exact", "lang"}
	if got := w.Entries(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Entries() = %v, want %v", got, expected)
	}
}

func TestWhitelistDiscoverIdempotent(t *testing.T) {
	content := `<style>[class^="icon-"]{} [class*="btn-"]{}</style>`

	w := NewWhitelist(ReservedWhitelist...)
	w.Discover(content)
	first := w.Entries()
	w.Discover(content)

	if got := w.Entries(); !reflect.DeepEqual(got, first) {
		t.Errorf("second Discover changed entries: %v, want %v", got, first)
	}
	if w.Len() != len(ReservedWhitelist)+2 {
		t.Errorf("Len() = %d, want %d", w.Len(), len(ReservedWhitelist)+2)
	}
}

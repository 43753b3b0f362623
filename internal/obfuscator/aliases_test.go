package obfuscator

import (
	"errors"
	"reflect"
	"testing"
)

func newTestTable(t *testing.T) (*AliasTable, *Symbols) {
	t.Helper()
	symbols, err := NewSymbols(DefaultAlphabet)
	if err != nil {
		t.Fatal(err)
	}
	return NewAliasTable(NewWhitelist(ReservedWhitelist...), symbols), symbols
}

func TestAliasTableCreate(t *testing.T) {
	table, symbols := newTestTable(t)

	if got := table.Create("nav"); got != "a" {
		t.Errorf("Create(nav) = %q, want %q", got, "a")
	}
	if got := table.Create("amp-carousel"); got != "amp-carousel" {
		t.Errorf("Create(amp-carousel) = %q, want itself", got)
	}
	if got := table.Create("logo"); got != "b" {
		t.Errorf("Create(logo) = %q, want %q", got, "b")
	}
	if symbols.Cursor() != 2 {
		t.Errorf("whitelisted name consumed a symbol, cursor = %d", symbols.Cursor())
	}

	// an existing alias is never replaced
	if got := table.Create("nav"); got != "a" {
		t.Errorf("second Create(nav) = %q, want %q", got, "a")
	}
	if symbols.Cursor() != 2 {
		t.Errorf("second Create consumed a symbol, cursor = %d", symbols.Cursor())
	}
}

func TestAliasTableGet(t *testing.T) {
	table, _ := newTestTable(t)
	table.GetOrCreate("first")

	alias, err := table.Get("first")
	if err != nil || alias != "a" {
		t.Errorf("Get(first) = %q, %v, want %q", alias, err, "a")
	}

	_, err = table.Get("missing")
	if !errors.Is(err, ErrAliasNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrAliasNotFound", err)
	}
	if table.Has("missing") {
		t.Error("Has(missing) = true")
	}
}

func TestAliasTableOrder(t *testing.T) {
	table, _ := newTestTable(t)
	for _, name := range []string{"zeta", "alpha", "opened", "zeta", "beta", "alpha"} {
		table.GetOrCreate(name)
	}

	expectedNames := []string{"zeta", "alpha", "opened", "beta"}
	if got := table.Names(); !reflect.DeepEqual(got, expectedNames) {
		t.Errorf("Names() = %v, want %v", got, expectedNames)
	}

	expectedEntries := []AliasEntry{
		{Name: "zeta", Alias: "a"},
		{Name: "alpha", Alias: "b"},
		{Name: "opened", Alias: "opened"},
		{Name: "beta", Alias: "c"},
	}
	if got := table.Entries(); !reflect.DeepEqual(got, expectedEntries) {
		t.Errorf("Entries() = %v, want %v", got, expectedEntries)
	}
	if table.Len() != 4 {
		t.Errorf("Len() = %d, want 4", table.Len())
	}
}

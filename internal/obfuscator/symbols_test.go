package obfuscator

import (
	"errors"
	"testing"
)

func TestSymbolsGet(t *testing.T) {
	s, err := NewSymbols(DefaultAlphabet)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		n        int
		expected string
	}{
		{0, "0"},
		{1, "a"},
		{2, "b"},
		{26, "z"},
		{27, "A"},
		{52, "Z"},
		{53, "_"},
		{54, "a0"},
		{55, "aa"},
		{54*54 - 1, "__"},
		{54 * 54, "a00"},
	}

	for _, tt := range tests {
		if got := s.Get(tt.n); got != tt.expected {
			t.Errorf("Get(%d) = %q, want %q", tt.n, got, tt.expected)
		}
	}
}

func TestSymbolsNext(t *testing.T) {
	s, err := NewSymbols(DefaultAlphabet)
	if err != nil {
		t.Fatal(err)
	}

	if got := s.Next(); got != "a" {
		t.Errorf("first Next() = %q, want %q", got, "a")
	}
	if got := s.Next(); got != "b" {
		t.Errorf("second Next() = %q, want %q", got, "b")
	}
	if s.Cursor() != 2 {
		t.Errorf("Cursor() = %d, want 2", s.Cursor())
	}

	s.Reset()
	if got := s.Next(); got != "a" {
		t.Errorf("Next() after Reset = %q, want %q", got, "a")
	}
}

func TestSymbolsUnique(t *testing.T) {
	s, err := NewSymbols(DefaultAlphabet)
	if err != nil {
		t.Fatal(err)
	}

	seen := make(map[string]int)
	for i := 1; i <= 10000; i++ {
		sym := s.Next()
		if prev, ok := seen[sym]; ok {
			t.Fatalf("symbol %q produced at %d and %d", sym, prev, i)
		}
		if sym[0] == '0' {
			t.Fatalf("symbol %q at %d starts with the zero symbol", sym, i)
		}
		seen[sym] = i
	}
}

func TestSymbolsCustomAlphabet(t *testing.T) {
	s, err := NewSymbols("01")
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"1", "10", "11", "100", "101"}
	for i, expected := range want {
		if got := s.Next(); got != expected {
			t.Errorf("Next() #%d = %q, want %q", i+1, got, expected)
		}
	}
}

func TestValidateAlphabet(t *testing.T) {
	tests := []struct {
		name     string
		alphabet string
		valid    bool
	}{
		{"default", DefaultAlphabet, true},
		{"binary", "01", true},
		{"unicode", "0αβγ", true},
		{"empty", "", false},
		{"single", "a", false},
		{"duplicate", "abca", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAlphabet(tt.alphabet)
			if tt.valid && err != nil {
				t.Errorf("ValidateAlphabet(%q) error = %v", tt.alphabet, err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidAlphabet) {
				t.Errorf("ValidateAlphabet(%q) error = %v, want ErrInvalidAlphabet", tt.alphabet, err)
			}
		})
	}
}

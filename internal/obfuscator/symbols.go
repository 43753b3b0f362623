package obfuscator

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultAlphabet is the symbol space aliases are drawn from. The first
// symbol stands for zero and never leads a generated alias.
const DefaultAlphabet = "0abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_"

// ErrInvalidAlphabet is returned for alphabets that cannot produce unique symbols
var ErrInvalidAlphabet = errors.New("invalid alphabet")

// Symbols converts a counter into strings of a positional numeral system
// whose digits are the alphabet symbols.
type Symbols struct {
	alphabet []rune
	cursor   int
}

// NewSymbols creates a generator over the given alphabet
func NewSymbols(alphabet string) (*Symbols, error) {
	if err := ValidateAlphabet(alphabet); err != nil {
		return nil, err
	}
	return &Symbols{alphabet: []rune(alphabet)}, nil
}

// ValidateAlphabet checks that an alphabet has at least two distinct symbols
func ValidateAlphabet(alphabet string) error {
	runes := []rune(alphabet)
	if len(runes) < 2 {
		return fmt.Errorf("%w: need at least 2 symbols, got %d", ErrInvalidAlphabet, len(runes))
	}
	seen := make(map[rune]bool, len(runes))
	for _, r := range runes {
		if seen[r] {
			return fmt.Errorf("%w: duplicate symbol %q", ErrInvalidAlphabet, r)
		}
		seen[r] = true
	}
	return nil
}

// Get returns the representation of n
func (s *Symbols) Get(n int) string {
	if n <= 0 {
		return string(s.alphabet[0])
	}

	base := len(s.alphabet)
	var digits []rune
	for ; n >= 1; n /= base {
		digits = append(digits, s.alphabet[n%base])
	}

	var b strings.Builder
	for i := len(digits) - 1; i >= 0; i-- {
		b.WriteRune(digits[i])
	}
	return b.String()
}

// Next advances the cursor and returns its representation.
// The first call after a reset yields Get(1).
func (s *Symbols) Next() string {
	s.cursor++
	return s.Get(s.cursor)
}

// Reset moves the cursor back to zero
func (s *Symbols) Reset() {
	s.cursor = 0
}

// Cursor returns the number of symbols handed out since the last reset
func (s *Symbols) Cursor() int {
	return s.cursor
}

// Base returns the size of the alphabet
func (s *Symbols) Base() int {
	return len(s.alphabet)
}

// Package bigram turns text into a fixed-size character-bigram frequency profile.
//
// Every rune is bucketed into one of 27 symbols: the 26 letters of an alphabet
// (case-insensitive) plus a single "other" symbol for everything else. An ordered
// pair of symbols maps to one of 27*27 = 729 slots.
package bigram

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/kailas-cloud/langprint/internal/domain"
)

const (
	// Letters is the number of letter symbols in an alphabet.
	Letters = 26
	// Other is the rank of the catch-all symbol.
	Other = Letters
	// Symbols is the total number of symbol ranks.
	Symbols = Letters + 1
	// Slots is the number of distinct bigram indices.
	Slots = Symbols * Symbols
)

// Alphabet is an ordered set of 26 distinct lower-case letters.
type Alphabet struct {
	letters [Letters]rune
	ranks   map[rune]int
}

// Latin is the default a..z alphabet.
var Latin = MustAlphabet("abcdefghijklmnopqrstuvwxyz")

// NewAlphabet validates and creates an alphabet from exactly 26 distinct letters.
// Letters are lower-cased; their order defines the symbol ranks.
func NewAlphabet(letters string) (Alphabet, error) {
	if n := utf8.RuneCountInString(letters); n != Letters {
		return Alphabet{}, fmt.Errorf("alphabet has %d letters, want %d: %w", n, Letters, domain.ErrInvalidAlphabet)
	}

	a := Alphabet{ranks: make(map[rune]int, Letters)}
	i := 0
	for _, r := range letters {
		if !unicode.IsLetter(r) {
			return Alphabet{}, fmt.Errorf("alphabet rune %q is not a letter: %w", r, domain.ErrInvalidAlphabet)
		}
		r = unicode.ToLower(r)
		if _, dup := a.ranks[r]; dup {
			return Alphabet{}, fmt.Errorf("alphabet letter %q repeated: %w", r, domain.ErrInvalidAlphabet)
		}
		a.letters[i] = r
		a.ranks[r] = i
		i++
	}
	return a, nil
}

// MustAlphabet is NewAlphabet that panics on error.
func MustAlphabet(letters string) Alphabet {
	a, err := NewAlphabet(letters)
	if err != nil {
		panic(err)
	}
	return a
}

// ClassOf returns the symbol rank of r in [0, Symbols).
// Letters of the alphabet map to their position, anything else to Other.
func (a Alphabet) ClassOf(r rune) int {
	if rank, ok := a.ranks[unicode.ToLower(r)]; ok {
		return rank
	}
	return Other
}

// String returns the letters in rank order.
func (a Alphabet) String() string {
	return string(a.letters[:])
}

// ClassOf classifies r against the Latin alphabet.
func ClassOf(r rune) int {
	return Latin.ClassOf(r)
}

// PairIndex composes two symbol ranks into a bigram index in [0, Slots).
func PairIndex(first, second int) int {
	return first*Symbols + second
}

// SplitIndex is the inverse of PairIndex.
func SplitIndex(index int) (first, second int) {
	return index / Symbols, index % Symbols
}

// Label renders a symbol rank for display: the letter itself, or "_" for Other.
func (a Alphabet) Label(rank int) string {
	if rank >= 0 && rank < Letters {
		return string(a.letters[rank])
	}
	return "_"
}

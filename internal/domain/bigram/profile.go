package bigram

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/langprint/internal/domain"
)

// SumTolerance bounds how far a stored profile's total may drift from 1.0.
const SumTolerance = 1e-6

// Profile is the relative frequency of every bigram index within a text.
// It is an array, so assignments copy and a built profile is never shared.
type Profile [Slots]float64

// InsufficientInputError is returned for text with fewer than two characters.
type InsufficientInputError struct {
	Length int
}

func (e *InsufficientInputError) Error() string {
	return fmt.Sprintf("%s: text has %d characters, need at least 2", domain.ErrInsufficientInput.Error(), e.Length)
}

func (e *InsufficientInputError) Unwrap() error { return domain.ErrInsufficientInput }

// Builder builds profiles against a fixed alphabet.
// The zero value classifies every rune as Other; use NewBuilder.
type Builder struct {
	alphabet Alphabet
}

// NewBuilder creates a builder for the given alphabet.
func NewBuilder(alphabet Alphabet) Builder {
	return Builder{alphabet: alphabet}
}

// Alphabet returns the builder's alphabet.
func (b Builder) Alphabet() Alphabet { return b.alphabet }

// Counts slides a width-2 window over the runes of text and counts each bigram index.
// pairs is the number of windows, zero for text shorter than two runes.
func (b Builder) Counts(text string) (counts [Slots]int, pairs int) {
	prev := -1
	for _, r := range text {
		cur := b.alphabet.ClassOf(r)
		if prev >= 0 {
			counts[PairIndex(prev, cur)]++
			pairs++
		}
		prev = cur
	}
	return counts, pairs
}

// Build returns the normalized bigram profile of text.
func (b Builder) Build(text string) (Profile, error) {
	counts, pairs := b.Counts(text)
	if pairs == 0 {
		length := 0
		for range text {
			length++
		}
		return Profile{}, &InsufficientInputError{Length: length}
	}

	var p Profile
	total := float64(pairs)
	for i, c := range counts {
		if c != 0 {
			p[i] = float64(c) / total
		}
	}
	return p, nil
}

var latinBuilder = NewBuilder(Latin)

// Counts counts bigrams of text against the Latin alphabet.
func Counts(text string) ([Slots]int, int) {
	return latinBuilder.Counts(text)
}

// Build builds a profile of text against the Latin alphabet.
func Build(text string) (Profile, error) {
	return latinBuilder.Build(text)
}

// FromSlice validates v against the profile contract and copies it into a Profile:
// exactly Slots finite, non-negative values summing to 1 within SumTolerance.
func FromSlice(v []float64) (Profile, error) {
	var p Profile
	if len(v) != Slots {
		return p, fmt.Errorf("profile has %d values, want %d: %w", len(v), Slots, domain.ErrInvalidProfile)
	}
	copy(p[:], v)
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Validate checks that every value is finite and non-negative and that the total is 1.
func (p Profile) Validate() error {
	for i, f := range p {
		if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
			return fmt.Errorf("profile slot %d has value %v: %w", i, f, domain.ErrInvalidProfile)
		}
	}
	if sum := p.Sum(); math.Abs(sum-1) > SumTolerance {
		return fmt.Errorf("profile sums to %v: %w", sum, domain.ErrInvalidProfile)
	}
	return nil
}

// Sum returns the total of all slots.
func (p Profile) Sum() float64 {
	var s float64
	for _, f := range p {
		s += f
	}
	return s
}

// Slice returns a copy of the values as a slice.
func (p Profile) Slice() []float64 {
	out := make([]float64, Slots)
	copy(out, p[:])
	return out
}

// NonZero returns the indices of slots with a non-zero frequency, ascending.
func (p Profile) NonZero() []int {
	var idx []int
	for i, f := range p {
		if f != 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

package fingerprint

import (
	"fmt"
	"sort"

	"github.com/kailas-cloud/langprint/internal/domain/bigram"
)

// Table maps a language tag to its profile. It is the input a classifier needs:
// every value is a normalized vector of bigram.Slots frequencies.
type Table map[string]bigram.Profile

// TableOf collects profiles into a table. A later profile for the same tag wins.
func TableOf(profiles []LanguageProfile) Table {
	t := make(Table, len(profiles))
	for _, p := range profiles {
		t[p.Tag().String()] = p.Profile()
	}
	return t
}

// Tags returns the table keys in sorted order.
func (t Table) Tags() []string {
	tags := make([]string, 0, len(t))
	for tag := range t {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Validate checks every entry against the profile contract.
func (t Table) Validate() error {
	for _, tag := range t.Tags() {
		p := t[tag]
		if err := p.Validate(); err != nil {
			return fmt.Errorf("table entry %q: %w", tag, err)
		}
	}
	return nil
}

// FromVectors validates raw vectors and builds a table from them.
func FromVectors(vectors map[string][]float64) (Table, error) {
	t := make(Table, len(vectors))
	for tag, v := range vectors {
		p, err := bigram.FromSlice(v)
		if err != nil {
			return nil, fmt.Errorf("table entry %q: %w", tag, err)
		}
		t[tag] = p
	}
	return t, nil
}

// Vectors returns the table as plain slices, keyed by tag.
func (t Table) Vectors() map[string][]float64 {
	out := make(map[string][]float64, len(t))
	for tag, p := range t {
		out[tag] = p.Slice()
	}
	return out
}

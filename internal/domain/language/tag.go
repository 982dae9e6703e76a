// Package language holds the language tag attached to profiles by the collection layer.
package language

import (
	"fmt"
	"strings"
	"unicode"

	xlang "golang.org/x/text/language"

	"github.com/kailas-cloud/langprint/internal/domain"
)

// MaxTagLength is the longest accepted tag in bytes.
const MaxTagLength = 35

// Tag is an opaque short identifier of a language or locale, e.g. "en", "nl_NL", "zh-classical".
type Tag struct {
	value string
}

// NewTag trims and validates s. Tags are kept as given otherwise: no case folding,
// no canonicalization, so that a tag read from markup round-trips unchanged.
func NewTag(s string) (Tag, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Tag{}, fmt.Errorf("tag is empty: %w", domain.ErrInvalidTag)
	}
	if len(s) > MaxTagLength {
		return Tag{}, fmt.Errorf("tag %q too long (max %d): %w", s, MaxTagLength, domain.ErrInvalidTag)
	}
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) || r == '/' || r == '*' {
			return Tag{}, fmt.Errorf("tag %q contains %q: %w", s, r, domain.ErrInvalidTag)
		}
	}
	return Tag{value: s}, nil
}

// MustTag is NewTag that panics on error.
func MustTag(s string) Tag {
	t, err := NewTag(s)
	if err != nil {
		panic(err)
	}
	return t
}

// String returns the tag as given.
func (t Tag) String() string { return t.value }

// IsZero reports whether the tag is unset.
func (t Tag) IsZero() bool { return t.value == "" }

// Base returns the lower-cased primary language subtag: "nl_NL" -> "nl", "pt-BR" -> "pt".
// BCP 47 tags are resolved through x/text; anything else falls back to the leading letters.
func (t Tag) Base() string {
	normalized := strings.ReplaceAll(t.value, "_", "-")
	if parsed, err := xlang.Parse(normalized); err == nil {
		if base, conf := parsed.Base(); conf != xlang.No {
			return base.String()
		}
	}

	var b strings.Builder
	for _, r := range strings.ToLower(t.value) {
		if r < 'a' || r > 'z' {
			break
		}
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return strings.ToLower(t.value)
	}
	return b.String()
}

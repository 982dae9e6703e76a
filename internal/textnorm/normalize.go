// Package textnorm prepares extracted text for profiling.
package textnorm

import (
	"fmt"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Mode selects a normalization strategy.
type Mode string

// Supported modes.
const (
	// ModeNFC composes combining sequences so "e"+U+0301 is a single character.
	ModeNFC Mode = "nfc"
	// ModeNFKC additionally folds compatibility forms (ligatures, full-width letters).
	ModeNFKC Mode = "nfkc"
	// ModeFold strips diacritics: "é" -> "e", "ü" -> "u".
	ModeFold Mode = "fold"
	// ModeNone leaves text untouched.
	ModeNone Mode = "none"
)

// Normalizer transforms text before it reaches the profile builder.
type Normalizer func(string) string

// ParseMode validates a mode name. Empty means ModeNFC.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case "":
		return ModeNFC, nil
	case ModeNFC, ModeNFKC, ModeFold, ModeNone:
		return m, nil
	default:
		return "", fmt.Errorf("unknown normalization mode %q", s)
	}
}

// New returns the normalizer for mode. Unknown modes fall back to NFC.
func New(mode Mode) Normalizer {
	switch mode {
	case ModeNone:
		return func(s string) string { return s }
	case ModeNFKC:
		return norm.NFKC.String
	case ModeFold:
		return fold
	default:
		return norm.NFC.String
	}
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return norm.NFC.String(s)
	}
	return out
}

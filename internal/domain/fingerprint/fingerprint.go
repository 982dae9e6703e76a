// Package fingerprint holds the tagged profile aggregate and the tag -> profile table
// consumed by downstream classifiers.
package fingerprint

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/langprint/internal/domain/bigram"
	"github.com/kailas-cloud/langprint/internal/domain/language"
)

// MaxSourceLength caps the provenance string (usually a URL).
const MaxSourceLength = 2048

// LanguageProfile is a profile attached to a language tag (immutable value object).
type LanguageProfile struct {
	tag          language.Tag
	profile      bigram.Profile
	source       string
	sampleLength int
	pairs        int
	runID        string
	createdAt    int64
}

// Sample describes the text a profile was built from.
type Sample struct {
	Source string // URL or free-form label
	Length int    // characters
	RunID  string // collection run, empty for ad-hoc profiles
}

// New validates and creates a LanguageProfile stamped with the current time.
func New(tag language.Tag, profile bigram.Profile, sample Sample) (LanguageProfile, error) {
	if tag.IsZero() {
		return LanguageProfile{}, fmt.Errorf("language tag is required")
	}
	if len(sample.Source) > MaxSourceLength {
		return LanguageProfile{}, fmt.Errorf("source too long (max %d)", MaxSourceLength)
	}
	if sample.Length < 2 {
		return LanguageProfile{}, fmt.Errorf("sample length must be at least 2, got %d", sample.Length)
	}
	if err := profile.Validate(); err != nil {
		return LanguageProfile{}, err
	}

	return LanguageProfile{
		tag:          tag,
		profile:      profile,
		source:       sample.Source,
		sampleLength: sample.Length,
		pairs:        sample.Length - 1,
		runID:        sample.RunID,
		createdAt:    time.Now().UnixMilli(),
	}, nil
}

// Reconstruct creates a LanguageProfile without validation (storage hydration).
func Reconstruct(
	tag language.Tag, profile bigram.Profile,
	source string, sampleLength int, runID string, createdAt int64,
) LanguageProfile {
	return LanguageProfile{
		tag: tag, profile: profile, source: source,
		sampleLength: sampleLength, pairs: sampleLength - 1,
		runID: runID, createdAt: createdAt,
	}
}

// Tag returns the language tag.
func (p LanguageProfile) Tag() language.Tag { return p.tag }

// Profile returns a copy of the frequency vector.
func (p LanguageProfile) Profile() bigram.Profile { return p.profile }

// Source returns where the sample text came from.
func (p LanguageProfile) Source() string { return p.source }

// SampleLength returns the sample length in characters.
func (p LanguageProfile) SampleLength() int { return p.sampleLength }

// Pairs returns the number of bigrams counted.
func (p LanguageProfile) Pairs() int { return p.pairs }

// RunID returns the collection run that produced the profile.
func (p LanguageProfile) RunID() string { return p.runID }

// CreatedAt returns the creation time in unix millis.
func (p LanguageProfile) CreatedAt() int64 { return p.createdAt }

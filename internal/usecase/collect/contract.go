package collect

import (
	"context"

	"github.com/kailas-cloud/langprint/internal/domain/fingerprint"
	"github.com/kailas-cloud/langprint/internal/domain/page"
)

// Fetcher retrieves a document body with its declared content type.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (page.Raw, error)
}

// Extractor turns a fetched page into a page document.
type Extractor interface {
	Extract(raw page.Raw) (page.Document, error)
}

// Profiler builds a tagged profile from text.
type Profiler interface {
	Profile(ctx context.Context, tag, text, source, runID string) (fingerprint.LanguageProfile, error)
}

// Storer persists a collected profile.
type Storer interface {
	Store(ctx context.Context, lp fingerprint.LanguageProfile) (created bool, err error)
}

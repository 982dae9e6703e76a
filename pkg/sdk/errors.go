package langprint

import "github.com/kailas-cloud/langprint/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInsufficientInput = domain.ErrInsufficientInput
	ErrNotFound          = domain.ErrNotFound
	ErrInvalidTag        = domain.ErrInvalidTag
	ErrInvalidProfile    = domain.ErrInvalidProfile
	ErrInvalidAlphabet   = domain.ErrInvalidAlphabet
	ErrUnsupportedFormat = domain.ErrUnsupportedFormat
)

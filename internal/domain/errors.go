package domain

import "errors"

var (
	// ErrInsufficientInput signals text too short to derive a single bigram.
	ErrInsufficientInput = errors.New("insufficient input")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidTag signals a malformed language tag.
	ErrInvalidTag = errors.New("invalid language tag")
	// ErrInvalidProfile signals a vector that violates the profile contract.
	ErrInvalidProfile = errors.New("invalid profile")
	// ErrInvalidAlphabet signals an alphabet that is not 26 distinct letters.
	ErrInvalidAlphabet = errors.New("invalid alphabet")
	// ErrNoText signals a document without extractable body text.
	ErrNoText = errors.New("no text")
	// ErrFetchFailed signals a failed document retrieval.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrMarkup signals a document that could not be parsed or lacks required markup.
	ErrMarkup = errors.New("markup error")
	// ErrUnsupportedFormat signals an unknown interchange format.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

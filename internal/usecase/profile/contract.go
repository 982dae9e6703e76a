package profile

import (
	"context"

	"github.com/kailas-cloud/langprint/internal/domain/fingerprint"
	"github.com/kailas-cloud/langprint/internal/domain/language"
)

// Repository defines the storage contract for language profiles.
type Repository interface {
	Put(ctx context.Context, p fingerprint.LanguageProfile) (created bool, err error)
	Get(ctx context.Context, tag language.Tag) (fingerprint.LanguageProfile, error)
	List(ctx context.Context) ([]fingerprint.LanguageProfile, error)
	Delete(ctx context.Context, tag language.Tag) error
}

package profile

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kailas-cloud/langprint/internal/domain"
	"github.com/kailas-cloud/langprint/internal/domain/bigram"
	"github.com/kailas-cloud/langprint/internal/domain/fingerprint"
	"github.com/kailas-cloud/langprint/internal/domain/language"
	"github.com/kailas-cloud/langprint/internal/metrics"
	"github.com/kailas-cloud/langprint/internal/textnorm"
)

// errNoRepository is returned by storage operations of a service built without a repository.
var errNoRepository = errors.New("profile storage is not configured")

// Built is the outcome of profiling one text.
type Built struct {
	Profile bigram.Profile
	Length  int // characters after normalization
}

// Pairs returns the number of bigrams counted.
func (b Built) Pairs() int { return b.Length - 1 }

// Service builds language profiles and manages the stored table.
type Service struct {
	repo      Repository
	builder   bigram.Builder
	normalize textnorm.Normalizer
	logger    *zap.Logger
}

// New creates a profile service. repo can be nil for build-only use (CLI).
func New(repo Repository, builder bigram.Builder, normalize textnorm.Normalizer, logger *zap.Logger) *Service {
	if normalize == nil {
		normalize = textnorm.New(textnorm.ModeNone)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, builder: builder, normalize: normalize, logger: logger}
}

// Build normalizes text and computes its profile.
func (s *Service) Build(_ context.Context, text string) (Built, error) {
	start := time.Now()
	text = s.normalize(text)
	length := utf8.RuneCountInString(text)

	p, err := s.builder.Build(text)
	metrics.ProfileBuildDuration.Observe(time.Since(start).Seconds())
	metrics.ProfileInputChars.Observe(float64(length))
	if err != nil {
		status := "error"
		if errors.Is(err, domain.ErrInsufficientInput) {
			status = "insufficient_input"
		}
		metrics.ProfileBuildsTotal.WithLabelValues(status).Inc()
		return Built{}, fmt.Errorf("build profile: %w", err)
	}
	metrics.ProfileBuildsTotal.WithLabelValues("ok").Inc()

	return Built{Profile: p, Length: length}, nil
}

// Counts returns raw bigram counts of the normalized text.
func (s *Service) Counts(text string) ([bigram.Slots]int, int) {
	return s.builder.Counts(s.normalize(text))
}

// Alphabet returns the alphabet profiles are built with.
func (s *Service) Alphabet() bigram.Alphabet { return s.builder.Alphabet() }

// Profile builds a tagged profile without storing it.
func (s *Service) Profile(ctx context.Context, tag, text, source, runID string) (fingerprint.LanguageProfile, error) {
	t, err := language.NewTag(tag)
	if err != nil {
		return fingerprint.LanguageProfile{}, err
	}
	built, err := s.Build(ctx, text)
	if err != nil {
		return fingerprint.LanguageProfile{}, err
	}
	lp, err := fingerprint.New(t, built.Profile, fingerprint.Sample{
		Source: source, Length: built.Length, RunID: runID,
	})
	if err != nil {
		return fingerprint.LanguageProfile{}, fmt.Errorf("language profile %q: %w: %w", tag, domain.ErrInvalidProfile, err)
	}
	return lp, nil
}

// Save builds a tagged profile and stores it, replacing any profile for the same tag.
func (s *Service) Save(ctx context.Context, tag, text, source, runID string) (fingerprint.LanguageProfile, bool, error) {
	lp, err := s.Profile(ctx, tag, text, source, runID)
	if err != nil {
		return fingerprint.LanguageProfile{}, false, err
	}
	created, err := s.Store(ctx, lp)
	if err != nil {
		return fingerprint.LanguageProfile{}, false, err
	}
	return lp, created, nil
}

// Store persists an already built profile.
func (s *Service) Store(ctx context.Context, lp fingerprint.LanguageProfile) (bool, error) {
	if s.repo == nil {
		return false, errNoRepository
	}
	created, err := s.repo.Put(ctx, lp)
	if err != nil {
		return false, fmt.Errorf("store profile %q: %w", lp.Tag(), err)
	}

	result := "replaced"
	if created {
		result = "created"
	}
	metrics.ProfilesStored.WithLabelValues(result).Inc()
	s.logger.Debug("Profile stored",
		zap.String("tag", lp.Tag().String()),
		zap.String("source", lp.Source()),
		zap.Int("pairs", lp.Pairs()),
		zap.Bool("created", created),
	)
	return created, nil
}

// Get returns the stored profile for tag.
func (s *Service) Get(ctx context.Context, tag string) (fingerprint.LanguageProfile, error) {
	if s.repo == nil {
		return fingerprint.LanguageProfile{}, errNoRepository
	}
	t, err := language.NewTag(tag)
	if err != nil {
		return fingerprint.LanguageProfile{}, err
	}
	lp, err := s.repo.Get(ctx, t)
	if err != nil {
		return fingerprint.LanguageProfile{}, fmt.Errorf("get profile: %w", err)
	}
	return lp, nil
}

// List returns all stored profiles sorted by tag.
func (s *Service) List(ctx context.Context) ([]fingerprint.LanguageProfile, error) {
	if s.repo == nil {
		return nil, errNoRepository
	}
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return list, nil
}

// Delete removes the stored profile for tag.
func (s *Service) Delete(ctx context.Context, tag string) error {
	if s.repo == nil {
		return errNoRepository
	}
	t, err := language.NewTag(tag)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, t); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

// Table assembles the stored profiles into a validated classifier table.
func (s *Service) Table(ctx context.Context) (fingerprint.Table, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	table := fingerprint.TableOf(list)
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("stored table: %w", err)
	}
	return table, nil
}

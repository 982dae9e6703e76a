package langprint

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kailas-cloud/langprint/internal/domain/bigram"
)

// Build returns the bigram profile of text as given, against the a-z alphabet
// and without normalization. It needs no Client.
func Build(text string) ([]float64, error) {
	p, err := bigram.Build(text)
	if err != nil {
		return nil, err
	}
	return p.Slice(), nil
}

// Profile builds a profile with the client's alphabet and normalization.
func (c *Client) Profile(ctx context.Context, text string) (_ []float64, err error) {
	start := time.Now()
	defer func() { c.obs.observe("profile.build", start, err) }()

	built, err := c.profileSvc.Build(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("build profile: %w", err)
	}
	return built.Profile.Slice(), nil
}

// Save builds the profile of text and stores it under tag, replacing any
// previous profile. created reports whether the tag was new.
func (c *Client) Save(
	ctx context.Context, tag, text, source string,
) (_ LanguageProfile, created bool, err error) {
	start := time.Now()
	defer func() { c.obs.observe("profile.save", start, err, slog.String("tag", tag)) }()

	lp, created, err := c.profileSvc.Save(ctx, tag, text, source, "")
	if err != nil {
		return LanguageProfile{}, false, fmt.Errorf("save profile: %w", err)
	}
	return fromInternalProfile(lp), created, nil
}

// Get returns the stored profile for tag.
func (c *Client) Get(ctx context.Context, tag string) (_ LanguageProfile, err error) {
	start := time.Now()
	defer func() { c.obs.observe("profile.get", start, err, slog.String("tag", tag)) }()

	lp, err := c.profileSvc.Get(ctx, tag)
	if err != nil {
		return LanguageProfile{}, fmt.Errorf("get profile: %w", err)
	}
	return fromInternalProfile(lp), nil
}

// List returns every stored profile sorted by tag.
func (c *Client) List(ctx context.Context) (_ []LanguageProfile, err error) {
	start := time.Now()
	defer func() { c.obs.observe("profile.list", start, err) }()

	list, err := c.profileSvc.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	out := make([]LanguageProfile, len(list))
	for i, lp := range list {
		out[i] = fromInternalProfile(lp)
	}
	return out, nil
}

// Delete removes the stored profile for tag.
func (c *Client) Delete(ctx context.Context, tag string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("profile.delete", start, err, slog.String("tag", tag)) }()

	if err := c.profileSvc.Delete(ctx, tag); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

// Table returns the stored profiles as a classifier table.
func (c *Client) Table(ctx context.Context) (_ Table, err error) {
	start := time.Now()
	defer func() { c.obs.observe("table", start, err) }()

	t, err := c.profileSvc.Table(ctx)
	if err != nil {
		return nil, fmt.Errorf("table: %w", err)
	}
	return fromInternalTable(t), nil
}

// Package profile persists language profiles, one hash per tag.
package profile

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/kailas-cloud/langprint/internal/domain"
	"github.com/kailas-cloud/langprint/internal/domain/fingerprint"
	"github.com/kailas-cloud/langprint/internal/domain/language"
)

// store is the consumer interface for profiles (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	ScanPrefix(ctx context.Context, prefix string) ([]string, error)
}

// Repo implements usecase/profile.Repository.
type Repo struct {
	store  store
	prefix string
}

// New creates a profile repository. keyPrefix namespaces all keys, e.g. "langprint:".
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, prefix: keyPrefix + "profile:"}
}

func (r *Repo) key(tag language.Tag) string {
	return r.prefix + tag.String()
}

// Put stores p under its tag, replacing any previous profile. created reports a new tag.
func (r *Repo) Put(ctx context.Context, p fingerprint.LanguageProfile) (bool, error) {
	key := r.key(p.Tag())
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", p.Tag(), err)
	}
	if err := r.store.HSet(ctx, key, profileToHash(p)); err != nil {
		return false, fmt.Errorf("hset profile %s: %w", p.Tag(), err)
	}
	return !exists, nil
}

// Get retrieves the profile for tag.
func (r *Repo) Get(ctx context.Context, tag language.Tag) (fingerprint.LanguageProfile, error) {
	m, err := r.store.HGetAll(ctx, r.key(tag))
	if err != nil {
		return fingerprint.LanguageProfile{}, fmt.Errorf("hgetall profile %s: %w", tag, err)
	}
	if len(m) == 0 {
		return fingerprint.LanguageProfile{}, domain.ErrNotFound
	}
	p, err := profileFromHash(m)
	if err != nil {
		return fingerprint.LanguageProfile{}, fmt.Errorf("hydrate profile %s: %w", tag, err)
	}
	return p, nil
}

// Delete removes the profile for tag.
func (r *Repo) Delete(ctx context.Context, tag language.Tag) error {
	key := r.key(tag)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", tag, err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del profile %s: %w", tag, err)
	}
	return nil
}

// List returns all stored profiles sorted by tag.
func (r *Repo) List(ctx context.Context) ([]fingerprint.LanguageProfile, error) {
	keys, err := r.store.ScanPrefix(ctx, r.prefix)
	if err != nil {
		return nil, fmt.Errorf("scan profiles: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}
	sort.Strings(keys)
	keys = slices.Compact(keys)

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}

	out := make([]fingerprint.LanguageProfile, 0, len(hashes))
	for i, m := range hashes {
		if len(m) == 0 {
			continue // deleted between SCAN and HGETALL
		}
		p, err := profileFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("hydrate %s: %w", keys[i], err)
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag().String() < out[j].Tag().String() })
	return out, nil
}

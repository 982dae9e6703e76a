package langprint

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/langprint/internal/db"
	dbSQLite "github.com/kailas-cloud/langprint/internal/db/sqlite"
	dbValkey "github.com/kailas-cloud/langprint/internal/db/valkey"
	"github.com/kailas-cloud/langprint/internal/domain/bigram"
	"github.com/kailas-cloud/langprint/internal/domain/fingerprint"
	profilerepo "github.com/kailas-cloud/langprint/internal/repository/profile"
	"github.com/kailas-cloud/langprint/internal/textnorm"
	healthuc "github.com/kailas-cloud/langprint/internal/usecase/health"
	profileuc "github.com/kailas-cloud/langprint/internal/usecase/profile"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "langprint:"
)

// Internal interface so tests can swap the use-case.
type profileUseCase interface {
	Build(ctx context.Context, text string) (profileuc.Built, error)
	Save(ctx context.Context, tag, text, source, runID string) (fingerprint.LanguageProfile, bool, error)
	Get(ctx context.Context, tag string) (fingerprint.LanguageProfile, error)
	List(ctx context.Context) ([]fingerprint.LanguageProfile, error)
	Delete(ctx context.Context, tag string) error
	Table(ctx context.Context) (fingerprint.Table, error)
}

// Client is the langprint SDK entry point.
type Client struct {
	store      db.Store
	profileSvc profileUseCase
	healthSvc  healthUseCase
	obs        *observer
}

// New creates a Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.driver == "" {
		return nil, fmt.Errorf("langprint: no storage configured (use WithValkey, WithRedis or WithSQLite)")
	}

	builder, normalize, err := profileOptions(cfg)
	if err != nil {
		return nil, err
	}

	store, err := createStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("langprint: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}

	prefix := cfg.keyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &Client{
		store:      store,
		profileSvc: profileuc.New(profilerepo.New(store, prefix), builder, normalize, nil),
		healthSvc:  healthuc.New(store),
		obs:        obs,
	}, nil
}

func profileOptions(cfg *clientConfig) (bigram.Builder, textnorm.Normalizer, error) {
	alphabet := bigram.Latin
	if cfg.alphabet != "" {
		a, err := bigram.NewAlphabet(cfg.alphabet)
		if err != nil {
			return bigram.Builder{}, nil, fmt.Errorf("langprint: %w", err)
		}
		alphabet = a
	}
	mode, err := textnorm.ParseMode(cfg.normalization)
	if err != nil {
		return bigram.Builder{}, nil, fmt.Errorf("langprint: %w", err)
	}
	return bigram.NewBuilder(alphabet), textnorm.New(mode), nil
}

func createStore(ctx context.Context, cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		s, err := dbValkey.NewStore(dbValkey.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("langprint: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	case "sqlite":
		s, err := dbSQLite.Open(ctx, dbSQLite.Config{Path: cfg.path})
		if err != nil {
			return nil, fmt.Errorf("langprint: open sqlite store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("langprint: unknown driver %q", cfg.driver)
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

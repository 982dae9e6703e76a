package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/langprint/internal/config"
	"github.com/kailas-cloud/langprint/internal/db"
	dbSQLite "github.com/kailas-cloud/langprint/internal/db/sqlite"
	dbValkey "github.com/kailas-cloud/langprint/internal/db/valkey"
	"github.com/kailas-cloud/langprint/internal/domain/bigram"
	logpkg "github.com/kailas-cloud/langprint/internal/logger"
	profilerepo "github.com/kailas-cloud/langprint/internal/repository/profile"
	"github.com/kailas-cloud/langprint/internal/textnorm"
	profileuc "github.com/kailas-cloud/langprint/internal/usecase/profile"
)

type commandContext struct {
	configFlag *string
	envFlag    *string

	configOnce sync.Once
	config     config.Config
	configErr  error

	loggerOnce sync.Once
	loggerEnv  string
	logger     *zap.Logger
}

func newCommandContext(configFlag, envFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		envFlag:    envFlag,
	}
}

func (c *commandContext) env() string {
	if c.envFlag != nil {
		if env := strings.TrimSpace(*c.envFlag); env != "" {
			return env
		}
	}
	return config.GetEnv()
}

// ensureConfig loads --config when given, else config/<env>.yaml, else built-in defaults.
func (c *commandContext) ensureConfig() (config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		if path != "" {
			c.config, c.configErr = config.LoadFile(path)
			return
		}
		cfg, err := config.Load(c.env())
		if errors.Is(err, fs.ErrNotExist) {
			cfg, err = config.Default(), nil
		}
		c.config, c.configErr = cfg, err
	})
	return c.config, c.configErr
}

// ensureLogger builds the logger once. Commands log in cli mode unless a
// long-running command set loggerEnv first; ENV=prod always wins.
func (c *commandContext) ensureLogger() *zap.Logger {
	c.loggerOnce.Do(func() {
		cfg, _ := c.ensureConfig()
		env := c.loggerEnv
		if c.env() == "prod" {
			env = "prod"
		}
		if env == "" {
			env = "cli"
		}
		l, err := logpkg.NewLogger(env, cfg.Logging.Level)
		if err != nil {
			l = zap.NewNop()
		}
		c.logger = l
	})
	return c.logger
}

// openStore connects to the configured database and waits until it answers.
func (c *commandContext) openStore(ctx context.Context) (db.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	var store db.Store
	switch cfg.Database.Driver {
	case config.DriverValkey, config.DriverRedis:
		store, err = dbValkey.NewStore(dbValkey.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
	case config.DriverSQLite:
		store, err = dbSQLite.Open(ctx, dbSQLite.Config{Path: cfg.Database.Path})
	default:
		err = fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Database.Driver, err)
	}

	timeout := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, timeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	return store, nil
}

// profileService builds the profile service. store may be nil for build-only commands.
func (c *commandContext) profileService(store db.Store) (*profileuc.Service, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	alphabet, err := bigram.NewAlphabet(cfg.Profile.Alphabet)
	if err != nil {
		return nil, err
	}
	mode, err := textnorm.ParseMode(cfg.Profile.Normalization)
	if err != nil {
		return nil, err
	}

	var repo profileuc.Repository
	if store != nil {
		repo = profilerepo.New(store, cfg.Storage.KeyPrefix)
	}
	return profileuc.New(repo, bigram.NewBuilder(alphabet), textnorm.New(mode), c.ensureLogger()), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// Package fetch retrieves reference documents over HTTP.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/langprint/internal/domain"
	"github.com/kailas-cloud/langprint/internal/domain/page"
	logpkg "github.com/kailas-cloud/langprint/internal/logger"
	"github.com/kailas-cloud/langprint/internal/metrics"
)

// Defaults applied when Config leaves a field zero.
const (
	DefaultUserAgent    = "Mozilla/5.0"
	DefaultTimeout      = 30 * time.Second
	DefaultMaxBodyBytes = 8 << 20
)

// Config configures the fetch client.
type Config struct {
	UserAgent    string
	Timeout      time.Duration
	MaxBodyBytes int64
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger used for per-request debug output.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// Client is the explicit fetch capability handed to the collector.
type Client struct {
	http      *http.Client
	userAgent string
	maxBytes  int64
	logger    *zap.Logger
}

// New creates a fetch client.
func New(cfg Config, opts ...Option) *Client {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	c := &Client{
		http:      &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch GETs rawURL and returns the undecoded body with its Content-Type. Non-2xx
// responses, oversized bodies and transport failures wrap domain.ErrFetchFailed.
func (c *Client) Fetch(ctx context.Context, rawURL string) (page.Raw, error) {
	start := time.Now()
	body, contentType, status, err := c.get(ctx, rawURL)
	duration := time.Since(start)

	metrics.FetchDuration.Observe(duration.Seconds())
	metrics.FetchRequestsTotal.WithLabelValues(status).Inc()

	log := logpkg.FromContextOr(ctx, c.logger)
	if err != nil {
		log.Debug("Fetch failed",
			zap.String("url", rawURL),
			zap.String("status", status),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return page.Raw{}, fmt.Errorf("fetch %s: %w: %w", rawURL, domain.ErrFetchFailed, err)
	}

	log.Debug("Fetch completed",
		zap.String("url", rawURL),
		zap.Int("bytes", len(body)),
		zap.String("content_type", contentType),
		zap.Duration("duration", duration),
	)
	return page.Raw{URL: rawURL, ContentType: contentType, Body: body}, nil
}

func (c *Client) get(ctx context.Context, rawURL string) (body []byte, contentType, status string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, "", "invalid", fmt.Errorf("request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", "transport_error", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	status = strconv.Itoa(resp.StatusCode)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, "", status, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	body, err = io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, "", status, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > c.maxBytes {
		return nil, "", "too_large", fmt.Errorf("body exceeds %d bytes", c.maxBytes)
	}
	return body, resp.Header.Get("Content-Type"), status, nil
}

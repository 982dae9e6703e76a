// Package collect runs a collection: it profiles a reference page and every translated
// version of it, one language profile per page.
package collect

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/langprint/internal/domain"
	dombatch "github.com/kailas-cloud/langprint/internal/domain/batch"
	"github.com/kailas-cloud/langprint/internal/domain/fingerprint"
	"github.com/kailas-cloud/langprint/internal/domain/page"
	logpkg "github.com/kailas-cloud/langprint/internal/logger"
	"github.com/kailas-cloud/langprint/internal/metrics"
)

// DefaultWorkers is the number of pages fetched concurrently.
const DefaultWorkers = 4

// Config tunes a collector.
type Config struct {
	Workers int
	Policy  FailurePolicy
}

// Report is the outcome of one collection run. Results follow the input order:
// the seed page first, then the linked pages in document order.
type Report struct {
	RunID   string
	Seed    string
	Results []dombatch.Result
}

// Summary counts the results by status.
func (r Report) Summary() dombatch.Summary { return dombatch.Summarize(r.Results) }

// Table returns the classifier table built from the successful results.
func (r Report) Table() fingerprint.Table {
	return fingerprint.TableOf(dombatch.Profiles(r.Results))
}

// Collector runs collections.
type Collector struct {
	fetcher   Fetcher
	extractor Extractor
	profiler  Profiler
	storer    Storer
	workers   int
	policy    FailurePolicy
	logger    *zap.Logger
}

// New creates a collector. storer can be nil: profiles are then only reported.
func New(f Fetcher, e Extractor, p Profiler, s Storer, cfg Config, logger *zap.Logger) *Collector {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Policy == "" {
		cfg.Policy = Skip
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		fetcher: f, extractor: e, profiler: p, storer: s,
		workers: cfg.Workers, policy: cfg.Policy, logger: logger,
	}
}

// Run collects profiles starting at seedURL.
//
// A seed page that cannot be fetched or parsed fails the run, since it is the only
// source of links. Any other failure is recorded on its item; under Abort the first
// one also cancels the remaining work, marks it skipped, and is returned wrapped.
func (c *Collector) Run(ctx context.Context, seedURL string) (Report, error) {
	start := time.Now()
	report := Report{RunID: uuid.NewString(), Seed: seedURL}
	log := c.logger.With(zap.String("run_id", report.RunID), zap.String("seed", seedURL))
	ctx = logpkg.ContextWithLogger(ctx, log)

	seed, seedErr := c.fetchPage(ctx, seedURL)
	if seedErr != nil && !errors.Is(seedErr, domain.ErrNoText) {
		metrics.CollectRunsTotal.WithLabelValues("error").Inc()
		return report, fmt.Errorf("seed page: %w", seedErr)
	}

	sources := make([]string, 0, len(seed.Links)+1)
	sources = append(sources, seedURL)
	for _, link := range seed.Links {
		if link != seedURL {
			sources = append(sources, link)
		}
	}
	report.Results = make([]dombatch.Result, len(sources))

	if seedErr != nil {
		report.Results[0] = dombatch.NewError(seedURL, seedErr)
	} else {
		report.Results[0] = c.profilePage(ctx, report.RunID, seed)
	}
	log.Info("Collection started", zap.Int("pages", len(sources)), zap.String("policy", string(c.policy)))

	var abortErr error
	if r := report.Results[0]; r.Status() == dombatch.StatusError && c.policy == Abort {
		abortErr = fmt.Errorf("%s: %w", seedURL, r.Err())
		for i := 1; i < len(sources); i++ {
			report.Results[i] = dombatch.NewSkipped(sources[i], fmt.Errorf("run aborted: %w", abortErr))
		}
	} else {
		abortErr = c.collectLinks(ctx, report.RunID, sources, report.Results)
	}

	markDuplicateTags(report.Results)

	if c.storer != nil && abortErr == nil {
		abortErr = c.store(ctx, report.Results)
	}

	summary := report.Summary()
	for _, r := range report.Results {
		metrics.CollectItemsTotal.WithLabelValues(string(r.Status())).Inc()
		if r.Status() != dombatch.StatusOK {
			log.Warn("Page not collected",
				zap.String("source", r.Source()),
				zap.String("status", string(r.Status())),
				zap.Error(r.Err()),
			)
		}
	}

	fields := []zap.Field{
		zap.Int("ok", summary.OK),
		zap.Int("failed", summary.Failed),
		zap.Int("skipped", summary.Skipped),
		zap.Duration("duration", time.Since(start)),
	}

	switch {
	case abortErr != nil:
		metrics.CollectRunsTotal.WithLabelValues("aborted").Inc()
		log.Error("Collection aborted", append(fields, zap.Error(abortErr))...)
		return report, fmt.Errorf("collection aborted: %w", abortErr)
	case ctx.Err() != nil:
		metrics.CollectRunsTotal.WithLabelValues("canceled").Inc()
		log.Warn("Collection canceled", fields...)
		return report, fmt.Errorf("collection canceled: %w", ctx.Err())
	}

	metrics.CollectRunsTotal.WithLabelValues("ok").Inc()
	log.Info("Collection finished", fields...)
	return report, nil
}

// collectLinks profiles sources[1:] with a bounded pool. Each worker writes only its own
// slot of results. It returns the cause of an abort, if one happened.
func (c *Collector) collectLinks(ctx context.Context, runID string, sources []string, results []dombatch.Result) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		abortErr error
	)
	sem := make(chan struct{}, c.workers)

	skipped := func(source string) dombatch.Result {
		mu.Lock()
		defer mu.Unlock()
		if abortErr != nil {
			return dombatch.NewSkipped(source, fmt.Errorf("run aborted: %w", abortErr))
		}
		return dombatch.NewSkipped(source, runCtx.Err())
	}

	for i := 1; i < len(sources); i++ {
		if runCtx.Err() != nil {
			results[i] = skipped(sources[i])
			continue
		}

		select {
		case sem <- struct{}{}:
		case <-runCtx.Done():
			results[i] = skipped(sources[i])
			continue
		}

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			r := c.collectPage(runCtx, runID, sources[i])
			if r.Status() == dombatch.StatusError {
				mu.Lock()
				switch {
				case abortErr != nil:
					r = dombatch.NewSkipped(sources[i], fmt.Errorf("run aborted: %w", abortErr))
				case c.policy == Abort:
					abortErr = fmt.Errorf("%s: %w", sources[i], r.Err())
					cancel()
				}
				mu.Unlock()
			}
			results[i] = r
		}(i)
	}

	wg.Wait()
	return abortErr
}

func (c *Collector) collectPage(ctx context.Context, runID, rawURL string) dombatch.Result {
	doc, err := c.fetchPage(ctx, rawURL)
	if err != nil {
		return dombatch.NewError(rawURL, err)
	}
	return c.profilePage(ctx, runID, doc)
}

func (c *Collector) fetchPage(ctx context.Context, rawURL string) (page.Document, error) {
	raw, err := c.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return page.Document{}, err //nolint:wrapcheck // fetcher errors already name the url
	}
	doc, err := c.extractor.Extract(raw)
	if err != nil {
		return doc, fmt.Errorf("extract: %w", err)
	}
	return doc, nil
}

func (c *Collector) profilePage(ctx context.Context, runID string, doc page.Document) dombatch.Result {
	if doc.Lang == "" {
		return dombatch.NewError(doc.URL, fmt.Errorf("page has no lang attribute: %w", domain.ErrMarkup))
	}
	lp, err := c.profiler.Profile(ctx, doc.Lang, doc.Text, doc.URL, runID)
	if err != nil {
		return dombatch.NewError(doc.URL, err)
	}
	return dombatch.NewOK(doc.URL, lp)
}

// markDuplicateTags keeps the first page per language tag and skips the rest.
func markDuplicateTags(results []dombatch.Result) {
	seen := make(map[string]string, len(results))
	for i, r := range results {
		if r.Status() != dombatch.StatusOK {
			continue
		}
		tag := r.Profile().Tag().String()
		if first, dup := seen[tag]; dup {
			results[i] = dombatch.NewSkipped(r.Source(), fmt.Errorf("tag %q already collected from %s", tag, first))
			continue
		}
		seen[tag] = r.Source()
	}
}

// store persists successful results in order. A storage failure is recorded on its item;
// under Abort it stops the loop and the remaining profiles are marked skipped.
func (c *Collector) store(ctx context.Context, results []dombatch.Result) error {
	for i, r := range results {
		if r.Status() != dombatch.StatusOK {
			continue
		}
		if _, err := c.storer.Store(ctx, r.Profile()); err != nil {
			results[i] = dombatch.NewError(r.Source(), err)
			if c.policy != Abort {
				continue
			}
			cause := fmt.Errorf("%s: %w", r.Source(), err)
			for j := i + 1; j < len(results); j++ {
				if results[j].Status() == dombatch.StatusOK {
					results[j] = dombatch.NewSkipped(results[j].Source(), fmt.Errorf("run aborted: %w", cause))
				}
			}
			return cause
		}
	}
	return nil
}

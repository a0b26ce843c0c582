package scraper

import (
	"context"
	"errors"
	"strings"
	"time"

	"jobmate/internal/domain/job"
	"jobmate/internal/logger"

	"go.uber.org/zap"
)

type Options struct {
	Retries   int
	BaseDelay time.Duration
	Timeout   time.Duration
	// Headless renders pages in Chrome instead of fetching raw HTML.
	Headless bool
	// Sleep replaces the pipeline's wait; tests use it to skip real delays.
	Sleep SleepFunc
}

func DefaultOptions() Options {
	return Options{
		Retries:   DefaultRetries,
		BaseDelay: DefaultBaseDelay,
		Timeout:   DefaultTimeout,
	}
}

// Scraper is the entry point for turning a posting URL into an
// ExtractedJobRecord. It holds configuration only; every call builds its own
// adapter, pipeline and fetcher.
type Scraper struct {
	opts       Options
	newFetcher FetcherFactory
	logger     *zap.Logger
}

func New(opts Options, newFetcher FetcherFactory, log *zap.Logger) *Scraper {
	if newFetcher == nil {
		if opts.Headless {
			newFetcher = func() Fetcher { return NewHeadlessFetcher() }
		} else {
			newFetcher = func() Fetcher { return NewCollyFetcher() }
		}
	}
	return &Scraper{opts: opts, newFetcher: newFetcher, logger: logger.OrNop(log)}
}

// SelectAdapter returns a fresh adapter for the board hosting rawURL.
func (s *Scraper) SelectAdapter(rawURL string) Adapter {
	spec, ok := siteSpecs[SelectSite(rawURL)]
	if !ok {
		spec = siteSpecs[SiteGeneric]
	}
	p := NewPipeline(s.newFetcher(), s.logger,
		WithRetries(s.opts.Retries),
		WithBaseDelay(s.opts.BaseDelay),
		WithTimeout(s.opts.Timeout),
		WithSleep(s.opts.Sleep),
	)
	return newSiteAdapter(spec, p, s.logger)
}

// ScrapeJob fetches and extracts one posting. It fails with an error matching
// ErrFetchFailure when the page could not be fetched, or ErrNoData when the
// page had no title.
func (s *Scraper) ScrapeJob(ctx context.Context, rawURL string) (job.ExtractedJobRecord, error) {
	if s == nil {
		return job.ExtractedJobRecord{}, errors.New("nil scraper")
	}
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return job.ExtractedJobRecord{}, ErrNoData
	}

	start := time.Now()
	a := s.SelectAdapter(rawURL)
	rec, err := a.Scrape(ctx, rawURL)
	if err != nil {
		s.logger.Info("scrape yielded no record",
			zap.String("url", rawURL),
			zap.String("site", string(a.Site())),
			zap.Error(err),
		)
		return job.ExtractedJobRecord{}, err
	}

	s.logger.Info("scrape completed",
		zap.String("url", rawURL),
		zap.String("site", string(a.Site())),
		zap.Int("skills", len(rec.Skills)),
		zap.Duration("took", time.Since(start)),
	)
	return rec, nil
}

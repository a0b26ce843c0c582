package scraper

import (
	"bytes"
	"context"
	"errors"
	"time"

	"jobmate/internal/logger"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

const (
	DefaultRetries   = 3
	DefaultBaseDelay = time.Second
	DefaultTimeout   = 10 * time.Second
)

type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Pipeline fetches and parses one page under a bounded retry budget.
//
// Every attempt is preceded by BaseDelay as a blanket rate limit. After failed
// attempt k (other than the last) it additionally waits BaseDelay*k, so the
// backoff grows linearly. Attempts are strictly sequential.
type Pipeline struct {
	fetcher   Fetcher
	retries   int
	baseDelay time.Duration
	timeout   time.Duration
	sleep     SleepFunc
	logger    *zap.Logger
}

type PipelineOption func(*Pipeline)

func WithRetries(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.retries = n
		}
	}
}

func WithBaseDelay(d time.Duration) PipelineOption {
	return func(p *Pipeline) {
		if d >= 0 {
			p.baseDelay = d
		}
	}
}

func WithTimeout(d time.Duration) PipelineOption {
	return func(p *Pipeline) {
		if d > 0 {
			p.timeout = d
		}
	}
}

func WithSleep(fn SleepFunc) PipelineOption {
	return func(p *Pipeline) {
		if fn != nil {
			p.sleep = fn
		}
	}
}

func NewPipeline(f Fetcher, log *zap.Logger, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		fetcher:   f,
		retries:   DefaultRetries,
		baseDelay: DefaultBaseDelay,
		timeout:   DefaultTimeout,
		sleep:     sleepContext,
		logger:    logger.OrNop(log),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Fetch returns the parsed document or a *FetchError (errors.Is ErrFetchFailure).
func (p *Pipeline) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	if p == nil || p.fetcher == nil {
		return nil, &FetchError{URL: url, Err: errors.New("nil fetcher")}
	}

	var lastErr error
	attempts := 0
	for attempt := 1; attempt <= p.retries; attempt++ {
		if err := p.sleep(ctx, p.baseDelay); err != nil {
			return nil, &FetchError{URL: url, Attempts: attempts, Err: err}
		}

		attempts++
		doc, err := p.attempt(ctx, url)
		if err == nil {
			return doc, nil
		}
		lastErr = err
		p.logger.Warn("fetch attempt failed",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Int("retries", p.retries),
			zap.Error(err),
		)

		if attempt == p.retries {
			break
		}
		if err := p.sleep(ctx, p.baseDelay*time.Duration(attempt)); err != nil {
			return nil, &FetchError{URL: url, Attempts: attempts, Err: err}
		}
	}

	p.logger.Error("fetch exhausted retries", zap.String("url", url), zap.Int("attempts", attempts), zap.Error(lastErr))
	return nil, &FetchError{URL: url, Attempts: attempts, Err: lastErr}
}

func (p *Pipeline) attempt(ctx context.Context, url string) (*goquery.Document, error) {
	resp, err := p.fetcher.Get(ctx, url, p.timeout)
	if err != nil {
		return nil, err
	}
	return parseDocument(resp)
}

// parseDocument decodes the body to UTF-8 (Hebrew boards still ship legacy
// encodings) before handing it to goquery.
func parseDocument(resp Response) (*goquery.Document, error) {
	enc, _, _ := charset.DetermineEncoding(resp.Body, resp.ContentType)
	data, err := enc.NewDecoder().Bytes(resp.Body)
	if err != nil {
		data = resp.Body
	}
	return goquery.NewDocumentFromReader(bytes.NewReader(data))
}

package usecase

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"jobmate/internal/domain/job"
	"jobmate/internal/infrastructure/cache"
	"jobmate/internal/logger"
	"jobmate/internal/scraper"
	"jobmate/internal/ws"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	maxBatchURLs  = 50
	asyncDeadline = 2 * time.Minute
	scrapeLockTTL = time.Minute
)

type JobScraper interface {
	ScrapeJob(ctx context.Context, url string) (job.ExtractedJobRecord, error)
	ScrapeBatch(ctx context.Context, urls []string, workers int, limiter *scraper.HostLimiter) []scraper.BatchResult
}

type ScrapeCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

type ScrapeNotifier interface {
	NotifyScrape(evt ws.ScrapeEvent)
}

type ScrapeResult struct {
	URL    string                  `json:"url"`
	JobID  *uuid.UUID              `json:"job_id,omitempty"`
	Record *job.ExtractedJobRecord `json:"record,omitempty"`
	Cached bool                    `json:"cached"`
	Error  string                  `json:"error,omitempty"`
}

type ScrapeOptions struct {
	Workers int
	HostRPS float64
}

// ScrapeUsecase wraps the scraper with caching, persistence and event
// notification. Every dependency except the scraper is optional.
type ScrapeUsecase struct {
	scraper  JobScraper
	cache    ScrapeCache
	writer   job.RecordWriter
	notifier ScrapeNotifier
	opts     ScrapeOptions
	logger   *zap.Logger

	// concurrent requests for the same posting share one fetch
	inflight singleflight.Group
}

func NewScrapeUsecase(s JobScraper, c ScrapeCache, w job.RecordWriter, n ScrapeNotifier, opts ScrapeOptions, log *zap.Logger) *ScrapeUsecase {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	return &ScrapeUsecase{scraper: s, cache: c, writer: w, notifier: n, opts: opts, logger: logger.OrNop(log)}
}

func validURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", false
	}
	return raw, true
}

// Scrape returns the record for one posting, from cache when possible.
func (u *ScrapeUsecase) Scrape(ctx context.Context, rawURL string) (ScrapeResult, error) {
	target, ok := validURL(rawURL)
	if !ok {
		return ScrapeResult{}, ErrInvalidInput
	}

	key := cache.ScrapeKey(target)
	if u.cache != nil {
		var rec job.ExtractedJobRecord
		found, err := u.cache.GetJSON(ctx, key, &rec)
		if err != nil {
			u.logger.Warn("scrape cache read failed", zap.String("url", target), zap.Error(err))
		}
		if found {
			return ScrapeResult{URL: target, Record: &rec, Cached: true}, nil
		}
	}

	v, err, _ := u.inflight.Do(key, func() (any, error) {
		rec, err := u.scraper.ScrapeJob(ctx, target)
		if err != nil {
			return nil, err
		}
		return u.store(ctx, target, key, rec), nil
	})
	if err != nil {
		return ScrapeResult{}, err
	}
	return v.(ScrapeResult), nil
}

func (u *ScrapeUsecase) store(ctx context.Context, target, key string, rec job.ExtractedJobRecord) ScrapeResult {
	res := ScrapeResult{URL: target, Record: &rec}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, key, rec, 0); err != nil {
			u.logger.Warn("scrape cache write failed", zap.String("url", target), zap.Error(err))
		}
	}

	if u.writer != nil {
		id, err := u.writer.UpsertExtracted(ctx, target, rec)
		if err != nil {
			u.logger.Error("persist scraped job failed", zap.String("url", target), zap.Error(err))
		} else {
			res.JobID = &id
		}
	}
	return res
}

// ScrapeBatch scrapes up to maxBatchURLs postings concurrently. Per-URL
// failures are reported in the result rather than failing the batch.
func (u *ScrapeUsecase) ScrapeBatch(ctx context.Context, rawURLs []string) ([]ScrapeResult, error) {
	if len(rawURLs) == 0 || len(rawURLs) > maxBatchURLs {
		return nil, ErrInvalidInput
	}

	out := make([]ScrapeResult, len(rawURLs))
	targets := make([]string, 0, len(rawURLs))
	index := make([]int, 0, len(rawURLs))
	for i, raw := range rawURLs {
		target, ok := validURL(raw)
		if !ok {
			out[i] = ScrapeResult{URL: raw, Error: ErrInvalidInput.Error()}
			continue
		}
		key := cache.ScrapeKey(target)
		if u.cache != nil {
			var rec job.ExtractedJobRecord
			if found, _ := u.cache.GetJSON(ctx, key, &rec); found {
				out[i] = ScrapeResult{URL: target, Record: &rec, Cached: true}
				continue
			}
		}
		targets = append(targets, target)
		index = append(index, i)
	}

	if len(targets) > 0 {
		results := u.scraper.ScrapeBatch(ctx, targets, u.opts.Workers, scraper.NewHostLimiter(u.opts.HostRPS))
		for j, r := range results {
			i := index[j]
			if r.Err != nil || r.Record == nil {
				out[i] = ScrapeResult{URL: r.URL, Error: scrapeErrorText(r.Err)}
				continue
			}
			out[i] = u.store(ctx, r.URL, cache.ScrapeKey(r.URL), *r.Record)
		}
	}
	return out, nil
}

// ScrapeAsync starts a background scrape and returns its task id at once. The
// outcome is published through the notifier.
func (u *ScrapeUsecase) ScrapeAsync(ctx context.Context, rawURL string) (string, error) {
	target, ok := validURL(rawURL)
	if !ok {
		return "", ErrInvalidInput
	}

	lockKey := cache.ScrapeLockKey(target)
	if u.cache != nil {
		acquired, err := u.cache.SetIfNotExists(ctx, lockKey, "1", scrapeLockTTL)
		if err != nil {
			u.logger.Warn("scrape lock failed", zap.String("url", target), zap.Error(err))
		} else if !acquired {
			return "", ErrScrapeInProgress
		}
	}

	taskID := uuid.NewString()
	go u.runAsync(taskID, target, lockKey)
	return taskID, nil
}

func (u *ScrapeUsecase) runAsync(taskID, target, lockKey string) {
	ctx, cancel := context.WithTimeout(context.Background(), asyncDeadline)
	defer cancel()

	if u.cache != nil {
		defer func() { _ = u.cache.Delete(context.Background(), lockKey) }()
	}

	res, err := u.Scrape(ctx, target)
	evt := ws.ScrapeEvent{TaskID: taskID, URL: target}
	if err != nil {
		evt.Type = ws.EventScrapeFailed
		evt.Error = scrapeErrorText(err)
		u.logger.Info("async scrape failed", zap.String("task_id", taskID), zap.String("url", target), zap.Error(err))
	} else {
		evt.Type = ws.EventScrapeCompleted
		if res.JobID != nil {
			evt.JobID = res.JobID.String()
		}
		if res.Record != nil && res.Record.Title != nil {
			evt.Title = *res.Record.Title
		}
	}
	if u.notifier != nil {
		u.notifier.NotifyScrape(evt)
	}
}

func scrapeErrorText(err error) string {
	switch {
	case err == nil:
		return scraper.ErrNoData.Error()
	case errors.Is(err, scraper.ErrFetchFailure):
		return scraper.ErrFetchFailure.Error()
	case errors.Is(err, scraper.ErrNoData):
		return scraper.ErrNoData.Error()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "scrape cancelled"
	default:
		return ErrInternal.Error()
	}
}

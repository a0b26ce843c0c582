package scraper

import (
	"context"
	"errors"
	"sync"

	"jobmate/internal/domain/job"

	"golang.org/x/time/rate"
)

type Task func(ctx context.Context) error

type TaskResult struct {
	Err error
}

type WorkerPool struct {
	workers int
	tasks   chan Task
	wg      sync.WaitGroup
}

func NewWorkerPool(workers, buffer int) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &WorkerPool{
		workers: workers,
		tasks:   make(chan Task, buffer),
	}
}

func (p *WorkerPool) Submit(t Task) {
	if p == nil || t == nil {
		return
	}
	p.tasks <- t
}

func (p *WorkerPool) Close() {
	if p == nil {
		return
	}
	close(p.tasks)
}

// Run starts the workers. The returned channel closes once the task queue is
// closed and drained, or ctx is done.
func (p *WorkerPool) Run(ctx context.Context) <-chan TaskResult {
	if p == nil {
		out := make(chan TaskResult)
		close(out)
		return out
	}
	out := make(chan TaskResult, p.workers)

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case t, ok := <-p.tasks:
					if !ok {
						return
					}
					if t == nil {
						continue
					}
					err := t(ctx)
					select {
					case <-ctx.Done():
						return
					case out <- TaskResult{Err: err}:
					}
				}
			}
		}()
	}

	go func() {
		p.wg.Wait()
		close(out)
	}()

	return out
}

// HostLimiter spaces out requests to the same host so a batch never hammers
// one board, while different boards proceed in parallel.
type HostLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

// NewHostLimiter allows rps requests per second per host. rps <= 0 disables
// limiting.
func NewHostLimiter(rps float64) *HostLimiter {
	if rps <= 0 {
		return nil
	}
	return &HostLimiter{limit: rate.Limit(rps), burst: 1, limiters: map[string]*rate.Limiter{}}
}

func (h *HostLimiter) Wait(ctx context.Context, rawURL string) error {
	if h == nil {
		return nil
	}
	host := hostOf(rawURL)
	h.mu.Lock()
	l, ok := h.limiters[host]
	if !ok {
		l = rate.NewLimiter(h.limit, h.burst)
		h.limiters[host] = l
	}
	h.mu.Unlock()
	return l.Wait(ctx)
}

type BatchResult struct {
	URL    string                  `json:"url"`
	Record *job.ExtractedJobRecord `json:"record,omitempty"`
	Err    error                   `json:"-"`
}

var errNotRun = errors.New("scrape not started")

// ScrapeBatch scrapes urls concurrently. Results keep the input order; each
// URL gets its own record or error.
func (s *Scraper) ScrapeBatch(ctx context.Context, urls []string, workers int, limiter *HostLimiter) []BatchResult {
	results := make([]BatchResult, len(urls))
	for i, u := range urls {
		results[i] = BatchResult{URL: u, Err: errNotRun}
	}
	if len(urls) == 0 {
		return results
	}

	pool := NewWorkerPool(workers, len(urls))
	out := pool.Run(ctx)
	for i, u := range urls {
		pool.Submit(func(ctx context.Context) error {
			if err := limiter.Wait(ctx, u); err != nil {
				results[i].Err = err
				return err
			}
			rec, err := s.ScrapeJob(ctx, u)
			if err != nil {
				results[i].Err = err
				return err
			}
			results[i] = BatchResult{URL: u, Record: &rec}
			return nil
		})
	}
	pool.Close()
	for range out {
	}

	if err := ctx.Err(); err != nil {
		for i := range results {
			if errors.Is(results[i].Err, errNotRun) {
				results[i].Err = err
			}
		}
	}
	return results
}

package scraper

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/gocolly/colly/v2"
)

// Response is a fetched page before parsing.
type Response struct {
	StatusCode  int
	Body        []byte
	ContentType string
}

// Fetcher issues a single GET. Implementations must return an error for
// non-2xx responses and for timeouts so the pipeline can retry uniformly.
type Fetcher interface {
	Get(ctx context.Context, url string, timeout time.Duration) (Response, error)
}

// FetcherFactory builds a fresh fetcher per scrape so no cookies or session
// state leak between calls.
type FetcherFactory func() Fetcher

func browserHeaders() map[string]string {
	return map[string]string{
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		"Accept-Language":           "en-US,en;q=0.5",
		"DNT":                       "1",
		"Upgrade-Insecure-Requests": "1",
	}
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type CollyFetcher struct {
	userAgent string
	headers   map[string]string
}

func NewCollyFetcher() *CollyFetcher {
	return &CollyFetcher{userAgent: defaultUserAgent, headers: browserHeaders()}
}

func (f *CollyFetcher) Get(ctx context.Context, url string, timeout time.Duration) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	// colly treats 203 and up as failures by default; every response reaches
	// OnResponse here and the status check below decides.
	c := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.ParseHTTPErrorResponse(),
		colly.UserAgent(f.userAgent),
	)
	if timeout > 0 {
		c.SetRequestTimeout(timeout)
	}

	c.OnRequest(func(r *colly.Request) {
		for k, v := range f.headers {
			r.Headers.Set(k, v)
		}
	})

	var out Response
	var reqErr error

	c.OnResponse(func(r *colly.Response) {
		out = Response{
			StatusCode:  r.StatusCode,
			Body:        r.Body,
			ContentType: r.Headers.Get("Content-Type"),
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil && (r.StatusCode < 200 || r.StatusCode >= 300) && r.StatusCode != 0 {
			reqErr = &StatusError{Code: r.StatusCode}
			return
		}
		reqErr = err
	})

	visitErr := c.Visit(url)
	c.Wait()

	if reqErr != nil {
		return Response{}, reqErr
	}
	if visitErr != nil {
		return Response{}, visitErr
	}
	if out.StatusCode < 200 || out.StatusCode >= 300 {
		return Response{}, &StatusError{Code: out.StatusCode}
	}
	return out, nil
}

// HeadlessFetcher renders the page in headless Chrome for boards that build
// their markup client-side.
type HeadlessFetcher struct {
	userAgent string
	settle    time.Duration
}

func NewHeadlessFetcher() *HeadlessFetcher {
	return &HeadlessFetcher{userAgent: defaultUserAgent, settle: 1500 * time.Millisecond}
}

func (f *HeadlessFetcher) Get(ctx context.Context, url string, timeout time.Duration) (Response, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(f.userAgent),
		)...,
	)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	if timeout <= 0 {
		timeout = 25 * time.Second
	}
	reqCtx, reqCancel := context.WithTimeout(browserCtx, timeout)
	defer reqCancel()

	var html string
	err := chromedp.Run(reqCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(f.settle),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return Response{}, err
	}
	if html == "" {
		return Response{}, errors.New("headless: empty document")
	}
	return Response{StatusCode: http.StatusOK, Body: []byte(html), ContentType: "text/html; charset=utf-8"}, nil
}

var (
	_ Fetcher = (*CollyFetcher)(nil)
	_ Fetcher = (*HeadlessFetcher)(nil)
)

package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"jobmate/internal/domain/job"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/text/encoding/charmap"
)

type fetcherFunc func(ctx context.Context, url string, timeout time.Duration) (Response, error)

func (f fetcherFunc) Get(ctx context.Context, url string, timeout time.Duration) (Response, error) {
	return f(ctx, url, timeout)
}

func htmlFetcher(body string) FetcherFactory {
	return func() Fetcher {
		return fetcherFunc(func(context.Context, string, time.Duration) (Response, error) {
			return Response{StatusCode: http.StatusOK, Body: []byte(body), ContentType: "text/html; charset=utf-8"}, nil
		})
	}
}

func noSleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

func testOptions() Options {
	o := DefaultOptions()
	o.Sleep = noSleep
	return o
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}

func TestSelectSite(t *testing.T) {
	cases := []struct {
		url  string
		want Site
	}{
		{"https://www.linkedin.com/jobs/view/123", SiteLinkedIn},
		{"https://il.indeed.com/viewjob?jk=abc", SiteIndeed},
		{"https://www.indeed.co.uk/viewjob?jk=abc", SiteIndeed},
		{"https://www.glassdoor.com/job-listing/x", SiteGlassdoor},
		{"https://www.drushim.co.il/job/1/", SiteDrushim},
		{"https://www.alljobs.co.il/Search/UploadSingle.aspx?JobID=1", SiteAllJobs},
		{"https://careers.example.org/jobs/1", SiteGeneric},
		{"https://example.org/?ref=linkedin.com", SiteGeneric},
		{"::not a url", SiteGeneric},
	}
	for _, tc := range cases {
		if got := SelectSite(tc.url); got != tc.want {
			t.Fatalf("SelectSite(%q)=%s want %s", tc.url, got, tc.want)
		}
	}
}

func TestPipeline_RetriesWithLinearBackoff(t *testing.T) {
	var calls int32
	f := fetcherFunc(func(context.Context, string, time.Duration) (Response, error) {
		atomic.AddInt32(&calls, 1)
		return Response{}, &StatusError{Code: http.StatusServiceUnavailable}
	})

	var sleeps []time.Duration
	base := 10 * time.Millisecond
	p := NewPipeline(f, nil,
		WithRetries(3),
		WithBaseDelay(base),
		WithSleep(func(_ context.Context, d time.Duration) error {
			sleeps = append(sleeps, d)
			return nil
		}),
	)

	doc, err := p.Fetch(context.Background(), "https://example.org/job")
	if doc != nil {
		t.Fatalf("expected nil document")
	}
	if !errors.Is(err, ErrFetchFailure) {
		t.Fatalf("expected ErrFetchFailure, got %v", err)
	}
	var fe *FetchError
	if !errors.As(err, &fe) || fe.Attempts != 3 {
		t.Fatalf("expected FetchError with 3 attempts, got %#v", err)
	}
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected wrapped status error, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected 3 fetches, got %d", got)
	}

	want := []time.Duration{base, base, base, 2 * base, base}
	if !reflect.DeepEqual(sleeps, want) {
		t.Fatalf("sleeps=%v want %v", sleeps, want)
	}
}

func TestPipeline_SucceedsAfterTransientFailure(t *testing.T) {
	var calls int32
	f := fetcherFunc(func(context.Context, string, time.Duration) (Response, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return Response{}, errors.New("connection reset")
		}
		return Response{StatusCode: 200, Body: []byte(`<html><body><h1>Ok</h1></body></html>`)}, nil
	})
	p := NewPipeline(f, nil, WithSleep(noSleep))

	doc, err := p.Fetch(context.Background(), "https://example.org/job")
	if err != nil {
		t.Fatalf("fetch error: %v", err)
	}
	if got := strings.TrimSpace(doc.Find("h1").Text()); got != "Ok" {
		t.Fatalf("unexpected h1 %q", got)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected 2 fetches, got %d", got)
	}
}

func TestPipeline_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int32
	f := fetcherFunc(func(context.Context, string, time.Duration) (Response, error) {
		atomic.AddInt32(&calls, 1)
		return Response{}, errors.New("unreachable")
	})
	p := NewPipeline(f, nil, WithSleep(noSleep))

	_, err := p.Fetch(ctx, "https://example.org/job")
	if !errors.Is(err, ErrFetchFailure) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancelled fetch failure, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("expected no fetch after cancel")
	}
}

func TestPipeline_DecodesLegacyCharset(t *testing.T) {
	title := "מפתח תוכנה"
	encoded, err := charmap.Windows1255.NewEncoder().String(`<html><body><h1>` + title + `</h1></body></html>`)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	f := fetcherFunc(func(context.Context, string, time.Duration) (Response, error) {
		return Response{StatusCode: 200, Body: []byte(encoded), ContentType: "text/html; charset=windows-1255"}, nil
	})
	p := NewPipeline(f, nil, WithSleep(noSleep))

	doc, err := p.Fetch(context.Background(), "https://www.drushim.co.il/job/1/")
	if err != nil {
		t.Fatalf("fetch error: %v", err)
	}
	if got := strings.TrimSpace(doc.Find("h1").Text()); got != title {
		t.Fatalf("got %q want %q", got, title)
	}
}

const linkedInPage = `<html><body>
<h1 class="top-card-layout__title">Senior Backend Engineer</h1>
<a class="topcard__org-name-link" href="/company/acme">Acme Ltd</a>
<span class="topcard__flavor job-location">Tel Aviv</span>
<div class="show-more-less-html__markup">
  We use Python, Docker and PostgreSQL. Remote friendly.
  Salary ₪25,000 - ₪30,000.
</div>
</body></html>`

func TestCollyFetcher_StatusCodes(t *testing.T) {
	cases := []struct {
		status int
		ok     bool
	}{
		{http.StatusOK, true},
		{http.StatusNonAuthoritativeInfo, true},
		{http.StatusPartialContent, true},
		{http.StatusNotFound, false},
		{http.StatusInternalServerError, false},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(linkedInPage))
			}))
			defer server.Close()

			resp, err := NewCollyFetcher().Get(context.Background(), server.URL, 5*time.Second)
			if !tc.ok {
				var se *StatusError
				if !errors.As(err, &se) || se.Code != tc.status {
					t.Fatalf("expected StatusError %d, got %v", tc.status, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("get error: %v", err)
			}
			if resp.StatusCode != tc.status || !strings.Contains(string(resp.Body), "Senior Backend Engineer") {
				t.Fatalf("unexpected response %d %q", resp.StatusCode, resp.Body)
			}
		})
	}
}

func TestScrapeJob_CollyFetcherAgainstServer(t *testing.T) {
	var hits int32
	mux := http.NewServeMux()
	mux.HandleFunc("/jobs/view/1", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		if r.Header.Get("Accept-Language") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(linkedInPage))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	s := New(testOptions(), nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rec, err := s.ScrapeJob(ctx, server.URL+"/jobs/view/1")
	if err != nil {
		t.Fatalf("scrape error: %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Fatalf("expected 2 requests, got %d", got)
	}
	if deref(rec.Title) != "Senior Backend Engineer" {
		t.Fatalf("unexpected title %q", deref(rec.Title))
	}
	if deref(rec.Company) != "Acme Ltd" {
		t.Fatalf("unexpected company %q", deref(rec.Company))
	}
	if deref(rec.Location) != "Tel Aviv" {
		t.Fatalf("unexpected location %q", deref(rec.Location))
	}
	if rec.WorkMode != job.WorkModeRemote {
		t.Fatalf("expected remote, got %s", rec.WorkMode)
	}
	if rec.JobType != job.JobTypeFullTime {
		t.Fatalf("expected full_time, got %s", rec.JobType)
	}
	if want := []string{"Python", "PostgreSQL", "Docker"}; !reflect.DeepEqual(rec.Skills, want) {
		t.Fatalf("skills=%v want %v", rec.Skills, want)
	}
	if rec.SalaryMin == nil || *rec.SalaryMin != 25000 || rec.SalaryMax == nil || *rec.SalaryMax != 30000 {
		t.Fatalf("unexpected salary %v-%v", rec.SalaryMin, rec.SalaryMax)
	}
	if rec.SalaryCurrency != "ILS" {
		t.Fatalf("unexpected currency %q", rec.SalaryCurrency)
	}
}

func TestScrapeJob_FetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	s := New(testOptions(), nil, nil)
	_, err := s.ScrapeJob(context.Background(), server.URL+"/gone")
	if !errors.Is(err, ErrFetchFailure) {
		t.Fatalf("expected ErrFetchFailure, got %v", err)
	}
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusNotFound {
		t.Fatalf("expected 404 status error, got %v", err)
	}
}

func TestScrapeJob_SiteSpecificSelectors(t *testing.T) {
	cases := []struct {
		name     string
		url      string
		page     string
		site     Site
		title    string
		company  string
		location string
		skills   []string
		mode     job.WorkMode
		jobType  job.JobType
		min, max int
		currency string
	}{
		{
			name: "indeed",
			url:  "https://il.indeed.com/viewjob?jk=1",
			page: `<html><body>
				<h1 class="jobsearch-JobInfoHeader-title">Data Engineer</h1>
				<div data-company-name="true">Globex</div>
				<div data-testid="job-location">Haifa</div>
				<div data-testid="job-salary">₪15,000 - ₪20,000 a month</div>
				<div data-testid="job-type">Part-time</div>
				<div id="jobDescriptionText">Build pipelines with Python and SQL on AWS.</div>
			</body></html>`,
			site: SiteIndeed, title: "Data Engineer", company: "Globex", location: "Haifa",
			skills: []string{"Python", "SQL", "AWS"}, mode: job.WorkModeOnsite, jobType: job.JobTypePartTime,
			min: 15000, max: 20000, currency: "ILS",
		},
		{
			name: "glassdoor",
			url:  "https://www.glassdoor.com/job-listing/qa-lead",
			page: `<html><body>
				<div data-test="job-title">QA Lead</div>
				<div data-test="employer-name">Initech</div>
				<div data-test="location">Remote</div>
				<span data-test="detailSalary">$80,000 to $100,000</span>
				<div class="jobDescriptionContent">Selenium and Java on a contract basis.</div>
			</body></html>`,
			site: SiteGlassdoor, title: "QA Lead", company: "Initech", location: "Remote",
			skills: []string{"Java"}, mode: job.WorkModeRemote, jobType: job.JobTypeContract,
			min: 80000, max: 100000, currency: "USD",
		},
		{
			name: "drushim",
			url:  "https://www.drushim.co.il/job/123/",
			page: `<html><body>
				<h1 class="job-title">מפתח/ת Full Stack</h1>
				<span class="company-name">Wix</span>
				<span class="area">מרכז</span>
				<div class="job-description">React, Node.js, hybrid</div>
			</body></html>`,
			site: SiteDrushim, title: "מפתח/ת Full Stack", company: "Wix", location: "מרכז",
			skills: []string{"React", "Node.js"}, mode: job.WorkModeHybrid, jobType: job.JobTypeFullTime,
		},
		{
			name: "alljobs",
			url:  "https://www.alljobs.co.il/Search/UploadSingle.aspx?JobID=9",
			page: `<html><body>
				<h1>Project Manager</h1>
				<div class="company">Elbit</div>
				<div class="job-content-top">Agile and Scrum ceremonies</div>
				<p>Posted 3 days ago. Job #48213</p>
			</body></html>`,
			site: SiteAllJobs, title: "Project Manager", company: "Elbit",
			skills: []string{"Agile", "Scrum"}, mode: job.WorkModeOnsite, jobType: job.JobTypeFullTime,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := New(testOptions(), htmlFetcher(tc.page), nil)
			if got := s.SelectAdapter(tc.url).Site(); got != tc.site {
				t.Fatalf("adapter site=%s want %s", got, tc.site)
			}

			rec, err := s.ScrapeJob(context.Background(), tc.url)
			if err != nil {
				t.Fatalf("scrape error: %v", err)
			}
			if deref(rec.Title) != tc.title {
				t.Fatalf("title=%q want %q", deref(rec.Title), tc.title)
			}
			if deref(rec.Company) != tc.company {
				t.Fatalf("company=%q want %q", deref(rec.Company), tc.company)
			}
			if tc.location == "" {
				if rec.Location != nil {
					t.Fatalf("expected unset location, got %q", *rec.Location)
				}
			} else if deref(rec.Location) != tc.location {
				t.Fatalf("location=%q want %q", deref(rec.Location), tc.location)
			}
			if !reflect.DeepEqual(rec.Skills, tc.skills) {
				t.Fatalf("skills=%v want %v", rec.Skills, tc.skills)
			}
			if rec.WorkMode != tc.mode {
				t.Fatalf("work mode=%s want %s", rec.WorkMode, tc.mode)
			}
			if rec.JobType != tc.jobType {
				t.Fatalf("job type=%s want %s", rec.JobType, tc.jobType)
			}
			if tc.currency == "" {
				if rec.SalaryMin != nil || rec.SalaryMax != nil || rec.SalaryCurrency != "" {
					t.Fatalf("expected no salary, got %v-%v %q", rec.SalaryMin, rec.SalaryMax, rec.SalaryCurrency)
				}
				return
			}
			if rec.SalaryMin == nil || *rec.SalaryMin != tc.min || rec.SalaryMax == nil || *rec.SalaryMax != tc.max {
				t.Fatalf("salary=%v-%v want %d-%d", rec.SalaryMin, rec.SalaryMax, tc.min, tc.max)
			}
			if rec.SalaryCurrency != tc.currency {
				t.Fatalf("currency=%q want %q", rec.SalaryCurrency, tc.currency)
			}
		})
	}
}

func TestScrapeJob_FallsBackToFirstHeading(t *testing.T) {
	page := `<html><body><h1>Plain Title</h1><p>No other structure here.</p></body></html>`
	s := New(testOptions(), htmlFetcher(page), nil)

	rec, err := s.ScrapeJob(context.Background(), "https://il.indeed.com/viewjob?jk=2")
	if err != nil {
		t.Fatalf("scrape error: %v", err)
	}
	if deref(rec.Title) != "Plain Title" {
		t.Fatalf("unexpected title %q", deref(rec.Title))
	}
	if rec.Company != nil || rec.Description != nil || rec.Location != nil {
		t.Fatalf("expected missing fields to stay unset")
	}
	if rec.Skills == nil || len(rec.Skills) != 0 {
		t.Fatalf("expected empty skills, got %v", rec.Skills)
	}
}

func TestScrapeJob_NoTitleIsNoData(t *testing.T) {
	page := `<html><body><div class="description">Python role</div></body></html>`
	s := New(testOptions(), htmlFetcher(page), nil)

	_, err := s.ScrapeJob(context.Background(), "https://careers.example.org/jobs/1")
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestScrapeJob_AdapterPerCall(t *testing.T) {
	var built int32
	factory := func() Fetcher {
		atomic.AddInt32(&built, 1)
		return htmlFetcher(`<html><body><h1>T</h1></body></html>`)()
	}
	s := New(testOptions(), factory, nil)

	for i := 0; i < 3; i++ {
		if _, err := s.ScrapeJob(context.Background(), "https://www.linkedin.com/jobs/view/1"); err != nil {
			t.Fatalf("scrape error: %v", err)
		}
	}
	if got := atomic.LoadInt32(&built); got != 3 {
		t.Fatalf("expected a fetcher per call, got %d", got)
	}
}

func TestSiteAdapter_FieldFailureIsIsolated(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	a := newSiteAdapter(siteSpecs[SiteGeneric], nil, zap.New(core))

	var after bool
	a.field("company", func() error { panic("boom") })
	a.field("location", func() error { return errors.New("bad markup") })
	a.field("title", func() error { after = true; return nil })

	if !after {
		t.Fatalf("expected later fields to run")
	}
	entries := logs.FilterMessage("field extraction failed").All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 logged failures, got %d", len(entries))
	}
	if !strings.Contains(fmt.Sprint(entries[0].ContextMap()["error"]), "company") {
		t.Fatalf("expected field name in log, got %v", entries[0].ContextMap())
	}
}

func TestScrapeBatch_KeepsOrderAndPerURLErrors(t *testing.T) {
	pages := map[string]string{
		"https://www.linkedin.com/jobs/view/1": `<html><body><h1>First</h1></body></html>`,
		"https://www.linkedin.com/jobs/view/2": `<html><body><p>untitled</p></body></html>`,
		"https://il.indeed.com/viewjob?jk=3":   `<html><body><h1>Third</h1></body></html>`,
	}
	var mu sync.Mutex
	seen := map[string]int{}
	factory := func() Fetcher {
		return fetcherFunc(func(_ context.Context, url string, _ time.Duration) (Response, error) {
			mu.Lock()
			seen[url]++
			mu.Unlock()
			return Response{StatusCode: 200, Body: []byte(pages[url])}, nil
		})
	}
	s := New(testOptions(), factory, nil)

	urls := []string{
		"https://www.linkedin.com/jobs/view/1",
		"https://www.linkedin.com/jobs/view/2",
		"https://il.indeed.com/viewjob?jk=3",
	}
	results := s.ScrapeBatch(context.Background(), urls, 2, NewHostLimiter(1000))
	if len(results) != len(urls) {
		t.Fatalf("expected %d results, got %d", len(urls), len(results))
	}
	for i, r := range results {
		if r.URL != urls[i] {
			t.Fatalf("result %d url=%s want %s", i, r.URL, urls[i])
		}
	}
	if results[0].Err != nil || deref(results[0].Record.Title) != "First" {
		t.Fatalf("unexpected first result %+v", results[0])
	}
	if !errors.Is(results[1].Err, ErrNoData) || results[1].Record != nil {
		t.Fatalf("expected ErrNoData for second, got %+v", results[1])
	}
	if results[2].Err != nil || deref(results[2].Record.Title) != "Third" {
		t.Fatalf("unexpected third result %+v", results[2])
	}
	for _, u := range urls {
		if seen[u] != 1 {
			t.Fatalf("expected one fetch for %s, got %d", u, seen[u])
		}
	}
}

func TestScrapeBatch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(testOptions(), htmlFetcher(`<html><body><h1>T</h1></body></html>`), nil)
	results := s.ScrapeBatch(ctx, []string{"https://www.linkedin.com/jobs/view/1"}, 1, nil)
	if len(results) != 1 || results[0].Err == nil {
		t.Fatalf("expected error for cancelled batch, got %+v", results)
	}
}

func TestHostLimiter_NilIsNoop(t *testing.T) {
	var h *HostLimiter
	if err := h.Wait(context.Background(), "https://example.org"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if NewHostLimiter(0) != nil {
		t.Fatalf("expected nil limiter for rps=0")
	}
}

package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobmate/internal/app"
	"jobmate/internal/config"
	"jobmate/internal/domain/matching"
	"jobmate/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type semanticResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

const postingPage = `<html><body>
<h1 class="top-card-layout__title">Platform Engineer</h1>
<a class="topcard__org-name-link" href="/company/acme">Acme</a>
<span class="topcard__flavor job-location">Haifa</span>
<div class="show-more-less-html__markup">
  Hybrid role. We run Go and Kubernetes on AWS. Part-time possible.
</div>
</body></html>`

func testConfig() config.Config {
	return config.Config{
		App: config.AppConfig{AppName: "jobmate-test", Environment: "test", HTTPPort: "0"},
		Scraper: config.ScraperConfig{
			Retries:   2,
			BaseDelay: 0,
			Timeout:   5 * time.Second,
			Workers:   2,
		},
		Resume: config.ResumeConfig{MaxBytes: 1 << 20},
	}
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	c, err := app.NewContainer(testConfig(), nil)
	if err != nil {
		t.Fatalf("container: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	a, _, err := app.Bootstrap(c)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	return a.Fiber
}

func call(t *testing.T, a *fiber.App, method, path string, body any) semanticResponse {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.Test(req, fiber.TestConfig{Timeout: 15 * time.Second})
	if err != nil {
		t.Fatalf("%s %s request error: %v", method, path, err)
	}
	defer resp.Body.Close()

	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatalf("%s %s: missing request id", method, path)
	}

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		t.Fatalf("%s %s decode error: %v", method, path, err)
	}
	return sr
}

func TestIntegration_ScrapeThenMatch(t *testing.T) {
	board := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/jobs/view/7" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(postingPage))
	}))
	defer board.Close()

	a := newTestApp(t)

	sr := call(t, a, "POST", "/api/v1/scrape", map[string]string{"url": board.URL + "/jobs/view/7"})
	if sr.Status != fiber.StatusOK {
		t.Fatalf("scrape: expected 200, got %d (%s)", sr.Status, sr.Message)
	}
	var scraped usecase.ScrapeResult
	if err := json.Unmarshal(sr.Data, &scraped); err != nil {
		t.Fatalf("scrape: data unmarshal: %v", err)
	}
	rec := scraped.Record
	if rec == nil || rec.Title == nil || *rec.Title != "Platform Engineer" {
		t.Fatalf("scrape: unexpected record %s", sr.Data)
	}
	if rec.WorkMode != "hybrid" || rec.JobType != "part_time" {
		t.Fatalf("scrape: unexpected mode/type %s/%s", rec.WorkMode, rec.JobType)
	}
	if scraped.JobID != nil {
		t.Fatalf("scrape: no job id expected without a database")
	}

	sr = call(t, a, "POST", "/api/v1/match", usecase.MatchInput{
		Skills:         []string{"Go", "Kubernetes", "Terraform"},
		TargetRole:     "Platform Engineer",
		JobTitle:       *rec.Title,
		JobDescription: *rec.Description,
	})
	if sr.Status != fiber.StatusOK {
		t.Fatalf("match: expected 200, got %d", sr.Status)
	}
	var res matching.Result
	if err := json.Unmarshal(sr.Data, &res); err != nil {
		t.Fatalf("match: data unmarshal: %v", err)
	}
	if len(res.MatchedSkills) != 2 || len(res.MissingSkills) != 1 {
		t.Fatalf("match: unexpected partition %+v", res)
	}
	if res.Score < 33.33 || res.Score > 100 {
		t.Fatalf("match: score %v below the exact-overlap share", res.Score)
	}
}

func TestIntegration_NoDataAndPersistenceOff(t *testing.T) {
	board := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer board.Close()

	a := newTestApp(t)

	sr := call(t, a, "POST", "/api/v1/scrape", map[string]string{"url": board.URL + "/jobs/view/404"})
	if sr.Status != fiber.StatusUnprocessableEntity || sr.Message != "no data available" {
		t.Fatalf("scrape: expected 422 no data available, got %d %q", sr.Status, sr.Message)
	}

	path := "/api/v1/users/" + uuid.NewString() + "/jobs/" + uuid.NewString() + "/match"
	sr = call(t, a, "GET", path, nil)
	if sr.Status != fiber.StatusServiceUnavailable {
		t.Fatalf("stored match: expected 503, got %d", sr.Status)
	}

	sr = call(t, a, "GET", "/health", nil)
	if sr.Status != fiber.StatusOK {
		t.Fatalf("health: expected 200, got %d", sr.Status)
	}
}

func TestIntegration_AsyncScrapeAccepted(t *testing.T) {
	a := newTestApp(t)

	sr := call(t, a, "POST", "/api/v1/scrape/async", map[string]string{"url": "mailto:someone"})
	if sr.Status != fiber.StatusBadRequest {
		t.Fatalf("async: expected 400 for non-http url, got %d", sr.Status)
	}
}

package scraper

import (
	"context"
	"fmt"
	"strings"

	"jobmate/internal/domain/job"
	"jobmate/internal/lexicon"
	"jobmate/internal/logger"
	"jobmate/internal/salary"
	"jobmate/internal/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// Adapter scrapes one posting from one board. Adapters are built per call and
// must not be reused.
type Adapter interface {
	Site() Site
	Scrape(ctx context.Context, url string) (job.ExtractedJobRecord, error)
}

type siteAdapter struct {
	spec     siteSpec
	pipeline *Pipeline
	logger   *zap.Logger
}

func newSiteAdapter(spec siteSpec, p *Pipeline, log *zap.Logger) *siteAdapter {
	return &siteAdapter{spec: spec, pipeline: p, logger: logger.OrNop(log).With(zap.String("site", string(spec.site)))}
}

func (a *siteAdapter) Site() Site { return a.spec.site }

func (a *siteAdapter) Scrape(ctx context.Context, url string) (rec job.ExtractedJobRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("adapter panic", zap.String("url", url), zap.Any("panic", r))
			rec, err = job.ExtractedJobRecord{}, ErrNoData
		}
	}()

	doc, err := a.pipeline.Fetch(ctx, url)
	if err != nil {
		return job.ExtractedJobRecord{}, err
	}
	rec = a.extract(doc)
	if !rec.HasTitle() {
		return job.ExtractedJobRecord{}, ErrNoData
	}
	return rec, nil
}

// extract fills a fresh record field by field. A failing field is logged and
// left unset; it never stops the remaining fields.
func (a *siteAdapter) extract(doc *goquery.Document) job.ExtractedJobRecord {
	rec := job.NewExtractedJobRecord()
	pageText := strings.ToLower(textutil.CleanText(doc.Find("body").Text()))
	if pageText == "" {
		pageText = strings.ToLower(textutil.CleanText(doc.Text()))
	}

	a.field("title", func() error {
		rec.Title = textutil.StringPtr(firstText(doc.Selection, a.spec.title))
		return nil
	})
	a.field("company", func() error {
		rec.Company = textutil.StringPtr(firstText(doc.Selection, a.spec.company))
		return nil
	})
	a.field("location", func() error {
		rec.Location = textutil.StringPtr(firstText(doc.Selection, a.spec.location))
		return nil
	})
	a.field("description", func() error {
		rec.Description = textutil.StringPtr(firstText(doc.Selection, a.spec.description))
		return nil
	})
	a.field("salary", func() error {
		var src string
		switch a.spec.salaryFrom {
		case salaryElement:
			src = firstText(doc.Selection, a.spec.salary)
		case salaryPageText:
			src = pageText
		default:
			return nil
		}
		r := salary.Extract(src)
		if !r.Found() {
			return nil
		}
		rec.SalaryMin, rec.SalaryMax, rec.SalaryCurrency = r.Min, r.Max, r.Currency
		return nil
	})
	a.field("work_mode", func() error {
		rec.WorkMode = inferWorkMode(pageText)
		return nil
	})
	a.field("job_type", func() error {
		if el := strings.ToLower(firstText(doc.Selection, a.spec.jobType)); el != "" {
			rec.JobType = jobTypeFromLabel(el)
			return nil
		}
		rec.JobType = inferJobType(pageText)
		return nil
	})
	a.field("skills", func() error {
		if rec.Description == nil {
			return nil
		}
		rec.Skills = lexicon.MatchJobSkills(*rec.Description)
		return nil
	})

	return rec
}

func (a *siteAdapter) field(name string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			a.logExtraction(name, fmt.Errorf("panic: %v", r))
		}
	}()
	if err := fn(); err != nil {
		a.logExtraction(name, err)
	}
}

func (a *siteAdapter) logExtraction(field string, err error) {
	a.logger.Warn("field extraction failed", zap.Error(&ExtractionError{Site: a.spec.site, Field: field, Err: err}))
}

func inferWorkMode(lowerText string) job.WorkMode {
	switch {
	case strings.Contains(lowerText, "remote"):
		return job.WorkModeRemote
	case strings.Contains(lowerText, "hybrid"):
		return job.WorkModeHybrid
	default:
		return job.WorkModeOnsite
	}
}

func inferJobType(lowerText string) job.JobType {
	switch {
	case strings.Contains(lowerText, "part-time"), strings.Contains(lowerText, "part time"):
		return job.JobTypePartTime
	case strings.Contains(lowerText, "contract"):
		return job.JobTypeContract
	default:
		return job.JobTypeFullTime
	}
}

// jobTypeFromLabel reads a board's own employment-type label.
func jobTypeFromLabel(lowerLabel string) job.JobType {
	switch {
	case strings.Contains(lowerLabel, "part"):
		return job.JobTypePartTime
	case strings.Contains(lowerLabel, "contract"):
		return job.JobTypeContract
	default:
		return job.JobTypeFullTime
	}
}

// firstText returns the cleaned text of the first element hit by the first
// locator that hits anything.
func firstText(root *goquery.Selection, locs []locator) string {
	for _, l := range locs {
		sel := l.find(root)
		if sel.Length() == 0 {
			continue
		}
		return textutil.CleanText(sel.First().Text())
	}
	return ""
}

func (l locator) find(root *goquery.Selection) *goquery.Selection {
	if l.css != "" {
		return root.Find(l.css).First()
	}
	return root.Find(l.tag).FilterFunction(func(_ int, s *goquery.Selection) bool {
		if l.class != nil {
			return anyClassMatches(s, l)
		}
		if l.id != nil {
			id, ok := s.Attr("id")
			return ok && l.id.MatchString(id)
		}
		return true
	}).First()
}

func anyClassMatches(s *goquery.Selection, l locator) bool {
	class, ok := s.Attr("class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(class) {
		if l.class.MatchString(c) {
			return true
		}
	}
	return false
}

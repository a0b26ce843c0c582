package scraper

import (
	"net/url"
	"regexp"
	"strings"
)

type Site string

const (
	SiteLinkedIn  Site = "linkedin"
	SiteIndeed    Site = "indeed"
	SiteGlassdoor Site = "glassdoor"
	SiteDrushim   Site = "drushim"
	SiteAllJobs   Site = "alljobs"
	SiteGeneric   Site = "generic"
)

// hostTable is consulted in order; the first substring hit wins.
var hostTable = []struct {
	fragment string
	site     Site
}{
	{"linkedin.com", SiteLinkedIn},
	{"indeed.com", SiteIndeed},
	{"indeed.co", SiteIndeed},
	{"glassdoor.com", SiteGlassdoor},
	{"drushim.co.il", SiteDrushim},
	{"alljobs.co.il", SiteAllJobs},
}

// SelectSite maps a posting URL to its board. Unknown or unparsable hosts fall
// back to SiteGeneric.
func SelectSite(rawURL string) Site {
	host := hostOf(rawURL)
	if host == "" {
		return SiteGeneric
	}
	for _, h := range hostTable {
		if strings.Contains(host, h.fragment) {
			return h.site
		}
	}
	return SiteGeneric
}

func hostOf(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// locator is either a CSS selector, or a tag constrained by a regex over one
// of its class tokens or its id.
type locator struct {
	css   string
	tag   string
	class *regexp.Regexp
	id    *regexp.Regexp
}

func css(sel string) locator { return locator{css: sel} }

func tag(name string) locator { return locator{tag: name} }

func tagClass(name, pattern string) locator {
	return locator{tag: name, class: regexp.MustCompile(pattern)}
}

func tagID(name, pattern string) locator {
	return locator{tag: name, id: regexp.MustCompile(pattern)}
}

// siteSpec is the selector table for one board. Each field lists locators in
// priority order: site-specific first, generic last.
type siteSpec struct {
	site        Site
	title       []locator
	company     []locator
	location    []locator
	description []locator
	salary      []locator
	salaryFrom  salarySource
	jobType     []locator
}

// salarySource says where a board's salary figures come from.
type salarySource int

const (
	// salaryNone leaves the salary unset.
	salaryNone salarySource = iota
	salaryElement
	// salaryPageText scans the whole lowercased page.
	salaryPageText
)

var linkedInSpec = siteSpec{
	site:        SiteLinkedIn,
	title:       []locator{tagClass("h1", `job.*title|top-card.*title`), tag("h1")},
	company:     []locator{tagClass("a", `company.*name|topcard.*org-name`), tagClass("span", `company`)},
	location:    []locator{tagClass("span", `job.*location|topcard.*location`)},
	description: []locator{tagClass("div", `description|show-more-less`), tagID("div", `job.*description`)},
	salaryFrom:  salaryPageText,
}

var siteSpecs = map[Site]siteSpec{
	SiteLinkedIn: linkedInSpec,
	SiteIndeed: {
		site:        SiteIndeed,
		title:       []locator{tagClass("h1", `jobsearch-JobInfoHeader-title`), tag("h1")},
		company:     []locator{css("div[data-company-name]"), css(`a[data-tn-element="companyName"]`), tagClass("div", `company`)},
		location:    []locator{css(`div[data-testid="job-location"]`), tagClass("div", `location`)},
		description: []locator{css("div#jobDescriptionText"), tagClass("div", `jobsearch-jobDescriptionText`)},
		salary:      []locator{css(`div[data-testid="job-salary"]`), tagClass("span", `salary`)},
		salaryFrom:  salaryElement,
		jobType:     []locator{css(`div[data-testid="job-type"]`)},
	},
	SiteGlassdoor: {
		site:        SiteGlassdoor,
		title:       []locator{css(`div[data-test="job-title"]`), tag("h1")},
		company:     []locator{css(`div[data-test="employer-name"]`)},
		location:    []locator{css(`div[data-test="location"]`)},
		description: []locator{tagClass("div", `desc|jobDescriptionContent`)},
		salary:      []locator{css(`span[data-test="detailSalary"]`)},
		salaryFrom:  salaryElement,
	},
	SiteDrushim: {
		site:        SiteDrushim,
		title:       []locator{tagClass("h1", `job.*title`), tag("h1")},
		company:     []locator{tagClass("span", `company`)},
		location:    []locator{tagClass("span", `location|area`)},
		description: []locator{tagClass("div", `content|description`)},
		salary:      []locator{tagClass("span", `salary`)},
		salaryFrom:  salaryElement,
	},
	SiteAllJobs: {
		site:        SiteAllJobs,
		title:       []locator{tag("h1")},
		company:     []locator{tagClass("div", `company`)},
		description: []locator{tagClass("div", `job.*content|description`)},
	},
	SiteGeneric: func() siteSpec {
		s := linkedInSpec
		s.site = SiteGeneric
		return s
	}(),
}

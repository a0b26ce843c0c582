package lexicon

import (
	"regexp"
	"strings"
)

// Term is a canonical vocabulary entry. Pattern is a regular expression
// fragment; when empty the canonical spelling is matched literally.
type Term struct {
	Canonical string
	Pattern   string
}

type Category struct {
	Name  string
	Terms []Term
}

func lit(names ...string) []Term {
	out := make([]Term, 0, len(names))
	for _, n := range names {
		out = append(out, Term{Canonical: n})
	}
	return out
}

// ResumeSkillCategories are evaluated in order against résumé text.
var ResumeSkillCategories = []Category{
	{Name: "languages", Terms: lit("Python", "JavaScript", "Java", "C++", "C#", "Ruby", "PHP", "Swift", "Kotlin", "Go", "Rust", "TypeScript")},
	{Name: "frameworks", Terms: []Term{
		{Canonical: "React"}, {Canonical: "Angular"}, {Canonical: "Vue"},
		{Canonical: "Node.js", Pattern: `Node\.?js`},
		{Canonical: "Django"}, {Canonical: "Flask"}, {Canonical: "Spring"},
		{Canonical: ".NET"}, {Canonical: "Laravel"}, {Canonical: "Rails"},
	}},
	{Name: "databases", Terms: lit("SQL", "MySQL", "PostgreSQL", "MongoDB", "Redis", "Oracle", "SQLite")},
	{Name: "cloud_devops", Terms: lit("AWS", "Azure", "GCP", "Docker", "Kubernetes", "Jenkins", "Git", "CI/CD")},
	{Name: "other", Terms: lit("HTML", "CSS", "REST", "GraphQL", "API", "Agile", "Scrum", "Machine Learning", "AI", "Data Analysis")},
}

// TitleKeywords are checked in list order; the first one contained in the
// text wins regardless of where it appears.
var TitleKeywords = []string{
	"Software Engineer", "Developer", "Data Scientist", "Product Manager",
	"Designer", "Analyst", "Marketing", "Sales", "Manager", "Director",
	"Frontend", "Backend", "Full Stack", "DevOps", "ML Engineer",
	"UX Designer", "UI Designer", "Project Manager", "QA Engineer",
}

// Locations are matched in document order.
var Locations = lit(
	"New York", "San Francisco", "Los Angeles", "Chicago", "Boston", "Seattle",
	"Austin", "Denver", "Remote", "USA", "United States",
)

func (t Term) pattern() string {
	if t.Pattern != "" {
		return t.Pattern
	}
	return regexp.QuoteMeta(t.Canonical)
}

// Alternation compiles the terms into a single case-insensitive, word-bounded
// alternation, preserving list order for leftmost-first matching.
func Alternation(terms []Term) *regexp.Regexp {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		parts = append(parts, t.pattern())
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(parts, "|") + `)\b`)
}

// Canonicalize maps matched text back to the vocabulary spelling. It returns
// the input unchanged when no term matches it exactly.
func Canonicalize(terms []Term, matched string) string {
	for _, t := range terms {
		re := regexp.MustCompile(`(?i)^(?:` + t.pattern() + `)$`)
		if re.MatchString(matched) {
			return t.Canonical
		}
	}
	return matched
}

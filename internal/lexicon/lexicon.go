package lexicon

import (
	"regexp"
	"strings"
)

// JobSkills is the vocabulary recognised in scraped job descriptions. Order is
// significant: matches are reported in this order.
var JobSkills = []string{
	"Python", "Java", "JavaScript", "TypeScript", "React", "Angular", "Vue",
	"Node.js", "Django", "Flask", "FastAPI", "Spring", "SQL", "PostgreSQL",
	"MySQL", "MongoDB", "Redis", "Docker", "Kubernetes", "AWS", "Azure", "GCP",
	"Git", "CI/CD", "REST", "API", "GraphQL", "Microservices", "Agile", "Scrum",
	"C++", "C#", ".NET", "Ruby", "PHP", "Go", "Rust", "Swift", "Kotlin",
	"HTML", "CSS", "Tailwind", "Bootstrap", "Redux", "Next.js", "Express",
}

// MaxJobSkills caps the number of skills attached to a scraped job.
const MaxJobSkills = 10

// Lexicon matches a fixed vocabulary against free text using whole-token,
// case-insensitive comparison.
type Lexicon struct {
	terms []compiledTerm
}

type compiledTerm struct {
	name string
	re   *regexp.Regexp
}

func New(vocab []string) *Lexicon {
	l := &Lexicon{terms: make([]compiledTerm, 0, len(vocab))}
	for _, v := range vocab {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		l.terms = append(l.terms, compiledTerm{name: v, re: tokenPattern(v)})
	}
	return l
}

// tokenPattern anchors a term on non-alphanumeric neighbours rather than \b so
// that terms ending in symbols ("C++", "CI/CD") still match.
func tokenPattern(term string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}])` + regexp.QuoteMeta(term) + `(?:[^\p{L}\p{N}]|$)`)
}

// Match returns the vocabulary terms present in text, in vocabulary order,
// truncated to limit entries. A limit <= 0 means no limit.
func (l *Lexicon) Match(text string, limit int) []string {
	out := make([]string, 0)
	if l == nil || strings.TrimSpace(text) == "" {
		return out
	}
	for _, t := range l.terms {
		if limit > 0 && len(out) >= limit {
			break
		}
		if t.re.MatchString(text) {
			out = append(out, t.name)
		}
	}
	return out
}

var jobLexicon = New(JobSkills)

// MatchJobSkills extracts at most MaxJobSkills skills from a job description.
func MatchJobSkills(text string) []string {
	return jobLexicon.Match(text, MaxJobSkills)
}

// MatchSkills is a one-shot helper for callers with an ad-hoc vocabulary.
func MatchSkills(text string, vocab []string, limit int) []string {
	return New(vocab).Match(text, limit)
}

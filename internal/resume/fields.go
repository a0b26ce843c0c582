package resume

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"jobmate/internal/domain/user"
	"jobmate/internal/lexicon"
	"jobmate/internal/textutil"
)

const (
	MaxSkills    = 20
	maxNameWords = 4
)

type compiledCategory struct {
	terms []lexicon.Term
	re    *regexp.Regexp
}

var (
	skillMatchers = func() []compiledCategory {
		out := make([]compiledCategory, 0, len(lexicon.ResumeSkillCategories))
		for _, c := range lexicon.ResumeSkillCategories {
			out = append(out, compiledCategory{terms: c.Terms, re: lexicon.Alternation(c.Terms)})
		}
		return out
	}()
	locationRe = lexicon.Alternation(lexicon.Locations)
)

// ExtractFields applies the résumé heuristics to plain text. It is all or
// nothing: any internal failure yields a *ParseError and no fields.
func ExtractFields(text string) (p user.ExtractedResumeProfile, err error) {
	defer func() {
		if r := recover(); r != nil {
			p, err = user.ExtractedResumeProfile{}, &ParseError{Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	return user.ExtractedResumeProfile{
		FullName:           textutil.StringPtr(extractName(text)),
		TargetRole:         textutil.StringPtr(extractTargetRole(text)),
		Skills:             extractSkills(text),
		LocationPreference: textutil.StringPtr(extractLocation(text)),
	}, nil
}

// Parse extracts text from a document and then its fields.
func Parse(data []byte, format Format) (user.ExtractedResumeProfile, error) {
	text, err := ExtractText(data, format)
	if err != nil {
		return user.ExtractedResumeProfile{}, err
	}
	return ExtractFields(text)
}

// extractName accepts the first non-blank line when it looks like a name:
// at most four words, starting with an upper-case letter.
func extractName(text string) string {
	lines := textutil.NonEmptyLines(text)
	if len(lines) == 0 {
		return ""
	}
	first := lines[0]
	if len(strings.Fields(first)) > maxNameWords {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(first)
	if !unicode.IsUpper(r) {
		return ""
	}
	return first
}

func extractTargetRole(text string) string {
	lower := strings.ToLower(text)
	for _, kw := range lexicon.TitleKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return kw
		}
	}
	return ""
}

// extractSkills walks the categories in order and keeps each canonical skill
// the first time it is seen.
func extractSkills(text string) []string {
	out := make([]string, 0, MaxSkills)
	seen := map[string]struct{}{}
	for _, c := range skillMatchers {
		for _, m := range c.re.FindAllString(text, -1) {
			s := lexicon.Canonicalize(c.terms, m)
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
			if len(out) == MaxSkills {
				return out
			}
		}
	}
	return out
}

func extractLocation(text string) string {
	m := locationRe.FindString(text)
	if m == "" {
		return ""
	}
	return lexicon.Canonicalize(lexicon.Locations, m)
}

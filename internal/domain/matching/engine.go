package matching

import (
	"math"
	"regexp"
	"strings"
)

const (
	exactWeight    = 0.5
	semanticWeight = 0.5
	maxScore       = 100.0
)

// Result explains a score: MatchedSkills and MissingSkills partition the
// input skills and keep their input order and casing.
type Result struct {
	Score         float64  `json:"score"`
	MatchedSkills []string `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills"`
}

// Score rates how well a skill profile fits a posting on a 0-100 scale. Half
// the weight comes from whole-word skill overlap, half from tf-idf cosine
// similarity between the profile and the posting text. It never fails.
func Score(userSkills []string, targetRole, jobTitle, jobDescription string) Result {
	if len(userSkills) == 0 {
		return Result{Score: 0, MatchedSkills: []string{}, MissingSkills: []string{}}
	}

	jobText := strings.ToLower(jobTitle + " " + jobDescription)

	matched := make([]string, 0, len(userSkills))
	matchedSet := make(map[string]struct{}, len(userSkills))
	for _, s := range userSkills {
		if wordMatch(jobText, s) {
			matched = append(matched, s)
			matchedSet[s] = struct{}{}
		}
	}

	missing := make([]string, 0, len(userSkills)-len(matched))
	for _, s := range userSkills {
		if _, ok := matchedSet[s]; !ok {
			missing = append(missing, s)
		}
	}

	ratio := float64(len(matched)) / float64(len(userSkills))

	profile := targetRole + " " + strings.Join(userSkills, " ")
	sim := semanticSimilarity(profile, jobText)

	score := (ratio*exactWeight + sim*semanticWeight) * 100
	score = math.Min(maxScore, score)
	score = math.Round(score*100) / 100

	return Result{Score: score, MatchedSkills: matched, MissingSkills: missing}
}

// wordMatch reports a case-insensitive \b-anchored occurrence of skill in the
// already lower-cased text.
func wordMatch(lowerText, skill string) bool {
	s := strings.ToLower(skill)
	if strings.TrimSpace(s) == "" {
		return false
	}
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(s) + `\b`)
	if err != nil {
		return false
	}
	return re.MatchString(lowerText)
}

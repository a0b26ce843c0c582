package matching

import (
	"errors"
	"math"
	"regexp"
	"strings"
)

var errEmptyVocabulary = errors.New("empty vocabulary after stop word removal")

// tokenRe keeps runs of two or more word characters.
var tokenRe = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]{2,}`)

func tokenize(s string) []string {
	raw := tokenRe.FindAllString(strings.ToLower(s), -1)
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		if _, stop := englishStopWords[t]; stop {
			continue
		}
		out = append(out, t)
	}
	return out
}

// tfidfVectors builds L2-normalised tf-idf vectors for docs over their shared
// vocabulary, using smoothed idf: ln((1+n)/(1+df)) + 1.
func tfidfVectors(docs []string) ([]map[string]float64, error) {
	counts := make([]map[string]float64, len(docs))
	df := map[string]int{}
	for i, d := range docs {
		c := map[string]float64{}
		for _, tok := range tokenize(d) {
			c[tok]++
		}
		for tok := range c {
			df[tok]++
		}
		counts[i] = c
	}
	if len(df) == 0 {
		return nil, errEmptyVocabulary
	}

	n := float64(len(docs))
	idf := make(map[string]float64, len(df))
	for tok, f := range df {
		idf[tok] = math.Log((1+n)/(1+float64(f))) + 1
	}

	for _, c := range counts {
		var norm float64
		for tok, tf := range c {
			w := tf * idf[tok]
			c[tok] = w
			norm += w * w
		}
		if norm == 0 {
			continue
		}
		norm = math.Sqrt(norm)
		for tok := range c {
			c[tok] /= norm
		}
	}
	return counts, nil
}

// cosine expects normalised vectors; a zero vector yields 0.
func cosine(a, b map[string]float64) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}
	var dot float64
	for tok, w := range a {
		dot += w * b[tok]
	}
	if dot < 0 {
		return 0
	}
	if dot > 1 {
		return 1
	}
	return dot
}

// semanticSimilarity returns the tf-idf cosine similarity of two texts, or 0
// when no vocabulary survives filtering.
func semanticSimilarity(a, b string) float64 {
	vecs, err := tfidfVectors([]string{a, b})
	if err != nil {
		return 0
	}
	return cosine(vecs[0], vecs[1])
}

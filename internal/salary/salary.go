package salary

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	CurrencyILS = "ILS"
	CurrencyUSD = "USD"
)

// Range is a parsed salary. Min and Max are nil when nothing was recognised;
// Currency defaults to ILS.
type Range struct {
	Min      *int
	Max      *int
	Currency string
}

func (r Range) Found() bool {
	return r.Min != nil || r.Max != nil
}

type rule struct {
	currency string
	re       *regexp.Regexp
}

const amount = `(\d+(?:,\d{3})*(?:\.\d+)?)`

// rangeRules are tried in order; the first that matches wins.
var rangeRules = []rule{
	{currency: CurrencyILS, re: regexp.MustCompile(`₪?\s*` + amount + `\s*(?:-|to|–)\s*₪?\s*` + amount)},
	{currency: CurrencyUSD, re: regexp.MustCompile(`\$\s*` + amount + `\s*(?:-|to|–)\s*\$?\s*` + amount)},
}

var singleRe = regexp.MustCompile(`₪?\s*(\d+(?:,\d{3})*)`)

// Extract finds the first salary range in text. A lone number is reported as
// min == max in the default currency.
func Extract(text string) Range {
	out := Range{Currency: CurrencyILS}
	if strings.TrimSpace(text) == "" {
		return out
	}

	for _, r := range rangeRules {
		m := r.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		lo, okLo := parseAmount(m[1])
		hi, okHi := parseAmount(m[2])
		if !okLo || !okHi {
			continue
		}
		out.Min, out.Max, out.Currency = &lo, &hi, r.currency
		return out
	}

	if m := singleRe.FindStringSubmatch(text); m != nil {
		if v, ok := parseAmount(m[1]); ok {
			lo, hi := v, v
			out.Min, out.Max = &lo, &hi
		}
	}
	return out
}

// parseAmount drops thousands separators and any fractional part.
func parseAmount(s string) (int, bool) {
	s = strings.ReplaceAll(s, ",", "")
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

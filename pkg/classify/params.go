package classify

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/exportiq/insight-engine/pkg/models"
)

// Parameter extraction is regex-based, first-match-wins per parameter
// class. All patterns run against the case-folded query.
var (
	limitPatterns = []*regexp.Regexp{
		regexp.MustCompile(`top (\d+)`),
		regexp.MustCompile(`(\d+) items`),
		regexp.MustCompile(`limit (\d+)`),
		regexp.MustCompile(`first (\d+)`),
	}

	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`last (\d+) (days|weeks|months|years)`),
		regexp.MustCompile(`in (january|february|march|april|may|june|july|august|september|october|november|december)`),
		regexp.MustCompile(`\b(\d{4})\b`),
	}

	locationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`in (\w+) warehouse`),
		regexp.MustCompile(`from (\w+)`),
		regexp.MustCompile(`at (\w+) location`),
	}

	descKeywords = []string{"highest", "most", "best", "top"}
	ascKeywords  = []string{"lowest", "least", "worst", "bottom"}
)

func extractParameters(text string) models.Parameters {
	lower := strings.ToLower(text)
	var params models.Parameters

	for _, p := range limitPatterns {
		if m := p.FindStringSubmatch(lower); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				params.Limit = n
			}
			break
		}
	}

	for _, p := range datePatterns {
		if m := p.FindString(lower); m != "" {
			params.DateContext = m
			break
		}
	}

	for _, p := range locationPatterns {
		if m := p.FindStringSubmatch(lower); m != nil {
			params.Location = m[1]
			break
		}
	}

	for _, kw := range descKeywords {
		if strings.Contains(lower, kw) {
			params.Order = "desc"
			break
		}
	}
	if params.Order == "" {
		for _, kw := range ascKeywords {
			if strings.Contains(lower, kw) {
				params.Order = "asc"
				break
			}
		}
	}

	return params
}

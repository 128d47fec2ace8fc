package similarity

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/jobmatch/internal/nlp"
	"github.com/jonathan/jobmatch/internal/types"
)

// durationCap bounds candidate/required years before clamping to 1.0.
const durationCap = 2.0

// defaultSpanYears is credited for a span whose dates cannot be read.
const defaultSpanYears = 1.0

// requiredYearsPatterns are tried in order; the first match wins.
var requiredYearsPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\+?\s*years?\s*(?:of\s*)?(?:relevant\s*)?(?:\w+\s+)?experience`),
	regexp.MustCompile(`minimum\s*(?:of\s*)?(\d+)\+?\s*years?`),
	regexp.MustCompile(`at\s*least\s*(\d+)\+?\s*years?`),
	regexp.MustCompile(`(\d+)\+\s*years?`),
}

// RequiredYears returns the years of experience a posting asks for, or 0 when it states none.
func RequiredYears(text string) int {
	lower := strings.ToLower(text)
	for _, pattern := range requiredYearsPatterns {
		if m := pattern.FindStringSubmatch(lower); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return n
			}
		}
	}
	return 0
}

var (
	yearPattern  = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	presentWords = []string{"present", "current", "now", "today"}
	dateLayouts  = []string{"2006-01", "2006/01", "01/2006", "Jan 2006", "January 2006", "Jan. 2006"}
)

// parseSpanDate reads a free-form date. month is 0 when only the year is known.
func parseSpanDate(s string, now time.Time) (year, month int, ok bool) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	for _, w := range presentWords {
		if lower == w {
			return now.Year(), int(now.Month()), true
		}
	}
	if strings.Contains(lower, "present") {
		return now.Year(), int(now.Month()), true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Year(), int(t.Month()), true
		}
	}
	if m := yearPattern.FindString(s); m != "" {
		y, _ := strconv.Atoi(m)
		return y, 0, true
	}
	return 0, 0, false
}

// SpanYears returns the length of a span in years. Month precision is used when both ends
// carry a month. Unreadable spans count as one year.
func SpanYears(span types.Span, now time.Time) float64 {
	sy, sm, okStart := parseSpanDate(span.Start, now)
	ey, em, okEnd := parseSpanDate(span.End, now)
	if !okStart || !okEnd {
		return defaultSpanYears
	}
	var years float64
	if sm > 0 && em > 0 {
		years = float64((ey*12+em)-(sy*12+sm)) / 12
	} else {
		years = float64(ey - sy)
	}
	if years < 0 {
		return 0
	}
	return years
}

// CandidateYears sums SpanYears over every span.
func CandidateYears(spans []types.Span, now time.Time) float64 {
	var total float64
	for _, span := range spans {
		total += SpanYears(span, now)
	}
	return total
}

// durationMatch returns min(min(candidate/required, 2), 1), or false when either side is unknown.
func durationMatch(candidateYears float64, requiredYears int) (float64, bool) {
	if candidateYears <= 0 || requiredYears <= 0 {
		return 0, false
	}
	ratio := min(candidateYears/float64(requiredYears), durationCap)
	return min(ratio, 1.0), true
}

// titleMatch returns the best title overlap: 1.0 when a title appears verbatim in the posting
// text, otherwise the Jaccard overlap of title and posting content tokens.
func titleMatch(titles []string, postingText string) (float64, bool) {
	if len(titles) == 0 {
		return 0, false
	}
	lower := strings.ToLower(postingText)
	postingTokens := nlp.ContentTokens(postingText)

	best := 0.0
	for _, title := range titles {
		title = strings.ToLower(strings.TrimSpace(title))
		if title == "" {
			continue
		}
		if strings.Contains(lower, title) {
			return 1.0, true
		}
		best = max(best, nlp.Jaccard(nlp.ContentTokens(title), postingTokens))
	}
	return best, true
}

// experienceMatch averages the available duration and title factors.
func experienceMatch(exp types.Experience, postingText string, now time.Time) (float64, bool) {
	var sum float64
	var factors int
	if d, ok := durationMatch(CandidateYears(exp.Spans, now), RequiredYears(postingText)); ok {
		sum += d
		factors++
	}
	if t, ok := titleMatch(exp.Titles, postingText); ok {
		sum += t
		factors++
	}
	if factors == 0 {
		return 0, false
	}
	return sum / float64(factors), true
}

package ingestion

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jonathan/jobmatch/internal/extraction"
	"github.com/jonathan/jobmatch/internal/types"
)

var (
	// "Jan 2019 - Present: Backend Engineer at Acme"
	monthSpanPattern = regexp.MustCompile(`(?i)\b([a-z]+\.?\s+\d{4})\s*[-–]\s*([a-z]+\.?\s+\d{4}|[a-z]+)\b\s*[:\-|]?\s*([^\n]+)`)
	// "2019 - 2023: Data Analyst"
	yearSpanPattern = regexp.MustCompile(`(?i)\b(\d{4})\s*[-–]\s*(\d{4}|[a-z]+)\b\s*[:\-|]?\s*([^\n]+)`)

	titlePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:senior|junior|lead|principal|associate)\s+(?:software\s+)?(?:engineer|developer|analyst|manager)\b`),
		regexp.MustCompile(`(?i)\b(?:software engineer|developer|analyst|manager|director|consultant|specialist|coordinator)\b`),
	}

	emailPattern    = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern    = regexp.MustCompile(`(?:\+\d{1,3}[\s.-]?)?(?:\(\d{3}\)|\d{3})[\s.-]?\d{3}[\s.-]?\d{4}\b`)
	linkedInPattern = regexp.MustCompile(`linkedin\.com/in/[\w-]+`)

	degreePattern       = regexp.MustCompile(`(?i)\b(bachelor|master|phd|doctorate|diploma|certificate)(?:'s)?\b\s*(?:of|in|degree)?\s*(?:in\s+)?([^\n,;]*)`)
	degreeAbbrevPattern = regexp.MustCompile(`\b(B\.S\.|B\.A\.|M\.S\.|M\.A\.|Ph\.D\.?|BSc|MSc|BS|BA|MS|MA)\s+(?:in\s+)?([^\n,;]+)`)
)

var degreeAbbreviations = map[string]string{
	"b.s.": "bachelor", "b.a.": "bachelor", "bsc": "bachelor", "bs": "bachelor", "ba": "bachelor",
	"m.s.": "master", "m.a.": "master", "msc": "master", "ms": "master", "ma": "master",
	"ph.d.": "phd", "ph.d": "phd",
}

// ParseProfile builds a candidate profile from resume text: experience spans, recognized
// titles, education entries and the skills extractor finds.
func ParseProfile(text string, extractor *extraction.Extractor) *types.Profile {
	text = CleanText(text)
	return &types.Profile{
		Contact: ParseContact(text),
		Text:    text,
		Skills:  extractor.Extract(text),
		Experience: types.Experience{
			Spans:  ParseSpans(text),
			Titles: ParseTitles(text),
		},
		Education: ParseEducation(text),
	}
}

// ParseContact finds email addresses, phone numbers and LinkedIn profile paths, each
// de-duplicated in order of appearance. LinkedIn paths are lowercased.
func ParseContact(text string) types.Contact {
	contact := types.Contact{
		Emails:   unique(emailPattern.FindAllString(text, -1)),
		LinkedIn: unique(linkedInPattern.FindAllString(strings.ToLower(text), -1)),
	}
	var phones []string
	for _, m := range phonePattern.FindAllStringIndex(text, -1) {
		// a digit right before the match means it is the tail of a longer number
		if m[0] > 0 && text[m[0]-1] >= '0' && text[m[0]-1] <= '9' {
			continue
		}
		phones = append(phones, text[m[0]:m[1]])
	}
	contact.Phones = unique(phones)
	return contact
}

func unique(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// ParseSpans finds dated work-history lines. Month-precision ranges win over the bare year
// ranges they contain.
func ParseSpans(text string) []types.Span {
	type hit struct {
		pos  int
		span types.Span
	}
	var (
		hits    []hit
		covered [][2]int
	)
	for _, m := range monthSpanPattern.FindAllStringSubmatchIndex(text, -1) {
		if !isDate(text[m[2]:m[3]]) {
			continue
		}
		covered = append(covered, [2]int{m[0], m[1]})
		hits = append(hits, hit{m[0], spanFrom(text, m)})
	}
	for _, m := range yearSpanPattern.FindAllStringSubmatchIndex(text, -1) {
		if overlaps(covered, m[0], m[1]) {
			continue
		}
		hits = append(hits, hit{m[0], spanFrom(text, m)})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	spans := make([]types.Span, 0, len(hits))
	for _, h := range hits {
		spans = append(spans, h.span)
	}
	return spans
}

func spanFrom(text string, m []int) types.Span {
	return types.Span{
		Start:       strings.TrimSpace(text[m[2]:m[3]]),
		End:         strings.TrimSpace(text[m[4]:m[5]]),
		Description: strings.TrimSpace(text[m[6]:m[7]]),
	}
}

// isDate rejects month-pattern matches whose first word is not a month, e.g. "since 2019".
func isDate(s string) bool {
	word := strings.ToLower(strings.TrimRight(strings.Fields(s)[0], "."))
	if len(word) < 3 {
		return false
	}
	for _, month := range []string{"january", "february", "march", "april", "may", "june", "july",
		"august", "september", "october", "november", "december"} {
		if strings.HasPrefix(month, word) {
			return true
		}
	}
	return false
}

func overlaps(ranges [][2]int, start, end int) bool {
	for _, r := range ranges {
		if start < r[1] && r[0] < end {
			return true
		}
	}
	return false
}

// ParseTitles returns the distinct lowercased job titles mentioned in text, sorted.
func ParseTitles(text string) []string {
	seen := map[string]struct{}{}
	for _, re := range titlePatterns {
		for _, m := range re.FindAllString(text, -1) {
			seen[strings.ToLower(strings.Join(strings.Fields(m), " "))] = struct{}{}
		}
	}
	titles := make([]string, 0, len(seen))
	for t := range seen {
		titles = append(titles, t)
	}
	sort.Strings(titles)
	return titles
}

// ParseEducation returns the distinct degree entries in text, in order of appearance.
func ParseEducation(text string) []types.Education {
	type hit struct {
		pos int
		edu types.Education
	}
	var hits []hit
	for _, m := range degreePattern.FindAllStringSubmatchIndex(text, -1) {
		hits = append(hits, hit{m[0], types.Education{
			DegreeType: strings.ToLower(text[m[2]:m[3]]),
			Field:      strings.TrimSpace(text[m[4]:m[5]]),
		}})
	}
	for _, m := range degreeAbbrevPattern.FindAllStringSubmatchIndex(text, -1) {
		hits = append(hits, hit{m[0], types.Education{
			DegreeType: degreeAbbreviations[strings.ToLower(text[m[2]:m[3]])],
			Field:      strings.TrimSpace(text[m[4]:m[5]]),
		}})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	education := []types.Education{}
	seen := map[types.Education]struct{}{}
	for _, h := range hits {
		key := types.Education{DegreeType: h.edu.DegreeType, Field: strings.ToLower(h.edu.Field)}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		education = append(education, h.edu)
	}
	return education
}

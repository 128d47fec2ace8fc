package nlp

import (
	"regexp"
	"strings"
)

// phrase body: anything up to a comma, a newline, or a sentence-ending period.
// A period directly followed by a non-space character ("node.js") does not end the phrase.
const (
	clauseBody = `((?:[^,.\n]|\.\S)+)`
	listBody   = `((?:[^.\n]|\.\S)+)`
)

// ContextPatterns are the fixed phrases that introduce skill mentions.
// Each pattern captures the mentioned term(s) in group 1.
var ContextPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bexperience (?:with|in|using) ` + clauseBody),
	regexp.MustCompile(`(?i)\bproficient (?:with|in|using) ` + clauseBody),
	regexp.MustCompile(`(?i)\bskilled (?:with|in|using) ` + clauseBody),
	regexp.MustCompile(`(?i)\bexpertise in ` + clauseBody),
	regexp.MustCompile(`(?i)\bknowledge of ` + clauseBody),
	regexp.MustCompile(`(?i)\bfamiliar with ` + clauseBody),
	regexp.MustCompile(`(?i)\bskills?\s*:\s*` + listBody),
	regexp.MustCompile(`(?i)\btechnolog(?:y|ies)\s*:\s*` + listBody),
	regexp.MustCompile(`(?i)\btools?\s*:\s*` + listBody),
	regexp.MustCompile(`(?i)\bframeworks?\s*:\s*` + listBody),
	regexp.MustCompile(`(?i)\blanguages?\s*:\s*` + listBody),
}

var (
	termSeparators = regexp.MustCompile(`[,;/&\n\r]+`)
	leadingJoiner  = regexp.MustCompile(`(?i)^(?:and|or)\s+`)
)

// SplitTerms splits a captured context phrase into individual candidate terms on
// commas, semicolons, slashes, ampersands and newlines. Leading "and"/"or" joiners are dropped.
func SplitTerms(phrase string) []string {
	parts := termSeparators.Split(phrase, -1)
	terms := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		part = strings.TrimSpace(leadingJoiner.ReplaceAllString(part, ""))
		if part != "" {
			terms = append(terms, part)
		}
	}
	return terms
}

// ContextTerms applies every context pattern to text and returns the raw candidate terms
// in order of appearance, duplicates included.
func ContextTerms(text string) []string {
	var terms []string
	for _, pattern := range ContextPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			terms = append(terms, SplitTerms(match[1])...)
		}
	}
	return terms
}

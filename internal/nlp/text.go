// Package nlp provides the small text-analysis toolkit shared by vocabulary learning,
// skill extraction and similarity scoring.
package nlp

import (
	"regexp"
	"strings"
)

var (
	tokenPattern = regexp.MustCompile(`\b\w\w+\b`)
	multiSpace   = regexp.MustCompile(`\s+`)
)

// Tokenize lowercases text and returns its word tokens of two or more characters.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// ContentTokens returns the tokens of text with stop words removed.
func ContentTokens(text string) []string {
	tokens := Tokenize(text)
	out := tokens[:0]
	for _, tok := range tokens {
		if !IsStopWord(tok) {
			out = append(out, tok)
		}
	}
	return out
}

// NormalizeTerm lowercases a candidate term, collapses inner whitespace and strips
// surrounding punctuation. Trailing '+' and '#' are kept so "c++" and "c#" survive,
// and a leading '.' is kept for names such as ".net".
func NormalizeTerm(term string) string {
	term = strings.ToLower(strings.TrimSpace(term))
	term = multiSpace.ReplaceAllString(term, " ")
	term = strings.TrimLeft(term, " \t\"'`()[]{}<>:;,!?*-–•")
	term = strings.TrimRight(term, " \t\"'`()[]{}<>:;,.!?*-–•")
	return term
}

// isWordRune reports whether r can be part of a skill token.
func isWordRune(r byte) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// joinsWord reports whether the neighbour byte at i glues the match to a longer token:
// either a word character, or a '.' that is itself followed (in direction dir) by a word
// character, as in "node.js".
func joinsWord(text string, i, dir int) bool {
	if isWordRune(text[i]) {
		return true
	}
	next := i + dir
	return text[i] == '.' && next >= 0 && next < len(text) && isWordRune(text[next])
}

// ContainsTerm reports whether term occurs in text bounded by non-word characters on both sides,
// so "java" does not match inside "javascript" and "js" does not match inside "node.js".
// Both arguments are compared case-insensitively.
func ContainsTerm(text, term string) bool {
	return ContainsLowerTerm(strings.ToLower(text), strings.ToLower(strings.TrimSpace(term)))
}

// ContainsLowerTerm is ContainsTerm for callers that already lowercased text and term,
// such as a loop matching many terms against one document.
func ContainsLowerTerm(text, term string) bool {
	if term == "" {
		return false
	}

	offset := 0
	for {
		idx := strings.Index(text[offset:], term)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(term)

		leftOK := start == 0 || !joinsWord(text, start-1, -1)
		rightOK := end == len(text) || !joinsWord(text, end, 1)
		// a term ending in a symbol ("c++") must not be followed by the same symbol ("c+++")
		if rightOK && end < len(text) && !isWordRune(term[len(term)-1]) && text[end] == term[len(term)-1] {
			rightOK = false
		}
		if leftOK && rightOK {
			return true
		}
		offset = start + 1
	}
}

// Jaccard returns |a ∩ b| / |a ∪ b| over the distinct elements of a and b.
// Two empty inputs yield 0.
func Jaccard(a, b []string) float64 {
	setA := make(map[string]struct{}, len(a))
	for _, s := range a {
		setA[s] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, s := range b {
		setB[s] = struct{}{}
	}

	union := len(setA)
	intersection := 0
	for s := range setB {
		if _, ok := setA[s]; ok {
			intersection++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// Snippet returns at most n runes from the start of text, trimmed.
func Snippet(text string, n int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}

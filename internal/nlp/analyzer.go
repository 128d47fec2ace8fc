package nlp

import (
	"regexp"
	"strings"
	"unicode"
)

// Analyzer is the optional language-analysis capability consumed by extraction and scoring.
type Analyzer interface {
	// NounPhrases returns the noun-phrase spans of text.
	NounPhrases(text string) []string
	// Entities returns the named-entity spans of text.
	Entities(text string) []string
}

// DefaultMaxPhraseTokens caps the number of tokens in a phrase.
const DefaultMaxPhraseTokens = 3

var (
	// a token may carry inner dots ("node.js") and trailing +/# ("c++", "c#")
	chunkToken    = regexp.MustCompile(`[A-Za-z0-9][A-Za-z0-9_\-]*(?:\.[A-Za-z0-9]+)*[+#]*`)
	clauseBreaker = regexp.MustCompile(`[,;:()\[\]!?\n\r|•]+|\.\s|\.$`)
)

// Chunker is a heuristic Analyzer: phrases are maximal runs of non-stop-word tokens
// inside a clause, and entities are runs of tokens carrying an uppercase letter.
type Chunker struct {
	MaxTokens int
}

// NewChunker returns a Chunker with the default phrase cap.
func NewChunker() *Chunker {
	return &Chunker{MaxTokens: DefaultMaxPhraseTokens}
}

func (c *Chunker) maxTokens() int {
	if c.MaxTokens <= 0 {
		return DefaultMaxPhraseTokens
	}
	return c.MaxTokens
}

// NounPhrases implements Analyzer.
func (c *Chunker) NounPhrases(text string) []string {
	return c.runs(text, func(tok string) bool {
		return !IsStopWord(strings.ToLower(tok))
	})
}

// Entities implements Analyzer.
func (c *Chunker) Entities(text string) []string {
	return c.runs(text, func(tok string) bool {
		return hasUpper(tok) && !IsStopWord(strings.ToLower(tok))
	})
}

// runs collects maximal runs of tokens satisfying keep, clause by clause.
// Runs longer than the cap are cut into consecutive pieces of at most MaxTokens tokens.
func (c *Chunker) runs(text string, keep func(string) bool) []string {
	limit := c.maxTokens()
	var out []string
	seen := make(map[string]struct{})

	emit := func(run []string) {
		for len(run) > 0 {
			n := limit
			if len(run) < n {
				n = len(run)
			}
			phrase := strings.Join(run[:n], " ")
			if _, dup := seen[phrase]; !dup {
				seen[phrase] = struct{}{}
				out = append(out, phrase)
			}
			run = run[n:]
		}
	}

	for _, clause := range clauseBreaker.Split(text, -1) {
		var run []string
		for _, tok := range chunkToken.FindAllString(clause, -1) {
			if keep(tok) {
				run = append(run, tok)
				continue
			}
			emit(run)
			run = nil
		}
		emit(run)
	}
	return out
}

func hasUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

package vocabulary

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/jobmatch/internal/nlp"
)

// Acceptor decides whether a candidate token is likely a real skill.
// known reports whether a name is already a base record.
type Acceptor interface {
	Accept(candidate, context string, known func(string) bool) bool
}

// AcceptorFunc adapts a function to the Acceptor interface.
type AcceptorFunc func(candidate, context string, known func(string) bool) bool

// Accept implements Acceptor.
func (f AcceptorFunc) Accept(candidate, context string, known func(string) bool) bool {
	return f(candidate, context, known)
}

// Length bounds for candidate skills, in characters
const (
	MinCandidateLength = 2
	MaxCandidateLength = 25
)

var (
	// NonSkills are frequent job-posting words that are never skills on their own.
	NonSkills = []string{
		"experience", "years", "work", "team", "project", "development",
		"software", "application", "system", "solution", "business",
		"company", "position", "role", "job", "career", "opportunity",
	}
	technicalSuffixes = []string{".js", ".py", "sql", "db"}
	technicalPrefixes = []string{"micro", "web", "api"}
	contextKeywords   = []string{
		"programming", "framework", "database", "cloud", "devops", "frontend", "backend",
	}
	plusVersion = regexp.MustCompile(`^[a-z]+\+\+?$`)
	hasDigit    = regexp.MustCompile(`\d`)
)

// HeuristicAcceptor is the default permissive acceptance heuristic. False positives are
// tolerated: scoring only rewards skills present on both sides of a comparison.
type HeuristicAcceptor struct {
	nonSkills map[string]struct{}
}

// NewHeuristicAcceptor returns the default acceptor.
func NewHeuristicAcceptor() *HeuristicAcceptor {
	deny := make(map[string]struct{}, len(NonSkills))
	for _, w := range NonSkills {
		deny[w] = struct{}{}
	}
	return &HeuristicAcceptor{nonSkills: deny}
}

// Accept implements Acceptor.
func (h *HeuristicAcceptor) Accept(candidate, context string, known func(string) bool) bool {
	name := nlp.NormalizeTerm(candidate)
	n := utf8.RuneCountInString(name)
	if n < MinCandidateLength || n > MaxCandidateLength {
		return false
	}
	if nlp.IsStopWord(name) {
		return false
	}
	if _, denied := h.nonSkills[name]; denied {
		return false
	}

	if known != nil && known(name) {
		return true
	}
	for _, suffix := range technicalSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	for _, prefix := range technicalPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	if hasDigit.MatchString(name) || plusVersion.MatchString(name) {
		return true
	}

	ctx := strings.ToLower(context)
	for _, kw := range contextKeywords {
		if strings.Contains(ctx, kw) {
			return true
		}
	}
	return false
}

// Package extraction turns free text into a confidence-scored skill set using a
// vocabulary snapshot and up to three independent strategies.
package extraction

import (
	"sort"
	"strings"

	"github.com/jonathan/jobmatch/internal/nlp"
	"github.com/jonathan/jobmatch/internal/types"
	"github.com/jonathan/jobmatch/internal/vocabulary"
)

// Extraction methods
const (
	MethodBasic      = "basic"
	MethodStructural = "structural"
	MethodContextual = "contextual"
)

// Confidence contributed by each method, in tenths. They sum to 10 so that
// agreement of all three methods yields exactly 1.0.
const (
	basicTenths      = 4
	structuralTenths = 3
	contextualTenths = 3
)

type variant struct {
	term      string
	canonical string
}

// Extractor maps text to skills known to one vocabulary snapshot. It is safe for concurrent use.
type Extractor struct {
	snap     *vocabulary.Snapshot
	analyzer nlp.Analyzer
	rules    []vocabulary.CategoryRule
	variants []variant
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithAnalyzer enables structural extraction.
func WithAnalyzer(a nlp.Analyzer) Option {
	return func(e *Extractor) { e.analyzer = a }
}

// WithRules sets the rules used to categorize structured skills unknown to the snapshot.
func WithRules(rules []vocabulary.CategoryRule) Option {
	return func(e *Extractor) { e.rules = rules }
}

// New builds an Extractor over snap.
func New(snap *vocabulary.Snapshot, opts ...Option) *Extractor {
	e := &Extractor{
		snap:  snap,
		rules: vocabulary.DefaultRules,
	}
	for _, opt := range opts {
		opt(e)
	}

	for canonical, variants := range Synonyms {
		if !snap.Has(canonical) {
			continue
		}
		for _, v := range variants {
			e.variants = append(e.variants, variant{term: v, canonical: canonical})
		}
	}
	sort.Slice(e.variants, func(i, j int) bool { return e.variants[i].term < e.variants[j].term })
	return e
}

// Snapshot returns the vocabulary snapshot the extractor reads.
func (e *Extractor) Snapshot() *vocabulary.Snapshot {
	return e.snap
}

// Canonical folds a skill name to its canonical spelling when the snapshot knows it.
func (e *Extractor) Canonical(name string) string {
	name = nlp.NormalizeTerm(name)
	if e.snap.Has(name) {
		return name
	}
	if canonical, ok := variantIndex[name]; ok && e.snap.Has(canonical) {
		return canonical
	}
	return name
}

// Validation tells whether a free-form skill name is known to the vocabulary.
type Validation struct {
	Name      string `json:"name"`
	Canonical string `json:"canonical"`
	Known     bool   `json:"known"`
}

// Validate checks each name, in order, against the snapshot after synonym folding.
func (e *Extractor) Validate(names []string) []Validation {
	out := make([]Validation, 0, len(names))
	for _, name := range names {
		canonical := e.Canonical(name)
		out = append(out, Validation{
			Name:      name,
			Canonical: canonical,
			Known:     canonical != "" && e.snap.Has(canonical),
		})
	}
	return out
}

// matchKnown returns every known name or synonym variant bounded inside text.
func (e *Extractor) matchKnown(text string, found map[string]struct{}) {
	lower := strings.ToLower(text)
	for _, name := range e.snap.Names() {
		if nlp.ContainsLowerTerm(lower, name) {
			found[name] = struct{}{}
		}
	}
	for _, v := range e.variants {
		if nlp.ContainsLowerTerm(lower, v.term) {
			found[v.canonical] = struct{}{}
		}
	}
}

// ExtractBasic matches every known skill and synonym variant against text with word boundaries.
func (e *Extractor) ExtractBasic(text string) []string {
	found := make(map[string]struct{})
	e.matchKnown(text, found)
	return sortedKeys(found)
}

// ExtractStructural keeps the noun phrases and entities of text that are known skills.
// The second result is false when no analyzer is configured; the skill list is then empty.
func (e *Extractor) ExtractStructural(text string) ([]string, bool) {
	if e.analyzer == nil {
		return nil, false
	}
	found := make(map[string]struct{})
	spans := append(e.analyzer.NounPhrases(text), e.analyzer.Entities(text)...)
	for _, span := range spans {
		if name := e.Canonical(span); e.snap.Has(name) {
			found[name] = struct{}{}
		}
	}
	return sortedKeys(found), true
}

// ExtractContextual applies the context-phrase patterns and keeps only known skills found in
// the captured terms. It never invents new names.
func (e *Extractor) ExtractContextual(text string) []string {
	found := make(map[string]struct{})
	for _, term := range nlp.ContextTerms(text) {
		if name := e.Canonical(term); e.snap.Has(name) {
			found[name] = struct{}{}
			continue
		}
		e.matchKnown(term, found)
	}
	return sortedKeys(found)
}

// Extract unions the three methods. Each skill's confidence is 0.4 for basic, 0.3 for
// structural and 0.3 for contextual agreement. Empty text yields an empty set.
func (e *Extractor) Extract(text string) types.SkillSet {
	set := types.NewSkillSet()
	if strings.TrimSpace(text) == "" {
		return set
	}

	tenths := make(map[string]int)
	for _, name := range e.ExtractBasic(text) {
		tenths[name] += basicTenths
	}
	structural, ok := e.ExtractStructural(text)
	if !ok {
		set.Degraded = append(set.Degraded, MethodStructural)
	}
	for _, name := range structural {
		tenths[name] += structuralTenths
	}
	for _, name := range e.ExtractContextual(text) {
		tenths[name] += contextualTenths
	}

	names := make([]string, 0, len(tenths))
	for name, t := range tenths {
		set.Confidence[name] = min(float64(t)/10, 1.0)
		names = append(names, name)
	}
	set.Categories = e.snap.Categorize(names)
	return set
}

// FromNames builds a full-confidence skill set from a structured skill list, such as a
// posting's own skills field. Names are folded to canonical spellings; names unknown to
// the snapshot are categorized by the extractor's rules.
func (e *Extractor) FromNames(names []string) types.SkillSet {
	set := types.NewSkillSet()
	for _, raw := range names {
		name := e.Canonical(raw)
		if name == "" {
			continue
		}
		if _, dup := set.Confidence[name]; dup {
			continue
		}
		set.Confidence[name] = 1.0
		cat, ok := e.snap.Category(name)
		if !ok {
			cat = vocabulary.Categorize(e.rules, name)
		}
		set.Categories[cat] = append(set.Categories[cat], name)
	}
	for cat := range set.Categories {
		sort.Strings(set.Categories[cat])
	}
	return set
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

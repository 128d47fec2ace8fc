// Package vocabulary maintains the skill taxonomy: the seeded base skills plus the skills
// learned from posting and resume text, with their frequencies and evidence.
package vocabulary

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/jonathan/jobmatch/internal/nlp"
	"github.com/jonathan/jobmatch/internal/types"
)

// Origin distinguishes seeded records from learned ones.
type Origin string

// Record origins
const (
	OriginBase    Origin = "base"
	OriginLearned Origin = "learned"
)

// Evidence bounds
const (
	MaxEvidence   = 50
	SnippetLength = 100
)

// Record is one skill in the vocabulary.
type Record struct {
	Name      string         `json:"name"`
	Category  types.Category `json:"category"`
	Origin    Origin         `json:"origin"`
	Frequency int            `json:"frequency"`
	Evidence  []string       `json:"evidence,omitempty"`
	LastSeen  time.Time      `json:"last_seen,omitempty"`
}

func (r *Record) clone() Record {
	c := *r
	c.Evidence = append([]string(nil), r.Evidence...)
	return c
}

// surface-form candidate generators
var surfacePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b[A-Z][a-z0-9]*(?:[A-Z][A-Za-z0-9]*)+\b`),     // CamelCase: TypeScript, GraphQL
	regexp.MustCompile(`\b[A-Za-z][A-Za-z0-9]*(?:\.[A-Za-z0-9]+)+\b`), // dotted: Node.js, ASP.NET
	regexp.MustCompile(`\b[a-z]+(?:-[a-z]+)+\b`),                      // hyphenated: scikit-learn
	regexp.MustCompile(`\b[A-Z]{2,}\b`),                               // acronyms: AWS, SQL
	regexp.MustCompile(`\b[A-Za-z]+\+\+?`),                            // C++, C+
}

// Vocabulary is the owned, versioned skill taxonomy. It is safe for concurrent use.
type Vocabulary struct {
	mu        sync.RWMutex
	records   map[string]*Record
	version   uint64
	updatedAt time.Time

	rules    []CategoryRule
	acceptor Acceptor
	analyzer nlp.Analyzer
	extended bool
	logger   *zap.Logger
	now      func() time.Time

	snap atomic.Pointer[Snapshot]
}

// Option configures a Vocabulary.
type Option func(*Vocabulary)

// WithAcceptor replaces the default HeuristicAcceptor.
func WithAcceptor(a Acceptor) Option {
	return func(v *Vocabulary) { v.acceptor = a }
}

// WithRules replaces DefaultRules.
func WithRules(rules []CategoryRule) Option {
	return func(v *Vocabulary) { v.rules = rules }
}

// WithAnalyzer sets the noun-phrase source used while learning. Nil disables it.
func WithAnalyzer(a nlp.Analyzer) Option {
	return func(v *Vocabulary) { v.analyzer = a }
}

// WithExtendedCatalog also seeds ExtendedCatalog as base records.
func WithExtendedCatalog() Option {
	return func(v *Vocabulary) { v.extended = true }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(v *Vocabulary) { v.logger = l }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(v *Vocabulary) { v.now = now }
}

// New builds a vocabulary seeded with the base taxonomy.
func New(opts ...Option) *Vocabulary {
	v := &Vocabulary{
		rules:    DefaultRules,
		acceptor: NewHeuristicAcceptor(),
		analyzer: nlp.NewChunker(),
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.Seed()
	return v
}

// Seed discards all learned state and installs the base taxonomy with zero frequencies.
func (v *Vocabulary) Seed() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seedLocked()
	v.version++
}

func (v *Vocabulary) seedLocked() {
	v.records = make(map[string]*Record)
	install := func(catalog map[types.Category][]string) {
		for cat, names := range catalog {
			for _, name := range names {
				v.records[name] = &Record{Name: name, Category: cat, Origin: OriginBase}
			}
		}
	}
	install(BaseTaxonomy)
	if v.extended {
		install(ExtendedCatalog)
	}
	v.updatedAt = time.Time{}
}

func normalizeName(s string) string {
	return nlp.NormalizeTerm(s)
}

// Categorize classifies name with the vocabulary's ordered rules.
func (v *Vocabulary) Categorize(name string) types.Category {
	return Categorize(v.rules, name)
}

// IsBase reports whether name is a base record.
func (v *Vocabulary) IsBase(name string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.isBaseLocked(normalizeName(name))
}

func (v *Vocabulary) isBaseLocked(name string) bool {
	rec, ok := v.records[name]
	return ok && rec.Origin == OriginBase
}

// IsCandidateSkill reports whether candidate is likely a skill, given the text it came from.
func (v *Vocabulary) IsCandidateSkill(candidate, context string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.acceptor.Accept(candidate, context, v.isBaseLocked)
}

// candidates runs the three generators over text and returns normalized, distinct names.
func (v *Vocabulary) candidates(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(raw string) {
		name := normalizeName(raw)
		if name == "" {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	for _, pattern := range surfacePatterns {
		for _, m := range pattern.FindAllString(text, -1) {
			add(m)
		}
	}
	for _, term := range nlp.ContextTerms(text) {
		add(term)
	}
	if v.analyzer != nil {
		for _, phrase := range v.analyzer.NounPhrases(text) {
			if len(strings.Fields(phrase)) <= nlp.DefaultMaxPhraseTokens {
				add(phrase)
			}
		}
	}
	return out
}

// LearnFromText extracts candidate skills from text, keeps those the acceptor confirms
// and records a sighting for each. It returns the sorted confirmed names.
func (v *Vocabulary) LearnFromText(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	cands := v.candidates(text)
	snippet := nlp.Snippet(text, SnippetLength)

	v.mu.Lock()
	defer v.mu.Unlock()

	confirmed := make([]string, 0, len(cands))
	for _, name := range cands {
		if !v.acceptor.Accept(name, text, v.isBaseLocked) {
			continue
		}
		v.recordLocked(name, snippet)
		confirmed = append(confirmed, name)
	}
	if len(confirmed) > 0 {
		v.touchLocked()
		v.logger.Debug("learned skills from text",
			zap.Int("confirmed", len(confirmed)),
			zap.Int("candidates", len(cands)))
	}
	sort.Strings(confirmed)
	return confirmed
}

// MergeExternal records externally sourced terms, such as topic or tag lists, without evidence.
// Terms failing basic hygiene (length, stop words, NonSkills) are skipped.
// It returns the sorted names that were recorded.
func (v *Vocabulary) MergeExternal(terms []string) []string {
	v.mu.Lock()
	defer v.mu.Unlock()

	seen := make(map[string]struct{})
	merged := make([]string, 0, len(terms))
	for _, raw := range terms {
		name := normalizeName(raw)
		if _, dup := seen[name]; dup || !plausible(name) {
			continue
		}
		seen[name] = struct{}{}
		v.recordLocked(name, "")
		merged = append(merged, name)
	}
	if len(merged) > 0 {
		v.touchLocked()
		v.logger.Debug("merged external terms", zap.Int("merged", len(merged)), zap.Int("offered", len(terms)))
	}
	sort.Strings(merged)
	return merged
}

func plausible(name string) bool {
	n := utf8.RuneCountInString(name)
	if n < MinCandidateLength || n > MaxCandidateLength || nlp.IsStopWord(name) {
		return false
	}
	for _, w := range NonSkills {
		if name == w {
			return false
		}
	}
	return true
}

// recordLocked counts one sighting of name. Base records keep their category;
// learned records are recategorized by the current rules.
func (v *Vocabulary) recordLocked(name, snippet string) {
	rec, ok := v.records[name]
	if !ok {
		rec = &Record{Name: name, Origin: OriginLearned}
		v.records[name] = rec
	}
	rec.Frequency++
	rec.LastSeen = v.now()
	if rec.Origin == OriginLearned {
		rec.Category = v.Categorize(name)
	}
	if snippet != "" {
		rec.Evidence = append(rec.Evidence, snippet)
		if over := len(rec.Evidence) - MaxEvidence; over > 0 {
			rec.Evidence = append([]string(nil), rec.Evidence[over:]...)
		}
	}
}

func (v *Vocabulary) touchLocked() {
	v.version++
	v.updatedAt = v.now()
}

// Snapshot returns an immutable view of the current taxonomy. Snapshots are cached per version.
func (v *Vocabulary) Snapshot() *Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if cached := v.snap.Load(); cached != nil && cached.Version() == v.version {
		return cached
	}
	byCategory := make(map[types.Category][]string)
	for name, rec := range v.records {
		byCategory[rec.Category] = append(byCategory[rec.Category], name)
	}
	snap := NewSnapshot(v.version, byCategory)
	v.snap.Store(snap)
	return snap
}

// Record returns a copy of the record for name.
func (v *Vocabulary) Record(name string) (Record, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	rec, ok := v.records[normalizeName(name)]
	if !ok {
		return Record{}, false
	}
	return rec.clone(), true
}

// Records returns copies of all records sorted by name.
func (v *Vocabulary) Records() []Record {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]Record, 0, len(v.records))
	for _, rec := range v.records {
		out = append(out, rec.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Trending returns the n most frequently sighted skills, ties broken by name.
// Skills never sighted are omitted. n <= 0 returns all sighted skills.
func (v *Vocabulary) Trending(n int) []Record {
	all := v.Records()
	sighted := all[:0]
	for _, rec := range all {
		if rec.Frequency > 0 {
			sighted = append(sighted, rec)
		}
	}
	sort.SliceStable(sighted, func(i, j int) bool {
		return sighted[i].Frequency > sighted[j].Frequency
	})
	if n > 0 && len(sighted) > n {
		sighted = sighted[:n]
	}
	return sighted
}

// Len returns the number of records.
func (v *Vocabulary) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.records)
}

// Version increases on every mutation.
func (v *Vocabulary) Version() uint64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.version
}

// LastUpdated returns the time of the last learning or merge, zero if none.
func (v *Vocabulary) LastUpdated() time.Time {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.updatedAt
}

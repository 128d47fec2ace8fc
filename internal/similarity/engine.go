// Package similarity computes the fused, explainable relevance score of a candidate
// profile against a job posting.
package similarity

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/jobmatch/internal/extraction"
	"github.com/jonathan/jobmatch/internal/nlp"
	"github.com/jonathan/jobmatch/internal/types"
	"github.com/jonathan/jobmatch/internal/vocabulary"
)

// Weights of each signal in the overall score. Unavailable signals are dropped
// and the remaining weights re-normalized.
type Weights struct {
	Lexical    float64 `mapstructure:"lexical"`
	Skill      float64 `mapstructure:"skill"`
	Experience float64 `mapstructure:"experience"`
	Semantic   float64 `mapstructure:"semantic"`
}

// DefaultWeights returns the standard signal weights.
func DefaultWeights() Weights {
	return Weights{Lexical: 0.25, Skill: 0.35, Experience: 0.25, Semantic: 0.15}
}

// CategoryWeights weight each category's overlap ratio in the skill sub-score.
// Categories not listed weigh 1.0.
var CategoryWeights = map[types.Category]float64{
	types.CategoryProgrammingLanguages: 1.5,
	types.CategoryCertifications:       1.6,
	types.CategoryCloudPlatforms:       1.4,
	types.CategoryFrameworks:           1.3,
	types.CategoryDatabases:            1.2,
	types.CategoryMethodologies:        1.0,
	types.CategorySoftSkills:           0.8,
}

// SnapshotSource provides vocabulary snapshots; *vocabulary.Vocabulary satisfies it.
type SnapshotSource interface {
	Snapshot() *vocabulary.Snapshot
}

// Engine scores profiles against postings. It holds no per-query state.
type Engine struct {
	vocab      SnapshotSource
	analyzer   nlp.Analyzer
	semantic   nlp.Analyzer
	weights    Weights
	vectorizer VectorizerOptions
	logger     *zap.Logger
	now        func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithWeights overrides DefaultWeights.
func WithWeights(w Weights) Option {
	return func(e *Engine) { e.weights = w }
}

// WithAnalyzer enables structural skill extraction on posting requirements.
func WithAnalyzer(a nlp.Analyzer) Option {
	return func(e *Engine) { e.analyzer = a }
}

// WithSemantic enables the phrase-level semantic signal using a's noun phrases.
func WithSemantic(a nlp.Analyzer) Option {
	return func(e *Engine) { e.semantic = a }
}

// WithVectorizerOptions overrides DefaultVectorizerOptions.
func WithVectorizerOptions(opts VectorizerOptions) Option {
	return func(e *Engine) { e.vectorizer = opts }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithClock overrides time.Now, used to resolve "Present" in experience spans.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine builds an Engine reading skills from vocab.
func NewEngine(vocab SnapshotSource, opts ...Option) *Engine {
	e := &Engine{
		vocab:      vocab,
		weights:    DefaultWeights(),
		vectorizer: DefaultVectorizerOptions(),
		logger:     zap.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FitSpace fits a lexical space over postings with the engine's vectorizer options.
func (e *Engine) FitSpace(postings []types.Posting) *LexicalSpace {
	return FitSpace(postings, e.vectorizer)
}

// Score scores one profile against one posting within space. Space may be nil or lack the
// posting; a space over the posting alone is fitted then.
func (e *Engine) Score(space *LexicalSpace, profile *types.Profile, posting *types.Posting) types.ScoreResult {
	return e.NewSession().Prepare(space, profile).Score(posting)
}

// Session binds one vocabulary snapshot for a scoring pass, so learning that happens
// meanwhile does not change results half-way through.
type Session struct {
	engine    *Engine
	extractor *extraction.Extractor
	now       time.Time
}

// NewSession takes a vocabulary snapshot and returns a scoring session over it.
func (e *Engine) NewSession() *Session {
	var opts []extraction.Option
	if e.analyzer != nil {
		opts = append(opts, extraction.WithAnalyzer(e.analyzer))
	}
	return &Session{
		engine:    e,
		extractor: extraction.New(e.vocab.Snapshot(), opts...),
		now:       e.now(),
	}
}

// Extractor returns the session's skill extractor.
func (s *Session) Extractor() *extraction.Extractor {
	return s.extractor
}

// Candidate is a profile prepared for repeated scoring within one space.
type Candidate struct {
	session  *Session
	space    *LexicalSpace
	profile  *types.Profile
	document string
	vector   Vector
	skills   map[string]struct{}
	phrases  []string
}

// Prepare canonicalizes the profile's skills and projects its text into space once.
func (s *Session) Prepare(space *LexicalSpace, profile *types.Profile) *Candidate {
	c := &Candidate{
		session:  s,
		space:    space,
		profile:  profile,
		document: profile.Document(),
		skills:   make(map[string]struct{}, profile.Skills.Len()),
	}
	for _, name := range profile.Skills.Names() {
		c.skills[s.extractor.Canonical(name)] = struct{}{}
	}
	if space != nil {
		c.vector = space.vectorizer.Transform(c.document)
	}
	if s.engine.semantic != nil {
		c.phrases = normalizedPhrases(s.engine.semantic, c.document)
	}
	return c
}

// Score computes every sub-score of the candidate against posting and fuses them.
func (c *Candidate) Score(posting *types.Posting) types.ScoreResult {
	e := c.session.engine
	postingText := posting.Text()

	result := types.ScoreResult{
		PostingKey: posting.Key(),
		PostingID:  posting.ID,
		Title:      posting.Title,
		Company:    posting.Company,
	}

	var weighted, totalWeight float64
	use := func(signal string, value, weight float64) {
		result.Signals = append(result.Signals, signal)
		weighted += value * weight
		totalWeight += weight
	}

	result.LexicalSimilarity = c.lexical(posting)
	use(types.SignalLexical, result.LexicalSimilarity, e.weights.Lexical)

	postingSkills, ok := c.postingSkills(posting)
	if ok {
		result.SkillSimilarity, result.MatchingSkills, result.MissingSkills = c.skillMatch(postingSkills)
		use(types.SignalSkill, result.SkillSimilarity, e.weights.Skill)
	}
	if result.MatchingSkills == nil {
		result.MatchingSkills = []string{}
	}
	if result.MissingSkills == nil {
		result.MissingSkills = []string{}
	}

	if exp, ok := experienceMatch(c.profile.Experience, postingText, c.session.now); ok {
		result.ExperienceSimilarity = exp
		use(types.SignalExperience, exp, e.weights.Experience)
	}

	if e.semantic != nil {
		sem := nlp.Jaccard(c.phrases, normalizedPhrases(e.semantic, postingText))
		result.SemanticSimilarity = &sem
		use(types.SignalSemantic, sem, e.weights.Semantic)
	}

	if totalWeight > 0 {
		result.OverallScore = clamp01(weighted / totalWeight)
	}
	result.Notes = generateNotes(result)
	return result
}

// lexical returns the cosine of the candidate against the posting's corpus vector.
func (c *Candidate) lexical(posting *types.Posting) float64 {
	if c.space != nil {
		if vec, ok := c.space.Vector(posting.Key()); ok {
			return Cosine(c.vector, vec)
		}
	}
	local := FitSpace([]types.Posting{*posting}, c.session.engine.vectorizer)
	vec, _ := local.Vector(posting.Key())
	return Cosine(local.vectorizer.Transform(c.document), vec)
}

// postingSkills returns the posting's structured skills, or those extracted from its
// requirements text. The second result is false when the posting has neither.
func (c *Candidate) postingSkills(posting *types.Posting) (types.SkillSet, bool) {
	if len(posting.Skills) > 0 {
		return c.session.extractor.FromNames(posting.Skills), true
	}
	if strings.TrimSpace(posting.Requirements) == "" {
		return types.SkillSet{}, false
	}
	return c.session.extractor.Extract(posting.Requirements), true
}

// skillMatch computes the category-weighted overlap of the candidate's skills with
// postingSkills, plus the matching and missing names.
func (c *Candidate) skillMatch(postingSkills types.SkillSet) (float64, []string, []string) {
	matching := []string{}
	missing := []string{}
	for _, name := range postingSkills.Names() {
		if _, ok := c.skills[name]; ok {
			matching = append(matching, name)
		} else {
			missing = append(missing, name)
		}
	}
	if len(c.skills) == 0 || postingSkills.Len() == 0 {
		return 0, matching, missing
	}

	var weighted, totalWeight float64
	for _, cat := range types.AllCategories {
		names := postingSkills.Categories[cat]
		if len(names) == 0 {
			continue
		}
		hits := 0
		for _, name := range names {
			if _, ok := c.skills[name]; ok {
				hits++
			}
		}
		weight, ok := CategoryWeights[cat]
		if !ok {
			weight = 1.0
		}
		weighted += weight * float64(hits) / float64(len(names))
		totalWeight += weight
	}
	if totalWeight == 0 {
		// no category breakdown: flat overlap
		return float64(len(matching)) / float64(postingSkills.Len()), matching, missing
	}
	return clamp01(weighted / totalWeight), matching, missing
}

func normalizedPhrases(a nlp.Analyzer, text string) []string {
	raw := a.NounPhrases(text)
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = nlp.NormalizeTerm(p); p != "" {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// generateNotes creates a brief explanation of the score.
func generateNotes(r types.ScoreResult) string {
	var parts []string

	hasSkill := false
	for _, s := range r.Signals {
		if s == types.SignalSkill {
			hasSkill = true
		}
	}
	switch {
	case !hasSkill:
		parts = append(parts, "No posting skills to compare")
	case len(r.MatchingSkills) == 0:
		parts = append(parts, "No skill matches")
	case r.SkillSimilarity >= 0.7:
		parts = append(parts, fmt.Sprintf("Strong skill match (%s)", strings.Join(r.MatchingSkills, ", ")))
	case r.SkillSimilarity >= 0.4:
		parts = append(parts, fmt.Sprintf("Moderate skill match (%s)", strings.Join(r.MatchingSkills, ", ")))
	default:
		parts = append(parts, fmt.Sprintf("Weak skill match (%s)", strings.Join(r.MatchingSkills, ", ")))
	}
	if len(r.MissingSkills) > 0 {
		parts = append(parts, fmt.Sprintf("Missing %s", strings.Join(r.MissingSkills, ", ")))
	}

	if r.ExperienceSimilarity >= 0.8 {
		parts = append(parts, "Experience fits")
	} else if r.ExperienceSimilarity > 0 {
		parts = append(parts, "Partial experience fit")
	}

	if r.LexicalSimilarity >= 0.3 {
		parts = append(parts, "Good text overlap")
	} else if r.LexicalSimilarity > 0 {
		parts = append(parts, "Some text overlap")
	}

	return strings.Join(parts, ". ")
}

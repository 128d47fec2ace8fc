package similarity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobmatch/internal/nlp"
	"github.com/jonathan/jobmatch/internal/types"
	"github.com/jonathan/jobmatch/internal/vocabulary"
)

func newTestEngine(vocab *vocabulary.Vocabulary, opts ...Option) *Engine {
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return NewEngine(vocab, opts...)
}

func skillProfile(skills ...string) *types.Profile {
	return &types.Profile{
		Text:   "Engineer working with " + joinWords(skills),
		Skills: types.SkillSetFromNames(skills),
	}
}

func joinWords(words []string) string {
	out := ""
	for i, w := range words {
		if i > 0 {
			out += ", "
		}
		out += w
	}
	return out
}

func TestScore_SkillGapScenario(t *testing.T) {
	engine := newTestEngine(vocabulary.New())
	profile := skillProfile("python", "react", "sql")
	posting := &types.Posting{
		Title:        "Backend Developer",
		Company:      "Acme",
		Description:  "Build web services",
		Requirements: "Python, Django, PostgreSQL, 5+ years experience",
	}

	result := engine.Score(nil, profile, posting)
	assert.Equal(t, []string{"python"}, result.MatchingSkills)
	assert.Equal(t, []string{"django", "postgresql"}, result.MissingSkills)
	// programming 1/1 at 1.5, frameworks 0/1 at 1.3, databases 0/1 at 1.2
	assert.InDelta(t, 1.5/4.0, result.SkillSimilarity, 1e-9)
	assert.Equal(t, []string{types.SignalLexical, types.SignalSkill}, result.Signals)
	assert.Contains(t, result.Notes, "Weak skill match (python)")
	assert.Contains(t, result.Notes, "Missing django, postgresql")
}

func TestScore_EmptyRequirementsRenormalizes(t *testing.T) {
	engine := newTestEngine(vocabulary.New())
	profile := &types.Profile{
		Text:   "Go developer building APIs",
		Skills: types.SkillSetFromNames([]string{"go"}),
		Experience: types.Experience{
			Spans:  []types.Span{{Start: "2018", End: "2023"}},
			Titles: []string{"Backend Engineer"},
		},
	}
	posting := types.Posting{
		Title:       "Backend Engineer",
		Company:     "Acme",
		Description: "Build APIs in Go. 3+ years experience",
	}
	space := engine.FitSpace([]types.Posting{posting})

	result := engine.Score(space, profile, &posting)
	assert.Equal(t, 0.0, result.SkillSimilarity)
	assert.Equal(t, 1.0, result.ExperienceSimilarity)
	assert.Equal(t, []string{types.SignalLexical, types.SignalExperience}, result.Signals)
	assert.Nil(t, result.SemanticSimilarity)

	want := (0.25*result.LexicalSimilarity + 0.25*result.ExperienceSimilarity) / 0.5
	assert.InDelta(t, want, result.OverallScore, 1e-9)
	assert.Greater(t, result.LexicalSimilarity, 0.0)
}

func TestScore_EmptyProfileSkills(t *testing.T) {
	engine := newTestEngine(vocabulary.New())
	profile := &types.Profile{Text: "Generalist"}
	posting := &types.Posting{Title: "Engineer", Company: "Acme", Requirements: "Go and Docker"}

	result := engine.Score(nil, profile, posting)
	assert.Equal(t, 0.0, result.SkillSimilarity)
	assert.Contains(t, result.Signals, types.SignalSkill)
	assert.Equal(t, []string{"docker", "go"}, result.MissingSkills)
	assert.Empty(t, result.MatchingSkills)
}

func TestScore_StructuredPostingSkills(t *testing.T) {
	engine := newTestEngine(vocabulary.New())
	profile := skillProfile("golang", "k8s")
	posting := &types.Posting{
		Title:       "Platform Engineer",
		Company:     "Acme",
		Description: "Operate clusters",
		Skills:      []string{"Go", "Kubernetes"},
	}

	result := engine.Score(nil, profile, posting)
	assert.Equal(t, []string{"go", "kubernetes"}, result.MatchingSkills)
	assert.Equal(t, 1.0, result.SkillSimilarity)
	assert.Contains(t, result.Notes, "Strong skill match")
}

func TestScore_SemanticSignal(t *testing.T) {
	engine := newTestEngine(vocabulary.New(), WithSemantic(nlp.NewChunker()))
	profile := skillProfile("python")
	profile.Text = "I own the data pipelines"
	posting := &types.Posting{Title: "Data Engineer", Company: "Acme", Description: "Own the data pipelines.", Requirements: "Python."}

	result := engine.Score(nil, profile, posting)
	require.NotNil(t, result.SemanticSimilarity)
	// {python, data pipelines} shared out of {python, data pipelines, data engineer}
	assert.InDelta(t, 2.0/3.0, *result.SemanticSimilarity, 1e-9)
	assert.Contains(t, result.Signals, types.SignalSemantic)
}

func TestScore_OverallAlwaysBounded(t *testing.T) {
	engine := newTestEngine(vocabulary.New(), WithSemantic(nlp.NewChunker()), WithAnalyzer(nlp.NewChunker()))
	postings := []types.Posting{
		{Title: "Go Engineer", Company: "A", Description: "Go, Kubernetes, AWS", Requirements: "Go, Kubernetes, 3+ years experience"},
		{Title: "Frontend Developer", Company: "B", Description: "React and TypeScript", Requirements: ""},
		{Title: "DBA", Company: "C", Description: "", Requirements: "Minimum 10 years PostgreSQL"},
		{Title: "Go Engineer", Company: "D", Description: "Go Go Go Go", Requirements: "Go", Skills: []string{"go"}},
	}
	profiles := []*types.Profile{
		{},
		skillProfile("go", "kubernetes", "aws"),
		{Text: "Go Engineer", Skills: types.SkillSetFromNames([]string{"go"}), Experience: types.Experience{
			Spans:  []types.Span{{Start: "1990", End: "Present"}},
			Titles: []string{"Go Engineer"},
		}},
	}
	space := engine.FitSpace(postings)

	for _, profile := range profiles {
		for i := range postings {
			result := engine.Score(space, profile, &postings[i])
			assert.GreaterOrEqual(t, result.OverallScore, 0.0)
			assert.LessOrEqual(t, result.OverallScore, 1.0)
			for _, v := range []float64{result.LexicalSimilarity, result.SkillSimilarity, result.ExperienceSimilarity} {
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 1.0)
			}
		}
	}
}

func TestSession_UsesOneSnapshot(t *testing.T) {
	vocab := vocabulary.New()
	engine := newTestEngine(vocab)
	session := engine.NewSession()

	vocab.MergeExternal([]string{"svelte"})

	posting := &types.Posting{Title: "Frontend", Company: "Acme", Requirements: "Svelte and React"}
	profile := skillProfile("svelte", "react")

	inSession := session.Prepare(nil, profile).Score(posting)
	assert.Equal(t, []string{"react"}, inSession.MatchingSkills)

	fresh := engine.Score(nil, profile, posting)
	assert.Equal(t, []string{"react", "svelte"}, fresh.MatchingSkills)
}

func TestSkillMatch_FlatFallbackWithoutCategories(t *testing.T) {
	engine := newTestEngine(vocabulary.New())
	candidate := engine.NewSession().Prepare(nil, skillProfile("go", "rust"))

	posting := types.SkillSet{Confidence: map[string]float64{"go": 1, "java": 1, "rust": 1, "zig": 1}}
	score, matching, missing := candidate.skillMatch(posting)
	assert.InDelta(t, 0.5, score, 1e-9)
	assert.Equal(t, []string{"go", "rust"}, matching)
	assert.Equal(t, []string{"java", "zig"}, missing)
}

func TestWithWeights(t *testing.T) {
	engine := newTestEngine(vocabulary.New(), WithWeights(Weights{Lexical: 0, Skill: 1}))
	profile := skillProfile("go")
	posting := &types.Posting{Title: "X", Company: "Y", Requirements: "Go and Rust"}

	result := engine.Score(nil, profile, posting)
	assert.InDelta(t, result.SkillSimilarity, result.OverallScore, 1e-9)
}

package gap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobmatch/internal/similarity"
	"github.com/jonathan/jobmatch/internal/types"
	"github.com/jonathan/jobmatch/internal/vocabulary"
)

func TestAnalyze_PartialMatch(t *testing.T) {
	report := Analyze(
		[]string{"python", "react", "sql"},
		[]string{"python", "django", "postgresql"},
	)

	assert.Equal(t, []string{"python"}, report.Matching)
	assert.Equal(t, []string{"django", "postgresql"}, report.Missing)
	assert.Equal(t, []string{"react", "sql"}, report.Extra)
	assert.Equal(t, 33.33, report.MatchPercentage)
}

func TestAnalyze_EmptyPosting(t *testing.T) {
	report := Analyze([]string{"python"}, nil)

	assert.Empty(t, report.Matching)
	assert.Empty(t, report.Missing)
	assert.Equal(t, []string{"python"}, report.Extra)
	assert.Equal(t, 0.0, report.MatchPercentage)
}

func TestAnalyze_EmptyCandidate(t *testing.T) {
	report := Analyze(nil, []string{"go", "docker"})

	assert.Empty(t, report.Matching)
	assert.Equal(t, []string{"docker", "go"}, report.Missing)
	assert.NotNil(t, report.Extra)
	assert.Equal(t, 0.0, report.MatchPercentage)
}

func TestAnalyze_FullMatchIgnoresCaseAndDuplicates(t *testing.T) {
	report := Analyze([]string{"Go", " docker", "go"}, []string{"go", "Docker", "DOCKER"})

	assert.Equal(t, []string{"docker", "go"}, report.Matching)
	assert.Empty(t, report.Missing)
	assert.Empty(t, report.Extra)
	assert.Equal(t, 100.0, report.MatchPercentage)
}

func TestAnalyze_Completeness(t *testing.T) {
	cases := []struct {
		candidate []string
		posting   []string
	}{
		{[]string{"a", "b"}, []string{"b", "c", "d"}},
		{nil, []string{"x"}},
		{[]string{"x"}, []string{"x"}},
		{[]string{"a", "b", "c"}, nil},
	}

	for _, tc := range cases {
		report := Analyze(tc.candidate, tc.posting)

		union := map[string]bool{}
		for _, s := range report.Matching {
			union[s] = true
		}
		for _, s := range report.Missing {
			assert.False(t, union[s], "%q both matching and missing", s)
			union[s] = true
		}
		assert.Len(t, union, len(normalize(tc.posting, nil)))
		for _, s := range tc.posting {
			assert.True(t, union[s])
		}
		assert.GreaterOrEqual(t, report.MatchPercentage, 0.0)
		assert.LessOrEqual(t, report.MatchPercentage, 100.0)
	}
}

func TestAnalyzeSkillSets(t *testing.T) {
	report := AnalyzeSkillSets(
		types.SkillSetFromNames([]string{"python", "react"}),
		types.SkillSetFromNames([]string{"python", "django"}),
	)
	assert.Equal(t, []string{"python"}, report.Matching)
	assert.Equal(t, []string{"django"}, report.Missing)
	assert.Equal(t, []string{"react"}, report.Extra)
	assert.Equal(t, 50.0, report.MatchPercentage)
}

func TestAnalyzeResult(t *testing.T) {
	profile := &types.Profile{Skills: types.SkillSetFromNames([]string{"python", "react", "sql"})}
	result := types.ScoreResult{
		MatchingSkills: []string{"python"},
		MissingSkills:  []string{"django", "postgresql"},
	}

	report := AnalyzeResult(profile, result, nil)
	assert.Equal(t, []string{"python"}, report.Matching)
	assert.Equal(t, []string{"django", "postgresql"}, report.Missing)
	assert.Equal(t, []string{"react", "sql"}, report.Extra)
	assert.Equal(t, 33.33, report.MatchPercentage)
}

func TestAnalyzeResult_AgreesWithScoreOnSynonyms(t *testing.T) {
	engine := similarity.NewEngine(vocabulary.New())
	session := engine.NewSession()
	profile := &types.Profile{
		Text:   "Backend engineer",
		Skills: types.SkillSetFromNames([]string{"golang", "postgres", "react"}),
	}
	posting := &types.Posting{Title: "Platform Engineer", Company: "Acme", Requirements: "Go, PostgreSQL, Kubernetes"}

	result := session.Prepare(nil, profile).Score(posting)
	require.Equal(t, []string{"go", "postgresql"}, result.MatchingSkills)
	require.Equal(t, []string{"kubernetes"}, result.MissingSkills)

	report := AnalyzeResult(profile, result, session.Extractor().Canonical)
	assert.Equal(t, result.MatchingSkills, report.Matching)
	assert.Equal(t, result.MissingSkills, report.Missing)
	assert.Equal(t, []string{"react"}, report.Extra)
	assert.Equal(t, 66.67, report.MatchPercentage)
	assert.NotContains(t, report.Suggestions, "kubernetes")
	assert.Contains(t, report.Suggestions, "docker")
}

func TestSuggest(t *testing.T) {
	assert.Equal(t, []string{"django", "flask", "numpy", "pandas", "scikit-learn"}, Suggest([]string{"Python"}))
	assert.Equal(t, []string{"flask", "numpy", "scikit-learn"}, Suggest([]string{"python", "django", "pandas"}))
	assert.Empty(t, Suggest([]string{"cobol"}))
	assert.NotNil(t, Suggest(nil))
}

func TestAnalyze_SuggestionsSkipPostingSkills(t *testing.T) {
	report := Analyze([]string{"aws"}, []string{"aws", "kubernetes"})
	assert.Equal(t, []string{"docker", "jenkins", "terraform"}, report.Suggestions)
}

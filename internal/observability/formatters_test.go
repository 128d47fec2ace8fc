package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobmatch/internal/refresh"
	"github.com/jonathan/jobmatch/internal/types"
	"github.com/jonathan/jobmatch/internal/vocabulary"
)

func TestPrintSkills(t *testing.T) {
	var buf bytes.Buffer
	set := types.NewSkillSet()
	set.Confidence["go"] = 1.0
	set.Confidence["postgresql"] = 0.8
	set.Categories[types.CategoryProgrammingLanguages] = []string{"go"}
	set.Categories[types.CategoryDatabases] = []string{"postgresql"}
	set.Degraded = []string{"entities"}

	NewPrinter(&buf).PrintSkills(set)
	out := buf.String()

	assert.Contains(t, out, "SKILLS (2)")
	assert.Contains(t, out, "programming_languages:")
	assert.Contains(t, out, "postgresql")
	assert.Contains(t, out, "0.80")
	assert.Contains(t, out, "entities unavailable")
	assert.Less(t, strings.Index(out, "programming_languages"), strings.Index(out, "databases"))
}

func TestPrintSkills_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintSkills(types.NewSkillSet())
	assert.Contains(t, buf.String(), "No skills found")
}

func TestPrintMatches(t *testing.T) {
	var buf bytes.Buffer
	sem := 0.5
	NewPrinter(&buf).PrintMatches([]types.ScoreResult{
		{
			Title: "Backend Developer", Company: "Acme", OverallScore: 0.72,
			SkillSimilarity: 1, SemanticSimilarity: &sem,
			MatchingSkills: []string{"go", "sql"}, MissingSkills: []string{},
			Notes: "Strong skill match (go, sql)",
		},
		{Title: "Data Engineer", Company: "Globex", OverallScore: 0.31, MissingSkills: []string{"a", "b", "c", "d", "e", "f", "g"}},
	})
	out := buf.String()

	assert.Contains(t, out, "TOP 2 MATCHES")
	assert.Contains(t, out, "1. Backend Developer @ Acme  [0.72]")
	assert.Contains(t, out, "lex 0.00  skill 1.00  exp 0.00  sem 0.50")
	assert.Contains(t, out, "matching: go, sql")
	assert.Contains(t, out, "missing:  -")
	assert.Contains(t, out, "(+2 more)")
	assert.Contains(t, out, "Strong skill match")
}

func TestPrintMatches_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintMatches(nil)
	assert.Contains(t, buf.String(), "No postings to match against")
}

func TestPrintGap(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintGap("Backend Developer", types.GapReport{
		Matching:        []string{"python"},
		Missing:         []string{"django", "postgresql"},
		Extra:           []string{"react", "sql"},
		MatchPercentage: 33.33,
	})
	out := buf.String()

	assert.Contains(t, out, "SKILL GAP: Backend Developer")
	assert.Contains(t, out, "Match: 33.33%")
	assert.Contains(t, out, "Missing (2):  django, postgresql")
	assert.Contains(t, out, "Extra (2):    react, sql")
	assert.NotContains(t, out, "Consider:")

	buf.Reset()
	NewPrinter(&buf).PrintGap("", types.GapReport{
		Missing:     []string{"kubernetes"},
		Suggestions: []string{"docker", "terraform"},
	})
	assert.Contains(t, buf.String(), "Consider:     docker, terraform")
}

func TestPrintTrending(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintTrending([]vocabulary.Record{
		{Name: "python", Frequency: 12, Category: types.CategoryProgrammingLanguages},
		{Name: "react", Frequency: 7, Category: types.CategoryFrameworks},
	})
	out := buf.String()

	assert.Contains(t, out, "TRENDING SKILLS")
	assert.Contains(t, out, " 1. python")
	assert.Contains(t, out, "frameworks")

	buf.Reset()
	NewPrinter(&buf).PrintTrending(nil)
	assert.Contains(t, buf.String(), "No skills sighted yet")
}

func TestPrintRefresh(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRefresh(nil)
	assert.Empty(t, buf.String())

	p.PrintRefresh(&refresh.Report{Skipped: true, At: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)})
	assert.Contains(t, buf.String(), "Skipped: last refresh at 2024-05-01 12:00")

	buf.Reset()
	report := &refresh.Report{
		Postings: 3,
		Learned:  []string{"elixir"},
		Merged:   []string{"svelte"},
		Tagged:   []string{},
		Failed:   map[string]string{"remoteok": errors.New("status 503").Error(), "github": "timeout"},
	}
	report.Ingest.Added = 2
	report.Ingest.Replaced = 1
	p.PrintRefresh(report)
	out := buf.String()

	assert.Contains(t, out, "Postings: 3 (added 2, replaced 1, skipped 0)")
	assert.Contains(t, out, "Learned:  elixir")
	assert.Contains(t, out, "Tagged:   -")
	assert.Less(t, strings.Index(out, "github: timeout"), strings.Index(out, "remoteok: status 503"))
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).printBox("T", strings.Repeat("é", 200))

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), line)
	}
	assert.Contains(t, buf.String(), "...")
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf).PrintJSON(types.GapReport{Matching: []string{"go"}, Missing: []string{}, Extra: []string{}, MatchPercentage: 100}))

	var decoded types.GapReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 100.0, decoded.MatchPercentage)
	assert.Contains(t, buf.String(), "\n  \"matching\"")
}

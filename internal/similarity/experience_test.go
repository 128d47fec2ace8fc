package similarity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/jobmatch/internal/types"
)

var testNow = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func TestRequiredYears(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"Python, Django, PostgreSQL, 5+ years experience", 5},
		{"3 years of professional experience with Go", 3},
		{"Minimum of 4 years in backend roles", 4},
		{"at least 2 years building APIs", 2},
		{"7+ years in distributed systems", 7},
		{"No experience required", 0},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, RequiredYears(tt.text))
		})
	}
}

func TestSpanYears(t *testing.T) {
	tests := []struct {
		name string
		span types.Span
		want float64
	}{
		{"years only", types.Span{Start: "2018", End: "2021"}, 3},
		{"months", types.Span{Start: "2020-01", End: "2021-07"}, 1.5},
		{"month names", types.Span{Start: "Jan 2022", End: "Jul 2022"}, 0.5},
		{"present", types.Span{Start: "2022-06", End: "Present"}, 2},
		{"unreadable", types.Span{Start: "a while ago", End: "later"}, 1},
		{"reversed", types.Span{Start: "2021", End: "2019"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SpanYears(tt.span, testNow), 1e-9)
		})
	}
}

func TestCandidateYears(t *testing.T) {
	spans := []types.Span{{Start: "2015", End: "2018"}, {Start: "2018", End: "2020"}}
	assert.InDelta(t, 5.0, CandidateYears(spans, testNow), 1e-9)
}

func TestDurationMatch(t *testing.T) {
	d, ok := durationMatch(2, 4)
	assert.True(t, ok)
	assert.InDelta(t, 0.5, d, 1e-9)

	d, ok = durationMatch(10, 4)
	assert.True(t, ok)
	assert.Equal(t, 1.0, d)

	_, ok = durationMatch(0, 4)
	assert.False(t, ok)
	_, ok = durationMatch(3, 0)
	assert.False(t, ok)
}

func TestTitleMatch(t *testing.T) {
	posting := "Senior Backend Engineer to build payment APIs"

	score, ok := titleMatch([]string{"Data Analyst", "Backend Engineer"}, posting)
	assert.True(t, ok)
	assert.Equal(t, 1.0, score)

	score, ok = titleMatch([]string{"Platform Engineer"}, posting)
	assert.True(t, ok)
	// {platform, engineer} vs {senior, backend, engineer, build, payment, apis}
	assert.InDelta(t, 1.0/7.0, score, 1e-9)

	_, ok = titleMatch(nil, posting)
	assert.False(t, ok)
}

func TestExperienceMatch_DropsMissingFactors(t *testing.T) {
	exp := types.Experience{Titles: []string{"Backend Engineer"}}
	score, ok := experienceMatch(exp, "Backend Engineer wanted", testNow)
	assert.True(t, ok)
	assert.Equal(t, 1.0, score)

	exp = types.Experience{Spans: []types.Span{{Start: "2020", End: "2022"}}}
	score, ok = experienceMatch(exp, "4+ years experience", testNow)
	assert.True(t, ok)
	assert.InDelta(t, 0.5, score, 1e-9)

	_, ok = experienceMatch(types.Experience{}, "4+ years experience", testNow)
	assert.False(t, ok)
}

package vocabulary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/jobmatch/internal/types"
)

func TestCategorize_DefaultRules(t *testing.T) {
	tests := []struct {
		name string
		want types.Category
	}{
		{"redis", types.CategoryDatabases},
		{"python", types.CategoryProgrammingLanguages},
		{"javascript", types.CategoryProgrammingLanguages},
		{"go", types.CategoryProgrammingLanguages},
		{"golang", types.CategoryProgrammingLanguages},
		{"django", types.CategoryFrameworks},
		{"mongodb", types.CategoryDatabases},
		{"cloud.js", types.CategoryFrameworks},
		{"vite.js", types.CategoryFrameworks},
		{"google cloud", types.CategoryCloudPlatforms},
		{"cloudflare workers", types.CategoryCloudPlatforms},
		{"github actions", types.CategoryTools},
		{"helm", types.CategoryTools},
		{"overwhelm", types.CategoryGeneral},
		{"scalable", types.CategoryGeneral},
		{"leadership", types.CategoryGeneral},
		{"  Redis ", types.CategoryDatabases},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(DefaultRules, tt.name))
		})
	}
}

func TestCategorize_RedisIsStableAcrossCalls(t *testing.T) {
	for i := 0; i < 100; i++ {
		assert.Equal(t, types.CategoryDatabases, Categorize(DefaultRules, "redis"))
	}
}

func TestCategorize_FirstRuleWins(t *testing.T) {
	rules := []CategoryRule{
		{Category: types.CategoryTools, Substrings: []string{"redis"}},
		{Category: types.CategoryDatabases, Substrings: []string{"redis"}},
	}
	assert.Equal(t, types.CategoryTools, Categorize(rules, "redis"))
	assert.Equal(t, types.CategoryGeneral, Categorize(rules, "postgres"))
}

func TestCategoryRule_Tokens(t *testing.T) {
	rule := CategoryRule{Category: types.CategoryProgrammingLanguages, Tokens: []string{"go"}}
	assert.True(t, rule.Matches("go"))
	assert.True(t, rule.Matches("go modules"))
	assert.True(t, rule.Matches("go-kit"))
	assert.False(t, rule.Matches("django"))
	assert.False(t, rule.Matches("google"))
}

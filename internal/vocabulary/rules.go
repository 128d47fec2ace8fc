package vocabulary

import (
	"strings"

	"github.com/jonathan/jobmatch/internal/types"
)

// CategoryRule assigns Category to a name containing any of Substrings, or having any of
// Tokens as a whole token. Tokens exist for short names that would otherwise match inside
// unrelated words ("go" inside "django" or "mongodb").
type CategoryRule struct {
	Category   types.Category
	Substrings []string
	Tokens     []string
}

// Matches reports whether the normalized name satisfies the rule.
func (r CategoryRule) Matches(name string) bool {
	for _, sub := range r.Substrings {
		if strings.Contains(name, sub) {
			return true
		}
	}
	if len(r.Tokens) == 0 {
		return false
	}
	for _, tok := range nameTokens(name) {
		for _, want := range r.Tokens {
			if tok == want {
				return true
			}
		}
	}
	return false
}

// nameTokens splits a skill name on anything that is not a letter, digit, '+' or '#'.
func nameTokens(name string) []string {
	return strings.FieldsFunc(name, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '+', r == '#':
			return false
		}
		return true
	})
}

// DefaultRules is the ordered classifier. The first matching rule wins, so a name matching
// several rules ("cloud.js") takes the earliest category ("frameworks").
var DefaultRules = []CategoryRule{
	{
		Category: types.CategoryProgrammingLanguages,
		Substrings: []string{
			"python", "java", "typescript", "c++", "c#", "php", "ruby",
			"kotlin", ".py",
		},
		Tokens: []string{"go", "golang", "rust", "scala", "swift"},
	},
	{
		Category: types.CategoryFrameworks,
		Substrings: []string{
			"react", "angular", "vue", "django", "flask", "spring", "express",
			"laravel", "rails", "framework", ".js", "fastapi", "nuxt", "graphql",
		},
		Tokens: []string{"js"},
	},
	{
		Category: types.CategoryDatabases,
		Substrings: []string{
			"sql", "postgres", "mongo", "redis", "database", "db", "oracle",
			"cassandra", "elasticsearch", "dynamo",
		},
	},
	{
		Category: types.CategoryCloudPlatforms,
		Substrings: []string{
			"aws", "azure", "gcp", "google cloud", "cloud", "heroku",
			"digitalocean", "vercel", "netlify",
		},
	},
	{
		Category: types.CategoryTools,
		Substrings: []string{
			"git", "docker", "kubernetes", "k8s", "jenkins", "terraform",
			"ansible", "webpack", "npm", "yarn", "kafka", "prometheus", "grafana",
		},
		Tokens: []string{"helm", "linux", "jira"},
	},
}

// Categorize classifies name with rules, falling back to general.
func Categorize(rules []CategoryRule, name string) types.Category {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, rule := range rules {
		if rule.Matches(name) {
			return rule.Category
		}
	}
	return types.CategoryGeneral
}

package vocabulary

import "github.com/jonathan/jobmatch/internal/types"

// BaseTaxonomy is the seeded set of well-known skills. Base records never change category.
var BaseTaxonomy = map[types.Category][]string{
	types.CategoryProgrammingLanguages: {
		"python", "java", "javascript", "typescript", "c++", "c#", "go",
		"rust", "ruby", "php", "swift", "kotlin", "scala",
	},
	types.CategoryFrameworks: {
		"react", "angular", "vue", "django", "flask", "spring", "laravel",
		"rails", "express", "node.js", "next.js", "fastapi", "graphql",
	},
	types.CategoryDatabases: {
		"sql", "mysql", "postgresql", "mongodb", "redis", "sqlite", "oracle",
		"cassandra", "elasticsearch", "dynamodb",
	},
	types.CategoryCloudPlatforms: {
		"aws", "azure", "gcp", "google cloud", "heroku", "digitalocean",
		"vercel", "netlify", "cloudflare",
	},
	types.CategoryTools: {
		"git", "docker", "kubernetes", "jenkins", "terraform", "ansible",
		"webpack", "npm", "yarn", "helm", "linux", "kafka", "prometheus",
		"grafana", "jira",
	},
}

// ExtendedCatalog covers the categories the surface heuristics never assign.
// It is installed as base records when the vocabulary is built WithExtendedCatalog.
var ExtendedCatalog = map[types.Category][]string{
	types.CategorySoftSkills: {
		"leadership", "communication", "teamwork", "problem solving",
		"time management", "critical thinking", "collaboration", "mentoring",
		"public speaking", "negotiation", "decision making",
	},
	types.CategoryMethodologies: {
		"agile", "scrum", "kanban", "devops", "ci/cd", "tdd", "bdd",
		"pair programming", "code review", "microservices", "rest api",
	},
	types.CategoryCertifications: {
		"aws certified", "azure certified", "google certified", "cissp",
		"comptia", "pmp", "scrum master", "itil", "six sigma", "prince2", "cka",
	},
}

package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobmatch/internal/schemas"
	"github.com/jonathan/jobmatch/internal/types"
)

func TestLoadPostings_JSON(t *testing.T) {
	path := writeFile(t, "postings.json", []byte(`[
		{"title": "Backend Developer", "company": "Acme", "description": "Build APIs",
		 "requirements": "Python, Django", "skills": ["python", "django"]},
		{"title": "No Company", "description": "kept for the index to reject"}
	]`))

	postings, err := LoadPostings(path)
	require.NoError(t, err)
	require.Len(t, postings, 2)
	assert.Equal(t, "Backend Developer", postings[0].Title)
	assert.Equal(t, []string{"python", "django"}, postings[0].Skills)
	assert.Empty(t, postings[1].Company)
}

func TestLoadPostings_JSONSchemaViolation(t *testing.T) {
	path := writeFile(t, "postings.json", []byte(`[{"title": ["not", "a", "string"]}]`))

	_, err := LoadPostings(path)
	var loadErr *PostingLoadError
	require.ErrorAs(t, err, &loadErr)
	var validationErr *schemas.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestLoadPostings_CSV(t *testing.T) {
	csv := "\ufefftitle,company,location,description,requirements,salary_range,job_type,experience_level,skills,extra\n" +
		"Data Scientist,Globex,NYC,\"Models, pipelines\",\"Python, SQL\",$120k,Full-time,Senior,python;sql,ignored\n" +
		"Frontend Engineer,Hooli,,React apps,,,,,\n"
	path := writeFile(t, "postings.csv", []byte(csv))

	postings, err := LoadPostings(path)
	require.NoError(t, err)
	require.Len(t, postings, 2)

	assert.Equal(t, types.Posting{
		Title:        "Data Scientist",
		Company:      "Globex",
		Location:     "NYC",
		Description:  "Models, pipelines",
		Requirements: "Python, SQL",
		Salary:       "$120k",
		Type:         "Full-time",
		Level:        "Senior",
		Skills:       []string{"python", "sql"},
	}, postings[0])
	assert.Equal(t, "Frontend Engineer", postings[1].Title)
	assert.Empty(t, postings[1].Salary)
	assert.Nil(t, postings[1].Skills)
}

func TestParsePostingsCSV_EmptyAndBadHeader(t *testing.T) {
	postings, err := ParsePostingsCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, postings)

	_, err = ParsePostingsCSV(strings.NewReader("foo,bar\n1,2\n"))
	assert.Error(t, err)
}

func TestLoadPostings_Errors(t *testing.T) {
	_, err := LoadPostings(writeFile(t, "postings.xml", []byte("<x/>")))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = LoadPostings("/nonexistent/postings.json")
	var loadErr *PostingLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestDeriveRequirements(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        string
	}{
		{
			name:        "labelled section",
			description: "About us\nRequirements: Go, Kafka and Postgres\n\nBenefits: lots",
			want:        "Go, Kafka and Postgres",
		},
		{
			name:        "section ends at next line starting with a letter",
			description: "Qualifications:\n- 3+ years Python\n- SQL\nWhat we offer",
			want:        "- 3+ years Python\n- SQL",
		},
		{
			name:        "no section",
			description: "Join our team building APIs.",
			want:        "Join our team building APIs.",
		},
		{
			name:        "empty",
			description: "  ",
			want:        "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveRequirements(tt.description))
		})
	}
}

func TestDeriveRequirements_Truncates(t *testing.T) {
	long := strings.Repeat("a", 250)
	assert.Equal(t, strings.Repeat("a", 200)+"...", DeriveRequirements(long))
	assert.Equal(t, strings.Repeat("b", 200), DeriveRequirements("Skills: "+strings.Repeat("b", 250)))
}

func TestExperienceLevel(t *testing.T) {
	assert.Equal(t, LevelSenior, ExperienceLevel("Senior engineer"))
	assert.Equal(t, LevelSenior, ExperienceLevel("Requires 5+ years of Go"))
	assert.Equal(t, LevelJunior, ExperienceLevel("Great for a new grad"))
	assert.Equal(t, LevelMid, ExperienceLevel("Backend engineer"))
	assert.Equal(t, LevelMid, ExperienceLevel(""))
}

func TestNormalizePosting(t *testing.T) {
	p := types.Posting{
		Title:       "  Lead Developer ",
		Company:     " Acme",
		Description: "We build things.\n\n\n\nSkills: Go, Rust",
	}
	NormalizePosting(&p)

	assert.Equal(t, "Lead Developer", p.Title)
	assert.Equal(t, "Acme", p.Company)
	assert.Equal(t, "We build things.\n\nSkills: Go, Rust", p.Description)
	assert.Equal(t, "Go, Rust", p.Requirements)
	assert.Equal(t, LevelSenior, p.Level)
}

func TestNormalizePosting_KeepsExistingFields(t *testing.T) {
	p := types.Posting{Title: "Dev", Company: "X", Description: "Skills: Go", Requirements: "Python", Level: "Junior"}
	NormalizePosting(&p)

	assert.Equal(t, "Python", p.Requirements)
	assert.Equal(t, "Junior", p.Level)
}

func TestSamplePostings(t *testing.T) {
	postings, err := SamplePostings()
	require.NoError(t, err)
	require.Len(t, postings, 10)

	keys := make(map[string]struct{}, len(postings))
	for i := range postings {
		require.NoError(t, postings[i].Validate(), postings[i].Title)
		assert.Equal(t, "sample", postings[i].Source)
		assert.NotEmpty(t, postings[i].Requirements)
		keys[postings[i].Key()] = struct{}{}
	}
	assert.Len(t, keys, len(postings))
	assert.Equal(t, "Senior Software Engineer", postings[0].Title)

	again, err := SamplePostings()
	require.NoError(t, err)
	again[0].Title = "changed"
	fresh, _ := SamplePostings()
	assert.Equal(t, "Senior Software Engineer", fresh[0].Title)
}

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfile_Document(t *testing.T) {
	p := Profile{
		Text:   "Raw resume text",
		Skills: SkillSetFromNames([]string{"sql", "python"}),
		Experience: Experience{
			Spans:  []Span{{Start: "2019", End: "2021", Description: "Built ETL jobs"}},
			Titles: []string{"Data Engineer"},
		},
		Education: []Education{{DegreeType: "bachelor", Field: "Computer Science"}},
	}

	assert.Equal(t, "python sql Data Engineer Built ETL jobs bachelor Computer Science Raw resume text", p.Document())
}

func TestProfile_DocumentEmpty(t *testing.T) {
	p := Profile{}
	assert.Equal(t, "", p.Document())
}

package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory(" Databases ")
	assert.True(t, ok)
	assert.Equal(t, CategoryDatabases, c)

	c, ok = ParseCategory("astrology")
	assert.False(t, ok)
	assert.Equal(t, CategoryGeneral, c)
}

func TestSkillSetFromNames(t *testing.T) {
	set := SkillSetFromNames([]string{"Python", " react ", "python", ""})
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, []string{"python", "react"}, set.Names())
	assert.Equal(t, []string{"python", "react"}, set.Categories[CategoryGeneral])
	assert.True(t, set.Has("react"))
	assert.False(t, set.Has("sql"))
}

func TestSkillSet_AtLeast(t *testing.T) {
	set := NewSkillSet()
	set.Confidence["go"] = 1.0
	set.Confidence["docker"] = 0.4
	set.Confidence["helm"] = 0.3
	assert.Equal(t, []string{"docker", "go"}, set.AtLeast(0.4))
}

func TestSkillSet_Err(t *testing.T) {
	set := NewSkillSet()
	assert.NoError(t, set.Err())

	set.Degraded = []string{"structural"}
	err := set.Err()
	assert.True(t, errors.Is(err, ErrExtractionDegraded))
	assert.Contains(t, err.Error(), "structural")
}

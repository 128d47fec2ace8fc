// Package types provides type definitions for structured data used throughout the jobmatch system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Category is the fixed taxonomy bucket a skill belongs to.
type Category string

// Skill categories
const (
	CategoryProgrammingLanguages Category = "programming_languages"
	CategoryFrameworks           Category = "frameworks"
	CategoryDatabases            Category = "databases"
	CategoryCloudPlatforms       Category = "cloud_platforms"
	CategoryTools                Category = "tools"
	CategorySoftSkills           Category = "soft_skills"
	CategoryCertifications       Category = "certifications"
	CategoryMethodologies        Category = "methodologies"
	CategoryGeneral              Category = "general"
)

// AllCategories lists every category in display order.
var AllCategories = []Category{
	CategoryProgrammingLanguages,
	CategoryFrameworks,
	CategoryDatabases,
	CategoryCloudPlatforms,
	CategoryTools,
	CategorySoftSkills,
	CategoryCertifications,
	CategoryMethodologies,
	CategoryGeneral,
}

// ParseCategory converts a string to a Category, reporting whether it is known.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllCategories {
		if c == known {
			return c, true
		}
	}
	return CategoryGeneral, false
}

// ErrExtractionDegraded marks a skill set produced while one or more extraction methods were unavailable.
var ErrExtractionDegraded = errors.New("extraction degraded")

// SkillSet is the confidence-scored set of skills extracted from one document.
type SkillSet struct {
	Confidence map[string]float64   `json:"confidence"`
	Categories map[Category][]string `json:"categories"`
	Degraded   []string              `json:"degraded,omitempty"` // extraction methods that were unavailable
}

// NewSkillSet returns an empty, ready to use SkillSet.
func NewSkillSet() SkillSet {
	return SkillSet{
		Confidence: make(map[string]float64),
		Categories: make(map[Category][]string),
	}
}

// SkillSetFromNames builds a SkillSet with full confidence for every name, all filed under general.
// Callers with access to a vocabulary should categorize instead.
func SkillSetFromNames(names []string) SkillSet {
	set := NewSkillSet()
	for _, name := range names {
		n := strings.ToLower(strings.TrimSpace(name))
		if n == "" {
			continue
		}
		if _, ok := set.Confidence[n]; ok {
			continue
		}
		set.Confidence[n] = 1.0
		set.Categories[CategoryGeneral] = append(set.Categories[CategoryGeneral], n)
	}
	sort.Strings(set.Categories[CategoryGeneral])
	return set
}

// Names returns the skill names in sorted order.
func (s SkillSet) Names() []string {
	names := make([]string, 0, len(s.Confidence))
	for name := range s.Confidence {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of skills in the set.
func (s SkillSet) Len() int {
	return len(s.Confidence)
}

// Has reports whether the set contains name.
func (s SkillSet) Has(name string) bool {
	_, ok := s.Confidence[name]
	return ok
}

// AtLeast returns the sorted names whose confidence is >= min.
func (s SkillSet) AtLeast(min float64) []string {
	names := make([]string, 0, len(s.Confidence))
	for name, conf := range s.Confidence {
		if conf >= min {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Err reports ErrExtractionDegraded when any extraction method was unavailable.
func (s SkillSet) Err() error {
	if len(s.Degraded) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s unavailable", ErrExtractionDegraded, strings.Join(s.Degraded, ", "))
}

package types

import "strings"

// Span is one entry of a candidate's work history.
// Start and End hold free-form dates such as "2019", "2019-03", "Mar 2019" or "Present".
type Span struct {
	Start       string `json:"start"`
	End         string `json:"end"`
	Description string `json:"description,omitempty"`
}

// Experience is the structured work history of a candidate.
type Experience struct {
	Spans  []Span   `json:"spans"`
	Titles []string `json:"titles"`
}

// Education is one degree entry.
type Education struct {
	DegreeType string `json:"degree_type"`
	Field      string `json:"field,omitempty"`
}

// Contact holds the contact details found in a resume.
type Contact struct {
	Emails   []string `json:"emails"`
	Phones   []string `json:"phones"`
	LinkedIn []string `json:"linkedin"`
}

// Profile represents a candidate parsed from a resume. Contact details take no part in scoring.
type Profile struct {
	Name       string      `json:"name,omitempty"`
	Source     string      `json:"source,omitempty"`
	Contact    Contact     `json:"contact"`
	Text       string      `json:"text"`
	Skills     SkillSet    `json:"skills"`
	Experience Experience  `json:"experience"`
	Education  []Education `json:"education,omitempty"`
}

// Document concatenates every textual field of the profile for lexical comparison:
// skills, title history, experience descriptions, education fields and the raw text.
func (p *Profile) Document() string {
	var b strings.Builder
	write := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(s)
	}

	for _, skill := range p.Skills.Names() {
		write(skill)
	}
	for _, title := range p.Experience.Titles {
		write(title)
	}
	for _, span := range p.Experience.Spans {
		write(span.Description)
	}
	for _, edu := range p.Education {
		write(edu.DegreeType)
		write(edu.Field)
	}
	write(p.Text)
	return b.String()
}

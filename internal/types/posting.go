package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Sentinel values for optional posting fields
const (
	NotSpecified       = "Not specified"
	DefaultPostingType = "Full-time"
)

var validate = validator.New()

// Posting represents one job posting in the corpus.
type Posting struct {
	ID           string   `json:"id,omitempty"`
	Title        string   `json:"title" validate:"required"`
	Company      string   `json:"company" validate:"required"`
	Location     string   `json:"location,omitempty"`
	Description  string   `json:"description" validate:"required_without=Requirements"`
	Requirements string   `json:"requirements" validate:"required_without=Description"`
	Skills       []string `json:"skills,omitempty"` // structured skills, when the source provides them
	Salary       string   `json:"salary,omitempty"`
	Type         string   `json:"type,omitempty"`
	Level        string   `json:"level,omitempty"`
	Source       string   `json:"source,omitempty"`
	URL          string   `json:"url,omitempty"`
	PostedDate   string   `json:"posted_date,omitempty"`
}

// PostingKey builds the case-insensitive deduplication key for a (title, company) pair.
func PostingKey(title, company string) string {
	return strings.ToLower(strings.TrimSpace(title)) + "|" + strings.ToLower(strings.TrimSpace(company))
}

// Key returns the deduplication key of the posting.
func (p *Posting) Key() string {
	return PostingKey(p.Title, p.Company)
}

// Validate checks that the required fields are present once surrounding whitespace is removed.
func (p *Posting) Validate() error {
	trimmed := Posting{
		Title:        strings.TrimSpace(p.Title),
		Company:      strings.TrimSpace(p.Company),
		Description:  strings.TrimSpace(p.Description),
		Requirements: strings.TrimSpace(p.Requirements),
	}
	return validate.Struct(&trimmed)
}

// ApplyDefaults fills missing optional fields with their sentinel values.
func (p *Posting) ApplyDefaults() {
	if strings.TrimSpace(p.Salary) == "" {
		p.Salary = NotSpecified
	}
	if strings.TrimSpace(p.Type) == "" {
		p.Type = DefaultPostingType
	}
	if strings.TrimSpace(p.Level) == "" {
		p.Level = NotSpecified
	}
}

// Text returns the free text of the posting used for lexical comparison.
func (p *Posting) Text() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.Title, p.Description, p.Requirements} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

package ingestion

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jonathan/jobmatch/internal/schemas"
	"github.com/jonathan/jobmatch/internal/types"
)

// Experience levels inferred from posting text
const (
	LevelSenior = "Senior"
	LevelJunior = "Junior"
	LevelMid    = "Mid-level"
)

// maxDerivedRequirements bounds the length of requirements derived from a description.
const maxDerivedRequirements = 200

// LoadPostings reads a posting corpus from a .json file (an array validated against the
// posting corpus schema) or a .csv file with a header row. Postings are returned in file
// order without further validation; the corpus index skips malformed entries.
func LoadPostings(path string) ([]types.Posting, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &PostingLoadError{Path: path, Message: "failed to open file", Cause: err}
	}
	defer func() { _ = f.Close() }()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, &PostingLoadError{Path: path, Message: "failed to read file", Cause: err}
		}
		postings, err := ParsePostingsJSON(data)
		if err != nil {
			return nil, &PostingLoadError{Path: path, Message: "invalid JSON corpus", Cause: err}
		}
		return postings, nil
	case ".csv":
		postings, err := ParsePostingsCSV(f)
		if err != nil {
			return nil, &PostingLoadError{Path: path, Message: "invalid CSV corpus", Cause: err}
		}
		return postings, nil
	default:
		return nil, &PostingLoadError{Path: path, Message: fmt.Sprintf("extension %q", ext), Cause: ErrUnsupportedFormat}
	}
}

// ParsePostingsJSON decodes a JSON array of postings after checking it against the schema.
func ParsePostingsJSON(data []byte) ([]types.Posting, error) {
	if err := schemas.Validate(schemas.PostingCorpus, data); err != nil {
		return nil, err
	}
	var postings []types.Posting
	if err := json.Unmarshal(data, &postings); err != nil {
		return nil, fmt.Errorf("failed to decode postings: %w", err)
	}
	return postings, nil
}

// csvColumns maps accepted header names to posting fields.
var csvColumns = map[string]func(p *types.Posting, v string){
	"id":               func(p *types.Posting, v string) { p.ID = v },
	"title":            func(p *types.Posting, v string) { p.Title = v },
	"company":          func(p *types.Posting, v string) { p.Company = v },
	"location":         func(p *types.Posting, v string) { p.Location = v },
	"description":      func(p *types.Posting, v string) { p.Description = v },
	"requirements":     func(p *types.Posting, v string) { p.Requirements = v },
	"skills":           func(p *types.Posting, v string) { p.Skills = splitSkills(v) },
	"salary":           func(p *types.Posting, v string) { p.Salary = v },
	"salary_range":     func(p *types.Posting, v string) { p.Salary = v },
	"type":             func(p *types.Posting, v string) { p.Type = v },
	"job_type":         func(p *types.Posting, v string) { p.Type = v },
	"level":            func(p *types.Posting, v string) { p.Level = v },
	"experience_level": func(p *types.Posting, v string) { p.Level = v },
	"source":           func(p *types.Posting, v string) { p.Source = v },
	"url":              func(p *types.Posting, v string) { p.URL = v },
	"posted_date":      func(p *types.Posting, v string) { p.PostedDate = v },
}

// ParsePostingsCSV reads postings from CSV with a header row. Unknown columns are ignored.
func ParsePostingsCSV(r io.Reader) ([]types.Posting, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []types.Posting{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	setters := make([]func(*types.Posting, string), len(header))
	known := 0
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if set, ok := csvColumns[name]; ok {
			setters[i] = set
			known++
		}
	}
	if known == 0 {
		return nil, errors.New("header has no posting columns")
	}

	postings := []types.Posting{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return postings, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(postings)+2, err)
		}
		var p types.Posting
		for i, v := range row {
			if i < len(setters) && setters[i] != nil {
				setters[i](&p, strings.TrimSpace(v))
			}
		}
		postings = append(postings, p)
	}
}

func splitSkills(v string) []string {
	var out []string
	for _, s := range strings.FieldsFunc(v, func(r rune) bool { return r == ';' || r == '|' }) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

var requirementSections = []*regexp.Regexp{
	regexp.MustCompile(`(?is)requirements?:(.+?)(?:\n\n|\n[a-z]|$)`),
	regexp.MustCompile(`(?is)qualifications?:(.+?)(?:\n\n|\n[a-z]|$)`),
	regexp.MustCompile(`(?is)skills?:(.+?)(?:\n\n|\n[a-z]|$)`),
	regexp.MustCompile(`(?is)experience:(.+?)(?:\n\n|\n[a-z]|$)`),
}

// DeriveRequirements pulls the requirements section out of a posting description. Without
// a labelled section the start of the description is used.
func DeriveRequirements(description string) string {
	if strings.TrimSpace(description) == "" {
		return ""
	}
	for _, re := range requirementSections {
		if m := re.FindStringSubmatch(description); m != nil {
			if section := strings.TrimSpace(m[1]); section != "" {
				return truncateRunes(section, maxDerivedRequirements)
			}
		}
	}
	if len([]rune(description)) > maxDerivedRequirements {
		return truncateRunes(description, maxDerivedRequirements) + "..."
	}
	return description
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// ExperienceLevel infers the seniority a posting asks for.
func ExperienceLevel(description string) string {
	desc := strings.ToLower(description)
	for _, w := range []string{"senior", "lead", "principal", "5+ years", "7+ years"} {
		if strings.Contains(desc, w) {
			return LevelSenior
		}
	}
	for _, w := range []string{"junior", "entry", "graduate", "0-2 years", "new grad"} {
		if strings.Contains(desc, w) {
			return LevelJunior
		}
	}
	return LevelMid
}

// NormalizePosting trims the identity fields of a fetched posting and fills requirements and
// level from its description when the source left them empty.
func NormalizePosting(p *types.Posting) {
	p.Title = strings.TrimSpace(p.Title)
	p.Company = strings.TrimSpace(p.Company)
	p.Description = CleanText(p.Description)
	if strings.TrimSpace(p.Requirements) == "" {
		p.Requirements = DeriveRequirements(p.Description)
	}
	if strings.TrimSpace(p.Level) == "" {
		p.Level = ExperienceLevel(p.Title + "\n" + p.Description)
	}
}

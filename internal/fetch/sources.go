package fetch

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/jonathan/jobmatch/internal/types"
)

// Default feed endpoints
const (
	RemoteOKEndpoint      = "https://remoteok.io/api"
	GitHubSearchEndpoint  = "https://api.github.com/search/repositories"
	StackExchangeEndpoint = "https://api.stackexchange.com/2.3/tags"
)

// DefaultPostingLimit caps how many postings one feed contributes per refresh.
const DefaultPostingLimit = 20

// RemoteOKSource reads remote postings from the RemoteOK JSON feed.
type RemoteOKSource struct {
	Endpoint   string
	SearchTerm string // postings whose description lacks it are skipped; empty keeps all
	Limit      int
	Options    *Options
}

// NewRemoteOKSource returns a RemoteOK source filtered by term.
func NewRemoteOKSource(term string) *RemoteOKSource {
	return &RemoteOKSource{
		Endpoint:   RemoteOKEndpoint,
		SearchTerm: term,
		Limit:      DefaultPostingLimit,
		Options:    DefaultOptions(),
	}
}

// Name identifies the source in logs.
func (s *RemoteOKSource) Name() string {
	return "remoteok"
}

type remoteOKJob struct {
	ID          any      `json:"id"`
	Position    string   `json:"position"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	URL         string   `json:"url"`
	Date        string   `json:"date"`
	SalaryMin   float64  `json:"salary_min"`
	SalaryMax   float64  `json:"salary_max"`
}

// FetchPostings downloads the feed and converts matching entries into postings. The feed's
// leading legal notice has no position and is skipped.
func (s *RemoteOKSource) FetchPostings(ctx context.Context) ([]types.Posting, error) {
	var jobs []remoteOKJob
	if err := JSON(ctx, s.Endpoint, s.Options, &jobs); err != nil {
		return nil, err
	}

	limit := s.Limit
	if limit <= 0 {
		limit = DefaultPostingLimit
	}
	term := strings.ToLower(strings.TrimSpace(s.SearchTerm))

	postings := make([]types.Posting, 0, limit)
	for _, job := range jobs {
		if len(postings) == limit {
			break
		}
		if strings.TrimSpace(job.Position) == "" {
			continue
		}
		description, err := HTMLToText(job.Description)
		if err != nil {
			description = job.Description
		}
		if term != "" && !strings.Contains(strings.ToLower(description), term) {
			continue
		}
		postings = append(postings, job.posting(description))
	}
	return postings, nil
}

func (j remoteOKJob) posting(description string) types.Posting {
	id := ""
	switch v := j.ID.(type) {
	case string:
		id = v
	case float64:
		id = strconv.FormatInt(int64(v), 10)
	}

	p := types.Posting{
		Title:       strings.TrimSpace(j.Position),
		Company:     strings.TrimSpace(j.Company),
		Location:    strings.TrimSpace(j.Location),
		Description: description,
		Type:        "Remote",
		Source:      "RemoteOK",
		URL:         j.URL,
		PostedDate:  j.Date,
	}
	if id != "" {
		p.ID = "remoteok-" + id
		if p.URL == "" {
			p.URL = "https://remoteok.io/remote-jobs/" + id
		}
	} else {
		p.ID = uuid.NewString()
	}
	if p.Location == "" {
		p.Location = "Remote"
	}
	if j.SalaryMin > 0 || j.SalaryMax > 0 {
		p.Salary = fmt.Sprintf("$%.0f - $%.0f", j.SalaryMin, j.SalaryMax)
	}
	return p
}

// GitHubTopicsSource proposes skill terms from the languages and topics of recently created,
// highly starred GitHub repositories.
type GitHubTopicsSource struct {
	Endpoint string
	Window   time.Duration // repositories created within this window are searched
	PerPage  int
	Options  *Options
	Now      func() time.Time
}

// NewGitHubTopicsSource returns a GitHub source over the last year of repositories.
func NewGitHubTopicsSource() *GitHubTopicsSource {
	return &GitHubTopicsSource{
		Endpoint: GitHubSearchEndpoint,
		Window:   365 * 24 * time.Hour,
		PerPage:  100,
		Options:  DefaultOptions(),
		Now:      time.Now,
	}
}

// Name identifies the source in logs.
func (s *GitHubTopicsSource) Name() string {
	return "github"
}

// FetchTerms returns the lowercased repository languages plus alphabetic topics longer than
// two characters.
func (s *GitHubTopicsSource) FetchTerms(ctx context.Context) ([]string, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	q := url.Values{}
	q.Set("q", "created:>"+now().Add(-s.Window).Format("2006-01-02"))
	q.Set("sort", "stars")
	q.Set("order", "desc")
	q.Set("per_page", strconv.Itoa(s.PerPage))

	var resp struct {
		Items []struct {
			Language string   `json:"language"`
			Topics   []string `json:"topics"`
		} `json:"items"`
	}
	if err := JSON(ctx, s.Endpoint+"?"+q.Encode(), s.Options, &resp); err != nil {
		return nil, err
	}

	terms := newTermSet()
	for _, repo := range resp.Items {
		terms.add(repo.Language, 1)
		for _, topic := range repo.Topics {
			if len(topic) > 2 && isAlpha(topic) {
				terms.add(topic, 1)
			}
		}
	}
	return terms.list(), nil
}

// StackOverflowTagsSource proposes skill terms from the most popular Stack Overflow tags.
type StackOverflowTagsSource struct {
	Endpoint string
	PageSize int
	Options  *Options
}

// NewStackOverflowTagsSource returns a source over the top 100 tags.
func NewStackOverflowTagsSource() *StackOverflowTagsSource {
	return &StackOverflowTagsSource{
		Endpoint: StackExchangeEndpoint,
		PageSize: 100,
		Options:  DefaultOptions(),
	}
}

// Name identifies the source in logs.
func (s *StackOverflowTagsSource) Name() string {
	return "stackoverflow"
}

// FetchTerms returns the lowercased popular tag names longer than one character.
func (s *StackOverflowTagsSource) FetchTerms(ctx context.Context) ([]string, error) {
	q := url.Values{}
	q.Set("order", "desc")
	q.Set("sort", "popular")
	q.Set("site", "stackoverflow")
	q.Set("pagesize", strconv.Itoa(s.PageSize))

	var resp struct {
		Items []struct {
			Name string `json:"name"`
		} `json:"items"`
	}
	if err := JSON(ctx, s.Endpoint+"?"+q.Encode(), s.Options, &resp); err != nil {
		return nil, err
	}

	terms := newTermSet()
	for _, tag := range resp.Items {
		terms.add(tag.Name, 2)
	}
	return terms.list(), nil
}

// termSet keeps first-seen order of distinct lowercased terms.
type termSet struct {
	seen  map[string]struct{}
	order []string
}

func newTermSet() *termSet {
	return &termSet{seen: map[string]struct{}{}}
}

func (t *termSet) add(term string, minLen int) {
	term = strings.ToLower(strings.TrimSpace(term))
	if len(term) < minLen {
		return
	}
	if _, ok := t.seen[term]; ok {
		return
	}
	t.seen[term] = struct{}{}
	t.order = append(t.order, term)
}

func (t *termSet) list() []string {
	return t.order
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

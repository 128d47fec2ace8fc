package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/jobmatch/internal/nlp"
	"github.com/jonathan/jobmatch/internal/prompts"
)

// Tagger limits
const (
	DefaultMaxTerms    = 40
	DefaultMaxPostings = 20
	ExcerptLength      = 600
)

// Tagger asks a model for skill terms found in posting text.
type Tagger struct {
	client      Client
	tier        ModelTier
	maxTerms    int
	maxPostings int
	logger      *zap.Logger
}

// TaggerOption configures a Tagger.
type TaggerOption func(*Tagger)

// WithTier selects the model tier; the default is TierLite.
func WithTier(tier ModelTier) TaggerOption {
	return func(t *Tagger) { t.tier = tier }
}

// WithMaxTerms caps the number of proposed terms.
func WithMaxTerms(n int) TaggerOption {
	return func(t *Tagger) {
		if n > 0 {
			t.maxTerms = n
		}
	}
}

// WithMaxPostings caps the number of texts sent in one prompt.
func WithMaxPostings(n int) TaggerOption {
	return func(t *Tagger) {
		if n > 0 {
			t.maxPostings = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) TaggerOption {
	return func(t *Tagger) { t.logger = l }
}

// NewTagger creates a Tagger over client.
func NewTagger(client Client, opts ...TaggerOption) *Tagger {
	t := &Tagger{
		client:      client,
		tier:        TierLite,
		maxTerms:    DefaultMaxTerms,
		maxPostings: DefaultMaxPostings,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ProposeTerms returns lowercased, de-duplicated skill terms the model finds in texts,
// in the model's order. Blank texts are ignored; no texts means no model call.
func (t *Tagger) ProposeTerms(ctx context.Context, texts []string) ([]string, error) {
	prompt, ok, err := t.buildPrompt(texts)
	if err != nil || !ok {
		return nil, err
	}

	raw, err := t.client.GenerateJSON(ctx, prompt, t.tier)
	if err != nil {
		return nil, fmt.Errorf("failed to propose terms: %w", err)
	}

	terms, err := parseTerms(raw)
	if err != nil {
		return nil, err
	}
	out := normalizeTerms(terms, t.maxTerms)
	t.logger.Debug("tagger proposed terms", zap.Int("texts", len(texts)), zap.Int("terms", len(out)))
	return out, nil
}

func (t *Tagger) buildPrompt(texts []string) (string, bool, error) {
	var excerpts []string
	for _, text := range texts {
		if len(excerpts) == t.maxPostings {
			break
		}
		if s := nlp.Snippet(text, ExcerptLength); s != "" {
			excerpts = append(excerpts, "- "+strings.Join(strings.Fields(s), " "))
		}
	}
	if len(excerpts) == 0 {
		return "", false, nil
	}

	prompt, err := prompts.Render(prompts.Tagging, "propose-skill-terms", map[string]string{
		"Postings": strings.Join(excerpts, "\n"),
		"MaxTerms": strconv.Itoa(t.maxTerms),
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to build tagging prompt: %w", err)
	}
	return prompt, true, nil
}

// parseTerms accepts {"terms": [...]} or a bare array.
func parseTerms(raw string) ([]string, error) {
	raw = CleanJSONBlock(raw)

	var wrapped struct {
		Terms []string `json:"terms"`
	}
	if err := json.Unmarshal([]byte(raw), &wrapped); err == nil {
		return wrapped.Terms, nil
	}

	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("failed to parse tagger response: %w", err)
	}
	return list, nil
}

func normalizeTerms(terms []string, limit int) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		name := nlp.NormalizeTerm(term)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
		if len(out) == limit {
			break
		}
	}
	return out
}

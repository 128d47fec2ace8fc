// Package corpus holds the active posting corpus and its fitted lexical space, and answers
// top-N relevance queries against it.
package corpus

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/jobmatch/internal/similarity"
	"github.com/jonathan/jobmatch/internal/types"
)

// IngestReport summarizes one ingestion or rebuild.
type IngestReport struct {
	Added    int                      `json:"added"`
	Replaced int                      `json:"replaced"`
	Skipped  []*MalformedPostingError `json:"-"`
	Total    int                      `json:"total"`
}

// state is one immutable generation of the index.
type state struct {
	postings []types.Posting // insertion order
	byKey    map[string]int
	space    *similarity.LexicalSpace
}

// Index is the posting corpus plus its lexical space. Readers never block and always see a
// complete generation; writers are serialized and publish a new generation atomically.
type Index struct {
	engine  *similarity.Engine
	logger  *zap.Logger
	mu      sync.Mutex
	current atomic.Pointer[state]
}

// Option configures an Index.
type Option func(*Index)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(i *Index) { i.logger = l }
}

// New returns an empty index scoring with engine.
func New(engine *similarity.Engine, opts ...Option) *Index {
	idx := &Index{engine: engine, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(idx)
	}
	idx.current.Store(&state{byKey: map[string]int{}, space: engine.FitSpace(nil)})
	return idx
}

// Rebuild replaces the whole corpus with postings and refits the lexical space.
func (i *Index) Rebuild(postings []types.Posting) IngestReport {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.apply(nil, postings)
}

// Ingest adds postings to the corpus. A posting whose (title, company) matches an existing one
// case-insensitively replaces it and moves to the end of the insertion order.
func (i *Index) Ingest(postings ...types.Posting) IngestReport {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.apply(i.current.Load().postings, postings)
}

// Remove drops the posting with the given title and company. It reports whether one was removed.
func (i *Index) Remove(title, company string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	cur := i.current.Load()
	pos, ok := cur.byKey[types.PostingKey(title, company)]
	if !ok {
		return false
	}
	kept := make([]types.Posting, 0, len(cur.postings)-1)
	kept = append(kept, cur.postings[:pos]...)
	kept = append(kept, cur.postings[pos+1:]...)
	i.publish(kept)
	return true
}

// apply merges incoming into base and publishes the result. Callers hold i.mu.
func (i *Index) apply(base, incoming []types.Posting) IngestReport {
	report := IngestReport{}

	merged := make([]types.Posting, len(base), len(base)+len(incoming))
	copy(merged, base)
	byKey := make(map[string]int, len(merged))
	for pos := range merged {
		byKey[merged[pos].Key()] = pos
	}

	for n, p := range incoming {
		if err := p.Validate(); err != nil {
			malformed := &MalformedPostingError{Index: n, Title: p.Title, Company: p.Company, Cause: err}
			report.Skipped = append(report.Skipped, malformed)
			i.logger.Warn("skipping malformed posting",
				zap.Int("index", n),
				zap.String("title", p.Title),
				zap.String("company", p.Company),
				zap.Error(err))
			continue
		}
		p.ApplyDefaults()
		if p.ID == "" {
			p.ID = uuid.NewString()
		}

		key := p.Key()
		if old, dup := byKey[key]; dup {
			// keep-last: the replacement takes the newest insertion position
			merged[old] = types.Posting{}
			report.Replaced++
		} else {
			report.Added++
		}
		byKey[key] = len(merged)
		merged = append(merged, p)
	}

	// compact the slots vacated by replacements
	compact := merged[:0]
	for pos, p := range merged {
		if p.Title == "" {
			continue
		}
		if byKey[p.Key()] == pos {
			compact = append(compact, p)
		}
	}

	st := i.publish(compact)
	report.Total = len(st.postings)
	i.logger.Info("corpus updated",
		zap.Int("added", report.Added),
		zap.Int("replaced", report.Replaced),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int("total", report.Total),
		zap.Int("features", st.space.Vectorizer().Features()))
	return report
}

// publish fits a new generation over postings and swaps it in.
func (i *Index) publish(postings []types.Posting) *state {
	st := &state{
		postings: postings,
		byKey:    make(map[string]int, len(postings)),
		space:    i.engine.FitSpace(postings),
	}
	for pos := range postings {
		st.byKey[postings[pos].Key()] = pos
	}
	i.current.Store(st)
	return st
}

// Len returns the number of postings.
func (i *Index) Len() int {
	return len(i.current.Load().postings)
}

// Postings returns a copy of the corpus in insertion order.
func (i *Index) Postings() []types.Posting {
	cur := i.current.Load()
	out := make([]types.Posting, len(cur.postings))
	copy(out, cur.postings)
	return out
}

// Get returns the posting with the given title and company.
func (i *Index) Get(title, company string) (types.Posting, bool) {
	cur := i.current.Load()
	pos, ok := cur.byKey[types.PostingKey(title, company)]
	if !ok {
		return types.Posting{}, false
	}
	return cur.postings[pos], true
}

// Space returns the lexical space of the current generation.
func (i *Index) Space() *similarity.LexicalSpace {
	return i.current.Load().space
}

// TopMatches scores profile against every posting and returns the n best, ordered by
// overall score, then skill score, then insertion order. An empty corpus yields no results.
func (i *Index) TopMatches(profile *types.Profile, n int) ([]types.ScoreResult, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeTopN, n)
	}
	cur := i.current.Load()
	if len(cur.postings) == 0 || n == 0 {
		return []types.ScoreResult{}, nil
	}

	candidate := i.engine.NewSession().Prepare(cur.space, profile)
	results := make([]types.ScoreResult, len(cur.postings))
	for pos := range cur.postings {
		results[pos] = candidate.Score(&cur.postings[pos])
	}

	// stable: equal scores keep insertion order
	sort.SliceStable(results, func(a, b int) bool {
		if results[a].OverallScore != results[b].OverallScore {
			return results[a].OverallScore > results[b].OverallScore
		}
		return results[a].SkillSimilarity > results[b].SkillSimilarity
	})
	if len(results) > n {
		results = results[:n]
	}
	return results, nil
}

// Package refresh is the only place the corpus and vocabulary touch the network. A refresh
// fetches postings and term lists, teaches the vocabulary, persists it and ingests the
// postings into the corpus index.
package refresh

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/jonathan/jobmatch/internal/corpus"
	"github.com/jonathan/jobmatch/internal/ingestion"
	"github.com/jonathan/jobmatch/internal/types"
	"github.com/jonathan/jobmatch/internal/vocabulary"
)

// DefaultInterval is the minimum time between unforced refreshes.
const DefaultInterval = 6 * time.Hour

// PostingSource supplies job postings.
type PostingSource interface {
	Name() string
	FetchPostings(ctx context.Context) ([]types.Posting, error)
}

// TermSource supplies external skill terms such as trending topics or tags.
type TermSource interface {
	Name() string
	FetchTerms(ctx context.Context) ([]string, error)
}

// Tagger proposes skill terms found in posting text.
type Tagger interface {
	ProposeTerms(ctx context.Context, texts []string) ([]string, error)
}

// Report summarizes one refresh.
type Report struct {
	Skipped  bool                `json:"skipped"`
	Postings int                 `json:"postings"`
	Learned  []string            `json:"learned"`
	Merged   []string            `json:"merged"`
	Tagged   []string            `json:"tagged"`
	Failed   map[string]string   `json:"failed,omitempty"`
	Ingest   corpus.IngestReport `json:"ingest"`
	At       time.Time           `json:"at"`
}

// Refresher runs rate-limited, serialized refreshes.
type Refresher struct {
	vocab    *vocabulary.Vocabulary
	index    *corpus.Index
	store    vocabulary.BlobStore
	postings []PostingSource
	terms    []TermSource
	tagger   Tagger
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
	now      func() time.Time

	group       singleflight.Group
	mu          sync.Mutex
	lastUpdated time.Time
}

// Option configures a Refresher.
type Option func(*Refresher)

// WithPostingSources adds posting sources.
func WithPostingSources(sources ...PostingSource) Option {
	return func(r *Refresher) { r.postings = append(r.postings, sources...) }
}

// WithTermSources adds term sources.
func WithTermSources(sources ...TermSource) Option {
	return func(r *Refresher) { r.terms = append(r.terms, sources...) }
}

// WithTagger enables model-proposed terms.
func WithTagger(t Tagger) Option {
	return func(r *Refresher) { r.tagger = t }
}

// WithStore persists the vocabulary after each refresh.
func WithStore(s vocabulary.BlobStore) Option {
	return func(r *Refresher) { r.store = s }
}

// WithInterval overrides DefaultInterval.
func WithInterval(d time.Duration) Option {
	return func(r *Refresher) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithTimeout bounds a whole refresh. Zero means no bound beyond the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(r *Refresher) { r.timeout = d }
}

// WithLastUpdated seeds the last refresh time, e.g. from a persisted vocabulary.
func WithLastUpdated(t time.Time) Option {
	return func(r *Refresher) { r.lastUpdated = t }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Refresher) { r.logger = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Refresher) { r.now = now }
}

// New creates a Refresher feeding vocab and index. Index may be nil.
func New(vocab *vocabulary.Vocabulary, index *corpus.Index, opts ...Option) *Refresher {
	r := &Refresher{
		vocab:    vocab,
		index:    index,
		interval: DefaultInterval,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LastUpdated returns the completion time of the last successful refresh.
func (r *Refresher) LastUpdated() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastUpdated
}

// Due reports whether the interval has elapsed since the last refresh.
func (r *Refresher) Due() bool {
	last := r.LastUpdated()
	return last.IsZero() || r.now().Sub(last) >= r.interval
}

// Refresh runs a refresh when due or forced. Concurrent callers share the in-flight
// refresh and its result.
func (r *Refresher) Refresh(ctx context.Context, force bool) (*Report, error) {
	v, err, shared := r.group.Do("refresh", func() (any, error) {
		if !force && !r.Due() {
			return &Report{Skipped: true, At: r.LastUpdated()}, nil
		}
		return r.run(ctx)
	})
	if shared {
		r.logger.Debug("joined in-flight refresh")
	}
	report, _ := v.(*Report)
	return report, err
}

// Run refreshes once immediately and then on every interval tick until ctx is done.
func (r *Refresher) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if _, err := r.Refresh(ctx, false); err != nil {
			r.logger.Error("refresh failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

type fetched struct {
	postings [][]types.Posting
	terms    [][]string
	errs     map[string]error
	mu       sync.Mutex
}

func (f *fetched) fail(name string, err error) {
	f.mu.Lock()
	f.errs[name] = err
	f.mu.Unlock()
}

func (r *Refresher) run(ctx context.Context) (*Report, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	start := r.now()

	got := r.fetch(ctx)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("refresh canceled: %w", err)
	}

	report := &Report{Failed: make(map[string]string)}
	for name, err := range got.errs {
		report.Failed[name] = err.Error()
	}

	var postings []types.Posting
	for _, batch := range got.postings {
		for i := range batch {
			ingestion.NormalizePosting(&batch[i])
			postings = append(postings, batch[i])
		}
	}
	report.Postings = len(postings)

	learned := make(map[string]struct{})
	descriptions := make([]string, 0, len(postings))
	for _, p := range postings {
		if strings.TrimSpace(p.Description) == "" {
			continue
		}
		descriptions = append(descriptions, p.Description)
		for _, name := range r.vocab.LearnFromText(p.Description) {
			learned[name] = struct{}{}
		}
	}
	report.Learned = sortedKeys(learned)

	var external []string
	for _, batch := range got.terms {
		external = append(external, batch...)
	}
	report.Merged = r.vocab.MergeExternal(external)

	report.Tagged = []string{}
	if r.tagger != nil && len(descriptions) > 0 {
		proposed, err := r.tagger.ProposeTerms(ctx, descriptions)
		if err != nil {
			r.logger.Warn("tagger failed, skipping", zap.Error(err))
			report.Failed["tagger"] = err.Error()
		} else {
			report.Tagged = r.vocab.MergeExternal(proposed)
		}
	}

	if r.index != nil && len(postings) > 0 {
		report.Ingest = r.index.Ingest(postings...)
	}

	if r.store != nil {
		if err := r.vocab.Save(ctx, r.store); err != nil {
			return report, fmt.Errorf("failed to save vocabulary: %w", err)
		}
	}

	report.At = r.now()
	r.mu.Lock()
	r.lastUpdated = report.At
	r.mu.Unlock()

	r.logger.Info("refresh complete",
		zap.Int("postings", report.Postings),
		zap.Int("learned", len(report.Learned)),
		zap.Int("merged", len(report.Merged)),
		zap.Int("tagged", len(report.Tagged)),
		zap.Int("failed_sources", len(report.Failed)),
		zap.Duration("took", report.At.Sub(start)))
	return report, nil
}

// fetch queries every source concurrently. A failing source is logged and left out.
func (r *Refresher) fetch(ctx context.Context) *fetched {
	got := &fetched{
		postings: make([][]types.Posting, len(r.postings)),
		terms:    make([][]string, len(r.terms)),
		errs:     make(map[string]error),
	}

	g, gCtx := errgroup.WithContext(ctx)
	for i, src := range r.postings {
		g.Go(func() error {
			postings, err := src.FetchPostings(gCtx)
			if err != nil {
				r.logger.Warn("posting source failed, skipping", zap.String("source", src.Name()), zap.Error(err))
				got.fail(src.Name(), err)
				return nil
			}
			got.postings[i] = postings
			return nil
		})
	}
	for i, src := range r.terms {
		g.Go(func() error {
			terms, err := src.FetchTerms(gCtx)
			if err != nil {
				r.logger.Warn("term source failed, skipping", zap.String("source", src.Name()), zap.Error(err))
				got.fail(src.Name(), err)
				return nil
			}
			got.terms[i] = terms
			return nil
		})
	}
	_ = g.Wait()
	return got
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

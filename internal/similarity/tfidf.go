package similarity

import (
	"math"
	"sort"
	"strings"

	"github.com/jonathan/jobmatch/internal/nlp"
)

// Default vectorizer settings
const (
	DefaultMaxFeatures = 5000
	DefaultMaxNGram    = 2
)

// VectorizerOptions configures term extraction.
type VectorizerOptions struct {
	MaxFeatures int // vocabulary cap, by corpus term frequency
	MaxNGram    int // longest n-gram, counted in content tokens
}

// DefaultVectorizerOptions returns unigrams and bigrams capped at 5000 features.
func DefaultVectorizerOptions() VectorizerOptions {
	return VectorizerOptions{MaxFeatures: DefaultMaxFeatures, MaxNGram: DefaultMaxNGram}
}

// Entry is one non-zero feature weight of a Vector.
type Entry struct {
	Index  int
	Weight float64
}

// Vector is a sparse, L2-normalized TF-IDF vector ordered by feature index.
type Vector []Entry

// Vectorizer is a fitted TF-IDF model. It is immutable once fitted.
type Vectorizer struct {
	opts     VectorizerOptions
	features map[string]int
	idf      []float64
}

// terms returns the n-grams of doc: lowercase tokens, stop words removed first.
func terms(doc string, maxN int) []string {
	tokens := nlp.ContentTokens(doc)
	out := make([]string, 0, len(tokens)*maxN)
	for n := 1; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

// FitVectorizer learns the feature vocabulary and smoothed inverse document frequencies of docs.
// idf(t) = ln((1+n)/(1+df(t))) + 1.
func FitVectorizer(docs []string, opts VectorizerOptions) *Vectorizer {
	if opts.MaxNGram <= 0 {
		opts.MaxNGram = DefaultMaxNGram
	}
	if opts.MaxFeatures <= 0 {
		opts.MaxFeatures = DefaultMaxFeatures
	}

	totals := make(map[string]int)
	docFreq := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, term := range terms(doc, opts.MaxNGram) {
			totals[term]++
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				docFreq[term]++
			}
		}
	}

	// keep the most frequent terms; ties broken alphabetically for determinism
	candidates := make([]string, 0, len(totals))
	for term := range totals {
		candidates = append(candidates, term)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if totals[candidates[i]] != totals[candidates[j]] {
			return totals[candidates[i]] > totals[candidates[j]]
		}
		return candidates[i] < candidates[j]
	})
	if len(candidates) > opts.MaxFeatures {
		candidates = candidates[:opts.MaxFeatures]
	}
	sort.Strings(candidates)

	v := &Vectorizer{
		opts:     opts,
		features: make(map[string]int, len(candidates)),
		idf:      make([]float64, len(candidates)),
	}
	n := float64(len(docs))
	for i, term := range candidates {
		v.features[term] = i
		v.idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}
	return v
}

// Features returns the number of features in the fitted vocabulary.
func (v *Vectorizer) Features() int {
	return len(v.idf)
}

// Has reports whether term is a feature.
func (v *Vectorizer) Has(term string) bool {
	_, ok := v.features[term]
	return ok
}

// Transform projects doc into the fitted space. Terms outside the vocabulary are ignored.
func (v *Vectorizer) Transform(doc string) Vector {
	counts := make(map[int]float64)
	for _, term := range terms(doc, v.opts.MaxNGram) {
		if idx, ok := v.features[term]; ok {
			counts[idx]++
		}
	}
	vec := make(Vector, 0, len(counts))
	for idx, tf := range counts {
		vec = append(vec, Entry{Index: idx, Weight: tf * v.idf[idx]})
	}
	sort.Slice(vec, func(i, j int) bool { return vec[i].Index < vec[j].Index })

	norm := vec.norm()
	if norm == 0 {
		return vec
	}
	for i := range vec {
		vec[i].Weight /= norm
	}
	return vec
}

func (v Vector) norm() float64 {
	squares := make([]float64, len(v))
	for i, e := range v {
		squares[i] = e.Weight * e.Weight
	}
	return math.Sqrt(sumAscending(squares))
}

// sumAscending adds non-negative terms smallest first, so the result depends only on
// the values and not on which feature indices they sit at.
func sumAscending(terms []float64) float64 {
	sort.Float64s(terms)
	var sum float64
	for _, t := range terms {
		sum += t
	}
	return sum
}

// Cosine returns the cosine similarity of a and b clamped to [0,1]. Empty vectors yield 0.
func Cosine(a, b Vector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var products []float64
	for i, j := 0, 0; i < len(a) && j < len(b); {
		switch {
		case a[i].Index == b[j].Index:
			products = append(products, a[i].Weight*b[j].Weight)
			i++
			j++
		case a[i].Index < b[j].Index:
			i++
		default:
			j++
		}
	}
	normA, normB := a.norm(), b.norm()
	if normA == 0 || normB == 0 {
		return 0
	}
	return clamp01(sumAscending(products) / (normA * normB))
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

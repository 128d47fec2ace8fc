package similarity

import "github.com/jonathan/jobmatch/internal/types"

// LexicalSpace is a vectorizer fitted over a posting corpus plus each posting's vector.
type LexicalSpace struct {
	vectorizer *Vectorizer
	vectors    map[string]Vector
}

// FitSpace fits a lexical space over postings, keyed by posting key.
func FitSpace(postings []types.Posting, opts VectorizerOptions) *LexicalSpace {
	docs := make([]string, len(postings))
	for i := range postings {
		docs[i] = postings[i].Text()
	}
	v := FitVectorizer(docs, opts)
	s := &LexicalSpace{
		vectorizer: v,
		vectors:    make(map[string]Vector, len(postings)),
	}
	for i := range postings {
		s.vectors[postings[i].Key()] = v.Transform(docs[i])
	}
	return s
}

// Vectorizer returns the fitted vectorizer.
func (s *LexicalSpace) Vectorizer() *Vectorizer {
	return s.vectorizer
}

// Vector returns the corpus vector of the posting with key.
func (s *LexicalSpace) Vector(key string) (Vector, bool) {
	vec, ok := s.vectors[key]
	return vec, ok
}

// Len returns the number of posting vectors.
func (s *LexicalSpace) Len() int {
	return len(s.vectors)
}

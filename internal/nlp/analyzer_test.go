package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunker_NounPhrases(t *testing.T) {
	c := NewChunker()
	phrases := c.NounPhrases("We need a backend engineer with Kubernetes, Node.js and C++.")
	assert.Contains(t, phrases, "backend engineer")
	assert.Contains(t, phrases, "Kubernetes")
	assert.Contains(t, phrases, "Node.js")
	assert.Contains(t, phrases, "C++")
}

func TestChunker_CapsLongRuns(t *testing.T) {
	c := &Chunker{MaxTokens: 2}
	phrases := c.NounPhrases("distributed systems design patterns")
	assert.Equal(t, []string{"distributed systems", "design patterns"}, phrases)
}

func TestChunker_Entities(t *testing.T) {
	c := NewChunker()
	entities := c.Entities("Deployed services on Google Cloud with PostgreSQL and redis")
	assert.Contains(t, entities, "Google Cloud")
	assert.Contains(t, entities, "PostgreSQL")
	assert.NotContains(t, entities, "redis")
}

func TestChunker_ZeroValueUsesDefault(t *testing.T) {
	var c Chunker
	phrases := c.NounPhrases("one two three four")
	assert.Equal(t, []string{"one two three", "four"}, phrases)
}

func TestChunker_SatisfiesAnalyzer(t *testing.T) {
	var _ Analyzer = NewChunker()
}

package ingestion

import (
	_ "embed"
	"fmt"

	"github.com/jonathan/jobmatch/internal/types"
)

//go:embed sample_postings.json
var samplePostings []byte

// SamplePostings returns a small built-in corpus used when no posting source is configured.
func SamplePostings() ([]types.Posting, error) {
	postings, err := ParsePostingsJSON(samplePostings)
	if err != nil {
		return nil, fmt.Errorf("failed to load sample postings: %w", err)
	}
	return postings, nil
}

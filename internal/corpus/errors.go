package corpus

import (
	"errors"
	"fmt"
)

// ErrNegativeTopN is returned for a negative result count. It is a programming error.
var ErrNegativeTopN = errors.New("top-n must not be negative")

// ErrEmptyCorpus describes a query against an index with no postings. TopMatches reports
// it by returning no results; the match command returns it.
var ErrEmptyCorpus = errors.New("corpus is empty")

// MalformedPostingError describes a posting skipped during ingestion.
type MalformedPostingError struct {
	Index   int // position in the ingested batch
	Title   string
	Company string
	Cause   error
}

func (e *MalformedPostingError) Error() string {
	return fmt.Sprintf("malformed posting at %d (%q at %q): %v", e.Index, e.Title, e.Company, e.Cause)
}

func (e *MalformedPostingError) Unwrap() error {
	return e.Cause
}

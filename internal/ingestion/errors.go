package ingestion

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is wrapped by a TextExtractionError for file types with no extractor.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrInsufficientText is wrapped by a TextExtractionError when a document yields too little text.
var ErrInsufficientText = errors.New("insufficient text")

// TextExtractionError reports a document that could not be turned into text.
type TextExtractionError struct {
	Path    string
	Message string
	Cause   error
}

func (e *TextExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("text extraction failed for %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("text extraction failed for %s: %s", e.Path, e.Message)
}

func (e *TextExtractionError) Unwrap() error {
	return e.Cause
}

// PostingLoadError reports a posting corpus file that could not be read.
type PostingLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *PostingLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load postings from %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load postings from %s: %s", e.Path, e.Message)
}

func (e *PostingLoadError) Unwrap() error {
	return e.Cause
}

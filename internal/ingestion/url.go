package ingestion

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/jobmatch/internal/fetch"
	"github.com/jonathan/jobmatch/internal/types"
)

var (
	// ErrHTTPRequestFailed is returned when the posting page could not be fetched
	ErrHTTPRequestFailed = errors.New("HTTP request failed")
	// ErrContentExtractionFailed is returned when the page held no usable text
	ErrContentExtractionFailed = errors.New("content extraction failed")
)

// PostingFromURL fetches a posting page and builds a posting for title and company from its
// text, using the job board's selectors when the platform is known.
func PostingFromURL(ctx context.Context, urlStr, title, company string, opts *fetch.Options) (types.Posting, *Metadata, error) {
	result, err := fetch.PostingText(ctx, urlStr, opts)
	if err != nil {
		return types.Posting{}, nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}
	text := CleanText(result.Text)
	if text == "" {
		return types.Posting{}, nil, fmt.Errorf("%w: no text at %s", ErrContentExtractionFailed, urlStr)
	}

	platform := fetch.DetectPlatform(urlStr)
	posting := types.Posting{
		Title:       title,
		Company:     company,
		Description: text,
		Source:      string(platform),
		URL:         urlStr,
	}
	NormalizePosting(&posting)

	metadata := NewMetadata(text, urlStr)
	metadata.Platform = string(platform)
	metadata.Format = "html"
	return posting, metadata, nil
}

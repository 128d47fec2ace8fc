package ingestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostingFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><nav>Menu</nav>
			<div class="job-description">
				<p>Senior backend role.</p>
				<p>Requirements: Go, PostgreSQL</p>
			</div></body></html>`))
	}))
	defer server.Close()

	posting, meta, err := PostingFromURL(context.Background(), server.URL, "Backend Engineer", "Acme", nil)
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", posting.Title)
	assert.Equal(t, "Acme", posting.Company)
	assert.Equal(t, "Senior backend role.\nRequirements: Go, PostgreSQL", posting.Description)
	assert.Equal(t, "Go, PostgreSQL", posting.Requirements)
	assert.Equal(t, LevelSenior, posting.Level)
	assert.Equal(t, "unknown", posting.Source)
	assert.Equal(t, server.URL, posting.URL)
	assert.Equal(t, "unknown", meta.Platform)
	assert.Equal(t, "html", meta.Format)
}

func TestPostingFromURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	defer server.Close()

	_, _, err := PostingFromURL(context.Background(), server.URL, "x", "y", nil)
	assert.ErrorIs(t, err, ErrHTTPRequestFailed)
}

func TestPostingFromURL_EmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><script>render()</script></body></html>`))
	}))
	defer server.Close()

	_, _, err := PostingFromURL(context.Background(), server.URL, "x", "y", nil)
	assert.ErrorIs(t, err, ErrContentExtractionFailed)
}

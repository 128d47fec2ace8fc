package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const remoteOKFeed = `[
	{"legal": "API terms of service"},
	{"id": "101", "position": "Senior Go Engineer", "company": "Acme",
	 "description": "<p>We build APIs in <b>Go</b> and Python.</p>", "date": "2024-05-01",
	 "salary_min": 120000, "salary_max": 150000},
	{"id": 102, "position": "Designer", "company": "Globex", "location": "EU",
	 "description": "<p>Figma and Sketch.</p>"},
	{"position": "Python Developer", "company": "Initech",
	 "description": "Django and Python services", "url": "https://remoteok.io/x"}
]`

func newFeedServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRemoteOKSource_FiltersAndConverts(t *testing.T) {
	server := newFeedServer(t, remoteOKFeed)
	source := NewRemoteOKSource("python")
	source.Endpoint = server.URL

	postings, err := source.FetchPostings(context.Background())
	require.NoError(t, err)
	require.Len(t, postings, 2)

	first := postings[0]
	assert.Equal(t, "remoteok-101", first.ID)
	assert.Equal(t, "Senior Go Engineer", first.Title)
	assert.Equal(t, "Acme", first.Company)
	assert.Equal(t, "Remote", first.Location)
	assert.Equal(t, "Remote", first.Type)
	assert.Equal(t, "RemoteOK", first.Source)
	assert.Equal(t, "We build APIs in Go and Python.", first.Description)
	assert.Equal(t, "$120000 - $150000", first.Salary)
	assert.Equal(t, "https://remoteok.io/remote-jobs/101", first.URL)
	assert.Equal(t, "2024-05-01", first.PostedDate)

	second := postings[1]
	assert.Equal(t, "Python Developer", second.Title)
	assert.NotEmpty(t, second.ID)
	assert.Equal(t, "https://remoteok.io/x", second.URL)
	assert.Empty(t, second.Salary)
}

func TestRemoteOKSource_NoTermAndLimit(t *testing.T) {
	server := newFeedServer(t, remoteOKFeed)
	source := NewRemoteOKSource("")
	source.Endpoint = server.URL
	source.Limit = 2

	postings, err := source.FetchPostings(context.Background())
	require.NoError(t, err)
	require.Len(t, postings, 2)
	assert.Equal(t, "remoteok-102", postings[1].ID)
	assert.Equal(t, "EU", postings[1].Location)
}

func TestRemoteOKSource_HTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	source := NewRemoteOKSource("go")
	source.Endpoint = server.URL
	_, err := source.FetchPostings(context.Background())
	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
}

func TestGitHubTopicsSource(t *testing.T) {
	var query string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("q")
		assert.Equal(t, "stars", r.URL.Query().Get("sort"))
		_, _ = w.Write([]byte(`{"items": [
			{"language": "Rust", "topics": ["wasm", "cli", "web3", "tokio"]},
			{"language": "", "topics": ["rust", "llm"]},
			{"language": "TypeScript", "topics": ["react-native"]}
		]}`))
	}))
	defer server.Close()

	source := NewGitHubTopicsSource()
	source.Endpoint = server.URL
	source.Now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }

	terms, err := source.FetchTerms(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "created:>2023-06-02", query)
	assert.Equal(t, []string{"rust", "wasm", "cli", "tokio", "llm", "typescript"}, terms)
}

func TestStackOverflowTagsSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "stackoverflow", r.URL.Query().Get("site"))
		assert.Equal(t, "100", r.URL.Query().Get("pagesize"))
		_, _ = w.Write([]byte(`{"items": [{"name": "javascript"}, {"name": "c"}, {"name": "Python"}, {"name": "python"}, {"name": "c#"}]}`))
	}))
	defer server.Close()

	source := NewStackOverflowTagsSource()
	source.Endpoint = server.URL

	terms, err := source.FetchTerms(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"javascript", "python", "c#"}, terms)
}

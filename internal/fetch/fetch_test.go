package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL_Success(t *testing.T) {
	// Create test server
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html><body><h1>Search results</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Search results</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
}

func TestURL_SendsUserAgentAndCookies(t *testing.T) {
	var gotUA, gotCookie string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		if c, err := r.Cookie("session"); err == nil {
			gotCookie = c.Value
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	opts := DefaultOptions()
	opts.Cookies = []*http.Cookie{{Name: "session", Value: "abc123"}}

	_, err := URL(context.Background(), server.URL, opts)
	require.NoError(t, err)
	assert.Equal(t, DefaultUserAgent, gotUA)
	assert.Equal(t, "abc123", gotCookie)
}

func TestURL_InvalidURL(t *testing.T) {
	_, err := URL(context.Background(), "not-a-valid-url", nil)
	require.Error(t, err)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "invalid URL")
}

func TestURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.NotNil(t, result) // Result is returned even on error
	assert.Equal(t, http.StatusNotFound, result.StatusCode)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "404")
	assert.False(t, fetchErr.ServerError())
}

func TestURL_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.True(t, fetchErr.ServerError())
}

func TestExtractMainText_SearchPageSelectors(t *testing.T) {
	html := `
	<html>
		<body>
			<div class="sidebar">Filter junk</div>
			<section data-test="job-tile-list">
				<article>Go backend engineer needed</article>
				<article>Scraper maintenance gig</article>
			</section>
		</body>
	</html>`

	text, err := ExtractMainText(html, SearchPageSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "Go backend engineer needed")
	assert.Contains(t, text, "Scraper maintenance gig")
	assert.NotContains(t, text, "Filter junk")
}

func TestExtractMainText_FallbackToBody(t *testing.T) {
	html := `
	<html>
		<body>
			<div>Some content here.</div>
		</body>
	</html>`

	text, err := ExtractMainText(html, SearchPageSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "Some content here")
}

func TestExtractMainText_RemovesNoise(t *testing.T) {
	html := `
	<html>
		<body>
			<nav>Navigation</nav>
			<main><p>Listing text.</p></main>
			<footer>Footer</footer>
		</body>
	</html>`

	text, err := ExtractMainText(html, SearchPageSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "Listing text")
	assert.NotContains(t, text, "Navigation")
	assert.NotContains(t, text, "Footer")
}

func TestBuildSearchURL(t *testing.T) {
	tests := []struct {
		name     string
		params   SearchParams
		expected string
	}{
		{
			"basic query",
			SearchParams{Query: "golang", Page: 1, PerPage: 50},
			SearchBaseURL + "?page=1&per_page=50&q=golang&sort=recency",
		},
		{
			"query with spaces is escaped",
			SearchParams{Query: "web scraping", Page: 2, PerPage: 10},
			SearchBaseURL + "?page=2&per_page=10&q=web+scraping&sort=recency",
		},
		{
			"page below one is clamped",
			SearchParams{Query: "golang", Page: 0},
			SearchBaseURL + "?page=1&q=golang&sort=recency",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildSearchURL(tt.params))
		})
	}
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser("short text"))
	assert.True(t, ShouldUseBrowser("   "))

	long := make([]byte, MinContentLength)
	for i := range long {
		long[i] = 'a'
	}
	assert.False(t, ShouldUseBrowser(string(long)))
}

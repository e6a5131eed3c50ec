package scrape

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-harvester/internal/fetch"
)

const searchPageFixture = `
<html>
<body>
<section data-test="job-tile-list">
	<article data-test="JobTile">
		<h2><a data-test="job-tile-title-link" href="/jobs/Go-backend-engineer_~0012345/">Go backend engineer</a></h2>
		<div data-test="JobDescription"><p>Build an ingestion service for product data.</p></div>
		<ul>
			<li data-test="job-type-label">Hourly: $30-$60</li>
			<li data-test="experience-level">Expert</li>
			<li data-test="duration-label">3 to 6 months</li>
			<li data-test="proposals-tier"><strong>5 to 10</strong></li>
			<li data-test="payment-verified">Payment verified</li>
			<li data-test="location">United States</li>
			<li data-test="total-spent"><strong>$10K+</strong></li>
		</ul>
		<span class="air3-rating-value-text">4.9</span>
		<div class="air3-token"><span>Go</span></div>
		<div class="air3-token"><span>PostgreSQL</span></div>
	</article>
	<article data-test="JobTile">
		<h2><a data-test="job-tile-title-link" href="/jobs/Landing-page-fix_~0067890/">Landing page fix</a></h2>
		<ul>
			<li data-test="job-type-label">Fixed price</li>
			<li data-test="is-fixed-price">Est. budget: <strong>$250</strong></li>
		</ul>
	</article>
</section>
</body>
</html>`

func TestParseSearchHTML(t *testing.T) {
	jobs, err := ParseSearchHTML(searchPageFixture)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	hourly := jobs[0]
	assert.Equal(t, "Go backend engineer", hourly.Title)
	assert.Equal(t, "/jobs/Go-backend-engineer_~0012345/", hourly.Href)
	assert.Equal(t, "Build an ingestion service for product data.", hourly.Description)
	assert.Equal(t, "Hourly: $30-$60", hourly.JobType)
	assert.Equal(t, "Expert", hourly.ExperienceLevel)
	assert.Equal(t, "3 to 6 months", hourly.Duration)
	assert.Equal(t, "5 to 10", hourly.ProposalCount)
	assert.True(t, hourly.PaymentVerified)
	assert.Equal(t, "United States", hourly.Country)
	assert.Equal(t, "4.9", hourly.Ratings)
	assert.Equal(t, "$10K+", hourly.Spent)
	assert.Equal(t, "Go, PostgreSQL", hourly.Skills)

	fixed := jobs[1]
	assert.Equal(t, "Landing page fix", fixed.Title)
	assert.Equal(t, "Fixed price", fixed.JobType)
	assert.Equal(t, "$250", fixed.Rate)
	assert.False(t, fixed.PaymentVerified)
	assert.Empty(t, fixed.Duration)
}

func TestParseSearchHTML_EmptyPage(t *testing.T) {
	jobs, err := ParseSearchHTML("<html><body><p>No results found.</p></body></html>")
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestSearch_RetriesServerErrors(t *testing.T) {
	s := New(Options{})
	s.retryDelay = time.Millisecond

	attempts := 0
	s.fetchPage = func(_ context.Context, _ string) (string, error) {
		attempts++
		if attempts < 3 {
			return "", &fetch.Error{URL: "x", Message: "HTTP status 502", StatusCode: 502}
		}
		return searchPageFixture, nil
	}
	s.renderPage = func(_ context.Context, _ string) (string, error) {
		return "", fmt.Errorf("no browser available")
	}

	jobs, err := s.Search(context.Background(), fetch.SearchParams{Query: "golang", Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Len(t, jobs, 2)
}

func TestFetchPage_ThinContentFallsBackToBrowser(t *testing.T) {
	s := New(Options{})
	s.fetchPage = func(_ context.Context, _ string) (string, error) {
		return "<html><body><p>Loading...</p></body></html>", nil
	}

	renders := 0
	s.renderPage = func(_ context.Context, _ string) (string, error) {
		renders++
		return searchPageFixture, nil
	}

	jobs, err := s.Search(context.Background(), fetch.SearchParams{Query: "golang", Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, renders, "thin plain-HTTP content should trigger browser rendering")
	assert.Len(t, jobs, 2)
}

func TestFetchPage_RichContentSkipsBrowser(t *testing.T) {
	richPage := fmt.Sprintf(`<html><body><section data-test="job-tile-list">
		<article data-test="JobTile">
			<h2><a data-test="job-tile-title-link" href="/jobs/Copywriter_~0055555/">Copywriter</a></h2>
			<div data-test="JobDescription"><p>%s</p></div>
		</article>
	</section></body></html>`, strings.Repeat("We need long-form marketing copy for product pages. ", 20))

	s := New(Options{})
	s.fetchPage = func(_ context.Context, _ string) (string, error) {
		return richPage, nil
	}

	renders := 0
	s.renderPage = func(_ context.Context, _ string) (string, error) {
		renders++
		return "", fmt.Errorf("should not be called")
	}

	jobs, err := s.Search(context.Background(), fetch.SearchParams{Query: "copywriting", Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, renders)
	assert.Len(t, jobs, 1)
}

func TestFetchPage_BrowserModeHasNoFallback(t *testing.T) {
	s := New(Options{UseBrowser: true})
	s.fetchPage = func(_ context.Context, _ string) (string, error) {
		return "<html><body><p>thin</p></body></html>", nil
	}

	renders := 0
	s.renderPage = func(_ context.Context, _ string) (string, error) {
		renders++
		return "", fmt.Errorf("should not be called")
	}

	_, err := s.FetchPage(context.Background(), fetch.SearchParams{Query: "golang", Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, renders, "already rendered in a browser, nothing to fall back to")
}

func TestFetchPage_RenderFailureKeepsPlainHTML(t *testing.T) {
	s := New(Options{})
	s.fetchPage = func(_ context.Context, _ string) (string, error) {
		return searchPageFixture, nil
	}
	s.renderPage = func(_ context.Context, _ string) (string, error) {
		return "", fmt.Errorf("chrome not installed")
	}

	jobs, err := s.Search(context.Background(), fetch.SearchParams{Query: "golang", Page: 1})
	require.NoError(t, err)
	assert.Len(t, jobs, 2, "render failure degrades to the plain-HTTP content")
}

func TestSearch_GivesUpAfterMaxRetries(t *testing.T) {
	s := New(Options{})
	s.retryDelay = time.Millisecond

	attempts := 0
	s.fetchPage = func(_ context.Context, _ string) (string, error) {
		attempts++
		return "", &fetch.Error{URL: "x", Message: "HTTP status 503", StatusCode: 503}
	}

	_, err := s.Search(context.Background(), fetch.SearchParams{Query: "golang", Page: 1})
	require.Error(t, err)
	assert.Equal(t, 1+MaxRetries, attempts)
}

func TestSearch_ClientErrorsAreNotRetried(t *testing.T) {
	s := New(Options{})
	s.retryDelay = time.Millisecond

	attempts := 0
	s.fetchPage = func(_ context.Context, _ string) (string, error) {
		attempts++
		return "", &fetch.Error{URL: "x", Message: "HTTP status 403", StatusCode: 403}
	}

	_, err := s.Search(context.Background(), fetch.SearchParams{Query: "golang", Page: 1})
	require.Error(t, err)
	assert.Equal(t, 1, attempts, "client errors are permanent, no retry")
}

func TestSearch_NonFetchErrorsAreNotRetried(t *testing.T) {
	s := New(Options{})
	s.retryDelay = time.Millisecond

	attempts := 0
	s.fetchPage = func(_ context.Context, _ string) (string, error) {
		attempts++
		return "", fmt.Errorf("cookie jar corrupted")
	}

	_, err := s.Search(context.Background(), fetch.SearchParams{Query: "golang", Page: 1})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

// Package scrape turns marketplace search result pages into raw job
// listings. It drives either plain HTTP fetching or a headless browser,
// retries transient server failures, and parses the result tiles.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/job-harvester/internal/fetch"
	"github.com/jonathan/job-harvester/internal/ingest"
)

// Retry policy for transient server failures.
const (
	MaxRetries        = 3
	DefaultRetryDelay = 2 * time.Second
)

// Options configures a Scraper.
type Options struct {
	// UseBrowser renders the page in headless Chrome instead of plain
	// HTTP. Needed when the search page is JavaScript rendered.
	UseBrowser bool
	// CookieFile points at a persisted login session. Empty means
	// anonymous browsing.
	CookieFile string
	Timeout    time.Duration
	Verbose    bool
}

// Scraper fetches and parses search result pages.
type Scraper struct {
	opts       Options
	retryDelay time.Duration

	// fetchPage and renderPage are swapped out in tests.
	fetchPage  func(ctx context.Context, url string) (string, error)
	renderPage func(ctx context.Context, url string) (string, error)
}

// New builds a Scraper for the given options.
func New(opts Options) *Scraper {
	if opts.Timeout == 0 {
		opts.Timeout = fetch.DefaultTimeout
	}
	s := &Scraper{
		opts:       opts,
		retryDelay: DefaultRetryDelay,
	}
	s.renderPage = s.fetchWithBrowser
	if opts.UseBrowser {
		s.fetchPage = s.fetchWithBrowser
	} else {
		s.fetchPage = s.fetchWithHTTP
	}
	return s
}

// Search fetches one search result page and parses its job tiles.
func (s *Scraper) Search(ctx context.Context, params fetch.SearchParams) ([]ingest.RawJob, error) {
	html, err := s.FetchPage(ctx, params)
	if err != nil {
		return nil, err
	}

	jobs, err := ParseSearchHTML(html)
	if err != nil {
		return nil, err
	}
	if s.opts.Verbose {
		log.Printf("[VERBOSE] Parsed %d job tiles", len(jobs))
	}
	return jobs, nil
}

// FetchPage retrieves the rendered HTML of one search result page.
// Server-side failures (HTTP 5xx, browser render errors) are retried up
// to MaxRetries times before giving up.
func (s *Scraper) FetchPage(ctx context.Context, params fetch.SearchParams) (string, error) {
	url := fetch.BuildSearchURL(params)

	var html string
	var err error
	for attempt := 0; ; attempt++ {
		html, err = s.fetchPage(ctx, url)
		if err == nil {
			return s.maybeRender(ctx, url, html), nil
		}
		if attempt >= MaxRetries || !retryable(err) {
			return "", fmt.Errorf("failed to fetch search page: %w", err)
		}
		log.Printf("Warning: fetch attempt %d failed: %v, retrying in %s", attempt+1, err, s.retryDelay)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(s.retryDelay):
		}
	}
}

// maybeRender falls back to browser rendering when a plain-HTTP fetch came
// back without meaningful content, which is what a JavaScript-rendered
// search page looks like to net/http. A failed render keeps the plain HTML.
func (s *Scraper) maybeRender(ctx context.Context, url, html string) string {
	if s.opts.UseBrowser {
		return html
	}

	text, err := fetch.ExtractMainText(html, fetch.SearchPageSelectors())
	if err != nil || !fetch.ShouldUseBrowser(text) {
		return html
	}

	log.Printf("Warning: page content too thin (%d chars), retrying with browser rendering", len(text))
	rendered, err := s.renderPage(ctx, url)
	if err != nil {
		log.Printf("Warning: browser rendering fallback failed: %v", err)
		return html
	}
	return rendered
}

func (s *Scraper) fetchWithHTTP(ctx context.Context, url string) (string, error) {
	opts := fetch.DefaultOptions()
	opts.Timeout = s.opts.Timeout
	if s.opts.CookieFile != "" {
		cookies, err := LoadCookies(s.opts.CookieFile)
		if err != nil {
			log.Printf("Warning: could not load cookies from %s: %v", s.opts.CookieFile, err)
		} else {
			opts.Cookies = httpCookies(cookies)
		}
	}

	result, err := fetch.URL(ctx, url, opts)
	if err != nil {
		return "", err
	}
	return result.HTML, nil
}

func (s *Scraper) fetchWithBrowser(ctx context.Context, url string) (string, error) {
	opts := fetch.BrowserOptions{
		Timeout:        s.opts.Timeout,
		ScrollToBottom: true,
		Verbose:        s.opts.Verbose,
	}
	if s.opts.CookieFile != "" {
		cookies, err := LoadCookies(s.opts.CookieFile)
		if err != nil {
			log.Printf("Warning: could not load cookies from %s: %v", s.opts.CookieFile, err)
		} else {
			opts.Cookies = browserCookies(cookies)
		}
	}
	return fetch.WithBrowser(ctx, url, opts)
}

// retryable reports whether a fetch failure is worth another attempt.
func retryable(err error) bool {
	var fetchErr *fetch.Error
	if errors.As(err, &fetchErr) {
		return fetchErr.ServerError()
	}
	// Browser render failures are treated as transient.
	return strings.Contains(err.Error(), "browser rendering failed")
}

// tileSelector matches one job tile in the search results. The markup
// carries data-test attributes on the modern layout and falls back to
// class names on the older one.
const tileSelector = `article[data-test="JobTile"], section[data-test="JobTile"], .job-tile`

// ParseSearchHTML extracts raw job listings from a search result page.
// Fields the page does not carry stay empty; classification and cleanup
// happen later in the pipeline.
func ParseSearchHTML(html string) ([]ingest.RawJob, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse search page: %w", err)
	}

	var jobs []ingest.RawJob
	doc.Find(tileSelector).Each(func(_ int, tile *goquery.Selection) {
		var job ingest.RawJob

		link := tile.Find(`[data-test="job-tile-title-link"], h2 a, h4 a`).First()
		job.Title = strings.TrimSpace(link.Text())
		job.Href, _ = link.Attr("href")

		job.Description = tileText(tile, `[data-test="UpCLineClamp JobDescription"] p, [data-test="JobDescription"] p, .job-description-text`)
		job.JobType = tileText(tile, `li[data-test="job-type-label"], .job-type`)
		job.ExperienceLevel = tileText(tile, `li[data-test="experience-level"], .experience-level`)
		job.Duration = tileText(tile, `li[data-test="duration-label"], .duration`)
		job.Rate = tileText(tile, `li[data-test="is-fixed-price"] strong:last-of-type, [data-test="budget"]`)
		job.ProposalCount = tileText(tile, `li[data-test="proposals-tier"] strong, .proposals`)
		job.Country = tileText(tile, `li[data-test="location"] .air3-badge-tagline, li[data-test="location"], .client-location`)
		job.Ratings = tileText(tile, `.air3-rating-value-text, [data-test="total-feedback"]`)
		job.Spent = tileText(tile, `li[data-test="total-spent"] strong, .client-spend`)
		job.Category = tileText(tile, `[data-test="attr-category"], .job-category`)

		verified := tileText(tile, `li[data-test="payment-verified"], .payment-verification-status`)
		job.PaymentVerified = strings.Contains(verified, "Payment verified")

		var skills []string
		tile.Find(`.air3-token span, [data-test="token"] span, .skill-badge`).Each(func(_ int, s *goquery.Selection) {
			if skill := strings.TrimSpace(s.Text()); skill != "" {
				skills = append(skills, skill)
			}
		})
		job.Skills = strings.Join(skills, ", ")

		if job.Title == "" && job.Href == "" {
			return // decorative tile, nothing to ingest
		}
		jobs = append(jobs, job)
	})

	return jobs, nil
}

// tileText returns the trimmed text of the first element matching selector.
func tileText(tile *goquery.Selection, selector string) string {
	return strings.TrimSpace(tile.Find(selector).First().Text())
}

package fetch

import (
	"net/url"
	"strconv"
)

// SearchBaseURL is the marketplace job search endpoint.
const SearchBaseURL = "https://www.upwork.com/nx/search/jobs/"

// SearchParams describes one search result page request.
type SearchParams struct {
	Query   string
	Page    int
	PerPage int
}

// BuildSearchURL assembles the search URL for a query, newest listings
// first. Page numbers below 1 are clamped to the first page.
func BuildSearchURL(p SearchParams) string {
	q := url.Values{}
	q.Set("q", p.Query)
	q.Set("sort", "recency")

	page := p.Page
	if page < 1 {
		page = 1
	}
	q.Set("page", strconv.Itoa(page))

	if p.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(p.PerPage))
	}

	return SearchBaseURL + "?" + q.Encode()
}

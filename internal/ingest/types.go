// Package ingest turns raw scraped job listings into canonical records and
// persists them. It owns identity resolution, batch merging, field
// normalization, and the per-cycle orchestration loop.
package ingest

// RawJob is the loosely-typed field set scraped for one listing. Every field
// comes straight off the page (or the LLM extraction) and may be empty. The
// JSON tags match both the audit file layout and the LLM output schema.
type RawJob struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	JobType         string `json:"job_type"` // composite; may embed the hourly rate
	ExperienceLevel string `json:"experience_level"`
	Duration        string `json:"duration"`
	Rate            string `json:"rate"`
	ProposalCount   string `json:"proposal_count"`
	PaymentVerified bool   `json:"payment_verified"`
	Country         string `json:"country"`
	Ratings         string `json:"ratings"`
	Spent           string `json:"spent"`
	Skills          string `json:"skills"`
	Category        string `json:"category"`

	// Href is the listing anchor target the identity resolver works on.
	Href string `json:"href,omitempty"`
	// JobID is filled by the merge step (or the synthetic fallback).
	JobID string `json:"job_id,omitempty"`
}

// Identity is a resolved stable job identifier for one batch position.
type Identity struct {
	JobID string `json:"job_id"`
}

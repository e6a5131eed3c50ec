package db

import "time"

// JobType constants for canonical job records
const (
	JobTypeHourly     = "Hourly"
	JobTypeFixedPrice = "Fixed-price"
)

// Payment verification display values
const (
	PaymentVerified = "Payment verified"
	NotVerified     = "Not verified"
)

// JobPost represents a canonical job listing as stored
type JobPost struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	JobType         string    `json:"job_type"`
	ExperienceLevel string    `json:"experience_level"`
	Duration        *string   `json:"duration,omitempty"`
	Rate            *string   `json:"rate,omitempty"`
	ProposalCount   string    `json:"proposal_count"`
	PaymentVerified string    `json:"payment_verified"`
	Country         *string   `json:"country,omitempty"`
	Ratings         string    `json:"ratings"`
	Spent           string    `json:"spent"`
	Skills          *string   `json:"skills,omitempty"`
	Category        *string   `json:"category,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// JobPostInput is used when persisting a normalized listing
type JobPostInput struct {
	ID              string  `validate:"required"`
	Title           string  `validate:"required"`
	Description     string
	JobType         string `validate:"required,oneof=Hourly Fixed-price"`
	ExperienceLevel string
	Duration        *string
	Rate            *string
	ProposalCount   string
	PaymentVerified string `validate:"required,oneof='Payment verified' 'Not verified'"`
	Country         *string
	Ratings         string
	Spent           string
	Skills          *string
	Category        *string
}

// JobPostUpdate carries field changes for UpdateJobPost. Nil fields are
// left as stored. Identity and classification fields (id, job_type,
// payment_verified) are not updateable; re-harvesting owns those.
type JobPostUpdate struct {
	Title           *string
	Description     *string
	ExperienceLevel *string
	Duration        *string
	Rate            *string
	ProposalCount   *string
	Country         *string
	Skills          *string
	Category        *string
}

// JobPostFilter narrows ListJobPosts results. Nil fields match everything.
type JobPostFilter struct {
	JobType         *string
	PaymentVerified *string
	Country         *string
	Limit           int
	Offset          int
}

package ingest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/job-harvester/internal/db"
)

var (
	// rateRangePattern matches "$12-$34" style ranges embedded in the
	// composite job-type line of hourly listings.
	rateRangePattern = regexp.MustCompile(`\$([\d.]+)-\$([\d.]+)`)
	// rateSinglePattern matches a lone "$12" amount.
	rateSinglePattern = regexp.MustCompile(`\$([\d.]+)`)
	// numericPattern matches the first integer or decimal substring.
	numericPattern = regexp.MustCompile(`\d+(\.\d+)?`)
)

// Normalize maps one raw listing onto the canonical persisted shape.
// Records whose job-type field carries neither recognizable marker return
// ErrUnclassified and must be dropped by the caller.
func Normalize(raw RawJob) (*db.JobPostInput, error) {
	jobTypeRaw := strings.TrimSpace(raw.JobType)

	var jobType, rate string
	var duration *string

	switch {
	case strings.Contains(jobTypeRaw, "Hourly"):
		jobType = db.JobTypeHourly
		if d := strings.TrimSpace(raw.Duration); d != "" {
			duration = &d
		}
		rate = hourlyRate(jobTypeRaw)

	case strings.Contains(jobTypeRaw, "Fixed price"), strings.Contains(jobTypeRaw, "Fixed-price"):
		jobType = db.JobTypeFixedPrice
		rate = strings.TrimSpace(raw.Rate)
		if rate == "" {
			rate = "$0"
		}
		// duration stays nil for fixed-price listings

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnclassified, jobTypeRaw)
	}

	input := &db.JobPostInput{
		ID:              raw.JobID,
		Title:           raw.Title,
		Description:     raw.Description,
		JobType:         jobType,
		ExperienceLevel: raw.ExperienceLevel,
		Duration:        duration,
		Rate:            &rate,
		ProposalCount:   strings.TrimSpace(raw.ProposalCount),
		PaymentVerified: db.NotVerified,
		Country:         nilIfEmpty(raw.Country),
		Ratings:         firstNumeric(raw.Ratings),
		Spent:           cleanSpent(raw.Spent),
		Skills:          nilIfEmpty(raw.Skills),
		Category:        nilIfEmpty(raw.Category),
	}
	if raw.PaymentVerified {
		input.PaymentVerified = db.PaymentVerified
	}

	return input, nil
}

// hourlyRate pulls the rate out of the composite job-type line: a
// "$lo-$hi" range first, a single "$v" second, "$0" when the line carries
// no dollar amount at all.
func hourlyRate(jobTypeRaw string) string {
	if m := rateRangePattern.FindStringSubmatch(jobTypeRaw); m != nil {
		return fmt.Sprintf("$%s-$%s", m[1], m[2])
	}
	if m := rateSinglePattern.FindStringSubmatch(jobTypeRaw); m != nil {
		return "$" + m[1]
	}
	return "$0"
}

// firstNumeric returns the first integer or decimal substring, "0" if none.
func firstNumeric(s string) string {
	if m := numericPattern.FindString(s); m != "" {
		return m
	}
	return "0"
}

// cleanSpent strips currency symbols and the trailing "+" from client spend
// strings ("$5,000+ " becomes "5,000"). Missing input yields "0".
func cleanSpent(s string) string {
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "+", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return "0"
	}
	return s
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

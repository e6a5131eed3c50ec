// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/job-harvester/internal/db"
	"github.com/jonathan/job-harvester/internal/ingest"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRawBatch outputs a human-readable preview of a scraped batch.
func (p *Printer) PrintRawBatch(batch []ingest.RawJob) {
	if len(batch) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Scraped %d listings:\n\n", len(batch)))

	count := min(len(batch), maxItemsToShow)
	for i := 0; i < count; i++ {
		job := batch[i]
		title := job.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, title))
		if job.JobType != "" {
			sb.WriteString(fmt.Sprintf("    Type: %s\n", job.JobType))
		}
		if job.Country != "" {
			sb.WriteString(fmt.Sprintf("    Client: %s\n", job.Country))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(batch) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more listings", len(batch)-maxItemsToShow))
	}

	p.printBox("SCRAPED BATCH", sb.String())
}

// PrintJobPost outputs a human-readable view of one stored listing.
func (p *Printer) PrintJobPost(post *db.JobPost) {
	if post == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID:       %s\n", post.ID))
	sb.WriteString(fmt.Sprintf("Title:    %s\n", post.Title))
	sb.WriteString(fmt.Sprintf("Type:     %s\n", post.JobType))
	if post.Rate != nil {
		sb.WriteString(fmt.Sprintf("Rate:     %s\n", *post.Rate))
	}
	if post.Duration != nil {
		sb.WriteString(fmt.Sprintf("Duration: %s\n", *post.Duration))
	}
	if post.ExperienceLevel != "" {
		sb.WriteString(fmt.Sprintf("Level:    %s\n", post.ExperienceLevel))
	}
	sb.WriteString(fmt.Sprintf("Payment:  %s\n", post.PaymentVerified))
	if post.Country != nil {
		sb.WriteString(fmt.Sprintf("Country:  %s\n", *post.Country))
	}
	if post.Skills != nil {
		skills := *post.Skills
		if len(skills) > 40 {
			skills = skills[:37] + "..."
		}
		sb.WriteString(fmt.Sprintf("Skills:   %s\n", skills))
	}

	p.printBox("JOB POST", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSummary outputs the outcome counts of one harvest cycle.
func (p *Printer) PrintSummary(summary *ingest.Summary) {
	if summary == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Received:  %d\n", summary.Received))
	sb.WriteString(fmt.Sprintf("Persisted: %d\n", summary.Persisted))
	sb.WriteString(fmt.Sprintf("Skipped:   %d (already stored)\n", summary.Skipped))
	sb.WriteString(fmt.Sprintf("Dropped:   %d (unclassifiable)\n", summary.Dropped))
	sb.WriteString(fmt.Sprintf("Failed:    %d\n", summary.Failed))
	if summary.AuditPath != "" {
		sb.WriteString(fmt.Sprintf("Audit:     %s\n", summary.AuditPath))
	}

	p.printBox("HARVEST SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

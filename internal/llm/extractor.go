// Package llm - extractor.go provides LLM-based extraction of job listings
// from rendered search page text.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/job-harvester/internal/ingest"
	"github.com/jonathan/job-harvester/internal/prompts"
	"github.com/jonathan/job-harvester/internal/schemas"
)

// ExtractionSchema defines the structure for LLM-based listing extraction.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "JobListings")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected fields of each extracted listing
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "boolean"
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and page text.
// The model is asked for a JSON array holding one object per listing.
func BuildExtractionPrompt(schema ExtractionSchema, pageText string) string {
	var sb strings.Builder

	// System description
	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	// Output schema
	sb.WriteString("Return ONLY a valid JSON array. Each element matches this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	// Instructions
	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Extract information directly from the text, do not invent or summarize.\n")
	sb.WriteString("- Omit fields the text does not carry rather than guessing.\n")
	sb.WriteString("- Return ONLY the JSON array, no markdown, no explanation, no code blocks.\n\n")

	// Input text
	sb.WriteString("Search page text:\n\"\"\"\n")
	sb.WriteString(pageText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// JobListingSchema returns the extraction schema for marketplace search pages.
func JobListingSchema() ExtractionSchema {
	return ExtractionSchema{
		Name:        "JobListings",
		Description: prompts.MustGet("extraction.json", "job_listings_system"),
		Fields: []SchemaField{
			{Name: "title", Type: "\"string\"", Description: "Listing title, copied verbatim", Required: true},
			{Name: "description", Type: "\"string\"", Description: "Listing description or excerpt, verbatim"},
			{Name: "job_type", Type: "\"string\"", Description: "The full job type line, e.g. 'Hourly: $30-$60' or 'Fixed price'", Required: true},
			{Name: "experience_level", Type: "\"string\"", Description: "Entry, Intermediate or Expert"},
			{Name: "duration", Type: "\"string\"", Description: "Estimated engagement length, e.g. '3 to 6 months'"},
			{Name: "rate", Type: "\"string\"", Description: "Fixed-price budget, e.g. '$250'"},
			{Name: "proposal_count", Type: "\"string\"", Description: "Proposals tier, e.g. '5 to 10'"},
			{Name: "payment_verified", Type: "boolean", Description: "Whether the client shows a payment verified badge"},
			{Name: "country", Type: "\"string\"", Description: "Client country"},
			{Name: "ratings", Type: "\"string\"", Description: "Client rating, e.g. '4.9'"},
			{Name: "spent", Type: "\"string\"", Description: "Client total spend, e.g. '$10K+'"},
			{Name: "skills", Type: "\"string\"", Description: "Comma separated skill tags"},
			{Name: "category", Type: "\"string\"", Description: "Job category if shown"},
			{Name: "href", Type: "\"string\"", Description: "Relative link to the listing, carries the listing id"},
		},
	}
}

// Extractor turns rendered search page text into raw listings via an LLM.
// It exists as a fallback for page layouts the selector-based parser
// cannot handle.
type Extractor struct {
	client Client
	tier   ModelTier
}

// NewExtractor builds an Extractor on top of client.
func NewExtractor(client Client) *Extractor {
	return &Extractor{
		client: client,
		tier:   TierLite, // extraction is a simple task
	}
}

// ExtractJobs prompts the model with the page text and parses the
// validated response into raw listings. An invalid response gets one
// repair round before the extraction fails.
func (e *Extractor) ExtractJobs(ctx context.Context, pageText string) ([]ingest.RawJob, error) {
	prompt := BuildExtractionPrompt(JobListingSchema(), pageText)

	response, err := e.client.GenerateJSON(ctx, prompt, e.tier)
	if err != nil {
		return nil, fmt.Errorf("job listing extraction failed: %w", err)
	}

	cleaned := CleanJSONBlock(response)
	validationErr := schemas.ValidateJSONString(schemas.RawJobs(), cleaned)
	if validationErr != nil {
		cleaned, err = e.repair(ctx, cleaned, validationErr)
		if err != nil {
			return nil, err
		}
	}

	var jobs []ingest.RawJob
	if err := json.Unmarshal([]byte(cleaned), &jobs); err != nil {
		return nil, fmt.Errorf("failed to parse extracted listings: %w", err)
	}

	return jobs, nil
}

// repair asks the model to fix output that failed schema validation.
func (e *Extractor) repair(ctx context.Context, previous string, cause error) (string, error) {
	prompt := prompts.Format(prompts.MustGet("extraction.json", "job_listings_repair"), map[string]string{
		"Previous": previous,
		"Errors":   cause.Error(),
	})

	response, err := e.client.GenerateJSON(ctx, prompt, e.tier)
	if err != nil {
		return "", fmt.Errorf("listing repair failed: %w", err)
	}

	cleaned := CleanJSONBlock(response)
	if err := schemas.ValidateJSONString(schemas.RawJobs(), cleaned); err != nil {
		return "", fmt.Errorf("extracted listings failed schema validation: %w", err)
	}
	return cleaned, nil
}

// Package harvest provides the high-level orchestration for one
// scrape-and-ingest cycle and the recurring serve loop.
package harvest

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/jonathan/job-harvester/internal/db"
	"github.com/jonathan/job-harvester/internal/fetch"
	"github.com/jonathan/job-harvester/internal/ingest"
	"github.com/jonathan/job-harvester/internal/llm"
	"github.com/jonathan/job-harvester/internal/observability"
	"github.com/jonathan/job-harvester/internal/scrape"
)

// RunOptions holds configuration for running one harvest cycle
type RunOptions struct {
	Query       string
	Page        int
	PerPage     int
	DatabaseURL string
	APIKey      string
	UseLLM      bool
	UseBrowser  bool
	CookieFile  string
	AuditDir    string
	Verbose     bool
}

// Run executes one harvest cycle: fetch the search page, extract raw
// listings, push them through the ingestion pipeline, and record the run.
func Run(ctx context.Context, opts RunOptions) (*ingest.Summary, error) {
	printer := observability.NewPrinter(os.Stdout)

	fmt.Printf("=== Harvesting listings for %q (page %d) ===\n", opts.Query, max(opts.Page, 1))

	batch, err := acquire(ctx, opts)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		printer.PrintRawBatch(batch)
	}
	if len(batch) == 0 {
		log.Printf("Warning: no listings found for %q", opts.Query)
	}

	database, err := db.Connect(ctx, opts.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	// Schema assurance happens inside the pipeline, right before the
	// first insert.
	runID, err := database.CreateRun(ctx, opts.Query)
	if err != nil {
		// Run bookkeeping is informational, the cycle still proceeds.
		log.Printf("Warning: failed to record harvest run: %v", err)
	}

	pipeline := ingest.NewPipeline(database, ingest.Options{
		AuditDir: opts.AuditDir,
		Verbose:  opts.Verbose,
	})

	summary, runErr := pipeline.Run(ctx, batch)

	if runID != uuid.Nil {
		status := db.RunStatusCompleted
		if runErr != nil {
			status = db.RunStatusFailed
		}
		counts := db.RunCounts{
			Received:  summary.Received,
			Persisted: summary.Persisted,
			Skipped:   summary.Skipped,
			Dropped:   summary.Dropped,
			Failed:    summary.Failed,
		}
		if err := database.CompleteRun(ctx, runID, status, counts); err != nil {
			log.Printf("Warning: failed to complete harvest run: %v", err)
		}
	}

	if runErr != nil {
		return summary, runErr
	}

	printer.PrintSummary(summary)
	return summary, nil
}

// acquire fetches the search page and turns it into raw listings, either
// through the selector-based parser or the LLM extraction fallback.
func acquire(ctx context.Context, opts RunOptions) ([]ingest.RawJob, error) {
	scraper := scrape.New(scrape.Options{
		UseBrowser: opts.UseBrowser,
		CookieFile: opts.CookieFile,
		Verbose:    opts.Verbose,
	})
	params := fetch.SearchParams{
		Query:   opts.Query,
		Page:    opts.Page,
		PerPage: opts.PerPage,
	}

	if !opts.UseLLM {
		return scraper.Search(ctx, params)
	}

	html, err := scraper.FetchPage(ctx, params)
	if err != nil {
		return nil, err
	}
	text, err := fetch.ExtractMainText(html, fetch.SearchPageSelectors())
	if err != nil {
		return nil, err
	}

	client, err := llm.NewClient(ctx, nil, opts.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	return llm.NewExtractor(client).ExtractJobs(ctx, text)
}

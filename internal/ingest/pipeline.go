package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/job-harvester/internal/db"
)

// Store is the persistence gateway the pipeline writes canonical records to.
type Store interface {
	// EnsureSchema makes sure the target tables exist. Idempotent.
	EnsureSchema(ctx context.Context) error
	// UpsertJobPost inserts a canonical record, skipping ids already stored.
	// The bool reports whether a new row was actually written.
	UpsertJobPost(ctx context.Context, input *db.JobPostInput) (bool, error)
}

// Summary reports the outcome counts of one ingestion cycle.
type Summary struct {
	Received  int    `json:"received"`
	Persisted int    `json:"persisted"`
	Skipped   int    `json:"skipped"` // duplicate ids already stored
	Dropped   int    `json:"dropped"` // unclassifiable job type
	Failed    int    `json:"failed"`  // normalization, validation or insert errors
	AuditPath string `json:"audit_path,omitempty"`
}

// Options configures a Pipeline.
type Options struct {
	// AuditDir receives the timestamped JSON dump of each merged batch.
	// Empty disables audit files.
	AuditDir string
	Verbose  bool
}

// Pipeline orchestrates identity resolution, merging, normalization and
// persistence for one raw batch at a time. Records are processed strictly
// in acquisition order, one by one; a failure in one record never aborts
// the rest of the batch.
type Pipeline struct {
	store    Store
	validate *validator.Validate
	opts     Options
}

// NewPipeline builds a Pipeline writing to store.
func NewPipeline(store Store, opts Options) *Pipeline {
	return &Pipeline{
		store:    store,
		validate: validator.New(),
		opts:     opts,
	}
}

// Run executes one ingestion cycle. The returned Summary is valid even when
// an error is returned; the error is non-nil only for batch-fatal conditions
// (identity/raw length mismatch, schema assurance failure).
func (p *Pipeline) Run(ctx context.Context, batch []RawJob) (*Summary, error) {
	summary := &Summary{Received: len(batch)}

	ids := ResolveIdentities(batch)
	merged, err := MergeIdentities(batch, ids)
	if err != nil {
		log.Printf("Error: %v, aborting batch", err)
		return summary, err
	}

	// Listings without a stable id still get persisted under a synthetic one.
	for i := range merged {
		if merged[i].JobID == "" {
			merged[i].JobID = SyntheticJobID()
		}
	}

	if p.opts.AuditDir != "" {
		path, auditErr := WriteAuditFile(p.opts.AuditDir, merged)
		if auditErr != nil {
			log.Printf("Warning: failed to write audit file: %v", auditErr)
		} else {
			summary.AuditPath = path
			if p.opts.Verbose {
				log.Printf("[VERBOSE] Audit file written: %s", path)
			}
		}
	}

	if err := p.store.EnsureSchema(ctx); err != nil {
		return summary, fmt.Errorf("schema assurance failed: %w", err)
	}

	for _, job := range merged {
		input, err := Normalize(job)
		if err != nil {
			if errors.Is(err, ErrUnclassified) {
				log.Printf("Warning: invalid or missing job type for %q: %v, skipping", job.Title, err)
				summary.Dropped++
				continue
			}
			log.Printf("Error: %v, skipping", &RecordError{Title: job.Title, Cause: err})
			summary.Failed++
			continue
		}

		// The synthetic fallback guarantees a non-empty id, but nothing
		// malformed may reach the insert.
		if err := p.validate.Struct(input); err != nil {
			log.Printf("Error: %v, skipping", &RecordError{Title: job.Title, Cause: err})
			summary.Failed++
			continue
		}

		inserted, err := p.store.UpsertJobPost(ctx, input)
		if err != nil {
			log.Printf("Error: %v, skipping", &RecordError{Title: job.Title, Cause: err})
			summary.Failed++
			continue
		}
		if inserted {
			summary.Persisted++
			if p.opts.Verbose {
				log.Printf("[VERBOSE] Persisted job %s (%s)", input.ID, input.Title)
			}
		} else {
			summary.Skipped++
			if p.opts.Verbose {
				log.Printf("[VERBOSE] Job %s already stored, skipped", input.ID)
			}
		}
	}

	return summary, nil
}

package harvest

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler wraps robfig/cron and manages the recurring harvest loop.
type Scheduler struct {
	cron *cron.Cron
	opts RunOptions
	spec string // cron spec, e.g. "@every 300s"
}

// NewScheduler creates a Scheduler that fires every intervalSeconds seconds.
func NewScheduler(opts RunOptions, intervalSeconds int) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		opts: opts,
		spec: fmt.Sprintf("@every %ds", intervalSeconds),
	}
}

// Start registers the job and starts the scheduler. Also runs one cycle
// immediately so the table is populated without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runCycle(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started, spec: %s", s.spec)

	// Run immediately on startup (non-blocking)
	go s.runCycle(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] Cron stopped")
}

// runCycle executes one harvest cycle. Cycle errors are logged, never
// fatal; the next tick gets a fresh attempt.
func (s *Scheduler) runCycle(ctx context.Context) {
	log.Printf("[scheduler] Harvest cycle started for %q", s.opts.Query)

	summary, err := Run(ctx, s.opts)
	if err != nil {
		log.Printf("[scheduler] Harvest cycle error: %v", err)
		return
	}

	log.Printf("[scheduler] Harvest cycle complete: %d received, %d persisted, %d skipped, %d dropped, %d failed",
		summary.Received, summary.Persisted, summary.Skipped, summary.Dropped, summary.Failed)
}

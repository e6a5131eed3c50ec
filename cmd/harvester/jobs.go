package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-harvester/internal/db"
	"github.com/jonathan/job-harvester/internal/observability"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Inspect harvested job listings",
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List harvested job listings",
	RunE:  runJobsList,
}

var jobsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a single job listing",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsGet,
}

var jobsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a job listing",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsDelete,
}

var (
	jobsDatabaseURL     string
	jobsJobType         string
	jobsPaymentVerified string
	jobsCountry         string
	jobsLimit           int
	jobsOffset          int
)

func init() {
	jobsCmd.PersistentFlags().StringVar(&jobsDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	jobsListCmd.Flags().StringVar(&jobsJobType, "job-type", "", "Filter by job type (Hourly or Fixed-price)")
	jobsListCmd.Flags().StringVar(&jobsPaymentVerified, "payment-verified", "", "Filter by payment status (Payment verified or Not verified)")
	jobsListCmd.Flags().StringVar(&jobsCountry, "country", "", "Filter by client country")
	jobsListCmd.Flags().IntVar(&jobsLimit, "limit", 20, "Maximum number of listings to show")
	jobsListCmd.Flags().IntVar(&jobsOffset, "offset", 0, "Number of listings to skip")

	jobsCmd.AddCommand(jobsListCmd)
	jobsCmd.AddCommand(jobsGetCmd)
	jobsCmd.AddCommand(jobsDeleteCmd)

	rootCmd.AddCommand(jobsCmd)
}

// connectDB resolves the connection URL and opens a pool for the jobs
// subcommands. Callers must Close the returned handle.
func connectDB(ctx context.Context) (*db.DB, error) {
	url := jobsDatabaseURL
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}

	database, err := db.Connect(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return database, nil
}

func runJobsList(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	database, err := connectDB(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	filter := db.JobPostFilter{
		Limit:  jobsLimit,
		Offset: jobsOffset,
	}
	if cmd.Flags().Changed("job-type") {
		filter.JobType = &jobsJobType
	}
	if cmd.Flags().Changed("payment-verified") {
		filter.PaymentVerified = &jobsPaymentVerified
	}
	if cmd.Flags().Changed("country") {
		filter.Country = &jobsCountry
	}

	posts, err := database.ListJobPosts(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to list job posts: %w", err)
	}

	total, err := database.CountJobPosts(ctx)
	if err != nil {
		return fmt.Errorf("failed to count job posts: %w", err)
	}

	if len(posts) == 0 {
		fmt.Fprintf(os.Stdout, "No job listings found (%d stored in total)\n", total)
		return nil
	}

	for _, post := range posts {
		line := fmt.Sprintf("%s  %-12s %s", post.ID, post.JobType, post.Title)
		if post.Country != nil && *post.Country != "" {
			line += fmt.Sprintf("  (%s)", *post.Country)
		}
		fmt.Fprintln(os.Stdout, line)
	}
	fmt.Fprintf(os.Stdout, "\nShowing %d of %d listings\n", len(posts), total)

	return nil
}

func runJobsGet(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	id := strings.TrimSpace(args[0])

	database, err := connectDB(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	post, err := database.GetJobPost(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get job post: %w", err)
	}
	if post == nil {
		return fmt.Errorf("no job listing with id %s", id)
	}

	observability.NewPrinter(os.Stdout).PrintJobPost(post)
	return nil
}

func runJobsDelete(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	id := strings.TrimSpace(args[0])

	database, err := connectDB(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	existed, err := database.DeleteJobPost(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete job post: %w", err)
	}
	if !existed {
		return fmt.Errorf("no job listing with id %s", id)
	}

	fmt.Fprintf(os.Stdout, "Deleted job listing %s\n", id)
	return nil
}

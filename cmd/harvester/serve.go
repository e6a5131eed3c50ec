package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-harvester/internal/harvest"
)

var serveInterval int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Harvest on a fixed interval until interrupted",
	Long:  `Runs harvest cycles on a fixed interval. The first cycle starts immediately; errors in one cycle are logged and the next cycle runs as scheduled. Stop with SIGINT or SIGTERM.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&serveInterval, "interval", 0, "Seconds between harvest cycles (defaults to interval_seconds from config, then 300)")

	// Serve shares the run command's configuration surface.
	serveCmd.Flags().AddFlagSet(runCommand.Flags())

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("interval") {
		cfg.IntervalSeconds = serveInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scheduler := harvest.NewScheduler(harvestOptions(cfg), cfg.IntervalSeconds)
	if err := scheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer scheduler.Stop()

	fmt.Fprintf(os.Stdout, "Harvesting %q every %d seconds, press Ctrl+C to stop\n", cfg.Query, cfg.IntervalSeconds)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	fmt.Fprintln(os.Stdout, "Shutting down")
	return nil
}

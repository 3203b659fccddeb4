package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hyunwoo/tradeideas/internal/scheduler"
	"github.com/hyunwoo/tradeideas/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the scan scheduler",
	Long: `Starts the scheduler daemon or manages its jobs.

Registered jobs:
  cross_scan      - weekdays 22:30 UTC, after the US close
  candidate_scan  - Saturday 08:00 UTC
  price_prune     - Sunday 06:00 UTC (requires database)

Example:
  go run ./cmd/tradeideas scheduler start
  go run ./cmd/tradeideas scheduler run cross_scan`,
}

var schedulerStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the scheduler daemon",
	RunE:  runSchedulerStart,
}

var schedulerRunCmd = &cobra.Command{
	Use:   "run [job]",
	Short: "Run one job immediately and exit",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchedulerJob,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

// buildJobs wires every job the dependency graph supports. The prune
// job needs the database and is omitted without one.
func buildJobs(d *deps) []scheduler.Job {
	list := []scheduler.Job{
		jobs.NewCrossScanJob(d.crosses, d.constituents, d.cfg, d.log),
		jobs.NewCandidateScanJob(d.candidates, d.constituents, d.log),
	}
	if d.priceRepo != nil {
		list = append(list, jobs.NewPricePruneJob(d.priceRepo, d.log))
	}
	return list
}

func buildScheduler(d *deps) (*scheduler.Scheduler, error) {
	sched := scheduler.New(d.log)
	for _, job := range buildJobs(d) {
		if err := sched.AddJob(job); err != nil {
			return nil, err
		}
	}
	return sched, nil
}

func runSchedulerStart(cmd *cobra.Command, args []string) error {
	d, err := build(true)
	if err != nil {
		return err
	}
	defer d.close()

	sched, err := buildScheduler(d)
	if err != nil {
		return fmt.Errorf("build scheduler: %w", err)
	}

	sched.Start()
	fmt.Println("\n✅ Scheduler running")
	for _, name := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", name)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}

func runSchedulerJob(cmd *cobra.Command, args []string) error {
	d, err := build(true)
	if err != nil {
		return err
	}
	defer d.close()

	jobName := args[0]
	known := make([]string, 0, 3)
	for _, job := range buildJobs(d) {
		if job.Name() == jobName {
			return job.Run(cmd.Context())
		}
		known = append(known, job.Name())
	}

	return fmt.Errorf("unknown job: %s (known: %v)", jobName, known)
}

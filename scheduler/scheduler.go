// Package scheduler runs the background jobs of the pharmacy API: upstream
// reachability probes, the daily interaction cache warm-up and the sweep of
// expired in-memory cache entries.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/eczane/pharmacy-api/interfaces"
	"github.com/eczane/pharmacy-api/logging"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// CommonPairs are the drug sets pharmacists check most often; the warm-up
// keeps their interaction answers in the cache.
var CommonPairs = [][]string{
	{"warfarin", "aspirin"},
	{"warfarin", "ibuprofen"},
	{"warfarin", "paracetamol"},
	{"metformin", "ibuprofen"},
	{"lisinopril", "ibuprofen"},
	{"ramipril", "spironolactone"},
	{"simvastatin", "clarithromycin"},
	{"atorvastatin", "clarithromycin"},
	{"sertraline", "tramadol"},
	{"fluoxetine", "tramadol"},
	{"clopidogrel", "omeprazole"},
	{"digoxin", "amiodarone"},
	{"methotrexate", "ibuprofen"},
	{"levothyroxine", "omeprazole"},
}

// Prober refreshes upstream reachability
type Prober interface {
	Probe(ctx context.Context)
}

// Sweeper drops expired cache entries and reports how many went
type Sweeper interface {
	Sweep() int
}

// Jobs are the collaborators of the scheduled jobs. Nil members disable their job.
type Jobs struct {
	Prober  Prober
	Warmer  interfaces.CacheWarmer
	Sweeper Sweeper
}

// Options configure job frequency
type Options struct {
	ProbeInterval time.Duration
	WarmupEnabled bool
	WarmupAt      string // daily time, "15:04"
	JobTimeout    time.Duration
}

// Scheduler handles the background jobs using dependency injection
type Scheduler struct {
	jobs      Jobs
	opts      Options
	scheduler *gocron.Scheduler
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(jobs Jobs, opts Options) *Scheduler {
	if opts.WarmupAt == "" {
		opts.WarmupAt = "04:00"
	}
	if opts.JobTimeout <= 0 {
		opts.JobTimeout = 5 * time.Minute
	}
	return &Scheduler{
		jobs:      jobs,
		opts:      opts,
		scheduler: gocron.NewScheduler(time.Local),
	}
}

// Start registers the jobs and runs them asynchronously. The probe runs once
// immediately so /health has data right after boot.
func (s *Scheduler) Start() error {
	if s.jobs.Prober != nil && s.opts.ProbeInterval > 0 {
		_, err := s.scheduler.Every(s.opts.ProbeInterval).Do(s.probe)
		if err != nil {
			logging.Error("Failed to schedule upstream probe", "error", err)
			return fmt.Errorf("failed to schedule upstream probe: %w", err)
		}
	}

	if s.jobs.Warmer != nil && s.opts.WarmupEnabled {
		_, err := s.scheduler.Every(1).Days().At(s.opts.WarmupAt).Do(s.warm)
		if err != nil {
			logging.Error("Failed to schedule cache warm-up", "error", err)
			return fmt.Errorf("failed to schedule cache warm-up: %w", err)
		}
	}

	if s.jobs.Sweeper != nil {
		_, err := s.scheduler.Every(10).Minutes().WaitForSchedule().Do(s.sweep)
		if err != nil {
			logging.Error("Failed to schedule cache sweep", "error", err)
			return fmt.Errorf("failed to schedule cache sweep: %w", err)
		}
	}

	s.scheduler.StartAsync()
	logging.Info("Scheduler started", "jobs", len(s.scheduler.Jobs()))
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.JobTimeout)
	defer cancel()
	s.jobs.Prober.Probe(ctx)
}

func (s *Scheduler) warm() {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.JobTimeout)
	defer cancel()

	logging.Info(fmt.Sprintf("Starting cache warm-up at: %s", time.Now().Format(time.RFC3339)))
	start := time.Now()
	report := s.jobs.Warmer.Warm(ctx, CommonPairs)
	logging.Info("Cache warm-up completed",
		"duration", time.Since(start).String(),
		"computed", report.Computed,
		"fresh", report.Fresh)
}

func (s *Scheduler) sweep() {
	if n := s.jobs.Sweeper.Sweep(); n > 0 {
		logging.Debug("Expired cache entries swept", "count", n)
	}
}

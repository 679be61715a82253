package loadtest

import (
	"context"
	"fmt"
	"time"

	"github.com/mergington/activities/internal/domain/types"
	"github.com/mergington/activities/pkg/logger"
)

// Validate checks the run configuration.
func (c *Config) Validate() error {
	switch {
	case c.BaseURL == "":
		return fmt.Errorf("%w: url must not be empty", ErrInvalidConfig)
	case c.Students < 1:
		return fmt.Errorf("%w: students must be positive", ErrInvalidConfig)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	case c.Timeout <= 0:
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

// Run executes the complete load test and returns its statistics. The
// returned error wraps ErrVerification when the server broke a roster
// invariant.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logger.Get()
	stats := &Stats{
		Students:  cfg.Students,
		StartTime: time.Now(),
	}

	log.Info(ctx, "starting signup load test",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("students", cfg.Students),
		logger.Int("workers", cfg.Workers),
		logger.String("timeout", cfg.Timeout.String()),
		logger.Any("activities", cfg.Activities),
		logger.Bool("verbose", cfg.Verbose))

	client := NewClient(cfg.BaseURL, cfg.Timeout)

	// Step 1: Check service health
	if err := client.Health(ctx); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Snapshot the directory and pick targets
	before, err := client.Activities(ctx)
	if err != nil {
		return nil, err
	}
	stats.Before = before

	names, err := targets(before, cfg.Activities)
	if err != nil {
		return nil, err
	}

	// Step 3: Generate students
	assignments := generateAssignments(cfg.Students, names)
	removed := assignments[:len(assignments)/2]
	kept := assignments[len(assignments)/2:]

	// Step 4: Sign everyone up twice
	stats.Signups = submit(ctx, cfg, client, signupJobs(assignments))
	log.Info(ctx, "signups submitted",
		logger.Int("ok", stats.Signups.OK),
		logger.Int("rejected", stats.Signups.Rejected),
		logger.Int("failed", stats.Signups.Failed))

	// Step 5: Unregister half
	stats.Unregister = submit(ctx, cfg, client, unregisterJobs(assignments))
	log.Info(ctx, "unregisters submitted",
		logger.Int("ok", stats.Unregister.OK),
		logger.Int("rejected", stats.Unregister.Rejected),
		logger.Int("failed", stats.Unregister.Failed))

	// Step 6: Verify
	after, err := client.Activities(ctx)
	if err != nil {
		return stats, err
	}
	stats.After = after
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	if err := verifyOutcomes(stats, len(removed)); err != nil {
		return stats, err
	}
	if err := verifyRosters(after, kept, removed); err != nil {
		return stats, err
	}

	displayFinalStats(ctx, stats)
	log.Info(ctx, "load test completed successfully")
	return stats, nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var requestsPerSecond, duplicateRate float64

	total := stats.Signups.total() + stats.Unregister.total()
	if stats.Duration > 0 {
		requestsPerSecond = float64(total) / stats.Duration.Seconds()
	}
	if attempts := stats.Signups.OK + stats.Signups.Rejected; attempts > 0 {
		duplicateRate = float64(stats.Signups.Rejected) / float64(attempts) * PercentageMultiplier
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("students", stats.Students),
		logger.Int("signupsAccepted", stats.Signups.OK),
		logger.Int("signupsRejected", stats.Signups.Rejected),
		logger.Int("unregistered", stats.Unregister.OK),
		logger.Int("participantsBefore", participants(stats.Before)),
		logger.Int("participantsAfter", participants(stats.After)),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("duplicateRate", duplicateRate),
		logger.Float64("requestsPerSecond", requestsPerSecond))
}

func (o Outcome) total() int {
	return o.OK + o.Rejected + o.Failed
}

func participants(d types.Directory) int {
	n := 0
	for _, a := range d {
		n += len(a.Participants)
	}
	return n
}

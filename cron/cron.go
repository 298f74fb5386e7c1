package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/robfig/cron/v3"
)

// Sweeper is the job run on every tick.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// SweepFunc adapts a function to Sweeper.
type SweepFunc func(ctx context.Context) (int, error)

func (f SweepFunc) Sweep(ctx context.Context) (int, error) { return f(ctx) }

// Start schedules job on spec (standard five-field cron syntax) and returns the
// running scheduler. Each run gets its own timeout.
func Start(spec string, timeout time.Duration, job Sweeper) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		RunOnce(context.Background(), timeout, job)
	})
	if err != nil {
		return nil, fmt.Errorf("schedule %q: %w", spec, err)
	}
	c.Start()
	log.Infof("completion sweep scheduled: %s", spec)
	return c, nil
}

// RunOnce runs job a single time and logs the outcome.
func RunOnce(ctx context.Context, timeout time.Duration, job Sweeper) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	n, err := job.Sweep(ctx)
	if err != nil {
		log.Errorf("completion sweep failed: %v", err)
		return
	}
	log.Infof("completion sweep done, %d appointment(s) completed", n)
}

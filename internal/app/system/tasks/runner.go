// internal/app/system/tasks/runner.go
package tasks

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is periodic background work. Run gets a context bounded by Timeout.
type Job struct {
	Name     string
	Interval time.Duration
	Timeout  time.Duration // defaults to Interval
	Run      func(ctx context.Context) error
}

// Runner runs each job on its own ticker until Stop.
type Runner struct {
	log  *zap.Logger
	jobs []Job

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRunner(logger *zap.Logger, jobs ...Job) *Runner {
	return &Runner{log: logger, jobs: jobs}
}

// Start launches every job. Each runs once immediately, then on its
// interval. Jobs stop when ctx ends or Stop is called.
func (r *Runner) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	for _, j := range r.jobs {
		if j.Interval <= 0 || j.Run == nil {
			r.log.Warn("job skipped: no interval or run func", zap.String("job", j.Name))
			continue
		}
		r.wg.Add(1)
		go r.loop(ctx, j)
		r.log.Info("background job started",
			zap.String("job", j.Name),
			zap.Duration("interval", j.Interval))
	}
}

// Stop cancels all jobs and waits for in-flight runs to return.
func (r *Runner) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	r.wg.Wait()
	r.log.Info("background jobs stopped")
}

func (r *Runner) loop(ctx context.Context, j Job) {
	defer r.wg.Done()

	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	for {
		r.runOnce(ctx, j)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (r *Runner) runOnce(ctx context.Context, j Job) {
	timeout := j.Timeout
	if timeout <= 0 {
		timeout = j.Interval
	}
	rctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := j.Run(rctx); err != nil && ctx.Err() == nil {
		r.log.Error("background job failed", zap.String("job", j.Name), zap.Error(err))
	}
}

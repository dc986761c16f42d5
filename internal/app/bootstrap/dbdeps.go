// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"context"
	"sync"

	"github.com/dalemusser/campushub/internal/app/system/tasks"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds the backends shared by every feature. It is passed by value
// to each hook; Lifecycle is a pointer so Startup and Shutdown share it.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
	Lifecycle     *Lifecycle
}

// Lifecycle owns the process-wide background context and job runner. It is
// built in ConnectDB and cancelled in Shutdown.
type Lifecycle struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	jobs *tasks.Runner
}

// NewLifecycle returns a running Lifecycle.
func NewLifecycle() *Lifecycle {
	ctx, cancel := context.WithCancel(context.Background())
	return &Lifecycle{ctx: ctx, cancel: cancel}
}

// Context is done once Stop has been called. Long-lived helpers built for
// the handler (login limiter sweeps) run under it.
func (l *Lifecycle) Context() context.Context { return l.ctx }

// StartJobs starts r under the lifecycle context. A runner already started
// is stopped first.
func (l *Lifecycle) StartJobs(r *tasks.Runner) {
	l.mu.Lock()
	prev := l.jobs
	l.jobs = r
	l.mu.Unlock()
	if prev != nil {
		prev.Stop()
	}
	r.Start(l.ctx)
}

// Stop stops the jobs, waits for them, then cancels the context. It is
// safe to call more than once.
func (l *Lifecycle) Stop() {
	l.mu.Lock()
	jobs := l.jobs
	l.jobs = nil
	l.mu.Unlock()
	if jobs != nil {
		jobs.Stop()
	}
	l.cancel()
}

package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a unit of background work. The context is cancelled on Stop.
type Job func(ctx context.Context) error

type Metrics interface {
	IncSchedulerRun(job string, err error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Scheduler runs registered jobs on cron specs with seconds precision in UTC
type Scheduler struct {
	cron    *cron.Cron
	metrics Metrics
	logger  Logger

	ctx    context.Context
	cancel context.CancelFunc
}

func New(metrics Metrics, logger Logger) *Scheduler {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:    c,
		metrics: metrics,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Register adds a named job. The spec has six fields, seconds first.
func (s *Scheduler) Register(name, spec string, job Job) error {
	if _, err := s.cron.AddFunc(spec, func() { s.run(name, job) }); err != nil {
		return fmt.Errorf("scheduler: register %s with spec %q: %w", name, spec, err)
	}
	s.logger.Info("Scheduler: job %s registered with spec %q", name, spec)
	return nil
}

func (s *Scheduler) run(name string, job Job) {
	started := time.Now()
	err := job(s.ctx)
	s.metrics.IncSchedulerRun(name, err)

	if err != nil {
		s.logger.Error("Scheduler: job %s failed after %s: %v", name, time.Since(started), err)
		return
	}
	s.logger.Info("Scheduler: job %s finished in %s", name, time.Since(started))
}

// Start begins running jobs in the background
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler: started with %d job(s)", s.Jobs())
}

// Stop cancels running jobs and waits for them to return or for ctx to expire
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop()

	select {
	case <-done.Done():
		s.logger.Info("Scheduler: stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler: stop timed out: %v", ctx.Err())
		return ctx.Err()
	}
}

// Jobs returns the number of registered jobs
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

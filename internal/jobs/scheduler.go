// Package jobs runs periodic maintenance tasks.
package jobs

import (
	"context"
	"fmt"
	"time"

	"financeiro/internal/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is a unit of periodic work.
type Job func(ctx context.Context) error

// Scheduler runs jobs on cron schedules. Panics inside a job are recovered
// and logged.
type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
}

// NewScheduler creates a scheduler whose job runs are cancelled after timeout.
func NewScheduler(timeout time.Duration) *Scheduler {
	l := cronLogger{logger.Get()}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(l),
			cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
		),
		timeout: timeout,
	}
}

// Register schedules job under name. spec accepts standard five-field
// expressions and descriptors such as "@every 1h".
func (s *Scheduler) Register(spec, name string, job Job) error {
	if _, err := s.cron.AddFunc(spec, func() { s.run(name, job) }); err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", spec, name, err)
	}
	return nil
}

func (s *Scheduler) run(name string, job Job) {
	log := logger.Get().With("job", name)
	ctx, cancel := context.WithTimeout(logger.WithContext(context.Background(), log), s.timeout)
	defer cancel()

	start := time.Now()
	if err := job(ctx); err != nil {
		log.Errorw("Job failed", "error", err, "duration", time.Since(start))
		return
	}
	log.Debugw("Job completed", "duration", time.Since(start))
}

// Start begins running scheduled jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Get().Infow("Scheduler started", "jobs", s.Len())
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Len returns the number of registered jobs.
func (s *Scheduler) Len() int {
	return len(s.cron.Entries())
}

type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}

package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is a unit of scheduled work. It receives the scheduler's context.
type Job func(ctx context.Context)

// Scheduler manages cron tasks. Specs use six fields (with seconds).
type Scheduler struct {
	Cron   *cron.Cron
	ctx    context.Context
	logger *zap.Logger
}

func NewScheduler(ctx context.Context, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		Cron:   cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		ctx:    ctx,
		logger: logger,
	}
}

// Register adds a named job on the given cron spec
func (s *Scheduler) Register(name, spec string, job Job) error {
	_, err := s.Cron.AddFunc(spec, func() {
		start := time.Now()
		s.logger.Info("running scheduled task", zap.String("task", name))
		job(s.ctx)
		s.logger.Info("scheduled task finished",
			zap.String("task", name),
			zap.Duration("duration", time.Since(start)),
		)
	})
	if err != nil {
		return fmt.Errorf("register %s task: %w", name, err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info("scheduler started", zap.Int("tasks", len(s.Cron.Entries())))
}

// Stop stops the scheduler and waits for running tasks to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

package scheduler

import (
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

type Scheduler struct {
	instance gocron.Scheduler
	logger   *zap.Logger
}

func NewScheduler(logger *zap.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &Scheduler{instance: s, logger: logger}, nil
}

// AddJob runs job every interval. Runs of the same job never overlap.
func (s *Scheduler) AddJob(name string, interval time.Duration, job func()) error {
	_, err := s.instance.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(job),
		gocron.WithName(name),
		gocron.WithTags(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		s.logger.Error("error adding job to scheduler", zap.String("job", name), zap.Error(err))
		return err
	}
	s.logger.Info("job scheduled", zap.String("job", name), zap.Duration("interval", interval))
	return nil
}

func (s *Scheduler) RemoveJob(name string) {
	s.instance.RemoveByTags(name)
}

func (s *Scheduler) Start() {
	s.instance.Start()
	s.logger.Info("scheduler started")
}

func (s *Scheduler) Shutdown() {
	if err := s.instance.Shutdown(); err != nil {
		s.logger.Warn("scheduler shutdown failed", zap.Error(err))
	}
}

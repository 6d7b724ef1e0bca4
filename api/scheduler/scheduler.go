package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs the periodic speed test job
type Scheduler struct {
	cron            *cron.Cron
	intervalMinutes int
	job             func()
}

// New creates a scheduler that runs job every intervalMinutes minutes.
// An interval of zero or less disables the schedule entirely.
func New(intervalMinutes int, job func()) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		intervalMinutes: intervalMinutes,
		job:             job,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	if s.intervalMinutes <= 0 {
		zap.S().Info("Speed test scheduler disabled")
		return
	}

	spec := fmt.Sprintf("@every %dm", s.intervalMinutes)
	_, err := s.cron.AddFunc(spec, s.job)
	if err != nil {
		zap.S().Errorw("failed to register speed test job", "error", err)
		return
	}

	s.cron.Start()
	zap.S().Infow("Speed test scheduler started", "intervalMinutes", s.intervalMinutes)
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Speed test scheduler stopped")
}

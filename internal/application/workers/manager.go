package workers

import (
	"context"
	"time"

	"casetrack/internal/domain"
	"casetrack/internal/logger"
)

type Manager struct {
	scheduler *Scheduler
	log       logger.Logger

	otps          domain.OTPRepository
	sweepInterval time.Duration
}

func NewManager(scheduler *Scheduler, log logger.Logger, otps domain.OTPRepository, sweepInterval time.Duration) *Manager {
	return &Manager{
		scheduler:     scheduler,
		log:           log,
		otps:          otps,
		sweepInterval: sweepInterval,
	}
}

func (m *Manager) Start(ctx context.Context) {
	m.log.Info("worker: manager started")

	m.scheduler.RunByDuration(ctx, m.sweepInterval, NewOTPCleanupWorker(m.otps, m.log))
}

package workers

import (
	"context"
	"fmt"
	"time"

	"casetrack/internal/domain"
	"casetrack/internal/logger"
)

// OTPCleanupWorker sweeps expired one-time codes. Validation already purges
// lazily; the sweep keeps abandoned codes from accumulating.
type OTPCleanupWorker struct {
	otps domain.OTPRepository
	log  logger.Logger
}

func NewOTPCleanupWorker(otps domain.OTPRepository, log logger.Logger) Worker {
	return &OTPCleanupWorker{
		otps: otps,
		log:  log,
	}
}

func (w *OTPCleanupWorker) Name() string {
	return "otp_cleanup"
}

func (w *OTPCleanupWorker) Run(ctx context.Context) error {
	count, err := w.otps.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to delete expired otps: %w", err)
	}

	if count > 0 {
		w.log.Info("worker: expired otps purged", "count", count)
	}

	return nil
}

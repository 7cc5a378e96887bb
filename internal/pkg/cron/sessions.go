package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/session"
)

const closeStaleSessionsInterval = time.Hour

type SessionJobs struct {
	tracking session.TrackingService
	logger   *slog.Logger
}

func NewSessionJobs(tracking session.TrackingService, logger *slog.Logger) *SessionJobs {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionJobs{tracking: tracking, logger: logger}
}

func (j *SessionJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("close_stale_sessions", closeStaleSessionsInterval, j.CloseStaleSessions)
}

// CloseStaleSessions completes sessions a client left open past midnight.
func (j *SessionJobs) CloseStaleSessions(ctx context.Context) error {
	closed, err := j.tracking.CloseStaleSessions(ctx)
	if err != nil {
		return err
	}
	if closed > 0 {
		j.logger.Info("Cron: closed stale sessions", "count", closed)
	}
	return nil
}

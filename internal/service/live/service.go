// Package live publishes tracking changes to the event streams of the agent and their manager.
package live

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/session"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/sse"
)

const EventSessionUpdated = "session.updated"

// SessionEvent is the payload of EventSessionUpdated.
type SessionEvent struct {
	UserID  string                      `json:"user_id"`
	Name    string                      `json:"name"`
	Session session.ProductivitySession `json:"session"`
}

type LiveTrackingServiceImpl struct {
	session.TrackingService
	users  user.UserRepository
	hub    *sse.Hub
	logger *slog.Logger
}

func (l *LiveTrackingServiceImpl) RecordActivity(ctx context.Context, userID string, req session.RecordActivityRequest) (session.ProductivitySession, error) {
	sess, err := l.TrackingService.RecordActivity(ctx, userID, req)
	if err == nil {
		l.publish(ctx, sess)
	}
	return sess, err
}

func (l *LiveTrackingServiceImpl) RecordIdleEvent(ctx context.Context, userID string, req session.RecordIdleEventRequest) (session.ProductivitySession, error) {
	sess, err := l.TrackingService.RecordIdleEvent(ctx, userID, req)
	if err == nil {
		l.publish(ctx, sess)
	}
	return sess, err
}

func (l *LiveTrackingServiceImpl) CompleteSession(ctx context.Context, userID, date string) (session.ProductivitySession, error) {
	sess, err := l.TrackingService.CompleteSession(ctx, userID, date)
	if err == nil {
		l.publish(ctx, sess)
	}
	return sess, err
}

// publish is best effort: the write already succeeded, so a lookup failure is only logged.
func (l *LiveTrackingServiceImpl) publish(ctx context.Context, sess session.ProductivitySession) {
	u, err := l.users.GetByID(ctx, sess.UserID)
	if err != nil {
		l.logger.Warn("Skipping live session event", "user_id", sess.UserID, "error", err)
		return
	}

	keys := []string{u.ID}
	if u.ManagerID != nil {
		keys = append(keys, *u.ManagerID)
	}
	l.hub.Publish(sse.Event{
		Name: EventSessionUpdated,
		Data: SessionEvent{UserID: u.ID, Name: u.Name, Session: sess},
	}, keys...)
}

// NewLiveTrackingService wraps tracking so that every recorded change is streamed.
func NewLiveTrackingService(tracking session.TrackingService, users user.UserRepository, hub *sse.Hub, logger *slog.Logger) session.TrackingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LiveTrackingServiceImpl{
		TrackingService: tracking,
		users:           users,
		hub:             hub,
		logger:          logger,
	}
}

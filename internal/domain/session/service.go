package session

import (
	"context"
)

// TrackingService records live activity into the per-day session.
type TrackingService interface {
	RecordActivity(ctx context.Context, userID string, req RecordActivityRequest) (ProductivitySession, error)
	RecordIdleEvent(ctx context.Context, userID string, req RecordIdleEventRequest) (ProductivitySession, error)
	CompleteSession(ctx context.Context, userID, date string) (ProductivitySession, error)
	ListSessions(ctx context.Context, req ListSessionsRequest) ([]ProductivitySession, error)
	// CloseStaleSessions completes sessions left open on earlier days and returns how many.
	CloseStaleSessions(ctx context.Context) (int, error)
}

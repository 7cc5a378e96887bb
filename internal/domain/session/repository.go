package session

import "context"

type SessionRepository interface {
	GetByID(ctx context.Context, id string) (ProductivitySession, error)
	ListByUser(ctx context.Context, userID string) ([]ProductivitySession, error)
	ListByDate(ctx context.Context, date string) ([]ProductivitySession, error)
	// ListByUserAndDateRange returns sessions with startDate <= date <= endDate.
	ListByUserAndDateRange(ctx context.Context, userID, startDate, endDate string) ([]ProductivitySession, error)
	// ListOpenBefore returns sessions dated before date that were never completed.
	ListOpenBefore(ctx context.Context, date string) ([]ProductivitySession, error)
	Upsert(ctx context.Context, s ProductivitySession) (ProductivitySession, error)
}

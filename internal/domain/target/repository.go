package target

import "context"

type TargetRepository interface {
	GetByID(ctx context.Context, id string) (ProductivityTarget, error)
	ListByUser(ctx context.Context, userID string) ([]ProductivityTarget, error)
	ListByDate(ctx context.Context, date string) ([]ProductivityTarget, error)
	// ListByUserAndMonth matches target dates starting with the YYYY-MM prefix.
	ListByUserAndMonth(ctx context.Context, userID, month string) ([]ProductivityTarget, error)
	Upsert(ctx context.Context, t ProductivityTarget) (ProductivityTarget, error)
}

type TaskDefinitionRepository interface {
	// ReplaceForOwner drops every definition of the owner and stores defs in their place.
	ReplaceForOwner(ctx context.Context, ownerID string, defs []TaskTargetDefinition) error
	ListByOwner(ctx context.Context, ownerID string) ([]TaskTargetDefinition, error)
	Get(ctx context.Context, ownerID, taskName string) (TaskTargetDefinition, error)
}

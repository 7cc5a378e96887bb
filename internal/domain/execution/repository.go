package execution

import "context"

type ExecutionRepository interface {
	GetByID(ctx context.Context, id string) (AgentExecution, error)
	ListByUser(ctx context.Context, userID string) ([]AgentExecution, error)
	ListByDate(ctx context.Context, date string) ([]AgentExecution, error)
	ListByUserAndMonth(ctx context.Context, userID, month string) ([]AgentExecution, error)
	// ListByAgentName matches the recorded agent name case-insensitively.
	ListByAgentName(ctx context.Context, agentName string) ([]AgentExecution, error)
	Upsert(ctx context.Context, e AgentExecution) (AgentExecution, error)
}

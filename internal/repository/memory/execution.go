package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/execution"
)

type executionRepositoryImpl struct {
	store *Store
}

func NewExecutionRepository(store *Store) execution.ExecutionRepository {
	return &executionRepositoryImpl{store: store}
}

func (r *executionRepositoryImpl) GetByID(ctx context.Context, id string) (execution.AgentExecution, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	e, ok := r.store.executions[id]
	if !ok {
		return execution.AgentExecution{}, execution.ErrExecutionNotFound
	}
	return cloneExecution(e), nil
}

func (r *executionRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]execution.AgentExecution, error) {
	return r.filter(func(e execution.AgentExecution) bool { return e.UserID == userID }), nil
}

func (r *executionRepositoryImpl) ListByDate(ctx context.Context, date string) ([]execution.AgentExecution, error) {
	return r.filter(func(e execution.AgentExecution) bool { return e.ExecutionDate == date }), nil
}

func (r *executionRepositoryImpl) ListByUserAndMonth(ctx context.Context, userID, month string) ([]execution.AgentExecution, error) {
	return r.filter(func(e execution.AgentExecution) bool {
		return e.UserID == userID && strings.HasPrefix(e.ExecutionDate, month)
	}), nil
}

func (r *executionRepositoryImpl) ListByAgentName(ctx context.Context, agentName string) ([]execution.AgentExecution, error) {
	name := strings.ToLower(strings.TrimSpace(agentName))
	return r.filter(func(e execution.AgentExecution) bool {
		return strings.ToLower(strings.TrimSpace(e.AgentName)) == name
	}), nil
}

func (r *executionRepositoryImpl) filter(keep func(execution.AgentExecution) bool) []execution.AgentExecution {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := []execution.AgentExecution{}
	for _, e := range r.store.executions {
		if keep(e) {
			result = append(result, cloneExecution(e))
		}
	}
	sortExecutions(result)
	return result
}

func (r *executionRepositoryImpl) Upsert(ctx context.Context, e execution.AgentExecution) (execution.AgentExecution, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.store.now().UTC()
	if existing, ok := r.store.executions[e.ID]; ok {
		e.CreatedAt = existing.CreatedAt
	} else if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now

	e = cloneExecution(e)
	r.store.executions[e.ID] = e
	r.store.persist(ctx)

	return cloneExecution(e), nil
}

func sortExecutions(executions []execution.AgentExecution) {
	sort.Slice(executions, func(i, j int) bool {
		if executions[i].ExecutionDate != executions[j].ExecutionDate {
			return executions[i].ExecutionDate < executions[j].ExecutionDate
		}
		return executions[i].UserID < executions[j].UserID
	})
}

func cloneExecution(e execution.AgentExecution) execution.AgentExecution {
	byType := make(map[string]int, len(e.ExecutionsByType))
	for k, v := range e.ExecutionsByType {
		byType[k] = v
	}
	e.ExecutionsByType = byType
	return e
}

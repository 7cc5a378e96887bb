package metrics

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/execution"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/metrics"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/target"
	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// TaskBreakdown prices one agent's executions for a day with ownerID's task definitions.
// An empty ownerID falls back to the agent's manager. Tasks without a definition are
// listed with zero minutes.
func (s *MetricsServiceImpl) TaskBreakdown(ctx context.Context, ownerID, userID, date string) (metrics.TaskBreakdown, error) {
	if _, ok := validator.IsValidDate(date); !ok {
		return metrics.TaskBreakdown{}, metrics.ErrInvalidDate
	}

	agent, err := s.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return metrics.TaskBreakdown{}, fmt.Errorf("failed to get user: %w", err)
	}
	if ownerID == "" && agent.ManagerID != nil {
		ownerID = *agent.ManagerID
	}

	result := metrics.TaskBreakdown{
		UserID:        userID,
		Date:          date,
		Tasks:         []metrics.TaskUsage{},
		TargetMinutes: target.DailyMinutes,
	}
	if t, err := s.TargetRepository.GetByID(ctx, target.ID(userID, date)); err == nil {
		result.TargetMinutes = t.TargetMinutes
	}

	exec, err := s.ExecutionRepository.GetByID(ctx, execution.ID(userID, date))
	if err != nil {
		if errors.Is(err, execution.ErrExecutionNotFound) {
			return result, nil
		}
		return metrics.TaskBreakdown{}, fmt.Errorf("failed to get execution: %w", err)
	}

	defs, err := s.TaskDefinitionRepository.ListByOwner(ctx, ownerID)
	if err != nil {
		return metrics.TaskBreakdown{}, fmt.Errorf("failed to list task definitions: %w", err)
	}
	byKey := make(map[string]target.TaskTargetDefinition, len(defs))
	for _, d := range defs {
		byKey[d.Key()] = d
	}

	total := decimal.Zero
	for name, count := range exec.ExecutionsByType {
		usage := metrics.TaskUsage{TaskName: name, Count: count}
		if def, ok := byKey[target.TaskKey(name)]; ok {
			minutes := decimal.NewFromFloat(def.AverageUnitMinutes).Mul(decimal.NewFromInt(int64(count)))
			total = total.Add(minutes)
			usage.MinutesUsed = minutes.Round(2).InexactFloat64()
			usage.TargetDaily = def.TargetDaily
			usage.Defined = true
		}
		result.Tasks = append(result.Tasks, usage)
	}
	sort.Slice(result.Tasks, func(i, j int) bool { return result.Tasks[i].TaskName < result.Tasks[j].TaskName })

	result.TotalExecutions = exec.TotalExecutions
	result.TotalMinutes = total.Round(2).InexactFloat64()
	return result, nil
}

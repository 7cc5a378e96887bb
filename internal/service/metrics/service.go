// Package metrics derives performance figures from stored sessions, targets and executions.
// Nothing here is persisted; every figure is recomputed on read.
package metrics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/execution"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/metrics"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/session"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/target"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type Options struct {
	// AchievementFromTargets measures target achievement as the share of stored targets
	// in the window marked achieved, instead of days reaching 420 tracked minutes.
	AchievementFromTargets bool
	Now                    func() time.Time
}

type MetricsServiceImpl struct {
	user.UserRepository
	session.SessionRepository
	target.TargetRepository
	target.TaskDefinitionRepository
	execution.ExecutionRepository

	achievementFromTargets bool
	now                    func() time.Time
}

func NewMetricsService(
	userRepository user.UserRepository,
	sessionRepository session.SessionRepository,
	targetRepository target.TargetRepository,
	definitionRepository target.TaskDefinitionRepository,
	executionRepository execution.ExecutionRepository,
	opts Options,
) *MetricsServiceImpl {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &MetricsServiceImpl{
		UserRepository:           userRepository,
		SessionRepository:        sessionRepository,
		TargetRepository:         targetRepository,
		TaskDefinitionRepository: definitionRepository,
		ExecutionRepository:      executionRepository,
		achievementFromTargets:   opts.AchievementFromTargets,
		now:                      opts.Now,
	}
}

var _ metrics.MetricsService = (*MetricsServiceImpl)(nil)

func (s *MetricsServiceImpl) Today() string {
	return s.now().UTC().Format(validator.DateLayout)
}

// window returns the inclusive [today - days, today] date range.
func (s *MetricsServiceImpl) window(days int) (string, string) {
	today := s.now().UTC()
	return today.AddDate(0, 0, -days).Format(validator.DateLayout), today.Format(validator.DateLayout)
}

// CalculateUserMetrics summarises the user's sessions over the window and the
// executions of the current month.
func (s *MetricsServiceImpl) CalculateUserMetrics(ctx context.Context, userID string, windowDays int) (metrics.UserMetrics, error) {
	if windowDays <= 0 {
		windowDays = metrics.DefaultWindowDays
	}
	if _, err := s.UserRepository.GetByID(ctx, userID); err != nil {
		return metrics.UserMetrics{}, fmt.Errorf("failed to get user: %w", err)
	}

	start, end := s.window(windowDays)
	sessions, err := s.SessionRepository.ListByUserAndDateRange(ctx, userID, start, end)
	if err != nil {
		return metrics.UserMetrics{}, fmt.Errorf("failed to list sessions: %w", err)
	}

	result := metrics.UserMetrics{
		UserID:            userID,
		Trend:             metrics.TrendStable,
		PerformanceRating: metrics.RatingAverage,
	}
	if err := s.fillExecutionMetrics(ctx, userID, end[:7], &result); err != nil {
		return metrics.UserMetrics{}, err
	}
	if len(sessions) == 0 {
		return result, nil
	}

	sort.SliceStable(sessions, func(i, j int) bool { return sessions[i].Date < sessions[j].Date })

	totalMinutes, idleMinutes, achievedDays := 0, 0, 0
	series := make([]int, 0, len(sessions))
	for _, sess := range sessions {
		totalMinutes += sess.TotalMinutes
		idleMinutes += sess.IdleMinutes
		if sess.TotalMinutes >= target.DailyMinutes {
			achievedDays++
		}
		series = append(series, sess.TotalMinutes)
	}

	// Ratings use the exact rates; only the reported figures are rounded.
	achievement := ratio(achievedDays, len(sessions))
	idle := ratio(idleMinutes, totalMinutes)
	if s.achievementFromTargets {
		rate, err := s.targetAchievement(ctx, userID, start, end)
		if err != nil {
			return metrics.UserMetrics{}, err
		}
		achievement = rate
	}

	result.TotalSessions = len(sessions)
	result.AvgDailyMinutes = mean(totalMinutes, len(sessions))
	result.IdleTimePercentage = roundHalfUp(idle)
	result.ConsistencyScore = min(100, percent(achievedDays, len(sessions)))
	result.TargetAchievementRate = roundHalfUp(achievement)
	result.Trend = classifyTrend(series)
	result.PerformanceRating = metrics.RateFor(achievement, idle)

	return result, nil
}

func (s *MetricsServiceImpl) fillExecutionMetrics(ctx context.Context, userID, month string, m *metrics.UserMetrics) error {
	executions, err := s.ExecutionRepository.ListByUserAndMonth(ctx, userID, month)
	if err != nil {
		return fmt.Errorf("failed to list executions: %w", err)
	}
	if len(executions) == 0 {
		return nil
	}

	targets, err := s.TargetRepository.ListByUserAndMonth(ctx, userID, month)
	if err != nil {
		return fmt.Errorf("failed to list targets: %w", err)
	}

	for _, e := range executions {
		m.TotalExecutions += e.TotalExecutions
	}
	for _, t := range targets {
		if t.TargetExecutions != nil && *t.TargetExecutions > 0 {
			m.TargetExecutions += *t.TargetExecutions
		}
	}
	m.ExecutionAchievementRate = percent(m.TotalExecutions, m.TargetExecutions)
	return nil
}

func (s *MetricsServiceImpl) targetAchievement(ctx context.Context, userID, start, end string) (decimal.Decimal, error) {
	targets, err := s.TargetRepository.ListByUser(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to list targets: %w", err)
	}

	inWindow, achieved := 0, 0
	for _, t := range targets {
		if t.TargetDate < start || t.TargetDate > end {
			continue
		}
		inWindow++
		if t.Status == target.StatusAchieved {
			achieved++
		}
	}
	return ratio(achieved, inWindow), nil
}

package metrics

import (
	"context"
	"fmt"
	"sort"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/metrics"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/target"
	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/validator"
)

const (
	topPerformerCount     = 3
	lowProductivityLine   = 300
	reasonLowProductivity = "Low productivity"
	reasonHighIdle        = "High idle time"
)

func (s *MetricsServiceImpl) CalculateDailyMetrics(ctx context.Context, date string) (metrics.DailyMetrics, error) {
	return s.daily(ctx, date, func(string) bool { return true })
}

func (s *MetricsServiceImpl) CalculateDailyMetricsForUsers(ctx context.Context, date string, userIDs []string) (metrics.DailyMetrics, error) {
	allowed := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		allowed[id] = struct{}{}
	}
	return s.daily(ctx, date, func(userID string) bool {
		_, ok := allowed[userID]
		return ok
	})
}

func (s *MetricsServiceImpl) daily(ctx context.Context, date string, include func(userID string) bool) (metrics.DailyMetrics, error) {
	if _, ok := validator.IsValidDate(date); !ok {
		return metrics.DailyMetrics{}, metrics.ErrInvalidDate
	}

	allSessions, err := s.SessionRepository.ListByDate(ctx, date)
	if err != nil {
		return metrics.DailyMetrics{}, fmt.Errorf("failed to list sessions: %w", err)
	}
	allTargets, err := s.TargetRepository.ListByDate(ctx, date)
	if err != nil {
		return metrics.DailyMetrics{}, fmt.Errorf("failed to list targets: %w", err)
	}

	result := metrics.DailyMetrics{
		Date:           date,
		TopPerformers:  []metrics.UserScore{},
		NeedsAttention: []metrics.AttentionEntry{},
	}

	users := make(map[string]struct{})
	activeMinutes, idleMinutes, totalMinutes := 0, 0, 0
	for _, sess := range allSessions {
		if !include(sess.UserID) {
			continue
		}
		users[sess.UserID] = struct{}{}
		result.SessionsCompleted++
		activeMinutes += sess.ActiveMinutes
		idleMinutes += sess.IdleMinutes
		totalMinutes += sess.TotalMinutes

		result.TopPerformers = append(result.TopPerformers, metrics.UserScore{
			UserID: sess.UserID,
			Score:  float64(sess.ActiveMinutes) / target.DailyMinutes,
		})

		switch {
		case sess.TotalMinutes < lowProductivityLine:
			result.NeedsAttention = append(result.NeedsAttention, metrics.AttentionEntry{UserID: sess.UserID, Reason: reasonLowProductivity})
		case sess.IdleMinutes*10 > sess.TotalMinutes*3:
			result.NeedsAttention = append(result.NeedsAttention, metrics.AttentionEntry{UserID: sess.UserID, Reason: reasonHighIdle})
		}
	}

	targets, achieved := 0, 0
	for _, t := range allTargets {
		if !include(t.UserID) {
			continue
		}
		targets++
		if t.Status == target.StatusAchieved {
			achieved++
		}
	}

	result.TotalUsers = len(users)
	result.AvgProductivity = mean(activeMinutes, result.SessionsCompleted)
	result.TargetAchievementRate = percent(achieved, targets)
	result.AvgIdlePercentage = percent(idleMinutes, totalMinutes)

	sort.SliceStable(result.TopPerformers, func(i, j int) bool {
		return result.TopPerformers[i].Score > result.TopPerformers[j].Score
	})
	if len(result.TopPerformers) > topPerformerCount {
		result.TopPerformers = result.TopPerformers[:topPerformerCount]
	}

	return result, nil
}

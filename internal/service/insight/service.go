// Package insight turns user metrics into rule-based alerts, coaching insights and a
// short-range achievement forecast.
package insight

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/insight"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/metrics"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/session"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/validator"
)

const (
	forecastConfidence = 70
	forecastStep       = 5
	forecastTargetLine = 80
)

type InsightServiceImpl struct {
	metrics  metrics.MetricsService
	sessions session.SessionRepository
	now      func() time.Time
}

func NewInsightService(metricsService metrics.MetricsService, sessionRepository session.SessionRepository, now func() time.Time) *InsightServiceImpl {
	if now == nil {
		now = time.Now
	}
	return &InsightServiceImpl{
		metrics:  metricsService,
		sessions: sessionRepository,
		now:      now,
	}
}

var _ insight.InsightService = (*InsightServiceImpl)(nil)

// GenerateAlerts evaluates every alert rule in order; any number of them may fire.
func (s *InsightServiceImpl) GenerateAlerts(ctx context.Context, userID string, windowDays int) ([]insight.InsightAlert, error) {
	if windowDays <= 0 {
		windowDays = insight.AlertWindowDays
	}

	m, err := s.metrics.CalculateUserMetrics(ctx, userID, windowDays)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	alerts := []insight.InsightAlert{}
	add := func(t insight.AlertType, sev insight.Severity, title, description, recommendation string) {
		alerts = append(alerts, insight.InsightAlert{
			Type:                     t,
			UserID:                   userID,
			Title:                    title,
			Description:              description,
			Severity:                 sev,
			ActionableRecommendation: recommendation,
			Timestamp:                now,
		})
	}

	if m.Trend == metrics.TrendDeclining {
		add(insight.AlertWarning, insight.SeverityHigh,
			"Performance Declining",
			fmt.Sprintf("Your productivity has declined over the past %d days. Average daily minutes have decreased.", windowDays),
			"Review your schedule and identify blockers. Consider discussing workload with your manager.")
	}
	if m.TargetAchievementRate < 60 {
		add(insight.AlertWarning, insight.SeverityHigh,
			"Target Achievement Below 60%",
			"You have not met your productivity targets for most days this period.",
			"Analyze daily patterns to identify time-wasting activities. Implement focused work blocks.")
	}
	if m.IdleTimePercentage > 25 {
		add(insight.AlertWarning, insight.SeverityMedium,
			"High Idle Time Detected",
			fmt.Sprintf("Your idle time is %d%%, significantly above the 15%% benchmark.", m.IdleTimePercentage),
			"Review idle periods and ensure your system locks are not too aggressive. Take scheduled breaks instead.")
	}
	if m.Trend == metrics.TrendImproving && m.TargetAchievementRate >= 80 {
		add(insight.AlertAchievement, insight.SeverityLow,
			"Great Performance Improvement",
			"Your productivity metrics show consistent improvement over time.",
			"Keep up the excellent work! Consider mentoring other team members.")
	}
	if m.PerformanceRating == metrics.RatingExcellent {
		add(insight.AlertAchievement, insight.SeverityLow,
			"Top Performer Recognition",
			"You have achieved excellent performance with high targets and low idle time.",
			"Maintain your current pace and consider taking on additional responsibilities.")
	}

	drop, err := s.latestSessionDropped(ctx, userID, windowDays)
	if err != nil {
		return nil, err
	}
	if drop {
		add(insight.AlertAnomaly, insight.SeverityMedium,
			"Significant Productivity Drop",
			"Your most recent session shows significantly lower activity than your average.",
			"Check if you were working on a single focused task or if there were technical issues.")
	}

	return alerts, nil
}

// latestSessionDropped reports whether the latest session in the window tracked less
// than half of the window's mean total minutes.
func (s *InsightServiceImpl) latestSessionDropped(ctx context.Context, userID string, windowDays int) (bool, error) {
	today := s.now().UTC()
	start := today.AddDate(0, 0, -windowDays).Format(validator.DateLayout)
	end := today.Format(validator.DateLayout)

	sessions, err := s.sessions.ListByUserAndDateRange(ctx, userID, start, end)
	if err != nil {
		return false, fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(sessions) == 0 {
		return false, nil
	}

	sort.SliceStable(sessions, func(i, j int) bool { return sessions[i].Date < sessions[j].Date })
	sum := 0
	for _, sess := range sessions {
		sum += sess.TotalMinutes
	}
	last := sessions[len(sessions)-1]
	return last.TotalMinutes*2*len(sessions) < sum, nil
}

// Forecast nudges the 30-day achievement rate by the trend and clamps it to [0, 100].
func (s *InsightServiceImpl) Forecast(ctx context.Context, userID string) (insight.Forecast, error) {
	m, err := s.metrics.CalculateUserMetrics(ctx, userID, metrics.DefaultWindowDays)
	if err != nil {
		return insight.Forecast{}, err
	}

	forecast := insight.Forecast{
		UserID:                   userID,
		PredictedAchievementRate: m.TargetAchievementRate,
		Confidence:               forecastConfidence,
		TrendDirection:           insight.DirectionStable,
		EstimatedTimeToTarget:    "Already at target",
	}

	switch m.Trend {
	case metrics.TrendImproving:
		forecast.PredictedAchievementRate += forecastStep
		forecast.TrendDirection = insight.DirectionUp
	case metrics.TrendDeclining:
		forecast.PredictedAchievementRate -= forecastStep
		forecast.TrendDirection = insight.DirectionDown
	}
	forecast.PredictedAchievementRate = max(0, min(100, forecast.PredictedAchievementRate))

	if m.TargetAchievementRate < forecastTargetLine {
		if m.Trend == metrics.TrendImproving {
			forecast.EstimatedTimeToTarget = "2-3 weeks"
		} else {
			forecast.EstimatedTimeToTarget = "4-6 weeks"
		}
	}
	return forecast, nil
}

// GenerateTeamInsights summarises the manager's team.
func (s *InsightServiceImpl) GenerateTeamInsights(ctx context.Context, manager user.User) ([]insight.AIInsight, error) {
	if !manager.IsManager() && !manager.IsAdmin() {
		return nil, user.ErrManagerAccessRequired
	}
	return []insight.AIInsight{{
		Category:    insight.CategoryTeamDynamics,
		Title:       "Team Performance Summary",
		Description: "Your team metrics have been calculated and analyzed.",
		Confidence:  85,
		ActionableSteps: []string{
			"Review individual performance dashboards",
			"Identify coaching opportunities",
			"Celebrate top performers",
		},
	}}, nil
}

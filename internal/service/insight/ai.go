package insight

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/insight"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/metrics"
)

// expectedSessions is the number of working sessions expected in a 30-day window.
const expectedSessions = 20

// GenerateAIInsights reads 30-day metrics and 7-day alerts into coaching insights.
func (s *InsightServiceImpl) GenerateAIInsights(ctx context.Context, userID string) ([]insight.AIInsight, error) {
	m, err := s.metrics.CalculateUserMetrics(ctx, userID, metrics.DefaultWindowDays)
	if err != nil {
		return nil, err
	}
	alerts, err := s.GenerateAlerts(ctx, userID, insight.AlertWindowDays)
	if err != nil {
		return nil, err
	}

	insights := []insight.AIInsight{}

	if m.TargetAchievementRate >= 85 && m.ConsistencyScore >= 80 {
		insights = append(insights, insight.AIInsight{
			Category:    insight.CategoryPerformance,
			Title:       "Consistent High Performer",
			Description: "Your metrics show consistent high performance with excellent target achievement and reliability.",
			Confidence:  95,
			ActionableSteps: []string{
				"Maintain your current work patterns",
				"Consider mentoring struggling teammates",
				"Document your productivity techniques",
			},
			PredictedOutcome: "Continued excellent performance and potential career advancement",
		})
	}

	if m.IdleTimePercentage < 10 {
		insights = append(insights, insight.AIInsight{
			Category:    insight.CategoryBehavior,
			Title:       "Highly Focused Work Style",
			Description: "Your idle time is exceptionally low, suggesting deep focus and minimal distractions.",
			Confidence:  90,
			ActionableSteps: []string{
				"Ensure you are taking adequate breaks",
				"Monitor for burnout signs",
				"Balance focus time with collaborative activities",
			},
			PredictedOutcome: "High quality output with managed stress levels",
		})
	}

	if m.IdleTimePercentage > 25 && m.Trend == metrics.TrendDeclining {
		insights = append(insights, insight.AIInsight{
			Category:    insight.CategoryWellbeing,
			Title:       "Work-Life Balance Consideration",
			Description: "Increasing idle time combined with declining performance may indicate fatigue or personal factors.",
			Confidence:  80,
			ActionableSteps: []string{
				"Schedule a check-in with your manager",
				"Review your workload",
				"Consider taking a mental health day",
				"Evaluate external stressors",
			},
			PredictedOutcome: "Improved well-being and sustainable performance",
		})
	}

	if m.TargetAchievementRate < 70 && m.ConsistencyScore < 60 {
		insights = append(insights, insight.AIInsight{
			Category:    insight.CategoryPerformance,
			Title:       "Performance Improvement Opportunity",
			Description: "Your metrics indicate room for improvement in both achievement and consistency.",
			Confidence:  85,
			ActionableSteps: []string{
				"Analyze your top distraction times",
				"Implement focused work blocks (Pomodoro technique)",
				"Set daily micro-goals",
				"Request manager support",
			},
			PredictedOutcome: "15-25% improvement in target achievement within 30 days",
		})
	}

	if diff := m.TotalSessions - expectedSessions; diff > 5 || diff < -5 {
		pattern, step := "variable", "Aim for more consistent daily sessions"
		if m.TotalSessions > expectedSessions+5 {
			pattern, step = "very consistent", "Maintain your consistent presence"
		}
		insights = append(insights, insight.AIInsight{
			Category:        insight.CategoryBehavior,
			Title:           "Session Frequency Pattern",
			Description:     fmt.Sprintf("You're averaging %d sessions over 30 days, indicating %s attendance.", m.TotalSessions, pattern),
			Confidence:      75,
			ActionableSteps: []string{step, "Track attendance trends"},
		})
	}

	if m.PerformanceRating == metrics.RatingExcellent {
		insights = append(insights, insight.AIInsight{
			Category:    insight.CategoryTeamDynamics,
			Title:       "Top Performer Recognition",
			Description: "You are performing at an elite level compared to your peers.",
			Confidence:  90,
			ActionableSteps: []string{
				"Share your techniques with team members",
				"Lead productivity workshops",
				"Mentor underperforming colleagues",
			},
			PredictedOutcome: "Enhanced team performance and your professional growth",
		})
	}

	for _, a := range alerts {
		if a.Type == insight.AlertAnomaly {
			insights = append(insights, insight.AIInsight{
				Category:    insight.CategoryAnomaly,
				Title:       "Unusual Activity Pattern Detected",
				Description: "Your recent session shows unusual patterns compared to your typical behavior.",
				Confidence:  70,
				ActionableSteps: []string{
					"Review what you were working on",
					"Check for technical issues",
					"Verify time tracking accuracy",
				},
			})
			break
		}
	}

	return insights, nil
}

package metrics

import (
	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// DefaultWindowDays is the look-back used when no window is requested.
const DefaultWindowDays = 30

type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

type Rating string

const (
	RatingExcellent        Rating = "excellent"
	RatingGood             Rating = "good"
	RatingAverage          Rating = "average"
	RatingNeedsImprovement Rating = "needs_improvement"
	RatingCritical         Rating = "critical"
)

// RateFor classifies an unrounded achievement/idle percentage pair. The order of the
// checks is the contract: a high achiever with heavy idle time is critical, not good.
func RateFor(achievementRate, idlePercentage decimal.Decimal) Rating {
	at := func(v int64) decimal.Decimal { return decimal.NewFromInt(v) }
	switch {
	case achievementRate.GreaterThanOrEqual(at(90)) && idlePercentage.LessThanOrEqual(at(12)):
		return RatingExcellent
	case achievementRate.GreaterThanOrEqual(at(75)) && idlePercentage.LessThanOrEqual(at(15)):
		return RatingGood
	case achievementRate.LessThan(at(50)) || idlePercentage.GreaterThan(at(25)):
		return RatingCritical
	case achievementRate.LessThan(at(60)) || idlePercentage.GreaterThan(at(20)):
		return RatingNeedsImprovement
	default:
		return RatingAverage
	}
}

type UserMetrics struct {
	UserID                   string `json:"user_id"`
	TotalSessions            int    `json:"total_sessions"`
	AvgDailyMinutes          int    `json:"avg_daily_minutes"`
	ConsistencyScore         int    `json:"consistency_score"`
	TargetAchievementRate    int    `json:"target_achievement_rate"`
	ExecutionAchievementRate int    `json:"execution_achievement_rate"`
	TotalExecutions          int    `json:"total_executions"`
	TargetExecutions         int    `json:"target_executions"`
	IdleTimePercentage       int    `json:"idle_time_percentage"`
	Trend                    Trend  `json:"trend"`
	PerformanceRating        Rating `json:"performance_rating"`
}

type UserScore struct {
	UserID string  `json:"user_id"`
	Score  float64 `json:"score"`
}

type AttentionEntry struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

type DailyMetrics struct {
	Date                  string           `json:"date"`
	TotalUsers            int              `json:"total_users"`
	AvgProductivity       int              `json:"avg_productivity"`
	SessionsCompleted     int              `json:"sessions_completed"`
	TargetAchievementRate int              `json:"target_achievement_rate"`
	AvgIdlePercentage     int              `json:"avg_idle_percentage"`
	TopPerformers         []UserScore      `json:"top_performers"`
	NeedsAttention        []AttentionEntry `json:"needs_attention"`
}

// Distribution counts users per performance rating.
type Distribution struct {
	Excellent        int `json:"excellent" yaml:"excellent"`
	Good             int `json:"good" yaml:"good"`
	Average          int `json:"average" yaml:"average"`
	NeedsImprovement int `json:"needs_improvement" yaml:"needs_improvement"`
	Critical         int `json:"critical" yaml:"critical"`
}

func (d *Distribution) Add(r Rating) {
	switch r {
	case RatingExcellent:
		d.Excellent++
	case RatingGood:
		d.Good++
	case RatingAverage:
		d.Average++
	case RatingNeedsImprovement:
		d.NeedsImprovement++
	case RatingCritical:
		d.Critical++
	}
}

type DepartmentMetrics struct {
	Department              string       `json:"department"`
	TotalUsers              int          `json:"total_users"`
	AvgProductivity         int          `json:"avg_productivity"`
	TargetAchievementRate   int          `json:"target_achievement_rate"`
	PerformanceDistribution Distribution `json:"performance_distribution"`
}

// TeamMember pairs an agent with their window metrics.
type TeamMember struct {
	UserID     string      `json:"user_id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Department *string     `json:"department,omitempty"`
	Metrics    UserMetrics `json:"metrics"`
}

type TaskUsage struct {
	TaskName    string  `json:"task_name"`
	Count       int     `json:"count"`
	MinutesUsed float64 `json:"minutes_used"`
	TargetDaily int     `json:"target_daily"`
	Defined     bool    `json:"defined"`
}

// TaskBreakdown is one agent's work for a day priced with the owner's task definitions.
type TaskBreakdown struct {
	UserID          string      `json:"user_id"`
	Date            string      `json:"date"`
	Tasks           []TaskUsage `json:"tasks"`
	TotalExecutions int         `json:"total_executions"`
	TotalMinutes    float64     `json:"total_minutes"`
	TargetMinutes   int         `json:"target_minutes"`
}

type UserMetricsRequest struct {
	UserID     string `json:"user_id"`
	WindowDays int    `json:"window_days"`
}

func (r *UserMetricsRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}
	if r.WindowDays < 0 || r.WindowDays > 366 {
		errs = append(errs, validator.ValidationError{
			Field:   "days",
			Message: "days must be between 1 and 366",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

package insight

import "time"

// AlertWindowDays is the look-back used for alert generation.
const AlertWindowDays = 7

type AlertType string

const (
	AlertWarning     AlertType = "warning"
	AlertOpportunity AlertType = "opportunity"
	AlertAchievement AlertType = "achievement"
	AlertAnomaly     AlertType = "anomaly"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type InsightAlert struct {
	Type                     AlertType `json:"type"`
	UserID                   string    `json:"user_id,omitempty"`
	Title                    string    `json:"title"`
	Description              string    `json:"description"`
	Severity                 Severity  `json:"severity"`
	ActionableRecommendation string    `json:"actionable_recommendation"`
	Timestamp                time.Time `json:"timestamp"`
}

type Category string

const (
	CategoryPerformance  Category = "performance"
	CategoryBehavior     Category = "behavior"
	CategoryWellbeing    Category = "wellbeing"
	CategoryTeamDynamics Category = "team_dynamics"
	CategoryAnomaly      Category = "anomaly"
)

type AIInsight struct {
	Category         Category `json:"category"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Confidence       int      `json:"confidence"`
	ActionableSteps  []string `json:"actionable_steps"`
	PredictedOutcome string   `json:"predicted_outcome,omitempty"`
}

type Direction string

const (
	DirectionUp     Direction = "up"
	DirectionDown   Direction = "down"
	DirectionStable Direction = "stable"
)

type Forecast struct {
	UserID                   string    `json:"user_id"`
	PredictedAchievementRate int       `json:"predicted_achievement_rate"`
	Confidence               int       `json:"confidence"`
	TrendDirection           Direction `json:"trend_direction"`
	EstimatedTimeToTarget    string    `json:"estimated_time_to_target"`
}

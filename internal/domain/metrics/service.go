package metrics

import (
	"context"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/user"
)

type MetricsService interface {
	CalculateUserMetrics(ctx context.Context, userID string, windowDays int) (UserMetrics, error)
	CalculateDailyMetrics(ctx context.Context, date string) (DailyMetrics, error)
	// CalculateDailyMetricsForUsers restricts the day's aggregate to the given users.
	CalculateDailyMetricsForUsers(ctx context.Context, date string, userIDs []string) (DailyMetrics, error)
	CalculateDepartmentMetrics(ctx context.Context, department string) (DepartmentMetrics, error)
	ListTeamMetrics(ctx context.Context, actor user.User, windowDays int) ([]TeamMember, error)
	TaskBreakdown(ctx context.Context, ownerID, userID, date string) (TaskBreakdown, error)
	// EligibleAgents returns the manager's direct reports, or every agent for an admin.
	EligibleAgents(ctx context.Context, actor user.User) ([]user.User, error)
	Today() string
}

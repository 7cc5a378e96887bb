package insight

import (
	"context"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/user"
)

type InsightService interface {
	GenerateAlerts(ctx context.Context, userID string, windowDays int) ([]InsightAlert, error)
	Forecast(ctx context.Context, userID string) (Forecast, error)
	GenerateAIInsights(ctx context.Context, userID string) ([]AIInsight, error)
	GenerateTeamInsights(ctx context.Context, manager user.User) ([]AIInsight, error)
}

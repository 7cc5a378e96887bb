package metrics

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/metrics"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/user"
)

// CalculateDepartmentMetrics averages the 30-day metrics of the department's agents.
// Departments match exactly as stored.
func (s *MetricsServiceImpl) CalculateDepartmentMetrics(ctx context.Context, department string) (metrics.DepartmentMetrics, error) {
	if strings.TrimSpace(department) == "" {
		return metrics.DepartmentMetrics{}, metrics.ErrDepartmentMissing
	}

	members, err := s.UserRepository.ListByDepartment(ctx, department)
	if err != nil {
		return metrics.DepartmentMetrics{}, fmt.Errorf("failed to list department users: %w", err)
	}

	result := metrics.DepartmentMetrics{Department: department}
	minutes, achievement, counted := 0, 0, 0
	for _, u := range members {
		if !u.IsAgent() {
			continue
		}
		result.TotalUsers++

		m, err := s.CalculateUserMetrics(ctx, u.ID, metrics.DefaultWindowDays)
		if err != nil {
			return metrics.DepartmentMetrics{}, err
		}
		counted++
		minutes += m.AvgDailyMinutes
		achievement += m.TargetAchievementRate
		result.PerformanceDistribution.Add(m.PerformanceRating)
	}

	result.AvgProductivity = mean(minutes, counted)
	result.TargetAchievementRate = mean(achievement, counted)
	return result, nil
}

// EligibleAgents returns every agent for an admin and the direct reports of a manager.
func (s *MetricsServiceImpl) EligibleAgents(ctx context.Context, actor user.User) ([]user.User, error) {
	switch {
	case actor.IsAdmin():
		agents, err := s.UserRepository.ListByRole(ctx, user.RoleAgent)
		if err != nil {
			return nil, fmt.Errorf("failed to list agents: %w", err)
		}
		return agents, nil
	case actor.IsManager():
		reports, err := s.UserRepository.ListByManager(ctx, actor.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list reports: %w", err)
		}
		agents := make([]user.User, 0, len(reports))
		for _, u := range reports {
			if u.IsAgent() {
				agents = append(agents, u)
			}
		}
		return agents, nil
	default:
		return nil, user.ErrManagerAccessRequired
	}
}

// ListTeamMetrics returns the window metrics of every agent the actor oversees.
func (s *MetricsServiceImpl) ListTeamMetrics(ctx context.Context, actor user.User, windowDays int) ([]metrics.TeamMember, error) {
	agents, err := s.EligibleAgents(ctx, actor)
	if err != nil {
		return nil, err
	}

	team := make([]metrics.TeamMember, 0, len(agents))
	for _, a := range agents {
		m, err := s.CalculateUserMetrics(ctx, a.ID, windowDays)
		if err != nil {
			return nil, err
		}
		team = append(team, metrics.TeamMember{
			UserID:     a.ID,
			Name:       a.Name,
			Email:      a.Email,
			Department: a.Department,
			Metrics:    m,
		})
	}
	return team, nil
}

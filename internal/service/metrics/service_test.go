package metrics

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/execution"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/metrics"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/target"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/productivity-backend-go/internal/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, opts Options) (*MetricsServiceImpl, fixtures.Repositories, fixtures.Demo) {
	t.Helper()
	repos := fixtures.NewRepositories()
	demo, err := fixtures.SeedDemo(context.Background(), repos.Users)
	require.NoError(t, err)

	if opts.Now == nil {
		opts.Now = fixtures.Clock()
	}
	svc := NewMetricsService(repos.Users, repos.Sessions, repos.Targets, repos.Definitions, repos.Executions, opts)
	return svc, repos, demo
}

func TestCalculateUserMetrics_AllDaysAchieved(t *testing.T) {
	ctx := context.Background()
	svc, repos, demo := newTestService(t, Options{})
	require.NoError(t, fixtures.AddSessions(ctx, repos.Sessions, demo.Alice.ID, 10, 420, 450, 480))

	m, err := svc.CalculateUserMetrics(ctx, demo.Alice.ID, 30)
	require.NoError(t, err)

	assert.Equal(t, 3, m.TotalSessions)
	assert.Equal(t, 100, m.TargetAchievementRate)
	assert.Equal(t, 100, m.ConsistencyScore)
	assert.Equal(t, 450, m.AvgDailyMinutes)
	assert.Equal(t, 2, m.IdleTimePercentage)
	assert.Equal(t, metrics.TrendImproving, m.Trend)
	assert.Equal(t, metrics.RatingExcellent, m.PerformanceRating)
}

func TestCalculateUserMetrics_RatingUsesUnroundedIdle(t *testing.T) {
	tests := []struct {
		name     string
		idle     int
		totals   []int
		wantIdle int
		want     metrics.Rating
	}{
		// 248 of 2000 minutes is 12.4%, reported as 12 but above the excellent gate
		{"just above excellent idle gate", 62, []int{500, 500, 500, 500}, 12, metrics.RatingGood},
		// 254 of 1012 minutes is 25.1%, reported as 25 but above the critical gate
		{"just above critical idle gate", 127, []int{506, 506}, 25, metrics.RatingCritical},
		{"exactly on excellent idle gate", 60, []int{500, 500}, 12, metrics.RatingExcellent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc, repos, demo := newTestService(t, Options{})
			require.NoError(t, fixtures.AddSessions(ctx, repos.Sessions, demo.Alice.ID, tt.idle, tt.totals...))

			m, err := svc.CalculateUserMetrics(ctx, demo.Alice.ID, 30)
			require.NoError(t, err)

			assert.Equal(t, 100, m.TargetAchievementRate)
			assert.Equal(t, tt.wantIdle, m.IdleTimePercentage)
			assert.Equal(t, tt.want, m.PerformanceRating)
		})
	}
}

func TestCalculateUserMetrics_NoDayAchieved(t *testing.T) {
	ctx := context.Background()
	svc, repos, demo := newTestService(t, Options{})
	require.NoError(t, fixtures.AddSessions(ctx, repos.Sessions, demo.Alice.ID, 0, 300, 419))

	m, err := svc.CalculateUserMetrics(ctx, demo.Alice.ID, 30)
	require.NoError(t, err)

	assert.Equal(t, 0, m.TargetAchievementRate)
	assert.Equal(t, 0, m.ConsistencyScore)
	assert.Equal(t, 360, m.AvgDailyMinutes)
	assert.Equal(t, metrics.RatingCritical, m.PerformanceRating)
}

func TestCalculateUserMetrics_Trend(t *testing.T) {
	cases := []struct {
		name   string
		totals []int
		want   metrics.Trend
	}{
		{"improving", []int{300, 300, 300, 500, 500, 500}, metrics.TrendImproving},
		{"declining", []int{500, 500, 500, 300, 300, 300}, metrics.TrendDeclining},
		{"within five percent", []int{400, 410}, metrics.TrendStable},
		{"single session", []int{400}, metrics.TrendStable},
		{"odd count puts the middle in the later half", []int{400, 100, 100}, metrics.TrendDeclining},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			svc, repos, demo := newTestService(t, Options{})
			require.NoError(t, fixtures.AddSessions(ctx, repos.Sessions, demo.Alice.ID, 0, tc.totals...))

			m, err := svc.CalculateUserMetrics(ctx, demo.Alice.ID, 30)
			require.NoError(t, err)
			assert.Equal(t, tc.want, m.Trend)
		})
	}
}

func TestCalculateUserMetrics_WindowBounds(t *testing.T) {
	ctx := context.Background()
	svc, repos, demo := newTestService(t, Options{})

	_, err := fixtures.AddSession(ctx, repos.Sessions, demo.Alice.ID, fixtures.Date(-7), 420, 0)
	require.NoError(t, err)
	_, err = fixtures.AddSession(ctx, repos.Sessions, demo.Alice.ID, fixtures.Date(-8), 100, 0)
	require.NoError(t, err)
	_, err = fixtures.AddSession(ctx, repos.Sessions, demo.Alice.ID, fixtures.Date(1), 100, 0)
	require.NoError(t, err)

	m, err := svc.CalculateUserMetrics(ctx, demo.Alice.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, m.TotalSessions)
	assert.Equal(t, 100, m.TargetAchievementRate)
}

func TestCalculateUserMetrics_NoSessionsStillReportsExecutions(t *testing.T) {
	ctx := context.Background()
	svc, repos, demo := newTestService(t, Options{})
	require.NoError(t, fixtures.AddExecution(ctx, repos.Executions, repos.Targets, demo.Alice, "2025-02-03", 40, 80))
	// Previous month is outside the execution window.
	require.NoError(t, fixtures.AddExecution(ctx, repos.Executions, repos.Targets, demo.Alice, "2025-01-30", 500, 10))

	m, err := svc.CalculateUserMetrics(ctx, demo.Alice.ID, 30)
	require.NoError(t, err)

	assert.Equal(t, metrics.UserMetrics{
		UserID:                   demo.Alice.ID,
		ExecutionAchievementRate: 50,
		TotalExecutions:          40,
		TargetExecutions:         80,
		Trend:                    metrics.TrendStable,
		PerformanceRating:        metrics.RatingAverage,
	}, m)
}

func TestCalculateUserMetrics_UnknownUser(t *testing.T) {
	svc, _, _ := newTestService(t, Options{})
	_, err := svc.CalculateUserMetrics(context.Background(), "user-missing", 30)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestCalculateUserMetrics_AchievementFromTargets(t *testing.T) {
	ctx := context.Background()
	svc, repos, demo := newTestService(t, Options{AchievementFromTargets: true})
	require.NoError(t, fixtures.AddSessions(ctx, repos.Sessions, demo.Alice.ID, 0, 300, 300))

	for date, status := range map[string]target.Status{
		fixtures.Date(-1): target.StatusAchieved,
		fixtures.Date(0):  target.StatusMissed,
		fixtures.Date(-3): target.StatusAchieved,
		fixtures.Date(-5): target.StatusAchieved,
	} {
		_, err := repos.Targets.Upsert(ctx, target.ProductivityTarget{
			ID: target.ID(demo.Alice.ID, date), UserID: demo.Alice.ID, TargetDate: date,
			TargetMinutes: 300, Status: status,
		})
		require.NoError(t, err)
	}

	m, err := svc.CalculateUserMetrics(ctx, demo.Alice.ID, 30)
	require.NoError(t, err)
	assert.Equal(t, 75, m.TargetAchievementRate)
	// Consistency keeps counting days over the fixed line.
	assert.Equal(t, 0, m.ConsistencyScore)
}

func seedDay(t *testing.T, repos fixtures.Repositories, demo fixtures.Demo) {
	t.Helper()
	ctx := context.Background()
	_, err := fixtures.AddSession(ctx, repos.Sessions, demo.Alice.ID, fixtures.TodayDate, 420, 20)
	require.NoError(t, err)
	_, err = fixtures.AddSession(ctx, repos.Sessions, demo.Bob.ID, fixtures.TodayDate, 250, 0)
	require.NoError(t, err)
	_, err = fixtures.AddSession(ctx, repos.Sessions, demo.Carol.ID, fixtures.TodayDate, 400, 150)
	require.NoError(t, err)

	for id, status := range map[string]target.Status{demo.Alice.ID: target.StatusAchieved, demo.Bob.ID: target.StatusMissed} {
		_, err := repos.Targets.Upsert(ctx, target.ProductivityTarget{
			ID: target.ID(id, fixtures.TodayDate), UserID: id, TargetDate: fixtures.TodayDate,
			TargetMinutes: target.DailyMinutes, Status: status,
		})
		require.NoError(t, err)
	}
}

func TestCalculateDailyMetrics(t *testing.T) {
	ctx := context.Background()
	svc, repos, demo := newTestService(t, Options{})
	seedDay(t, repos, demo)

	d, err := svc.CalculateDailyMetrics(ctx, fixtures.TodayDate)
	require.NoError(t, err)

	assert.Equal(t, 3, d.TotalUsers)
	assert.Equal(t, 3, d.SessionsCompleted)
	assert.Equal(t, 300, d.AvgProductivity)
	assert.Equal(t, 50, d.TargetAchievementRate)
	assert.Equal(t, 16, d.AvgIdlePercentage)

	require.Len(t, d.TopPerformers, 3)
	assert.Equal(t, demo.Alice.ID, d.TopPerformers[0].UserID)
	assert.InDelta(t, 400.0/420.0, d.TopPerformers[0].Score, 1e-9)

	assert.ElementsMatch(t, []metrics.AttentionEntry{
		{UserID: demo.Bob.ID, Reason: "Low productivity"},
		{UserID: demo.Carol.ID, Reason: "High idle time"},
	}, d.NeedsAttention)
}

func TestCalculateDailyMetricsForUsers(t *testing.T) {
	ctx := context.Background()
	svc, repos, demo := newTestService(t, Options{})
	seedDay(t, repos, demo)

	d, err := svc.CalculateDailyMetricsForUsers(ctx, fixtures.TodayDate, []string{demo.Alice.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, d.TotalUsers)
	assert.Equal(t, 400, d.AvgProductivity)
	assert.Equal(t, 100, d.TargetAchievementRate)
	assert.Empty(t, d.NeedsAttention)
}

func TestCalculateDailyMetrics_EmptyAndInvalid(t *testing.T) {
	svc, _, _ := newTestService(t, Options{})

	d, err := svc.CalculateDailyMetrics(context.Background(), "2025-01-01")
	require.NoError(t, err)
	assert.Equal(t, 0, d.AvgProductivity)
	assert.Empty(t, d.TopPerformers)

	_, err = svc.CalculateDailyMetrics(context.Background(), "01/01/2025")
	assert.ErrorIs(t, err, metrics.ErrInvalidDate)
}

func TestCalculateDepartmentMetrics(t *testing.T) {
	ctx := context.Background()
	svc, repos, demo := newTestService(t, Options{})
	require.NoError(t, fixtures.AddSessions(ctx, repos.Sessions, demo.Alice.ID, 0, 420, 420, 420))
	require.NoError(t, fixtures.AddSessions(ctx, repos.Sessions, demo.Bob.ID, 0, 300, 300))
	require.NoError(t, fixtures.AddSessions(ctx, repos.Sessions, demo.Manager.ID, 0, 10))

	d, err := svc.CalculateDepartmentMetrics(ctx, "Sales")
	require.NoError(t, err)

	assert.Equal(t, "Sales", d.Department)
	assert.Equal(t, 2, d.TotalUsers)
	assert.Equal(t, 360, d.AvgProductivity)
	assert.Equal(t, 50, d.TargetAchievementRate)
	assert.Equal(t, metrics.Distribution{Excellent: 1, Critical: 1}, d.PerformanceDistribution)

	d, err = svc.CalculateDepartmentMetrics(ctx, "sales")
	require.NoError(t, err)
	assert.Equal(t, 0, d.TotalUsers)

	_, err = svc.CalculateDepartmentMetrics(ctx, " ")
	assert.ErrorIs(t, err, metrics.ErrDepartmentMissing)
}

func TestEligibleAgents(t *testing.T) {
	ctx := context.Background()
	svc, _, demo := newTestService(t, Options{})

	agents, err := svc.EligibleAgents(ctx, demo.Manager)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{demo.Alice.ID, demo.Bob.ID}, ids(agents))

	agents, err = svc.EligibleAgents(ctx, demo.Admin)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{demo.Alice.ID, demo.Bob.ID, demo.Carol.ID}, ids(agents))

	_, err = svc.EligibleAgents(ctx, demo.Alice)
	assert.ErrorIs(t, err, user.ErrManagerAccessRequired)
}

func TestListTeamMetrics(t *testing.T) {
	ctx := context.Background()
	svc, repos, demo := newTestService(t, Options{})
	require.NoError(t, fixtures.AddSessions(ctx, repos.Sessions, demo.Alice.ID, 0, 420))

	team, err := svc.ListTeamMetrics(ctx, demo.Manager, 7)
	require.NoError(t, err)
	require.Len(t, team, 2)
	for _, member := range team {
		if member.UserID == demo.Alice.ID {
			assert.Equal(t, "alice@company.com", member.Email)
			assert.Equal(t, 100, member.Metrics.TargetAchievementRate)
		}
	}
}

func TestTaskBreakdown(t *testing.T) {
	ctx := context.Background()
	svc, repos, demo := newTestService(t, Options{})
	require.NoError(t, repos.Definitions.ReplaceForOwner(ctx, demo.Manager.ID, []target.TaskTargetDefinition{
		{TaskName: "Sales Calls", AverageUnitMinutes: 6, TargetDaily: 70},
		{TaskName: "Emails", AverageUnitMinutes: 2.5, TargetDaily: 40},
	}))
	_, err := repos.Executions.Upsert(ctx, execution.AgentExecution{
		ID: execution.ID(demo.Alice.ID, fixtures.TodayDate), UserID: demo.Alice.ID, AgentName: "Alice",
		ExecutionDate: fixtures.TodayDate, TotalExecutions: 16,
		ExecutionsByType: map[string]int{"sales calls": 10, "Chats": 3, "Emails": 3},
	})
	require.NoError(t, err)

	b, err := svc.TaskBreakdown(ctx, "", demo.Alice.ID, fixtures.TodayDate)
	require.NoError(t, err)

	assert.Equal(t, 16, b.TotalExecutions)
	assert.Equal(t, 67.5, b.TotalMinutes)
	assert.Equal(t, target.DailyMinutes, b.TargetMinutes)
	assert.Equal(t, []metrics.TaskUsage{
		{TaskName: "Chats", Count: 3},
		{TaskName: "Emails", Count: 3, MinutesUsed: 7.5, TargetDaily: 40, Defined: true},
		{TaskName: "sales calls", Count: 10, MinutesUsed: 60, TargetDaily: 70, Defined: true},
	}, b.Tasks)

	empty, err := svc.TaskBreakdown(ctx, demo.Manager.ID, demo.Bob.ID, fixtures.TodayDate)
	require.NoError(t, err)
	assert.Empty(t, empty.Tasks)
}

func ids(users []user.User) []string {
	result := make([]string, 0, len(users))
	for _, u := range users {
		result = append(result, u.ID)
	}
	return result
}

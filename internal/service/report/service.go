package report

import (
	"context"
	"fmt"
	"sort"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/metrics"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/user"
	"golang.org/x/sync/errgroup"
)

const (
	allDepartments = "All"

	achievementLine = 60
	activeLine      = 300
	idleLine        = 20

	recLowAchievement = "Team achievement is below threshold. Review workload and coaching plans."
	recLowActive      = "Average active minutes are low. Investigate blockers and process friction."
	recHighIdle       = "Idle percentage is high. Validate task allocation and break policies."
	recStable         = "Performance is stable. Continue monitoring and recognize top performers."
)

type ReportServiceImpl struct {
	metrics metrics.MetricsService
}

func NewReportService(metricsService metrics.MetricsService) report.ReportService {
	return &ReportServiceImpl{
		metrics: metricsService,
	}
}

// Generate builds the period report over the agents the actor oversees.
func (s *ReportServiceImpl) Generate(ctx context.Context, actor user.User, req report.GenerateReportRequest) (report.PerformanceReport, error) {
	if err := req.Validate(); err != nil {
		return report.PerformanceReport{}, err
	}

	today := s.metrics.Today()
	reference := req.Reference
	switch {
	case reference == "":
		reference = today
	case req.Period == report.PeriodMonthly:
		reference += "-01"
	}

	agents, err := s.metrics.EligibleAgents(ctx, actor)
	if err != nil {
		return report.PerformanceReport{}, err
	}

	// Per-agent metrics are independent reads; results keep the agent order.
	team := make([]report.TeamMetric, len(agents))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, agent := range agents {
		g.Go(func() error {
			m, err := s.metrics.CalculateUserMetrics(gCtx, agent.ID, req.Period.WindowDays())
			if err != nil {
				return fmt.Errorf("metrics for %s: %w", agent.ID, err)
			}
			team[i] = report.TeamMetric{
				Name:              agent.Name,
				Email:             agent.Email,
				TargetAchievement: m.TargetAchievementRate,
				ConsistencyScore:  m.ConsistencyScore,
				IdlePercentage:    m.IdleTimePercentage,
				PerformanceRating: m.PerformanceRating,
				Trend:             m.Trend,
			}
			return nil
		})
	}

	ids := make([]string, 0, len(agents))
	for _, a := range agents {
		ids = append(ids, a.ID)
	}
	var daily metrics.DailyMetrics
	g.Go(func() error {
		d, err := s.metrics.CalculateDailyMetricsForUsers(gCtx, reference, ids)
		if err != nil {
			return err
		}
		daily = d
		return nil
	})

	if err := g.Wait(); err != nil {
		return report.PerformanceReport{}, fmt.Errorf("%w: %w", report.ErrReportGenerationFailed, err)
	}

	sort.SliceStable(team, func(i, j int) bool { return team[i].TargetAchievement > team[j].TargetAchievement })

	var distribution metrics.Distribution
	achievementSum := 0
	for _, m := range team {
		distribution.Add(m.PerformanceRating)
		achievementSum += m.TargetAchievement
	}
	avgAchievement := 0
	if len(team) > 0 {
		// integer half-up of sum/n
		avgAchievement = (2*achievementSum + len(team)) / (2 * len(team))
	}

	return report.PerformanceReport{
		ReportDate:   today,
		ReportPeriod: reference,
		PeriodType:   req.Period,
		TotalUsers:   len(agents),
		TeamMetrics:  team,
		DepartmentSummary: report.DepartmentSummary{
			Department:      allDepartments,
			AvgProductivity: daily.AvgProductivity,
			AvgAchievement:  avgAchievement,
			Distribution:    distribution,
		},
		Recommendations: recommendations(achievementSum, len(team), daily),
	}, nil
}

// recommendations compares the unrounded team achievement with its line.
func recommendations(achievementSum, members int, daily metrics.DailyMetrics) []string {
	var recs []string
	if achievementSum < achievementLine*members || members == 0 {
		recs = append(recs, recLowAchievement)
	}
	if daily.AvgProductivity < activeLine {
		recs = append(recs, recLowActive)
	}
	if daily.AvgIdlePercentage > idleLine {
		recs = append(recs, recHighIdle)
	}
	if len(recs) == 0 {
		recs = append(recs, recStable)
	}
	return recs
}

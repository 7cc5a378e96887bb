package report

import (
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/metrics"
	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/validator"
)

type PeriodType string

const (
	PeriodDaily   PeriodType = "daily"
	PeriodWeekly  PeriodType = "weekly"
	PeriodMonthly PeriodType = "monthly"
)

// WindowDays is the metrics look-back of the period.
func (p PeriodType) WindowDays() int {
	switch p {
	case PeriodDaily:
		return 1
	case PeriodWeekly:
		return 7
	default:
		return 30
	}
}

func ValidPeriods() []string {
	return []string{string(PeriodDaily), string(PeriodWeekly), string(PeriodMonthly)}
}

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ValidFormats() []string {
	return []string{string(FormatCSV), string(FormatJSON), string(FormatYAML)}
}

// GenerateReportRequest selects a period and its reference day (YYYY-MM for monthly).
type GenerateReportRequest struct {
	Period    PeriodType `json:"period"`
	Reference string     `json:"reference"`
}

func (r *GenerateReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(string(r.Period), ValidPeriods()) {
		errs = append(errs, validator.ValidationError{
			Field:   "period",
			Message: "period must be one of daily, weekly, monthly",
		})
	} else if r.Reference != "" {
		if r.Period == PeriodMonthly {
			if !validator.IsValidMonth(r.Reference) {
				errs = append(errs, validator.ValidationError{
					Field:   "reference",
					Message: "reference must be in YYYY-MM format",
				})
			}
		} else if _, ok := validator.IsValidDate(r.Reference); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "reference",
				Message: "reference must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TeamMetric struct {
	Name              string         `json:"name" yaml:"name"`
	Email             string         `json:"email" yaml:"email"`
	TargetAchievement int            `json:"target_achievement" yaml:"target_achievement"`
	ConsistencyScore  int            `json:"consistency_score" yaml:"consistency_score"`
	IdlePercentage    int            `json:"idle_percentage" yaml:"idle_percentage"`
	PerformanceRating metrics.Rating `json:"performance_rating" yaml:"performance_rating"`
	Trend             metrics.Trend  `json:"trend" yaml:"trend"`
}

type DepartmentSummary struct {
	Department      string               `json:"department" yaml:"department"`
	AvgProductivity int                  `json:"avg_productivity" yaml:"avg_productivity"`
	AvgAchievement  int                  `json:"avg_achievement" yaml:"avg_achievement"`
	Distribution    metrics.Distribution `json:"distribution" yaml:"distribution"`
}

type PerformanceReport struct {
	ReportDate        string            `json:"report_date" yaml:"report_date"`
	ReportPeriod      string            `json:"report_period" yaml:"report_period"`
	PeriodType        PeriodType        `json:"period_type" yaml:"period_type"`
	TotalUsers        int               `json:"total_users" yaml:"total_users"`
	TeamMetrics       []TeamMetric      `json:"team_metrics" yaml:"team_metrics"`
	DepartmentSummary DepartmentSummary `json:"department_summary" yaml:"department_summary"`
	Recommendations   []string          `json:"recommendations" yaml:"recommendations"`
}

// FileName is the suggested download name of an export.
func (r PerformanceReport) FileName(format Format) string {
	return "performance-report-" + string(r.PeriodType) + "-" + r.ReportPeriod + "." + string(format)
}

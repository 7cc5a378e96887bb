package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/report"
	"gopkg.in/yaml.v3"
)

var teamMetricsHeader = []string{"Name", "Email", "Achievement %", "Consistency %", "Idle %", "Rating", "Trend"}

// Export serializes the report and returns its content type.
func (s *ReportServiceImpl) Export(r report.PerformanceReport, format report.Format) ([]byte, string, error) {
	switch format {
	case report.FormatCSV:
		data, err := exportCSV(r)
		return data, "text/csv", err
	case report.FormatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode report: %w", err)
		}
		return data, "application/json", nil
	case report.FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return nil, "", fmt.Errorf("failed to encode report: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, "", fmt.Errorf("failed to encode report: %w", err)
		}
		return buf.Bytes(), "application/yaml", nil
	default:
		return nil, "", report.ErrUnsupportedFormat
	}
}

// exportCSV writes the three sections. Section titles and recommendation lines are
// plain text; table rows go through the csv writer so names with commas stay intact.
func exportCSV(r report.PerformanceReport) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Performance Report - %s (%s)\n\n", r.PeriodType, r.ReportPeriod)

	buf.WriteString("TEAM METRICS\n")
	w := csv.NewWriter(&buf)
	rows := [][]string{teamMetricsHeader}
	for _, m := range r.TeamMetrics {
		rows = append(rows, []string{
			m.Name,
			m.Email,
			strconv.Itoa(m.TargetAchievement),
			strconv.Itoa(m.ConsistencyScore),
			strconv.Itoa(m.IdlePercentage),
			string(m.PerformanceRating),
			string(m.Trend),
		})
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write team metrics: %w", err)
	}

	buf.WriteString("\nDEPARTMENT SUMMARY\n")
	summary := r.DepartmentSummary
	if err := w.WriteAll([][]string{
		{"Department", "Avg Productivity", "Avg Achievement"},
		{summary.Department, strconv.Itoa(summary.AvgProductivity), strconv.Itoa(summary.AvgAchievement)},
	}); err != nil {
		return nil, fmt.Errorf("failed to write department summary: %w", err)
	}

	buf.WriteString("\nRECOMMENDATIONS\n")
	for _, rec := range r.Recommendations {
		buf.WriteString("- " + rec + "\n")
	}

	return buf.Bytes(), nil
}

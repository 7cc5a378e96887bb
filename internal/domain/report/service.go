package report

import (
	"context"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/user"
)

// ReportService defines the interface for report generation
type ReportService interface {
	Generate(ctx context.Context, actor user.User, req GenerateReportRequest) (PerformanceReport, error)

	// Export serializes a report and returns its content type
	Export(report PerformanceReport, format Format) ([]byte, string, error)
}

package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/productivity-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	// Performance report as JSON envelope
	Generate(w http.ResponseWriter, r *http.Request)

	// Performance report as a downloadable file
	Export(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func generateRequest(r *http.Request) report.GenerateReportRequest {
	return report.GenerateReportRequest{
		Period:    report.PeriodType(chi.URLParam(r, "period")),
		Reference: r.URL.Query().Get("reference"),
	}
}

// Generate handles GET /reports/{period}?reference=
func (h *reportHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	rep, err := h.reportService.Generate(r.Context(), actor, generateRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, rep)
}

// Export handles GET /reports/{period}/export?format=csv|json|yaml
func (h *reportHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	format := report.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = report.FormatCSV
	}
	if !validator.IsInSlice(string(format), report.ValidFormats()) {
		response.HandleError(w, report.ErrUnsupportedFormat)
		return
	}

	rep, err := h.reportService.Generate(r.Context(), actor, generateRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	data, contentType, err := h.reportService.Export(rep, format)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Report exported", "user_id", actor.ID, "period", rep.PeriodType, "format", format, "bytes", len(data))
	response.Download(w, rep.FileName(format), contentType, data)
}

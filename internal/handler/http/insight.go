package http

import (
	"net/http"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/insight"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/productivity-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

const defaultAlertWindowDays = 7

type InsightHandler interface {
	Alerts(w http.ResponseWriter, r *http.Request)
	AIInsights(w http.ResponseWriter, r *http.Request)
	Forecast(w http.ResponseWriter, r *http.Request)
	Team(w http.ResponseWriter, r *http.Request)
}

type insightHandlerImpl struct {
	insightService insight.InsightService
	users          user.UserRepository
}

func NewInsightHandler(insightService insight.InsightService, users user.UserRepository) InsightHandler {
	return &insightHandlerImpl{
		insightService: insightService,
		users:          users,
	}
}

func (h *insightHandlerImpl) resolve(w http.ResponseWriter, r *http.Request) (user.User, bool) {
	actor, ok := currentUser(w, r)
	if !ok {
		return user.User{}, false
	}
	subj, err := subject(r.Context(), h.users, actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return user.User{}, false
	}
	return subj, true
}

// Alerts handles GET /insights/users/{id}/alerts?days=
func (h *insightHandlerImpl) Alerts(w http.ResponseWriter, r *http.Request) {
	subj, ok := h.resolve(w, r)
	if !ok {
		return
	}

	days, err := windowDays(r, defaultAlertWindowDays)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	alerts, err := h.insightService.GenerateAlerts(r.Context(), subj.ID, days)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, alerts)
}

// AIInsights handles GET /insights/users/{id}/ai
func (h *insightHandlerImpl) AIInsights(w http.ResponseWriter, r *http.Request) {
	subj, ok := h.resolve(w, r)
	if !ok {
		return
	}

	insights, err := h.insightService.GenerateAIInsights(r.Context(), subj.ID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, insights)
}

// Forecast handles GET /insights/users/{id}/forecast
func (h *insightHandlerImpl) Forecast(w http.ResponseWriter, r *http.Request) {
	subj, ok := h.resolve(w, r)
	if !ok {
		return
	}

	forecast, err := h.insightService.Forecast(r.Context(), subj.ID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, forecast)
}

// Team handles GET /insights/team
func (h *insightHandlerImpl) Team(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	insights, err := h.insightService.GenerateTeamInsights(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, insights)
}

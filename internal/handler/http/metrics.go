package http

import (
	"net/http"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/metrics"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/productivity-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// defaultWindowDays is the look-back of user metrics when ?days is omitted.
const defaultWindowDays = 30

type MetricsHandler interface {
	UserMetrics(w http.ResponseWriter, r *http.Request)
	Daily(w http.ResponseWriter, r *http.Request)
	Department(w http.ResponseWriter, r *http.Request)
	Team(w http.ResponseWriter, r *http.Request)
	TaskBreakdown(w http.ResponseWriter, r *http.Request)
}

type metricsHandlerImpl struct {
	metricsService metrics.MetricsService
	users          user.UserRepository
}

func NewMetricsHandler(metricsService metrics.MetricsService, users user.UserRepository) MetricsHandler {
	return &metricsHandlerImpl{
		metricsService: metricsService,
		users:          users,
	}
}

// UserMetrics handles GET /metrics/users/{id}?days=
func (h *metricsHandlerImpl) UserMetrics(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	subj, err := subject(r.Context(), h.users, actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	days, err := windowDays(r, defaultWindowDays)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	m, err := h.metricsService.CalculateUserMetrics(r.Context(), subj.ID, days)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, m)
}

// Daily handles GET /metrics/daily?date=
func (h *metricsHandlerImpl) Daily(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		date = h.metricsService.Today()
	}

	var (
		daily metrics.DailyMetrics
		err   error
	)
	if actor.IsAdmin() {
		daily, err = h.metricsService.CalculateDailyMetrics(r.Context(), date)
	} else {
		// Managers only see the aggregate of their own team
		var agents []user.User
		agents, err = h.metricsService.EligibleAgents(r.Context(), actor)
		if err == nil {
			ids := make([]string, len(agents))
			for i, a := range agents {
				ids[i] = a.ID
			}
			daily, err = h.metricsService.CalculateDailyMetricsForUsers(r.Context(), date, ids)
		}
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, daily)
}

// Department handles GET /metrics/departments/{department}
func (h *metricsHandlerImpl) Department(w http.ResponseWriter, r *http.Request) {
	dm, err := h.metricsService.CalculateDepartmentMetrics(r.Context(), chi.URLParam(r, "department"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, dm)
}

// Team handles GET /metrics/team?days=
func (h *metricsHandlerImpl) Team(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	days, err := windowDays(r, defaultWindowDays)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	team, err := h.metricsService.ListTeamMetrics(r.Context(), actor, days)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, team)
}

// TaskBreakdown handles GET /metrics/users/{id}/tasks?date=&owner=
// The owner of the task definitions defaults to the user's manager.
func (h *metricsHandlerImpl) TaskBreakdown(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	subj, err := subject(r.Context(), h.users, actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	query := r.URL.Query()
	date := query.Get("date")
	if date == "" {
		date = h.metricsService.Today()
	}

	owner := query.Get("owner")
	if owner == "" {
		switch {
		case subj.ManagerID != nil:
			owner = *subj.ManagerID
		default:
			owner = actor.ID
		}
	}

	breakdown, err := h.metricsService.TaskBreakdown(r.Context(), owner, subj.ID, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, breakdown)
}

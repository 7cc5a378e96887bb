package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/session"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/productivity-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/validator"
)

type SessionHandler interface {
	RecordActivity(w http.ResponseWriter, r *http.Request)
	RecordIdleEvent(w http.ResponseWriter, r *http.Request)
	Complete(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type sessionHandlerImpl struct {
	trackingService session.TrackingService
	users           user.UserRepository
	now             func() time.Time
}

func NewSessionHandler(trackingService session.TrackingService, users user.UserRepository, now func() time.Time) SessionHandler {
	if now == nil {
		now = time.Now
	}
	return &sessionHandlerImpl{
		trackingService: trackingService,
		users:           users,
		now:             now,
	}
}

// RecordActivity handles POST /sessions/activity
func (h *sessionHandlerImpl) RecordActivity(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req session.RecordActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	sess, err := h.trackingService.RecordActivity(r.Context(), actor.ID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, sess)
}

// RecordIdleEvent handles POST /sessions/idle
func (h *sessionHandlerImpl) RecordIdleEvent(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req session.RecordIdleEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	sess, err := h.trackingService.RecordIdleEvent(r.Context(), actor.ID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, sess)
}

type completeSessionRequest struct {
	Date string `json:"date"`
}

// Complete handles POST /sessions/complete. An empty body completes today's session.
func (h *sessionHandlerImpl) Complete(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req completeSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}
	if req.Date == "" {
		req.Date = h.now().UTC().Format(validator.DateLayout)
	}

	sess, err := h.trackingService.CompleteSession(r.Context(), actor.ID, req.Date)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Session completed", sess)
}

// List handles GET /sessions?user_id=&start_date=&end_date=
func (h *sessionHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	subj, err := subject(r.Context(), h.users, actor, query.Get("user_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	today := h.now().UTC()
	req := session.ListSessionsRequest{
		UserID:    subj.ID,
		StartDate: query.Get("start_date"),
		EndDate:   query.Get("end_date"),
	}
	if req.EndDate == "" {
		req.EndDate = today.Format(validator.DateLayout)
	}
	if req.StartDate == "" {
		req.StartDate = today.AddDate(0, 0, -30).Format(validator.DateLayout)
	}

	sessions, err := h.trackingService.ListSessions(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, sessions)
}

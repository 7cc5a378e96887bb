package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/productivity-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type UserHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	AssignAgents(w http.ResponseWriter, r *http.Request)
	ImportAssignments(w http.ResponseWriter, r *http.Request)
}

type userHandlerImpl struct {
	userService    user.UserService
	maxUploadBytes int64
}

func NewUserHandler(userService user.UserService, maxUploadBytes int64) UserHandler {
	return &userHandlerImpl{
		userService:    userService,
		maxUploadBytes: maxUploadBytes,
	}
}

// List handles GET /users
func (h *userHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	users, err := h.userService.List(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, users)
}

// Create handles POST /users
func (h *userHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req user.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.userService.Create(r.Context(), actor, req)
	if err != nil {
		slog.Error("Failed to create user", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "User created successfully", created)
}

// Update handles PATCH /users/{id}
func (h *userHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req user.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	if req.ID == selfAlias {
		req.ID = actor.ID
	}

	updated, err := h.userService.Update(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "User updated successfully", updated)
}

// AssignAgents handles POST /users/assign
func (h *userHandlerImpl) AssignAgents(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req user.AssignAgentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.userService.AssignAgents(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// ImportAssignments handles POST /users/assign/import
func (h *userHandlerImpl) ImportAssignments(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	content, fileName, err := readUpload(w, r, h.maxUploadBytes)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.userService.ImportAssignments(r.Context(), actor, fileName, content)
	if err != nil {
		slog.Error("Failed to import assignments", "file_name", fileName, "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

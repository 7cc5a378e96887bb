package user

import (
	"unicode/utf8"

	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/validator"
)

const (
	MinPasswordLength = 8
	// MaxPasswordBytes is the longest input bcrypt accepts.
	MaxPasswordBytes = 72
)

// CreateUserRequest represents request to create a new user
type CreateUserRequest struct {
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	Password   string  `json:"password"`
	Role       string  `json:"role"`
	Department *string `json:"department,omitempty"`
	ManagerID  *string `json:"manager_id,omitempty"`
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	email := validator.NormalizeEmail(r.Email)
	if email == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "invalid email format",
		})
	}

	if utf8.RuneCountInString(r.Password) < MinPasswordLength {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters",
		})
	} else if len(r.Password) > MaxPasswordBytes {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at most 72 bytes",
		})
	}

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if validator.IsEmpty(r.Role) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role is required",
		})
	} else if !validator.IsInSlice(r.Role, ValidRoles()) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "invalid role",
		})
	}

	if r.ManagerID != nil && validator.IsEmpty(*r.ManagerID) {
		errs = append(errs, validator.ValidationError{
			Field:   "manager_id",
			Message: "manager_id must not be empty",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateUserRequest represents request to update user. Nil fields are left untouched.
type UpdateUserRequest struct {
	ID         string    `json:"-"`
	Name       *string   `json:"name,omitempty"`
	Role       *string   `json:"role,omitempty"`
	Department *string   `json:"department,omitempty"`
	ManagerID  *string   `json:"manager_id,omitempty"`
	IsActive   *bool     `json:"is_active,omitempty"`
	Settings   *Settings `json:"settings,omitempty"`
}

func (r *UpdateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}

	if r.Role != nil && !validator.IsInSlice(*r.Role, ValidRoles()) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "invalid role",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// AssignAgentsRequest links a set of agents to one manager.
type AssignAgentsRequest struct {
	ManagerID string   `json:"manager_id"`
	AgentIDs  []string `json:"agent_ids"`
}

func (r *AssignAgentsRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ManagerID) {
		errs = append(errs, validator.ValidationError{
			Field:   "manager_id",
			Message: "manager_id is required",
		})
	}

	if len(r.AgentIDs) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "agent_ids",
			Message: "at least one agent must be selected",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// AssignmentResult summarises a manual assignment.
type AssignmentResult struct {
	ManagerID      string   `json:"manager_id"`
	AssignedAgents int      `json:"assigned_agents"`
	Skipped        int      `json:"skipped"`
	SkippedIDs     []string `json:"skipped_ids,omitempty"`
}

// ImportAssignmentsResult summarises a CSV assignment upload.
type ImportAssignmentsResult struct {
	RowsProcessed   int         `json:"rows_processed"`
	CreatedManagers int         `json:"created_managers"`
	CreatedAgents   int         `json:"created_agents"`
	AssignedAgents  int         `json:"assigned_agents"`
	SkippedRows     int         `json:"skipped_rows"`
	Skipped         []SkipEntry `json:"skipped,omitempty"`
	UploadID        string      `json:"upload_id"`
}

type SkipEntry struct {
	Row        int    `json:"row"`
	Identifier string `json:"identifier"`
	Reason     string `json:"reason"`
}

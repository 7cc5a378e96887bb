package session

import (
	"time"

	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/validator"
)

// RecordActivityRequest adds tracked minutes to the caller's session of the day.
type RecordActivityRequest struct {
	At            *time.Time `json:"at,omitempty"`
	ActiveMinutes int        `json:"active_minutes"`
	IdleMinutes   int        `json:"idle_minutes"`
	Activity      string     `json:"activity"`
}

func (r *RecordActivityRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ActiveMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "active_minutes",
			Message: "active_minutes must not be negative",
		})
	}
	if r.IdleMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "idle_minutes",
			Message: "idle_minutes must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RecordIdleEventRequest attaches a detected idle period to the session of its start day.
type RecordIdleEventRequest struct {
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	DetectionMethod   string    `json:"detection_method"`
	FlaggedAsWFHBreak bool      `json:"flagged_as_wfh_break"`
}

func (r *RecordIdleEventRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.StartTime.IsZero() {
		errs = append(errs, validator.ValidationError{
			Field:   "start_time",
			Message: "start_time is required",
		})
	}
	if !r.EndTime.After(r.StartTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "end_time must be after start_time",
		})
	}
	if !validator.IsInSlice(r.DetectionMethod, ValidDetectionMethods()) {
		errs = append(errs, validator.ValidationError{
			Field:   "detection_method",
			Message: "detection_method must be one of mouse, keyboard, screen, auto_lock",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ListSessionsRequest filters a user's sessions by an inclusive date range.
type ListSessionsRequest struct {
	UserID    string `json:"user_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (r *ListSessionsRequest) Validate() error {
	var errs validator.ValidationErrors

	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if okStart && okEnd && start.After(end) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be after start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

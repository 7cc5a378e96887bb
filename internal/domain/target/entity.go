package target

import (
	"fmt"
	"strings"
	"time"
)

// DailyMinutes is the working-day ceiling every agent is measured against (7 hours).
const DailyMinutes = 420

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusAchieved   Status = "achieved"
	StatusMissed     Status = "missed"
)

type ProductivityTarget struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	TargetDate       string    `json:"target_date"`
	TargetMinutes    int       `json:"target_minutes"`
	TargetExecutions *int      `json:"target_executions,omitempty"`
	Status           Status    `json:"status"`
	Notes            *string   `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ID returns the deterministic target id for a (user, date) pair.
func ID(userID, date string) string {
	return fmt.Sprintf("target-%s-%s", userID, date)
}

// StatusFor derives a live target status from the minutes tracked so far.
func StatusFor(trackedMinutes, targetMinutes int) Status {
	switch {
	case targetMinutes > 0 && trackedMinutes >= targetMinutes:
		return StatusAchieved
	case trackedMinutes > 0:
		return StatusInProgress
	default:
		return StatusPending
	}
}

// TaskTargetDefinition converts work units of one task into minutes for its owner.
type TaskTargetDefinition struct {
	OwnerID            string    `json:"owner_id"`
	TaskName           string    `json:"task_name"`
	AverageUnitMinutes float64   `json:"average_unit_execution_time_minutes"`
	TargetDaily        int       `json:"target_daily"`
	CreatedAt          time.Time `json:"created_at"`
}

// Key returns the normalized lookup key of the definition's task.
func (d TaskTargetDefinition) Key() string {
	return TaskKey(d.TaskName)
}

// TaskKey normalizes a task name for case-insensitive matching.
func TaskKey(taskName string) string {
	return strings.ToLower(strings.TrimSpace(taskName))
}

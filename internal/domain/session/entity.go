package session

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusIdle      Status = "idle"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

type DetectionMethod string

const (
	DetectionMouse    DetectionMethod = "mouse"
	DetectionKeyboard DetectionMethod = "keyboard"
	DetectionScreen   DetectionMethod = "screen"
	DetectionAutoLock DetectionMethod = "auto_lock"
)

// ProductivitySession is the tracked work of one user on one calendar day.
type ProductivitySession struct {
	ID            string      `json:"id"`
	UserID        string      `json:"user_id"`
	Date          string      `json:"date"`
	StartTime     time.Time   `json:"start_time"`
	EndTime       *time.Time  `json:"end_time,omitempty"`
	TotalMinutes  int         `json:"total_minutes"`
	ActiveMinutes int         `json:"active_minutes"`
	IdleMinutes   int         `json:"idle_minutes"`
	IdleEvents    []IdleEvent `json:"idle_events"`
	Status        Status      `json:"status"`
	Activities    []string    `json:"activities"`
	Notes         *string     `json:"notes,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

type IdleEvent struct {
	ID                string          `json:"id"`
	SessionID         string          `json:"session_id"`
	StartTime         time.Time       `json:"start_time"`
	EndTime           time.Time       `json:"end_time"`
	DurationMinutes   int             `json:"duration_minutes"`
	DetectionMethod   DetectionMethod `json:"detection_method"`
	FlaggedAsWFHBreak bool            `json:"flagged_as_wfh_break"`
}

// ID returns the deterministic session id for a (user, date) pair.
func ID(userID, date string) string {
	return fmt.Sprintf("session-%s-%s", userID, date)
}

// HasActivity reports whether label is already recorded on the session.
func (s *ProductivitySession) HasActivity(label string) bool {
	for _, a := range s.Activities {
		if a == label {
			return true
		}
	}
	return false
}

// ValidDetectionMethods lists accepted detection method tags.
func ValidDetectionMethods() []string {
	return []string{
		string(DetectionMouse),
		string(DetectionKeyboard),
		string(DetectionScreen),
		string(DetectionAutoLock),
	}
}

package user

import "time"

type Role string

const (
	RoleAgent   Role = "agent"   // Tracked individual contributor
	RoleManager Role = "manager" // Owns a team of agents and their task definitions
	RoleAdmin   Role = "admin"   // Full access across all teams
)

// Settings holds per-user tracking preferences.
type Settings struct {
	NotificationsEnabled bool `json:"notifications_enabled"`
	IdleDetectionEnabled bool `json:"idle_detection_enabled"`
	PrivacyMode          bool `json:"privacy_mode"`
}

// DefaultSettings are applied to every newly created user.
func DefaultSettings() Settings {
	return Settings{
		NotificationsEnabled: true,
		IdleDetectionEnabled: true,
		PrivacyMode:          false,
	}
}

type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       Role      `json:"role"`
	Department *string   `json:"department,omitempty"`
	ManagerID  *string   `json:"manager_id,omitempty"`
	IsActive   bool      `json:"is_active"`
	Settings   Settings  `json:"settings"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsAdmin checks if user is an administrator
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsManager checks if user is a manager
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

// IsAgent checks if user is an agent
func (u *User) IsAgent() bool {
	return u.Role == RoleAgent
}

// ReportsTo reports whether the user's manager reference points at managerID.
func (u *User) ReportsTo(managerID string) bool {
	return u.ManagerID != nil && *u.ManagerID == managerID
}

// InDepartment compares departments exactly, as stored.
func (u *User) InDepartment(department string) bool {
	return u.Department != nil && *u.Department == department
}

// ValidRoles lists the role strings accepted on input.
func ValidRoles() []string {
	return []string{string(RoleAgent), string(RoleManager), string(RoleAdmin)}
}

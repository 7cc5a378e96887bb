package user

type Permission string

const (
	// Self service
	PermissionViewOwnProfile Permission = "profile.view_own"
	PermissionTrackSession   Permission = "session.track"
	PermissionViewOwnMetrics Permission = "metrics.view_own"

	// Team oversight
	PermissionViewTeamMetrics Permission = "metrics.view_team"
	PermissionUploadData      Permission = "upload.manage"
	PermissionReportsView     Permission = "reports.view"

	// Administration
	PermissionUserManage Permission = "user.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionViewOwnProfile,
		PermissionViewOwnMetrics,
		PermissionViewTeamMetrics,
		PermissionUploadData,
		PermissionReportsView,
		PermissionUserManage,
	},
	RoleManager: {
		PermissionViewOwnProfile,
		PermissionViewOwnMetrics,
		PermissionViewTeamMetrics,
		PermissionUploadData,
		PermissionReportsView,
	},
	RoleAgent: {
		PermissionViewOwnProfile,
		PermissionTrackSession,
		PermissionViewOwnMetrics,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}

// CanView reports whether actor may read the records of subject:
// themselves, their direct reports, or anyone for admins.
func CanView(actor, subject User) bool {
	switch {
	case actor.ID == subject.ID:
		return true
	case actor.IsAdmin():
		return true
	case actor.IsManager():
		return subject.ReportsTo(actor.ID)
	default:
		return false
	}
}

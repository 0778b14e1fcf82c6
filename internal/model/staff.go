package model

import "time"

// Staff roles. RoleUnknown is a degraded state used when an account exists
// but its role could not be resolved; it is displayable but gates off every
// write action.
const (
	RoleAdmin     = "admin"
	RoleTeacher   = "teacher"
	RoleCounselor = "counselor"
	RoleParent    = "parent"
	RoleUnknown   = "unknown"
)

// KnownRole reports whether role is one of the assignable staff roles
// (everything except "unknown").
func KnownRole(role string) bool {
	switch role {
	case RoleAdmin, RoleTeacher, RoleCounselor, RoleParent:
		return true
	}
	return false
}

// Staff represents a row in the `staff` table. It doubles as the role
// document: the Role column is what the session resolver reads, and an
// empty or unrecognized value degrades the session to RoleUnknown.
type Staff struct {
	ID           uint64    // staff.id
	Email        string    // staff.email
	PasswordHash string    // staff.password_hash
	Role         string    // staff.role (may be empty; resolver degrades to unknown)
	DisplayName  string    // staff.display_name
	SchoolID     string    // staff.school_id
	IsActive     bool      // staff.is_active
	CreatedAt    time.Time // staff.created_at
	UpdatedAt    time.Time // staff.updated_at
}

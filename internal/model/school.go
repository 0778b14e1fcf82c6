package model

import "time"

// School holds the per-school metadata document. Updated with merge
// semantics: writers set only the columns they own and never clobber the
// rest of the row.
type School struct {
	ID         string    `json:"id"`          // schools.id
	Name       string    `json:"name"`        // schools.name
	AdminEmail string    `json:"admin_email"` // schools.admin_email
	UpdatedAt  time.Time `json:"updated_at"`  // schools.updated_at
}

// Session is the role-tagged view of an authenticated identity, returned by
// login and /v1/me. Role is "unknown" when no role could be resolved; that
// is a valid degraded state, not an error.
type Session struct {
	Identity    string `json:"identity"`
	Role        string `json:"role"`
	DisplayName string `json:"display_name"`
	SchoolID    string `json:"school_id"`
}

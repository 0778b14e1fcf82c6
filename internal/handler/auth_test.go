package handler

import (
	"testing"

	"github.com/iliyamo/school-qr-register/internal/model"
)

func TestResolveSessionKnownRole(t *testing.T) {
	s := resolveSession(model.Staff{
		Email:       " Teacher@Example.com ",
		Role:        model.RoleCounselor,
		DisplayName: "أ. سالم",
		SchoolID:    "school-1",
	})
	if s.Identity != "teacher@example.com" {
		t.Errorf("identity = %q", s.Identity)
	}
	if s.Role != model.RoleCounselor || s.DisplayName != "أ. سالم" || s.SchoolID != "school-1" {
		t.Errorf("session = %+v", s)
	}
}

func TestResolveSessionDegradesToUnknown(t *testing.T) {
	// No role document resolves to a displayable "unknown" session, never
	// an error.
	for _, role := range []string{"", "principal", "ADMIN"} {
		s := resolveSession(model.Staff{Email: "x@y.com", Role: role})
		if s.Role != model.RoleUnknown {
			t.Errorf("role %q resolved to %q, want unknown", role, s.Role)
		}
		if s.DisplayName == "" {
			t.Errorf("role %q: expected a default display name", role)
		}
	}
}

func TestResolveSessionDefaultDisplayName(t *testing.T) {
	s := resolveSession(model.Staff{Email: "a@b.c", Role: model.RoleTeacher})
	if s.DisplayName != defaultDisplayNames[model.RoleTeacher] {
		t.Errorf("display name = %q", s.DisplayName)
	}
}

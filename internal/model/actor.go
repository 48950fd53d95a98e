package model

import "github.com/google/uuid"

// Role is an actor's resolved role within the school.
type Role string

const (
	// RoleUnknown is the fail-closed default for identities the
	// directory could not resolve. It carries no permissions.
	RoleUnknown Role = "unknown"

	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleParent  Role = "parent"
	RoleStudent Role = "student"
)

// Known reports whether the role was actually resolved.
func (r Role) Known() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleParent, RoleStudent:
		return true
	}
	return false
}

type Actor struct {
	ID   uuid.UUID `json:"id"`
	Role Role      `json:"role"`
}

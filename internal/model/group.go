package model

import (
	"time"

	"github.com/google/uuid"
)

// Group is a school class. It is the unit of both teacher assignment
// and article restriction.
type Group struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	GradeYear int       `json:"grade_year"`
	CreatedAt time.Time `json:"created_at"`
}

// Enrollment links a family to a class through one of its children.
// The roster system owns its lifecycle; this engine only reads it.
type Enrollment struct {
	ID          int64      `json:"id"`
	FamilyID    uuid.UUID  `json:"family_id"`
	GroupID     uuid.UUID  `json:"group_id"`
	GraduatedAt *time.Time `json:"graduated_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Active reports whether the child is still enrolled.
func (e *Enrollment) Active() bool {
	return e.GraduatedAt == nil
}

package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/schoolweekly/schoolweekly/internal/model"
)

// Actions named by PermissionDeniedError.
const (
	ActionView   = "view"
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

// Aggregation steps named by DependencyError.
const (
	StepEnrollments = "enrollments"
	StepPublic      = "public"
	StepRestricted  = "restricted"
	StepGroups      = "groups"
)

// PermissionDeniedError is returned by the asserting permission
// checks. The filtering predicates never produce it.
type PermissionDeniedError struct {
	Role      model.Role
	Action    string
	ArticleID uuid.UUID
	Reason    string
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("%s may not %s article %s: %s", e.Role, e.Action, e.ArticleID, e.Reason)
}

// ValidationError reports an invalid visibility transition.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// DependencyError reports a failed source fetch during feed
// aggregation. The aggregation is aborted whole; the caller may retry.
type DependencyError struct {
	Step string
	Err  error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Step, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

// ErrorMessage returns a user-facing message for an engine error.
func ErrorMessage(err error) string {
	var denied *PermissionDeniedError
	var invalid *ValidationError
	var dep *DependencyError

	switch {
	case errors.As(err, &denied):
		return "You don't have permission to " + denied.Action + " this article"
	case errors.As(err, &invalid):
		return "Invalid request: " + invalid.Reason
	case errors.As(err, &dep):
		return "The newsletter could not be loaded, please try again"
	default:
		return "Something went wrong"
	}
}

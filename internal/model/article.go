package model

import (
	"time"

	"github.com/google/uuid"
)

// Visibility says who an article is meant for.
type Visibility string

const (
	// VisibilityPublic articles are shown to the whole school.
	VisibilityPublic Visibility = "public"
	// VisibilityClass articles are restricted to a set of classes.
	VisibilityClass Visibility = "class"
)

// Article is one entry of a weekly newsletter.
type Article struct {
	ID          uuid.UUID   `json:"id"`
	WeekKey     string      `json:"week_key"`
	Title       string      `json:"title"`
	Order       int         `json:"order"` // position within the week
	IsPublished bool        `json:"is_published"`
	IsDeleted   bool        `json:"is_deleted"`
	Visibility  Visibility  `json:"visibility"`
	GroupIDs    []uuid.UUID `json:"group_ids,omitempty"` // set when Visibility is class
	CreatedAt   time.Time   `json:"created_at"`
}

// IsPublic reports whether the article is visible school-wide.
func (a *Article) IsPublic() bool {
	return a.Visibility == VisibilityPublic
}

// RestrictedTo reports whether the article is restricted to the given class.
func (a *Article) RestrictedTo(groupID uuid.UUID) bool {
	if a.Visibility != VisibilityClass {
		return false
	}
	for _, id := range a.GroupIDs {
		if id == groupID {
			return true
		}
	}
	return false
}

// Readable reports whether the article may be shown to non-admins at
// all. Deleted and unpublished articles are invisible regardless of
// visibility type.
func (a *Article) Readable() bool {
	return a.IsPublished && !a.IsDeleted
}

// Clone returns a copy with its own group slice, so visibility
// transitions never mutate the caller's article in place.
func (a *Article) Clone() *Article {
	out := *a
	if a.GroupIDs != nil {
		out.GroupIDs = make([]uuid.UUID, len(a.GroupIDs))
		copy(out.GroupIDs, a.GroupIDs)
	}
	return &out
}

package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/schoolweekly/schoolweekly/internal/model"
)

// DirectoryStore resolves identities against the school directory and
// roster. Implemented by repository.DirectoryRepository.
type DirectoryStore interface {
	// GetRole returns model.RoleUnknown with a nil error for an
	// identity the directory simply does not know.
	GetRole(ctx context.Context, actorID uuid.UUID) (model.Role, error)
	GetTaughtGroups(ctx context.Context, teacherID uuid.UUID) ([]uuid.UUID, error)
	// GetActiveEnrollments excludes graduated children.
	GetActiveEnrollments(ctx context.Context, familyID uuid.UUID) ([]uuid.UUID, error)
}

// ArticleStore queries and mutates newsletter articles. The query
// methods return only published, non-deleted articles.
type ArticleStore interface {
	QueryPublicArticles(ctx context.Context, weekKey string) ([]*model.Article, error)
	QueryRestrictedArticles(ctx context.Context, weekKey string) ([]*model.Article, error)
	UpdateVisibility(ctx context.Context, article *model.Article) error
}

// GroupStore looks up classes, mainly for grade years.
type GroupStore interface {
	GetGroup(ctx context.Context, groupID uuid.UUID) (*model.Group, error)
	GetGroupsByIDs(ctx context.Context, groupIDs []uuid.UUID) (map[uuid.UUID]*model.Group, error)
}

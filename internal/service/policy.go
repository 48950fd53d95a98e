package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/schoolweekly/schoolweekly/internal/model"
)

// PolicyConfig selects between the two historical policies for viewing
// class-restricted articles.
type PolicyConfig struct {
	// RequireGroupForView gates restricted articles on a group
	// intersection with the viewer. When false, any resolved role may
	// view restricted articles (the legacy behavior). Teachers and
	// admins are unaffected either way.
	RequireGroupForView bool
}

// DefaultPolicyConfig is the secure default: restricted articles are
// only visible to members of their classes.
func DefaultPolicyConfig() PolicyConfig {
	return PolicyConfig{RequireGroupForView: true}
}

// PolicyService decides, per article, what an actor may do. The
// predicates are pure over a resolved role and group set; the
// actor-level variants resolve through the session's RoleResolver
// first.
type PolicyService struct {
	roles  *RoleResolver
	config PolicyConfig
}

func NewPolicyService(roles *RoleResolver, config PolicyConfig) *PolicyService {
	return &PolicyService{roles: roles, config: config}
}

// CanView reports whether the role/group set may see the article.
// It never errors; an unresolved role sees nothing.
func (s *PolicyService) CanView(role model.Role, groups []uuid.UUID, a *model.Article) bool {
	if role == model.RoleAdmin {
		return true
	}
	if !role.Known() {
		return false
	}
	if !a.Readable() {
		return false
	}
	if a.IsPublic() {
		return true
	}
	// A restricted article naming no classes is visible to nobody.
	if len(a.GroupIDs) == 0 {
		return false
	}
	if !s.config.RequireGroupForView {
		return true
	}
	return intersects(a.GroupIDs, groups)
}

// CanEdit reports whether the role/group set may edit the article.
// Teachers may edit only restricted articles of their own classes;
// public articles are admin-owned.
func (s *PolicyService) CanEdit(role model.Role, groups []uuid.UUID, a *model.Article) bool {
	switch role {
	case model.RoleAdmin:
		return true
	case model.RoleTeacher:
		return a.Visibility == model.VisibilityClass && intersects(a.GroupIDs, groups)
	default:
		return false
	}
}

// CanDelete reports whether the role may delete the article. Only
// admins delete, regardless of class ownership.
func (s *PolicyService) CanDelete(role model.Role, _ []uuid.UUID, _ *model.Article) bool {
	return role == model.RoleAdmin
}

// CanViewArticle resolves the actor and evaluates CanView.
func (s *PolicyService) CanViewArticle(ctx context.Context, actorID uuid.UUID, a *model.Article) bool {
	role := s.roles.ResolveRole(ctx, actorID)
	return s.CanView(role, s.roles.ResolveViewerGroups(ctx, actorID, role), a)
}

// CanEditArticle resolves the actor and evaluates CanEdit.
func (s *PolicyService) CanEditArticle(ctx context.Context, actorID uuid.UUID, a *model.Article) bool {
	role := s.roles.ResolveRole(ctx, actorID)
	return s.CanEdit(role, s.roles.ResolveViewerGroups(ctx, actorID, role), a)
}

// CanDeleteArticle resolves the actor and evaluates CanDelete.
func (s *PolicyService) CanDeleteArticle(ctx context.Context, actorID uuid.UUID, a *model.Article) bool {
	role := s.roles.ResolveRole(ctx, actorID)
	return s.CanDelete(role, nil, a)
}

// AssertCanEdit is the guard used on the edit path. Unlike CanEdit it
// returns a PermissionDeniedError explaining the refusal.
func (s *PolicyService) AssertCanEdit(ctx context.Context, actorID uuid.UUID, a *model.Article) error {
	role := s.roles.ResolveRole(ctx, actorID)
	groups := s.roles.ResolveViewerGroups(ctx, actorID, role)
	if s.CanEdit(role, groups, a) {
		return nil
	}

	reason := "editing requires an administrator"
	switch role {
	case model.RoleUnknown:
		reason = "the acting identity could not be resolved"
	case model.RoleParent, model.RoleStudent:
		reason = "parents and students cannot edit articles"
	case model.RoleTeacher:
		if a.IsPublic() {
			reason = "teachers cannot edit public articles"
		} else {
			reason = "not a teacher of this article's classes"
		}
	}

	return &PermissionDeniedError{
		Role:      role,
		Action:    ActionEdit,
		ArticleID: a.ID,
		Reason:    reason,
	}
}

// AssertCanDelete is the guard used on the delete path.
func (s *PolicyService) AssertCanDelete(ctx context.Context, actorID uuid.UUID, a *model.Article) error {
	role := s.roles.ResolveRole(ctx, actorID)
	if s.CanDelete(role, nil, a) {
		return nil
	}
	return &PermissionDeniedError{
		Role:      role,
		Action:    ActionDelete,
		ArticleID: a.ID,
		Reason:    "only administrators can delete articles",
	}
}

func intersects(a, b []uuid.UUID) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

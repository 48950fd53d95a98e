package service

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolweekly/schoolweekly/internal/model"
)

// stubDirectory is an in-memory DirectoryStore with fault injection.
type stubDirectory struct {
	roles       map[uuid.UUID]model.Role
	taught      map[uuid.UUID][]uuid.UUID
	enrollments map[uuid.UUID][]uuid.UUID

	roleErr   error
	taughtErr error
	enrollErr error

	roleCalls   atomic.Int32
	taughtCalls atomic.Int32
	enrollCalls atomic.Int32

	// roleGate, when non-nil, blocks GetRole until closed.
	roleGate chan struct{}
}

func (d *stubDirectory) GetRole(_ context.Context, actorID uuid.UUID) (model.Role, error) {
	d.roleCalls.Add(1)
	if d.roleGate != nil {
		<-d.roleGate
	}
	if d.roleErr != nil {
		return model.RoleUnknown, d.roleErr
	}
	role, ok := d.roles[actorID]
	if !ok {
		return model.RoleUnknown, nil
	}
	return role, nil
}

func (d *stubDirectory) GetTaughtGroups(_ context.Context, teacherID uuid.UUID) ([]uuid.UUID, error) {
	d.taughtCalls.Add(1)
	if d.taughtErr != nil {
		return nil, d.taughtErr
	}
	return d.taught[teacherID], nil
}

func (d *stubDirectory) GetActiveEnrollments(_ context.Context, familyID uuid.UUID) ([]uuid.UUID, error) {
	d.enrollCalls.Add(1)
	if d.enrollErr != nil {
		return nil, d.enrollErr
	}
	return d.enrollments[familyID], nil
}

// stubArticles is an in-memory ArticleStore with fault injection.
type stubArticles struct {
	public     []*model.Article
	restricted []*model.Article

	publicErr     error
	restrictedErr error
	updateErr     error

	updated []*model.Article
}

func (s *stubArticles) QueryPublicArticles(_ context.Context, _ string) ([]*model.Article, error) {
	if s.publicErr != nil {
		return nil, s.publicErr
	}
	return s.public, nil
}

func (s *stubArticles) QueryRestrictedArticles(_ context.Context, _ string) ([]*model.Article, error) {
	if s.restrictedErr != nil {
		return nil, s.restrictedErr
	}
	return s.restricted, nil
}

func (s *stubArticles) UpdateVisibility(_ context.Context, article *model.Article) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updated = append(s.updated, article)
	return nil
}

// stubGroups is an in-memory GroupStore with fault injection.
type stubGroups struct {
	groups map[uuid.UUID]*model.Group
	err    error
}

func (s *stubGroups) GetGroup(_ context.Context, groupID uuid.UUID) (*model.Group, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.groups[groupID], nil
}

func (s *stubGroups) GetGroupsByIDs(_ context.Context, groupIDs []uuid.UUID) (map[uuid.UUID]*model.Group, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make(map[uuid.UUID]*model.Group, len(groupIDs))
	for _, id := range groupIDs {
		if g, ok := s.groups[id]; ok {
			out[id] = g
		}
	}
	return out, nil
}

func newTestResolver(dir DirectoryStore) *RoleResolver {
	return NewRoleResolver(dir, NewPermissionCache(), zap.NewNop())
}

func publicArticle(week string, order int) *model.Article {
	return &model.Article{
		ID:          uuid.New(),
		WeekKey:     week,
		Order:       order,
		IsPublished: true,
		Visibility:  model.VisibilityPublic,
	}
}

func restrictedArticle(week string, order int, groupIDs ...uuid.UUID) *model.Article {
	return &model.Article{
		ID:          uuid.New(),
		WeekKey:     week,
		Order:       order,
		IsPublished: true,
		Visibility:  model.VisibilityClass,
		GroupIDs:    groupIDs,
	}
}

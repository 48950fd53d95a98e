package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolweekly/schoolweekly/internal/model"
)

const week = "2026-W35"

func newTestPolicy(dir DirectoryStore, config PolicyConfig) *PolicyService {
	return NewPolicyService(newTestResolver(dir), config)
}

func TestAdminHasFullAccess(t *testing.T) {
	policy := newTestPolicy(&stubDirectory{}, DefaultPolicyConfig())
	classA := uuid.New()

	deleted := publicArticle(week, 1)
	deleted.IsDeleted = true
	draft := restrictedArticle(week, 1, classA)
	draft.IsPublished = false
	orphaned := restrictedArticle(week, 1) // no classes at all

	for _, a := range []*model.Article{publicArticle(week, 1), restrictedArticle(week, 1, classA), deleted, draft, orphaned} {
		assert.True(t, policy.CanView(model.RoleAdmin, nil, a))
		assert.True(t, policy.CanEdit(model.RoleAdmin, nil, a))
		assert.True(t, policy.CanDelete(model.RoleAdmin, nil, a))
	}
}

func TestUnknownRoleIsDeniedEverything(t *testing.T) {
	policy := newTestPolicy(&stubDirectory{}, DefaultPolicyConfig())
	classA := uuid.New()

	for _, a := range []*model.Article{publicArticle(week, 1), restrictedArticle(week, 1, classA)} {
		assert.False(t, policy.CanView(model.RoleUnknown, []uuid.UUID{classA}, a))
		assert.False(t, policy.CanEdit(model.RoleUnknown, []uuid.UUID{classA}, a))
		assert.False(t, policy.CanDelete(model.RoleUnknown, []uuid.UUID{classA}, a))
	}
}

func TestTeacherEditBoundary(t *testing.T) {
	policy := newTestPolicy(&stubDirectory{}, DefaultPolicyConfig())
	classA := uuid.New()
	classB := uuid.New()
	taught := []uuid.UUID{classA}

	assert.True(t, policy.CanEdit(model.RoleTeacher, taught, restrictedArticle(week, 1, classA, classB)),
		"teacher of one of the article's classes may edit")
	assert.False(t, policy.CanEdit(model.RoleTeacher, taught, restrictedArticle(week, 1, classB)),
		"teacher of an unrelated class may not edit")
	assert.False(t, policy.CanEdit(model.RoleTeacher, taught, publicArticle(week, 1)),
		"teachers never edit public articles")
}

func TestOnlyAdminsDelete(t *testing.T) {
	policy := newTestPolicy(&stubDirectory{}, DefaultPolicyConfig())
	classA := uuid.New()
	a := restrictedArticle(week, 1, classA)

	for _, role := range []model.Role{model.RoleTeacher, model.RoleParent, model.RoleStudent, model.RoleUnknown} {
		assert.False(t, policy.CanDelete(role, []uuid.UUID{classA}, a))
	}
}

func TestCanViewStrictPolicy(t *testing.T) {
	policy := newTestPolicy(&stubDirectory{}, DefaultPolicyConfig())
	classA := uuid.New()
	classB := uuid.New()

	assert.True(t, policy.CanView(model.RoleParent, []uuid.UUID{classA}, publicArticle(week, 1)))
	assert.True(t, policy.CanView(model.RoleParent, []uuid.UUID{classA}, restrictedArticle(week, 1, classA)))
	assert.False(t, policy.CanView(model.RoleParent, []uuid.UUID{classA}, restrictedArticle(week, 1, classB)),
		"strict policy requires class membership")
}

func TestCanViewLenientPolicy(t *testing.T) {
	policy := newTestPolicy(&stubDirectory{}, PolicyConfig{RequireGroupForView: false})
	classB := uuid.New()

	assert.True(t, policy.CanView(model.RoleStudent, nil, restrictedArticle(week, 1, classB)),
		"lenient policy admits any resolved role")
	assert.False(t, policy.CanView(model.RoleUnknown, nil, restrictedArticle(week, 1, classB)))
}

func TestRestrictedArticleWithoutClassesIsInvisible(t *testing.T) {
	classA := uuid.New()
	orphaned := restrictedArticle(week, 1) // empty class set, fail closed

	for _, config := range []PolicyConfig{DefaultPolicyConfig(), {RequireGroupForView: false}} {
		policy := newTestPolicy(&stubDirectory{}, config)
		assert.False(t, policy.CanView(model.RoleParent, []uuid.UUID{classA}, orphaned))
		assert.False(t, policy.CanView(model.RoleTeacher, []uuid.UUID{classA}, orphaned))
	}
}

func TestUnpublishedAndDeletedAreInvisibleToNonAdmins(t *testing.T) {
	policy := newTestPolicy(&stubDirectory{}, DefaultPolicyConfig())
	classA := uuid.New()

	draft := restrictedArticle(week, 1, classA)
	draft.IsPublished = false
	deleted := publicArticle(week, 1)
	deleted.IsDeleted = true

	assert.False(t, policy.CanView(model.RoleTeacher, []uuid.UUID{classA}, draft))
	assert.False(t, policy.CanView(model.RoleParent, []uuid.UUID{classA}, deleted))
}

func TestCanViewArticleResolvesActor(t *testing.T) {
	familyID := uuid.New()
	classA := uuid.New()
	dir := &stubDirectory{
		roles:       map[uuid.UUID]model.Role{familyID: model.RoleParent},
		enrollments: map[uuid.UUID][]uuid.UUID{familyID: {classA}},
	}
	policy := newTestPolicy(dir, DefaultPolicyConfig())
	ctx := context.Background()

	assert.True(t, policy.CanViewArticle(ctx, familyID, restrictedArticle(week, 1, classA)))
	assert.False(t, policy.CanViewArticle(ctx, uuid.New(), restrictedArticle(week, 1, classA)),
		"unresolvable actor sees nothing")
}

func TestAssertCanEdit(t *testing.T) {
	teacherID := uuid.New()
	familyID := uuid.New()
	classA := uuid.New()
	classB := uuid.New()

	dir := &stubDirectory{
		roles: map[uuid.UUID]model.Role{
			teacherID: model.RoleTeacher,
			familyID:  model.RoleParent,
		},
		taught: map[uuid.UUID][]uuid.UUID{teacherID: {classA}},
	}
	policy := newTestPolicy(dir, DefaultPolicyConfig())
	ctx := context.Background()

	require.NoError(t, policy.AssertCanEdit(ctx, teacherID, restrictedArticle(week, 1, classA)))

	tests := []struct {
		name    string
		actorID uuid.UUID
		article *model.Article
		role    model.Role
		reason  string
	}{
		{"parent", familyID, restrictedArticle(week, 1, classA), model.RoleParent, "parents and students cannot edit articles"},
		{"teacher of other class", teacherID, restrictedArticle(week, 1, classB), model.RoleTeacher, "not a teacher of this article's classes"},
		{"teacher on public article", teacherID, publicArticle(week, 1), model.RoleTeacher, "teachers cannot edit public articles"},
		{"unresolved actor", uuid.New(), publicArticle(week, 1), model.RoleUnknown, "the acting identity could not be resolved"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.AssertCanEdit(ctx, tt.actorID, tt.article)
			var denied *PermissionDeniedError
			require.ErrorAs(t, err, &denied)
			assert.Equal(t, ActionEdit, denied.Action)
			assert.Equal(t, tt.role, denied.Role)
			assert.Equal(t, tt.article.ID, denied.ArticleID)
			assert.Equal(t, tt.reason, denied.Reason)
		})
	}
}

func TestAssertCanDelete(t *testing.T) {
	adminID := uuid.New()
	teacherID := uuid.New()
	classA := uuid.New()

	dir := &stubDirectory{
		roles: map[uuid.UUID]model.Role{
			adminID:   model.RoleAdmin,
			teacherID: model.RoleTeacher,
		},
		taught: map[uuid.UUID][]uuid.UUID{teacherID: {classA}},
	}
	policy := newTestPolicy(dir, DefaultPolicyConfig())
	ctx := context.Background()
	a := restrictedArticle(week, 1, classA)

	require.NoError(t, policy.AssertCanDelete(ctx, adminID, a))

	err := policy.AssertCanDelete(ctx, teacherID, a)
	var denied *PermissionDeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, ActionDelete, denied.Action)
	assert.Equal(t, "only administrators can delete articles", denied.Reason)
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "You don't have permission to edit this article",
		ErrorMessage(&PermissionDeniedError{Action: ActionEdit}))
	assert.Equal(t, "Invalid request: at least one class is required",
		ErrorMessage(&ValidationError{Reason: "at least one class is required"}))
	assert.Equal(t, "The newsletter could not be loaded, please try again",
		ErrorMessage(&DependencyError{Step: StepPublic, Err: errors.New("boom")}))
	assert.Equal(t, "Something went wrong", ErrorMessage(errors.New("boom")))
}

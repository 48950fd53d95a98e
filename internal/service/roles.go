package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/schoolweekly/schoolweekly/internal/model"
)

// RoleResolver resolves actor identities against the directory store.
// Results are cached per actor for the session; concurrent first
// resolutions for the same actor are collapsed into one directory
// call.
//
// Resolution never fails loudly: an unreachable directory yields
// model.RoleUnknown (no permissions) or an empty group set, and the
// failure is logged. Callers treat the result as authoritative.
type RoleResolver struct {
	dir    DirectoryStore
	cache  *PermissionCache
	flight singleflight.Group
	logger *zap.Logger
}

func NewRoleResolver(dir DirectoryStore, cache *PermissionCache, logger *zap.Logger) *RoleResolver {
	return &RoleResolver{
		dir:    dir,
		cache:  cache,
		logger: logger,
	}
}

// Cache exposes the session cache so the session owner can invalidate
// it on a login change.
func (r *RoleResolver) Cache() *PermissionCache {
	return r.cache
}

// ResolveRole returns the actor's role, or model.RoleUnknown if the
// directory lookup fails. Failures are not cached, so a transient
// directory outage does not pin an actor to RoleUnknown for the whole
// session.
func (r *RoleResolver) ResolveRole(ctx context.Context, actorID uuid.UUID) model.Role {
	if role, ok := r.cache.Role(actorID); ok {
		return role
	}

	result, err, _ := r.flight.Do("role:"+actorID.String(), func() (interface{}, error) {
		role, err := r.dir.GetRole(ctx, actorID)
		if err != nil {
			return nil, fmt.Errorf("get role: %w", err)
		}
		r.cache.SetRole(actorID, role)
		return role, nil
	})

	if err != nil {
		r.logger.Warn("role resolution failed, treating as unknown",
			zap.String("actor_id", actorID.String()),
			zap.Error(err))
		return model.RoleUnknown
	}

	return result.(model.Role)
}

// ResolveTaughtGroups returns the classes a teacher is assigned to.
// An empty set is returned on lookup failure.
func (r *RoleResolver) ResolveTaughtGroups(ctx context.Context, teacherID uuid.UUID) []uuid.UUID {
	if groups, ok := r.cache.TaughtGroups(teacherID); ok {
		return groups
	}

	result, err, _ := r.flight.Do("taught:"+teacherID.String(), func() (interface{}, error) {
		groups, err := r.dir.GetTaughtGroups(ctx, teacherID)
		if err != nil {
			return nil, fmt.Errorf("get taught groups: %w", err)
		}
		r.cache.SetTaughtGroups(teacherID, groups)
		return groups, nil
	})

	if err != nil {
		r.logger.Warn("taught groups resolution failed, treating as empty",
			zap.String("teacher_id", teacherID.String()),
			zap.Error(err))
		return nil
	}

	return result.([]uuid.UUID)
}

// ResolveViewerGroups returns the group memberships relevant for
// visibility checks: taught classes for a teacher, the children's
// classes for a parent, nothing for everyone else.
func (r *RoleResolver) ResolveViewerGroups(ctx context.Context, actorID uuid.UUID, role model.Role) []uuid.UUID {
	switch role {
	case model.RoleTeacher:
		return r.ResolveTaughtGroups(ctx, actorID)
	case model.RoleParent:
		if groups, ok := r.cache.Enrollments(actorID); ok {
			return groups
		}
		result, err, _ := r.flight.Do("enrollments:"+actorID.String(), func() (interface{}, error) {
			groups, err := r.dir.GetActiveEnrollments(ctx, actorID)
			if err != nil {
				return nil, fmt.Errorf("get active enrollments: %w", err)
			}
			r.cache.SetEnrollments(actorID, groups)
			return groups, nil
		})
		if err != nil {
			r.logger.Warn("enrollment resolution failed, treating as empty",
				zap.String("family_id", actorID.String()),
				zap.Error(err))
			return nil
		}
		return result.([]uuid.UUID)
	default:
		return nil
	}
}

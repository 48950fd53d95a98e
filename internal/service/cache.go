package service

import (
	"sync"

	"github.com/google/uuid"

	"github.com/schoolweekly/schoolweekly/internal/model"
)

// PermissionCache memoizes directory lookups for the lifetime of one
// session. It is the only mutable shared state in the engine: a stale
// entry surviving a login change would leak one actor's permissions to
// another, so Clear must be called whenever the acting identity
// changes.
type PermissionCache struct {
	mu          sync.RWMutex
	roles       map[uuid.UUID]model.Role
	taught      map[uuid.UUID][]uuid.UUID
	enrollments map[uuid.UUID][]uuid.UUID
}

func NewPermissionCache() *PermissionCache {
	return &PermissionCache{
		roles:       make(map[uuid.UUID]model.Role),
		taught:      make(map[uuid.UUID][]uuid.UUID),
		enrollments: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (c *PermissionCache) Role(actorID uuid.UUID) (model.Role, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	role, ok := c.roles[actorID]
	return role, ok
}

func (c *PermissionCache) SetRole(actorID uuid.UUID, role model.Role) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roles[actorID] = role
}

func (c *PermissionCache) TaughtGroups(teacherID uuid.UUID) ([]uuid.UUID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	groups, ok := c.taught[teacherID]
	return groups, ok
}

func (c *PermissionCache) SetTaughtGroups(teacherID uuid.UUID, groups []uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.taught[teacherID] = groups
}

func (c *PermissionCache) Enrollments(familyID uuid.UUID) ([]uuid.UUID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	groups, ok := c.enrollments[familyID]
	return groups, ok
}

func (c *PermissionCache) SetEnrollments(familyID uuid.UUID, groups []uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enrollments[familyID] = groups
}

// Clear drops every cached resolution.
func (c *PermissionCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roles = make(map[uuid.UUID]model.Role)
	c.taught = make(map[uuid.UUID][]uuid.UUID)
	c.enrollments = make(map[uuid.UUID][]uuid.UUID)
}

package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schoolweekly/schoolweekly/internal/model"
	"github.com/schoolweekly/schoolweekly/internal/repository/base"
)

// DirectoryRepository reads the school directory: actor roles, teacher
// class assignments and family enrollments. All of it is owned by the
// external roster system; this repository never writes.
type DirectoryRepository struct {
	*base.Repository
}

func NewDirectoryRepository(pool *pgxpool.Pool) *DirectoryRepository {
	return &DirectoryRepository{Repository: base.NewRepository(pool)}
}

// GetRole looks up an actor's role. An unknown identity yields
// model.RoleUnknown with no error; only real lookup failures error.
func (r *DirectoryRepository) GetRole(ctx context.Context, actorID uuid.UUID) (model.Role, error) {
	query := `
		SELECT role
		FROM actors
		WHERE id = $1
	`

	var role model.Role
	err := r.QueryRow(ctx, query, actorID).Scan(&role)
	if err != nil {
		if base.IsNotFound(err) {
			return model.RoleUnknown, nil
		}
		return model.RoleUnknown, fmt.Errorf("get role: %w", err)
	}

	return role, nil
}

// GetTaughtGroups returns the classes a teacher is assigned to.
func (r *DirectoryRepository) GetTaughtGroups(ctx context.Context, teacherID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT group_id
		FROM teacher_groups
		WHERE teacher_id = $1
	`

	rows, err := r.Query(ctx, query, teacherID)
	if err != nil {
		return nil, fmt.Errorf("get taught groups: %w", err)
	}
	defer rows.Close()

	var groupIDs []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan taught group: %w", err)
		}
		groupIDs = append(groupIDs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate taught groups: %w", err)
	}

	return groupIDs, nil
}

// GetActiveEnrollments returns the classes a family has non-graduated
// children in.
func (r *DirectoryRepository) GetActiveEnrollments(ctx context.Context, familyID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT group_id
		FROM enrollments
		WHERE family_id = $1 AND graduated_at IS NULL
	`

	rows, err := r.Query(ctx, query, familyID)
	if err != nil {
		return nil, fmt.Errorf("get active enrollments: %w", err)
	}
	defer rows.Close()

	var groupIDs []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		groupIDs = append(groupIDs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate enrollments: %w", err)
	}

	return groupIDs, nil
}

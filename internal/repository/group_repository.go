package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schoolweekly/schoolweekly/internal/model"
	"github.com/schoolweekly/schoolweekly/internal/repository/base"
)

// GroupRepository reads classes. Class lifecycle is owned by the
// roster system.
type GroupRepository struct {
	*base.Repository
}

func NewGroupRepository(pool *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{Repository: base.NewRepository(pool)}
}

// GetGroup fetches one class by id. Returns nil when the class does
// not exist.
func (r *GroupRepository) GetGroup(ctx context.Context, groupID uuid.UUID) (*model.Group, error) {
	query := `
		SELECT id, name, grade_year, created_at
		FROM groups
		WHERE id = $1
	`

	var group model.Group
	err := r.QueryRow(ctx, query, groupID).Scan(
		&group.ID,
		&group.Name,
		&group.GradeYear,
		&group.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get group: %w", err)
	}

	return &group, nil
}

// GetGroupsByIDs batch-fetches classes, keyed by id. Missing ids are
// simply absent from the result.
func (r *GroupRepository) GetGroupsByIDs(ctx context.Context, groupIDs []uuid.UUID) (map[uuid.UUID]*model.Group, error) {
	groups := make(map[uuid.UUID]*model.Group, len(groupIDs))
	if len(groupIDs) == 0 {
		return groups, nil
	}

	query := `
		SELECT id, name, grade_year, created_at
		FROM groups
		WHERE id = ANY($1)
	`

	rows, err := r.Query(ctx, query, groupIDs)
	if err != nil {
		return nil, fmt.Errorf("get groups by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var group model.Group
		err := rows.Scan(
			&group.ID,
			&group.Name,
			&group.GradeYear,
			&group.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups[group.ID] = &group
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate groups: %w", err)
	}

	return groups, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schoolweekly/schoolweekly/internal/model"
	"github.com/schoolweekly/schoolweekly/internal/repository/base"
)

// ArticleRepository stores newsletter articles and their class
// restrictions.
type ArticleRepository struct {
	*base.Repository
}

func NewArticleRepository(pool *pgxpool.Pool) *ArticleRepository {
	return &ArticleRepository{Repository: base.NewRepository(pool)}
}

const articleColumns = `
	a.id, a.week_key, a.title, a.position, a.is_published, a.is_deleted,
	a.visibility, a.created_at,
	COALESCE(array_agg(g.group_id) FILTER (WHERE g.group_id IS NOT NULL), '{}')
`

// QueryPublicArticles returns the week's published public articles in
// position order.
func (r *ArticleRepository) QueryPublicArticles(ctx context.Context, weekKey string) ([]*model.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles a
		LEFT JOIN article_groups g ON g.article_id = a.id
		WHERE a.week_key = $1
		  AND a.visibility = 'public'
		  AND a.is_published
		  AND NOT a.is_deleted
		GROUP BY a.id
		ORDER BY a.position
	`

	articles, err := r.queryArticles(ctx, query, weekKey)
	if err != nil {
		return nil, fmt.Errorf("query public articles: %w", err)
	}
	return articles, nil
}

// QueryRestrictedArticles returns the week's published class-restricted
// articles in position order.
func (r *ArticleRepository) QueryRestrictedArticles(ctx context.Context, weekKey string) ([]*model.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles a
		LEFT JOIN article_groups g ON g.article_id = a.id
		WHERE a.week_key = $1
		  AND a.visibility = 'class'
		  AND a.is_published
		  AND NOT a.is_deleted
		GROUP BY a.id
		ORDER BY a.position
	`

	articles, err := r.queryArticles(ctx, query, weekKey)
	if err != nil {
		return nil, fmt.Errorf("query restricted articles: %w", err)
	}
	return articles, nil
}

// ListArticles returns every article of a week regardless of state,
// for the admin listing.
func (r *ArticleRepository) ListArticles(ctx context.Context, weekKey string) ([]*model.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles a
		LEFT JOIN article_groups g ON g.article_id = a.id
		WHERE a.week_key = $1
		GROUP BY a.id
		ORDER BY a.position
	`

	articles, err := r.queryArticles(ctx, query, weekKey)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return articles, nil
}

func (r *ArticleRepository) queryArticles(ctx context.Context, query string, args ...interface{}) ([]*model.Article, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*model.Article
	for rows.Next() {
		var a model.Article
		err := rows.Scan(
			&a.ID,
			&a.WeekKey,
			&a.Title,
			&a.Order,
			&a.IsPublished,
			&a.IsDeleted,
			&a.Visibility,
			&a.CreatedAt,
			&a.GroupIDs,
		)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate articles: %w", err)
	}

	return articles, nil
}

// UpdateVisibility persists an article's visibility and its class set
// in one transaction.
func (r *ArticleRepository) UpdateVisibility(ctx context.Context, article *model.Article) error {
	tx, err := r.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE articles SET visibility = $1 WHERE id = $2`,
		article.Visibility, article.ID)
	if err != nil {
		return fmt.Errorf("update visibility: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("article not found")
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM article_groups WHERE article_id = $1`,
		article.ID); err != nil {
		return fmt.Errorf("clear article groups: %w", err)
	}

	if article.Visibility == model.VisibilityClass {
		for _, groupID := range article.GroupIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO article_groups (article_id, group_id) VALUES ($1, $2)`,
				article.ID, groupID); err != nil {
				return fmt.Errorf("insert article group: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

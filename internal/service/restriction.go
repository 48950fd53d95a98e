package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolweekly/schoolweekly/internal/model"
)

// RestrictionService is the only write path for article visibility.
// Every class-restricted article in the store went through
// ApplyRestriction, so a restricted article always names at least one
// class.
//
// The service does not check who is asking; callers gate both
// transitions with PolicyService.AssertCanEdit first.
type RestrictionService struct {
	articles ArticleStore
	logger   *zap.Logger
}

func NewRestrictionService(articles ArticleStore, logger *zap.Logger) *RestrictionService {
	return &RestrictionService{articles: articles, logger: logger}
}

// ApplyRestriction restricts the article to the given classes and
// persists the change, returning the updated article. An empty class
// set is rejected.
func (s *RestrictionService) ApplyRestriction(ctx context.Context, a *model.Article, groupIDs []uuid.UUID) (*model.Article, error) {
	groupIDs = dedupeIDs(groupIDs)
	if len(groupIDs) == 0 {
		return nil, &ValidationError{Reason: "at least one class is required"}
	}

	updated := a.Clone()
	updated.Visibility = model.VisibilityClass
	updated.GroupIDs = groupIDs

	if err := s.articles.UpdateVisibility(ctx, updated); err != nil {
		return nil, fmt.Errorf("apply restriction: %w", err)
	}

	s.logger.Info("article restricted",
		zap.String("article_id", updated.ID.String()),
		zap.Int("classes", len(groupIDs)))

	return updated, nil
}

// ClearRestriction makes the article public again. Clearing an
// already-public article is a no-op success.
func (s *RestrictionService) ClearRestriction(ctx context.Context, a *model.Article) (*model.Article, error) {
	if a.IsPublic() {
		return a, nil
	}

	updated := a.Clone()
	updated.Visibility = model.VisibilityPublic
	updated.GroupIDs = nil

	if err := s.articles.UpdateVisibility(ctx, updated); err != nil {
		return nil, fmt.Errorf("clear restriction: %w", err)
	}

	s.logger.Info("article made public",
		zap.String("article_id", updated.ID.String()))

	return updated, nil
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

package service

import (
	"context"
	"math"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/schoolweekly/schoolweekly/internal/model"
)

// FamilyFeed is one family's view of a newsletter week: the visible
// articles in display order, and the classes the family's children are
// enrolled in (used by the UI for labeling).
type FamilyFeed struct {
	Articles []*model.Article `json:"articles"`
	GroupIDs []uuid.UUID      `json:"group_ids"`
}

// FeedService computes which articles of a week a viewer may see.
//
// All source fetches for one aggregation run concurrently; a failure
// of any of them aborts the whole aggregation with a DependencyError.
// A partial feed is never returned, since silently dropping a source
// would render an incorrect visible set.
type FeedService struct {
	dir      DirectoryStore
	articles ArticleStore
	groups   GroupStore
	logger   *zap.Logger
}

func NewFeedService(dir DirectoryStore, articles ArticleStore, groups GroupStore, logger *zap.Logger) *FeedService {
	return &FeedService{
		dir:      dir,
		articles: articles,
		groups:   groups,
		logger:   logger,
	}
}

// VisibleArticlesForGroup returns the week's articles visible to a
// single class: public ones plus those restricted to the class,
// ordered by position.
func (s *FeedService) VisibleArticlesForGroup(ctx context.Context, groupID uuid.UUID, weekKey string) ([]*model.Article, error) {
	var public, restricted []*model.Article

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := s.articles.QueryPublicArticles(ctx, weekKey)
		if err != nil {
			return &DependencyError{Step: StepPublic, Err: err}
		}
		public = items
		return nil
	})
	g.Go(func() error {
		items, err := s.articles.QueryRestrictedArticles(ctx, weekKey)
		if err != nil {
			return &DependencyError{Step: StepRestricted, Err: err}
		}
		restricted = items
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make([]*model.Article, 0, len(public)+len(restricted))
	seen := make(map[uuid.UUID]struct{}, len(public)+len(restricted))
	for _, a := range public {
		if _, ok := seen[a.ID]; ok {
			continue
		}
		seen[a.ID] = struct{}{}
		merged = append(merged, a)
	}
	for _, a := range restricted {
		if !a.RestrictedTo(groupID) {
			continue
		}
		if _, ok := seen[a.ID]; ok {
			continue
		}
		seen[a.ID] = struct{}{}
		merged = append(merged, a)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Order < merged[j].Order
	})

	return merged, nil
}

// VisibleArticlesForFamily returns the week's articles visible to a
// family with children in any number of classes.
//
// Restricted articles come first, those of the oldest child's grade on
// top, followed by the public articles; position breaks ties. The
// ordering is a deliberate product decision and is independent of
// fetch completion order.
func (s *FeedService) VisibleArticlesForFamily(ctx context.Context, familyID uuid.UUID, weekKey string) (*FamilyFeed, error) {
	var (
		familyGroups []uuid.UUID
		public       []*model.Article
		restricted   []*model.Article
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		groups, err := s.dir.GetActiveEnrollments(gctx, familyID)
		if err != nil {
			return &DependencyError{Step: StepEnrollments, Err: err}
		}
		familyGroups = groups
		return nil
	})
	g.Go(func() error {
		items, err := s.articles.QueryPublicArticles(gctx, weekKey)
		if err != nil {
			return &DependencyError{Step: StepPublic, Err: err}
		}
		public = items
		return nil
	})
	g.Go(func() error {
		items, err := s.articles.QueryRestrictedArticles(gctx, weekKey)
		if err != nil {
			return &DependencyError{Step: StepRestricted, Err: err}
		}
		restricted = items
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	inFamily := make(map[uuid.UUID]struct{}, len(familyGroups))
	for _, id := range familyGroups {
		inFamily[id] = struct{}{}
	}

	matching := restricted[:0:0]
	needGrades := make(map[uuid.UUID]struct{})
	for _, a := range restricted {
		match := false
		for _, id := range a.GroupIDs {
			if _, ok := inFamily[id]; ok {
				match = true
				needGrades[id] = struct{}{}
			}
		}
		if match {
			matching = append(matching, a)
		}
	}

	grades, err := s.gradeYears(ctx, needGrades)
	if err != nil {
		return nil, err
	}

	feed := &FamilyFeed{
		Articles: mergeFamilyArticles(public, matching, grades),
		GroupIDs: sortedIDs(inFamily),
	}

	s.logger.Debug("aggregated family feed",
		zap.String("family_id", familyID.String()),
		zap.String("week", weekKey),
		zap.Int("articles", len(feed.Articles)),
		zap.Int("groups", len(feed.GroupIDs)))

	return feed, nil
}

// gradeYears batch-loads the grade year of every class the sort key
// needs.
func (s *FeedService) gradeYears(ctx context.Context, groupIDs map[uuid.UUID]struct{}) (map[uuid.UUID]int, error) {
	grades := make(map[uuid.UUID]int, len(groupIDs))
	if len(groupIDs) == 0 {
		return grades, nil
	}

	groups, err := s.groups.GetGroupsByIDs(ctx, sortedIDs(groupIDs))
	if err != nil {
		return nil, &DependencyError{Step: StepGroups, Err: err}
	}
	for id, group := range groups {
		grades[id] = group.GradeYear
	}
	return grades, nil
}

// mergeFamilyArticles deduplicates the public and matching restricted
// articles by id and sorts them for display. The primary key is the
// highest grade year the article is restricted to among the family's
// classes, descending; public articles rank below every restricted
// one. Position within the week breaks ties.
func mergeFamilyArticles(public, restricted []*model.Article, grades map[uuid.UUID]int) []*model.Article {
	const publicRank = math.MinInt

	merged := make([]*model.Article, 0, len(public)+len(restricted))
	rank := make(map[uuid.UUID]int, len(public)+len(restricted))

	for _, a := range public {
		if _, ok := rank[a.ID]; ok {
			continue
		}
		rank[a.ID] = publicRank
		merged = append(merged, a)
	}
	for _, a := range restricted {
		if _, ok := rank[a.ID]; ok {
			continue
		}
		best := publicRank
		for _, id := range a.GroupIDs {
			if grade, ok := grades[id]; ok && grade > best {
				best = grade
			}
		}
		rank[a.ID] = best
		merged = append(merged, a)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		ri, rj := rank[merged[i].ID], rank[merged[j].ID]
		if ri != rj {
			return ri > rj
		}
		return merged[i].Order < merged[j].Order
	})

	return merged
}

func sortedIDs(set map[uuid.UUID]struct{}) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids
}

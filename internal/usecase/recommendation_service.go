package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/ecocart/backend/internal/domain"
)

// maxRecommendations caps how many catalog items are returned
const maxRecommendations = 5

// RecommendationCatalog is the fixed set of products that can be recommended
var RecommendationCatalog = []domain.CatalogItem{
	{ID: 1, Name: "Eco-Friendly Toothbrush", Category: "Personal Care"},
	{ID: 2, Name: "Reusable Shopping Bag", Category: "Groceries"},
	{ID: 3, Name: "Bamboo Cutlery Set", Category: "Kitchen"},
	{ID: 4, Name: "Solar Powered Charger", Category: "Electronics"},
	{ID: 5, Name: "Compostable Trash Bags", Category: "Home"},
}

// Enricher hydrates a product name into a record
type Enricher interface {
	Enrich(ctx context.Context, productName string, preferences []string) (*domain.ProductRecord, error)
}

// RecommendationService ranks the catalog for a user and hydrates the top items
type RecommendationService struct {
	ranker   domain.Ranker
	enricher Enricher
	catalog  []domain.CatalogItem
}

// NewRecommendationService creates a new recommendation service over RecommendationCatalog
func NewRecommendationService(ranker domain.Ranker, enricher Enricher) *RecommendationService {
	return &RecommendationService{
		ranker:   ranker,
		enricher: enricher,
		catalog:  RecommendationCatalog,
	}
}

// Recommend returns up to five catalog products ordered by descending affinity
func (s *RecommendationService) Recommend(ctx context.Context, userSequence []int) ([]domain.Recommendation, error) {
	scores, err := s.ranker.Rank(ctx, userSequence, s.catalog)
	if err != nil {
		return nil, fmt.Errorf("%w: ranking failed: %v", domain.ErrInternal, err)
	}
	if len(scores) != len(s.catalog) {
		return nil, fmt.Errorf("%w: ranker returned %d scores for %d items", domain.ErrInternal, len(scores), len(s.catalog))
	}

	order := make([]int, len(s.catalog))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	if len(order) > maxRecommendations {
		order = order[:maxRecommendations]
	}

	recommendations := make([]domain.Recommendation, 0, len(order))
	for _, idx := range order {
		item := s.catalog[idx]
		record, err := s.enricher.Enrich(ctx, item.Name, nil)
		if err != nil {
			return nil, err
		}
		if record == nil {
			continue
		}
		recommendations = append(recommendations, domain.Recommendation{
			ID:            item.ID,
			Category:      item.Category,
			ProductRecord: *record,
		})
	}

	log.Debug().Ints("sequence", userSequence).Int("count", len(recommendations)).Msg("Recommendations built")
	return recommendations, nil
}

// RandomRanker assigns every item an independent uniform score. It stands in
// until a trained sequence model is available.
type RandomRanker struct {
	next func() float64
}

// NewRandomRanker creates a ranker backed by the global random source
func NewRandomRanker() *RandomRanker {
	return &RandomRanker{next: rand.Float64}
}

// Rank implements domain.Ranker
func (r *RandomRanker) Rank(_ context.Context, _ []int, catalog []domain.CatalogItem) ([]float64, error) {
	scores := make([]float64, len(catalog))
	for i := range scores {
		scores[i] = r.next()
	}
	return scores, nil
}

// HistoryRanker scores items by how often they appear in the user sequence,
// weighting later interactions more heavily.
type HistoryRanker struct{}

// NewHistoryRanker creates a deterministic history-based ranker
func NewHistoryRanker() *HistoryRanker {
	return &HistoryRanker{}
}

// Rank implements domain.Ranker
func (HistoryRanker) Rank(_ context.Context, userSequence []int, catalog []domain.CatalogItem) ([]float64, error) {
	position := make(map[int]int, len(catalog))
	for i, item := range catalog {
		position[item.ID] = i
	}

	scores := make([]float64, len(catalog))
	n := float64(len(userSequence))
	for i, id := range userSequence {
		if idx, ok := position[id]; ok {
			scores[idx] += float64(i+1) / n
		}
	}
	return scores, nil
}

// NewRanker returns the ranker for a configured strategy name
func NewRanker(strategy string) (domain.Ranker, error) {
	switch strategy {
	case "", "random":
		return NewRandomRanker(), nil
	case "history":
		return NewHistoryRanker(), nil
	default:
		return nil, fmt.Errorf("unknown recommender strategy %q", strategy)
	}
}

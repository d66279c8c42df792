package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"platepick_server/config"
	"platepick_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// FilterOptions are the hard constraints applied before ranking.
type FilterOptions struct {
	PriceMin            int
	PriceMax            int
	Vibes               []string
	DietaryRestrictions []string
	OpenNow             bool
}

// FilterByPreferences removes candidates violating the price band. Places
// that declare no price level are never excluded by price: absence is not a
// violation. Dietary and vibe constraints are accepted but unenforced --
// candidates carry no attribute to check them against, and that soft-filter
// behavior is deliberate policy, not a gap to close here.
func FilterByPreferences(places []models.Place, filters FilterOptions) []models.Place {
	out := make([]models.Place, 0, len(places))
	for _, p := range places {
		if filters.PriceMin > 0 && p.PriceLevel > 0 && p.PriceLevel < filters.PriceMin {
			continue
		}
		if filters.PriceMax > 0 && p.PriceLevel > 0 && p.PriceLevel > filters.PriceMax {
			continue
		}
		out = append(out, p)
	}
	return out
}

// WeightByFavorites scores candidates against a profile built from the
// user's favorited places: a cuisine-frequency histogram, the average
// favorited price level, and the place's own rating. Without favorites every
// place keeps the base weight.
func WeightByFavorites(places, favorites []models.Place, w config.RankingWeights) []models.Place {
	out := make([]models.Place, len(places))
	if len(favorites) == 0 {
		for i, p := range places {
			p.Weight = 1.0
			out[i] = p
		}
		return out
	}

	cuisineCounts := make(map[string]int)
	var priceSum, priceCount int
	for _, fav := range favorites {
		for _, c := range fav.Cuisines {
			cuisineCounts[c]++
		}
		if fav.PriceLevel > 0 {
			priceSum += fav.PriceLevel
			priceCount++
		}
	}
	avgPrice := 2.0
	if priceCount > 0 {
		avgPrice = float64(priceSum) / float64(priceCount)
	}

	for i, p := range places {
		weight := 1.0
		for _, c := range p.Cuisines {
			weight += float64(cuisineCounts[c]) * w.CuisineBoost
		}
		if p.PriceLevel > 0 {
			priceDiff := math.Abs(float64(p.PriceLevel) - avgPrice)
			weight += math.Max(0, 1-priceDiff*w.PriceDecay)
		}
		if p.Rating > 0 {
			weight += (p.Rating - 3.5) * w.RatingBoost
		}
		p.Weight = weight
		out[i] = p
	}
	return out
}

// FeatureSimilarity is a cosine-like averaged similarity across three
// sub-scores: cuisine-set overlap ratio, price closeness, and exact
// time-of-day match.
func FeatureSimilarity(a, b models.FeatureVector) float64 {
	var similarity float64
	var count int

	if len(a.Cuisines) > 0 || len(b.Cuisines) > 0 {
		set := make(map[string]bool, len(b.Cuisines))
		for _, c := range b.Cuisines {
			set[c] = true
		}
		overlap := 0
		for _, c := range a.Cuisines {
			if set[c] {
				overlap++
			}
		}
		denom := len(a.Cuisines)
		if len(b.Cuisines) > denom {
			denom = len(b.Cuisines)
		}
		if denom < 1 {
			denom = 1
		}
		similarity += float64(overlap) / float64(denom)
		count++
	}

	if a.Price > 0 && b.Price > 0 {
		similarity += 1 - math.Abs(float64(a.Price-b.Price))/3
		count++
	}

	if a.TimeOfDay != "" && b.TimeOfDay != "" {
		if a.TimeOfDay == b.TimeOfDay {
			similarity++
		}
		count++
	}

	if count == 0 {
		return 0
	}
	return similarity / float64(count)
}

// PlaceFeatures extracts the comparable feature vector of a candidate in the
// current request context.
func PlaceFeatures(p models.Place, timeOfDay string) models.FeatureVector {
	price := p.PriceLevel
	if price == 0 {
		price = 2
	}
	return models.FeatureVector{
		SchemaVersion: models.FeatureSchemaVersion,
		Cuisines:      p.Cuisines,
		Price:         price,
		Rating:        p.Rating,
		TimeOfDay:     timeOfDay,
	}
}

// ScoreByInteractions adjusts weights by similarity to the user's recent
// interaction records: positive-labeled history pulls similar candidates up,
// negative-labeled history pushes them down.
func ScoreByInteractions(places []models.Place, interactions []models.Interaction, timeOfDay string, w config.RankingWeights) []models.Place {
	if len(interactions) == 0 {
		return places
	}

	out := make([]models.Place, len(places))
	for i, p := range places {
		score := p.Weight
		if score == 0 {
			score = 1
		}
		features := PlaceFeatures(p, timeOfDay)
		for _, rec := range interactions {
			switch rec.Label {
			case models.LabelPositive:
				score += FeatureSimilarity(features, rec.Features) * w.PositiveWeight
			case models.LabelNegative:
				score -= FeatureSimilarity(features, rec.Features) * w.NegativeWeight
			}
		}
		p.Weight = score
		out[i] = p
	}
	return out
}

// SortWithJitter orders candidates by weight descending after adding a
// bounded uniform perturbation. The jitter is an intentional variety
// mechanism: repeated calls over the same pool do not produce a perfectly
// deterministic order.
func SortWithJitter(places []models.Place, jitter float64, rng *rand.Rand) []models.Place {
	out := make([]models.Place, len(places))
	for i, p := range places {
		if p.Weight == 0 {
			p.Weight = 1
		}
		if jitter > 0 {
			p.Weight += (rng.Float64()*2 - 1) * jitter
		}
		out[i] = p
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight > out[j].Weight })
	return out
}

// BuildReasons generates the human-readable suggestion reasons for one
// place. Reasons are display-only and independent of the numeric weighting.
func BuildReasons(p models.Place, prefs *models.UserPreferences, favorites []models.Place, pattern *models.UserPattern) []string {
	var reasons []string

	if prefs != nil && len(prefs.PreferredCuisines) > 0 {
		prefSet := make(map[string]bool, len(prefs.PreferredCuisines))
		for _, c := range prefs.PreferredCuisines {
			prefSet[c] = true
		}
		var matches []string
		for _, c := range p.Cuisines {
			if prefSet[c] {
				matches = append(matches, c)
			}
		}
		if len(matches) > 0 {
			reasons = append(reasons, fmt.Sprintf("Matches your %s preference", joinComma(matches)))
		}
	}

	if p.Rating >= 4.3 {
		reasons = append(reasons, "Highly rated")
	}

	for _, fav := range favorites {
		if cuisinesOverlap(p.Cuisines, fav.Cuisines) {
			reasons = append(reasons, "Similar to your favorites")
			break
		}
	}

	if pattern != nil && cuisinesOverlap(p.Cuisines, pattern.TopCuisines) {
		reasons = append(reasons, fmt.Sprintf("Matches your usual %s choice", pattern.TimeOfDay))
	}

	return reasons
}

func cuisinesOverlap(a, b []string) bool {
	set := make(map[string]bool, len(b))
	for _, c := range b {
		set[c] = true
	}
	for _, c := range a {
		if set[c] {
			return true
		}
	}
	return false
}

func joinComma(items []string) string {
	out := ""
	for i, s := range items {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}

// RecommendationService loads a user's ranking inputs and orders candidates.
type RecommendationService struct {
	Dynamo  *DynamoService
	Weights config.RankingWeights

	// The jitter source is shared across requests; rand.Rand is not safe
	// for concurrent use, so every draw goes through the mutex.
	randMu sync.Mutex
	rng    *rand.Rand
}

// NewRecommendationService seeds the jitter source.
func NewRecommendationService(dynamo *DynamoService, weights config.RankingWeights) *RecommendationService {
	return &RecommendationService{
		Dynamo:  dynamo,
		Weights: weights,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// FavoritePlaces loads the full place records behind a user's favorites.
func (rs *RecommendationService) FavoritePlaces(ctx context.Context, userID string) ([]models.Place, error) {
	var favorites []models.Favorite
	err := rs.Dynamo.QueryItems(ctx, models.FavoritesTable, "userId = :uid",
		map[string]types.AttributeValue{":uid": StringAttr(userID)}, &favorites)
	if err != nil {
		return nil, err
	}

	var places []models.Place
	for _, fav := range favorites {
		var place models.Place
		err := rs.Dynamo.GetItem(ctx, models.PlacesTable, map[string]types.AttributeValue{
			"placeKey": StringAttr(fav.PlaceKey),
		}, &place)
		if err != nil {
			if !errors.Is(err, ErrItemNotFound) {
				log.Printf("❌ Failed to load favorite place %s: %v", fav.PlaceKey, err)
			}
			continue
		}
		places = append(places, place)
	}
	return places, nil
}

// RecentInteractions loads the user's most recent interaction records,
// newest first, capped at limit.
func (rs *RecommendationService) RecentInteractions(ctx context.Context, userID string, limit int32) ([]models.Interaction, error) {
	var interactions []models.Interaction
	err := rs.Dynamo.QueryItemsWithOptions(ctx, models.InteractionsTable, "userId = :uid",
		map[string]types.AttributeValue{":uid": StringAttr(userID)}, limit, true, &interactions)
	if err != nil {
		return nil, err
	}
	return interactions, nil
}

// RankForUser orders candidates for a user: favorite affinity, interaction
// similarity, then the jittered descending sort. Anonymous callers get the
// jittered base ordering only.
func (rs *RecommendationService) RankForUser(ctx context.Context, userID string, places []models.Place, timeOfDay string) []models.Place {
	if userID != "" {
		favorites, err := rs.FavoritePlaces(ctx, userID)
		if err != nil {
			log.Printf("❌ Failed to load favorites for %s: %v", userID, err)
		}
		places = WeightByFavorites(places, favorites, rs.Weights)

		interactions, err := rs.RecentInteractions(ctx, userID, 100)
		if err != nil {
			log.Printf("❌ Failed to load interactions for %s: %v", userID, err)
		}
		places = ScoreByInteractions(places, interactions, timeOfDay, rs.Weights)
	}

	rs.randMu.Lock()
	defer rs.randMu.Unlock()
	return SortWithJitter(places, rs.Weights.Jitter, rs.rng)
}
